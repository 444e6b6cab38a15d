package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "classmate",
	Short: "Markup identifier index and collision-free name generator",
	Long: `classmate indexes the class and id attribute values used across a markup
workspace, offers them as selector completion candidates, and generates new
names guaranteed not to collide with anything already indexed.`,
	// Default behavior: run scan when no subcommand is given.
	// We must call loadConfig here because PreRunE of scanCmd
	// is not triggered when delegating via rootCmd.RunE.
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		return runScan(scanCmd, nil)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().Bool("quiet", false, "Suppress all output (exit code only)")
	rootCmd.PersistentFlags().Bool("color", false, "Force color output")
	rootCmd.PersistentFlags().String("config", ".classmate.yaml", "Config file path")
	rootCmd.PersistentFlags().String("root", "", "Workspace root directory")
	rootCmd.PersistentFlags().StringSlice("include", nil, "Glob patterns for documents to index")
	rootCmd.PersistentFlags().StringSlice("exclude", nil, "Glob patterns for documents to skip")
	rootCmd.PersistentFlags().Bool("no-gitignore", false, "Do not honor the workspace .gitignore")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(namesCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(fillCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}
