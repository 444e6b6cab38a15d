package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/classmate-dev/classmate"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the workspace and print the identifier index",
	Long: `Enumerate every markup document in the workspace, extract the class and id
attribute values, and print a summary of the resulting index.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runScan,
}

func init() {
	f := scanCmd.Flags()
	f.Bool("list", false, "List every indexed occurrence")
	f.Bool("json", false, "Emit the index as JSON")
}

func runScan(cmd *cobra.Command, _ []string) error {
	snap, err := classmate.ScanWorkspace(cmd.Context(), buildWorkspaceConfig(), cliLogger())
	if err != nil {
		return fmt.Errorf("scanning workspace: %w", err)
	}

	if getBoolWithFallback("quiet", "quiet", false) {
		return nil
	}
	out := cmd.OutOrStdout()
	if k.Bool("json") {
		return classmate.WriteScanJSON(out, snap)
	}

	r := classmate.NewReporter(out, classmate.ShouldUseColors(getBoolWithFallback("color", "color", false)))
	r.PrintScanSummary(snap)
	if k.Bool("list") {
		r.PrintRecords(snap.Records())
	}
	return nil
}
