package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/classmate-dev/classmate"
)

var namesCmd = &cobra.Command{
	Use:   "names",
	Short: "List the distinct identifier names in the workspace",
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runNames,
}

func init() {
	f := namesCmd.Flags()
	f.String("kind", "", "Which names to list: class|id|all (default all)")
	f.Bool("json", false, "Emit the names as JSON")
}

func runNames(cmd *cobra.Command, _ []string) error {
	snap, err := classmate.ScanWorkspace(cmd.Context(), buildWorkspaceConfig(), cliLogger())
	if err != nil {
		return fmt.Errorf("scanning workspace: %w", err)
	}

	var names []string
	switch kind := getStringWithFallback("kind", "names.kind", "all"); kind {
	case "class":
		names = snap.ClassNames()
	case "id":
		names = snap.IDNames()
	case "all":
		names = append(snap.ClassNames(), snap.IDNames()...)
	default:
		return fmt.Errorf("invalid kind %q (expected class, id or all)", kind)
	}

	if getBoolWithFallback("quiet", "quiet", false) {
		return nil
	}
	out := cmd.OutOrStdout()
	if k.Bool("json") {
		return classmate.WriteNamesJSON(out, names)
	}
	classmate.NewReporter(out, classmate.ShouldUseColors(getBoolWithFallback("color", "color", false))).PrintNames(names)
	return nil
}
