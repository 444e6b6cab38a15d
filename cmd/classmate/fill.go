package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/classmate-dev/classmate"
)

var fillCmd = &cobra.Command{
	Use:   "fill FILE",
	Short: "Fill every empty class/id attribute in a file with generated names",
	Long: `Find every class="", className="" or id="" attribute in FILE and splice a
freshly generated name between its quotes. All insertions are applied as one
write; names never collide with identifiers already indexed in the workspace.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runFill,
}

func init() {
	f := fillCmd.Flags()
	f.String("prefix", "", "Prefix for generated names (default from config)")
	f.String("prefix-mode", "", "Prefix derivation: fixed|element")
}

func runFill(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := args[0]
	logger := cliLogger()

	ws, err := classmate.NewWorkspace(buildWorkspaceConfig(), logger)
	if err != nil {
		return err
	}
	session := classmate.NewSession(classmate.NewIndex(ws, logger), classmate.NewGenerator())

	// fill is an explicit invocation; the autoGenerate gate applies only to
	// editor-driven triggers.
	cfg := buildTriggerConfig()
	cfg.Enabled = true
	trigger := classmate.NewTrigger(session, cfg)

	doc, err := ws.Load(ctx, path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	edits, err := trigger.HandleChange(ctx, classmate.Change{
		Doc:    doc,
		Offset: 0,
		Text:   doc.Text(),
	})
	if err != nil {
		return fmt.Errorf("filling %s: %w", path, err)
	}

	quiet := getBoolWithFallback("quiet", "quiet", false)
	out := cmd.OutOrStdout()
	if len(edits) == 0 {
		if !quiet {
			fmt.Fprintf(out, "No empty class/id attributes in %s\n", path)
		}
		return nil
	}

	if err := writeDocument(path, classmate.ApplyEdits(doc.Text(), edits)); err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(out, "Filled %d attribute(s) in %s\n", len(edits), path)
	}
	return nil
}
