package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/classmate-dev/classmate"
)

var completeCmd = &cobra.Command{
	Use:   "complete FILE",
	Short: "List completion candidates at a position in a document",
	Long: `List the indexed identifiers that complete a partially typed selector
(.partial / #partial in a stylesheet) or a tag-qualified abbreviation
(div.partial in markup) at FILE --line --col.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runComplete,
}

func init() {
	f := completeCmd.Flags()
	f.Int("line", 0, "1-based cursor line")
	f.Int("col", 0, "1-based cursor column")
	f.String("context", "", "Document context: css|markup (default from extension)")
	f.Bool("json", false, "Emit the candidates as JSON")
	_ = completeCmd.MarkFlagRequired("line")
	_ = completeCmd.MarkFlagRequired("col")
}

func runComplete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := args[0]
	logger := cliLogger()

	ws, err := classmate.NewWorkspace(buildWorkspaceConfig(), logger)
	if err != nil {
		return err
	}
	completer := classmate.NewCompleter(classmate.NewIndex(ws, logger))

	doc, err := ws.Load(ctx, path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	line, _ := cmd.Flags().GetInt("line")
	col, _ := cmd.Flags().GetInt("col")
	offset, err := doc.OffsetAt(line, col)
	if err != nil {
		return err
	}

	docContext := getStringWithFallback("context", "complete.context", "")
	if docContext == "" {
		if strings.EqualFold(filepath.Ext(path), ".css") {
			docContext = "css"
		} else {
			docContext = "markup"
		}
	}

	var cands []classmate.Candidate
	switch docContext {
	case "css":
		cands, err = completer.StylesheetCandidates(ctx, doc, offset)
	case "markup":
		cands, err = completer.MarkupCandidates(ctx, doc, offset)
	default:
		return fmt.Errorf("invalid context %q (expected css or markup)", docContext)
	}
	if err != nil {
		return err
	}

	if getBoolWithFallback("quiet", "quiet", false) {
		return nil
	}
	out := cmd.OutOrStdout()
	if k.Bool("json") {
		return classmate.WriteCandidatesJSON(out, cands)
	}
	classmate.NewReporter(out, classmate.ShouldUseColors(getBoolWithFallback("color", "color", false))).PrintCandidates(cands)
	return nil
}
