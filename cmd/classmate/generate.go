package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/classmate-dev/classmate"
)

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen"},
	Short:   "Generate one collision-free class or id name",
	Long: `Generate a name guaranteed not to collide with any identifier already used
in the workspace. Prefix and attribute kind are prompted for interactively
unless given as flags; with --file the attribute is spliced into the file at
--line/--col, otherwise the snippet is printed.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.String("prefix", "", "Name prefix (prompted for when omitted)")
	f.String("kind", "", "Attribute kind: class|id (prompted for when omitted)")
	f.String("file", "", "Splice the attribute into this file instead of printing it")
	f.Int("line", 1, "1-based insertion line for --file")
	f.Int("col", 1, "1-based insertion column for --file")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := cliLogger()

	ws, err := classmate.NewWorkspace(buildWorkspaceConfig(), logger)
	if err != nil {
		return err
	}
	session := classmate.NewSession(classmate.NewIndex(ws, logger), classmate.NewGenerator())

	in := bufio.NewScanner(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	// A cancelled prompt (EOF) is a normal early exit, not an error.
	prefix, ok, err := resolvePrefix(cmd, in, out)
	if err != nil || !ok {
		return err
	}
	kind, ok, err := resolveKind(cmd, in, out)
	if err != nil || !ok {
		return err
	}

	name, err := session.GenerateName(ctx, prefix)
	if err != nil {
		return err
	}

	quiet := getBoolWithFallback("quiet", "quiet", false)
	file, _ := cmd.Flags().GetString("file")
	if file == "" {
		if !quiet {
			r := classmate.NewReporter(out, classmate.ShouldUseColors(getBoolWithFallback("color", "color", false)))
			r.PrintGenerated(kind, name)
		}
		return nil
	}

	line, _ := cmd.Flags().GetInt("line")
	col, _ := cmd.Flags().GetInt("col")
	snippet := classmate.AttributeSnippet(kind, name)
	if err := spliceSnippet(ctx, ws, file, line, col, snippet); err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(out, "Inserted %s at %s:%d:%d\n", snippet, file, line, col)
	}
	return nil
}

// resolvePrefix returns the generation prefix from the flag or an interactive
// prompt. ok is false when the user cancelled the prompt.
func resolvePrefix(cmd *cobra.Command, in *bufio.Scanner, out io.Writer) (string, bool, error) {
	if cmd.Flags().Changed("prefix") {
		prefix, _ := cmd.Flags().GetString("prefix")
		if !classmate.ValidPrefix(prefix) {
			return "", false, fmt.Errorf("invalid prefix %q", prefix)
		}
		return prefix, true, nil
	}

	fallback := getStringWithFallback("prefix", "generate.prefix", classmate.DefaultPrefix)
	for {
		fmt.Fprintf(out, "Prefix [%s]: ", fallback)
		if !in.Scan() {
			return "", false, in.Err()
		}
		prefix := strings.TrimSpace(in.Text())
		if prefix == "" {
			return fallback, true, nil
		}
		if classmate.ValidPrefix(prefix) {
			return prefix, true, nil
		}
		fmt.Fprintf(out, "Invalid prefix %q: use letters, digits, - or _, starting with a letter or _\n", prefix)
	}
}

// resolveKind returns the attribute kind from the flag or an interactive
// prompt defaulting to class. ok is false when the user cancelled the prompt.
func resolveKind(cmd *cobra.Command, in *bufio.Scanner, out io.Writer) (classmate.Kind, bool, error) {
	if cmd.Flags().Changed("kind") {
		raw, _ := cmd.Flags().GetString("kind")
		kind, ok := parseKindArg(raw)
		if !ok {
			return "", false, fmt.Errorf("invalid kind %q (expected class or id)", raw)
		}
		return kind, true, nil
	}

	for {
		fmt.Fprint(out, "Attribute [class/id] (class): ")
		if !in.Scan() {
			return "", false, in.Err()
		}
		raw := strings.TrimSpace(in.Text())
		if raw == "" {
			return classmate.KindClass, true, nil
		}
		if kind, ok := parseKindArg(raw); ok {
			return kind, true, nil
		}
		fmt.Fprintf(out, "Invalid kind %q: expected class or id\n", raw)
	}
}

func parseKindArg(raw string) (classmate.Kind, bool) {
	switch raw {
	case "class":
		return classmate.KindClass, true
	case "id":
		return classmate.KindID, true
	}
	return "", false
}

// spliceSnippet inserts the snippet into the file at a 1-based line/column.
func spliceSnippet(ctx context.Context, ws *classmate.Workspace, path string, line, col int, snippet string) error {
	doc, err := ws.Load(ctx, path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	offset, err := doc.OffsetAt(line, col)
	if err != nil {
		return err
	}
	patched := classmate.ApplyEdits(doc.Text(), []classmate.Edit{{Offset: offset, Text: snippet}})
	return writeDocument(path, patched)
}

// writeDocument replaces a file's contents, preserving its permission bits.
func writeDocument(path, text string) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(path, []byte(text), mode); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
