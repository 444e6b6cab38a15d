package classmate

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Terminal styles for consistent output formatting. Lipgloss degrades colors
// automatically based on terminal capabilities.
var (
	styleCyan   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	styleYellow = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	styleGreen  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	styleGray   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// renderStyle applies a lipgloss style when colors are enabled; otherwise the
// text passes through unmodified.
func renderStyle(style lipgloss.Style, text string, useColors bool) string {
	if !useColors {
		return text
	}
	return style.Render(text)
}

// ShouldUseColors decides whether terminal output gets styled: an explicit
// force flag wins, then FORCE_COLOR and GitHub Actions, then a TTY check.
func ShouldUseColors(force bool) bool {
	if force {
		return true
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	if os.Getenv("GITHUB_ACTIONS") == "true" {
		return true
	}
	if fileInfo, _ := os.Stdout.Stat(); fileInfo != nil && (fileInfo.Mode()&os.ModeCharDevice) != 0 {
		return true
	}
	return false
}

// Reporter formats snapshots, candidates and names for terminal consumption.
type Reporter struct {
	w         io.Writer
	useColors bool
}

// NewReporter creates a reporter writing to w.
func NewReporter(w io.Writer, useColors bool) *Reporter {
	return &Reporter{w: w, useColors: useColors}
}

// UseColors returns whether styled output is enabled.
func (r *Reporter) UseColors() bool { return r.useColors }

// PrintScanSummary outputs the per-kind totals and scan statistics of a
// snapshot.
func (r *Reporter) PrintScanSummary(snap *Snapshot) {
	stats := snap.Stats()

	fmt.Fprintln(r.w, renderStyle(styleCyan, "Identifier Index", r.useColors))
	fmt.Fprintln(r.w, "------------------")
	fmt.Fprintf(r.w, "Documents scanned:  %d of %d discovered\n", stats.Scanned, stats.Discovered)
	if stats.Skipped > 0 {
		fmt.Fprintf(r.w, "Documents skipped:  %d\n", stats.Skipped)
	}
	fmt.Fprintf(r.w, "Occurrences:        %d\n", snap.Len())
	fmt.Fprintf(r.w, "Distinct classes:   %d\n", len(snap.ClassNames()))
	fmt.Fprintf(r.w, "Distinct ids:       %d\n", len(snap.IDNames()))
	fmt.Fprintf(r.w, "Elapsed:            %s\n", stats.Elapsed.Round(time.Millisecond))
}

// PrintRecords outputs one file:line:column line per occurrence.
func (r *Reporter) PrintRecords(records []Record) {
	for _, rec := range records {
		location := fmt.Sprintf("%s:%d:%d:", rec.Location.Path, rec.Location.Line, rec.Location.Column)
		fmt.Fprintf(r.w, "%s %s %s\n",
			renderStyle(styleCyan, location, r.useColors),
			rec.Name,
			renderStyle(styleGray, "("+string(rec.Kind)+")", r.useColors))
	}
}

// PrintCandidates outputs completion candidates, marking the ones that
// already have a stylesheet rule.
func (r *Reporter) PrintCandidates(cands []Candidate) {
	if len(cands) == 0 {
		fmt.Fprintln(r.w, "no candidates")
		return
	}
	for _, c := range cands {
		marker := "  "
		if c.Styled {
			marker = renderStyle(styleGreen, "✓ ", r.useColors)
		}
		origin := fmt.Sprintf("(%s %s:%d)", c.Kind, c.Source, c.Line)
		fmt.Fprintf(r.w, "%s%s %s\n", marker, c.Name, renderStyle(styleGray, origin, r.useColors))
	}
}

// PrintNames outputs one name per line.
func (r *Reporter) PrintNames(names []string) {
	for _, name := range names {
		fmt.Fprintln(r.w, name)
	}
}

// PrintGenerated echoes a generated attribute snippet.
func (r *Reporter) PrintGenerated(kind Kind, name string) {
	snippet := AttributeSnippet(kind, name)
	fmt.Fprintln(r.w, renderStyle(styleGreen, snippet, r.useColors))
}

// PrintWarning outputs a yellow-flagged warning line.
func (r *Reporter) PrintWarning(msg string) {
	fmt.Fprintf(r.w, "%s %s\n", renderStyle(styleYellow, "warning:", r.useColors), msg)
}

// AttributeSnippet renders a name as a ready-to-paste markup attribute.
func AttributeSnippet(kind Kind, name string) string {
	return fmt.Sprintf(`%s=%q`, kind, name)
}

// scanExport is the stable JSON schema for scan results.
type scanExport struct {
	Version   string    `json:"version"`
	Timestamp string    `json:"timestamp"`
	Stats     ScanStats `json:"stats"`
	Classes   []string  `json:"classes"`
	IDs       []string  `json:"ids"`
	Records   []Record  `json:"records"`
}

// WriteScanJSON exports a snapshot as indented JSON.
func WriteScanJSON(w io.Writer, snap *Snapshot) error {
	out := scanExport{
		Version:   "1",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Stats:     snap.Stats(),
		Classes:   snap.ClassNames(),
		IDs:       snap.IDNames(),
		Records:   snap.Records(),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// WriteCandidatesJSON exports completion candidates as indented JSON.
func WriteCandidatesJSON(w io.Writer, cands []Candidate) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Candidates []Candidate `json:"candidates"`
	}{Candidates: cands})
}

// WriteNamesJSON exports a name list as indented JSON.
func WriteNamesJSON(w io.Writer, names []string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Names []string `json:"names"`
	}{Names: names})
}
