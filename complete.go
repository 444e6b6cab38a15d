package classmate

import (
	"context"
	"sort"
	"strings"
)

// Range is a half-open [Start, End) byte range inside the completed document.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Candidate is one completion offered to the hosting editor. Source and Line
// point at the first indexed occurrence of the name; Replace covers exactly
// the partial token already typed, sigil excluded.
type Candidate struct {
	Name    string `json:"name"`
	Kind    Kind   `json:"kind"`
	Source  string `json:"source"`
	Line    int    `json:"line"`
	Styled  bool   `json:"styled,omitempty"`
	Replace Range  `json:"replace"`
}

// Completer assembles completion candidates from index snapshots. It is a
// read-only consumer: candidates never touch the name generator.
type Completer struct {
	index *Index
}

// NewCompleter returns a completer over the given index.
func NewCompleter(index *Index) *Completer {
	return &Completer{index: index}
}

// StylesheetCandidates completes a partially typed `.class` or `#id` selector
// ending at offset. Candidates of the matching kind are deduplicated by name
// and, when partial characters were typed, filtered case-sensitively to names
// containing them. Names that already have a rule in this stylesheet are
// marked Styled. No selector token at the offset yields no candidates.
func (c *Completer) StylesheetCandidates(ctx context.Context, doc *Document, offset int) ([]Candidate, error) {
	sigil, partial, start, ok := selectorTokenAt(doc.Text(), offset)
	if !ok {
		return nil, nil
	}
	snap, err := c.index.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	styled := ScanStylesheet(doc.Text())
	return buildCandidates(snap, kindForSigil(sigil), partial, Range{Start: start, End: offset}, &styled), nil
}

// MarkupCandidates completes a tag-qualified `tag.partial` / `tag#partial`
// abbreviation ending at offset inside a markup document.
func (c *Completer) MarkupCandidates(ctx context.Context, doc *Document, offset int) ([]Candidate, error) {
	sigil, partial, start, ok := abbreviationAt(doc.Text(), offset)
	if !ok {
		return nil, nil
	}
	snap, err := c.index.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return buildCandidates(snap, kindForSigil(sigil), partial, Range{Start: start, End: offset}, nil), nil
}

func kindForSigil(sigil byte) Kind {
	if sigil == '#' {
		return KindID
	}
	return KindClass
}

func buildCandidates(snap *Snapshot, kind Kind, partial string, replace Range, styled *SelectorSet) []Candidate {
	seen := make(map[string]struct{})
	var out []Candidate
	for _, r := range snap.Records() {
		if r.Kind != kind {
			continue
		}
		if _, dup := seen[r.Name]; dup {
			continue
		}
		if partial != "" && !strings.Contains(r.Name, partial) {
			continue
		}
		seen[r.Name] = struct{}{}
		cand := Candidate{
			Name:    r.Name,
			Kind:    kind,
			Source:  r.Location.Path,
			Line:    r.Location.Line,
			Replace: replace,
		}
		if styled != nil {
			cand.Styled = styled.Has(kind, r.Name)
		}
		out = append(out, cand)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// selectorTokenAt recognizes a `.` or `#` selector token whose partial text
// ends exactly at offset. Returns the sigil, the typed partial and the offset
// where the partial starts.
func selectorTokenAt(text string, offset int) (sigil byte, partial string, start int, ok bool) {
	if offset < 0 || offset > len(text) {
		return 0, "", 0, false
	}
	start = offset
	for start > 0 && isIdentByte(text[start-1]) {
		start--
	}
	if start == 0 {
		return 0, "", 0, false
	}
	sigil = text[start-1]
	if sigil != '.' && sigil != '#' {
		return 0, "", 0, false
	}
	return sigil, text[start:offset], start, true
}

// abbreviationAt recognizes a tag-qualified abbreviation (`div.partial`,
// `span#partial`) ending at offset. The tag must start with a letter and sit
// on a word boundary.
func abbreviationAt(text string, offset int) (sigil byte, partial string, start int, ok bool) {
	sigil, partial, start, ok = selectorTokenAt(text, offset)
	if !ok {
		return 0, "", 0, false
	}
	tagEnd := start - 1 // the sigil position
	tagStart := tagEnd
	for tagStart > 0 && isIdentByte(text[tagStart-1]) {
		tagStart--
	}
	if tagStart == tagEnd || !isLetter(text[tagStart]) {
		return 0, "", 0, false
	}
	return sigil, partial, start, true
}

func isIdentByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' ||
		b >= '0' && b <= '9' || b == '-' || b == '_'
}

func isLetter(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}
