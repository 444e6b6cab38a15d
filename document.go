package classmate

import (
	"fmt"
	"sort"
	"strings"
)

// Document is an immutable text buffer with its offset-to-line mapping.
// Lines and columns are 1-based; offsets are 0-based byte offsets.
type Document struct {
	path       string
	text       string
	lineStarts []int // offset of the first byte of each line
}

// NewDocument builds a document and its line table from raw text.
func NewDocument(path, text string) *Document {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Document{path: path, text: text, lineStarts: starts}
}

// Path returns the document's stable reference (usually a file path).
func (d *Document) Path() string { return d.path }

// Text returns the full document text.
func (d *Document) Text() string { return d.text }

// Len returns the document length in bytes.
func (d *Document) Len() int { return len(d.text) }

// LineCount returns the number of lines, at least 1 for an empty document.
func (d *Document) LineCount() int { return len(d.lineStarts) }

// LineAt converts a byte offset to a 1-based line number. Offsets outside
// the document are clamped to the first or last line.
func (d *Document) LineAt(offset int) int {
	line, _ := d.PositionAt(offset)
	return line
}

// PositionAt converts a byte offset to a 1-based (line, column) pair.
func (d *Document) PositionAt(offset int) (line, column int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(d.text) {
		offset = len(d.text)
	}
	// First line start greater than offset; the line is the one before it.
	i := sort.SearchInts(d.lineStarts, offset+1) - 1
	return i + 1, offset - d.lineStarts[i] + 1
}

// OffsetAt converts a 1-based (line, column) pair to a byte offset. The
// column is clamped to the end of the line; an out-of-range line is an error.
func (d *Document) OffsetAt(line, column int) (int, error) {
	if line < 1 || line > len(d.lineStarts) {
		return 0, fmt.Errorf("document %s has no line %d", d.path, line)
	}
	if column < 1 {
		column = 1
	}
	start := d.lineStarts[line-1]
	end := len(d.text)
	if line < len(d.lineStarts) {
		end = d.lineStarts[line] - 1 // exclude the newline
	}
	offset := start + column - 1
	if offset > end {
		offset = end
	}
	return offset, nil
}

// LineText returns the text of a 1-based line without its trailing newline.
// An out-of-range line yields the empty string.
func (d *Document) LineText(line int) string {
	if line < 1 || line > len(d.lineStarts) {
		return ""
	}
	start := d.lineStarts[line-1]
	end := len(d.text)
	if line < len(d.lineStarts) {
		end = d.lineStarts[line] - 1
	}
	return strings.TrimSuffix(d.text[start:end], "\r")
}
