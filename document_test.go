package classmate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionAt(t *testing.T) {
	doc := NewDocument("page.html", "a\nbc\n")

	tests := []struct {
		name     string
		offset   int
		wantLine int
		wantCol  int
	}{
		{name: "start of document", offset: 0, wantLine: 1, wantCol: 1},
		{name: "newline byte belongs to its line", offset: 1, wantLine: 1, wantCol: 2},
		{name: "start of second line", offset: 2, wantLine: 2, wantCol: 1},
		{name: "middle of second line", offset: 3, wantLine: 2, wantCol: 2},
		{name: "end of document", offset: 5, wantLine: 3, wantCol: 1},
		{name: "negative offset clamps to start", offset: -3, wantLine: 1, wantCol: 1},
		{name: "offset past end clamps to end", offset: 42, wantLine: 3, wantCol: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, col := doc.PositionAt(tt.offset)
			assert.Equal(t, tt.wantLine, line)
			assert.Equal(t, tt.wantCol, col)
			assert.Equal(t, tt.wantLine, doc.LineAt(tt.offset))
		})
	}
}

func TestOffsetAt(t *testing.T) {
	doc := NewDocument("page.html", "a\nbc\n")

	tests := []struct {
		name    string
		line    int
		col     int
		want    int
		wantErr bool
	}{
		{name: "first byte", line: 1, col: 1, want: 0},
		{name: "second line", line: 2, col: 2, want: 3},
		{name: "column clamps to line end", line: 1, col: 99, want: 1},
		{name: "column below one clamps to line start", line: 2, col: 0, want: 2},
		{name: "trailing empty line", line: 3, col: 1, want: 5},
		{name: "line zero is out of range", line: 0, col: 1, wantErr: true},
		{name: "line past end is out of range", line: 4, col: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := doc.OffsetAt(tt.line, tt.col)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOffsetPositionRoundTrip(t *testing.T) {
	doc := NewDocument("page.html", "<div>\n  <span class=\"x\">\n</div>\n")

	for offset := 0; offset <= doc.Len(); offset++ {
		line, col := doc.PositionAt(offset)
		back, err := doc.OffsetAt(line, col)
		require.NoError(t, err)
		assert.Equal(t, offset, back, "offset %d -> %d:%d -> %d", offset, line, col, back)
	}
}

func TestLineText(t *testing.T) {
	doc := NewDocument("page.html", "a\r\nbc\nlast")

	assert.Equal(t, "a", doc.LineText(1), "carriage return is stripped")
	assert.Equal(t, "bc", doc.LineText(2))
	assert.Equal(t, "last", doc.LineText(3))
	assert.Equal(t, "", doc.LineText(0))
	assert.Equal(t, "", doc.LineText(4))
}

func TestEmptyDocument(t *testing.T) {
	doc := NewDocument("empty.html", "")

	assert.Equal(t, 1, doc.LineCount())
	assert.Equal(t, 0, doc.Len())

	line, col := doc.PositionAt(0)
	assert.Equal(t, 1, line)
	assert.Equal(t, 1, col)

	offset, err := doc.OffsetAt(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, offset)
}
