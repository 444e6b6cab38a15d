package classmate

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanWorkspace(t *testing.T) {
	root := t.TempDir()
	writeWorkspaceFile(t, root, "index.html", "<div class=\"a b\">\n<span id=\"x\">\n")
	writeWorkspaceFile(t, root, "partials/nav.vue", `<nav class="a">`)

	snap, err := ScanWorkspace(context.Background(), WorkspaceConfig{Root: root}, quietLogger())
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, snap.ClassNames())
	assert.Equal(t, []string{"x"}, snap.IDNames())
	assert.Equal(t, 4, snap.Len())

	stats := snap.Stats()
	assert.Equal(t, 2, stats.Discovered)
	assert.Equal(t, 2, stats.Scanned)
}

func TestScanWorkspaceBadRoot(t *testing.T) {
	_, err := ScanWorkspace(context.Background(), WorkspaceConfig{Root: "/does/not/exist"}, quietLogger())
	require.Error(t, err)
}

// The end-to-end flow an editor host runs: scan, complete, generate, fill.
func TestWorkspaceEditingFlow(t *testing.T) {
	root := t.TempDir()
	writeWorkspaceFile(t, root, "page.html", `<div class="card highlight">`)

	ws := newTestWorkspace(t, WorkspaceConfig{Root: root})
	ix := NewIndex(ws, quietLogger())
	session := NewSession(ix, NewGenerator())

	// Completion offers the indexed classes after a bare dot.
	completer := NewCompleter(ix)
	cands, err := completer.StylesheetCandidates(context.Background(), NewDocument("styles.css", "."), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"card", "highlight"}, candidateNames(cands))

	// A generated name avoids everything indexed.
	name, err := session.GenerateName(context.Background(), "card")
	require.NoError(t, err)
	assert.NotContains(t, []string{"card", "highlight"}, name)

	// The trigger fills a freshly typed empty attribute with another
	// collision-free name.
	text := `<div class="card highlight"><span class="">`
	doc := NewDocument("page.html", text)
	tr := NewTrigger(session, TriggerConfig{Enabled: true, Prefix: "gen"})
	closing := strings.Index(text, `""`) + 1
	edits, err := tr.HandleChange(context.Background(), Change{Doc: doc, Offset: closing, Text: `"`})
	require.NoError(t, err)
	require.Len(t, edits, 1)
	assert.NotEqual(t, name, edits[0].Text)
}
