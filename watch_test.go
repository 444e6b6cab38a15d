package classmate

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startTestWatcher wires a workspace, an index with a populated snapshot and
// a running watcher over root, returning the index and the event stream.
func startTestWatcher(t *testing.T, root string) (*Index, chan WatchEvent) {
	t.Helper()

	w := newTestWorkspace(t, WorkspaceConfig{Root: root})
	ix := NewIndex(w, quietLogger())
	_, err := ix.Snapshot(context.Background())
	require.NoError(t, err)

	watcher, err := NewWatcher(w, ix, quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { watcher.Close() })

	events := make(chan WatchEvent, 16)
	watcher.OnEvent(func(ev WatchEvent) { events <- ev })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, watcher.Start(ctx))
	return ix, events
}

func waitForEvent(t *testing.T, events chan WatchEvent, op string) WatchEvent {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-events:
			if op == "" || ev.Op == op {
				return ev
			}
		case <-deadline:
			t.Fatalf("no %q watch event within 2s", op)
		}
	}
}

func TestWatcherInvalidatesOnWrite(t *testing.T) {
	root := t.TempDir()
	full := writeWorkspaceFile(t, root, "index.html", `<div class="a">`)

	ix, events := startTestWatcher(t, root)
	gen := ix.Generation()

	require.NoError(t, os.WriteFile(full, []byte(`<div class="b">`), 0o644))

	ev := waitForEvent(t, events, "")
	assert.Equal(t, "index.html", filepath.Base(ev.Path))
	assert.Greater(t, ix.Generation(), gen)

	snap, err := ix.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, snap.ClassNames(), "the next read sees the new text")
}

func TestWatcherInvalidatesOnRemove(t *testing.T) {
	root := t.TempDir()
	full := writeWorkspaceFile(t, root, "index.html", `<div class="a">`)

	ix, events := startTestWatcher(t, root)
	gen := ix.Generation()

	require.NoError(t, os.Remove(full))

	ev := waitForEvent(t, events, "remove")
	assert.Equal(t, full, ev.Path)
	assert.Greater(t, ix.Generation(), gen)
}

func TestWatcherIgnoresNonDocuments(t *testing.T) {
	root := t.TempDir()
	writeWorkspaceFile(t, root, "index.html", `<div class="a">`)

	ix, events := startTestWatcher(t, root)
	gen := ix.Generation()

	writeWorkspaceFile(t, root, "notes.txt", "not markup")

	select {
	case ev := <-events:
		t.Fatalf("unexpected watch event %+v", ev)
	case <-time.After(300 * time.Millisecond):
	}
	assert.Equal(t, gen, ix.Generation())
}

func TestWatcherIgnoresExcludedDirs(t *testing.T) {
	root := t.TempDir()
	writeWorkspaceFile(t, root, "index.html", `<div class="a">`)

	ix, events := startTestWatcher(t, root)
	gen := ix.Generation()

	writeWorkspaceFile(t, root, "node_modules/dep/page.html", `<div class="never">`)

	select {
	case ev := <-events:
		t.Fatalf("unexpected watch event %+v", ev)
	case <-time.After(300 * time.Millisecond):
	}
	assert.Equal(t, gen, ix.Generation())
}

func TestWatcherPicksUpNewDirectories(t *testing.T) {
	root := t.TempDir()
	writeWorkspaceFile(t, root, "index.html", `<div class="a">`)

	ix, events := startTestWatcher(t, root)
	gen := ix.Generation()

	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))
	// Give the create event time to land so the new directory is watched.
	time.Sleep(300 * time.Millisecond)

	writeWorkspaceFile(t, root, "sub/new.html", `<div class="fresh">`)

	ev := waitForEvent(t, events, "")
	assert.Equal(t, "new.html", filepath.Base(ev.Path))
	assert.Greater(t, ix.Generation(), gen)
}

func TestWatcherStartMissingRoot(t *testing.T) {
	root := t.TempDir()
	w := newTestWorkspace(t, WorkspaceConfig{Root: root})
	ix := NewIndex(w, quietLogger())

	watcher, err := NewWatcher(w, ix, quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { watcher.Close() })

	require.NoError(t, os.RemoveAll(root))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.Error(t, watcher.Start(ctx))
}
