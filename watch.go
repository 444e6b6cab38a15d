package classmate

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchEvent describes one document change the watcher acted on.
type WatchEvent struct {
	Op   string `json:"op"` // create, write, remove, rename
	Path string `json:"path"`
}

// Watcher invalidates an index whenever a watched document is created,
// modified, removed or renamed. Excluded directories are never watched;
// directories created later are picked up on the fly.
type Watcher struct {
	ws      *Workspace
	index   *Index
	fsw     *fsnotify.Watcher
	logger  *log.Logger
	onEvent func(WatchEvent)
}

// NewWatcher builds a watcher over the workspace tree feeding the index.
func NewWatcher(ws *Workspace, index *Index, logger *log.Logger) (*Watcher, error) {
	if logger == nil {
		logger = log.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating filesystem watcher: %w", err)
	}
	return &Watcher{ws: ws, index: index, fsw: fsw, logger: logger}, nil
}

// OnEvent registers a callback invoked after each handled event, after the
// index has been invalidated. Set it before Start.
func (w *Watcher) OnEvent(fn func(WatchEvent)) { w.onEvent = fn }

// Start begins watching and processes events until ctx is done or Close is
// called.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addTree(w.ws.Root()); err != nil {
		return fmt.Errorf("watching %s: %w", w.ws.Root(), err)
	}
	go w.loop(ctx)
	w.logger.Printf("[watch] watching %s", w.ws.Root())
	return nil
}

// Close stops the watcher and releases its OS resources.
func (w *Watcher) Close() error { return w.fsw.Close() }

// addTree registers root and every non-excluded directory below it.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return err
			}
			w.logger.Printf("[watch] skipping %s: %v", p, err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && w.ws.ExcludedDir(p) {
			return fs.SkipDir
		}
		if err := w.fsw.Add(p); err != nil {
			w.logger.Printf("[watch] cannot watch %s: %v", p, err)
		}
		return nil
	})
}

func (w *Watcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.fsw.Close()
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Printf("[watch] error: %v", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if ev.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if !w.ws.ExcludedDir(ev.Name) {
				if err := w.addTree(ev.Name); err != nil {
					w.logger.Printf("[watch] cannot watch %s: %v", ev.Name, err)
				}
			}
			return
		}
	}
	if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) &&
		!ev.Op.Has(fsnotify.Remove) && !ev.Op.Has(fsnotify.Rename) {
		return
	}
	if !w.ws.Matches(ev.Name) {
		return
	}

	w.index.Invalidate()
	op := opString(ev.Op)
	w.logger.Printf("[watch] %s %s, index invalidated", op, ev.Name)
	if w.onEvent != nil {
		w.onEvent(WatchEvent{Op: op, Path: ev.Name})
	}
}

func opString(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Create):
		return "create"
	case op.Has(fsnotify.Write):
		return "write"
	case op.Has(fsnotify.Remove):
		return "remove"
	case op.Has(fsnotify.Rename):
		return "rename"
	}
	return op.String()
}
