package classmate

import (
	"context"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// DefaultIncludes matches the markup extensions scanned by default.
var DefaultIncludes = []string{"**/*.{html,htm,xhtml,vue,jsx,tsx,templ}"}

// DefaultExcludes keeps vendored and generated trees out of every scan.
var DefaultExcludes = []string{
	"**/node_modules/**",
	"**/vendor/**",
	"**/dist/**",
	"**/build/**",
	"**/.git/**",
}

// WorkspaceConfig describes the document tree a Workspace serves.
type WorkspaceConfig struct {
	Root         string   // defaults to "."
	Include      []string // doublestar patterns relative to Root
	Exclude      []string // doublestar patterns relative to Root
	UseGitignore bool     // honor Root/.gitignore when present
}

// Workspace is the filesystem DocumentSource: it enumerates documents by
// glob pattern under a root directory and loads them from disk.
type Workspace struct {
	root    string
	include []string
	exclude []string
	ignorer *ignore.GitIgnore
	logger  *log.Logger
}

// NewWorkspace validates the root directory and compiles the filters. A
// missing .gitignore is fine; an unreadable one degrades to no filtering.
func NewWorkspace(cfg WorkspaceConfig, logger *log.Logger) (*Workspace, error) {
	if logger == nil {
		logger = log.Default()
	}
	root := cfg.Root
	if root == "" {
		root = "."
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("workspace root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("workspace root %s is not a directory", root)
	}

	w := &Workspace{
		root:    root,
		include: cfg.Include,
		exclude: cfg.Exclude,
		logger:  logger,
	}
	if len(w.include) == 0 {
		w.include = DefaultIncludes
	}
	if len(w.exclude) == 0 {
		w.exclude = DefaultExcludes
	}

	if cfg.UseGitignore {
		giPath := filepath.Join(root, ".gitignore")
		if _, err := os.Stat(giPath); err == nil {
			gi, err := ignore.CompileIgnoreFile(giPath)
			if err != nil {
				logger.Printf("[scan] unreadable %s, continuing without it: %v", giPath, err)
			} else {
				w.ignorer = gi
			}
		}
	}
	return w, nil
}

// Root returns the workspace root directory.
func (w *Workspace) Root() string { return w.root }

// List enumerates every document matching the include patterns, minus
// excluded and gitignored ones. Paths are deduplicated across patterns,
// restricted to regular files, and returned sorted.
func (w *Workspace) List(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range w.include {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		matches, err := doublestar.FilepathGlob(filepath.Join(w.root, pattern))
		if err != nil {
			return nil, fmt.Errorf("glob pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			if seen[match] {
				continue
			}
			seen[match] = true
			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			if w.skip(match) {
				continue
			}
			files = append(files, match)
		}
	}

	sort.Strings(files)
	return files, nil
}

// Load reads one document from disk.
func (w *Workspace) Load(ctx context.Context, p string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	return NewDocument(p, string(data)), nil
}

// Matches reports whether path is a document this workspace would scan.
// The watcher uses it to decide which filesystem events matter.
func (w *Workspace) Matches(p string) bool {
	rel, ok := w.relSlash(p)
	if !ok || w.skip(p) {
		return false
	}
	for _, pattern := range w.include {
		if doublestar.MatchUnvalidated(pattern, rel) {
			return true
		}
	}
	return false
}

// ExcludedDir reports whether a directory is excluded wholesale. A directory
// counts as excluded when files under it would be.
func (w *Workspace) ExcludedDir(dir string) bool {
	rel, ok := w.relSlash(dir)
	if !ok {
		return false
	}
	probe := path.Join(rel, "probe")
	for _, pattern := range w.exclude {
		if doublestar.MatchUnvalidated(pattern, probe) {
			return true
		}
	}
	return false
}

// skip applies the exclude patterns and the gitignore to one matched file.
func (w *Workspace) skip(p string) bool {
	rel, ok := w.relSlash(p)
	if !ok {
		return false
	}
	for _, pattern := range w.exclude {
		if doublestar.MatchUnvalidated(pattern, rel) {
			return true
		}
	}
	if w.ignorer != nil && w.ignorer.MatchesPath(rel) {
		return true
	}
	return false
}

func (w *Workspace) relSlash(p string) (string, bool) {
	rel, err := filepath.Rel(w.root, p)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
