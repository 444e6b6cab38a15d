// Package classmate indexes the class and id identifiers of a markup
// workspace and generates collision-free names for new ones.
//
// The index lexically extracts every class/className/id attribute value from
// the documents of a workspace and caches the result as an immutable
// snapshot, invalidated wholesale when any watched document changes. The
// generator produces short names (prefix plus a hashed fingerprint) that are
// guaranteed distinct from every identifier the index has seen and every name
// generated before.
//
// # Indexing
//
// Scan a workspace and query the snapshot:
//
//	ws, err := classmate.NewWorkspace(classmate.WorkspaceConfig{Root: "."}, nil)
//	index := classmate.NewIndex(ws, nil)
//	snap, err := index.Snapshot(ctx)
//	classes := snap.ClassNames()
//
// # Name generation
//
// A Session seeds the generator from the index before the first name of each
// index generation:
//
//	session := classmate.NewSession(index, classmate.NewGenerator())
//	name, err := session.GenerateName(ctx, "card") // "card-3f09a"
//
// # CLI tool
//
// classmate also provides a CLI. Install with:
//
//	go install github.com/classmate-dev/classmate/cmd/classmate@latest
package classmate

import (
	"context"
	"log"
)

// ScanWorkspace is the one-call entry for batch use: it builds a workspace,
// scans it once and returns the snapshot.
func ScanWorkspace(ctx context.Context, cfg WorkspaceConfig, logger *log.Logger) (*Snapshot, error) {
	ws, err := NewWorkspace(cfg, logger)
	if err != nil {
		return nil, err
	}
	return NewIndex(ws, logger).Snapshot(ctx)
}
