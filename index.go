package classmate

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// DocumentSource supplies the documents an Index scans. Workspace is the
// filesystem implementation; editor hosts can provide their own.
type DocumentSource interface {
	// List enumerates the stable references of every scannable document.
	List(ctx context.Context) ([]string, error)
	// Load reads one document by reference.
	Load(ctx context.Context, path string) (*Document, error)
}

// Index maintains the identifier snapshot for a document source. It holds a
// single cache slot: any relevant change invalidates the slot wholesale and
// the next read repopulates it with a full scan.
type Index struct {
	source DocumentSource
	logger *log.Logger

	mu         sync.Mutex
	snap       *Snapshot
	generation uint64
}

// NewIndex creates an index over source. A nil logger falls back to the
// standard logger; scans report per-document failures there and nowhere else.
func NewIndex(source DocumentSource, logger *log.Logger) *Index {
	if logger == nil {
		logger = log.Default()
	}
	return &Index{source: source, logger: logger}
}

// Snapshot returns the cached snapshot, scanning first if the slot is empty.
// Two calls without an intervening Invalidate return the identical snapshot.
func (ix *Index) Snapshot(ctx context.Context) (*Snapshot, error) {
	ix.mu.Lock()
	if ix.snap != nil {
		snap := ix.snap
		ix.mu.Unlock()
		return snap, nil
	}
	gen := ix.generation
	ix.mu.Unlock()

	snap, err := ix.scan(ctx)
	if err != nil {
		return nil, err
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.generation != gen {
		// Invalidated while scanning. The data is fresh enough for this
		// caller but must not be published; the next read rescans.
		return snap, nil
	}
	if ix.snap == nil {
		ix.snap = snap
	}
	return ix.snap, nil
}

// Scan discards the cached snapshot and rebuilds it unconditionally.
func (ix *Index) Scan(ctx context.Context) (*Snapshot, error) {
	ix.Invalidate()
	return ix.Snapshot(ctx)
}

// Invalidate empties the cache slot and bumps the generation counter.
func (ix *Index) Invalidate() {
	ix.mu.Lock()
	ix.snap = nil
	ix.generation++
	ix.mu.Unlock()
}

// Generation returns the invalidation counter. Consumers that cache derived
// state (the session's seeding, for one) compare generations to decide
// whether their cache is still current.
func (ix *Index) Generation() uint64 {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.generation
}

// scan runs outside the index lock: enumeration and document reads are the
// blocking points and must not stall concurrent Snapshot readers.
func (ix *Index) scan(ctx context.Context) (*Snapshot, error) {
	start := time.Now()

	paths, err := ix.source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerating documents: %w", err)
	}

	stats := ScanStats{Discovered: len(paths)}
	var records []Record
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := ix.source.Load(ctx, path)
		if err != nil {
			// Best effort per document: log and keep scanning.
			stats.Skipped++
			ix.logger.Printf("[scan] skipping %s: %v", path, err)
			continue
		}
		records = append(records, Extract(doc)...)
		stats.Scanned++
	}
	stats.Elapsed = time.Since(start)

	return NewSnapshot(records, stats), nil
}
