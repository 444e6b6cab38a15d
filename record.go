package classmate

import (
	"sort"
	"time"
)

// Kind distinguishes the two identifier namespaces found in markup.
type Kind string

// Identifier kinds.
const (
	KindClass Kind = "class"
	KindID    Kind = "id"
)

// Location points at one occurrence inside a document. Line and Column are
// 1-based and diagnostic only; they never affect index correctness.
type Location struct {
	Path   string `json:"path"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// Record is one observed occurrence of a class or id identifier. Name keeps
// the author's literal spelling; the same name may occur many times across
// kinds and documents.
type Record struct {
	Name     string   `json:"name"`
	Kind     Kind     `json:"kind"`
	Location Location `json:"location"`
}

// ScanStats tracks document scanning statistics.
type ScanStats struct {
	Discovered int           `json:"discovered"` // documents matched by the workspace globs
	Scanned    int           `json:"scanned"`    // documents actually read and extracted
	Skipped    int           `json:"skipped"`    // documents skipped (unreadable, filtered)
	Elapsed    time.Duration `json:"elapsed"`
}

// Snapshot is the immutable result of one scan. It is never mutated after
// construction; a rescan produces a wholly new Snapshot.
type Snapshot struct {
	records []Record
	classes []string // distinct class names, sorted
	ids     []string // distinct id names, sorted
	stats   ScanStats
}

// NewSnapshot builds a snapshot over records, precomputing the deduplicated
// name lists. The records slice is owned by the snapshot afterwards.
func NewSnapshot(records []Record, stats ScanStats) *Snapshot {
	classSet := make(map[string]struct{})
	idSet := make(map[string]struct{})
	for _, r := range records {
		switch r.Kind {
		case KindID:
			idSet[r.Name] = struct{}{}
		default:
			classSet[r.Name] = struct{}{}
		}
	}
	return &Snapshot{
		records: records,
		classes: sortedKeys(classSet),
		ids:     sortedKeys(idSet),
		stats:   stats,
	}
}

// Records returns the full ordered record sequence. Callers must not modify
// the returned slice.
func (s *Snapshot) Records() []Record { return s.records }

// Len returns the number of records in the snapshot.
func (s *Snapshot) Len() int { return len(s.records) }

// Stats returns the statistics of the scan that produced this snapshot.
func (s *Snapshot) Stats() ScanStats { return s.stats }

// ClassNames returns the distinct class names, sorted.
func (s *Snapshot) ClassNames() []string { return s.classes }

// IDNames returns the distinct id names, sorted.
func (s *Snapshot) IDNames() []string { return s.ids }

// Names returns the distinct names of the given kind, sorted.
func (s *Snapshot) Names(kind Kind) []string {
	if kind == KindID {
		return s.ids
	}
	return s.classes
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
