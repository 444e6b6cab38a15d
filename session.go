package classmate

import (
	"context"
	"sync"
)

// Session ties a Generator to an Index for one editing session: before the
// first name of a generation is produced, every indexed identifier is seeded
// into the generator's used set. Whether a reseed is needed is derived from
// the index generation, never tracked as a separate flag that could drift.
type Session struct {
	index *Index
	gen   *Generator

	mu       sync.Mutex
	seeded   bool
	seededAt uint64
}

// NewSession wires an index and a generator together.
func NewSession(index *Index, gen *Generator) *Session {
	return &Session{index: index, gen: gen}
}

// Index returns the session's index.
func (s *Session) Index() *Index { return s.index }

// Generator returns the session's generator.
func (s *Session) Generator() *Generator { return s.gen }

// GenerateName produces one unique name with the given prefix, seeding the
// generator from the current snapshot first when the index generation has
// moved since the last seed.
func (s *Session) GenerateName(ctx context.Context, prefix string) (string, error) {
	if err := s.ensureSeeded(ctx); err != nil {
		return "", err
	}
	return s.gen.Generate(prefix)
}

func (s *Session) ensureSeeded(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Read the generation before the snapshot: if an invalidation slips in
	// during the scan, the recorded value is already stale and the next call
	// reseeds. Erring toward an extra seed is harmless, seeding is idempotent.
	gen := s.index.Generation()
	if s.seeded && s.seededAt == gen {
		return nil
	}

	snap, err := s.index.Snapshot(ctx)
	if err != nil {
		return err
	}
	s.gen.AddUsedNames(snap.ClassNames()...)
	s.gen.AddUsedNames(snap.IDNames()...)

	s.seeded = true
	s.seededAt = gen
	return nil
}
