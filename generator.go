package classmate

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"sync"

	"github.com/rs/xid"
)

// Delimiter joins the prefix and fingerprint of every generated name.
const Delimiter = "-"

// fingerprintLen is the number of lowercase hex characters in a fingerprint,
// giving a ~1M candidate space per prefix.
const fingerprintLen = 5

// maxAttempts bounds the candidate search. At five hex characters exhaustion
// is statistically near-impossible; the bound is a safety valve against a
// degenerate entropy source or a saturated namespace.
const maxAttempts = 100

// ErrExhausted is returned when no unused candidate was found within the
// attempt bound. The used-name set is left untouched.
var ErrExhausted = errors.New("no unused name found within attempt bound")

// prefixRE admits the prefixes accepted for generated names. The empty
// prefix is also legal and yields a name starting with the bare delimiter.
var prefixRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// ValidPrefix reports whether a prefix may be used for name generation.
func ValidPrefix(prefix string) bool {
	return prefix == "" || prefixRE.MatchString(prefix)
}

// Generator produces names guaranteed distinct from every name it has seen:
// names seeded from an index, names registered by callers, and names it has
// produced itself. The used set grows monotonically until an explicit Clear.
type Generator struct {
	mu          sync.Mutex
	used        map[string]struct{}
	fingerprint func() string
}

// NewGenerator returns a generator with an empty used-name set.
func NewGenerator() *Generator {
	return &Generator{
		used:        make(map[string]struct{}),
		fingerprint: newFingerprint,
	}
}

// newFingerprint derives a short fingerprint from a fresh xid, which encodes
// the current time plus per-process entropy, hashed and truncated to
// fingerprintLen lowercase hex characters.
func newFingerprint() string {
	sum := sha256.Sum256(xid.New().Bytes())
	return hex.EncodeToString(sum[:])[:fingerprintLen]
}

// Generate returns prefix + Delimiter + fingerprint, retrying until the
// candidate is absent from the used set. The successful candidate is
// registered before it is returned, so no two calls ever return equal names.
// Exceeding the attempt bound fails the call with ErrExhausted and registers
// nothing.
func (g *Generator) Generate(prefix string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i := 0; i < maxAttempts; i++ {
		name := prefix + Delimiter + g.fingerprint()
		if _, taken := g.used[name]; taken {
			continue
		}
		g.used[name] = struct{}{}
		return name, nil
	}
	return "", fmt.Errorf("generating name with prefix %q: %w", prefix, ErrExhausted)
}

// AddUsedName registers a name as unavailable. Idempotent.
func (g *Generator) AddUsedName(name string) {
	g.mu.Lock()
	g.used[name] = struct{}{}
	g.mu.Unlock()
}

// AddUsedNames registers every given name as unavailable.
func (g *Generator) AddUsedNames(names ...string) {
	g.mu.Lock()
	for _, name := range names {
		g.used[name] = struct{}{}
	}
	g.mu.Unlock()
}

// UsedNames returns a sorted copy of the used-name set. The order is for
// stable output only, not part of the contract.
func (g *Generator) UsedNames() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	names := make([]string, 0, len(g.used))
	for name := range g.used {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clear empties the used-name set. Meant for test isolation and explicit
// resets; normal runtime flow never clears.
func (g *Generator) Clear() {
	g.mu.Lock()
	g.used = make(map[string]struct{})
	g.mu.Unlock()
}
