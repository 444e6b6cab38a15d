package classmate

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequenceFingerprint replaces the entropy source with a canned sequence,
// repeating the last entry once the sequence runs out.
func sequenceFingerprint(seq ...string) func() string {
	i := 0
	return func() string {
		fp := seq[i]
		if i < len(seq)-1 {
			i++
		}
		return fp
	}
}

func TestGenerateFormat(t *testing.T) {
	g := NewGenerator()

	name, err := g.Generate("card")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^card-[0-9a-f]{5}$`), name)
}

func TestGenerateEmptyPrefix(t *testing.T) {
	g := NewGenerator()

	name, err := g.Generate("")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^-[0-9a-f]{5}$`), name)
}

func TestGenerateNeverRepeats(t *testing.T) {
	g := NewGenerator()

	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		name, err := g.Generate("btn")
		require.NoError(t, err)
		_, dup := seen[name]
		require.False(t, dup, "name %q returned twice", name)
		seen[name] = struct{}{}
	}
	assert.Len(t, g.UsedNames(), 200)
}

func TestGenerateRetriesPastCollisions(t *testing.T) {
	g := NewGenerator()
	g.fingerprint = sequenceFingerprint("aaaaa", "aaaaa", "bbbbb")
	g.AddUsedName("x-aaaaa")

	name, err := g.Generate("x")
	require.NoError(t, err)
	assert.Equal(t, "x-bbbbb", name)
}

func TestGenerateExhaustion(t *testing.T) {
	g := NewGenerator()
	g.fingerprint = sequenceFingerprint("aaaaa")
	g.AddUsedName("x-aaaaa")

	name, err := g.Generate("x")
	require.ErrorIs(t, err, ErrExhausted)
	assert.Empty(t, name)
	assert.Equal(t, []string{"x-aaaaa"}, g.UsedNames(),
		"a failed call must not grow the used set")
}

func TestGenerateRegistersAcrossPrefixes(t *testing.T) {
	g := NewGenerator()
	g.fingerprint = sequenceFingerprint("aaaaa", "bbbbb")

	first, err := g.Generate("x")
	require.NoError(t, err)
	assert.Equal(t, "x-aaaaa", first)

	// Same fingerprint under another prefix is a different name.
	g.fingerprint = sequenceFingerprint("aaaaa")
	second, err := g.Generate("y")
	require.NoError(t, err)
	assert.Equal(t, "y-aaaaa", second)
}

func TestAddUsedName(t *testing.T) {
	g := NewGenerator()

	g.AddUsedName("card")
	g.AddUsedName("card")
	g.AddUsedNames("apple", "zebra")

	assert.Equal(t, []string{"apple", "card", "zebra"}, g.UsedNames(),
		"registration is idempotent and the listing is sorted")
}

func TestClear(t *testing.T) {
	g := NewGenerator()
	g.AddUsedNames("a", "b")
	require.Len(t, g.UsedNames(), 2)

	g.Clear()
	assert.Empty(t, g.UsedNames())

	name, err := g.Generate("fresh")
	require.NoError(t, err)
	assert.NotEmpty(t, name)
}

func TestGenerateConcurrent(t *testing.T) {
	g := NewGenerator()

	const workers = 8
	const perWorker = 50
	names := make(chan string, workers*perWorker)
	errs := make(chan error, workers*perWorker)

	done := make(chan struct{})
	for w := 0; w < workers; w++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for i := 0; i < perWorker; i++ {
				name, err := g.Generate("w")
				if err != nil {
					errs <- err
					return
				}
				names <- name
			}
		}()
	}
	for w := 0; w < workers; w++ {
		<-done
	}
	close(names)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	seen := make(map[string]struct{})
	for name := range names {
		seen[name] = struct{}{}
	}
	assert.Len(t, seen, workers*perWorker)
}
