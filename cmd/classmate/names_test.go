package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tests that rely on the --kind flag being unset run first: cobra keeps flag
// values across Execute calls, so later tests pass --kind explicitly.

func writeNamesFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"),
		[]byte(`<div class="card note" id="top"></div>`), 0644))
	return dir
}

func TestNamesDefaultsToAllKinds(t *testing.T) {
	resetKoanf()
	dir := writeNamesFixture(t)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() { rootCmd.SetOut(nil) })

	rootCmd.SetArgs([]string{"names", "--root", dir})
	require.NoError(t, rootCmd.Execute())

	assert.Equal(t, "card\nnote\ntop\n", out.String(), "classes first, then ids, each sorted")
}

func TestNamesKindClass(t *testing.T) {
	resetKoanf()
	dir := writeNamesFixture(t)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() { rootCmd.SetOut(nil) })

	rootCmd.SetArgs([]string{"names", "--root", dir, "--kind", "class"})
	require.NoError(t, rootCmd.Execute())

	assert.Equal(t, "card\nnote\n", out.String())
}

func TestNamesKindID(t *testing.T) {
	resetKoanf()
	dir := writeNamesFixture(t)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() { rootCmd.SetOut(nil) })

	rootCmd.SetArgs([]string{"names", "--root", dir, "--kind", "id"})
	require.NoError(t, rootCmd.Execute())

	assert.Equal(t, "top\n", out.String())
}

func TestNamesJSON(t *testing.T) {
	resetKoanf()
	dir := writeNamesFixture(t)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() { rootCmd.SetOut(nil) })

	rootCmd.SetArgs([]string{"names", "--root", dir, "--kind", "class", "--json"})
	require.NoError(t, rootCmd.Execute())

	var resp struct {
		Names []string `json:"names"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, []string{"card", "note"}, resp.Names)
}

func TestNamesRejectsInvalidKind(t *testing.T) {
	resetKoanf()
	dir := writeNamesFixture(t)

	rootCmd.SetArgs([]string{"names", "--root", dir, "--kind", "bogus"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid kind")
}
