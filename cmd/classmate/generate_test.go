package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The interactive tests run before the flag-driven ones: cobra flags stay
// marked as changed for the life of the process, and a changed --prefix or
// --kind suppresses the prompt.

func TestGenerateInteractivePrompts(t *testing.T) {
	resetKoanf()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"),
		[]byte(`<div class="card"></div>`), 0644))

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader("card\nid\n"))
	rootCmd.SetOut(&out)
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
	})

	rootCmd.SetArgs([]string{"generate", "--root", dir})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "Prefix [elem]: ")
	assert.Contains(t, out.String(), "Attribute [class/id] (class): ")
	assert.Regexp(t, regexp.MustCompile(`id="card-[0-9a-f]{5}"`), out.String())
}

func TestGenerateRepromptsOnInvalidPrefix(t *testing.T) {
	resetKoanf()
	dir := t.TempDir()

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader("9bad\ncard\n\n"))
	rootCmd.SetOut(&out)
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
	})

	rootCmd.SetArgs([]string{"generate", "--root", dir})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), `Invalid prefix "9bad"`)
	// Empty kind input defaults to class.
	assert.Regexp(t, regexp.MustCompile(`class="card-[0-9a-f]{5}"`), out.String())
}

func TestGenerateCancelledPromptIsSilent(t *testing.T) {
	resetKoanf()
	dir := t.TempDir()

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader("")) // immediate EOF
	rootCmd.SetOut(&out)
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
	})

	rootCmd.SetArgs([]string{"generate", "--root", dir})
	require.NoError(t, rootCmd.Execute())

	assert.NotContains(t, out.String(), `class="`)
	assert.NotContains(t, out.String(), `id="`)
}

func TestGenerateSplicesIntoFile(t *testing.T) {
	resetKoanf()
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(path, []byte(`<div ></div>`), 0644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() { rootCmd.SetOut(nil) })

	rootCmd.SetArgs([]string{
		"generate", "--root", dir,
		"--prefix", "card", "--kind", "id",
		"--file", path, "--line", "1", "--col", "6",
	})
	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^<div id="card-[0-9a-f]{5}"></div>$`), string(data))
}

func TestGenerateRejectsInvalidFlagPrefix(t *testing.T) {
	resetKoanf()
	dir := t.TempDir()

	rootCmd.SetArgs([]string{"generate", "--root", dir, "--prefix", "9bad", "--kind", "class"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid prefix")
}
