package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnified(t *testing.T) {
	old := "---\nname: pdf\n---\nline one\nline two\n"
	new := "---\nname: pdf\n---\nline one\nline 2\n"

	d := Unified("source/pdf", "codex/pdf", old, new)
	require.NotEmpty(t, d)
	assert.Contains(t, d, "--- source/pdf")
	assert.Contains(t, d, "+++ codex/pdf")
	assert.Contains(t, d, "-line two")
	assert.Contains(t, d, "+line 2")

	added, removed := Stat(d)
	assert.Equal(t, 1, added)
	assert.Equal(t, 1, removed)
}

func TestUnified_Equal(t *testing.T) {
	assert.Empty(t, Unified("a", "b", "same\n", "same\n"))
	// Line endings alone are not a difference.
	assert.Empty(t, Unified("a", "b", "one\ntwo\n", "one\r\ntwo\r\n"))
}

func TestColorize_KeepsLines(t *testing.T) {
	d := Unified("a", "b", "x\n", "y\n")
	out := Colorize(d)
	assert.Equal(t, strings.Count(d, "\n"), strings.Count(out, "\n"))
	assert.Contains(t, out, "+y")
	assert.Contains(t, out, "-x")
	assert.Empty(t, Colorize(""))
}
