// Package diff renders unified diffs between skill documents.
package diff

import (
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/charmbracelet/lipgloss"
)

var (
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	hunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
)

// Unified returns a unified diff of old and new, or "" when they are equal.
// Line endings are normalised first so CRLF copies do not show every line
// as changed.
func Unified(oldLabel, newLabel, old, new string) string {
	old, new = normalize(old), normalize(new)
	if old == new {
		return ""
	}
	return udiff.Unified(oldLabel, newLabel, old, new)
}

// Colorize styles the lines of a unified diff for a terminal.
func Colorize(d string) string {
	if d == "" {
		return d
	}
	lines := strings.SplitAfter(d, "\n")
	var b strings.Builder
	for _, line := range lines {
		text := strings.TrimSuffix(line, "\n")
		nl := len(text) != len(line)
		switch {
		case strings.HasPrefix(text, "---"), strings.HasPrefix(text, "+++"):
			text = headerStyle.Render(text)
		case strings.HasPrefix(text, "@@"):
			text = hunkStyle.Render(text)
		case strings.HasPrefix(text, "+"):
			text = addedStyle.Render(text)
		case strings.HasPrefix(text, "-"):
			text = removedStyle.Render(text)
		}
		b.WriteString(text)
		if nl {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Stat counts added and removed lines in a unified diff.
func Stat(d string) (added, removed int) {
	for _, line := range strings.Split(d, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			added++
		case strings.HasPrefix(line, "-"):
			removed++
		}
	}
	return added, removed
}

func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
