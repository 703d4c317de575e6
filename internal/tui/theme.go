package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/barysiuk/skillsync/internal/core"
)

// Color palette.
var (
	colorPrimary   = lipgloss.Color("#7C3AED") // Purple
	colorSecondary = lipgloss.Color("#A78BFA") // Light purple
	colorSuccess   = lipgloss.Color("#10B981") // Green (synced)
	colorDanger    = lipgloss.Color("#EF4444") // Red (orphans, errors)
	colorMuted     = lipgloss.Color("#6B7280") // Gray
	colorWarning   = lipgloss.Color("#F59E0B") // Amber (modified)
)

// Shared styles used across prompts and CLI output.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F3F4F6"))

	selectedItemStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorPrimary)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D1D5DB"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	badgeStyle = lipgloss.NewStyle().
			Foreground(colorSecondary)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	// Confirmation dialog.
	dialogBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 2)

	dialogButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFF7DB")).
				Background(colorMuted).
				Padding(0, 2)

	dialogActiveButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFF7DB")).
				Background(colorDanger).
				Padding(0, 2).
				Bold(true)

	statusStyles = map[core.SyncStatus]lipgloss.Style{
		core.StatusSynced:   lipgloss.NewStyle().Foreground(colorSuccess),
		core.StatusModified: lipgloss.NewStyle().Foreground(colorWarning),
		core.StatusMissing:  lipgloss.NewStyle().Foreground(colorMuted),
		core.StatusOrphan:   lipgloss.NewStyle().Foreground(colorDanger),
	}
)

// StatusLabel renders a sync status in its color. Colors are dropped
// automatically when stdout is not a terminal.
func StatusLabel(s core.SyncStatus) string {
	style, ok := statusStyles[s]
	if !ok {
		return s.String()
	}
	return style.Render(s.String())
}

// Muted renders secondary text.
func Muted(s string) string {
	return mutedStyle.Render(s)
}

// Title renders a heading.
func Title(s string) string {
	return titleStyle.Render(s)
}
