package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/chronicle-tui/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorIndigo = lipgloss.AdaptiveColor{Dark: "#748FFC", Light: "#4C51BF"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for the application title bar.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorIndigo).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar and toasts.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// ColumnHeaderStyle renders a board column title with its count.
var ColumnHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	MarginBottom(1)

// CardStyle is the base style for a task card.
var CardStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// SelectedCardStyle highlights the focused card.
var SelectedCardStyle = CardStyle.
	BorderForeground(ColorIndigo)

// CategoryBadgeStyle renders the category label on cards and detail.
var CategoryBadgeStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorIndigo)

// DoneTitleStyle strikes through the title of a completed task.
var DoneTitleStyle = lipgloss.NewStyle().
	Strikethrough(true).
	Foreground(ColorGray)

// MutedStyle is used for placeholders and secondary text.
var MutedStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// WarnStyle marks data inconsistencies and stale indicators.
var WarnStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorYellow)

// StatusStyle returns a color-coded style for the given task status.
func StatusStyle(status string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch status {
	case model.StatusTodo:
		return base.Foreground(ColorGray)
	case model.StatusInProgress:
		return base.Foreground(ColorIndigo)
	case model.StatusDone:
		return base.Foreground(ColorGreen)
	default:
		return base.Foreground(ColorGray)
	}
}

// StatusIndicator returns the per-card status mark: a pulse dot for
// in-progress, a check for done, nothing for todo.
func StatusIndicator(status string) string {
	switch status {
	case model.StatusInProgress:
		return lipgloss.NewStyle().Foreground(ColorIndigo).Render("●")
	case model.StatusDone:
		return lipgloss.NewStyle().Foreground(ColorGreen).Render("✓")
	default:
		return ""
	}
}
