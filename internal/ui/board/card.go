package board

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/chronicle-tui/internal/model"
	"github.com/nhle/chronicle-tui/internal/theme"
)

// RenderCard draws a single task card: title (struck through when done),
// category badge, and the status indicator. Pure function of its input;
// a board refresh always replaces every card.
func RenderCard(task model.Task, selected bool, width int) string {
	title := task.Title
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	if task.IsDone() {
		titleStyle = theme.DoneTitleStyle
	}

	badge := theme.CategoryBadgeStyle.Render(strings.ToUpper(task.Category))
	indicator := theme.StatusIndicator(task.Status)

	meta := badge
	if indicator != "" {
		meta = lipgloss.JoinHorizontal(lipgloss.Top, badge, " ", indicator)
	}

	inner := lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render(title),
		meta,
	)

	style := theme.CardStyle
	if selected {
		style = theme.SelectedCardStyle
	}
	return style.Width(width).Render(inner)
}
