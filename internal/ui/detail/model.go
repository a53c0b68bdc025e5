// Package detail renders a single task's full record in a scrollable
// panel and translates key presses into action messages for the root
// model. Every section's visibility is derived from the presence of the
// underlying field in the snapshot.
package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/chronicle-tui/internal/format"
	"github.com/nhle/chronicle-tui/internal/keys"
	"github.com/nhle/chronicle-tui/internal/model"
	"github.com/nhle/chronicle-tui/internal/theme"
)

// BackMsg signals the parent to navigate back to the board.
type BackMsg struct{}

// EditRequestMsg asks the parent to open the edit form for the task.
type EditRequestMsg struct {
	Task model.Task
}

// ProgressRequestMsg asks the parent to open the progress form.
type ProgressRequestMsg struct {
	Task model.Task
}

// DeleteRequestMsg asks the parent to confirm and delete the task.
type DeleteRequestMsg struct {
	TaskID string
}

// DeleteWorklogRequestMsg asks the parent to confirm and delete the
// selected worklog.
type DeleteWorklogRequestMsg struct {
	LogID  string
	TaskID string
}

// OpenLinkRequestMsg asks the parent to open the first task link.
type OpenLinkRequestMsg struct {
	URL string
}

// CopyRequestMsg asks the parent to copy the task to the clipboard.
type CopyRequestMsg struct {
	Task model.Task
}

// Model is the task detail view component.
type Model struct {
	task     *model.Task
	viewport viewport.Model
	keys     *keys.KeyMap
	logIndex int
	width    int
	height   int
}

// New creates a new detail view model.
func New(k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// SetTask replaces the displayed snapshot and re-renders the content.
func (m *Model) SetTask(task *model.Task) {
	m.task = task
	if task == nil || m.logIndex >= len(task.Logs) {
		m.logIndex = 0
	}
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// Task returns the currently displayed snapshot, if any.
func (m Model) Task() (model.Task, bool) {
	if m.task == nil {
		return model.Task{}, false
	}
	return *m.task, true
}

// ProgressAvailable reports whether the progress action is offered:
// done is terminal, so completed tasks cannot be progressed.
func (m Model) ProgressAvailable() bool {
	return m.task != nil && !m.task.IsDone()
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(keyMsg, m.keys.Back):
		return m, func() tea.Msg { return BackMsg{} }

	case key.Matches(keyMsg, m.keys.Edit):
		if m.task != nil {
			task := *m.task
			return m, func() tea.Msg { return EditRequestMsg{Task: task} }
		}

	case key.Matches(keyMsg, m.keys.Progress):
		if m.ProgressAvailable() {
			task := *m.task
			return m, func() tea.Msg { return ProgressRequestMsg{Task: task} }
		}

	case key.Matches(keyMsg, m.keys.Delete):
		if m.task != nil {
			id := m.task.ID
			return m, func() tea.Msg { return DeleteRequestMsg{TaskID: id} }
		}

	case key.Matches(keyMsg, m.keys.NextLog):
		if m.task != nil && len(m.task.Logs) > 0 {
			m.logIndex = (m.logIndex + 1) % len(m.task.Logs)
			m.viewport.SetContent(m.renderContent())
		}
		return m, nil

	case key.Matches(keyMsg, m.keys.DeleteLog):
		if m.task != nil && len(m.task.Logs) > 0 {
			log := m.task.Logs[m.logIndex]
			taskID := m.task.ID
			return m, func() tea.Msg {
				return DeleteWorklogRequestMsg{LogID: log.ID, TaskID: taskID}
			}
		}

	case key.Matches(keyMsg, m.keys.OpenLink):
		if m.task != nil {
			if links := format.SplitLinks(m.task.Links); len(links) > 0 {
				url := links[0]
				return m, func() tea.Msg { return OpenLinkRequestMsg{URL: url} }
			}
		}

	case key.Matches(keyMsg, m.keys.Copy):
		if m.task != nil {
			task := *m.task
			return m, func() tea.Msg { return CopyRequestMsg{Task: task} }
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if m.task == nil {
		emptyStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return emptyStyle.Render("No task selected")
	}

	return m.viewport.View()
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.task == nil {
		return ""
	}

	task := m.task
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	if task.IsDone() {
		titleStyle = theme.DoneTitleStyle
	}
	sections = append(sections, titleStyle.Render(task.Title))

	badgeLine := lipgloss.JoinHorizontal(
		lipgloss.Top,
		theme.CategoryBadgeStyle.Render(strings.ToUpper(task.Category)),
		"  ",
		theme.StatusStyle(task.Status).Render(task.Status),
	)
	sections = append(sections, badgeLine)
	if task.Inconsistent() {
		sections = append(sections, theme.WarnStyle.Render(
			"⚠ inconsistent: completion timestamp on a task that is not done",
		))
	}
	sections = append(sections, "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	if task.Deadline != nil {
		sections = append(sections, fmt.Sprintf(
			"%s   %s",
			metaStyle.Render("Deadline:"),
			valStyle.Render(format.FormatInstant(*task.Deadline)),
		))
	}
	if task.ActualCompletedAt != nil {
		sections = append(sections, fmt.Sprintf(
			"%s  %s",
			metaStyle.Render("Completed:"),
			valStyle.Render(format.FormatInstant(*task.ActualCompletedAt)),
		))
	}

	separator := lipgloss.NewStyle().
		Foreground(theme.ColorSubtle).
		Render(strings.Repeat("─", min(m.width-4, 80)))

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)

	if desc := strings.TrimSpace(task.Description); desc != "" {
		sections = append(sections, "", headerStyle.Render("Description"), desc)
	}
	if targets := strings.TrimSpace(task.Targets); targets != "" {
		sections = append(sections, "", headerStyle.Render("Targets"), targets)
	}

	if links := format.SplitLinks(task.Links); len(links) > 0 {
		sections = append(sections, "", headerStyle.Render("Links"))
		linkStyle := lipgloss.NewStyle().Foreground(theme.ColorBlue).Underline(true)
		for _, link := range links {
			if err := format.ValidateLinkURL(link); err != nil {
				sections = append(sections, theme.MutedStyle.Render(link+" (blocked)"))
				continue
			}
			sections = append(sections, linkStyle.Render(link))
		}
	}

	sections = append(sections, "", separator, "")
	sections = append(sections, headerStyle.Render(
		fmt.Sprintf("Worklogs (%d)", len(task.Logs)),
	))

	if len(task.Logs) == 0 {
		sections = append(sections, theme.MutedStyle.Render("No worklogs yet."))
	} else {
		timeStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
		// Server order is creation order; never re-sort.
		for i, log := range task.Logs {
			marker := "  "
			if i == m.logIndex {
				marker = "» "
			}
			sections = append(sections,
				marker+timeStyle.Render(format.FormatInstant(log.CreatedAt)),
				"  "+log.LogText,
				"",
			)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	if m.task != nil {
		m.viewport.SetContent(m.renderContent())
	}
}
