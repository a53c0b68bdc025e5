// Package confirm is the destructive-action gate. Nothing is sent to the
// server until the user answers yes; declining emits a ResultMsg with
// Confirmed false and zero requests.
package confirm

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/chronicle-tui/internal/theme"
)

// ResultMsg carries the user's answer back to the root model.
type ResultMsg struct {
	Confirmed bool
}

// Model is the yes/no confirmation overlay.
type Model struct {
	form      *huh.Form
	confirmed *bool
	prompt    string
	width     int
	height    int
}

// New creates a new confirmation model.
func New(width, height int) Model {
	return Model{
		confirmed: new(bool),
		width:     width,
		height:    height,
	}
}

// Start opens the overlay with the given prompt, defaulting to No.
func (m *Model) Start(prompt string) tea.Cmd {
	m.prompt = prompt
	*m.confirmed = false
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(prompt).
				Affirmative("Yes, delete").
				Negative("No").
				Value(m.confirmed),
		),
	).WithWidth(min(m.width-4, 60))
	return m.form.Init()
}

// Update handles messages for the confirmation overlay.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		answer := *m.confirmed
		return m, func() tea.Msg { return ResultMsg{Confirmed: answer} }
	}
	if m.form.State == huh.StateAborted {
		// Esc is a decline, not a dangling modal.
		return m, func() tea.Msg { return ResultMsg{Confirmed: false} }
	}

	return m, cmd
}

// View renders the confirmation overlay.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.ColorRed).
		Render(m.form.View())
}

// SetSize updates the overlay dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
