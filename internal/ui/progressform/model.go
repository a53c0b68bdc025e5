// Package progressform is the modal for logging progress on a task and
// optionally marking it done. It is never opened for a done task; the
// root model enforces that before starting it.
package progressform

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/chronicle-tui/internal/format"
	"github.com/nhle/chronicle-tui/internal/model"
	"github.com/nhle/chronicle-tui/internal/theme"
)

// SubmittedMsg is dispatched when the progress form is submitted.
type SubmittedMsg struct {
	TaskID   string
	Req      model.ProgressReq
	MarkDone bool
}

// CancelMsg is dispatched when the user abandons the form.
type CancelMsg struct{}

// formBindings holds field values on the heap so huh's Value() pointers
// stay valid across Bubble Tea model copies.
type formBindings struct {
	logText  string
	markDone bool
	deadline string
}

// Model is the Bubble Tea model for the progress form.
type Model struct {
	form      *huh.Form
	fb        *formBindings
	taskID    string
	taskTitle string
	status    string
	width     int
	height    int
}

// New creates a new progress form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start initializes the form for the given task. The deadline field is
// prefilled with the task's current deadline so an untouched submit
// leaves it unchanged.
func (m *Model) Start(task model.Task) tea.Cmd {
	m.taskID = task.ID
	m.taskTitle = task.Title
	m.status = task.Status
	*m.fb = formBindings{}
	if task.Deadline != nil {
		m.fb.deadline = format.ToLocalInput(*task.Deadline)
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Reopen rebuilds the form keeping every entered value, so a failed
// submission can be retried without retyping.
func (m *Model) Reopen() tea.Cmd {
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the progress form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the progress form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	taskStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)

	content := titleStyle.Render("Log Progress") + "\n" +
		taskStyle.Render(m.taskTitle) + "\n\n" +
		m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Worklog").
				Placeholder("What happened? (optional)").
				Value(&m.fb.logText),
			huh.NewSelect[bool]().
				Title("Outcome").
				Options(
					huh.NewOption("Log progress only", false),
					huh.NewOption("Mark as done", true),
				).
				Value(&m.fb.markDone),
			huh.NewInput().
				Title("Deadline").
				Placeholder("YYYY-MM-DDTHH:MM (optional)").
				Value(&m.fb.deadline).
				Validate(validateOptionalDeadline),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	deadline, err := format.FromLocalInput(m.fb.deadline)
	if err != nil {
		deadline = nil
	}

	// Not marking done moves a todo task to in-progress; the first
	// progress report on a task means work has started.
	newStatus := m.status
	if m.fb.markDone {
		newStatus = model.StatusDone
	} else if m.status == model.StatusTodo {
		newStatus = model.StatusInProgress
	}

	req := model.ProgressReq{
		LogText:    m.fb.logText,
		MarkAsDone: m.fb.markDone,
		NewStatus:  newStatus,
		Deadline:   deadline,
	}
	id := m.taskID
	markDone := m.fb.markDone
	return func() tea.Msg {
		return SubmittedMsg{TaskID: id, Req: req, MarkDone: markDone}
	}
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateOptionalDeadline(s string) error {
	if _, err := format.FromLocalInput(s); err != nil {
		return fmt.Errorf("invalid date, use YYYY-MM-DDTHH:MM")
	}
	return nil
}
