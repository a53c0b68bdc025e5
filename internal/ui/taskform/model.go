// Package taskform is the create/edit modal for tasks. Submitting only
// emits a message; the root model owns the request and decides whether
// the form closes (success) or reopens with its values intact (failure).
package taskform

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/chronicle-tui/internal/format"
	"github.com/nhle/chronicle-tui/internal/model"
	"github.com/nhle/chronicle-tui/internal/theme"
)

// CreateSubmittedMsg is dispatched when the create form is submitted.
type CreateSubmittedMsg struct {
	Req model.CreateTaskReq
}

// EditSubmittedMsg is dispatched when the edit form is submitted.
type EditSubmittedMsg struct {
	TaskID string
	Req    model.UpdateTaskReq
}

// CancelMsg is dispatched when the user abandons the form.
type CancelMsg struct{}

// formBindings holds field values on the heap so huh's Value() pointers
// stay valid across Bubble Tea model copies.
type formBindings struct {
	title       string
	category    string
	description string
	targets     string
	links       string
	deadline    string
}

// Model is the Bubble Tea model for the task create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	editID   string
	width    int
	height   int
}

// New creates a new task form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for a new task. The deadline field is
// prefilled with the default so the user can accept or overwrite it.
func (m *Model) StartCreate(defaultDeadline time.Time) tea.Cmd {
	m.editMode = false
	m.editID = ""
	*m.fb = formBindings{
		deadline: format.ToLocalInput(defaultDeadline),
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form with an existing task's fields.
func (m *Model) StartEdit(task model.Task) tea.Cmd {
	m.editMode = true
	m.editID = task.ID
	*m.fb = formBindings{
		title:       task.Title,
		category:    task.Category,
		description: task.Description,
		targets:     task.Targets,
		links:       task.Links,
		deadline:    deadlineInput(task.Deadline),
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

// Editing reports whether the form targets an existing task.
func (m Model) Editing() bool {
	return m.editMode
}

// Update handles messages for the task form.
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

// View renders the task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Task"
	if m.editMode {
		titleText = "Edit Task"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

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
	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Placeholder("What needs to happen?").
			Value(&m.fb.title).
			Validate(validateRequired("Title")),
		huh.NewInput().
			Title("Category").
			Placeholder("work, personal, ...").
			Value(&m.fb.category).
			Validate(validateRequired("Category")),
		huh.NewText().
			Title("Description").
			Placeholder("Optional details...").
			Value(&m.fb.description),
		huh.NewText().
			Title("Targets").
			Placeholder("What does finished look like? (optional)").
			Value(&m.fb.targets),
	}

	// Links are server-initialized empty on create; only edit exposes them.
	if m.editMode {
		fields = append(fields,
			huh.NewText().
				Title("Links").
				Placeholder("One URL per line (optional)").
				Value(&m.fb.links),
		)
	}

	fields = append(fields,
		huh.NewInput().
			Title("Deadline").
			Placeholder("YYYY-MM-DDTHH:MM (optional)").
			Value(&m.fb.deadline).
			Validate(validateOptionalDeadline),
	)

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	deadline, err := format.FromLocalInput(m.fb.deadline)
	if err != nil {
		// Validate already rejected malformed input; treat as empty.
		deadline = nil
	}

	if m.editMode {
		req := model.UpdateTaskReq{
			Title:       strings.TrimSpace(m.fb.title),
			Category:    strings.TrimSpace(m.fb.category),
			Description: m.fb.description,
			Targets:     m.fb.targets,
			Links:       m.fb.links,
			Deadline:    deadline,
		}
		id := m.editID
		return func() tea.Msg { return EditSubmittedMsg{TaskID: id, Req: req} }
	}

	req := model.CreateTaskReq{
		Title:       strings.TrimSpace(m.fb.title),
		Category:    strings.TrimSpace(m.fb.category),
		Description: m.fb.description,
		Targets:     m.fb.targets,
		Deadline:    deadline,
	}
	return func() tea.Msg { return CreateSubmittedMsg{Req: req} }
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

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func deadlineInput(t *time.Time) string {
	if t == nil {
		return ""
	}
	return format.ToLocalInput(*t)
}

func validateOptionalDeadline(s string) error {
	if _, err := format.FromLocalInput(s); err != nil {
		return fmt.Errorf("invalid date, use YYYY-MM-DDTHH:MM")
	}
	return nil
}
