// Package board renders the three status columns of the task board. The
// board never talks to the service itself; the root model feeds it task
// snapshots and receives selection messages back.
package board

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/chronicle-tui/internal/keys"
	"github.com/nhle/chronicle-tui/internal/model"
	"github.com/nhle/chronicle-tui/internal/theme"
)

// SelectedTaskMsg is sent when the user opens a card's detail view.
type SelectedTaskMsg struct {
	TaskID string
}

// Column indices, left to right.
const (
	colTodo = iota
	colInProgress
	colDone
	numColumns
)

var columnTitles = [numColumns]string{"Todo", "In Progress", "Done"}

// Model is the board view component.
type Model struct {
	columns [numColumns][]model.Task

	// loadedActive/loadedDone flip when live data for the respective
	// partition has arrived; cached paints do not set them.
	loadedActive bool
	loadedDone   bool
	fromCache    bool

	col    int
	row    [numColumns]int
	keys   *keys.KeyMap
	width  int
	height int
}

// New creates an empty board model.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{
		keys:   k,
		width:  width,
		height: height,
	}
}

// Partition splits tasks into todo and in-progress groups, preserving
// input order. Tasks with any other status are ignored.
func Partition(tasks []model.Task) (todo, inProgress []model.Task) {
	for _, t := range tasks {
		switch t.Status {
		case model.StatusTodo:
			todo = append(todo, t)
		case model.StatusInProgress:
			inProgress = append(inProgress, t)
		}
	}
	return todo, inProgress
}

// SetActive replaces the todo and in-progress columns from a live fetch.
func (m *Model) SetActive(tasks []model.Task) {
	m.columns[colTodo], m.columns[colInProgress] = Partition(tasks)
	m.loadedActive = true
	m.fromCache = false
	m.clampSelection()
}

// SetDone replaces the done column from a live fetch.
func (m *Model) SetDone(tasks []model.Task) {
	var done []model.Task
	for _, t := range tasks {
		if t.Status == model.StatusDone {
			done = append(done, t)
		}
	}
	m.columns[colDone] = done
	m.loadedDone = true
	m.clampSelection()
}

// SetCached paints all three columns from the local snapshot without
// marking them live. A later live fetch replaces them.
func (m *Model) SetCached(tasks []model.Task) {
	if m.loadedActive && m.loadedDone {
		return
	}
	var done []model.Task
	for _, t := range tasks {
		if t.Status == model.StatusDone {
			done = append(done, t)
		}
	}
	if !m.loadedActive {
		m.columns[colTodo], m.columns[colInProgress] = Partition(tasks)
	}
	if !m.loadedDone {
		m.columns[colDone] = done
	}
	m.fromCache = true
	m.clampSelection()
}

// FromCache reports whether the board currently shows snapshot data.
func (m Model) FromCache() bool {
	return m.fromCache
}

// Loaded reports whether both live partitions have arrived.
func (m Model) Loaded() bool {
	return m.loadedActive && m.loadedDone
}

// Counts returns the per-column card counts (todo, in-progress, done).
func (m Model) Counts() (int, int, int) {
	return len(m.columns[colTodo]), len(m.columns[colInProgress]), len(m.columns[colDone])
}

// SelectedTask returns the focused task, if any.
func (m Model) SelectedTask() (model.Task, bool) {
	col := m.columns[m.col]
	if len(col) == 0 {
		return model.Task{}, false
	}
	return col[m.row[m.col]], true
}

// Update handles navigation and selection keys.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Left):
		m.col = (m.col + numColumns - 1) % numColumns
		m.clampSelection()

	case key.Matches(keyMsg, m.keys.Right):
		m.col = (m.col + 1) % numColumns
		m.clampSelection()

	case key.Matches(keyMsg, m.keys.Down):
		if n := len(m.columns[m.col]); n > 0 && m.row[m.col] < n-1 {
			m.row[m.col]++
		}

	case key.Matches(keyMsg, m.keys.Up):
		if m.row[m.col] > 0 {
			m.row[m.col]--
		}

	case key.Matches(keyMsg, m.keys.Select):
		task, ok := m.SelectedTask()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedTaskMsg{TaskID: task.ID}
		}
	}

	return m, nil
}

// View renders the three columns side by side.
func (m Model) View() string {
	colWidth := m.width/numColumns - 2
	if colWidth < 16 {
		colWidth = 16
	}

	rendered := make([]string, 0, numColumns)
	for c := 0; c < numColumns; c++ {
		rendered = append(rendered, m.renderColumn(c, colWidth))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// renderColumn draws one column: header with live count, then cards.
func (m Model) renderColumn(c, width int) string {
	header := theme.ColumnHeaderStyle.Render(
		fmt.Sprintf("%s (%d)", columnTitles[c], len(m.columns[c])),
	)

	loaded := m.loadedDone
	if c != colDone {
		loaded = m.loadedActive
	}

	parts := []string{header}
	switch {
	case !loaded && !m.fromCache && len(m.columns[c]) == 0:
		parts = append(parts, theme.MutedStyle.Render("loading…"))
	case len(m.columns[c]) == 0:
		parts = append(parts, theme.MutedStyle.Render("no tasks"))
	default:
		for i, task := range m.columns[c] {
			selected := c == m.col && i == m.row[c]
			parts = append(parts, RenderCard(task, selected, width-2))
		}
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// SetSize updates the board dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// clampSelection keeps row cursors inside their columns after a refresh
// shrinks or empties a column.
func (m *Model) clampSelection() {
	for c := 0; c < numColumns; c++ {
		if n := len(m.columns[c]); n == 0 {
			m.row[c] = 0
		} else if m.row[c] >= n {
			m.row[c] = n - 1
		}
	}
}
