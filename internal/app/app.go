// Package app holds the root Bubble Tea model: view routing, the board
// refresh cycle, and the mutation flow. All server interaction happens
// through commands whose results re-enter the single Update loop, so no
// two handlers ever run concurrently.
package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/nhle/chronicle-tui/internal/api"
	"github.com/nhle/chronicle-tui/internal/format"
	"github.com/nhle/chronicle-tui/internal/keys"
	"github.com/nhle/chronicle-tui/internal/model"
	"github.com/nhle/chronicle-tui/internal/ui"
	"github.com/nhle/chronicle-tui/internal/ui/board"
	"github.com/nhle/chronicle-tui/internal/ui/confirm"
	"github.com/nhle/chronicle-tui/internal/ui/detail"
	"github.com/nhle/chronicle-tui/internal/ui/progressform"
	"github.com/nhle/chronicle-tui/internal/ui/taskform"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewBoard ViewState = iota
	ViewDetail
	ViewTaskCreate
	ViewTaskEdit
	ViewProgress
	ViewConfirm
)

// Pending delete targets, parked while the confirmation gate is open.
const (
	deleteNone = iota
	deleteTask
	deleteWorklog
)

type pendingDelete struct {
	kind   int
	id     string
	taskID string
}

// Model is the root Bubble Tea model.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	cfg          *model.AppConfig
	svc          TaskService
	cache        SnapshotCache
	keys         *keys.KeyMap

	boardView    board.Model
	detailView   detail.Model
	taskForm     taskform.Model
	progressForm progressform.Model
	confirmView  confirm.Model

	// activeGen/doneGen/detailGen tag the latest issued fetch per target;
	// responses carrying an older generation are dropped.
	activeGen uuid.UUID
	doneGen   uuid.UUID
	detailGen uuid.UUID

	pending pendingDelete

	toast    string
	toastSeq int

	offline bool
	ready   bool
}

// New creates the root application model. cache may be nil when the
// snapshot store could not be opened.
func New(cfg *model.AppConfig, svc TaskService, cache SnapshotCache) Model {
	k := keys.DefaultKeyMap()

	return Model{
		currentView:  ViewBoard,
		cfg:          cfg,
		svc:          svc,
		cache:        cache,
		keys:         k,
		boardView:    board.New(k, 80, 24),
		detailView:   detail.New(k, 80, 24),
		taskForm:     taskform.New(80, 24),
		progressForm: progressform.New(80, 24),
		confirmView:  confirm.New(80, 24),
	}
}

// bootMsg kicks off the first board refresh from inside Update, where
// the issued fetch generations can be recorded on the retained model.
type bootMsg struct{}

// Init paints the cached snapshot and schedules the first fetches.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCache(), func() tea.Msg { return bootMsg{} })
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.boardView.SetSize(contentWidth, contentHeight)
		m.detailView.SetSize(contentWidth, contentHeight)
		m.taskForm.SetSize(contentWidth, contentHeight)
		m.progressForm.SetSize(contentWidth, contentHeight)
		m.confirmView.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case bootMsg:
		return m, m.refreshBoard()

	case cachedTasksMsg:
		m.boardView.SetCached(msg.tasks)
		return m, nil

	case activeTasksMsg:
		if msg.gen != m.activeGen {
			return m, nil
		}
		if msg.err != nil {
			m.offline = true
			return m, m.setToast("Failed to load tasks: " + api.Message(msg.err))
		}
		m.offline = false
		m.boardView.SetActive(msg.tasks)
		return m, m.saveCache(model.ActiveStatuses, msg.tasks)

	case doneTasksMsg:
		if msg.gen != m.doneGen {
			return m, nil
		}
		if msg.err != nil {
			m.offline = true
			return m, m.setToast("Failed to load tasks: " + api.Message(msg.err))
		}
		m.offline = false
		m.boardView.SetDone(msg.tasks)
		return m, m.saveCache([]string{model.StatusDone}, msg.tasks)

	case board.SelectedTaskMsg:
		// Stay on the board until the full record actually arrives.
		return m, m.fetchDetail(msg.TaskID)

	case detailLoadedMsg:
		if msg.gen != m.detailGen {
			return m, nil
		}
		if msg.err != nil {
			return m, m.setToast("Failed to load task details: " + api.Message(msg.err))
		}
		m.detailView.SetTask(msg.task)
		m.currentView = ViewDetail
		return m, nil

	case detail.BackMsg:
		m.currentView = ViewBoard
		return m, nil

	case detail.EditRequestMsg:
		m.previousView = m.currentView
		m.currentView = ViewTaskEdit
		return m, m.taskForm.StartEdit(msg.Task)

	case detail.ProgressRequestMsg:
		m.previousView = m.currentView
		m.currentView = ViewProgress
		return m, m.progressForm.Start(msg.Task)

	case detail.DeleteRequestMsg:
		m.previousView = m.currentView
		m.currentView = ViewConfirm
		m.pending = pendingDelete{kind: deleteTask, id: msg.TaskID}
		return m, m.confirmView.Start("Delete this task and all its worklogs?")

	case detail.DeleteWorklogRequestMsg:
		m.previousView = m.currentView
		m.currentView = ViewConfirm
		m.pending = pendingDelete{kind: deleteWorklog, id: msg.LogID, taskID: msg.TaskID}
		return m, m.confirmView.Start("Delete this worklog?")

	case detail.OpenLinkRequestMsg:
		return m, m.openLink(msg.URL)

	case detail.CopyRequestMsg:
		return m, m.copyTask(msg.Task)

	case confirm.ResultMsg:
		pending := m.pending
		m.pending = pendingDelete{}
		m.currentView = m.previousView
		if !msg.Confirmed {
			return m, nil
		}
		switch pending.kind {
		case deleteTask:
			return m, m.deleteTask(pending.id)
		case deleteWorklog:
			return m, m.deleteWorklog(pending.id, pending.taskID)
		}
		return m, nil

	case taskform.CreateSubmittedMsg:
		return m, m.createTask(msg.Req)

	case taskform.EditSubmittedMsg:
		return m, m.updateTask(msg.TaskID, msg.Req)

	case taskform.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case progressform.SubmittedMsg:
		return m, m.saveProgress(msg.TaskID, msg.Req, msg.MarkDone)

	case progressform.CancelMsg:
		m.currentView = ViewDetail
		return m, nil

	case taskCreatedMsg:
		if msg.err != nil {
			// Keep the form open with its values so the user can retry.
			return m, tea.Batch(
				m.setToast("Failed to create task: "+api.Message(msg.err)),
				m.taskForm.Reopen(),
			)
		}
		m.currentView = ViewBoard
		return m, tea.Batch(
			m.setToast("Task created successfully"),
			m.refreshBoard(),
		)

	case taskUpdatedMsg:
		if msg.err != nil {
			return m, tea.Batch(
				m.setToast("Failed to update task: "+api.Message(msg.err)),
				m.taskForm.Reopen(),
			)
		}
		m.currentView = ViewBoard
		return m, tea.Batch(
			m.setToast("Task updated successfully"),
			m.refreshBoard(),
			m.fetchDetail(msg.taskID),
		)

	case progressSavedMsg:
		if msg.err != nil {
			return m, tea.Batch(
				m.setToast("Failed to save progress: "+api.Message(msg.err)),
				m.progressForm.Reopen(),
			)
		}
		m.currentView = ViewBoard
		toast := "Progress logged"
		if msg.markDone {
			toast = "Task marked as done! 🎉"
		}
		return m, tea.Batch(
			m.setToast(toast),
			m.refreshBoard(),
			m.fetchDetail(msg.taskID),
		)

	case taskDeletedMsg:
		if msg.err != nil {
			return m, m.setToast("Failed to delete task: " + api.Message(msg.err))
		}
		m.currentView = ViewBoard
		return m, tea.Batch(
			m.setToast("Task deleted successfully"),
			m.refreshBoard(),
		)

	case worklogDeletedMsg:
		if msg.err != nil {
			return m, m.setToast("Failed to delete worklog: " + api.Message(msg.err))
		}
		// The detail refetch repaints the worklog list; board summaries
		// are unaffected by worklog removal.
		return m, tea.Batch(
			m.setToast("Worklog deleted successfully"),
			m.fetchDetail(msg.taskID),
		)

	case linkOpenedMsg:
		if msg.err != nil {
			return m, m.setToast("Failed to open link: " + msg.err.Error())
		}
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			return m, m.setToast("Failed to copy: " + msg.err.Error())
		}
		return m, m.setToast("Copied to clipboard")

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.currentView == ViewBoard {
				return m, tea.Quit
			}

		case "n":
			if m.currentView == ViewBoard {
				m.previousView = m.currentView
				m.currentView = ViewTaskCreate
				deadline := format.DefaultDeadline(
					time.Now(),
					m.cfg.Deadline.OffsetDays,
					m.cfg.Deadline.Hour,
					m.cfg.Deadline.Minute,
				)
				return m, m.taskForm.StartCreate(deadline)
			}

		case "r":
			if m.currentView == ViewBoard {
				return m, m.refreshBoard()
			}
		}
	}

	return m.updateActiveView(msg)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewBoard:
		m.boardView, cmd = m.boardView.Update(msg)
	case ViewDetail:
		m.detailView, cmd = m.detailView.Update(msg)
	case ViewTaskCreate, ViewTaskEdit:
		m.taskForm, cmd = m.taskForm.Update(msg)
	case ViewProgress:
		m.progressForm, cmd = m.progressForm.Update(msg)
	case ViewConfirm:
		m.confirmView, cmd = m.confirmView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Chronicle", m.connStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.statusText())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewBoard:
		return m.boardView.View()
	case ViewDetail:
		return m.detailView.View()
	case ViewTaskCreate, ViewTaskEdit:
		return m.taskForm.View()
	case ViewProgress:
		return m.progressForm.View()
	case ViewConfirm:
		return m.confirmView.View()
	default:
		return ""
	}
}

// connStatus describes where the board data came from.
func (m Model) connStatus() string {
	switch {
	case m.offline:
		return "⚠ offline"
	case m.boardView.FromCache():
		return "cached"
	case !m.boardView.Loaded():
		return "loading"
	default:
		return "live"
	}
}

// statusText returns the status bar content: the active toast wins over
// the per-view key hints.
func (m Model) statusText() string {
	if m.toast != "" {
		return m.toast
	}

	switch m.currentView {
	case ViewDetail:
		hints := "esc back | e edit | d delete | tab worklog | x delete worklog | o open link | y copy"
		if m.detailView.ProgressAvailable() {
			hints = "esc back | e edit | p progress | d delete | tab worklog | x delete worklog | o open link | y copy"
		}
		return hints
	case ViewTaskCreate, ViewTaskEdit:
		return "enter submit | esc cancel"
	case ViewProgress:
		return "enter submit | esc cancel"
	case ViewConfirm:
		return "y/n choose | enter confirm"
	default:
		return "q quit | n new | r refresh | h/j/k/l move | enter open"
	}
}

// setToast replaces any visible toast and schedules its expiry. A newer
// toast invalidates the older timer via the sequence check.
func (m *Model) setToast(text string) tea.Cmd {
	m.toast = text
	m.toastSeq++
	seq := m.toastSeq
	dur := time.Duration(m.cfg.Display.ToastSec) * time.Second
	return tea.Tick(dur, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}
