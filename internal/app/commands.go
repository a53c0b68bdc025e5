package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/nhle/chronicle-tui/internal/browser"
	"github.com/nhle/chronicle-tui/internal/clipboard"
	"github.com/nhle/chronicle-tui/internal/format"
	"github.com/nhle/chronicle-tui/internal/model"
)

// TaskService is the slice of the API client the root model consumes.
type TaskService interface {
	ListTasks(ctx context.Context, statuses []string) ([]model.Task, error)
	GetTask(ctx context.Context, id string) (*model.Task, error)
	CreateTask(ctx context.Context, req model.CreateTaskReq) (*model.Task, error)
	UpdateTask(ctx context.Context, id string, req model.UpdateTaskReq) (*model.Task, error)
	UpdateProgress(ctx context.Context, id string, req model.ProgressReq) error
	DeleteTask(ctx context.Context, id string) error
	DeleteWorklog(ctx context.Context, id string) error
}

// SnapshotCache is the slice of the store the root model consumes. It may
// be absent; the app degrades to fetching only.
type SnapshotCache interface {
	ReplaceTasks(ctx context.Context, statuses []string, tasks []model.Task, now time.Time) error
	LoadTasks(ctx context.Context) ([]model.Task, error)
}

// List responses carry the generation of the request that produced them.
// The root model drops any response whose generation is not the latest
// issued for that partition, so a slow old fetch can never overwrite a
// newer one.
type activeTasksMsg struct {
	gen   uuid.UUID
	tasks []model.Task
	err   error
}

type doneTasksMsg struct {
	gen   uuid.UUID
	tasks []model.Task
	err   error
}

type cachedTasksMsg struct {
	tasks []model.Task
}

type detailLoadedMsg struct {
	gen  uuid.UUID
	task *model.Task
	err  error
}

type taskCreatedMsg struct {
	err error
}

type taskUpdatedMsg struct {
	taskID string
	err    error
}

type progressSavedMsg struct {
	taskID   string
	markDone bool
	err      error
}

type taskDeletedMsg struct {
	err error
}

type worklogDeletedMsg struct {
	taskID string
	err    error
}

type linkOpenedMsg struct {
	err error
}

type copiedMsg struct {
	err error
}

type toastExpiredMsg struct {
	seq int
}

// fetchActive issues a generation-tagged list fetch for the todo and
// in-progress partition.
func (m *Model) fetchActive() tea.Cmd {
	gen := uuid.New()
	m.activeGen = gen
	svc := m.svc
	return func() tea.Msg {
		tasks, err := svc.ListTasks(context.Background(), model.ActiveStatuses)
		return activeTasksMsg{gen: gen, tasks: tasks, err: err}
	}
}

// fetchDone issues a generation-tagged list fetch for the done partition.
func (m *Model) fetchDone() tea.Cmd {
	gen := uuid.New()
	m.doneGen = gen
	svc := m.svc
	return func() tea.Msg {
		tasks, err := svc.ListTasks(context.Background(), []string{model.StatusDone})
		return doneTasksMsg{gen: gen, tasks: tasks, err: err}
	}
}

// refreshBoard refetches both partitions. Every mutation ends here: the
// server owns the truth and the client never patches its local copy.
func (m *Model) refreshBoard() tea.Cmd {
	return tea.Batch(m.fetchActive(), m.fetchDone())
}

// fetchDetail issues a generation-tagged single-task fetch.
func (m *Model) fetchDetail(taskID string) tea.Cmd {
	gen := uuid.New()
	m.detailGen = gen
	svc := m.svc
	return func() tea.Msg {
		task, err := svc.GetTask(context.Background(), taskID)
		return detailLoadedMsg{gen: gen, task: task, err: err}
	}
}

// loadCache paints the board from the local snapshot while the first
// fetches are in flight. Absent or failing cache is silently skipped.
func (m *Model) loadCache() tea.Cmd {
	if m.cache == nil {
		return nil
	}
	cache := m.cache
	return func() tea.Msg {
		tasks, err := cache.LoadTasks(context.Background())
		if err != nil || len(tasks) == 0 {
			return nil
		}
		return cachedTasksMsg{tasks: tasks}
	}
}

// saveCache persists a partition's latest live response. Cache failures
// never surface; the snapshot is a convenience, not a requirement.
func (m *Model) saveCache(statuses []string, tasks []model.Task) tea.Cmd {
	if m.cache == nil {
		return nil
	}
	cache := m.cache
	return func() tea.Msg {
		_ = cache.ReplaceTasks(context.Background(), statuses, tasks, time.Now())
		return nil
	}
}

func (m *Model) createTask(req model.CreateTaskReq) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		_, err := svc.CreateTask(context.Background(), req)
		return taskCreatedMsg{err: err}
	}
}

func (m *Model) updateTask(taskID string, req model.UpdateTaskReq) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		_, err := svc.UpdateTask(context.Background(), taskID, req)
		return taskUpdatedMsg{taskID: taskID, err: err}
	}
}

func (m *Model) saveProgress(taskID string, req model.ProgressReq, markDone bool) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		err := svc.UpdateProgress(context.Background(), taskID, req)
		return progressSavedMsg{taskID: taskID, markDone: markDone, err: err}
	}
}

func (m *Model) deleteTask(taskID string) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		return taskDeletedMsg{err: svc.DeleteTask(context.Background(), taskID)}
	}
}

func (m *Model) deleteWorklog(logID, taskID string) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		err := svc.DeleteWorklog(context.Background(), logID)
		return worklogDeletedMsg{taskID: taskID, err: err}
	}
}

// openLink dispatches a task link to the system browser. The scheme check
// runs again here even though the renderer already flags bad links.
func (m *Model) openLink(rawURL string) tea.Cmd {
	return func() tea.Msg {
		if err := format.ValidateLinkURL(rawURL); err != nil {
			return linkOpenedMsg{err: err}
		}
		return linkOpenedMsg{err: browser.Open(rawURL)}
	}
}

// copyTask places an HTML rendering of the task on the clipboard.
func (m *Model) copyTask(task model.Task) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: clipboard.Copy(HTMLSnippet(task))}
	}
}
