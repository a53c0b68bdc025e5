package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/nhle/chronicle-tui/internal/api"
	"github.com/nhle/chronicle-tui/internal/model"
	"github.com/nhle/chronicle-tui/internal/ui/board"
	"github.com/nhle/chronicle-tui/internal/ui/confirm"
	"github.com/nhle/chronicle-tui/internal/ui/detail"
	"github.com/nhle/chronicle-tui/internal/ui/progressform"
	"github.com/nhle/chronicle-tui/internal/ui/taskform"
)

// fakeService records calls and serves canned responses.
type fakeService struct {
	tasks map[string]*model.Task

	listCalls     []string
	getCalls      int
	createCalls   int
	deleteCalls   int
	deleteLogs    int
	progressCalls int
	updateCalls   int

	failCreate   error
	failProgress error
}

func newFakeService() *fakeService {
	return &fakeService{tasks: map[string]*model.Task{}}
}

func (f *fakeService) ListTasks(_ context.Context, statuses []string) ([]model.Task, error) {
	f.listCalls = append(f.listCalls, strings.Join(statuses, ","))
	var out []model.Task
	for _, t := range f.tasks {
		for _, s := range statuses {
			if t.Status == s {
				out = append(out, *t)
			}
		}
	}
	return out, nil
}

func (f *fakeService) GetTask(_ context.Context, id string) (*model.Task, error) {
	f.getCalls++
	t, ok := f.tasks[id]
	if !ok {
		return nil, &api.Error{Code: 404, Message: "task not found"}
	}
	cp := *t
	return &cp, nil
}

func (f *fakeService) CreateTask(_ context.Context, req model.CreateTaskReq) (*model.Task, error) {
	f.createCalls++
	if f.failCreate != nil {
		return nil, f.failCreate
	}
	t := &model.Task{ID: "new", Title: req.Title, Category: req.Category, Status: model.StatusTodo}
	f.tasks[t.ID] = t
	return t, nil
}

func (f *fakeService) UpdateTask(_ context.Context, id string, req model.UpdateTaskReq) (*model.Task, error) {
	f.updateCalls++
	t, ok := f.tasks[id]
	if !ok {
		return nil, &api.Error{Code: 404, Message: "task not found"}
	}
	t.Title = req.Title
	return t, nil
}

func (f *fakeService) UpdateProgress(_ context.Context, id string, _ model.ProgressReq) error {
	f.progressCalls++
	return f.failProgress
}

func (f *fakeService) DeleteTask(_ context.Context, id string) error {
	f.deleteCalls++
	delete(f.tasks, id)
	return nil
}

func (f *fakeService) DeleteWorklog(_ context.Context, _ string) error {
	f.deleteLogs++
	return nil
}

func newTestModel(svc TaskService) Model {
	cfg := &model.AppConfig{
		Server:   model.ServerConfig{BaseURL: "http://test", TimeoutSec: 1},
		Deadline: model.DeadlineConfig{OffsetDays: 7, Hour: 20, Minute: 30},
		// Zero toast duration so expiry timers fire immediately in tests.
		Display: model.DisplayConfig{ToastSec: 0},
	}
	m := New(cfg, svc, nil)
	mm, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return mm.(Model)
}

// apply runs one message through Update.
func apply(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	mm, cmd := m.Update(msg)
	return mm.(Model), cmd
}

// drain executes cmd, feeds every produced message back through Update,
// and repeats until no commands remain. Batches are expanded.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		if msg == nil {
			continue
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		var produced tea.Cmd
		m, produced = apply(t, m, msg)
		if produced != nil {
			queue = append(queue, produced)
		}
	}
	return m
}

func TestCreateSuccessRefetchesBothPartitions(t *testing.T) {
	svc := newFakeService()
	m := newTestModel(svc)
	m.currentView = ViewTaskCreate

	m, cmd := apply(t, m, taskform.CreateSubmittedMsg{
		Req: model.CreateTaskReq{Title: "a", Category: "work"},
	})
	m = drain(t, m, cmd)

	if svc.createCalls != 1 {
		t.Fatalf("expected 1 create call, got %d", svc.createCalls)
	}
	if m.currentView != ViewBoard {
		t.Fatalf("expected board view after create, got %v", m.currentView)
	}

	var active, done int
	for _, call := range svc.listCalls {
		switch call {
		case strings.Join(model.ActiveStatuses, ","):
			active++
		case model.StatusDone:
			done++
		}
	}
	if active != 1 || done != 1 {
		t.Fatalf("expected one refetch per partition, got active=%d done=%d", active, done)
	}
}

func TestCreateFailureKeepsFormOpen(t *testing.T) {
	svc := newFakeService()
	svc.failCreate = &api.Error{Code: 1, Message: "title already exists"}
	m := newTestModel(svc)
	m.currentView = ViewTaskCreate

	m, cmd := apply(t, m, taskform.CreateSubmittedMsg{
		Req: model.CreateTaskReq{Title: "dup", Category: "work"},
	})
	m, cmd = apply(t, m, cmd())

	if m.currentView != ViewTaskCreate {
		t.Fatalf("failed create must keep the form open, got view %v", m.currentView)
	}
	if !strings.Contains(m.toast, "title already exists") {
		t.Fatalf("toast should carry the server message, got %q", m.toast)
	}
	if len(svc.listCalls) != 0 {
		t.Fatal("failed create must not trigger a board refetch")
	}
}

func TestDeclinedDeleteSendsNothing(t *testing.T) {
	svc := newFakeService()
	m := newTestModel(svc)
	m.currentView = ViewDetail

	m, _ = apply(t, m, detail.DeleteRequestMsg{TaskID: "t1"})
	if m.currentView != ViewConfirm {
		t.Fatalf("delete request should open the confirmation gate, got %v", m.currentView)
	}

	m, cmd := apply(t, m, confirm.ResultMsg{Confirmed: false})
	if cmd != nil {
		if msg := cmd(); msg != nil {
			t.Fatalf("declining must produce no work, got %#v", msg)
		}
	}
	if svc.deleteCalls != 0 {
		t.Fatalf("declining must send zero delete requests, got %d", svc.deleteCalls)
	}
	if m.currentView != ViewDetail {
		t.Fatalf("decline should return to detail, got %v", m.currentView)
	}
}

func TestConfirmedDeleteSendsExactlyOne(t *testing.T) {
	svc := newFakeService()
	svc.tasks["t1"] = &model.Task{ID: "t1", Title: "x", Status: model.StatusTodo}
	m := newTestModel(svc)
	m.currentView = ViewDetail

	m, _ = apply(t, m, detail.DeleteRequestMsg{TaskID: "t1"})
	m, cmd := apply(t, m, confirm.ResultMsg{Confirmed: true})
	m = drain(t, m, cmd)

	if svc.deleteCalls != 1 {
		t.Fatalf("expected exactly one delete request, got %d", svc.deleteCalls)
	}
	if m.currentView != ViewBoard {
		t.Fatalf("successful delete should land on the board, got %v", m.currentView)
	}
}

func TestStaleDetailResponseDiscarded(t *testing.T) {
	svc := newFakeService()
	svc.tasks["t1"] = &model.Task{ID: "t1", Title: "x", Status: model.StatusTodo}
	m := newTestModel(svc)

	m, cmd := apply(t, m, board.SelectedTaskMsg{TaskID: "t1"})

	// A response from an older, superseded fetch arrives first.
	stale := detailLoadedMsg{gen: uuid.New(), task: &model.Task{ID: "old"}}
	m, _ = apply(t, m, stale)
	if m.currentView != ViewBoard {
		t.Fatal("stale detail response must not open the detail view")
	}

	// The current fetch resolves and wins.
	m, _ = apply(t, m, cmd())
	if m.currentView != ViewDetail {
		t.Fatalf("current detail response should open the view, got %v", m.currentView)
	}
	task, ok := m.detailView.Task()
	if !ok || task.ID != "t1" {
		t.Fatalf("detail should show the freshly fetched task, got %#v", task)
	}
}

func TestDetailFetchFailureStaysOnBoard(t *testing.T) {
	svc := newFakeService()
	m := newTestModel(svc)

	m, cmd := apply(t, m, board.SelectedTaskMsg{TaskID: "missing"})
	m, _ = apply(t, m, cmd())

	if m.currentView != ViewBoard {
		t.Fatalf("failed detail fetch must keep the board visible, got %v", m.currentView)
	}
	if !strings.Contains(m.toast, "task not found") {
		t.Fatalf("toast should carry the failure reason, got %q", m.toast)
	}
}

func TestProgressFailureReopensForm(t *testing.T) {
	svc := newFakeService()
	svc.failProgress = errors.New("connection refused")
	m := newTestModel(svc)
	m.currentView = ViewProgress

	m, cmd := apply(t, m, progressform.SubmittedMsg{
		TaskID: "t1",
		Req:    model.ProgressReq{LogText: "did things", NewStatus: model.StatusInProgress},
	})
	m, _ = apply(t, m, cmd())

	if m.currentView != ViewProgress {
		t.Fatalf("failed progress save must keep the form open, got %v", m.currentView)
	}
	if !strings.Contains(m.toast, "could not reach the task service") {
		t.Fatalf("transport failures get the generic reason, got %q", m.toast)
	}
}

func TestWorklogDeleteRefreshesDetailOnly(t *testing.T) {
	svc := newFakeService()
	svc.tasks["t1"] = &model.Task{ID: "t1", Title: "x", Status: model.StatusInProgress}
	m := newTestModel(svc)
	m.currentView = ViewDetail

	m, cmd := apply(t, m, worklogDeletedMsg{taskID: "t1"})
	drain(t, m, cmd)

	if svc.getCalls != 1 {
		t.Fatalf("worklog delete should refetch the detail once, got %d", svc.getCalls)
	}
	if len(svc.listCalls) != 0 {
		t.Fatal("worklog delete must not refetch the board")
	}
}

func TestProgressSuccessTellsOutcome(t *testing.T) {
	svc := newFakeService()
	svc.tasks["t1"] = &model.Task{ID: "t1", Title: "x", Status: model.StatusInProgress}
	m := newTestModel(svc)
	m.currentView = ViewProgress

	m, cmd := apply(t, m, progressform.SubmittedMsg{
		TaskID:   "t1",
		Req:      model.ProgressReq{MarkAsDone: true, NewStatus: model.StatusDone},
		MarkDone: true,
	})
	m, _ = apply(t, m, cmd())

	if !strings.Contains(m.toast, "done") {
		t.Fatalf("mark-as-done should celebrate, got %q", m.toast)
	}
	if m.currentView != ViewBoard {
		t.Fatalf("progress success should return to the board, got %v", m.currentView)
	}
}
