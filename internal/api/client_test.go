package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nhle/chronicle-tui/internal/model"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, "", 5*time.Second), srv
}

func TestListTasksDecodesEnvelope(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/tasks" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("status"); got != "todo,in-progress" {
			t.Errorf("unexpected status filter %q", got)
		}
		w.Write([]byte(`{"code":0,"msg":"success","data":[
			{"id":"t1","title":"Ship v2","category":"release","status":"todo"},
			{"id":"t2","title":"Fix auth","category":"bug","status":"in-progress"}
		]}`))
	}))
	defer srv.Close()

	tasks, err := c.ListTasks(context.Background(), model.ActiveStatuses)
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != "t1" || tasks[1].Status != model.StatusInProgress {
		t.Fatalf("unexpected tasks: %+v", tasks)
	}
}

func TestEnvelopeCodeBecomesError(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// HTTP 200 with a failing envelope: the envelope must win.
		w.Write([]byte(`{"code":1,"msg":"duplicate title"}`))
	}))
	defer srv.Close()

	_, err := c.CreateTask(context.Background(), model.CreateTaskReq{Title: "x", Category: "y"})
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.Code != 1 || apiErr.Message != "duplicate title" {
		t.Fatalf("unexpected error contents: %+v", apiErr)
	}
	if Message(err) != "duplicate title" {
		t.Fatalf("Message should surface the server text, got %q", Message(err))
	}
}

func TestEnvelopeOnServerErrorStatus(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"code":500,"msg":"failed to get task: boom"}`))
	}))
	defer srv.Close()

	_, err := c.GetTask(context.Background(), "t1")
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error from 500 envelope, got %v", err)
	}
	if apiErr.Code != 500 {
		t.Fatalf("unexpected code %d", apiErr.Code)
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, "", time.Second)
	_, err := c.ListTasks(context.Background(), []string{model.StatusDone})
	if err == nil {
		t.Fatal("expected transport error")
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		t.Fatalf("transport failure must not look like an application failure: %v", err)
	}
	if Message(err) != "could not reach the task service" {
		t.Fatalf("unexpected generic message %q", Message(err))
	}
}

func TestDeleteTaskIssuesSingleDelete(t *testing.T) {
	var deletes int
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete && r.URL.Path == "/api/v1/tasks/t9" {
			deletes++
		}
		w.Write([]byte(`{"code":0,"msg":"success"}`))
	}))
	defer srv.Close()

	if err := c.DeleteTask(context.Background(), "t9"); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if deletes != 1 {
		t.Fatalf("expected exactly one DELETE, saw %d", deletes)
	}
}

func TestUpdateProgressBody(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/tasks/t3/progress" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		w.Write([]byte(`{"code":0,"msg":"success"}`))
	}))
	defer srv.Close()

	err := c.UpdateProgress(context.Background(), "t3", model.ProgressReq{
		LogText:    "wired the parser",
		MarkAsDone: true,
		NewStatus:  model.StatusDone,
	})
	if err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sekrit" {
			t.Errorf("unexpected auth header %q", got)
		}
		w.Write([]byte(`{"code":0,"msg":"success","data":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sekrit", time.Second)
	if _, err := c.ListTasks(context.Background(), []string{model.StatusDone}); err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
}
