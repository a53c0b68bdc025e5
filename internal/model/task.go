package model

import "time"

// Task status values as transmitted by the Chronicle service.
// done is terminal: the server accepts no further progress updates for it.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in-progress"
	StatusDone       = "done"
)

// ActiveStatuses is the status set of the first board partition.
var ActiveStatuses = []string{StatusTodo, StatusInProgress}

// Task is an immutable client-side snapshot of a server-owned task.
// List responses carry only the summary fields; GetTask returns the
// full record including worklogs.
type Task struct {
	// ID is the opaque stable identifier assigned by the server.
	ID string `json:"id" db:"id"`

	// Title is the short required headline.
	Title string `json:"title" db:"title"`

	// Category is the short required grouping label.
	Category string `json:"category" db:"category"`

	// Status is one of the Status* constants.
	Status string `json:"status" db:"status"`

	// Description is the optional free-text body.
	Description string `json:"description,omitempty" db:"-"`

	// Targets is optional free text describing the intended outcome.
	Targets string `json:"targets,omitempty" db:"-"`

	// Links is a newline-delimited list of URLs.
	Links string `json:"links,omitempty" db:"-"`

	// Deadline is the optional scheduled completion instant.
	Deadline *time.Time `json:"deadline,omitempty" db:"deadline"`

	// ActualCompletedAt is set by the server exactly when the task
	// transitions to done.
	ActualCompletedAt *time.Time `json:"actual_completed_at,omitempty" db:"actual_completed_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// FetchedAt is when this snapshot was retrieved; populated by the
	// local cache, never transmitted.
	FetchedAt time.Time `json:"-" db:"fetched_at"`

	// Logs holds the worklogs in server-assigned creation order.
	Logs []Worklog `json:"logs,omitempty" db:"-"`
}

// IsDone reports whether the task reached its terminal status.
func (t Task) IsDone() bool {
	return t.Status == StatusDone
}

// Inconsistent reports a completion timestamp on a task that is not done.
// The server guarantees this never happens; the client flags it rather
// than hiding it.
func (t Task) Inconsistent() bool {
	return t.ActualCompletedAt != nil && t.Status != StatusDone
}

// Worklog is a timestamped note attached to a task. Worklogs are created
// by the server as a side effect of a progress update and deleted
// individually through their own endpoint.
type Worklog struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	LogText   string    `json:"log_text"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateTaskReq is the POST /tasks request body.
type CreateTaskReq struct {
	Title       string     `json:"title"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Targets     string     `json:"targets"`
	Deadline    *time.Time `json:"deadline"`
}

// UpdateTaskReq is the PATCH /tasks/{id} request body. Status is never
// changed through edit; only the progress endpoint moves it.
type UpdateTaskReq struct {
	Title       string     `json:"title"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Targets     string     `json:"targets"`
	Links       string     `json:"links"`
	Deadline    *time.Time `json:"deadline"`
}

// ProgressReq is the POST /tasks/{id}/progress request body. The server
// appends a worklog only when LogText is non-empty.
type ProgressReq struct {
	LogText    string     `json:"log_text"`
	MarkAsDone bool       `json:"mark_as_done"`
	NewStatus  string     `json:"new_status"`
	Deadline   *time.Time `json:"deadline"`
}
