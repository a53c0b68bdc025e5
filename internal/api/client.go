// Package api is the HTTP client for the Chronicle task service. Every
// response is wrapped in a {code, msg, data} envelope; a non-zero code is
// surfaced as an *Error regardless of the HTTP transport status, so
// callers handle failure as a value rather than inspecting codes.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nhle/chronicle-tui/internal/model"
)

// Error is an application-level failure reported by the service envelope.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("server error (code %d): %s", e.Code, e.Message)
}

// Message extracts a human-readable reason from err: the server-supplied
// message for application failures, a generic line for transport errors.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "could not reach the task service"
}

// envelope is the wire wrapper around every response body.
type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Client issues the REST operations against a Chronicle server. It
// performs no retries; failures propagate immediately to the caller.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for the service at baseURL. token is an
// optional bearer token; pass "" for unauthenticated servers.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ListTasks fetches task summaries filtered to the given statuses.
func (c *Client) ListTasks(ctx context.Context, statuses []string) ([]model.Task, error) {
	path := "/api/v1/tasks?status=" + url.QueryEscape(strings.Join(statuses, ","))
	var tasks []model.Task
	if err := c.do(ctx, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask fetches a single task including its worklogs.
func (c *Client) GetTask(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	if err := c.do(ctx, http.MethodGet, "/api/v1/tasks/"+url.PathEscape(id), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// CreateTask creates a new task; the server assigns the id and the
// default todo status.
func (c *Client) CreateTask(ctx context.Context, req model.CreateTaskReq) (*model.Task, error) {
	var task model.Task
	if err := c.do(ctx, http.MethodPost, "/api/v1/tasks", req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask patches a task's metadata. Status is not affected.
func (c *Client) UpdateTask(ctx context.Context, id string, req model.UpdateTaskReq) (*model.Task, error) {
	var task model.Task
	if err := c.do(ctx, http.MethodPatch, "/api/v1/tasks/"+url.PathEscape(id), req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateProgress advances a task: appends a worklog when log text is
// present, optionally marks it done, optionally moves the deadline.
func (c *Client) UpdateProgress(ctx context.Context, id string, req model.ProgressReq) error {
	return c.do(ctx, http.MethodPost, "/api/v1/tasks/"+url.PathEscape(id)+"/progress", req, nil)
}

// DeleteTask removes a task. The server cascades to its worklogs.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/tasks/"+url.PathEscape(id), nil, nil)
}

// DeleteWorklog removes a single worklog.
func (c *Client) DeleteWorklog(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/worklogs/"+url.PathEscape(id), nil, nil)
}

// do builds the request, decodes the envelope, and maps a non-zero code
// to *Error. The server reports application failures with both non-2xx
// statuses and envelope codes; the envelope wins whenever it parses.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	body interface{},
	result interface{},
) error {
	reqURL := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request %s %s: %w", method, path, err)
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return fmt.Errorf("reading response body: %w", readErr)
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return fmt.Errorf(
			"unexpected status %d on %s %s: %s",
			resp.StatusCode, method, path, string(respBody),
		)
	}

	if env.Code != 0 {
		return &Error{Code: env.Code, Message: env.Msg}
	}

	if result == nil || len(env.Data) == 0 {
		return nil
	}

	if err := json.Unmarshal(env.Data, result); err != nil {
		return fmt.Errorf(
			"unmarshaling response from %s %s: %w", method, path, err,
		)
	}

	return nil
}
