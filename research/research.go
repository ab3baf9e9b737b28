// Package research is the client surface for Exa research tasks:
// long-running agentic jobs that are created, then polled to a terminal
// status through the shared poll loop in the root package.
package research

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	exa "github.com/erayack/exa-go"
)

// Status is the lifecycle status of a research task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCanceled  Status = "canceled"
)

// Terminal reports whether no further automatic status change is expected.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCanceled
}

// Task is a research job.
type Task struct {
	ID           string      `json:"id"`
	Status       Status      `json:"status"`
	Instructions string      `json:"instructions"`
	Model        string      `json:"model,omitempty"`
	Output       *TaskOutput `json:"output,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// TaskOutput is the result of a completed task.
type TaskOutput struct {
	Content   string          `json:"content,omitempty"`
	Parsed    json.RawMessage `json:"parsed,omitempty"`
	Citations []exa.Citation  `json:"citations,omitempty"`
}

// CreateOptions parameterizes Create.
type CreateOptions struct {
	Instructions string          `json:"instructions"`
	Model        string          `json:"model,omitempty"`
	OutputSchema json.RawMessage `json:"outputSchema,omitempty"`
}

// ListResponse is one page of tasks.
type ListResponse struct {
	Data       []Task `json:"data"`
	HasMore    bool   `json:"hasMore"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// PollOptions tunes PollUntilFinished. Zero-value fields use the defaults:
// a one second interval and a ten minute timeout.
type PollOptions struct {
	Interval time.Duration
	Timeout  time.Duration

	// OnPoll observes every fetched snapshot. Side effects only.
	OnPoll func(*Task)
}

func (o *PollOptions) interval() time.Duration {
	if o == nil || o.Interval <= 0 {
		return time.Second
	}
	return o.Interval
}

func (o *PollOptions) timeout() time.Duration {
	if o == nil || o.Timeout <= 0 {
		return 10 * time.Minute
	}
	return o.Timeout
}

func (o *PollOptions) onPoll() func(*Task) {
	if o == nil {
		return nil
	}
	return o.OnPoll
}

// Client calls the research API. Use [New] to construct one.
type Client struct {
	api *exa.Client
}

// New wraps an [exa.Client] with the research surface.
func New(api *exa.Client) *Client {
	return &Client{api: api}
}

// Create starts a research task.
func (c *Client) Create(ctx context.Context, opts CreateOptions) (*Task, error) {
	if opts.Instructions == "" {
		return nil, fmt.Errorf("instructions must not be empty: %w", exa.ErrValidation)
	}
	var out Task
	if err := c.api.Request(ctx, http.MethodPost, "/research/v0/tasks", opts, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get fetches a task by id.
func (c *Client) Get(ctx context.Context, id string) (*Task, error) {
	if id == "" {
		return nil, fmt.Errorf("task id must not be empty: %w", exa.ErrValidation)
	}
	var out Task
	if err := c.api.Request(ctx, http.MethodGet, "/research/v0/tasks/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns one page of tasks.
func (c *Client) List(ctx context.Context, cursor string, limit int) (*ListResponse, error) {
	q := url.Values{}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	path := "/research/v0/tasks"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out ListResponse
	if err := c.api.Request(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// All returns a source over every task, fetching pages lazily.
func (c *Client) All(ctx context.Context, limit int) exa.Source[Task] {
	return exa.PageSource(ctx, func(ctx context.Context, cursor string) (exa.Page[Task], error) {
		page, err := c.List(ctx, cursor, limit)
		if err != nil {
			return exa.Page[Task]{}, err
		}
		return exa.Page[Task]{Data: page.Data, HasMore: page.HasMore, NextCursor: page.NextCursor}, nil
	})
}

// PollUntilFinished polls a task until it reaches a terminal status. A task
// that ends as failed or canceled still resolves with its record — callers
// branch on Status — so unlike a timeout, a failed run is not an error
// here. This asymmetry is deliberate: the record carries the failure
// detail, a deadline carries none.
func (c *Client) PollUntilFinished(ctx context.Context, id string, opts *PollOptions) (*Task, error) {
	if id == "" {
		return nil, fmt.Errorf("task id must not be empty: %w", exa.ErrValidation)
	}
	return exa.Poll(ctx, id, exa.PollConfig[*Task]{
		Fetch:    func(ctx context.Context) (*Task, error) { return c.Get(ctx, id) },
		Done:     func(t *Task) bool { return t.Status.Terminal() },
		Interval: opts.interval(),
		Timeout:  opts.timeout(),
		OnPoll:   opts.onPoll(),
	})
}
