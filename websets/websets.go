// Package websets is the client surface for the Exa websets API: websets
// and their items, imports, webhooks and events. Long-running operations
// (webset enrichment, imports) expose wait helpers built on the shared
// poll loop in the root package.
package websets

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	exa "github.com/erayack/exa-go"
)

// WebsetStatus is the lifecycle status of a webset.
type WebsetStatus string

const (
	WebsetStatusRunning WebsetStatus = "running"
	WebsetStatusPaused  WebsetStatus = "paused"
	WebsetStatusIdle    WebsetStatus = "idle"
)

// Webset is a persistent collection of items built from searches, imports
// and enrichments.
type Webset struct {
	ID         string         `json:"id"`
	Status     WebsetStatus   `json:"status"`
	ExternalID string         `json:"externalId,omitempty"`
	Title      string         `json:"title,omitempty"`
	Searches   []WebsetSearch `json:"searches,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// WebsetSearch is a search attached to a webset.
type WebsetSearch struct {
	ID       string `json:"id"`
	Query    string `json:"query"`
	Status   string `json:"status"`
	Count    int    `json:"count,omitempty"`
	Behavior string `json:"behavior,omitempty"`
}

// CreateWebsetOptions parameterizes Create.
type CreateWebsetOptions struct {
	Search     *CreateSearchOptions `json:"search,omitempty"`
	ExternalID string               `json:"externalId,omitempty"`
	Title      string               `json:"title,omitempty"`
	Metadata   map[string]string    `json:"metadata,omitempty"`
}

// CreateSearchOptions is the initial search for a new webset.
type CreateSearchOptions struct {
	Query string `json:"query"`
	Count int    `json:"count,omitempty"`
}

// ListWebsetsOptions parameterizes List.
type ListWebsetsOptions struct {
	Cursor string
	Limit  int
}

// ListWebsetsResponse is one page of websets.
type ListWebsetsResponse struct {
	Data       []Webset `json:"data"`
	HasMore    bool     `json:"hasMore"`
	NextCursor string   `json:"nextCursor,omitempty"`
}

// WaitOptions tunes a wait helper. Zero-value fields use the helper's
// defaults.
type WaitOptions struct {
	// Interval between status fetches. Defaults to one second.
	Interval time.Duration

	// Timeout for the whole wait. Defaults to thirty minutes.
	Timeout time.Duration
}

func (o *WaitOptions) interval() time.Duration {
	if o == nil || o.Interval <= 0 {
		return time.Second
	}
	return o.Interval
}

func (o *WaitOptions) timeout() time.Duration {
	if o == nil || o.Timeout <= 0 {
		return 30 * time.Minute
	}
	return o.Timeout
}

// Client calls the websets API. Use [New] to construct one.
type Client struct {
	api *exa.Client

	// Items, Imports, Webhooks and Events expose the webset sub-resources.
	Items    *ItemsClient
	Imports  *ImportsClient
	Webhooks *WebhooksClient
	Events   *EventsClient
}

// New wraps an [exa.Client] with the websets surface.
func New(api *exa.Client) *Client {
	return &Client{
		api:      api,
		Items:    &ItemsClient{api: api},
		Imports:  &ImportsClient{api: api},
		Webhooks: &WebhooksClient{api: api},
		Events:   &EventsClient{api: api},
	}
}

// Create creates a new webset.
func (c *Client) Create(ctx context.Context, opts CreateWebsetOptions) (*Webset, error) {
	var out Webset
	if err := c.api.Request(ctx, http.MethodPost, "/websets/v0/websets", opts, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get fetches a webset by id.
func (c *Client) Get(ctx context.Context, id string) (*Webset, error) {
	if id == "" {
		return nil, fmt.Errorf("webset id must not be empty: %w", exa.ErrValidation)
	}
	var out Webset
	if err := c.api.Request(ctx, http.MethodGet, "/websets/v0/websets/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns one page of websets.
func (c *Client) List(ctx context.Context, opts *ListWebsetsOptions) (*ListWebsetsResponse, error) {
	path := "/websets/v0/websets" + listQuery(opts.cursor(), opts.limit())
	var out ListWebsetsResponse
	if err := c.api.Request(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (o *ListWebsetsOptions) cursor() string {
	if o == nil {
		return ""
	}
	return o.Cursor
}

func (o *ListWebsetsOptions) limit() int {
	if o == nil {
		return 0
	}
	return o.Limit
}

// Delete deletes a webset.
func (c *Client) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("webset id must not be empty: %w", exa.ErrValidation)
	}
	return c.api.Request(ctx, http.MethodDelete, "/websets/v0/websets/"+url.PathEscape(id), nil, nil)
}

// Cancel stops all running operations on a webset.
func (c *Client) Cancel(ctx context.Context, id string) (*Webset, error) {
	if id == "" {
		return nil, fmt.Errorf("webset id must not be empty: %w", exa.ErrValidation)
	}
	var out Webset
	if err := c.api.Request(ctx, http.MethodPost, "/websets/v0/websets/"+url.PathEscape(id)+"/cancel", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WaitUntilIdle polls a webset until its status leaves running, meaning no
// searches or enrichments are still in flight. A paused webset counts as
// settled: callers branch on the returned Status. onPoll, when non-nil,
// observes every fetched snapshot.
func (c *Client) WaitUntilIdle(ctx context.Context, id string, opts *WaitOptions, onPoll func(*Webset)) (*Webset, error) {
	if id == "" {
		return nil, fmt.Errorf("webset id must not be empty: %w", exa.ErrValidation)
	}
	return exa.Poll(ctx, id, exa.PollConfig[*Webset]{
		Fetch:    func(ctx context.Context) (*Webset, error) { return c.Get(ctx, id) },
		Done:     func(w *Webset) bool { return w.Status != WebsetStatusRunning },
		Interval: opts.interval(),
		Timeout:  opts.timeout(),
		OnPoll:   onPoll,
	})
}

// listQuery renders cursor/limit pagination parameters.
func listQuery(cursor string, limit int) string {
	q := url.Values{}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}
