package websets

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	exa "github.com/erayack/exa-go"
)

// ImportStatus is the lifecycle status of an import.
type ImportStatus string

const (
	ImportStatusPending    ImportStatus = "pending"
	ImportStatusProcessing ImportStatus = "processing"
	ImportStatusCompleted  ImportStatus = "completed"
	ImportStatusFailed     ImportStatus = "failed"
)

// terminal reports whether no further automatic status change is expected.
func (s ImportStatus) terminal() bool {
	return s == ImportStatusCompleted || s == ImportStatusFailed
}

// Import is a bulk load of external entities into the websets system.
type Import struct {
	ID            string       `json:"id"`
	Status        ImportStatus `json:"status"`
	Format        string       `json:"format"`
	Title         string       `json:"title,omitempty"`
	Count         int          `json:"count,omitempty"`
	FailureReason string       `json:"failureReason,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
}

// CreateImportOptions parameterizes ImportsClient.Create.
type CreateImportOptions struct {
	Format string            `json:"format"`
	Title  string            `json:"title,omitempty"`
	Size   int64             `json:"size,omitempty"`
	Count  int               `json:"count,omitempty"`
	Entity map[string]string `json:"entity,omitempty"`
}

// CreateImportResponse carries the created import and the upload target for
// its data.
type CreateImportResponse struct {
	Import
	UploadURL string `json:"uploadUrl,omitempty"`
}

// ListImportsResponse is one page of imports.
type ListImportsResponse struct {
	Data       []Import `json:"data"`
	HasMore    bool     `json:"hasMore"`
	NextCursor string   `json:"nextCursor,omitempty"`
}

// ImportsClient calls the imports API.
type ImportsClient struct {
	api *exa.Client
}

// Create registers a new import.
func (c *ImportsClient) Create(ctx context.Context, opts CreateImportOptions) (*CreateImportResponse, error) {
	if opts.Format == "" {
		return nil, fmt.Errorf("import format must not be empty: %w", exa.ErrValidation)
	}
	var out CreateImportResponse
	if err := c.api.Request(ctx, http.MethodPost, "/websets/v0/imports", opts, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get fetches an import by id.
func (c *ImportsClient) Get(ctx context.Context, id string) (*Import, error) {
	if id == "" {
		return nil, fmt.Errorf("import id must not be empty: %w", exa.ErrValidation)
	}
	var out Import
	if err := c.api.Request(ctx, http.MethodGet, "/websets/v0/imports/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns one page of imports.
func (c *ImportsClient) List(ctx context.Context, cursor string, limit int) (*ListImportsResponse, error) {
	var out ListImportsResponse
	if err := c.api.Request(ctx, http.MethodGet, "/websets/v0/imports"+listQuery(cursor, limit), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// All returns a source over every import, fetching pages lazily.
func (c *ImportsClient) All(ctx context.Context, limit int) exa.Source[Import] {
	return exa.PageSource(ctx, func(ctx context.Context, cursor string) (exa.Page[Import], error) {
		page, err := c.List(ctx, cursor, limit)
		if err != nil {
			return exa.Page[Import]{}, err
		}
		return exa.Page[Import]{Data: page.Data, HasMore: page.HasMore, NextCursor: page.NextCursor}, nil
	})
}

// WaitUntilCompleted polls an import until it reaches a terminal status.
// An import that ends as failed still resolves with its record — callers
// branch on Status — mirroring the research poll helper rather than
// raising; only a deadline produces an error.
func (c *ImportsClient) WaitUntilCompleted(ctx context.Context, id string, opts *WaitOptions, onPoll func(*Import)) (*Import, error) {
	if id == "" {
		return nil, fmt.Errorf("import id must not be empty: %w", exa.ErrValidation)
	}
	return exa.Poll(ctx, id, exa.PollConfig[*Import]{
		Fetch:    func(ctx context.Context) (*Import, error) { return c.Get(ctx, id) },
		Done:     func(i *Import) bool { return i.Status.terminal() },
		Interval: opts.interval(),
		Timeout:  opts.timeout(),
		OnPoll:   onPoll,
	})
}
