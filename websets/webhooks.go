package websets

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	exa "github.com/erayack/exa-go"
)

// Webhook is a registered delivery target for webset events.
type Webhook struct {
	ID        string      `json:"id"`
	Status    string      `json:"status"`
	URL       string      `json:"url"`
	Secret    string      `json:"secret,omitempty"`
	Events    []EventType `json:"events"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// CreateWebhookOptions parameterizes WebhooksClient.Create.
type CreateWebhookOptions struct {
	URL    string      `json:"url"`
	Events []EventType `json:"events"`
}

// UpdateWebhookOptions parameterizes WebhooksClient.Update. Nil fields are
// left unchanged.
type UpdateWebhookOptions struct {
	URL    string      `json:"url,omitempty"`
	Events []EventType `json:"events,omitempty"`
}

// ListWebhooksResponse is one page of webhooks.
type ListWebhooksResponse struct {
	Data       []Webhook `json:"data"`
	HasMore    bool      `json:"hasMore"`
	NextCursor string    `json:"nextCursor,omitempty"`
}

// WebhooksClient calls the webhooks API.
type WebhooksClient struct {
	api *exa.Client
}

// Create registers a webhook.
func (c *WebhooksClient) Create(ctx context.Context, opts CreateWebhookOptions) (*Webhook, error) {
	if opts.URL == "" {
		return nil, fmt.Errorf("webhook url must not be empty: %w", exa.ErrValidation)
	}
	if len(opts.Events) == 0 {
		return nil, fmt.Errorf("webhook must subscribe to at least one event: %w", exa.ErrValidation)
	}
	var out Webhook
	if err := c.api.Request(ctx, http.MethodPost, "/websets/v0/webhooks", opts, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get fetches a webhook by id.
func (c *WebhooksClient) Get(ctx context.Context, id string) (*Webhook, error) {
	if id == "" {
		return nil, fmt.Errorf("webhook id must not be empty: %w", exa.ErrValidation)
	}
	var out Webhook
	if err := c.api.Request(ctx, http.MethodGet, "/websets/v0/webhooks/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns one page of webhooks.
func (c *WebhooksClient) List(ctx context.Context, cursor string, limit int) (*ListWebhooksResponse, error) {
	var out ListWebhooksResponse
	if err := c.api.Request(ctx, http.MethodGet, "/websets/v0/webhooks"+listQuery(cursor, limit), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// All returns a source over every webhook, fetching pages lazily.
func (c *WebhooksClient) All(ctx context.Context, limit int) exa.Source[Webhook] {
	return exa.PageSource(ctx, func(ctx context.Context, cursor string) (exa.Page[Webhook], error) {
		page, err := c.List(ctx, cursor, limit)
		if err != nil {
			return exa.Page[Webhook]{}, err
		}
		return exa.Page[Webhook]{Data: page.Data, HasMore: page.HasMore, NextCursor: page.NextCursor}, nil
	})
}

// Update modifies a webhook.
func (c *WebhooksClient) Update(ctx context.Context, id string, opts UpdateWebhookOptions) (*Webhook, error) {
	if id == "" {
		return nil, fmt.Errorf("webhook id must not be empty: %w", exa.ErrValidation)
	}
	var out Webhook
	if err := c.api.Request(ctx, http.MethodPatch, "/websets/v0/webhooks/"+url.PathEscape(id), opts, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a webhook.
func (c *WebhooksClient) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("webhook id must not be empty: %w", exa.ErrValidation)
	}
	return c.api.Request(ctx, http.MethodDelete, "/websets/v0/webhooks/"+url.PathEscape(id), nil, nil)
}
