package websets

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	exa "github.com/erayack/exa-go"
)

// Item is a single entity in a webset.
type Item struct {
	ID         string         `json:"id"`
	Source     string         `json:"source"`
	SourceID   string         `json:"sourceId,omitempty"`
	WebsetID   string         `json:"websetId"`
	Properties ItemProperties `json:"properties"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// ItemProperties is the resolved content of an item.
type ItemProperties struct {
	Type        string `json:"type"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content,omitempty"`
}

// ListItemsOptions parameterizes ItemsClient.List.
type ListItemsOptions struct {
	Cursor string
	Limit  int
}

// ListItemsResponse is one page of items.
type ListItemsResponse struct {
	Data       []Item `json:"data"`
	HasMore    bool   `json:"hasMore"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// ItemsClient calls the webset items API.
type ItemsClient struct {
	api *exa.Client
}

// List returns one page of a webset's items.
func (c *ItemsClient) List(ctx context.Context, websetID string, opts *ListItemsOptions) (*ListItemsResponse, error) {
	if websetID == "" {
		return nil, fmt.Errorf("webset id must not be empty: %w", exa.ErrValidation)
	}
	var cursor string
	var limit int
	if opts != nil {
		cursor, limit = opts.Cursor, opts.Limit
	}
	path := "/websets/v0/websets/" + url.PathEscape(websetID) + "/items" + listQuery(cursor, limit)
	var out ListItemsResponse
	if err := c.api.Request(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// All returns a source over every item of a webset, fetching pages lazily.
// Range over it with [exa.All]; stopping early releases the source.
func (c *ItemsClient) All(ctx context.Context, websetID string, limit int) exa.Source[Item] {
	return exa.PageSource(ctx, func(ctx context.Context, cursor string) (exa.Page[Item], error) {
		page, err := c.List(ctx, websetID, &ListItemsOptions{Cursor: cursor, Limit: limit})
		if err != nil {
			return exa.Page[Item]{}, err
		}
		return exa.Page[Item]{Data: page.Data, HasMore: page.HasMore, NextCursor: page.NextCursor}, nil
	})
}

// Delete removes an item from its webset.
func (c *ItemsClient) Delete(ctx context.Context, websetID, itemID string) error {
	if websetID == "" || itemID == "" {
		return fmt.Errorf("webset and item ids must not be empty: %w", exa.ErrValidation)
	}
	path := "/websets/v0/websets/" + url.PathEscape(websetID) + "/items/" + url.PathEscape(itemID)
	return c.api.Request(ctx, http.MethodDelete, path, nil, nil)
}
