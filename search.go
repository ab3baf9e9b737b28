package exa

import (
	"context"
	"fmt"
	"net/http"
)

type searchRequest struct {
	Query string `json:"query"`
	URL   string `json:"url,omitempty"`
	*SearchOptions
}

// Search runs a query against the /search endpoint.
func (c *Client) Search(ctx context.Context, query string, opts *SearchOptions) (*SearchResponse, error) {
	if query == "" {
		return nil, fmt.Errorf("query must not be empty: %w", ErrValidation)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	var out SearchResponse
	if err := c.Request(ctx, http.MethodPost, "/search", searchRequest{Query: query, SearchOptions: opts}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindSimilar returns pages similar to the given URL.
func (c *Client) FindSimilar(ctx context.Context, url string, opts *SearchOptions) (*SearchResponse, error) {
	if url == "" {
		return nil, fmt.Errorf("url must not be empty: %w", ErrValidation)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	var out SearchResponse
	if err := c.Request(ctx, http.MethodPost, "/findSimilar", searchRequest{URL: url, SearchOptions: opts}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
