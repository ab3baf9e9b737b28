package exa

import (
	"context"
	"fmt"
	"net/http"
)

type contentsRequest struct {
	URLs []string `json:"urls"`
	*ContentsOptions
}

// Contents fetches page contents for the given URLs.
func (c *Client) Contents(ctx context.Context, urls []string, opts *ContentsOptions) (*ContentsResponse, error) {
	if len(urls) == 0 {
		return nil, fmt.Errorf("urls must not be empty: %w", ErrValidation)
	}
	var out ContentsResponse
	if err := c.Request(ctx, http.MethodPost, "/contents", contentsRequest{URLs: urls, ContentsOptions: opts}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
