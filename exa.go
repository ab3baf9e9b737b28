// Package exa is a Go client for the Exa search, contents and answer API.
//
// The root package holds the HTTP client, the answer streaming machinery,
// the generic terminal-state poller and the pull-source abstraction shared
// by every paginated or streamed resource. The websets and research
// subpackages build their endpoint surfaces on top of [Client].
package exa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

const (
	defaultBaseURL   = "https://api.exa.ai"
	defaultUserAgent = "exa-go"
)

// Client calls the Exa API. Use [New] to construct one.
type Client struct {
	apiKey     string
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *log.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the API base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithUserAgent overrides the User-Agent header on outgoing requests.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithLogger sets a logger for diagnostics the library would otherwise
// swallow: requests are logged at debug, as are failed stream releases.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a new Exa [Client] with the given API key and options.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		userAgent:  defaultUserAgent,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Request performs a JSON request against the API and decodes the response
// into out (which may be nil for endpoints with no response body). Non-2xx
// responses are returned as *APIError. Request exists for the websets and
// research subpackages; most callers use the typed endpoint methods.
func (c *Client) Request(ctx context.Context, method, path string, payload, out any) error {
	resp, err := c.do(ctx, method, path, payload, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.parseAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("exa: decoding %s response: %w", path, err)
	}
	return nil
}

// stream performs a POST expecting a text/event-stream response and returns
// it undecoded. The caller owns the body.
func (c *Client) stream(ctx context.Context, path string, payload any) (*http.Response, error) {
	resp, err := c.do(ctx, http.MethodPost, path, payload, "text/event-stream")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, c.parseAPIError(resp)
	}
	if resp.Body == nil || resp.Body == http.NoBody {
		return nil, fmt.Errorf("exa: streaming %s: %w", path, ErrNoBody)
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any, accept string) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("exa: encoding %s request: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("exa: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("exa: %w", err)
	}
	c.logf(log.DebugLevel, "request", "method", method, "path", path, "status", resp.StatusCode)
	return resp, nil
}

// parseAPIError builds an *APIError from a non-2xx response body.
func (c *Client) parseAPIError(resp *http.Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    http.StatusText(resp.StatusCode),
		Timestamp:  time.Now(),
	}
	if resp.Request != nil && resp.Request.URL != nil {
		apiErr.Path = resp.Request.URL.Path
	}

	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Path    string `json:"path"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		switch {
		case body.Message != "":
			apiErr.Message = body.Message
		case body.Error != "":
			apiErr.Message = body.Error
		}
		if body.Path != "" {
			apiErr.Path = body.Path
		}
	}
	return apiErr
}

// logf logs through the configured logger, if any.
func (c *Client) logf(level log.Level, msg string, kv ...any) {
	if c.logger == nil {
		return
	}
	c.logger.Log(level, msg, kv...)
}
