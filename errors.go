package exa

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request failed validation.
	ErrValidation = errors.New("validation error")

	// ErrNoBody indicates a streaming response arrived without a readable body.
	ErrNoBody = errors.New("response has no readable body")

	// ErrStreamClosed indicates an operation on a closed stream or source.
	ErrStreamClosed = errors.New("stream closed")
)

// APIError is returned when the API responds with a non-2xx status, or when
// a streaming response carries a terminal error event.
type APIError struct {
	Message    string
	StatusCode int
	Timestamp  time.Time
	Path       string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("exa: %s (status %d, path %s)", e.Message, e.StatusCode, e.Path)
	}
	return fmt.Sprintf("exa: %s (status %d)", e.Message, e.StatusCode)
}

// StreamError is returned when an event stream violates the wire protocol,
// e.g. it ends before delivering a completion event.
type StreamError struct {
	Message string
}

// Error implements the error interface.
func (e *StreamError) Error() string {
	return "exa: " + e.Message
}

// TimeoutError is returned when a poll loop exceeds its deadline before the
// watched resource reaches a terminal status.
type TimeoutError struct {
	ResourceID string
	Elapsed    time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("exa: polling %s timed out after %s", e.ResourceID, e.Elapsed)
}

// NormalizeError converts an arbitrary failure value into a typed error.
// Recognized typed errors and context cancellations pass through unchanged.
// Decoded JSON error payloads (maps) are inspected for a status code — first
// a top-level "statusCode" or "status" field, then the same fields nested
// under "response" — defaulting to 500, with the message taken from a
// "message" field when present. Anything else becomes an APIError with
// status 500.
func NormalizeError(v any) error {
	switch e := v.(type) {
	case nil:
		return nil
	case error:
		if isTyped(e) {
			return e
		}
		if errors.Is(e, context.Canceled) || errors.Is(e, context.DeadlineExceeded) || errors.Is(e, ErrStreamClosed) {
			return e
		}
		return &APIError{Message: e.Error(), StatusCode: 500}
	case map[string]any:
		return &APIError{Message: payloadMessage(e), StatusCode: payloadStatus(e)}
	default:
		return &APIError{Message: fmt.Sprint(v), StatusCode: 500}
	}
}

func isTyped(err error) bool {
	var apiErr *APIError
	var streamErr *StreamError
	var timeoutErr *TimeoutError
	return errors.As(err, &apiErr) || errors.As(err, &streamErr) || errors.As(err, &timeoutErr)
}

func payloadStatus(payload map[string]any) int {
	if code, ok := numberField(payload, "statusCode"); ok {
		return code
	}
	if code, ok := numberField(payload, "status"); ok {
		return code
	}
	if resp, ok := payload["response"].(map[string]any); ok {
		if code, ok := numberField(resp, "statusCode"); ok {
			return code
		}
		if code, ok := numberField(resp, "status"); ok {
			return code
		}
	}
	return 500
}

func payloadMessage(payload map[string]any) string {
	if msg, ok := payload["message"].(string); ok && msg != "" {
		return msg
	}
	return fmt.Sprint(payload)
}

// numberField reads an integer field that may arrive as a JSON number.
func numberField(m map[string]any, key string) (int, bool) {
	switch n := m[key].(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	default:
		return 0, false
	}
}
