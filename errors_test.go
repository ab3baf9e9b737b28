package exa_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	exa "github.com/erayack/exa-go"
)

func TestAPIError_Error(t *testing.T) {
	t.Parallel()
	err := &exa.APIError{Message: "nope", StatusCode: 403, Path: "/search"}
	assert.Equal(t, "exa: nope (status 403, path /search)", err.Error())

	err = &exa.APIError{Message: "nope", StatusCode: 403}
	assert.Equal(t, "exa: nope (status 403)", err.Error())
}

func TestTimeoutError_Error(t *testing.T) {
	t.Parallel()
	err := &exa.TimeoutError{ResourceID: "ws_1", Elapsed: 3 * time.Second}
	assert.Equal(t, "exa: polling ws_1 timed out after 3s", err.Error())
}

func TestNormalizeError(t *testing.T) {
	t.Parallel()

	t.Run("typed errors pass through", func(t *testing.T) {
		t.Parallel()
		for _, err := range []error{
			&exa.APIError{Message: "x", StatusCode: 404},
			&exa.StreamError{Message: "x"},
			&exa.TimeoutError{ResourceID: "x"},
		} {
			assert.Same(t, any(err), any(exa.NormalizeError(err)))
		}
	})

	t.Run("wrapped typed errors pass through", func(t *testing.T) {
		t.Parallel()
		inner := &exa.APIError{Message: "x", StatusCode: 404}
		wrapped := fmt.Errorf("context: %w", inner)
		var apiErr *exa.APIError
		require.ErrorAs(t, exa.NormalizeError(wrapped), &apiErr)
		assert.Equal(t, 404, apiErr.StatusCode)
	})

	t.Run("context cancellation passes through", func(t *testing.T) {
		t.Parallel()
		assert.ErrorIs(t, exa.NormalizeError(context.Canceled), context.Canceled)
	})

	t.Run("plain error defaults to 500", func(t *testing.T) {
		t.Parallel()
		var apiErr *exa.APIError
		require.ErrorAs(t, exa.NormalizeError(errors.New("boom")), &apiErr)
		assert.Equal(t, 500, apiErr.StatusCode)
		assert.Equal(t, "boom", apiErr.Message)
	})

	t.Run("payload with top-level status", func(t *testing.T) {
		t.Parallel()
		payload := map[string]any{"statusCode": float64(429), "message": "slow down"}
		var apiErr *exa.APIError
		require.ErrorAs(t, exa.NormalizeError(payload), &apiErr)
		assert.Equal(t, 429, apiErr.StatusCode)
		assert.Equal(t, "slow down", apiErr.Message)
	})

	t.Run("payload with nested response status", func(t *testing.T) {
		t.Parallel()
		payload := map[string]any{
			"message":  "not found",
			"response": map[string]any{"status": float64(404)},
		}
		var apiErr *exa.APIError
		require.ErrorAs(t, exa.NormalizeError(payload), &apiErr)
		assert.Equal(t, 404, apiErr.StatusCode)
	})

	t.Run("payload without status defaults to 500", func(t *testing.T) {
		t.Parallel()
		var apiErr *exa.APIError
		require.ErrorAs(t, exa.NormalizeError(map[string]any{"message": "odd"}), &apiErr)
		assert.Equal(t, 500, apiErr.StatusCode)
	})

	t.Run("arbitrary value is stringified", func(t *testing.T) {
		t.Parallel()
		var apiErr *exa.APIError
		require.ErrorAs(t, exa.NormalizeError(42), &apiErr)
		assert.Equal(t, "42", apiErr.Message)
		assert.Equal(t, 500, apiErr.StatusCode)
	})

	t.Run("nil stays nil", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, exa.NormalizeError(nil))
	})
}
