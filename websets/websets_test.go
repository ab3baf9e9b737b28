package websets_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	exa "github.com/erayack/exa-go"
	"github.com/erayack/exa-go/websets"
)

func clientFor(t *testing.T, h http.Handler) *websets.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return websets.New(exa.New("test-key", exa.WithBaseURL(srv.URL)))
}

func TestCreateAndGet(t *testing.T) {
	t.Parallel()
	client := clientFor(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/websets/v0/websets":
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			search := body["search"].(map[string]any)
			assert.Equal(t, "ai startups", search["query"])
			fmt.Fprint(w, `{"id":"ws_1","status":"running"}`)
		case r.Method == http.MethodGet && r.URL.Path == "/websets/v0/websets/ws_1":
			fmt.Fprint(w, `{"id":"ws_1","status":"idle"}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))

	ws, err := client.Create(context.Background(), websets.CreateWebsetOptions{
		Search: &websets.CreateSearchOptions{Query: "ai startups", Count: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, websets.WebsetStatusRunning, ws.Status)

	ws, err = client.Get(context.Background(), "ws_1")
	require.NoError(t, err)
	assert.Equal(t, websets.WebsetStatusIdle, ws.Status)
}

func TestWaitUntilIdle(t *testing.T) {
	t.Parallel()
	statuses := []string{"running", "running", "idle"}
	fetches := 0
	client := clientFor(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := statuses[min(fetches, len(statuses)-1)]
		fetches++
		fmt.Fprintf(w, `{"id":"ws_1","status":%q}`, status)
	}))

	var observed []websets.WebsetStatus
	ws, err := client.WaitUntilIdle(context.Background(), "ws_1",
		&websets.WaitOptions{Interval: 5 * time.Millisecond, Timeout: time.Second},
		func(w *websets.Webset) { observed = append(observed, w.Status) })

	require.NoError(t, err)
	assert.Equal(t, websets.WebsetStatusIdle, ws.Status)
	assert.Equal(t, 3, fetches)
	assert.Equal(t, []websets.WebsetStatus{
		websets.WebsetStatusRunning, websets.WebsetStatusRunning, websets.WebsetStatusIdle,
	}, observed)
}

func TestWaitUntilIdle_PausedSettles(t *testing.T) {
	t.Parallel()
	statuses := []string{"running", "paused"}
	fetches := 0
	client := clientFor(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := statuses[min(fetches, len(statuses)-1)]
		fetches++
		fmt.Fprintf(w, `{"id":"ws_1","status":%q}`, status)
	}))

	// Paused means nothing is in flight, so the wait resolves rather than
	// polling to the deadline.
	ws, err := client.WaitUntilIdle(context.Background(), "ws_1",
		&websets.WaitOptions{Interval: 5 * time.Millisecond, Timeout: time.Second}, nil)

	require.NoError(t, err)
	assert.Equal(t, websets.WebsetStatusPaused, ws.Status)
	assert.Equal(t, 2, fetches)
}

func TestWaitUntilIdle_Timeout(t *testing.T) {
	t.Parallel()
	client := clientFor(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"ws_1","status":"running"}`)
	}))

	_, err := client.WaitUntilIdle(context.Background(), "ws_1",
		&websets.WaitOptions{Interval: 5 * time.Millisecond, Timeout: 30 * time.Millisecond}, nil)

	var timeoutErr *exa.TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, "ws_1", timeoutErr.ResourceID)
}

func TestItemsAll_PaginatesAndReleasesOnEarlyBreak(t *testing.T) {
	t.Parallel()
	pages := 0
	client := clientFor(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/websets/v0/websets/ws_1/items", r.URL.Path)
		pages++
		switch r.URL.Query().Get("cursor") {
		case "":
			fmt.Fprint(w, `{"data":[{"id":"i1","websetId":"ws_1"},{"id":"i2","websetId":"ws_1"}],"hasMore":true,"nextCursor":"p2"}`)
		case "p2":
			fmt.Fprint(w, `{"data":[{"id":"i3","websetId":"ws_1"}],"hasMore":false}`)
		default:
			t.Errorf("unexpected cursor %q", r.URL.Query().Get("cursor"))
		}
	}))

	// Full drain crosses the page boundary.
	items, err := exa.Collect[websets.Item](client.Items.All(context.Background(), "ws_1", 2))
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "i3", items[2].ID)
	assert.Equal(t, 2, pages)

	// Early break stops after the first page fetch.
	pages = 0
	for item, err := range exa.All[websets.Item](client.Items.All(context.Background(), "ws_1", 2)) {
		require.NoError(t, err)
		assert.Equal(t, "i1", item.ID)
		break
	}
	assert.Equal(t, 1, pages)
}

func TestEventsAll_ForwardsTypeFilter(t *testing.T) {
	t.Parallel()
	client := clientFor(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/websets/v0/events", r.URL.Path)
		assert.Equal(t, "webset.idle,webset.item.created", r.URL.Query().Get("types"))
		fmt.Fprint(w, `{"data":[{"id":"e1","type":"webset.idle"}],"hasMore":false}`)
	}))

	events, err := exa.Collect[websets.Event](client.Events.All(context.Background(), &websets.ListEventsOptions{
		Types: []websets.EventType{websets.EventWebsetIdle, websets.EventItemCreated},
	}))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, websets.EventWebsetIdle, events[0].Type)
}

func TestImportsWaitUntilCompleted_FailedResolvesWithRecord(t *testing.T) {
	t.Parallel()
	statuses := []string{"pending", "processing", "failed"}
	fetches := 0
	client := clientFor(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/websets/v0/imports/imp_1", r.URL.Path)
		status := statuses[min(fetches, len(statuses)-1)]
		fetches++
		fmt.Fprintf(w, `{"id":"imp_1","status":%q,"failureReason":"bad csv"}`, status)
	}))

	// A failed import resolves with its record rather than raising; only a
	// deadline is an error.
	imp, err := client.Imports.WaitUntilCompleted(context.Background(), "imp_1",
		&websets.WaitOptions{Interval: 5 * time.Millisecond, Timeout: time.Second}, nil)
	require.NoError(t, err)
	assert.Equal(t, websets.ImportStatusFailed, imp.Status)
	assert.Equal(t, "bad csv", imp.FailureReason)
	assert.Equal(t, 3, fetches)
}

func TestImportsAll_Paginates(t *testing.T) {
	t.Parallel()
	client := clientFor(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/websets/v0/imports", r.URL.Path)
		switch r.URL.Query().Get("cursor") {
		case "":
			fmt.Fprint(w, `{"data":[{"id":"imp_1","status":"completed"}],"hasMore":true,"nextCursor":"p2"}`)
		case "p2":
			fmt.Fprint(w, `{"data":[{"id":"imp_2","status":"failed"}],"hasMore":false}`)
		default:
			t.Errorf("unexpected cursor %q", r.URL.Query().Get("cursor"))
		}
	}))

	imports, err := exa.Collect[websets.Import](client.Imports.All(context.Background(), 1))
	require.NoError(t, err)
	require.Len(t, imports, 2)
	assert.Equal(t, websets.ImportStatusFailed, imports[1].Status)
}

func TestWebhooksValidation(t *testing.T) {
	t.Parallel()
	client := websets.New(exa.New("test-key"))

	_, err := client.Webhooks.Create(context.Background(), websets.CreateWebhookOptions{})
	assert.ErrorIs(t, err, exa.ErrValidation)

	_, err = client.Webhooks.Create(context.Background(), websets.CreateWebhookOptions{URL: "https://example.com"})
	assert.ErrorIs(t, err, exa.ErrValidation)
}

func TestEmptyIDValidation(t *testing.T) {
	t.Parallel()
	client := websets.New(exa.New("test-key"))
	ctx := context.Background()

	_, err := client.Get(ctx, "")
	assert.ErrorIs(t, err, exa.ErrValidation)
	_, err = client.WaitUntilIdle(ctx, "", nil, nil)
	assert.ErrorIs(t, err, exa.ErrValidation)
	_, err = client.Imports.WaitUntilCompleted(ctx, "", nil, nil)
	assert.ErrorIs(t, err, exa.ErrValidation)
}
