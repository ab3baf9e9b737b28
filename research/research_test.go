package research_test

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
	"github.com/erayack/exa-go/research"
)

func clientFor(t *testing.T, h http.Handler) *research.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return research.New(exa.New("test-key", exa.WithBaseURL(srv.URL)))
}

func TestCreate(t *testing.T) {
	t.Parallel()
	client := clientFor(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/research/v0/tasks", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "compare go routers", body["instructions"])
		fmt.Fprint(w, `{"id":"task_1","status":"pending","instructions":"compare go routers"}`)
	}))

	task, err := client.Create(context.Background(), research.CreateOptions{Instructions: "compare go routers"})
	require.NoError(t, err)
	assert.Equal(t, research.StatusPending, task.Status)

	_, err = client.Create(context.Background(), research.CreateOptions{})
	assert.ErrorIs(t, err, exa.ErrValidation)
}

func TestPollUntilFinished_Completed(t *testing.T) {
	t.Parallel()
	statuses := []string{"pending", "running", "completed"}
	fetches := 0
	client := clientFor(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/research/v0/tasks/task_1", r.URL.Path)
		status := statuses[min(fetches, len(statuses)-1)]
		fetches++
		if status == "completed" {
			fmt.Fprint(w, `{"id":"task_1","status":"completed","output":{"content":"findings"}}`)
			return
		}
		fmt.Fprintf(w, `{"id":"task_1","status":%q}`, status)
	}))

	var observed []research.Status
	task, err := client.PollUntilFinished(context.Background(), "task_1", &research.PollOptions{
		Interval: 5 * time.Millisecond,
		Timeout:  time.Second,
		OnPoll:   func(t *research.Task) { observed = append(observed, t.Status) },
	})

	require.NoError(t, err)
	assert.Equal(t, research.StatusCompleted, task.Status)
	require.NotNil(t, task.Output)
	assert.Equal(t, "findings", task.Output.Content)
	assert.Equal(t, 3, fetches)
	assert.Equal(t, []research.Status{research.StatusPending, research.StatusRunning, research.StatusCompleted}, observed)
}

func TestPollUntilFinished_FailedResolvesWithRecord(t *testing.T) {
	t.Parallel()
	client := clientFor(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"task_1","status":"failed"}`)
	}))

	// Reaching failed is not an error: the record itself carries the
	// failure, unlike a timeout.
	task, err := client.PollUntilFinished(context.Background(), "task_1", &research.PollOptions{
		Interval: 5 * time.Millisecond,
		Timeout:  time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, research.StatusFailed, task.Status)
	assert.True(t, task.Status.Terminal())
}

func TestPollUntilFinished_Timeout(t *testing.T) {
	t.Parallel()
	client := clientFor(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"task_1","status":"running"}`)
	}))

	_, err := client.PollUntilFinished(context.Background(), "task_1", &research.PollOptions{
		Interval: 5 * time.Millisecond,
		Timeout:  30 * time.Millisecond,
	})

	var timeoutErr *exa.TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, "task_1", timeoutErr.ResourceID)
	assert.GreaterOrEqual(t, timeoutErr.Elapsed, 30*time.Millisecond)
}

func TestAll_Paginates(t *testing.T) {
	t.Parallel()
	client := clientFor(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("cursor") {
		case "":
			fmt.Fprint(w, `{"data":[{"id":"t1","status":"completed"}],"hasMore":true,"nextCursor":"p2"}`)
		case "p2":
			fmt.Fprint(w, `{"data":[{"id":"t2","status":"running"}],"hasMore":false}`)
		}
	}))

	tasks, err := exa.Collect[research.Task](client.All(context.Background(), 1))
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "t2", tasks[1].ID)
}
