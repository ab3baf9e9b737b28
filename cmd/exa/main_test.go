package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("missing api key is an error", func(t *testing.T) {
		t.Setenv("EXA_API_KEY", "")
		cmd := newRootCmd()
		require.NoError(t, cmd.ParseFlags(nil))

		_, err := newClient(cmd)
		assert.ErrorContains(t, err, "EXA_API_KEY")
	})

	t.Run("env var supplies the key", func(t *testing.T) {
		t.Setenv("EXA_API_KEY", "env-key")
		cmd := newRootCmd()
		require.NoError(t, cmd.ParseFlags(nil))

		client, err := newClient(cmd)
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("flag wins over env var", func(t *testing.T) {
		t.Setenv("EXA_API_KEY", "env-key")
		cmd := newRootCmd()
		require.NoError(t, cmd.ParseFlags([]string{"--api-key", "flag-key"}))

		client, err := newClient(cmd)
		require.NoError(t, err)
		assert.NotNil(t, client)
	})
}

func TestSearchCommand(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		assert.Equal(t, "/search", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"id": "1", "url": "https://go.dev", "title": "The Go Programming Language"},
			},
		})
	}))
	defer srv.Close()

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"search", "golang", "--api-key", "test-key", "--base-url", srv.URL})

	require.NoError(t, root.Execute())
	assert.Equal(t, "test-key", gotKey)
	assert.Contains(t, out.String(), "The Go Programming Language")
	assert.Contains(t, out.String(), "https://go.dev")
}

func TestSearchCommand_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"message": "invalid api key"})
	}))
	defer srv.Close()

	root := newRootCmd()
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"search", "golang", "--api-key", "bad-key", "--base-url", srv.URL})

	err := root.Execute()
	assert.ErrorContains(t, err, "invalid api key")
}
