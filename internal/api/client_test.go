package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Call_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "searchIngredients", r.URL.Query().Get("action"))
		assert.Equal(t, "flour", r.URL.Query().Get("query"))
		json.NewEncoder(w).Encode(map[string]any{
			"status": "success",
			"data":   []string{"Flour", "Flour Premium"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.Call(context.Background(), "searchIngredients", map[string]string{"query": "flour"})

	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.NotEmpty(t, resp.Data)
}

func TestClient_Call_ErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"status":  "error",
			"message": "unknown action",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.Call(context.Background(), "bogus", nil)

	require.NoError(t, err, "an application-level error is not a transport error")
	assert.False(t, resp.OK())
	assert.Equal(t, "unknown action", resp.Message)
}

func TestClient_Call_NotConfigured(t *testing.T) {
	client := NewClient("")
	resp, err := client.Call(context.Background(), "getBootstrapData", nil)

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestClient_Call_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Call(context.Background(), "getReport", nil)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode())
	assert.False(t, IsTimeout(err))
}

func TestClient_Call_TimeoutIsDistinct(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, WithTimeout(20*time.Millisecond))
	_, err := client.Call(context.Background(), "getBootstrapData", nil)

	require.Error(t, err)
	assert.True(t, IsTimeout(err), "deadline abort must map to TimeoutError, got %v", err)

	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr))
}

func TestClient_Call_BadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Call(context.Background(), "getReport", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse response")
}

func TestClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html lang=\"en\"><h1>POS</h1></html>"))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	page, err := client.Get(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Contains(t, page, "<h1>POS</h1>")
}
