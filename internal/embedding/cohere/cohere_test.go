package cohere

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"incidentassist/internal/embedding"
)

func embedResponse(dim int) map[string]any {
	vec := make([]float64, dim)
	for i := range vec {
		vec[i] = 0.1
	}
	return map[string]any{
		"embeddings": map[string]any{"float": [][]float64{vec}},
	}
}

func newTestClient(t *testing.T, url string, dim int) *Client {
	t.Helper()
	c, err := NewClient(Config{BaseURL: url, APIKey: "test-key", Dimension: dim})
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Setenv("COHERE_API_KEY", "")
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func TestEmbedSendsExpectedRequest(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/embed", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(embedResponse(4))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 4)
	vec, err := c.Embed("database outage", embedding.InputQuery)
	require.NoError(t, err)
	assert.Len(t, vec, 4)

	assert.Equal(t, "embed-v4.0", gotBody["model"])
	assert.Equal(t, "search_query", gotBody["input_type"])
	assert.Equal(t, []any{"database outage"}, gotBody["texts"])
	assert.Equal(t, []any{"float"}, gotBody["embedding_types"])
}

func TestEmbedRejectsWrongDimension(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(embedResponse(8))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 4)
	_, err := c.Embed("text", embedding.InputDocument)
	assert.ErrorContains(t, err, "expected embedding size 4")
}

func TestEmbedRetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(embedResponse(4))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 4)
	vec, err := c.Embed("text", embedding.InputQuery)
	require.NoError(t, err)
	assert.Len(t, vec, 4)
	assert.Equal(t, int32(2), calls.Load())
}

func TestEmbedFailsOnEmptyEmbeddings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"embeddings": map[string]any{"float": [][]float64{}}})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 4)
	_, err := c.Embed("text", embedding.InputQuery)
	assert.ErrorContains(t, err, "no embedding")
}

func TestEmbedDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 4)
	_, err := c.Embed("text", embedding.InputQuery)
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
