package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"knowledge-qa-go/internal/config"
)

func newTestClient(baseURL string) Client {
	return NewClient(config.EmbeddingConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "test-embedding-model",
		AppName: "test-app",
	})
}

func TestCreateEmbeddingSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-embedding-model", req["model"])

		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"embedding": []float32{0.1, 0.2, 0.3}}},
		})
	}))
	defer srv.Close()

	vec, err := newTestClient(srv.URL).CreateEmbedding(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestCreateEmbeddingServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).CreateEmbedding(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCreateEmbeddingConnectionRefused(t *testing.T) {
	// 指向已关闭的端口，网络错误同样映射为服务不可用
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	_, err := newTestClient(srv.URL).CreateEmbedding(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCreateEmbeddingEmptyVector(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{}})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).CreateEmbedding(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCreateEmbeddingMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).CreateEmbedding(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrUnavailable)
}
