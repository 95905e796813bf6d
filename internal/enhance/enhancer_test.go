package enhance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xxxxxthhh/SignalFeed/internal/config"
	"github.com/xxxxxthhh/SignalFeed/internal/storage"
)

func chatServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": [{"message": {"content": ` + reply + `}}]}`))
	}))
}

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	t.Setenv("TEST_ENHANCE_KEY", "test-key")
	client, err := NewClient(config.EnhanceConfig{
		BaseURL:   baseURL,
		Model:     "test-model",
		APIKeyEnv: "TEST_ENHANCE_KEY",
		Timeout:   5 * time.Second,
	})
	require.NoError(t, err)
	return client
}

func setupEnhancerStore(t *testing.T) *storage.Store {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "enhance_test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := storage.NewStore(filepath.Join(tempDir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewClientRequiresKey(t *testing.T) {
	t.Setenv("TEST_ENHANCE_KEY", "")
	_, err := NewClient(config.EnhanceConfig{APIKeyEnv: "TEST_ENHANCE_KEY"})
	assert.Error(t, err)
}

func TestClientEnhance(t *testing.T) {
	server := chatServer(t, `"{\"summary\": \"It works.\", \"key_points\": [\"a\"], \"tags\": [\"go\"]}"`)
	defer server.Close()

	client := testClient(t, server.URL)
	result, err := client.Enhance(context.Background(), "Title", "Body text")

	require.NoError(t, err)
	assert.Equal(t, "It works.", result.Summary)
	assert.Equal(t, []string{"a"}, result.KeyPoints)
	assert.Equal(t, []string{"go"}, result.Tags)
}

func TestClientEnhanceAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	_, err := client.Enhance(context.Background(), "Title", "Body")
	assert.Error(t, err)
}

func TestEnhancerRun(t *testing.T) {
	server := chatServer(t, `"{\"summary\": \"Generated.\", \"key_points\": [\"kp\"], \"tags\": [\"ai\", \"go\"]}"`)
	defer server.Close()

	store := setupEnhancerStore(t)
	_, err := store.SaveArticles([]*storage.Article{
		{ID: "1", Title: "Needs work", Description: "text", URLHash: "h1",
			Tags: []storage.Tag{{Label: "Go", Key: "go"}}},
		{ID: "2", Title: "Already done", Summary: "existing", URLHash: "h2"},
	})
	require.NoError(t, err)

	enhancer := NewEnhancer(store, testClient(t, server.URL), 10)
	enhanced, err := enhancer.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, enhanced)

	articles, err := store.GetAllArticles()
	require.NoError(t, err)
	for _, a := range articles {
		switch a.ID {
		case "1":
			assert.Equal(t, "Generated.", a.Summary)
			assert.Equal(t, []string{"kp"}, a.KeyPoints)
			// "go" already present, "ai" merged in.
			keys := make([]string, 0, len(a.Tags))
			for _, tag := range a.Tags {
				keys = append(keys, tag.Key)
			}
			assert.ElementsMatch(t, []string{"go", "ai"}, keys)
		case "2":
			assert.Equal(t, "existing", a.Summary, "already-summarized article untouched")
		}
	}
}

func TestEnhancerRunSkipsBadResponses(t *testing.T) {
	server := chatServer(t, `"this is not json"`)
	defer server.Close()

	store := setupEnhancerStore(t)
	_, err := store.SaveArticles([]*storage.Article{
		{ID: "1", Title: "Bad response", Description: "text", URLHash: "h1"},
	})
	require.NoError(t, err)

	enhancer := NewEnhancer(store, testClient(t, server.URL), 10)
	enhanced, err := enhancer.Run(context.Background())

	require.NoError(t, err, "a bad model response must not abort the pass")
	assert.Equal(t, 0, enhanced)
}

func TestEnhancerRunHonorsBatchSize(t *testing.T) {
	server := chatServer(t, `"{\"summary\": \"S.\"}"`)
	defer server.Close()

	store := setupEnhancerStore(t)
	_, err := store.SaveArticles([]*storage.Article{
		{ID: "1", Title: "a", Description: "x", URLHash: "h1"},
		{ID: "2", Title: "b", Description: "x", URLHash: "h2"},
		{ID: "3", Title: "c", Description: "x", URLHash: "h3"},
	})
	require.NoError(t, err)

	enhancer := NewEnhancer(store, testClient(t, server.URL), 2)
	enhanced, err := enhancer.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, enhanced)
}
