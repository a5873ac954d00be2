package recipes_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxalabs/oxakit/pkg/recipes"
)

func newTestClient(t *testing.T, server *httptest.Server) *recipes.Client {
	t.Helper()

	client, err := recipes.NewClient(recipes.ClientConfig{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})
	require.NoError(t, err)
	return client
}

func completionResponse(content string) string {
	raw, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	return string(raw)
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	_, err := recipes.NewClient(recipes.ClientConfig{})
	assert.ErrorIs(t, err, recipes.ErrAPIKeyRequired)
}

func TestClient_Generate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("sends prompt and returns completion", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var req struct {
				Model    string `json:"model"`
				Messages []struct {
					Role    string `json:"role"`
					Content string `json:"content"`
				} `json:"messages"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Len(t, req.Messages, 2)
			assert.Equal(t, "system", req.Messages[0].Role)
			assert.Equal(t, "a quick lunch", req.Messages[1].Content)

			_, _ = w.Write([]byte(completionResponse("Title: Rice Bowl")))
		}))
		defer server.Close()

		text, err := newTestClient(t, server).Generate(ctx, "a quick lunch")
		require.NoError(t, err)
		assert.Equal(t, "Title: Rice Bowl", text)
	})

	t.Run("empty prompt", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("request should not be sent")
		}))
		defer server.Close()

		_, err := newTestClient(t, server).Generate(ctx, "   ")
		assert.ErrorIs(t, err, recipes.ErrEmptyPrompt)
	})

	t.Run("rate limit", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error": {"message": "rate limit reached"}}`))
		}))
		defer server.Close()

		_, err := newTestClient(t, server).Generate(ctx, "lunch")
		assert.ErrorIs(t, err, recipes.ErrRateLimitExceeded)
	})

	t.Run("api error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error": {"message": "invalid model"}}`))
		}))
		defer server.Close()

		_, err := newTestClient(t, server).Generate(ctx, "lunch")
		require.ErrorIs(t, err, recipes.ErrGenerationFailed)
		assert.Contains(t, err.Error(), "invalid model")
	})

	t.Run("empty choices", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices": []}`))
		}))
		defer server.Close()

		_, err := newTestClient(t, server).Generate(ctx, "lunch")
		assert.ErrorIs(t, err, recipes.ErrEmptyRecipe)
	})
}

func TestClient_GenerateRecipe(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(completionResponse(
			"Title: Rice Bowl\n\nIngredients:\n- 2 cups rice\n\nInstructions:\n1. Cook the rice.")))
	}))
	defer server.Close()

	recipe, err := newTestClient(t, server).GenerateRecipe(context.Background(), "lunch")
	require.NoError(t, err)

	assert.Equal(t, "Rice Bowl", recipe.Title)
	assert.Equal(t, []string{"2 cups rice"}, recipe.Ingredients)
	assert.Equal(t, []string{"Cook the rice."}, recipe.Instructions)
}
