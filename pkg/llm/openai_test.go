package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aureonone/seo-audit/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCompletionServer(t *testing.T, status int, content string, inspect func(map[string]any)) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if inspect != nil {
			inspect(body)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			w.Write([]byte(`{"error":{"message":"rate limited","type":"requests"}}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		})
	}))
}

func TestClient_CompleteJSON(t *testing.T) {
	server := newCompletionServer(t, http.StatusOK, `{"overallScore": 72}`, func(body map[string]any) {
		assert.Equal(t, "gpt-4o-mini", body["model"])
		assert.InDelta(t, 0.3, body["temperature"], 0.0001)
		assert.Equal(t, float64(2000), body["max_tokens"])

		format, ok := body["response_format"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "json_object", format["type"])

		messages, ok := body["messages"].([]any)
		require.True(t, ok)
		require.Len(t, messages, 2)
		assert.Equal(t, "system", messages[0].(map[string]any)["role"])
		assert.Equal(t, "be an analyst", messages[0].(map[string]any)["content"])
		assert.Equal(t, "user", messages[1].(map[string]any)["role"])
	})
	defer server.Close()

	client := New(Options{APIKey: "sk-test", BaseURL: server.URL + "/v1/"}, logger.Discard())

	content, err := client.CompleteJSON(context.Background(), "be an analyst", "audit this")

	require.NoError(t, err)
	assert.Equal(t, `{"overallScore": 72}`, content)
}

func TestClient_CompleteJSON_EmptyContent(t *testing.T) {
	server := newCompletionServer(t, http.StatusOK, "   ", nil)
	defer server.Close()

	client := New(Options{APIKey: "sk-test", BaseURL: server.URL + "/v1"}, logger.Discard())

	_, err := client.CompleteJSON(context.Background(), "sys", "user")

	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestClient_CompleteJSON_APIError(t *testing.T) {
	server := newCompletionServer(t, http.StatusTooManyRequests, "", nil)
	defer server.Close()

	client := New(Options{APIKey: "sk-test", BaseURL: server.URL + "/v1"}, logger.Discard())

	_, err := client.CompleteJSON(context.Background(), "sys", "user")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat completion")
}

func TestClient_CompleteJSON_ContextCancelled(t *testing.T) {
	server := newCompletionServer(t, http.StatusOK, `{}`, nil)
	defer server.Close()

	client := New(Options{APIKey: "sk-test", BaseURL: server.URL + "/v1"}, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.CompleteJSON(ctx, "sys", "user")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_Defaults(t *testing.T) {
	client := New(Options{APIKey: "sk-test"}, logger.Discard())

	assert.Equal(t, DefaultModel, client.model)
	assert.Equal(t, float32(DefaultTemperature), client.temperature)
	assert.Equal(t, DefaultMaxTokens, client.maxTokens)

	custom := New(Options{APIKey: "sk-test", Model: "llama3", MaxTokens: 500}, logger.Discard())
	assert.Equal(t, "llama3", custom.model)
	assert.Equal(t, 500, custom.maxTokens)
}

func TestClient_CheckHealth(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		expectError bool
	}{
		{name: "model available", status: http.StatusOK},
		{name: "unknown model", status: http.StatusNotFound, expectError: true},
		{name: "bad credentials", status: http.StatusUnauthorized, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/v1/models/gpt-4o-mini", r.URL.Path)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				if tt.status != http.StatusOK {
					w.Write([]byte(`{"error":{"message":"nope","type":"invalid_request_error"}}`))
					return
				}
				w.Write([]byte(`{"id":"gpt-4o-mini","object":"model","owned_by":"system"}`))
			}))
			defer server.Close()

			client := New(Options{APIKey: "sk-test", BaseURL: server.URL + "/v1/"}, logger.Discard())
			err := client.CheckHealth(context.Background())

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "model gpt-4o-mini")
				return
			}
			assert.NoError(t, err)
		})
	}
}
