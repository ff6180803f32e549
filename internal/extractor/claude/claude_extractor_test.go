package claude_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docbench/internal/config"
	"docbench/internal/extractor"
	"docbench/internal/extractor/claude"
	"docbench/internal/port"
)

func newTestExtractor(serverURL string) *claude.Extractor {
	return claude.NewExtractorWithEndpoint(&config.ExtractorProviderConfig{
		Provider:     "claude",
		APIKey:       "test-api-key",
		DefaultModel: "claude-sonnet-4-20250514",
		TimeoutSecs:  30,
	}, serverURL)
}

var input = port.ExtractInput{
	Prompt:     "Compare these excerpts",
	SchemaName: "record_comparison",
	Schema:     json.RawMessage(`{"type":"object","properties":{"summary":{"type":"string"}}}`),
}

func TestClaudeExtractor_ForcesToolUse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-api-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		tools := reqBody["tools"].([]interface{})
		require.Len(t, tools, 1)
		tool := tools[0].(map[string]interface{})
		assert.Equal(t, "record_comparison", tool["name"])
		assert.Equal(t, "object", tool["input_schema"].(map[string]interface{})["type"])
		choice := reqBody["tool_choice"].(map[string]interface{})
		assert.Equal(t, "tool", choice["type"])
		assert.Equal(t, "record_comparison", choice["name"])

		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"thinking"},{"type":"tool_use","name":"record_comparison","input":{"summary":"vision best"}}],"stop_reason":"tool_use"}`))
	}))
	defer server.Close()

	out, err := newTestExtractor(server.URL).Extract(context.Background(), input)

	require.NoError(t, err)
	assert.JSONEq(t, `{"summary":"vision best"}`, string(out.Data))
	assert.Equal(t, "claude-sonnet-4-20250514", out.ModelUsed)
}

func TestClaudeExtractor_NoToolCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"no"}],"stop_reason":"end_turn"}`))
	}))
	defer server.Close()

	_, err := newTestExtractor(server.URL).Extract(context.Background(), input)
	assert.ErrorContains(t, err, "no record_comparison tool call")
}

func TestClaudeExtractor_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "12")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestExtractor(server.URL).Extract(context.Background(), input)

	var rlErr *extractor.RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, "claude", rlErr.Provider)
	assert.Equal(t, float64(12), rlErr.RetryAfter.Seconds())
}

func TestClaudeExtractor_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("overloaded"))
	}))
	defer server.Close()

	_, err := newTestExtractor(server.URL).Extract(context.Background(), input)
	assert.ErrorContains(t, err, "status 500")
}
