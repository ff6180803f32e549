package openai_test

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
	"docbench/internal/extractor/openai"
	"docbench/internal/port"
)

func newTestExtractor(serverURL string) *openai.Extractor {
	return openai.NewExtractorWithEndpoint(&config.ExtractorProviderConfig{
		Provider: "openai",
		APIKey:   "sk-test",
	}, serverURL)
}

var input = port.ExtractInput{
	Prompt:     "Compare",
	SchemaName: "record_comparison",
	Schema:     json.RawMessage(`{"type":"object"}`),
}

func TestOpenAIExtractor_JSONSchemaResponseFormat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "gpt-4o", reqBody["model"])
		format := reqBody["response_format"].(map[string]interface{})
		assert.Equal(t, "json_schema", format["type"])
		schema := format["json_schema"].(map[string]interface{})
		assert.Equal(t, "record_comparison", schema["name"])

		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"summary\":\"ok\"}"},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	out, err := newTestExtractor(server.URL).Extract(context.Background(), input)

	require.NoError(t, err)
	assert.JSONEq(t, `{"summary":"ok"}`, string(out.Data))
	assert.Equal(t, "gpt-4o", out.ModelUsed)
}

func TestOpenAIExtractor_Failures(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"no choices", `{"choices":[]}`, "no choices"},
		{"truncated", `{"choices":[{"message":{"content":"{"},"finish_reason":"length"}]}`, "truncated"},
		{"refusal", `{"choices":[{"message":{"refusal":"cannot"},"finish_reason":"stop"}]}`, "model refused"},
		{"invalid json", `{"choices":[{"message":{"content":"not json"},"finish_reason":"stop"}]}`, "not valid JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestExtractor(server.URL).Extract(context.Background(), input)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestOpenAIExtractor_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestExtractor(server.URL).Extract(context.Background(), input)

	var rlErr *extractor.RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, "openai", rlErr.Provider)
}
