package filesapi_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docbench/internal/config"
	"docbench/internal/domain"
	"docbench/internal/filesapi"
	"docbench/internal/port"
)

func newTestClient(serverURL string) *filesapi.Client {
	return filesapi.NewClient(&config.FilesAPIConfig{
		BaseURL:     serverURL,
		Token:       "test-token",
		BotID:       "bot-1",
		TimeoutSecs: 5,
	})
}

func TestClient_Enqueue_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/bots/bot-1/files", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "run-1/basic/report.pdf", body["key"])
		assert.Equal(t, float64(42), body["size"])
		assert.Equal(t, "application/pdf", body["contentType"])
		indexing := body["indexing"].(map[string]interface{})
		assert.Equal(t, "vision", indexing["parser"])

		_ = json.NewEncoder(w).Encode(map[string]string{"id": "file-1", "uploadUrl": "https://upload.example/file-1"})
	}))
	defer server.Close()

	out, err := newTestClient(server.URL).Enqueue(context.Background(), port.EnqueueInput{
		Key:            "run-1/basic/report.pdf",
		Size:           42,
		ContentType:    "application/pdf",
		IndexingConfig: map[string]any{"parser": "vision"},
	})

	require.NoError(t, err)
	assert.Equal(t, "file-1", out.FileID)
	assert.Equal(t, "https://upload.example/file-1", out.UploadURL)
}

func TestClient_MissingCredentials_FailsFast(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := filesapi.NewClient(&config.FilesAPIConfig{BaseURL: server.URL, Token: "tok"})
	assert.False(t, client.Configured())

	_, err := client.Enqueue(context.Background(), port.EnqueueInput{Key: "k"})
	assert.ErrorIs(t, err, domain.ErrMissingCredentials)
	_, err = client.GetStatus(context.Background(), "file-1")
	assert.ErrorIs(t, err, domain.ErrMissingCredentials)
	assert.False(t, called)
}

func TestClient_UploadBytes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "application/pdf", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "%PDF-1.4", string(body))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	err := newTestClient(server.URL).UploadBytes(context.Background(), server.URL+"/upload", []byte("%PDF-1.4"), "application/pdf")
	assert.NoError(t, err)
}

func TestClient_UploadBytes_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("signature expired"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	err := client.UploadBytes(context.Background(), server.URL+"/upload", []byte("x"), "application/pdf")
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	assert.Contains(t, err.Error(), "signature expired")

	err = client.UploadBytes(context.Background(), "", []byte("x"), "application/pdf")
	assert.ErrorIs(t, err, domain.ErrMissingUploadURL)
}

func TestClient_GetStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bots/bot-1/files/ok":
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "ok", "status": "indexing_failed", "failedReason": "corrupt pdf"})
		case "/bots/bot-1/files/weird":
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "weird", "status": "sleeping"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	status, err := client.GetStatus(context.Background(), "ok")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusIndexingFailed, status.Status)
	assert.Equal(t, "corrupt pdf", status.FailedReason)

	_, err = client.GetStatus(context.Background(), "weird")
	assert.ErrorIs(t, err, domain.ErrRemote)

	_, err = client.GetStatus(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_RemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Search(context.Background(), "q", "f", 5)
	assert.ErrorIs(t, err, domain.ErrRemote)
	assert.Contains(t, err.Error(), "502")
}

func TestClient_ListPassages_NormalizesAndPaginates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bots/bot-1/files/file-1/passages", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("cursor") {
		case "":
			_, _ = w.Write([]byte(`{"items":[{"id":"p1","content":"a\r\nb","meta":{"type":"text","pageNumber":1}},{"id":"p2","content":"x\n\n\n\ny","meta":{}}],"cursor":"c2"}`))
		case "c2":
			_, _ = w.Write([]byte(`{"items":[{"id":"p3","content":"\tz","meta":{"type":"table","subtype":"grid","pageNumber":2}}]}`))
		default:
			t.Errorf("unexpected cursor %q", r.URL.Query().Get("cursor"))
		}
	}))
	defer server.Close()

	passages, err := filesapi.ListAllPassages(context.Background(), newTestClient(server.URL), "file-1", 2)

	require.NoError(t, err)
	require.Len(t, passages, 3)
	assert.Equal(t, "a\nb", passages[0].Content)
	assert.Equal(t, 1, *passages[0].Meta.PageNumber)
	assert.Equal(t, "x\n\ny", passages[1].Content)
	assert.Equal(t, "    z", passages[2].Content)
	assert.Equal(t, "grid", passages[2].Meta.Subtype)
}

func TestClient_Search_PreservesOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "revenue table", body["query"])
		assert.Equal(t, "file-9", body["fileId"])
		_, _ = w.Write([]byte(`{"items":[{"content":"low","score":0.2},{"content":"high","score":0.9}]}`))
	}))
	defer server.Close()

	hits, err := newTestClient(server.URL).Search(context.Background(), "revenue table", "file-9", 5)

	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "low", hits[0].Content)
	assert.Equal(t, "high", hits[1].Content)
}

func TestNormalizeContent(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"crlf", "a\r\nb\r\n", "a\nb\n"},
		{"lone cr", "a\rb", "a\nb"},
		{"tab stops", "ab\tc\n\td", "ab  c\n    d"},
		{"blank run", "a\n\n\n\n\nb", "a\n\nb"},
		{"single blank kept", "a\n\nb", "a\n\nb"},
		{"plain", "hello", "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filesapi.NormalizeContent(tt.in))
		})
	}
}
