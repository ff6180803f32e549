package filesapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"docbench/internal/config"
	"docbench/internal/domain"
	"docbench/internal/port"
)

// Client implements port.FilesAPI over the hosted files API's REST surface.
type Client struct {
	baseURL string
	token   string
	botID   string
	client  *http.Client
}

// NewClient creates a files API client from config.
func NewClient(cfg *config.FilesAPIConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		botID:   cfg.BotID,
		client:  &http.Client{Timeout: timeout},
	}
}

var _ port.FilesAPI = (*Client)(nil)

// Configured reports whether the token and bot id are both set.
func (c *Client) Configured() bool {
	return c.token != "" && c.botID != ""
}

type enqueueRequest struct {
	Key         string         `json:"key"`
	Size        int64          `json:"size"`
	ContentType string         `json:"contentType"`
	Indexing    map[string]any `json:"indexing,omitempty"`
}

type enqueueResponse struct {
	ID        string `json:"id"`
	UploadURL string `json:"uploadUrl"`
}

func (c *Client) Enqueue(ctx context.Context, input port.EnqueueInput) (*port.EnqueueOutput, error) {
	var resp enqueueResponse
	err := c.doJSON(ctx, http.MethodPost, c.botPath("files"), enqueueRequest{
		Key:         input.Key,
		Size:        input.Size,
		ContentType: input.ContentType,
		Indexing:    input.IndexingConfig,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("enqueue %s: %w", input.Key, err)
	}
	return &port.EnqueueOutput{FileID: resp.ID, UploadURL: resp.UploadURL}, nil
}

// UploadBytes PUTs the document to the pre-signed location returned by Enqueue.
// The location carries its own authorization, so no bearer token is sent.
func (c *Client) UploadBytes(ctx context.Context, uploadURL string, body []byte, contentType string) error {
	if uploadURL == "" {
		return domain.ErrMissingUploadURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = int64(len(body))

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w (status %d): %s", domain.ErrUploadFailed, resp.StatusCode, string(respBody))
	}
	return nil
}

type statusResponse struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	FailedReason string `json:"failedReason"`
}

func (c *Client) GetStatus(ctx context.Context, fileID string) (*port.RemoteFileStatus, error) {
	var resp statusResponse
	if err := c.doJSON(ctx, http.MethodGet, c.botPath("files", fileID), nil, &resp); err != nil {
		return nil, fmt.Errorf("status of %s: %w", fileID, err)
	}
	status := domain.Status(resp.Status)
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unrecognized status %q for file %s", domain.ErrRemote, resp.Status, fileID)
	}
	return &port.RemoteFileStatus{Status: status, FailedReason: resp.FailedReason}, nil
}

type passagesResponse struct {
	Items  []domain.Passage `json:"items"`
	Cursor string           `json:"cursor"`
}

func (c *Client) ListPassages(ctx context.Context, fileID string, limit int, cursor string) (*port.PassagePage, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	path := c.botPath("files", fileID, "passages")
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp passagesResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("passages of %s: %w", fileID, err)
	}
	for i := range resp.Items {
		resp.Items[i].Content = NormalizeContent(resp.Items[i].Content)
	}
	return &port.PassagePage{Passages: resp.Items, NextCursor: resp.Cursor}, nil
}

type searchRequest struct {
	Query  string `json:"query"`
	FileID string `json:"fileId"`
	Limit  int    `json:"limit"`
}

type searchResponse struct {
	Items []domain.SearchHit `json:"items"`
}

func (c *Client) Search(ctx context.Context, query, fileID string, limit int) ([]domain.SearchHit, error) {
	var resp searchResponse
	if err := c.doJSON(ctx, http.MethodPost, c.botPath("search"), searchRequest{
		Query:  query,
		FileID: fileID,
		Limit:  limit,
	}, &resp); err != nil {
		return nil, fmt.Errorf("search %s: %w", fileID, err)
	}
	for i := range resp.Items {
		resp.Items[i].Content = NormalizeContent(resp.Items[i].Content)
	}
	if resp.Items == nil {
		resp.Items = []domain.SearchHit{}
	}
	return resp.Items, nil
}

func (c *Client) botPath(parts ...string) string {
	path := "/bots/" + url.PathEscape(c.botID)
	for _, p := range parts {
		path += "/" + url.PathEscape(p)
	}
	return path
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	if !c.Configured() {
		return domain.ErrMissingCredentials
	}

	var reader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRemote, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, truncate(string(respBody), 200))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w (status %d): %s", domain.ErrRemote, resp.StatusCode, truncate(string(respBody), 500))
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshaling response: %w", err)
	}
	return nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
