package port

import (
	"context"

	"docbench/internal/domain"
)

// EnqueueInput registers a file with the hosted files API.
type EnqueueInput struct {
	Key            string
	Size           int64
	ContentType    string
	IndexingConfig map[string]any
}

// EnqueueOutput identifies the registered file and where to upload its bytes.
type EnqueueOutput struct {
	FileID    string
	UploadURL string
}

// RemoteFileStatus is the status the files API reports for a file.
type RemoteFileStatus struct {
	Status       domain.Status
	FailedReason string
}

// PassagePage is one page of a file's passages.
type PassagePage struct {
	Passages   []domain.Passage
	NextCursor string
}

// FilesAPI abstracts the hosted parsing and indexing service. Implementations
// do not retry.
type FilesAPI interface {
	Enqueue(ctx context.Context, input EnqueueInput) (*EnqueueOutput, error)
	UploadBytes(ctx context.Context, uploadURL string, body []byte, contentType string) error
	GetStatus(ctx context.Context, fileID string) (*RemoteFileStatus, error)
	ListPassages(ctx context.Context, fileID string, limit int, cursor string) (*PassagePage, error)
	Search(ctx context.Context, query, fileID string, limit int) ([]domain.SearchHit, error)
	Configured() bool
}
