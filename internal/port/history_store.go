package port

import (
	"context"

	"docbench/internal/domain"
)

// HistoryStore defines persistence for benchmark runs, newest first.
type HistoryStore interface {
	Create(ctx context.Context, entry *domain.HistoryEntry) error
	GetByID(ctx context.Context, runID string) (*domain.HistoryEntry, error)
	List(ctx context.Context) ([]domain.HistoryEntry, error)
	MergeMethodUpdate(ctx context.Context, runID, method string, patch domain.MethodPatch) (*domain.HistoryEntry, error)
	AttachAiComparison(ctx context.Context, runID string, result *domain.AiComparisonResult) (*domain.HistoryEntry, error)
	Summarize(ctx context.Context) ([]domain.RunSummary, error)
	Export(ctx context.Context) ([]byte, error)
	Import(ctx context.Context, data []byte) (int, error)
}
