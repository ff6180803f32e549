package service

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"docbench/internal/domain"
	"docbench/internal/filesapi"
	"docbench/internal/port"
)

// FileService defines read access to a single remote file.
type FileService interface {
	// Status reports the remote status. Metrics and the full passage list
	// are included only once the file is indexing_completed; processing time
	// only when startedAt is set.
	Status(ctx context.Context, fileID string, startedAt *time.Time) (*domain.FileStatusReport, error)
	Passages(ctx context.Context, fileID string, limit int, nextToken string) (*port.PassagePage, error)
}

type fileService struct {
	api   port.FilesAPI
	clock clockwork.Clock
}

// NewFileService creates a new FileService.
func NewFileService(api port.FilesAPI, clk clockwork.Clock) FileService {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	return &fileService{api: api, clock: clk}
}

func (s *fileService) Status(ctx context.Context, fileID string, startedAt *time.Time) (*domain.FileStatusReport, error) {
	status, err := s.api.GetStatus(ctx, fileID)
	if err != nil {
		return nil, err
	}

	report := &domain.FileStatusReport{
		FileID:       fileID,
		Status:       status.Status,
		FailedReason: status.FailedReason,
	}
	if status.Status.IsFailure() && report.FailedReason == "" {
		report.FailedReason = domain.UnknownErrorReason
	}

	if status.Status == domain.StatusIndexingCompleted {
		passages, err := filesapi.ListAllPassages(ctx, s.api, fileID, domain.PassagePageSize)
		if err != nil {
			return nil, err
		}
		m := ComputeMetrics(passages)
		report.Passages = passages
		report.PassageCount = m.PassageCount
		report.ContentCharsTotal = m.ContentCharsTotal
		report.MetaBreakdown = &m.MetaBreakdown
		report.SampleText = m.SampleText
	}

	if startedAt != nil {
		elapsed := s.clock.Now().Sub(*startedAt).Milliseconds()
		report.ProcessingTimeMs = &elapsed
	}
	return report, nil
}

func (s *fileService) Passages(ctx context.Context, fileID string, limit int, nextToken string) (*port.PassagePage, error) {
	if limit <= 0 {
		limit = domain.PassagePageSize
	}
	return s.api.ListPassages(ctx, fileID, limit, nextToken)
}
