package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"docbench/internal/domain"
	"docbench/internal/port"
)

// BenchmarkService defines the benchmark orchestration contract.
type BenchmarkService interface {
	// RunBenchmark runs every method to completion, one at a time, so that
	// timings are not skewed by shared network contention.
	RunBenchmark(ctx context.Context, input RunInput) (*domain.BenchmarkRunResult, error)
	StartMethod(ctx context.Context, input RunInput, method string) (*domain.StartHandle, error)
	// StartAll starts every method concurrently and records a pending run.
	StartAll(ctx context.Context, input RunInput) (*domain.HistoryEntry, error)
	Methods() []domain.MethodConfig
}

type benchmarkService struct {
	api     port.FilesAPI
	runner  *MethodRunner
	history port.HistoryStore
	methods []domain.MethodConfig
	clock   clockwork.Clock
}

// NewBenchmarkService creates a new BenchmarkService. history may be nil.
func NewBenchmarkService(api port.FilesAPI, runner *MethodRunner, history port.HistoryStore, methods []domain.MethodConfig, clk clockwork.Clock) BenchmarkService {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	return &benchmarkService{
		api:     api,
		runner:  runner,
		history: history,
		methods: methods,
		clock:   clk,
	}
}

// NewRunID returns a run id built from the current time and a random suffix.
func NewRunID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("run_%d_%s", now.UnixMilli(), suffix)
}

func (s *benchmarkService) Methods() []domain.MethodConfig {
	return s.methods
}

func (s *benchmarkService) RunBenchmark(ctx context.Context, input RunInput) (*domain.BenchmarkRunResult, error) {
	if !s.api.Configured() {
		return nil, domain.ErrMissingCredentials
	}

	startedAt := s.clock.Now().UTC()
	input.RunID = NewRunID(startedAt)
	entry := &domain.BenchmarkRunResult{
		RunID:        input.RunID,
		StartedAt:    startedAt,
		OriginalFile: originalFile(input),
		Methods:      make([]domain.MethodResult, 0, len(s.methods)),
	}

	log.Printf("benchmarkService.RunBenchmark: %s started for %s (%d bytes)", entry.RunID, input.FileName, len(input.File))
	for _, m := range s.methods {
		result := s.runner.RunToCompletion(ctx, input, m)
		log.Printf("benchmarkService.RunBenchmark: %s %s -> %s in %dms", entry.RunID, m.Name, result.Status, result.ProcessingTimeMs)
		entry.Methods = append(entry.Methods, result)
	}
	completedAt := s.clock.Now().UTC()
	entry.CompletedAt = &completedAt

	s.record(ctx, entry)
	return entry, nil
}

func (s *benchmarkService) StartMethod(ctx context.Context, input RunInput, method string) (*domain.StartHandle, error) {
	cfg, ok := s.lookup(method)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownMethod, method)
	}
	if !s.api.Configured() {
		return nil, domain.ErrMissingCredentials
	}
	return s.runner.StartOnly(ctx, input, cfg)
}

func (s *benchmarkService) StartAll(ctx context.Context, input RunInput) (*domain.HistoryEntry, error) {
	if !s.api.Configured() {
		return nil, domain.ErrMissingCredentials
	}

	startedAt := s.clock.Now().UTC()
	if input.RunID == "" {
		input.RunID = NewRunID(startedAt)
	}
	entry := &domain.HistoryEntry{
		RunID:        input.RunID,
		StartedAt:    startedAt,
		OriginalFile: originalFile(input),
		Methods:      make([]domain.MethodResult, len(s.methods)),
	}

	var g errgroup.Group
	for i, m := range s.methods {
		g.Go(func() error {
			entry.Methods[i] = s.startOne(ctx, input, m)
			return nil
		})
	}
	_ = g.Wait()

	if entry.AllTerminal() {
		completedAt := s.clock.Now().UTC()
		entry.CompletedAt = &completedAt
	}
	s.record(ctx, entry)
	return entry, nil
}

func (s *benchmarkService) startOne(ctx context.Context, input RunInput, m domain.MethodConfig) domain.MethodResult {
	handle, err := s.runner.StartOnly(ctx, input, m)
	if err == nil {
		startedAt := handle.StartedAt
		return domain.MethodResult{
			Method:    m.Name,
			Label:     m.Label,
			FileID:    handle.FileID,
			Status:    domain.StatusUploadPending,
			StartedAt: &startedAt,
		}
	}

	log.Printf("benchmarkService.StartAll: %s failed to start: %v", m.Name, err)
	status := domain.StatusIndexingFailed
	if errors.Is(err, domain.ErrUploadFailed) {
		status = domain.StatusUploadFailed
	}
	now := s.clock.Now().UTC()
	return domain.MethodResult{
		Method:       m.Name,
		Label:        m.Label,
		Status:       status,
		FailedReason: err.Error(),
		StartedAt:    &now,
	}
}

func (s *benchmarkService) record(ctx context.Context, entry *domain.HistoryEntry) {
	if s.history == nil {
		return
	}
	if err := s.history.Create(ctx, entry); err != nil {
		log.Printf("benchmarkService: failed to record run %s: %v", entry.RunID, err)
	}
}

func (s *benchmarkService) lookup(name string) (domain.MethodConfig, bool) {
	for _, m := range s.methods {
		if m.Name == name {
			return m, true
		}
	}
	return domain.MethodConfig{}, false
}

func originalFile(input RunInput) domain.OriginalFile {
	return domain.OriginalFile{
		Name:        input.FileName,
		Size:        int64(len(input.File)),
		ContentType: input.ContentType,
	}
}
