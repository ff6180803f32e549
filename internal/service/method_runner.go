package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"docbench/internal/domain"
	"docbench/internal/filesapi"
	"docbench/internal/port"
)

// RunInput is one uploaded document to run through the methods.
type RunInput struct {
	RunID       string
	File        []byte
	FileName    string
	ContentType string
}

// MethodRunner drives a single method against the files API.
type MethodRunner struct {
	api         port.FilesAPI
	clock       clockwork.Clock
	interval    time.Duration
	maxAttempts int
}

// NewMethodRunner creates a MethodRunner. Non-positive interval or attempt
// values fall back to domain.PollInterval and domain.MaxPollAttempts.
func NewMethodRunner(api port.FilesAPI, clk clockwork.Clock, interval time.Duration, maxAttempts int) *MethodRunner {
	if interval <= 0 {
		interval = domain.PollInterval
	}
	if maxAttempts <= 0 {
		maxAttempts = domain.MaxPollAttempts
	}
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	return &MethodRunner{api: api, clock: clk, interval: interval, maxAttempts: maxAttempts}
}

// StartOnly enqueues and uploads the document, then returns without polling.
func (r *MethodRunner) StartOnly(ctx context.Context, input RunInput, method domain.MethodConfig) (*domain.StartHandle, error) {
	startedAt := r.clock.Now().UTC()
	fileID, err := r.upload(ctx, input, method)
	if err != nil {
		return nil, err
	}
	return &domain.StartHandle{
		FileID:    fileID,
		Method:    method.Name,
		Label:     method.Label,
		StartedAt: startedAt,
	}, nil
}

// RunToCompletion enqueues, uploads and polls until the method reaches a
// terminal status. Expected failures are reported in the result, never as
// an error.
func (r *MethodRunner) RunToCompletion(ctx context.Context, input RunInput, method domain.MethodConfig) domain.MethodResult {
	start := r.clock.Now().UTC()
	result := domain.MethodResult{
		Method:    method.Name,
		Label:     method.Label,
		Status:    domain.StatusUploadPending,
		StartedAt: &start,
	}
	finish := func(status domain.Status, reason string) domain.MethodResult {
		result.Status = status
		result.FailedReason = reason
		result.ProcessingTimeMs = r.clock.Now().Sub(start).Milliseconds()
		return result
	}

	fileID, err := r.upload(ctx, input, method)
	result.FileID = fileID
	if err != nil {
		log.Printf("methodRunner.RunToCompletion: %s start failed: %v", method.Name, err)
		if errors.Is(err, domain.ErrUploadFailed) {
			return finish(domain.StatusUploadFailed, err.Error())
		}
		return finish(domain.StatusIndexingFailed, err.Error())
	}

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		if err := r.wait(ctx); err != nil {
			return finish(domain.StatusIndexingFailed, err.Error())
		}

		status, err := r.api.GetStatus(ctx, fileID)
		if err != nil {
			log.Printf("methodRunner.RunToCompletion: %s status check failed: %v", method.Name, err)
			return finish(domain.StatusIndexingFailed, err.Error())
		}
		if status.Status.IsPending() {
			result.Status = status.Status
			continue
		}

		if status.Status != domain.StatusIndexingCompleted {
			reason := status.FailedReason
			if reason == "" {
				reason = domain.UnknownErrorReason
			}
			return finish(status.Status, reason)
		}

		passages, err := filesapi.ListAllPassages(ctx, r.api, fileID, domain.PassagePageSize)
		if err != nil {
			return finish(domain.StatusIndexingFailed, err.Error())
		}
		result.ApplyMetrics(ComputeMetrics(passages))
		return finish(domain.StatusIndexingCompleted, "")
	}

	log.Printf("methodRunner.RunToCompletion: %s timed out after %d attempts", method.Name, r.maxAttempts)
	return finish(domain.StatusTimeout, fmt.Sprintf("Timed out after %s", time.Duration(r.maxAttempts)*r.interval))
}

// wait sleeps one poll interval on the runner's clock, returning early with
// the context's error if it is cancelled first.
func (r *MethodRunner) wait(ctx context.Context) error {
	t := r.clock.NewTimer(r.interval)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.Chan():
		return nil
	}
}

// upload enqueues the file and transfers its bytes. The file id is returned
// even when the byte transfer fails.
func (r *MethodRunner) upload(ctx context.Context, input RunInput, method domain.MethodConfig) (string, error) {
	prefix := input.RunID
	if prefix == "" {
		prefix = uuid.New().String()
	}
	out, err := r.api.Enqueue(ctx, port.EnqueueInput{
		Key:            prefix + "/" + method.Name + "/" + input.FileName,
		Size:           int64(len(input.File)),
		ContentType:    input.ContentType,
		IndexingConfig: method.Config,
	})
	if err != nil {
		return "", err
	}
	if out.UploadURL == "" {
		return out.FileID, domain.ErrMissingUploadURL
	}
	if err := r.api.UploadBytes(ctx, out.UploadURL, input.File, input.ContentType); err != nil {
		if !errors.Is(err, domain.ErrUploadFailed) {
			err = fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
		}
		return out.FileID, err
	}
	return out.FileID, nil
}
