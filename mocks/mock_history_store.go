package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docbench/internal/domain"
)

// MockHistoryStore is a mock implementation of port.HistoryStore.
type MockHistoryStore struct {
	mock.Mock
}

func (m *MockHistoryStore) Create(ctx context.Context, entry *domain.HistoryEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockHistoryStore) GetByID(ctx context.Context, runID string) (*domain.HistoryEntry, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HistoryEntry), args.Error(1)
}

func (m *MockHistoryStore) List(ctx context.Context) ([]domain.HistoryEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HistoryEntry), args.Error(1)
}

func (m *MockHistoryStore) MergeMethodUpdate(ctx context.Context, runID, method string, patch domain.MethodPatch) (*domain.HistoryEntry, error) {
	args := m.Called(ctx, runID, method, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HistoryEntry), args.Error(1)
}

func (m *MockHistoryStore) AttachAiComparison(ctx context.Context, runID string, result *domain.AiComparisonResult) (*domain.HistoryEntry, error) {
	args := m.Called(ctx, runID, result)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HistoryEntry), args.Error(1)
}

func (m *MockHistoryStore) Summarize(ctx context.Context) ([]domain.RunSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RunSummary), args.Error(1)
}

func (m *MockHistoryStore) Export(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockHistoryStore) Import(ctx context.Context, data []byte) (int, error) {
	args := m.Called(ctx, data)
	return args.Int(0), args.Error(1)
}
