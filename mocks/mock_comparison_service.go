package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docbench/internal/domain"
	"docbench/internal/service"
)

// MockComparisonService is a mock implementation of service.ComparisonService.
type MockComparisonService struct {
	mock.Mock
}

func (m *MockComparisonService) Compare(ctx context.Context, input service.CompareInput) (*domain.AiComparisonResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AiComparisonResult), args.Error(1)
}

func (m *MockComparisonService) CompareRun(ctx context.Context, runID, instructions string) (*domain.AiComparisonResult, error) {
	args := m.Called(ctx, runID, instructions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AiComparisonResult), args.Error(1)
}

func (m *MockComparisonService) GetExcerpt(ctx context.Context, fileID string) string {
	args := m.Called(ctx, fileID)
	return args.String(0)
}
