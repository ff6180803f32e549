package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docbench/internal/domain"
	"docbench/internal/service"
)

// MockBenchmarkService is a mock implementation of service.BenchmarkService.
type MockBenchmarkService struct {
	mock.Mock
}

func (m *MockBenchmarkService) RunBenchmark(ctx context.Context, input service.RunInput) (*domain.BenchmarkRunResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BenchmarkRunResult), args.Error(1)
}

func (m *MockBenchmarkService) StartMethod(ctx context.Context, input service.RunInput, method string) (*domain.StartHandle, error) {
	args := m.Called(ctx, input, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StartHandle), args.Error(1)
}

func (m *MockBenchmarkService) StartAll(ctx context.Context, input service.RunInput) (*domain.HistoryEntry, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HistoryEntry), args.Error(1)
}

func (m *MockBenchmarkService) Methods() []domain.MethodConfig {
	args := m.Called()
	return args.Get(0).([]domain.MethodConfig)
}
