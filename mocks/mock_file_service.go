package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"docbench/internal/domain"
	"docbench/internal/port"
)

// MockFileService is a mock implementation of service.FileService.
type MockFileService struct {
	mock.Mock
}

func (m *MockFileService) Status(ctx context.Context, fileID string, startedAt *time.Time) (*domain.FileStatusReport, error) {
	args := m.Called(ctx, fileID, startedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FileStatusReport), args.Error(1)
}

func (m *MockFileService) Passages(ctx context.Context, fileID string, limit int, nextToken string) (*port.PassagePage, error) {
	args := m.Called(ctx, fileID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.PassagePage), args.Error(1)
}
