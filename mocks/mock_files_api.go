package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docbench/internal/domain"
	"docbench/internal/port"
)

// MockFilesAPI is a mock implementation of port.FilesAPI.
type MockFilesAPI struct {
	mock.Mock
}

func (m *MockFilesAPI) Enqueue(ctx context.Context, input port.EnqueueInput) (*port.EnqueueOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.EnqueueOutput), args.Error(1)
}

func (m *MockFilesAPI) UploadBytes(ctx context.Context, uploadURL string, body []byte, contentType string) error {
	args := m.Called(ctx, uploadURL, body, contentType)
	return args.Error(0)
}

func (m *MockFilesAPI) GetStatus(ctx context.Context, fileID string) (*port.RemoteFileStatus, error) {
	args := m.Called(ctx, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.RemoteFileStatus), args.Error(1)
}

func (m *MockFilesAPI) ListPassages(ctx context.Context, fileID string, limit int, cursor string) (*port.PassagePage, error) {
	args := m.Called(ctx, fileID, limit, cursor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.PassagePage), args.Error(1)
}

func (m *MockFilesAPI) Search(ctx context.Context, query, fileID string, limit int) ([]domain.SearchHit, error) {
	args := m.Called(ctx, query, fileID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SearchHit), args.Error(1)
}

func (m *MockFilesAPI) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}
