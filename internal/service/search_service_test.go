package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docbench/internal/config"
	"docbench/internal/domain"
	"docbench/internal/service"
	"docbench/mocks"
)

func completedRun(t *testing.T, runID string) *domain.HistoryEntry {
	t.Helper()
	entry := &domain.HistoryEntry{RunID: runID, OriginalFile: domain.OriginalFile{Name: "report.pdf"}}
	for _, m := range domain.KnownMethods {
		entry.Methods = append(entry.Methods, domain.MethodResult{
			Method: m,
			Label:  m,
			FileID: "f-" + m,
			Status: domain.StatusIndexingCompleted,
		})
	}
	return entry
}

func TestSearchService_PreservesRemoteOrderPerMethod(t *testing.T) {
	hist := newHistory()
	require.NoError(t, hist.Create(context.Background(), completedRun(t, "run")))

	api := new(mocks.MockFilesAPI)
	for _, m := range domain.KnownMethods {
		api.On("Search", mock.Anything, "revenue table", "f-"+m, 5).Return([]domain.SearchHit{
			{Content: m + " top", Score: 0.9},
			{Content: m + " second", Score: 0.4},
		}, nil)
	}

	resp, err := service.NewSearchService(api, hist, config.DefaultMethods()).Search(context.Background(), "revenue table", "run", 5)

	require.NoError(t, err)
	assert.Equal(t, "revenue table", resp.Query)
	require.Len(t, resp.Results, 3)
	for i, m := range domain.KnownMethods {
		r := resp.Results[i]
		assert.Equal(t, m, r.Method)
		assert.Empty(t, r.Error)
		require.Len(t, r.Passages, 2)
		assert.Equal(t, m+" top", r.Passages[0].Content)
		assert.Greater(t, r.Passages[0].Score, r.Passages[1].Score)
	}
}

func TestSearchService_OneFailureDoesNotAffectOthers(t *testing.T) {
	hist := newHistory()
	require.NoError(t, hist.Create(context.Background(), completedRun(t, "run")))

	api := new(mocks.MockFilesAPI)
	api.On("Search", mock.Anything, "q", "f-basic", domain.DefaultSearchLimit).Return([]domain.SearchHit{{Content: "a"}}, nil)
	api.On("Search", mock.Anything, "q", "f-vision", domain.DefaultSearchLimit).Return(nil, errors.New("search backend 503"))
	api.On("Search", mock.Anything, "q", "f-agentic", domain.DefaultSearchLimit).Return([]domain.SearchHit{{Content: "c"}}, nil)

	resp, err := service.NewSearchService(api, hist, config.DefaultMethods()).Search(context.Background(), "q", "run", 0)

	require.NoError(t, err)
	require.Len(t, resp.Results, 3)
	assert.Len(t, resp.Results[0].Passages, 1)
	assert.Empty(t, resp.Results[0].Error)
	assert.Empty(t, resp.Results[1].Passages)
	assert.NotNil(t, resp.Results[1].Passages)
	assert.Contains(t, resp.Results[1].Error, "503")
	assert.Len(t, resp.Results[2].Passages, 1)
	assert.Empty(t, resp.Results[2].Error)
}

func TestSearchService_MethodWithoutFile(t *testing.T) {
	hist := newHistory()
	entry := completedRun(t, "run")
	entry.Methods[2].FileID = ""
	require.NoError(t, hist.Create(context.Background(), entry))

	api := new(mocks.MockFilesAPI)
	api.On("Search", mock.Anything, "q", mock.Anything, mock.Anything).Return([]domain.SearchHit{}, nil)

	resp, err := service.NewSearchService(api, hist, config.DefaultMethods()).Search(context.Background(), "q", "run", 3)

	require.NoError(t, err)
	assert.Equal(t, "method has no indexed file", resp.Results[2].Error)
	api.AssertNumberOfCalls(t, "Search", 2)
}

func TestSearchService_UnknownRun(t *testing.T) {
	_, err := service.NewSearchService(new(mocks.MockFilesAPI), newHistory(), config.DefaultMethods()).
		Search(context.Background(), "q", "missing", 3)
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
}
