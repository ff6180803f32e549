package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"docbench/internal/domain"
	"docbench/internal/port"
)

const noIndexedFile = "method has no indexed file"

// SearchService fans a query out to every method of a run.
type SearchService interface {
	Search(ctx context.Context, query, runID string, limit int) (*domain.SearchResponse, error)
}

type searchService struct {
	api     port.FilesAPI
	history port.HistoryStore
	methods []domain.MethodConfig
}

// NewSearchService creates a new SearchService.
func NewSearchService(api port.FilesAPI, history port.HistoryStore, methods []domain.MethodConfig) SearchService {
	return &searchService{api: api, history: history, methods: methods}
}

// Search queries every method in parallel. A failing method is reported in
// its own entry and never cancels the others; the remote ranking is kept.
func (s *searchService) Search(ctx context.Context, query, runID string, limit int) (*domain.SearchResponse, error) {
	entry, err := s.history.GetByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}

	results := make([]domain.MethodSearchResult, len(s.methods))
	var g errgroup.Group
	for i, m := range s.methods {
		results[i] = domain.MethodSearchResult{Method: m.Name, Passages: []domain.SearchHit{}}

		fileID := ""
		if r := entry.Method(m.Name); r != nil {
			fileID = r.FileID
		}
		if fileID == "" {
			results[i].Error = noIndexedFile
			continue
		}

		g.Go(func() error {
			hits, err := s.api.Search(ctx, query, fileID, limit)
			if err != nil {
				results[i].Error = err.Error()
				return nil
			}
			results[i].Passages = hits
			return nil
		})
	}
	_ = g.Wait()

	return &domain.SearchResponse{Query: query, Results: results}, nil
}
