package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docbench/internal/auth"
	"docbench/internal/config"
	"docbench/internal/domain"
	"docbench/internal/handler"
	"docbench/internal/router"
	"docbench/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(t *testing.T, issuer *auth.TokenIssuer) (*gin.Engine, *mocks.MockHistoryStore) {
	t.Helper()
	historyStore := new(mocks.MockHistoryStore)
	benchmarkSvc := new(mocks.MockBenchmarkService)
	benchmarkSvc.On("Methods").Return(config.DefaultMethods()).Maybe()

	r := router.Setup(router.Handlers{
		Health:    handler.NewHealthHandler(&config.FilesAPIConfig{Token: "t", BotID: "b"}),
		Benchmark: handler.NewBenchmarkHandler(benchmarkSvc, nil, 1<<20),
		File:      handler.NewFileHandler(new(mocks.MockFileService)),
		Search:    handler.NewSearchHandler(new(mocks.MockSearchService)),
		Compare:   handler.NewCompareHandler(new(mocks.MockComparisonService)),
		History:   handler.NewHistoryHandler(historyStore, clockwork.NewRealClock()),
	}, issuer, []string{"http://localhost:5173"})
	return r, historyStore
}

func serve(r *gin.Engine, method, target, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_OpenWithoutIssuer(t *testing.T) {
	r, historyStore := newEngine(t, nil)
	historyStore.On("Summarize", mock.Anything).Return([]domain.RunSummary{}, nil)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/health", "").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/history", "").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/methods", "").Code)
}

func TestRouter_RequiresTokenWhenConfigured(t *testing.T) {
	issuer := auth.NewTokenIssuer(&config.AuthConfig{JWTSecret: "s3cret"}, nil)
	r, historyStore := newEngine(t, issuer)
	historyStore.On("GetByID", mock.Anything, "run_1").Return(&domain.HistoryEntry{RunID: "run_1"}, nil)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/health", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/api/history/run_1", "").Code)

	token, _, err := issuer.Issue("tester", time.Hour)
	require.NoError(t, err)
	w := serve(r, http.MethodGet, "/api/history/run_1", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"runId":"run_1"`)
}

func TestRouter_StaticHistoryRoutesWinOverRunID(t *testing.T) {
	r, historyStore := newEngine(t, nil)
	historyStore.On("Export", mock.Anything).Return([]byte("[]"), nil)

	w := serve(r, http.MethodGet, "/api/history/export", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
	historyStore.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestRouter_SearchValidationThroughStack(t *testing.T) {
	r, _ := newEngine(t, nil)
	w := serve(r, http.MethodGet, "/api/search?q=x", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
