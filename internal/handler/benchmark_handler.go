package handler

import (
	"log"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"docbench/internal/domain"
	"docbench/internal/service"
)

// RunTracker polls a started run until every method is terminal.
// poller.Tracker satisfies it.
type RunTracker interface {
	Track(runID string) error
}

// BenchmarkHandler handles benchmark and method start endpoints.
type BenchmarkHandler struct {
	benchmarkService service.BenchmarkService
	tracker          RunTracker
	maxUploadBytes   int64
}

// NewBenchmarkHandler creates a new BenchmarkHandler. tracker may be nil, in
// which case progressive runs are only started, not polled.
func NewBenchmarkHandler(benchmarkService service.BenchmarkService, tracker RunTracker, maxUploadBytes int64) *BenchmarkHandler {
	return &BenchmarkHandler{
		benchmarkService: benchmarkService,
		tracker:          tracker,
		maxUploadBytes:   maxUploadBytes,
	}
}

// Run handles POST /api/benchmark
// @Summary Run a sequential benchmark
// @Description Uploads the file once per method and waits for each method in turn. Failed and timed out methods are part of the result.
// @Tags benchmark
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document to benchmark"
// @Success 200 {object} domain.HistoryEntry
// @Failure 400 {object} ErrorResponseBody "Missing file"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 503 {object} ErrorResponseBody "Files API credentials missing"
// @Security BearerAuth
// @Router /benchmark [post]
func (h *BenchmarkHandler) Run(c *gin.Context) {
	input, ok := readUpload(c, h.maxUploadBytes)
	if !ok {
		return
	}

	result, err := h.benchmarkService.RunBenchmark(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// StartAll handles POST /api/runs
// @Summary Start every method without waiting
// @Description Starts all methods concurrently and records a pending run. The server polls the run until every method is terminal; read progress from GET /history/{runId}.
// @Tags benchmark
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document to benchmark"
// @Param runId formData string false "Run id to use instead of a generated one"
// @Success 202 {object} domain.HistoryEntry
// @Failure 400 {object} ErrorResponseBody "Missing file"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 503 {object} ErrorResponseBody "Files API credentials missing"
// @Security BearerAuth
// @Router /runs [post]
func (h *BenchmarkHandler) StartAll(c *gin.Context) {
	input, ok := readUpload(c, h.maxUploadBytes)
	if !ok {
		return
	}

	entry, err := h.benchmarkService.StartAll(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	h.track(entry.RunID)
	RespondAccepted(c, entry)
}

// Resume handles POST /api/runs/:runId/resume
// @Summary Resume polling a run
// @Tags benchmark
// @Produce json
// @Param runId path string true "Run ID"
// @Success 202 {object} map[string]string
// @Failure 404 {object} ErrorResponseBody "Run not found"
// @Security BearerAuth
// @Router /runs/{runId}/resume [post]
func (h *BenchmarkHandler) Resume(c *gin.Context) {
	runID := c.Param("runId")
	if h.tracker == nil {
		RespondError(c, http.StatusNotImplemented, "server-side polling is disabled")
		return
	}
	if err := h.tracker.Track(runID); err != nil {
		HandleError(c, err)
		return
	}
	RespondAccepted(c, gin.H{"runId": runID, "status": "polling"})
}

// StartMethod handles POST /api/methods/:method/start
// @Summary Start one method
// @Description Enqueues and uploads the file for a single method and returns immediately.
// @Tags benchmark
// @Accept multipart/form-data
// @Produce json
// @Param method path string true "Method name" Enums(basic, vision, agentic)
// @Param file formData file true "Document to benchmark"
// @Param runId formData string false "Run id used in the remote object key"
// @Success 200 {object} domain.StartHandle
// @Failure 400 {object} ErrorResponseBody "Unknown method or missing file"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 502 {object} ErrorResponseBody "Files API failure"
// @Failure 503 {object} ErrorResponseBody "Files API credentials missing"
// @Security BearerAuth
// @Router /methods/{method}/start [post]
func (h *BenchmarkHandler) StartMethod(c *gin.Context) {
	method := c.Param("method")
	if !slices.ContainsFunc(h.benchmarkService.Methods(), func(m domain.MethodConfig) bool { return m.Name == method }) {
		RespondError(c, http.StatusBadRequest, "unknown method: "+method)
		return
	}

	input, ok := readUpload(c, h.maxUploadBytes)
	if !ok {
		return
	}

	handle, err := h.benchmarkService.StartMethod(c.Request.Context(), input, method)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, handle)
}

// Methods handles GET /api/methods
// @Summary List the configured methods
// @Tags benchmark
// @Produce json
// @Success 200 {array} domain.MethodConfig
// @Security BearerAuth
// @Router /methods [get]
func (h *BenchmarkHandler) Methods(c *gin.Context) {
	RespondOK(c, h.benchmarkService.Methods())
}

func (h *BenchmarkHandler) track(runID string) {
	if h.tracker == nil {
		return
	}
	if err := h.tracker.Track(runID); err != nil {
		log.Printf("BenchmarkHandler.StartAll: polling %s not started: %v", runID, err)
	}
}
