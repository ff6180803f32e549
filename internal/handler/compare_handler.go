package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"docbench/internal/service"
)

// CompareHandler handles AI comparison endpoints.
type CompareHandler struct {
	comparisonService service.ComparisonService
}

// NewCompareHandler creates a new CompareHandler.
func NewCompareHandler(comparisonService service.ComparisonService) *CompareHandler {
	return &CompareHandler{comparisonService: comparisonService}
}

// Compare handles POST /api/ai-compare
// @Summary Rank the methods of a run with an LLM
// @Description Sends an excerpt of each method's passages to the extraction provider and returns its ranking. The result is attached to the run's history entry.
// @Tags compare
// @Accept json
// @Produce json
// @Param request body CompareRequest true "Run and file ids"
// @Success 200 {object} domain.AiComparisonResult
// @Failure 400 {object} ErrorResponseBody "Missing runId or a method's fileId"
// @Failure 409 {object} ErrorResponseBody "Recorded run where not every method completed"
// @Failure 500 {object} ErrorResponseBody "Extraction failed"
// @Security BearerAuth
// @Router /ai-compare [post]
func (h *CompareHandler) Compare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.RunID == "" {
		RespondError(c, http.StatusBadRequest, "runId is required")
		return
	}
	if len(req.FileIDs) == 0 {
		RespondError(c, http.StatusBadRequest, "fileIds is required")
		return
	}

	result, err := h.comparisonService.Compare(c.Request.Context(), service.CompareInput{
		RunID:        req.RunID,
		FileIDs:      req.FileIDs,
		Instructions: req.Instructions,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// CompareRun handles POST /api/history/:runId/compare
// @Summary Rank the methods of a recorded run
// @Description Returns the stored comparison if the run has one. Otherwise every method must have completed.
// @Tags compare
// @Accept json
// @Produce json
// @Param runId path string true "Run ID"
// @Param request body CompareRunRequest false "Extra instructions"
// @Success 200 {object} domain.AiComparisonResult
// @Failure 404 {object} ErrorResponseBody "Run not found"
// @Failure 409 {object} ErrorResponseBody "Not every method completed"
// @Failure 500 {object} ErrorResponseBody "Extraction failed"
// @Security BearerAuth
// @Router /history/{runId}/compare [post]
func (h *CompareHandler) CompareRun(c *gin.Context) {
	var req CompareRunRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		RespondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.comparisonService.CompareRun(c.Request.Context(), c.Param("runId"), req.Instructions)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}
