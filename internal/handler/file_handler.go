package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"docbench/internal/service"
)

// FileHandler handles per-file status and passage endpoints.
type FileHandler struct {
	fileService service.FileService
}

// NewFileHandler creates a new FileHandler.
func NewFileHandler(fileService service.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

// Status handles GET /api/files/:id/status
// @Summary Get a file's indexing status
// @Description Metrics are included only once the file is indexing_completed. processingTimeMs is computed from startedAt when supplied.
// @Tags files
// @Produce json
// @Param id path string true "File ID"
// @Param startedAt query string false "RFC3339 time the method was started"
// @Success 200 {object} domain.FileStatusReport
// @Failure 400 {object} ErrorResponseBody "Invalid startedAt"
// @Failure 404 {object} ErrorResponseBody "File not found"
// @Failure 502 {object} ErrorResponseBody "Files API failure"
// @Security BearerAuth
// @Router /files/{id}/status [get]
func (h *FileHandler) Status(c *gin.Context) {
	var startedAt *time.Time
	if raw := c.Query("startedAt"); raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "startedAt must be an RFC3339 timestamp")
			return
		}
		startedAt = &t
	}

	report, err := h.fileService.Status(c.Request.Context(), c.Param("id"), startedAt)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, report)
}

// Passages handles GET /api/files/:id/passages
// @Summary List a file's passages
// @Tags files
// @Produce json
// @Param id path string true "File ID"
// @Param limit query int false "Page size" default(100)
// @Param nextToken query string false "Cursor from the previous page"
// @Success 200 {object} PassagesResponse
// @Failure 400 {object} ErrorResponseBody "Invalid limit"
// @Failure 404 {object} ErrorResponseBody "File not found"
// @Security BearerAuth
// @Router /files/{id}/passages [get]
func (h *FileHandler) Passages(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			RespondError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	page, err := h.fileService.Passages(c.Request.Context(), c.Param("id"), limit, c.Query("nextToken"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, PassagesResponse{Passages: page.Passages, NextToken: page.NextCursor})
}
