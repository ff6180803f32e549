package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"docbench/internal/service"
)

// SearchHandler handles cross-method search.
type SearchHandler struct {
	searchService service.SearchService
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(searchService service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// Search handles GET /api/search
// @Summary Search every method of a run
// @Description Runs the query against each method's file in parallel. A failing method carries an error and does not affect the others.
// @Tags search
// @Produce json
// @Param q query string true "Query"
// @Param runId query string true "Run ID"
// @Param limit query int false "Hits per method" default(10)
// @Success 200 {object} domain.SearchResponse
// @Failure 400 {object} ErrorResponseBody "Missing q or runId"
// @Failure 404 {object} ErrorResponseBody "Run not found"
// @Security BearerAuth
// @Router /search [get]
func (h *SearchHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	runID := c.Query("runId")
	if query == "" || runID == "" {
		RespondError(c, http.StatusBadRequest, "q and runId are required")
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			RespondError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	resp, err := h.searchService.Search(c.Request.Context(), query, runID, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, resp)
}
