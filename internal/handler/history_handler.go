package handler

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"

	"docbench/internal/port"
	"docbench/internal/xlsxexport"
)

const maxImportBytes = 20 << 20

// HistoryHandler handles run history endpoints.
type HistoryHandler struct {
	history port.HistoryStore
	clock   clockwork.Clock
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(history port.HistoryStore, clk clockwork.Clock) *HistoryHandler {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	return &HistoryHandler{history: history, clock: clk}
}

// List handles GET /api/history
// @Summary List recorded runs, newest first
// @Tags history
// @Produce json
// @Success 200 {array} domain.RunSummary
// @Security BearerAuth
// @Router /history [get]
func (h *HistoryHandler) List(c *gin.Context) {
	summaries, err := h.history.Summarize(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, summaries)
}

// Get handles GET /api/history/:runId
// @Summary Get one recorded run
// @Tags history
// @Produce json
// @Param runId path string true "Run ID"
// @Success 200 {object} domain.HistoryEntry
// @Failure 404 {object} ErrorResponseBody "Run not found"
// @Security BearerAuth
// @Router /history/{runId} [get]
func (h *HistoryHandler) Get(c *gin.Context) {
	entry, err := h.history.GetByID(c.Request.Context(), c.Param("runId"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, entry)
}

// Export handles GET /api/history/export
// @Summary Export the run history as pretty-printed JSON
// @Tags history
// @Produce json
// @Success 200 {array} domain.HistoryEntry
// @Security BearerAuth
// @Router /history/export [get]
func (h *HistoryHandler) Export(c *gin.Context) {
	data, err := h.history.Export(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="docbench-history-%s.json"`, h.clock.Now().Format("2006-01-02")))
	c.Data(http.StatusOK, "application/json", data)
}

// ExportXLSX handles GET /api/history/export.xlsx
// @Summary Export the run history as an xlsx workbook
// @Tags history
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /history/export.xlsx [get]
func (h *HistoryHandler) ExportXLSX(c *gin.Context) {
	entries, err := h.history.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := xlsxexport.Write(&buf, entries); err != nil {
		HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, xlsxexport.BuildFilename("docbench history", h.clock.Now())))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// Import handles POST /api/history/import
// @Summary Import runs exported from another instance
// @Description Accepts the export's JSON array. Imported runs replace runs with the same id.
// @Tags history
// @Accept json
// @Produce json
// @Param request body []domain.HistoryEntry true "Exported history"
// @Success 200 {object} ImportResponse
// @Failure 400 {object} ErrorResponseBody "Invalid payload"
// @Security BearerAuth
// @Router /history/import [post]
func (h *HistoryHandler) Import(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes+1))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "could not read request body")
		return
	}
	if len(data) > maxImportBytes {
		RespondError(c, http.StatusRequestEntityTooLarge, "import exceeds maximum allowed size")
		return
	}

	n, err := h.history.Import(c.Request.Context(), data)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, ImportResponse{Imported: n})
}
