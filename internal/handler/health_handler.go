package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docbench/internal/config"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	filesAPI *config.FilesAPIConfig
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(filesAPI *config.FilesAPIConfig) *HealthHandler {
	return &HealthHandler{filesAPI: filesAPI}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Health handles GET /api/health
// @Summary Files API configuration status
// @Description Reports whether the files API token and bot id are configured. Benchmark routes fail while either is missing.
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:   "configured",
		HasBotID: h.filesAPI.BotID != "",
		HasToken: h.filesAPI.Token != "",
	}
	if !h.filesAPI.Configured() {
		resp.Status = "missing_credentials"
	}
	RespondOK(c, resp)
}
