package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "docbench/docs"
	"docbench/internal/auth"
	"docbench/internal/handler"
	"docbench/internal/middleware"
)

// Handlers groups the route handlers.
type Handlers struct {
	Health    *handler.HealthHandler
	Benchmark *handler.BenchmarkHandler
	File      *handler.FileHandler
	Search    *handler.SearchHandler
	Compare   *handler.CompareHandler
	History   *handler.HistoryHandler
}

// Setup configures the Gin engine with all routes and middleware. A nil
// issuer leaves the API open.
func Setup(h Handlers, issuer *auth.TokenIssuer, allowedOrigins []string) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	r.GET("/healthz", h.Health.Liveness)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	api.GET("/health", h.Health.Health)

	protected := api.Group("")
	protected.Use(middleware.BearerAuth(issuer))

	protected.POST("/benchmark", h.Benchmark.Run)
	protected.POST("/runs", h.Benchmark.StartAll)
	protected.POST("/runs/:runId/resume", h.Benchmark.Resume)
	protected.GET("/methods", h.Benchmark.Methods)
	protected.POST("/methods/:method/start", h.Benchmark.StartMethod)

	files := protected.Group("/files")
	files.GET("/:id/status", h.File.Status)
	files.GET("/:id/passages", h.File.Passages)

	protected.GET("/search", h.Search.Search)
	protected.POST("/ai-compare", h.Compare.Compare)

	history := protected.Group("/history")
	history.GET("", h.History.List)
	history.GET("/export", h.History.Export)
	history.GET("/export.xlsx", h.History.ExportXLSX)
	history.POST("/import", h.History.Import)
	history.GET("/:runId", h.History.Get)
	history.POST("/:runId/compare", h.Compare.CompareRun)

	return r
}
