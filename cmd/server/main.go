package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"

	"docbench/internal/auth"
	"docbench/internal/config"
	"docbench/internal/extractor/providers"
	"docbench/internal/filesapi"
	"docbench/internal/handler"
	"docbench/internal/history"
	"docbench/internal/poller"
	"docbench/internal/router"
	"docbench/internal/service"
	"docbench/internal/storage"
)

// @title docbench API
// @version 1.0
// @description Benchmarks the parsing methods of a hosted files API on an uploaded document and compares their passages.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	methods, err := config.LoadMethods(cfg.Benchmark.MethodsFile)
	if err != nil {
		return fmt.Errorf("failed to load method catalog: %w", err)
	}

	// Initialize history storage
	kv, closeKV, err := storage.NewKVStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize history storage: %w", err)
	}
	defer func() {
		if closeKV != nil {
			_ = closeKV()
		}
	}()

	clk := clockwork.NewRealClock()
	historyStore := history.NewStore(kv, cfg.History.Key, cfg.History.MaxEntries, clk)

	// Initialize files API client
	filesClient := filesapi.NewClient(&cfg.FilesAPI)
	if !filesClient.Configured() {
		log.Println("WARNING: files API token or bot id not set; benchmark routes will fail until configured")
	}

	// Initialize comparison extractor
	extractor, err := providers.Build(&cfg.Extractor)
	if err != nil {
		return fmt.Errorf("failed to initialize extractor: %w", err)
	}
	if extractor == nil {
		log.Println("WARNING: no extractor API key set; AI comparison is disabled")
	}

	// Initialize services
	runner := service.NewMethodRunner(filesClient, clk, cfg.Benchmark.PollInterval, cfg.Benchmark.MaxAttempts())
	benchmarkSvc := service.NewBenchmarkService(filesClient, runner, historyStore, methods, clk)
	fileSvc := service.NewFileService(filesClient, clk)
	searchSvc := service.NewSearchService(filesClient, historyStore, methods)
	comparisonSvc := service.NewComparisonService(filesClient, extractor, historyStore, methods, clk)

	tracker := poller.NewTracker(poller.Deps{
		History:  historyStore,
		Fetcher:  fileSvc,
		Clock:    clk,
		Interval: cfg.Benchmark.PollInterval,
		Timeout:  cfg.Benchmark.Timeout,
	})
	defer tracker.Shutdown()

	var issuer *auth.TokenIssuer
	if cfg.Auth.Enabled() {
		issuer = auth.NewTokenIssuer(&cfg.Auth, clk)
	}

	// Setup router
	r := router.Setup(router.Handlers{
		Health:    handler.NewHealthHandler(&cfg.FilesAPI),
		Benchmark: handler.NewBenchmarkHandler(benchmarkSvc, tracker, cfg.Server.MaxUploadMB<<20),
		File:      handler.NewFileHandler(fileSvc),
		Search:    handler.NewSearchHandler(searchSvc),
		Compare:   handler.NewCompareHandler(comparisonSvc),
		History:   handler.NewHistoryHandler(historyStore, clk),
	}, issuer, cfg.CORS.AllowedOrigins)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s (history driver %s, %d methods)", cfg.Server.Port, cfg.History.Driver, len(methods))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Printf("Received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
