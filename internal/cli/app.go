package cli

import (
	"fmt"
	"log"

	"github.com/fatih/color"
	"github.com/jonboulle/clockwork"

	"docbench/internal/config"
	"docbench/internal/domain"
	"docbench/internal/extractor/providers"
	"docbench/internal/filesapi"
	"docbench/internal/history"
	"docbench/internal/service"
	"docbench/internal/storage"
)

// app is the in-process service graph behind every command.
type app struct {
	cfg        *config.Config
	clock      clockwork.Clock
	methods    []domain.MethodConfig
	history    *history.Store
	benchmark  service.BenchmarkService
	files      service.FileService
	search     service.SearchService
	comparison service.ComparisonService
	close      func() error
}

func newApp(opts *rootOptions) (*app, error) {
	if opts.noColor {
		color.NoColor = true
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	switch {
	case opts.historyDriver != "":
		cfg.History.Driver = opts.historyDriver
	case cfg.History.Driver == "" || cfg.History.Driver == "memory":
		// A one-shot process would lose an in-memory history on exit.
		cfg.History.Driver = "file"
	}

	methodsFile := cfg.Benchmark.MethodsFile
	if opts.methodsFile != "" {
		methodsFile = opts.methodsFile
	}
	methods, err := config.LoadMethods(methodsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load method catalog: %w", err)
	}

	kv, closeKV, err := storage.NewKVStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize history storage: %w", err)
	}

	extractor, err := providers.Build(&cfg.Extractor)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize extractor: %w", err)
	}

	clk := clockwork.NewRealClock()
	store := history.NewStore(kv, cfg.History.Key, cfg.History.MaxEntries, clk)
	client := filesapi.NewClient(&cfg.FilesAPI)
	runner := service.NewMethodRunner(client, clk, cfg.Benchmark.PollInterval, cfg.Benchmark.MaxAttempts())

	return &app{
		cfg:        cfg,
		clock:      clk,
		methods:    methods,
		history:    store,
		benchmark:  service.NewBenchmarkService(client, runner, store, methods, clk),
		files:      service.NewFileService(client, clk),
		search:     service.NewSearchService(client, store, methods),
		comparison: service.NewComparisonService(client, extractor, store, methods, clk),
		close:      closeKV,
	}, nil
}

func (a *app) Close() {
	if a.close == nil {
		return
	}
	if err := a.close(); err != nil {
		log.Printf("benchctl: closing history storage: %v", err)
	}
}
