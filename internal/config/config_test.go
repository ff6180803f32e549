package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docbench/internal/config"
	"docbench/internal/domain"
)

func TestExtractorConfig_PrimaryConfig_FlatFallback(t *testing.T) {
	cfg := config.ExtractorConfig{
		Provider:     "claude",
		APIKey:       "sk-flat",
		DefaultModel: "claude-sonnet-4-20250514",
		MaxRetries:   3,
		TimeoutSecs:  30,
	}

	primary := cfg.PrimaryConfig()

	assert.Equal(t, "claude", primary.Provider)
	assert.Equal(t, "sk-flat", primary.APIKey)
	assert.Equal(t, "claude-sonnet-4-20250514", primary.DefaultModel)
	assert.Equal(t, 3, primary.MaxRetries)
	assert.Equal(t, 30, primary.TimeoutSecs)
}

func TestExtractorConfig_PrimaryConfig_ExplicitPrimary(t *testing.T) {
	cfg := config.ExtractorConfig{
		Provider: "flat-should-be-ignored",
		Primary: config.ExtractorProviderConfig{
			Provider:     "openai",
			APIKey:       "sk-primary",
			DefaultModel: "gpt-4o",
		},
	}

	primary := cfg.PrimaryConfig()

	assert.Equal(t, "openai", primary.Provider)
	assert.Equal(t, "sk-primary", primary.APIKey)
}

func TestExtractorConfig_SecondaryAndTertiary(t *testing.T) {
	cfg := config.ExtractorConfig{Provider: "claude"}
	assert.Nil(t, cfg.SecondaryConfig())
	assert.Nil(t, cfg.TertiaryConfig())

	cfg.Secondary = config.ExtractorProviderConfig{Provider: "gemini"}
	cfg.Tertiary = config.ExtractorProviderConfig{Provider: "openai"}
	assert.Equal(t, "gemini", cfg.SecondaryConfig().Provider)
	assert.Equal(t, "openai", cfg.TertiaryConfig().Provider)
}

func TestFilesAPIConfig_Configured(t *testing.T) {
	assert.False(t, (&config.FilesAPIConfig{}).Configured())
	assert.False(t, (&config.FilesAPIConfig{Token: "tok"}).Configured())
	assert.False(t, (&config.FilesAPIConfig{BotID: "bot"}).Configured())
	assert.True(t, (&config.FilesAPIConfig{Token: "tok", BotID: "bot"}).Configured())
}

func TestBenchmarkConfig_MaxAttempts(t *testing.T) {
	b := config.BenchmarkConfig{PollInterval: 2 * time.Second, Timeout: 5 * time.Minute}
	assert.Equal(t, 150, b.MaxAttempts())
	assert.Equal(t, domain.MaxPollAttempts, b.MaxAttempts())

	b = config.BenchmarkConfig{PollInterval: time.Minute, Timeout: time.Second}
	assert.Equal(t, 1, b.MaxAttempts())
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.Benchmark.PollInterval)
	assert.Equal(t, 5*time.Minute, cfg.Benchmark.Timeout)
	assert.Equal(t, "memory", cfg.History.Driver)
	assert.Equal(t, 25, cfg.History.MaxEntries)
	assert.False(t, cfg.Auth.Enabled())
	assert.NotEmpty(t, cfg.CORS.AllowedOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DOCBENCH_FILES_API_TOKEN", "tok-123")
	t.Setenv("DOCBENCH_FILES_API_BOT_ID", "bot-9")
	t.Setenv("DOCBENCH_HISTORY_DRIVER", "FILE")
	t.Setenv("DOCBENCH_EXTRACTOR_SECONDARY_PROVIDER", "gemini")
	t.Setenv("DOCBENCH_CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.True(t, cfg.FilesAPI.Configured())
	assert.Equal(t, "file", cfg.History.Driver)
	assert.Equal(t, "gemini", cfg.Extractor.SecondaryConfig().Provider)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_PortEnvFallback(t *testing.T) {
	t.Setenv("PORT", "9999")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Port)
}

func TestLoad_RejectsTimeoutShorterThanInterval(t *testing.T) {
	t.Setenv("DOCBENCH_BENCHMARK_POLL_INTERVAL", "10s")
	t.Setenv("DOCBENCH_BENCHMARK_TIMEOUT", "1s")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoadMethods_DefaultCatalog(t *testing.T) {
	methods, err := config.LoadMethods("")
	require.NoError(t, err)
	require.Len(t, methods, 3)
	assert.Equal(t, domain.MethodBasic, methods[0].Name)
	assert.Equal(t, domain.MethodVision, methods[1].Name)
	assert.Equal(t, domain.MethodAgentic, methods[2].Name)
}

func TestLoadMethods_FromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "methods.yaml")
	content := `methods:
  - name: basic
    label: Plain
    config:
      parser: default
  - name: agentic
    label: Agent
    config:
      parser: agentic
      maxSteps: 4
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	methods, err := config.LoadMethods(path)
	require.NoError(t, err)
	require.Len(t, methods, 2)
	assert.Equal(t, "Plain", methods[0].Label)
	assert.Equal(t, 4, methods[1].Config["maxSteps"])
}

func TestLoadMethods_RejectsUnknownAndDuplicate(t *testing.T) {
	dir := t.TempDir()

	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("methods:\n  - name: ocr\n"), 0o600))
	_, err := config.LoadMethods(unknown)
	assert.ErrorIs(t, err, domain.ErrUnknownMethod)

	dup := filepath.Join(dir, "dup.yaml")
	require.NoError(t, os.WriteFile(dup, []byte("methods:\n  - name: basic\n  - name: basic\n"), 0o600))
	_, err = config.LoadMethods(dup)
	assert.Error(t, err)

	_, err = config.LoadMethods(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
