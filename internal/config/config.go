package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	FilesAPI  FilesAPIConfig
	Benchmark BenchmarkConfig
	History   HistoryConfig
	DB        DBConfig
	S3        S3Config
	Extractor ExtractorConfig
	Log       LogConfig
	CORS      CORSConfig
	Auth      AuthConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
	MaxUploadMB  int64         `mapstructure:"max_upload_mb"`
}

// FilesAPIConfig holds the hosted files API endpoint and credentials.
type FilesAPIConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	Token       string `mapstructure:"token"`
	BotID       string `mapstructure:"bot_id"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// Configured reports whether both credentials are present.
func (f *FilesAPIConfig) Configured() bool {
	return f.Token != "" && f.BotID != ""
}

// BenchmarkConfig holds polling and method catalog settings.
type BenchmarkConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MethodsFile  string        `mapstructure:"methods_file"`
}

// MaxAttempts is the number of status checks that fit in Timeout.
func (b *BenchmarkConfig) MaxAttempts() int {
	if b.PollInterval <= 0 {
		return 1
	}
	n := int(b.Timeout / b.PollInterval)
	if n < 1 {
		return 1
	}
	return n
}

// HistoryConfig selects the run history backend.
type HistoryConfig struct {
	Driver     string `mapstructure:"driver"`
	FilePath   string `mapstructure:"file_path"`
	Key        string `mapstructure:"key"`
	MaxEntries int    `mapstructure:"max_entries"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds AWS S3 settings for the S3 history backend.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// ExtractorProviderConfig holds settings for a single LLM extraction provider.
type ExtractorProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	MaxRetries   int    `mapstructure:"max_retries"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// ExtractorConfig holds LLM extraction settings with multi-provider support.
type ExtractorConfig struct {
	// Flat fields used when no primary provider is set
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	MaxRetries   int    `mapstructure:"max_retries"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`

	Primary   ExtractorProviderConfig `mapstructure:"primary"`
	Secondary ExtractorProviderConfig `mapstructure:"secondary"`
	Tertiary  ExtractorProviderConfig `mapstructure:"tertiary"`
}

// PrimaryConfig returns the primary provider config, falling back to the flat fields.
func (e *ExtractorConfig) PrimaryConfig() *ExtractorProviderConfig {
	if e.Primary.Provider != "" {
		return &e.Primary
	}
	return &ExtractorProviderConfig{
		Provider:     e.Provider,
		APIKey:       e.APIKey,
		DefaultModel: e.DefaultModel,
		MaxRetries:   e.MaxRetries,
		TimeoutSecs:  e.TimeoutSecs,
	}
}

// SecondaryConfig returns the secondary provider config, or nil if not configured.
func (e *ExtractorConfig) SecondaryConfig() *ExtractorProviderConfig {
	if e.Secondary.Provider != "" {
		return &e.Secondary
	}
	return nil
}

// TertiaryConfig returns the tertiary provider config, or nil if not configured.
func (e *ExtractorConfig) TertiaryConfig() *ExtractorProviderConfig {
	if e.Tertiary.Provider != "" {
		return &e.Tertiary
	}
	return nil
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AuthConfig holds the optional bearer token settings. An empty secret
// disables authentication.
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	Issuer    string        `mapstructure:"issuer"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// Enabled reports whether bearer authentication is required.
func (a *AuthConfig) Enabled() bool {
	return a.JWTSecret != ""
}

// Load reads configuration from environment variables with the DOCBENCH_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DOCBENCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "15m")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.max_upload_mb", 50)

	// Files API defaults
	v.SetDefault("files_api.base_url", "http://localhost:9090/v1")
	v.SetDefault("files_api.token", "")
	v.SetDefault("files_api.bot_id", "")
	v.SetDefault("files_api.timeout_secs", 60)

	// Benchmark defaults
	v.SetDefault("benchmark.poll_interval", "2s")
	v.SetDefault("benchmark.timeout", "5m")
	v.SetDefault("benchmark.methods_file", "")

	// History defaults
	v.SetDefault("history.driver", "memory")
	v.SetDefault("history.file_path", "docbench-history")
	v.SetDefault("history.key", "docbench.history")
	v.SetDefault("history.max_entries", 25)

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "docbench")
	v.SetDefault("db.password", "docbench_secret")
	v.SetDefault("db.name", "docbench_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 10)
	v.SetDefault("db.max_idle", 5)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "docbench-history")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.prefix", "history/")

	// Extractor defaults (flat)
	v.SetDefault("extractor.provider", "claude")
	v.SetDefault("extractor.api_key", "")
	v.SetDefault("extractor.default_model", "claude-sonnet-4-20250514")
	v.SetDefault("extractor.max_retries", 2)
	v.SetDefault("extractor.timeout_secs", 120)

	// Extractor primary/secondary/tertiary defaults
	for _, tier := range []string{"primary", "secondary", "tertiary"} {
		v.SetDefault("extractor."+tier+".provider", "")
		v.SetDefault("extractor."+tier+".api_key", "")
		v.SetDefault("extractor."+tier+".default_model", "")
		v.SetDefault("extractor."+tier+".max_retries", 2)
		v.SetDefault("extractor."+tier+".timeout_secs", 120)
	}

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173,http://127.0.0.1:5173")

	// Auth defaults
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "docbench")
	v.SetDefault("auth.token_ttl", "24h")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":             "DOCBENCH_SERVER_PORT",
		"server.read_timeout":     "DOCBENCH_SERVER_READ_TIMEOUT",
		"server.write_timeout":    "DOCBENCH_SERVER_WRITE_TIMEOUT",
		"server.environment":      "DOCBENCH_SERVER_ENVIRONMENT",
		"server.max_upload_mb":    "DOCBENCH_SERVER_MAX_UPLOAD_MB",
		"files_api.base_url":      "DOCBENCH_FILES_API_BASE_URL",
		"files_api.token":         "DOCBENCH_FILES_API_TOKEN",
		"files_api.bot_id":        "DOCBENCH_FILES_API_BOT_ID",
		"files_api.timeout_secs":  "DOCBENCH_FILES_API_TIMEOUT_SECS",
		"benchmark.poll_interval": "DOCBENCH_BENCHMARK_POLL_INTERVAL",
		"benchmark.timeout":       "DOCBENCH_BENCHMARK_TIMEOUT",
		"benchmark.methods_file":  "DOCBENCH_BENCHMARK_METHODS_FILE",
		"history.driver":          "DOCBENCH_HISTORY_DRIVER",
		"history.file_path":       "DOCBENCH_HISTORY_FILE_PATH",
		"history.key":             "DOCBENCH_HISTORY_KEY",
		"history.max_entries":     "DOCBENCH_HISTORY_MAX_ENTRIES",
		"db.host":                 "DOCBENCH_DB_HOST",
		"db.port":                 "DOCBENCH_DB_PORT",
		"db.user":                 "DOCBENCH_DB_USER",
		"db.password":             "DOCBENCH_DB_PASSWORD",
		"db.name":                 "DOCBENCH_DB_NAME",
		"db.sslmode":              "DOCBENCH_DB_SSLMODE",
		"db.max_open":             "DOCBENCH_DB_MAX_OPEN",
		"db.max_idle":             "DOCBENCH_DB_MAX_IDLE",
		"s3.region":               "DOCBENCH_S3_REGION",
		"s3.bucket":               "DOCBENCH_S3_BUCKET",
		"s3.endpoint":             "DOCBENCH_S3_ENDPOINT",
		"s3.access_key":           "DOCBENCH_S3_ACCESS_KEY",
		"s3.secret_key":           "DOCBENCH_S3_SECRET_KEY",
		"s3.prefix":               "DOCBENCH_S3_PREFIX",
		"log.level":               "DOCBENCH_LOG_LEVEL",
		"log.format":              "DOCBENCH_LOG_FORMAT",
		"cors.allowed_origins":    "DOCBENCH_CORS_ALLOWED_ORIGINS",
		"auth.jwt_secret":         "DOCBENCH_AUTH_JWT_SECRET",
		"auth.issuer":             "DOCBENCH_AUTH_ISSUER",
		"auth.token_ttl":          "DOCBENCH_AUTH_TOKEN_TTL",
		"extractor.provider":      "DOCBENCH_EXTRACTOR_PROVIDER",
		"extractor.api_key":       "DOCBENCH_EXTRACTOR_API_KEY",
		"extractor.default_model": "DOCBENCH_EXTRACTOR_DEFAULT_MODEL",
		"extractor.max_retries":   "DOCBENCH_EXTRACTOR_MAX_RETRIES",
		"extractor.timeout_secs":  "DOCBENCH_EXTRACTOR_TIMEOUT_SECS",
	}
	for _, tier := range []string{"primary", "secondary", "tertiary"} {
		for _, field := range []string{"provider", "api_key", "default_model", "max_retries", "timeout_secs"} {
			key := "extractor." + tier + "." + field
			envBindings[key] = "DOCBENCH_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		}
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set a PORT env var. Use it if DOCBENCH_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("DOCBENCH_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
		MaxUploadMB:  v.GetInt64("server.max_upload_mb"),
	}
	cfg.FilesAPI = FilesAPIConfig{
		BaseURL:     strings.TrimRight(v.GetString("files_api.base_url"), "/"),
		Token:       v.GetString("files_api.token"),
		BotID:       v.GetString("files_api.bot_id"),
		TimeoutSecs: v.GetInt("files_api.timeout_secs"),
	}
	cfg.Benchmark = BenchmarkConfig{
		PollInterval: v.GetDuration("benchmark.poll_interval"),
		Timeout:      v.GetDuration("benchmark.timeout"),
		MethodsFile:  v.GetString("benchmark.methods_file"),
	}
	if cfg.Benchmark.PollInterval <= 0 {
		return nil, fmt.Errorf("benchmark.poll_interval must be positive")
	}
	if cfg.Benchmark.Timeout < cfg.Benchmark.PollInterval {
		return nil, fmt.Errorf("benchmark.timeout must be at least benchmark.poll_interval")
	}
	cfg.History = HistoryConfig{
		Driver:     strings.ToLower(v.GetString("history.driver")),
		FilePath:   v.GetString("history.file_path"),
		Key:        v.GetString("history.key"),
		MaxEntries: v.GetInt("history.max_entries"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
		Prefix:    v.GetString("s3.prefix"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Auth = AuthConfig{
		JWTSecret: v.GetString("auth.jwt_secret"),
		Issuer:    v.GetString("auth.issuer"),
		TokenTTL:  v.GetDuration("auth.token_ttl"),
	}

	providerConfig := func(tier string) ExtractorProviderConfig {
		return ExtractorProviderConfig{
			Provider:     v.GetString("extractor." + tier + ".provider"),
			APIKey:       v.GetString("extractor." + tier + ".api_key"),
			DefaultModel: v.GetString("extractor." + tier + ".default_model"),
			MaxRetries:   v.GetInt("extractor." + tier + ".max_retries"),
			TimeoutSecs:  v.GetInt("extractor." + tier + ".timeout_secs"),
		}
	}
	cfg.Extractor = ExtractorConfig{
		Provider:     v.GetString("extractor.provider"),
		APIKey:       v.GetString("extractor.api_key"),
		DefaultModel: v.GetString("extractor.default_model"),
		MaxRetries:   v.GetInt("extractor.max_retries"),
		TimeoutSecs:  v.GetInt("extractor.timeout_secs"),
		Primary:      providerConfig("primary"),
		Secondary:    providerConfig("secondary"),
		Tertiary:     providerConfig("tertiary"),
	}

	return cfg, nil
}
