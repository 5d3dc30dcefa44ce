package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"fardash/internal/dataprocessing"
)

// EnvPrefix namespaces every environment variable, e.g. FAR_SERVER_PORT.
const EnvPrefix = "FAR"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Data      DataConfig      `yaml:"data" envconfig:"DATA"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Sessions  SessionsConfig  `yaml:"sessions" envconfig:"SESSIONS"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" validate:"required_if=EnableCORS true"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"gte=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" validate:"gte=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// DataConfig locates the asset register workbook.
type DataConfig struct {
	File      string `yaml:"file" envconfig:"FILE" validate:"required"`
	Sheet     string `yaml:"sheet" envconfig:"SHEET"`
	HeaderRow int    `yaml:"header_row" envconfig:"HEADER_ROW" validate:"min=1"`
	Dir       string `yaml:"dir" envconfig:"DIR"`
	ExportDir string `yaml:"export_dir" envconfig:"EXPORT_DIR"`
}

// AnalysisConfig tunes the derived metrics and queries.
type AnalysisConfig struct {
	Thresholds         dataprocessing.Thresholds `yaml:"thresholds" envconfig:"THRESHOLDS"`
	HighValueThreshold float64                   `yaml:"high_value_threshold" envconfig:"HIGH_VALUE_THRESHOLD" validate:"gte=0"`
	CustodianLimit     int                       `yaml:"custodian_limit" envconfig:"CUSTODIAN_LIMIT" validate:"min=1"`
	SearchLimit        int                       `yaml:"search_limit" envconfig:"SEARCH_LIMIT" validate:"min=1"`
	ForecastMonths     int                       `yaml:"forecast_months" envconfig:"FORECAST_MONTHS" validate:"min=1"`
}

// SessionsConfig bounds the in-memory session registry.
type SessionsConfig struct {
	TTL time.Duration `yaml:"ttl" envconfig:"TTL" validate:"gt=0"`
	Max int           `yaml:"max" envconfig:"MAX" validate:"min=1"`
}

// TelemetryConfig controls tracing and metrics export.
type TelemetryConfig struct {
	ServiceName    string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	EnableTracing  bool   `yaml:"enable_tracing" envconfig:"ENABLE_TRACING"`
	EnableMetrics  bool   `yaml:"enable_metrics" envconfig:"ENABLE_METRICS"`
	TraceToConsole bool   `yaml:"trace_to_console" envconfig:"TRACE_TO_CONSOLE"`
}

// Load builds the configuration from defaults, an optional YAML file, an
// optional .env file and FAR_* environment variables, in increasing order
// of precedence. Relative paths are resolved against the executable.
func Load() (*Config, error) {
	paths, err := GetPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get paths: %w", err)
	}
	return LoadFrom(getConfigFilePath(), paths.BaseDir)
}

// LoadFrom is Load with an explicit config file (empty for none) and base
// directory.
func LoadFrom(configFile, baseDir string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	cfg.resolvePaths(baseDir)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFromFile overlays YAML values onto cfg. Keys absent from the file keep
// their current value.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks struct constraints and normalizes the log settings.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}
	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if p := os.Getenv(EnvPrefix + "_CONFIG"); p != "" {
		return p
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "both",
			FilePath: "logs/app.log",
		},
		Data: DataConfig{
			File:      DefaultDataFile,
			Sheet:     DefaultSheet,
			HeaderRow: dataprocessing.DefaultHeaderRow,
			Dir:       "data",
			ExportDir: "data/exports",
		},
		Analysis: AnalysisConfig{
			Thresholds:         dataprocessing.DefaultThresholds(),
			HighValueThreshold: 10000,
			CustodianLimit:     dataprocessing.DefaultCustodianLimit,
			SearchLimit:        100,
			ForecastMonths:     dataprocessing.DefaultForecastMonths,
		},
		Sessions: SessionsConfig{
			TTL: 30 * time.Minute,
			Max: 16,
		},
		Telemetry: TelemetryConfig{
			ServiceName:   AppName,
			EnableTracing: true,
			EnableMetrics: true,
		},
	}
}
