// Package config handles configuration loading for solarsim.
// It supports YAML config files with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. SOLARSIM_API_PORT.
const EnvPrefix = "SOLARSIM"

// Config represents the complete application configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api"     yaml:"api"     json:"api"`
	Batch   BatchConfig   `mapstructure:"batch"   yaml:"batch"   json:"batch"`
	Catalog CatalogConfig `mapstructure:"catalog" yaml:"catalog" json:"catalog"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics" json:"metrics"`
	Web     WebConfig     `mapstructure:"web"     yaml:"web"     json:"web"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging" json:"logging"`

	file string // config file actually read, "" when none
}

// APIConfig holds HTTP server settings.
type APIConfig struct {
	Host              string   `mapstructure:"host"                yaml:"host"                json:"host"`
	Port              int      `mapstructure:"port"                yaml:"port"                json:"port"`
	CORSOrigins       []string `mapstructure:"cors_origins"        yaml:"cors_origins"        json:"cors_origins"`
	RequestTimeoutSec int      `mapstructure:"request_timeout_sec" yaml:"request_timeout_sec" json:"request_timeout_sec"`
	RateLimit         int      `mapstructure:"rate_limit"          yaml:"rate_limit"          json:"rate_limit"`     // burst size, 0 disables
	RateWindowMs      int      `mapstructure:"rate_window_ms"      yaml:"rate_window_ms"      json:"rate_window_ms"` // one token regained per window
}

// BatchConfig bounds the batch and compare endpoints.
type BatchConfig struct {
	MaxRequests int `mapstructure:"max_requests" yaml:"max_requests" json:"max_requests"`
	Concurrency int `mapstructure:"concurrency"  yaml:"concurrency"  json:"concurrency"`
}

// CatalogConfig holds the reference catalog database settings.
type CatalogConfig struct {
	DSN      string `mapstructure:"dsn"       yaml:"dsn"       json:"dsn"`
	CacheTTL int    `mapstructure:"cache_ttl" yaml:"cache_ttl" json:"cache_ttl"` // seconds
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Path    string `mapstructure:"path"    yaml:"path"    json:"path"`
}

// WebConfig controls the embedded estimator page.
type WebConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"` // serve the form at "/"
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level" json:"level"` // "debug", "info", "warn", "error"
}

// LogRequests reports whether every HTTP request is logged.
func (c LoggingConfig) LogRequests() bool {
	switch strings.ToLower(c.Level) {
	case "debug", "info":
		return true
	}
	return false
}

// Addr returns host:port for the HTTP listener.
func (c APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RequestTimeout returns the per-request deadline.
func (c APIConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

// RateWindow returns the token refill period.
func (c APIConfig) RateWindow() time.Duration {
	return time.Duration(c.RateWindowMs) * time.Millisecond
}

// CacheDuration returns the catalog listing TTL.
func (c CatalogConfig) CacheDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// File returns the path of the config file that was read, or "".
func (c *Config) File() string {
	return c.file
}

// Default returns the configuration used when no file or env is present.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults alone always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.solarsim/config.yaml (home directory)
//  3. /etc/solarsim/config.yaml (system)
//
// Environment variables override config file values.
// Format: SOLARSIM_<SECTION>_<KEY>, e.g., SOLARSIM_API_PORT
func Load() (*Config, error) {
	v := newViper()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".solarsim"))
	v.AddConfigPath("/etc/solarsim")

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return decode(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.file = v.ConfigFileUsed()

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot run with.
func Validate(cfg *Config) error {
	var errs []error
	if cfg.API.Port < 1 || cfg.API.Port > 65535 {
		errs = append(errs, fmt.Errorf("api.port %d out of range 1-65535", cfg.API.Port))
	}
	if cfg.API.RequestTimeoutSec <= 0 {
		errs = append(errs, fmt.Errorf("api.request_timeout_sec must be positive"))
	}
	if cfg.API.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("api.rate_limit must not be negative"))
	}
	if cfg.API.RateLimit > 0 && cfg.API.RateWindowMs <= 0 {
		errs = append(errs, fmt.Errorf("api.rate_window_ms must be positive when rate_limit is set"))
	}
	if cfg.Batch.MaxRequests <= 0 {
		errs = append(errs, fmt.Errorf("batch.max_requests must be positive"))
	}
	if cfg.Batch.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("batch.concurrency must be positive"))
	}
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q must be debug, info, warn or error", cfg.Logging.Level))
	}
	if cfg.Catalog.DSN == "" {
		errs = append(errs, fmt.Errorf("catalog.dsn is required"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"*"})
	v.SetDefault("api.request_timeout_sec", 30)
	v.SetDefault("api.rate_limit", 0)
	v.SetDefault("api.rate_window_ms", 1000)

	// Batch defaults
	v.SetDefault("batch.max_requests", 100)
	v.SetDefault("batch.concurrency", 8)

	// Catalog defaults
	v.SetDefault("catalog.dsn", ":memory:")
	v.SetDefault("catalog.cache_ttl", 300) // 5 minutes

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	// Web defaults
	v.SetDefault("web.enabled", true)

	// Logging defaults
	v.SetDefault("logging.level", "info")
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
