package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// Conflict policies for the CLI.
const (
	OnConflictReplace = "replace"
	OnConflictFail    = "fail"
)

// Config holds all application configuration.
type Config struct {
	Logging   LogConfig       `yaml:"logging" toml:"logging"`
	Transfer  TransferConfig  `yaml:"transfer" toml:"transfer"`
	Server    ServerConfig    `yaml:"server" toml:"server"`
	RateLimit RateLimitConfig `yaml:"rate_limit" toml:"rate_limit"`
	Metrics   MetricsConfig   `yaml:"metrics" toml:"metrics"`
	Breaker   BreakerConfig   `yaml:"breaker" toml:"breaker"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"FSENTITY_LOG_LEVEL" yaml:"level" toml:"level"`
	Development bool   `envconfig:"FSENTITY_LOG_DEV" yaml:"development" toml:"development"`
}

// TransferConfig holds defaults for copy and move.
type TransferConfig struct {
	// OnConflict is "replace" to recover from occupied destinations or
	// "fail" to report them.
	OnConflict string `envconfig:"FSENTITY_ON_CONFLICT" yaml:"on_conflict" toml:"on_conflict"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `envconfig:"FSENTITY_HOST" yaml:"host" toml:"host"`
	Port string `envconfig:"FSENTITY_PORT" yaml:"port" toml:"port"`
	// Root is the directory served below /files.
	Root string `envconfig:"FSENTITY_ROOT" yaml:"root" toml:"root"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"FSENTITY_RATE_LIMIT_RPS" yaml:"rps" toml:"rps"`
	Burst             int  `envconfig:"FSENTITY_RATE_LIMIT_BURST" yaml:"burst" toml:"burst"`
	Enabled           bool `envconfig:"FSENTITY_RATE_LIMIT_ENABLED" yaml:"enabled" toml:"enabled"`
}

// MetricsConfig holds Prometheus configuration.
type MetricsConfig struct {
	Enabled bool `envconfig:"FSENTITY_METRICS_ENABLED" yaml:"enabled" toml:"enabled"`
}

// BreakerConfig holds the storage circuit breaker configuration.
type BreakerConfig struct {
	Enabled  bool          `envconfig:"FSENTITY_BREAKER_ENABLED" yaml:"enabled" toml:"enabled"`
	Failures int           `envconfig:"FSENTITY_BREAKER_FAILURES" yaml:"failures" toml:"failures"`
	Cooldown time.Duration `envconfig:"FSENTITY_BREAKER_COOLDOWN" yaml:"cooldown" toml:"cooldown"`
}

// Load loads configuration from environment variables on top of Default.
func Load() (*Config, error) {
	cfg := Default()
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// LoadFile reads a YAML or TOML file (chosen by extension) on top of
// Default, then applies environment overrides.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		Transfer: TransferConfig{
			OnConflict: OnConflictReplace,
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: "8080",
			Root: ".",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Breaker: BreakerConfig{
			Enabled:  true,
			Failures: 5,
			Cooldown: 30 * time.Second,
		},
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level: unknown level %q", c.Logging.Level))
	}
	switch c.Transfer.OnConflict {
	case OnConflictReplace, OnConflictFail:
	default:
		errs = append(errs, fmt.Errorf("transfer.on_conflict: must be %q or %q, got %q",
			OnConflictReplace, OnConflictFail, c.Transfer.OnConflict))
	}
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port: must not be empty"))
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		errs = append(errs, errors.New("rate_limit: rps and burst must be positive when enabled"))
	}
	if c.Breaker.Enabled && (c.Breaker.Failures <= 0 || c.Breaker.Cooldown <= 0) {
		errs = append(errs, errors.New("breaker: failures and cooldown must be positive when enabled"))
	}
	return errors.Join(errs...)
}

// Addr returns the host:port the server listens on.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}
