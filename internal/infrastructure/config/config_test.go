package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	assert.Equal(t, OnConflictReplace, cfg.Transfer.OnConflict)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "127.0.0.1:8080", cfg.Addr())

	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.True(t, cfg.Metrics.Enabled)
	assert.True(t, cfg.Breaker.Enabled)
	assert.Equal(t, 5, cfg.Breaker.Failures)
	assert.Equal(t, 30*time.Second, cfg.Breaker.Cooldown)

	assert.NoError(t, cfg.Validate())
}

func TestLoadOrDefault(t *testing.T) {
	// Should return default when no env vars set
	cfg := LoadOrDefault()

	assert.NotNil(t, cfg)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"FSENTITY_LOG_LEVEL":          "debug",
		"FSENTITY_LOG_DEV":            "true",
		"FSENTITY_ON_CONFLICT":        "fail",
		"FSENTITY_HOST":               "0.0.0.0",
		"FSENTITY_PORT":               "9000",
		"FSENTITY_ROOT":               "/srv/files",
		"FSENTITY_RATE_LIMIT_RPS":     "500",
		"FSENTITY_RATE_LIMIT_BURST":   "1000",
		"FSENTITY_RATE_LIMIT_ENABLED": "false",
		"FSENTITY_METRICS_ENABLED":    "false",
		"FSENTITY_BREAKER_FAILURES":   "2",
		"FSENTITY_BREAKER_COOLDOWN":   "1m",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, OnConflictFail, cfg.Transfer.OnConflict)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "/srv/files", cfg.Server.Root)
	assert.Equal(t, 500, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 1000, cfg.RateLimit.Burst)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, 2, cfg.Breaker.Failures)
	assert.Equal(t, time.Minute, cfg.Breaker.Cooldown)
}

func TestLoadInvalidEnvironment(t *testing.T) {
	t.Setenv("FSENTITY_RATE_LIMIT_RPS", "fast")

	_, err := Load()
	assert.Error(t, err)

	cfg := LoadOrDefault()
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fsentity.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logging:
  level: warn
transfer:
  on_conflict: fail
server:
  port: "7000"
  root: /data
rate_limit:
  rps: 5
breaker:
  cooldown: 10s
`), 0o644))

	t.Setenv("FSENTITY_PORT", "7001")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, OnConflictFail, cfg.Transfer.OnConflict)
	assert.Equal(t, "7001", cfg.Server.Port, "environment wins over the file")
	assert.Equal(t, "/data", cfg.Server.Root)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host, "unset keys keep defaults")
	assert.Equal(t, 5, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
	assert.Equal(t, 10*time.Second, cfg.Breaker.Cooldown)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFileTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fsentity.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[transfer]
on_conflict = "fail"

[server]
port = "7000"
root = "/data"

[breaker]
enabled = false
`), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, OnConflictFail, cfg.Transfer.OnConflict)
	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, "/data", cfg.Server.Root)
	assert.False(t, cfg.Breaker.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging: [unclosed"), 0o644))
	_, err = LoadFile(path)
	assert.Error(t, err)

	path = filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\nport = 1"), 0o644))
	_, err = LoadFile(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "chatty"
	cfg.Transfer.OnConflict = "skip"
	cfg.Server.Port = ""
	cfg.RateLimit.RequestsPerSecond = 0
	cfg.Breaker.Failures = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
	assert.Contains(t, err.Error(), "transfer.on_conflict")
	assert.Contains(t, err.Error(), "server.port")
	assert.Contains(t, err.Error(), "rate_limit")
	assert.Contains(t, err.Error(), "breaker")

	cfg = Default()
	cfg.RateLimit.Enabled = false
	cfg.RateLimit.RequestsPerSecond = 0
	assert.NoError(t, cfg.Validate())
}
