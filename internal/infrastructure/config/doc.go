// Package config provides 12-factor configuration for fsentity.
//
// Configuration starts from Default, optionally overlaid by a YAML file
// (LoadFile), and finally by environment variables.
//
// Configuration Sections:
//   - Logging: log level and output format
//   - Transfer: conflict policy for copy and move
//   - Server: listen address and served root
//   - RateLimit: per-IP rate limiting for the server
//   - Metrics: Prometheus endpoint toggle
//
// Environment Variables:
//   - FSENTITY_LOG_LEVEL, FSENTITY_LOG_DEV
//   - FSENTITY_ON_CONFLICT
//   - FSENTITY_HOST, FSENTITY_PORT, FSENTITY_ROOT
//   - FSENTITY_RATE_LIMIT_RPS, FSENTITY_RATE_LIMIT_BURST, FSENTITY_RATE_LIMIT_ENABLED
//   - FSENTITY_METRICS_ENABLED
package config
