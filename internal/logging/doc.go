// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON output for machine parsing
//   - Development: colored console output for humans
//
// Logs are written to stderr by default; the CLI prints results on stdout.
//
// Example Usage:
//
//	logger, err := logging.New(logging.Config{Level: "info"})
//	if err != nil {
//		return err
//	}
//	defer logger.Sync()
//	f, err := entity.OpenFile(path, entity.WithLogger(logger.Logger))
package logging
