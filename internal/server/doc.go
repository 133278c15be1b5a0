// Package server provides the HTTP server behind `fsentity serve`.
//
// Routes:
//   - GET /health: liveness and the served root
//   - GET|HEAD /files/*path: file downloads and directory listings below the root,
//     behind the storage circuit breaker when it is enabled
//   - GET /metrics: Prometheus exposition (when metrics are enabled)
//   - GET /metrics/json: counter snapshot (when metrics are enabled)
//
// Middleware runs in this order: panic recovery, request logging, metrics,
// CORS, then per-IP rate limiting. Responses are gzip-compressed when the
// client accepts it.
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv, err := server.NewServer(cfg, logging.NewNop())
//	if err != nil {
//	    return err
//	}
//	return srv.Run(ctx)
package server
