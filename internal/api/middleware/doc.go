// Package middleware provides HTTP middleware for `fsentity serve`.
//
// Middleware stack includes:
//   - CORS: cross-origin access to downloads, exposing Content-Disposition
//   - RateLimit: per-IP token bucket rate limiting
//   - GlobalRateLimit: one token bucket shared by all clients
//
// Example Usage:
//
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
