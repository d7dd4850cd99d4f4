// Package middleware provides the HTTP middleware stack for the activities API.
//
// # Available Middleware
//
//   - RequestID: assigns or propagates X-Request-ID
//   - Logger: one structured log line per request
//   - Recovery: converts panics into RFC 9457 500 responses
//   - CORS: origin allow-list and preflight handling
//   - RateLimit: per-client token bucket
//   - Idempotency: replays responses for repeated Idempotency-Key requests
//   - Metrics: Prometheus request duration by route pattern
//   - Compress: gzip for clients that accept it
//
// Compose them with Chain; the first middleware listed runs outermost:
//
//	handler := Chain(mux, RequestID, Logger, Recovery, Metrics)
//
// Compress must wrap Idempotency: stored responses are kept uncompressed and
// encoded per retry.
//
// # Context Values
//
//   - GetRequestID(ctx): the request's unique identifier
package middleware
