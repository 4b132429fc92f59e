// Package observability provides the observability infrastructure for the
// service: structured logging, Prometheus metrics, and OpenTelemetry tracing.
//
// Subpackages:
//   - logging: structured logging utilities with slog
//   - metrics: Prometheus metrics registry and recorders
//   - tracing: OpenTelemetry HTTP span middleware
package observability
