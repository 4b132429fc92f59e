// Package logging configures structured logging with log/slog and carries
// loggers and request IDs through context.
package logging

import (
	"context"
	"log/slog"
	"os"

	"newswire/internal/handler/http/requestid"
)

type contextKey struct{}

var loggerKey contextKey

// NewLogger returns a JSON logger writing to stdout. The level is taken
// from the LOG_LEVEL environment variable (debug, info, warn, error) and
// defaults to info. Source locations are attached at warn and below so
// that error lines can be traced back to the call site.
func NewLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, handlerOptions()))
}

// NewTextLogger returns a text logger for local development.
func NewTextLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, handlerOptions()))
}

func handlerOptions() *slog.HandlerOptions {
	level := parseLevel(os.Getenv("LOG_LEVEL"))
	return &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelWarn,
	}
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID derives a logger carrying the request ID from ctx, so every
// line emitted while serving one request can be correlated. When the context
// has no request ID the logger is returned unchanged.
func WithRequestID(ctx context.Context, logger *slog.Logger) *slog.Logger {
	id := requestid.FromContext(ctx)
	if id == "" {
		return logger
	}
	return logger.With("request_id", id)
}

// WithLogger stores a logger in the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in ctx, falling back to the
// process default.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
