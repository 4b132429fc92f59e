// Package postgres implements the repository interfaces on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
)

// Executor is the subset of *sql.DB the repositories need.
// Both *sql.DB and circuitbreaker.DBCircuitBreaker satisfy it, so the
// repositories can run with or without breaker protection.
type Executor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
