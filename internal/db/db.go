package db

import (
	"context"
	"database/sql"
	"time"
)

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Querier runs SQL statements. *sql.DB, *sql.Conn and *sql.Tx satisfy it,
// so repositories work both on the shared pool and on a per-request session.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// RowStore is the relational store holding reference entities and clients.
type RowStore interface {
	Pinger
	Querier
	Acquire(ctx context.Context) (*sql.Conn, error)
	Close()
}

// HashStore provides hash-based key-value operations.
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HIncrBy(ctx context.Context, key, field string, n int64) (int64, error)
	Del(ctx context.Context, key string) error
}

// CounterStore is the key-value store backing usage counters.
type CounterStore interface {
	Pinger
	HashStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}
