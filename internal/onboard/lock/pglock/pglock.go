// Package pglock implements lock.Locker with Postgres session advisory locks.
package pglock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/onboard/internal/onboard/lock"
	"github.com/aussiebroadwan/onboard/pkg/slogx"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Locker struct {
	pool *pgxpool.Pool
}

var _ lock.Locker = (*Locker)(nil)

// New connects to Postgres and verifies the connection.
func New(ctx context.Context, dsn string) (*Locker, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pglock: parse dsn: %w", err)
	}
	cfg.MaxConns = 16
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pglock: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pglock: ping: %w", err)
	}
	return &Locker{pool: pool}, nil
}

func (l *Locker) Close() { l.pool.Close() }

// Acquire blocks until the session lock for key is held or ctx is done. The
// lock lives on a dedicated pooled connection until release.
func (l *Locker) Acquire(ctx context.Context, key string) (func(), error) {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("pglock: acquire conn: %w", err)
	}

	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock(hashtext($1))`, key); err != nil {
		conn.Release()
		return nil, fmt.Errorf("pglock: lock %q: %w", key, err)
	}

	log := slogx.FromContext(ctx)
	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := conn.Exec(ctx, `SELECT pg_advisory_unlock(hashtext($1))`, key); err != nil {
			// Closing the session drops every lock it holds.
			log.Warn("advisory unlock failed, closing session", slog.String("key", key), slog.Any("error", err))
			_ = conn.Hijack().Close(ctx)
			return
		}
		conn.Release()
	}
	return release, nil
}
