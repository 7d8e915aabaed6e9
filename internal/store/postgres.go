// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vacago Contributors

// Package store provides database connectivity and schema management.
package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// Connection retry parameters. The database is often still starting when
// the backend comes up, so the first pings back off exponentially.
const (
	connectRetryBase = 500 * time.Millisecond
	connectRetryMax  = 5
)

// DB wraps a pgx connection pool shared by all repositories.
type DB struct {
	pool *pgxpool.Pool
}

// Connect opens a connection pool and verifies it with retried pings.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, oops.Code("DB_CONFIG_INVALID").
			With("operation", "parse database url").
			Wrap(err)
	}

	backoff := retry.WithMaxRetries(connectRetryMax, retry.NewExponential(connectRetryBase))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if pingErr := pool.Ping(ctx); pingErr != nil {
			return retry.RetryableError(pingErr)
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, oops.Code("DB_CONNECT_FAILED").
			With("operation", "ping database").
			Wrap(err)
	}

	return &DB{pool: pool}, nil
}

// Pool exposes the underlying pool for repository construction.
func (d *DB) Pool() *pgxpool.Pool {
	return d.pool
}

// Ping verifies the connection is still alive.
func (d *DB) Ping(ctx context.Context) error {
	if err := d.pool.Ping(ctx); err != nil {
		return oops.Code("DB_PING_FAILED").Wrap(err)
	}
	return nil
}

// Close releases the connection pool.
func (d *DB) Close() {
	d.pool.Close()
}
