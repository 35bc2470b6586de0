// README: Postgres connection pool initialization using pgxpool.
package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const dbPingRetries = 5

// NewDB opens a pool and waits until the server answers a ping.
func NewDB(ctx context.Context, dsn string, log *zap.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open pool: %w", err)
	}
	if err := waitForDB(ctx, pool, log); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func waitForDB(ctx context.Context, pool *pgxpool.Pool, log *zap.Logger) error {
	var err error
	for attempt := 1; attempt <= dbPingRetries; attempt++ {
		if err = pool.Ping(ctx); err == nil {
			return nil
		}
		wait := time.Duration(attempt) * 200 * time.Millisecond
		log.Warn("postgres ping failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return fmt.Errorf("postgres: unreachable after %d attempts: %w", dbPingRetries, err)
}
