package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homeward-labs/homegate-server/internal/config"
	"github.com/homeward-labs/homegate-server/internal/logger"
	"github.com/homeward-labs/homegate-server/internal/model"
)

// Connection wraps a pgx connection pool. Every repository operation
// acquires a connection from the pool and releases it before returning, so
// no connection state leaks across requests.
type Connection struct {
	*pgxpool.Pool
}

func (s *Connection) Close() error {
	if s.Pool != nil {
		s.Pool.Close()
	}
	return nil
}

func (s *Connection) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

// connectFunc performs a single connection attempt including the liveness
// probe. It is a seam for tests; production code uses dial.
type connectFunc func(ctx context.Context) (*Connection, error)

// Connect establishes a database connection, retrying up to
// cfg.MaxAttempts times with a fixed cfg.RetryDelaySeconds pause between
// attempts. The delay is deliberately constant rather than exponential: the
// target is a co-located database whose outages are rare and short.
//
// Exhausting every attempt returns a *model.ConnectionError carrying the
// last underlying cause.
func Connect(ctx context.Context, cfg config.Database, logger *logger.Logger) (*Connection, error) {
	connect := func(ctx context.Context) (*Connection, error) {
		// resolve the parameters per attempt rather than once up front
		return dial(ctx, cfg.DSN())
	}

	return connectWithRetry(ctx, cfg.MaxAttempts, time.Duration(cfg.RetryDelaySeconds)*time.Second, connect, sleep, logger)
}

func connectWithRetry(
	ctx context.Context,
	maxAttempts int,
	retryDelay time.Duration,
	connect connectFunc,
	sleep func(ctx context.Context, d time.Duration) error,
	logger *logger.Logger,
) (*Connection, error) {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		conn, err := connect(ctx)
		if err == nil {
			logger.Info("database connection established", "attempt", attempt)
			return conn, nil
		}

		lastErr = err
		logger.Warn("database connection attempt failed",
			"attempt", attempt,
			"max_attempts", maxAttempts,
			"retry_delay", retryDelay.String(),
			"error", err.Error())

		if attempt == maxAttempts {
			break
		}

		if err := sleep(ctx, retryDelay); err != nil {
			return nil, &model.ConnectionError{Attempts: attempt, Err: err}
		}
	}

	return nil, &model.ConnectionError{Attempts: maxAttempts, Err: lastErr}
}

// dial opens a connection pool and probes it before handing it out. A pool
// that fails the probe is closed rather than returned half-open.
func dial(ctx context.Context, dsn string) (*Connection, error) {
	conf, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, conf)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &Connection{Pool: pool}, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
