package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"plant-store/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

// NewPostgresPool creates the process-wide Postgres connection pool. It is
// built once at startup and handed to every repository.
func NewPostgresPool(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("Connected to Postgres",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database),
		zap.Int32("max_conns", poolConfig.MaxConns),
	)

	return pool, nil
}

// SQLDB exposes the pool as a database/sql handle for goose. Closing the
// returned handle does not close the pool.
func SQLDB(pool *pgxpool.Pool) *sql.DB {
	return stdlib.OpenDBFromPool(pool)
}

// Health reports pool statistics alongside a ping result
func Health(ctx context.Context, pool *pgxpool.Pool) map[string]string {
	stats := map[string]string{}

	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	if err := pool.Ping(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = err.Error()
		return stats
	}

	s := pool.Stat()
	stats["status"] = "up"
	stats["total_conns"] = fmt.Sprint(s.TotalConns())
	stats["idle_conns"] = fmt.Sprint(s.IdleConns())
	stats["acquired_conns"] = fmt.Sprint(s.AcquiredConns())
	return stats
}
