// Package db provides a pgxpool-based connection pool with prepared statement
// registration and health checking.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/classactionfinder/finder-data/internal/config"
)

// ErrNotFound is returned (wrapped) by lookups that match no row.
var ErrNotFound = errors.New("not found")

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// NotFound converts pgx.ErrNoRows into ErrNotFound, leaving other errors as
// they are.
func NotFound(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}

// registerPreparedStatements registers the hot-path read statements. Writes
// stay as inline SQL in internal/store.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Data sources
		"list_data_sources": `SELECT id, name, url, reliability_metrics, scraping_config,
			data_mapping, success_history, created_at, updated_at
			FROM ` + config.DataSourcesTable + ` ORDER BY created_at`,
		"get_data_source": `SELECT id, name, url, reliability_metrics, scraping_config,
			data_mapping, success_history, created_at, updated_at
			FROM ` + config.DataSourcesTable + ` WHERE id = $1`,

		// Notifications
		"list_notifications_all": `SELECT id, user_id, type, content, data, read, created_at
			FROM ` + config.NotificationsTable + ` WHERE user_id = $1 ORDER BY created_at DESC`,
		"list_notifications_unread": `SELECT id, user_id, type, content, data, read, created_at
			FROM ` + config.NotificationsTable + ` WHERE user_id = $1 AND read = false ORDER BY created_at DESC`,

		// Preferences
		"get_notification_preferences": `SELECT preferences->'notificationPreferences'
			FROM ` + config.UsersTable + ` WHERE id = $1`,
		"users_with_frequency": `SELECT id FROM ` + config.UsersTable + `
			WHERE COALESCE(preferences->'notificationPreferences'->>'frequency', 'immediate') = $1`,
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
