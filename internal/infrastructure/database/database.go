package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/taskmaster/todoplus/internal/infrastructure/config"
)

// DB wraps sqlx.DB and provides additional functionality
type DB struct {
	DB      *sqlx.DB
	backend string
	config  config.DatabaseConfig
}

// DriverName maps a storage backend to its database/sql driver
func DriverName(backend string) (string, error) {
	switch backend {
	case config.BackendSQLite:
		return "sqlite", nil
	case config.BackendPostgres:
		return "postgres", nil
	default:
		return "", fmt.Errorf("backend %q is not an SQL backend", backend)
	}
}

// New opens a connection for backend ("sqlite" or "postgres") and applies pending migrations
func New(ctx context.Context, backend string, cfg config.DatabaseConfig) (*DB, error) {
	driver, err := DriverName(backend)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driver, cfg.GetDSN(backend))
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// sqlite allows a single writer; extra connections only produce SQLITE_BUSY
	if backend == config.BackendSQLite {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := Migrate(backend, cfg, DirectionUp); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &DB{
		DB:      db,
		backend: backend,
		config:  cfg,
	}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	if db.DB != nil {
		return db.DB.Close()
	}
	return nil
}

// Backend returns the storage backend this connection serves
func (db *DB) Backend() string {
	return db.backend
}

// HealthCheck checks database health
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	return nil
}

// GetConnectionInfo returns connection pool statistics
func (db *DB) GetConnectionInfo() map[string]interface{} {
	stats := db.DB.Stats()

	return map[string]interface{}{
		"backend":              db.backend,
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration":        stats.WaitDuration.String(),
	}
}
