package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/taskmaster/todoplus/internal/infrastructure/config"
)

func sqliteConfig(t *testing.T) config.DatabaseConfig {
	t.Helper()
	return config.DatabaseConfig{
		Path:            filepath.Join(t.TempDir(), "todoplus.db"),
		ConnMaxLifetime: time.Minute,
	}
}

func TestNewAppliesMigrations(t *testing.T) {
	cfg := sqliteConfig(t)

	db, err := New(context.Background(), config.BackendSQLite, cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.DB.Get(&count, "SELECT COUNT(*) FROM kv_store"); err != nil {
		t.Fatalf("kv_store should exist after open: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty kv_store, got %d rows", count)
	}

	status, err := MigrationVersion(config.BackendSQLite, cfg)
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if status.Version != 1 || status.Dirty {
		t.Fatalf("unexpected migration status %+v", status)
	}
}

func TestMigrateUpIsIdempotent(t *testing.T) {
	cfg := sqliteConfig(t)

	first, err := Migrate(config.BackendSQLite, cfg, DirectionUp)
	if err != nil {
		t.Fatalf("first up: %v", err)
	}
	if !first.Changed {
		t.Fatalf("first migration should change the schema")
	}

	second, err := Migrate(config.BackendSQLite, cfg, DirectionUp)
	if err != nil {
		t.Fatalf("second up: %v", err)
	}
	if second.Changed {
		t.Fatalf("second migration should be a no-op")
	}
	if second.Version != 1 {
		t.Fatalf("expected version 1, got %d", second.Version)
	}
}

func TestMigrateRejectsUnknownDirection(t *testing.T) {
	if _, err := Migrate(config.BackendSQLite, sqliteConfig(t), "sideways"); err == nil {
		t.Fatalf("expected error for unknown direction")
	}
}

func TestDriverNameRejectsNonSQLBackend(t *testing.T) {
	if _, err := DriverName(config.BackendRedis); err == nil {
		t.Fatalf("expected error for redis backend")
	}
}
