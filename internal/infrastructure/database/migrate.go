package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/taskmaster/todoplus/internal/infrastructure/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migration directions
const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

// MigrationStatus describes the schema version after a migration run
type MigrationStatus struct {
	Version uint
	Dirty   bool
	Changed bool
}

// Migrate applies the embedded migrations in direction on a dedicated connection.
// migrate closes the *sql.DB it is handed, so callers never share theirs.
func Migrate(backend string, cfg config.DatabaseConfig, direction string) (MigrationStatus, error) {
	m, err := newMigrator(backend, cfg)
	if err != nil {
		return MigrationStatus{}, err
	}
	defer m.Close()

	switch direction {
	case DirectionUp:
		err = m.Up()
	case DirectionDown:
		err = m.Down()
	default:
		return MigrationStatus{}, fmt.Errorf("unknown migration direction %q", direction)
	}

	status := MigrationStatus{Changed: true}
	if errors.Is(err, migrate.ErrNoChange) {
		status.Changed = false
	} else if err != nil {
		return MigrationStatus{}, fmt.Errorf("migration %s failed: %w", direction, err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return MigrationStatus{}, fmt.Errorf("failed to get migration version: %w", err)
	}
	status.Version = version
	status.Dirty = dirty

	return status, nil
}

// MigrationVersion reports the current schema version without changing anything
func MigrationVersion(backend string, cfg config.DatabaseConfig) (MigrationStatus, error) {
	m, err := newMigrator(backend, cfg)
	if err != nil {
		return MigrationStatus{}, err
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return MigrationStatus{}, fmt.Errorf("failed to get migration version: %w", err)
	}

	return MigrationStatus{Version: version, Dirty: dirty}, nil
}

func newMigrator(backend string, cfg config.DatabaseConfig) (*migrate.Migrate, error) {
	driverName, err := DriverName(backend)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName, cfg.GetDSN(backend))
	if err != nil {
		return nil, fmt.Errorf("failed to open migration connection: %w", err)
	}

	var driver migratedb.Driver
	switch backend {
	case config.BackendPostgres:
		driver, err = migratepg.WithInstance(db, &migratepg.Config{})
	case config.BackendSQLite:
		driver, err = migratesqlite.WithInstance(db, &migratesqlite.Config{})
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driverName, driver)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}

	return m, nil
}
