package postgres

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// MigrationResult describes the schema version before and after a run
type MigrationResult struct {
	VersionFrom uint
	VersionTo   uint
	Dirty       bool
}

// RunMigrations applies every pending up migration to the database at dbURL.
// dbURL must be in URL form (postgres://...), a key=value DSN is not accepted.
func RunMigrations(dbURL string) (MigrationResult, error) {
	var result MigrationResult

	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return result, fmt.Errorf("failed to load embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, dbURL)
	if err != nil {
		return result, fmt.Errorf("failed to initiate migration: %w", err)
	}
	defer m.Close()

	result.VersionFrom, result.Dirty, err = m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return result, fmt.Errorf("failed to get migration version: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return result, fmt.Errorf("failed to run migration: %w", err)
	}

	result.VersionTo, result.Dirty, err = m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return result, fmt.Errorf("failed to get migration version after running: %w", err)
	}

	return result, nil
}
