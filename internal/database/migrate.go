package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/allisson/coursehook/migrations"
)

// Migrate applies every pending embedded migration for driver on db.
// It returns nil when the schema is already up to date. The caller keeps ownership of db.
func Migrate(db *sql.DB, driver string) error {
	dir, err := migrations.Dir(driver)
	if err != nil {
		return err
	}

	source, err := iofs.New(migrations.FS, dir)
	if err != nil {
		return fmt.Errorf("failed to open migration source: %w", err)
	}

	target, err := migrationTarget(db, driver)
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driver, target)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// migrationTarget wraps db in the golang-migrate driver matching the database/sql driver name.
func migrationTarget(db *sql.DB, driver string) (migratedb.Driver, error) {
	switch driver {
	case DriverPostgres:
		return postgres.WithInstance(db, &postgres.Config{})
	case DriverMySQL:
		return mysql.WithInstance(db, &mysql.Config{})
	case DriverSQLite:
		return sqlite3.WithInstance(db, &sqlite3.Config{})
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}
