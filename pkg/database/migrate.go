package database

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/SscSPs/orsys_voucher_app/migrations"
	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// MigratePostgres applies the embedded postgres migrations. It reports whether anything changed.
func MigratePostgres(databaseURL string) (bool, error) {
	// a separate database/sql handle; migrate closes it when done
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return false, fmt.Errorf("open migration database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return false, fmt.Errorf("ping migration database: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		db.Close()
		return false, fmt.Errorf("create postgres driver: %w", err)
	}
	return runMigrations(migrations.PostgresFS, "postgres", driver)
}

// MigrateSQLite applies the embedded sqlite migrations to the file at path.
func MigrateSQLite(path string) (bool, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return false, fmt.Errorf("open migration database: %w", err)
	}

	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		db.Close()
		return false, fmt.Errorf("create sqlite driver: %w", err)
	}
	return runMigrations(migrations.SQLiteFS, "sqlite", driver)
}

func runMigrations(fsys fs.FS, dir string, driver migratedb.Driver) (bool, error) {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		driver.Close()
		return false, fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, dir, driver)
	if err != nil {
		driver.Close()
		return false, fmt.Errorf("create migrate instance: %w", err)
	}

	upErr := m.Up()
	sourceErr, dbErr := m.Close()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return false, fmt.Errorf("run migrations: %w", upErr)
	}
	if sourceErr != nil {
		return false, fmt.Errorf("migration source error: %w", sourceErr)
	}
	if dbErr != nil {
		return false, fmt.Errorf("migration database error: %w", dbErr)
	}
	return !errors.Is(upErr, migrate.ErrNoChange), nil
}
