package database

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file" // file:// migration source
)

// RunMigrations applies all pending up migrations from migrationsDir
// to the given store.
func RunMigrations(store *Store, migrationsDir string) error {
	driver, err := sqlite3.WithInstance(store.DB.DB, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver for %s store: %w", store.Kind, err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsDir, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("could not create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not apply migrations: %w", err)
	}

	return nil
}
