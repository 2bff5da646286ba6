package database

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Migrator applies versioned SQL migrations from an fs.FS.
type Migrator struct {
	m      *migrate.Migrate
	logger *slog.Logger
}

// NewMigrator reads migrations from dir inside fsys and targets the configured database.
func NewMigrator(cfg *Config, fsys fs.FS, dir string, logger *slog.Logger) (*Migrator, error) {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, cfg.URL("pgx5"))
	if err != nil {
		return nil, fmt.Errorf("migration instance: %w", err)
	}

	return &Migrator{m: m, logger: logger.With("system", "migrate")}, nil
}

// Up applies all pending migrations. An up-to-date schema is not an error.
func (mg *Migrator) Up() error {
	return mg.run("up", mg.m.Up)
}

// Down rolls back every applied migration.
func (mg *Migrator) Down() error {
	return mg.run("down", mg.m.Down)
}

// Steps applies n migrations forward, or -n backward.
func (mg *Migrator) Steps(n int) error {
	return mg.run(fmt.Sprintf("steps %d", n), func() error { return mg.m.Steps(n) })
}

// Version returns the current schema version and whether it is dirty.
func (mg *Migrator) Version() (uint, bool, error) {
	v, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

// Close releases the source and database handles.
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}

func (mg *Migrator) run(name string, fn func() error) error {
	err := fn()
	if errors.Is(err, migrate.ErrNoChange) {
		mg.logger.Info("schema up to date", "op", name)
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", name, err)
	}

	v, dirty, _ := mg.Version()
	mg.logger.Info("migration applied", "op", name, "version", v, "dirty", dirty)
	return nil
}
