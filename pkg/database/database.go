// Package database opens and manages the Postgres connection pool used by the
// SQL-backed stores. Connections go through database/sql with the pgx driver.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/JaimeStill/agent-console/pkg/lifecycle"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// System owns the connection pool.
type System interface {
	Connection() *sql.DB
	Start(lc *lifecycle.Coordinator) error
}

type database struct {
	conn        *sql.DB
	logger      *slog.Logger
	connTimeout time.Duration
}

// New opens the pool without connecting. Start verifies connectivity.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	db, err := sql.Open("pgx", cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return &database{
		conn:        db,
		logger:      logger.With("system", "database"),
		connTimeout: cfg.ConnTimeoutDuration(),
	}, nil
}

func (d *database) Connection() *sql.DB {
	return d.conn
}

// Start pings the database as a startup hook and closes the pool on shutdown.
func (d *database) Start(lc *lifecycle.Coordinator) error {
	d.logger.Info("starting database connection")

	ctx, cancel := context.WithTimeout(lc.Context(), d.connTimeout)
	defer cancel()

	if err := d.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	lc.OnStartup(func() {
		d.logger.Info("database connection established")
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		d.logger.Info("closing database connection")

		if err := d.conn.Close(); err != nil {
			d.logger.Error("database close failed", "error", err)
			return
		}
		d.logger.Info("database connection closed")
	})

	return nil
}
