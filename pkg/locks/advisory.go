package locks

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"log/slog"
	"time"
)

const unlockTimeout = 5 * time.Second

// Advisory is a Locker backed by Postgres session advisory locks, so several
// service instances sharing one database serialize on the same keys.
// Each held key pins one pooled connection until it is unlocked.
type Advisory struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewAdvisory creates an advisory Locker on db.
func NewAdvisory(db *sql.DB, logger *slog.Logger) *Advisory {
	return &Advisory{db: db, logger: logger.With("system", "locks")}
}

func (a *Advisory) Lock(ctx context.Context, key string) (Unlock, error) {
	conn, err := a.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire lock connection: %w", err)
	}

	if _, err := conn.ExecContext(ctx, "SELECT pg_advisory_lock(hashtextextended($1, 0))", key); err != nil {
		conn.Close()
		return nil, fmt.Errorf("advisory lock %s: %w", key, err)
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), unlockTimeout)
		defer cancel()

		_, err := conn.ExecContext(ctx, "SELECT pg_advisory_unlock(hashtextextended($1, 0))", key)
		if err != nil {
			a.logger.Error("advisory unlock failed; discarding connection", "key", key, "error", err)
			// A session still holding the lock must not return to the pool.
			conn.Raw(func(any) error { return driver.ErrBadConn })
		}
		conn.Close()
	}, nil
}
