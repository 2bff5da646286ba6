// Package infrastructure provides core service initialization for application startup.
// It assembles the shared dependencies (logging, database, metrics, completion
// provider, conversation locks) that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"

	"github.com/JaimeStill/agent-console/internal/completion"
	"github.com/JaimeStill/agent-console/internal/config"
	"github.com/JaimeStill/agent-console/internal/migrations"
	"github.com/JaimeStill/agent-console/pkg/database"
	"github.com/JaimeStill/agent-console/pkg/lifecycle"
	"github.com/JaimeStill/agent-console/pkg/locks"
	"github.com/JaimeStill/agent-console/pkg/logging"
	"github.com/JaimeStill/agent-console/pkg/metrics"
)

// MetricsNamespace prefixes every exported metric.
const MetricsNamespace = "agent_console"

// Infrastructure holds the core systems required by all domain modules.
// Database is nil when the memory driver is configured.
type Infrastructure struct {
	Lifecycle  *lifecycle.Coordinator
	Logger     *slog.Logger
	Database   database.System
	Metrics    *metrics.Metrics
	Completion completion.Provider
	Locker     locks.Locker

	cfg *config.Config
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	logger := logging.New(&cfg.Logging)
	return NewWithLogger(cfg, logger)
}

// NewWithLogger is New with a caller-supplied logger.
func NewWithLogger(cfg *config.Config, logger *slog.Logger) (*Infrastructure, error) {
	m := metrics.New(MetricsNamespace)

	infra := &Infrastructure{
		Lifecycle:  lifecycle.New(),
		Logger:     logger,
		Metrics:    m,
		Completion: completion.New(&cfg.Completion, m, logger),
		Locker:     locks.NewLocal(),
		cfg:        cfg,
	}

	if cfg.Database.Memory() {
		logger.Warn("memory database driver selected; data is lost on exit", "system", "infrastructure")
		return infra, nil
	}

	db, err := database.New(&cfg.Database.Config, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	infra.Database = db

	if cfg.Database.Lock == config.LockAdvisory {
		infra.Locker = locks.NewAdvisory(db.Connection(), logger)
	}

	return infra, nil
}

// Start initializes all infrastructure systems and registers them with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if i.Database == nil {
		return nil
	}

	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}

	if i.cfg.Database.AutoMigrate {
		if err := i.migrate(); err != nil {
			return err
		}
	}
	return nil
}

func (i *Infrastructure) migrate() error {
	m, err := database.NewMigrator(&i.cfg.Database.Config, migrations.FS, migrations.Dir, i.Logger)
	if err != nil {
		return fmt.Errorf("migrator init failed: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}
	return nil
}
