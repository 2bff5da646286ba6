package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/JaimeStill/agent-console/pkg/database"
)

const (
	// EnvDatabaseLock overrides the conversation lock implementation.
	EnvDatabaseLock = "DATABASE_LOCK"

	// EnvDatabaseAutoMigrate overrides whether the server applies migrations at startup.
	EnvDatabaseAutoMigrate = "DATABASE_AUTO_MIGRATE"
)

// Conversation lock implementations.
const (
	LockLocal    = "local"
	LockAdvisory = "advisory"
)

var databaseEnv = &database.Env{
	Driver:          "DATABASE_DRIVER",
	Host:            "DATABASE_HOST",
	Port:            "DATABASE_PORT",
	Name:            "DATABASE_NAME",
	User:            "DATABASE_USER",
	Password:        "DATABASE_PASSWORD",
	MaxOpenConns:    "DATABASE_MAX_OPEN_CONNS",
	MaxIdleConns:    "DATABASE_MAX_IDLE_CONNS",
	ConnMaxLifetime: "DATABASE_CONN_MAX_LIFETIME",
	ConnTimeout:     "DATABASE_CONN_TIMEOUT",
}

// DatabaseConfig extends the connection settings with the conversation
// lock selection and startup migration flag.
type DatabaseConfig struct {
	database.Config
	Lock        string `toml:"lock"`
	AutoMigrate bool   `toml:"auto_migrate"`
}

// Finalize applies defaults, loads environment overrides, and validates the database configuration.
func (c *DatabaseConfig) Finalize() error {
	if err := c.Config.Finalize(databaseEnv); err != nil {
		return err
	}

	if c.Lock == "" {
		c.Lock = LockLocal
	}
	if v := os.Getenv(EnvDatabaseLock); v != "" {
		c.Lock = v
	}
	if v := os.Getenv(EnvDatabaseAutoMigrate); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.AutoMigrate = b
		}
	}

	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *DatabaseConfig) Merge(overlay *DatabaseConfig) {
	c.Config.Merge(&overlay.Config)
	if overlay.Lock != "" {
		c.Lock = overlay.Lock
	}
	if overlay.AutoMigrate {
		c.AutoMigrate = true
	}
}

func (c *DatabaseConfig) validate() error {
	switch c.Lock {
	case LockLocal:
	case LockAdvisory:
		if c.Memory() {
			return fmt.Errorf("lock %q requires the %s driver", LockAdvisory, database.DriverPostgres)
		}
	default:
		return fmt.Errorf("unknown lock %q", c.Lock)
	}
	return nil
}
