// Package config provides application configuration management with support for
// TOML files, environment variable overrides, and configuration overlays.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/JaimeStill/agent-console/internal/completion"
	"github.com/JaimeStill/agent-console/pkg/logging"
	"github.com/pelletier/go-toml/v2"
)

const (
	// BaseConfigFile is the primary configuration file name.
	BaseConfigFile = "config.toml"

	// OverlayConfigPattern is the file name pattern for environment-specific overlays.
	OverlayConfigPattern = "config.%s.toml"

	// EnvServiceEnv specifies the environment name for configuration overlays.
	EnvServiceEnv = "SERVICE_ENV"

	// EnvServiceShutdownTimeout overrides the service shutdown timeout.
	EnvServiceShutdownTimeout = "SERVICE_SHUTDOWN_TIMEOUT"

	// EnvServiceVersion overrides the reported service version.
	EnvServiceVersion = "SERVICE_VERSION"

	// EnvServiceDomain overrides the public URL advertised in the OpenAPI document.
	EnvServiceDomain = "SERVICE_DOMAIN"
)

var loggingEnv = &logging.Env{
	Level:     "LOGGING_LEVEL",
	Format:    "LOGGING_FORMAT",
	AddSource: "LOGGING_ADD_SOURCE",
}

var completionEnv = &completion.Env{
	Enabled: "COMPLETION_ENABLED",
	BaseURL: "COMPLETION_BASE_URL",
	APIKey:  "COMPLETION_API_KEY",
	Model:   "COMPLETION_MODEL",
	Timeout: "COMPLETION_TIMEOUT",
}

// Config represents the root service configuration.
type Config struct {
	Server          ServerConfig      `toml:"server"`
	Database        DatabaseConfig    `toml:"database"`
	Logging         logging.Config    `toml:"logging"`
	API             APIConfig         `toml:"api"`
	Completion      completion.Config `toml:"completion"`
	ShutdownTimeout string            `toml:"shutdown_timeout"`
	Version         string            `toml:"version"`
	Domain          string            `toml:"domain"`
}

// ShutdownTimeoutDuration parses and returns the shutdown timeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Env returns the overlay environment name, or "local" when none is set.
func (c *Config) Env() string {
	if env := os.Getenv(EnvServiceEnv); env != "" {
		return env
	}
	return "local"
}

// Load reads the base configuration file from dir, applies any
// environment-specific overlay, and finalizes the result.
func Load(dir string) (*Config, error) {
	cfg, err := load(dir + "/" + BaseConfigFile)
	if err != nil {
		return nil, err
	}

	if path := overlayPath(dir); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}
	return cfg, nil
}

// Parse decodes a configuration document without touching the filesystem.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Logging.Finalize(loggingEnv); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Completion.Finalize(completionEnv); err != nil {
		return fmt.Errorf("completion: %w", err)
	}
	return nil
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	if overlay.Domain != "" {
		c.Domain = overlay.Domain
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Logging.Merge(&overlay.Logging)
	c.API.Merge(&overlay.API)
	c.Completion.Merge(&overlay.Completion)
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvServiceShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvServiceVersion); v != "" {
		c.Version = v
	}
	if v := os.Getenv(EnvServiceDomain); v != "" {
		c.Domain = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

func overlayPath(dir string) string {
	if env := os.Getenv(EnvServiceEnv); env != "" {
		path := dir + "/" + fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
