package logging

import (
	"os"
	"strconv"
)

// Env maps environment variable names for logging configuration.
type Env struct {
	Level     string
	Format    string
	AddSource string
}

// Config holds logging settings.
type Config struct {
	Level     Level  `toml:"level"`
	Format    Format `toml:"format"`
	AddSource bool   `toml:"add_source"`
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize(env *Env) error {
	if c.Level == "" {
		c.Level = LevelInfo
	}
	if c.Format == "" {
		c.Format = FormatText
	}
	if env != nil {
		c.loadEnv(env)
	}
	if err := c.Level.Validate(); err != nil {
		return err
	}
	return c.Format.Validate()
}

// Merge applies non-zero overlay values.
func (c *Config) Merge(overlay *Config) {
	if overlay.Level != "" {
		c.Level = overlay.Level
	}
	if overlay.Format != "" {
		c.Format = overlay.Format
	}
	if overlay.AddSource {
		c.AddSource = true
	}
}

func (c *Config) loadEnv(env *Env) {
	if v := getenv(env.Level); v != "" {
		c.Level = Level(v)
	}
	if v := getenv(env.Format); v != "" {
		c.Format = Format(v)
	}
	if v := getenv(env.AddSource); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.AddSource = b
		}
	}
}

func getenv(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}
