package openapi

import "os"

// ConfigEnv maps environment variable names for document metadata.
type ConfigEnv struct {
	Title       string
	Description string
}

// Config holds document metadata.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
}

// Finalize applies defaults and environment overrides.
func (c *Config) Finalize(env *ConfigEnv) error {
	if c.Title == "" {
		c.Title = "Agent Console API"
	}
	if c.Description == "" {
		c.Description = "Agent records, conversations and message history with lifecycle enforcement."
	}
	if env != nil {
		if v := lookup(env.Title); v != "" {
			c.Title = v
		}
		if v := lookup(env.Description); v != "" {
			c.Description = v
		}
	}
	return nil
}

// Merge applies non-empty overlay values.
func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
}

func lookup(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}
