package completion

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Env maps environment variable names for completion configuration.
type Env struct {
	Enabled string
	BaseURL string
	APIKey  string
	Model   string
	Timeout string
}

// Config selects and configures the completion provider.
type Config struct {
	Enabled bool   `toml:"enabled"`
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
	Timeout string `toml:"timeout"`
}

// TimeoutDuration returns the default per-call timeout.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize(env *Env) error {
	if c.Model == "" {
		c.Model = "gpt-4o-mini"
	}
	if c.Timeout == "" {
		c.Timeout = "60s"
	}
	if env != nil {
		c.loadEnv(env)
	}

	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.Enabled && c.BaseURL == "" && c.APIKey == "" {
		return fmt.Errorf("base_url or api_key required when enabled")
	}
	return nil
}

// Merge applies non-zero overlay values. An overlay can enable the provider
// but not disable it; use COMPLETION_ENABLED for that.
func (c *Config) Merge(overlay *Config) {
	if overlay.Enabled {
		c.Enabled = true
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *Config) loadEnv(env *Env) {
	if v := getenv(env.Enabled); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Enabled = b
		}
	}
	if v := getenv(env.BaseURL); v != "" {
		c.BaseURL = v
	}
	if v := getenv(env.APIKey); v != "" {
		c.APIKey = v
	}
	if v := getenv(env.Model); v != "" {
		c.Model = v
	}
	if v := getenv(env.Timeout); v != "" {
		c.Timeout = v
	}
}

func getenv(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}
