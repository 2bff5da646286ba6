package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/JaimeStill/agent-console/internal/identity"
	"github.com/JaimeStill/agent-console/pkg/middleware"
	"github.com/JaimeStill/agent-console/pkg/openapi"
	"github.com/JaimeStill/agent-console/pkg/pagination"
	"github.com/docker/go-units"
)

const (
	// EnvAPIBasePath overrides the API route prefix.
	EnvAPIBasePath = "API_BASE_PATH"

	// EnvAPIOwnerHeader overrides the request header carrying the caller identity.
	EnvAPIOwnerHeader = "API_OWNER_HEADER"

	// EnvAPIMaxBodySize overrides the request body limit (for example "1MB").
	EnvAPIMaxBodySize = "API_MAX_BODY_SIZE"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "API_CORS_ENABLED",
	Origins:          "API_CORS_ORIGINS",
	AllowedMethods:   "API_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "API_CORS_ALLOWED_HEADERS",
	AllowCredentials: "API_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "API_CORS_MAX_AGE",
}

var openAPIEnv = &openapi.ConfigEnv{
	Title:       "API_OPENAPI_TITLE",
	Description: "API_OPENAPI_DESCRIPTION",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "API_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "API_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig contains settings for the REST surface.
type APIConfig struct {
	BasePath    string                `toml:"base_path"`
	OwnerHeader string                `toml:"owner_header"`
	MaxBodySize string                `toml:"max_body_size"`
	CORS        middleware.CORSConfig `toml:"cors"`
	Pagination  pagination.Config     `toml:"pagination"`
	OpenAPI     openapi.Config        `toml:"openapi"`

	maxBodyBytes int64
}

// MaxBodyBytes returns the parsed request body limit.
func (c *APIConfig) MaxBodyBytes() int64 {
	return c.maxBodyBytes
}

// Finalize applies defaults, loads environment overrides, and validates the API configuration.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openAPIEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.OwnerHeader != "" {
		c.OwnerHeader = overlay.OwnerHeader
	}
	if overlay.MaxBodySize != "" {
		c.MaxBodySize = overlay.MaxBodySize
	}
	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.OwnerHeader == "" {
		c.OwnerHeader = identity.DefaultHeader
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "1MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAPIOwnerHeader); v != "" {
		c.OwnerHeader = v
	}
	if v := os.Getenv(EnvAPIMaxBodySize); v != "" {
		c.MaxBodySize = v
	}
}

func (c *APIConfig) validate() error {
	if !strings.HasPrefix(c.BasePath, "/") || strings.HasSuffix(c.BasePath, "/") {
		return fmt.Errorf("base_path must start and not end with /: %q", c.BasePath)
	}

	size, err := units.FromHumanSize(c.MaxBodySize)
	if err != nil {
		return fmt.Errorf("invalid max_body_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_body_size must be positive")
	}
	c.maxBodyBytes = size

	return nil
}
