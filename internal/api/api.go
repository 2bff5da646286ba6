// Package api assembles the HTTP surface: domain systems, their routes under
// the configured base path, health checks, metrics and the OpenAPI document.
package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/agent-console/internal/config"
	"github.com/JaimeStill/agent-console/internal/identity"
	"github.com/JaimeStill/agent-console/internal/infrastructure"
	"github.com/JaimeStill/agent-console/pkg/middleware"
	"github.com/JaimeStill/agent-console/pkg/openapi"
	"github.com/JaimeStill/agent-console/pkg/routes"
)

// NewHandler builds the root handler. Domain routes require the owner header;
// health checks, metrics and the OpenAPI document do not.
func NewHandler(cfg *config.Config, infra *infrastructure.Infrastructure) (http.Handler, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime, cfg)

	domainRoutes := routes.New(runtime.Logger)
	registerDomainRoutes(domainRoutes, runtime, domain, cfg)

	infraRoutes := routes.New(runtime.Logger)
	registerInfraRoutes(infraRoutes, runtime)

	specBytes, err := openapi.MarshalJSON(document(domainRoutes, infraRoutes, cfg))
	if err != nil {
		return nil, fmt.Errorf("marshal openapi: %w", err)
	}

	owned := middleware.New()
	owned.Use(identity.Middleware(cfg.API.OwnerHeader, runtime.Logger))
	owned.Use(runtime.Metrics.Middleware())

	mux := http.NewServeMux()
	mux.Handle(cfg.API.BasePath+"/", owned.Apply(domainRoutes.Build()))
	mux.Handle("GET "+cfg.API.BasePath+"/openapi.json", serveOpenAPISpec(specBytes))
	mux.Handle("/", runtime.Metrics.Middleware()(infraRoutes.Build()))

	outer := middleware.New()
	outer.Use(middleware.Recover(runtime.Logger))
	outer.Use(middleware.Logger(runtime.Logger))
	outer.Use(middleware.CORS(&cfg.API.CORS))
	outer.Use(middleware.TrimSlash())

	return outer.Apply(mux), nil
}
