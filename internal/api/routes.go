package api

import (
	"net/http"

	"github.com/JaimeStill/agent-console/internal/agents"
	"github.com/JaimeStill/agent-console/internal/config"
	"github.com/JaimeStill/agent-console/internal/conversations"
	"github.com/JaimeStill/agent-console/pkg/lifecycle"
	"github.com/JaimeStill/agent-console/pkg/openapi"
	"github.com/JaimeStill/agent-console/pkg/routes"
)

// registerDomainRoutes mounts every domain group under the configured base path.
func registerDomainRoutes(r routes.System, runtime *Runtime, domain *Domain, cfg *config.Config) {
	agentsHandler := agents.NewHandler(domain.Agents, runtime.Logger, runtime.Pagination, runtime.MaxBody)
	conversationsHandler := conversations.NewHandler(domain.Conversations, runtime.Logger, runtime.Pagination, runtime.MaxBody)

	r.RegisterGroup(routes.Group{
		Prefix: cfg.API.BasePath,
		Children: []routes.Group{
			agentsHandler.Routes(),
			conversationsHandler.Routes(),
		},
	})
}

// registerInfraRoutes adds the unauthenticated health and metrics endpoints.
func registerInfraRoutes(r routes.System, runtime *Runtime) {
	r.RegisterRoute(routes.Route{
		Method:  "GET",
		Pattern: "/healthz",
		Handler: handleHealthCheck,
		OpenAPI: &openapi.Operation{
			Summary: "Health check endpoint",
			Tags:    []string{"Infrastructure"},
			Responses: map[int]*openapi.Response{
				200: {Description: "Service is healthy"},
			},
		},
	})

	r.RegisterRoute(routes.Route{
		Method:  "GET",
		Pattern: "/readyz",
		Handler: func(w http.ResponseWriter, r *http.Request) {
			handleReadinessCheck(w, runtime.Lifecycle)
		},
		OpenAPI: &openapi.Operation{
			Summary: "Readiness check endpoint",
			Tags:    []string{"Infrastructure"},
			Responses: map[int]*openapi.Response{
				200: {Description: "Service is ready"},
				503: {Description: "Service not ready"},
			},
		},
	})

	r.RegisterRoute(routes.Route{
		Method:  "GET",
		Pattern: "/metrics",
		Handler: runtime.Metrics.Handler().ServeHTTP,
	})
}

// document builds the OpenAPI document for the domain and infrastructure routes.
func document(domainRoutes, infraRoutes routes.System, cfg *config.Config) *openapi.Spec {
	components := openapi.NewComponents()
	components.AddSchemas(agents.Spec.Schemas())
	components.AddSchemas(conversations.Spec.Schemas())

	info := &openapi.Info{
		Title:       cfg.API.OpenAPI.Title,
		Version:     cfg.Version,
		Description: cfg.API.OpenAPI.Description,
	}

	spec := routes.Document(domainRoutes, info, cfg.Domain, components)
	owner := openapi.HeaderParam(cfg.API.OwnerHeader, "Identifier of the calling owner", true)
	for _, item := range spec.Paths {
		for _, op := range []**openapi.Operation{&item.Get, &item.Post, &item.Put, &item.Delete} {
			if *op == nil {
				continue
			}
			scoped := **op
			scoped.Parameters = append([]*openapi.Parameter{owner}, scoped.Parameters...)
			*op = &scoped
		}
	}

	for path, item := range routes.Document(infraRoutes, info, "", nil).Paths {
		spec.Paths[path] = item
	}
	return spec
}

func handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func handleReadinessCheck(w http.ResponseWriter, ready lifecycle.ReadinessChecker) {
	if !ready.Ready() {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("NOT READY"))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("READY"))
}

func serveOpenAPISpec(spec []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(spec)
	}
}
