// Package routes registers HTTP routes and route groups on a ServeMux and keeps
// their OpenAPI metadata available for document generation.
package routes

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/agent-console/pkg/openapi"
)

// Route is a single method and pattern bound to a handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}

// Group is a set of routes sharing a prefix. Children inherit the prefix.
type Group struct {
	Prefix      string
	Tags        []string
	Description string
	Routes      []Route
	Children    []Group
}

// System collects routes and builds the resulting handler.
type System interface {
	RegisterGroup(group Group)
	RegisterRoute(route Route)
	Build() http.Handler
	Groups() []Group
	Routes() []Route
}

type registry struct {
	routes []Route
	groups []Group
	logger *slog.Logger
}

// New creates an empty route registry.
func New(logger *slog.Logger) System {
	return &registry{logger: logger.With("system", "routes")}
}

func (r *registry) RegisterRoute(route Route) {
	r.routes = append(r.routes, route)
}

func (r *registry) RegisterGroup(group Group) {
	r.groups = append(r.groups, group)
}

func (r *registry) Groups() []Group {
	return r.groups
}

func (r *registry) Routes() []Route {
	return r.routes
}

func (r *registry) Build() http.Handler {
	mux := http.NewServeMux()

	for _, route := range r.routes {
		r.handle(mux, route.Method, route.Pattern, route.Handler)
	}
	for _, group := range r.groups {
		r.mount(mux, "", group)
	}

	return mux
}

func (r *registry) mount(mux *http.ServeMux, parent string, group Group) {
	prefix := parent + group.Prefix
	for _, route := range group.Routes {
		r.handle(mux, route.Method, prefix+route.Pattern, route.Handler)
	}
	for _, child := range group.Children {
		r.mount(mux, prefix, child)
	}
}

func (r *registry) handle(mux *http.ServeMux, method, pattern string, h http.HandlerFunc) {
	if pattern == "" {
		pattern = "/"
	}
	mux.HandleFunc(method+" "+pattern, h)
	r.logger.Debug("route registered", "method", method, "pattern", pattern)
}
