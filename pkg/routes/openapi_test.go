package routes_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/JaimeStill/agent-console/pkg/openapi"
	"github.com/JaimeStill/agent-console/pkg/routes"
)

func TestDocument(t *testing.T) {
	sys := routes.New(slog.New(slog.NewTextHandler(io.Discard, nil)))

	list := &openapi.Operation{Summary: "List"}
	start := &openapi.Operation{Summary: "Start", Tags: []string{"Lifecycle"}}

	sys.RegisterRoute(routes.Route{Method: "GET", Pattern: "/healthz", OpenAPI: &openapi.Operation{Summary: "Health"}})
	sys.RegisterRoute(routes.Route{Method: "GET", Pattern: "/api/openapi.json"})
	sys.RegisterGroup(routes.Group{
		Prefix: "/api/agents",
		Tags:   []string{"Agents"},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", OpenAPI: list},
			{Method: "POST", Pattern: "/{id}/start", OpenAPI: start},
		},
	})

	doc := routes.Document(sys, &openapi.Info{Title: "t", Version: "1"}, "http://localhost", openapi.NewComponents())

	if len(doc.Paths) != 3 {
		t.Fatalf("len(Paths) = %d, want 3", len(doc.Paths))
	}
	if doc.Paths["/api/agents"].Get != list {
		t.Error("list operation not registered at /api/agents")
	}
	if got := list.Tags; len(got) != 1 || got[0] != "Agents" {
		t.Errorf("list tags = %v, want group tag", got)
	}
	if got := start.Tags; got[0] != "Lifecycle" {
		t.Errorf("start tags = %v, want explicit tag kept", got)
	}
	if doc.Servers[0].URL != "http://localhost" {
		t.Errorf("server URL = %q", doc.Servers[0].URL)
	}
}
