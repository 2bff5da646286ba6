package openapi_test

import (
	"encoding/json"
	"testing"

	"github.com/JaimeStill/agent-console/pkg/openapi"
)

func TestNewComponents(t *testing.T) {
	c := openapi.NewComponents()

	for _, name := range []string{"Error", "PageRequest"} {
		if _, ok := c.Schemas[name]; !ok {
			t.Errorf("missing schema %q", name)
		}
	}
	for _, name := range []string{"BadRequest", "Unauthorized", "NotFound", "Conflict", "BadGateway", "GatewayTimeout"} {
		if _, ok := c.Responses[name]; !ok {
			t.Errorf("missing response %q", name)
		}
	}

	c.AddSchemas(map[string]*openapi.Schema{"Agent": {Type: "object"}})
	if _, ok := c.Schemas["Agent"]; !ok {
		t.Error("AddSchemas did not add Agent")
	}
}

func TestHelpers(t *testing.T) {
	if got := openapi.SchemaRef("Agent").Ref; got != "#/components/schemas/Agent" {
		t.Errorf("SchemaRef = %q", got)
	}
	if got := openapi.ResponseRef("NotFound").Ref; got != "#/components/responses/NotFound" {
		t.Errorf("ResponseRef = %q", got)
	}

	p := openapi.PathParam("id", "Agent UUID")
	if !p.Required || p.In != "path" || p.Schema.Format != "uuid" {
		t.Errorf("PathParam = %+v", p)
	}

	e := openapi.Enum("status", "stopped", "running")
	if len(e.Enum) != 2 {
		t.Errorf("Enum values = %v", e.Enum)
	}

	page := openapi.PageResult("Agent")
	if page.Properties["data"].Items.Ref != "#/components/schemas/Agent" {
		t.Errorf("PageResult data items = %+v", page.Properties["data"].Items)
	}
}

func TestMarshalJSON(t *testing.T) {
	spec := &openapi.Spec{
		OpenAPI: "3.1.0",
		Info:    &openapi.Info{Title: "Agent Console API", Version: "0.1.0"},
		Paths: map[string]*openapi.PathItem{
			"/api/agents": {Get: &openapi.Operation{
				Summary:   "List agents",
				Responses: map[int]*openapi.Response{200: {Description: "ok"}},
			}},
		},
	}

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc["openapi"] != "3.1.0" {
		t.Errorf("openapi = %v, want 3.1.0", doc["openapi"])
	}
	if _, ok := doc["servers"]; ok {
		t.Error("empty servers rendered")
	}
}
