package routes

import (
	"net/http"

	"github.com/JaimeStill/agent-console/pkg/openapi"
)

// Document builds an OpenAPI document from every registered route that carries an operation.
// Group tags are applied to operations that declare none.
func Document(sys System, info *openapi.Info, serverURL string, components *openapi.Components) *openapi.Spec {
	spec := &openapi.Spec{
		OpenAPI:    "3.1.0",
		Info:       info,
		Components: components,
		Paths:      make(map[string]*openapi.PathItem),
	}
	if serverURL != "" {
		spec.Servers = []*openapi.Server{{URL: serverURL}}
	}

	for _, route := range sys.Routes() {
		addOperation(spec, route.Pattern, route.Method, route.OpenAPI)
	}
	for _, group := range sys.Groups() {
		addGroup(spec, "", nil, group)
	}

	return spec
}

func addGroup(spec *openapi.Spec, parent string, tags []string, group Group) {
	prefix := parent + group.Prefix
	if len(group.Tags) > 0 {
		tags = group.Tags
	}

	for _, route := range group.Routes {
		op := route.OpenAPI
		if op != nil && len(op.Tags) == 0 {
			op.Tags = tags
		}
		addOperation(spec, prefix+route.Pattern, route.Method, op)
	}
	for _, child := range group.Children {
		addGroup(spec, prefix, tags, child)
	}
}

func addOperation(spec *openapi.Spec, path, method string, op *openapi.Operation) {
	if op == nil {
		return
	}

	item, ok := spec.Paths[path]
	if !ok {
		item = &openapi.PathItem{}
		spec.Paths[path] = item
	}

	switch method {
	case http.MethodGet:
		item.Get = op
	case http.MethodPost:
		item.Post = op
	case http.MethodPut:
		item.Put = op
	case http.MethodDelete:
		item.Delete = op
	}
}
