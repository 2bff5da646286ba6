package openapi

// NewComponents returns components pre-populated with the shared error responses
// and the PageRequest schema.
func NewComponents() *Components {
	errorBody := map[string]*MediaType{
		"application/json": {Schema: SchemaRef("Error")},
	}

	return &Components{
		Schemas: map[string]*Schema{
			"Error": {
				Type:     "object",
				Required: []string{"error"},
				Properties: map[string]*Schema{
					"error": {Type: "string"},
				},
			},
			"PageRequest": {
				Type: "object",
				Properties: map[string]*Schema{
					"page":      {Type: "integer"},
					"page_size": {Type: "integer"},
					"search":    {Type: "string"},
					"sort": {Type: "array", Items: &Schema{
						Type: "object",
						Properties: map[string]*Schema{
							"field":      {Type: "string"},
							"descending": {Type: "boolean"},
						},
					}},
				},
			},
		},
		Responses: map[string]*Response{
			"BadRequest":     {Description: "Invalid request", Content: errorBody},
			"Unauthorized":   {Description: "Missing owner identity", Content: errorBody},
			"NotFound":       {Description: "Resource not found or not owned by caller", Content: errorBody},
			"Conflict":       {Description: "Operation conflicts with current state", Content: errorBody},
			"BadGateway":     {Description: "Completion provider failed; the request may be retried", Content: errorBody},
			"GatewayTimeout": {Description: "Completion provider timed out; the request may be retried", Content: errorBody},
		},
	}
}

// AddSchemas merges schemas into the components, replacing existing names.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	for name, schema := range schemas {
		c.Schemas[name] = schema
	}
}

// AddResponses merges responses into the components, replacing existing names.
func (c *Components) AddResponses(responses map[string]*Response) {
	for name, resp := range responses {
		c.Responses[name] = resp
	}
}
