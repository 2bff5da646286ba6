package agents

import "github.com/JaimeStill/agent-console/pkg/openapi"

type spec struct {
	Create *openapi.Operation
	List   *openapi.Operation
	Find   *openapi.Operation
	Update *openapi.Operation
	Delete *openapi.Operation
	Status *openapi.Operation
	Start  *openapi.Operation
	Stop   *openapi.Operation
	Reset  *openapi.Operation
}

var idParam = openapi.PathParam("id", "Agent UUID")

func transitionOp(summary, description string) *openapi.Operation {
	return &openapi.Operation{
		Summary:     summary,
		Description: description,
		Parameters:  []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Agent after the transition", "Agent"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
			502: openapi.ResponseRef("BadGateway"),
		},
	}
}

// Spec contains OpenAPI operation definitions for all agent endpoints.
var Spec = spec{
	Create: &openapi.Operation{
		Summary:     "Create agent",
		Description: "Validates the typed configuration and stores a new agent in the stopped state",
		RequestBody: openapi.RequestBodyJSON("CreateAgentCommand", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Agent created", "Agent"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
	List: &openapi.Operation{
		Summary:     "List agents",
		Description: "Returns a page of the caller's active agents",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number (1-indexed)", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Matches name or description", false),
			openapi.QueryParam("sort", "string", "Comma-separated sort fields. Prefix with - for descending", false),
			openapi.QueryParam("name", "string", "Filter by agent name (contains)", false),
			openapi.QueryParam("status", "string", "Filter by status", false),
			openapi.QueryParam("type", "string", "Filter by agent type", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Paginated list of agents", "AgentPageResult"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
		},
	},
	Find: &openapi.Operation{
		Summary:    "Get agent by ID",
		Parameters: []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Agent", "Agent"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Update: &openapi.Operation{
		Summary:     "Update agent",
		Description: "Replaces name, description and configuration. Status and type are not writable; an omitted config keeps the current one",
		Parameters:  []*openapi.Parameter{idParam},
		RequestBody: openapi.RequestBodyJSON("UpdateAgentCommand", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Agent updated", "Agent"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
	Delete: &openapi.Operation{
		Summary:     "Delete agent",
		Description: "Soft deletes a stopped or errored agent. Conversations that reference it keep the reference",
		Parameters:  []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			204: {Description: "Agent deleted"},
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
	Status: &openapi.Operation{
		Summary:    "Get agent status",
		Parameters: []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Current status", "AgentStatus"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Start: transitionOp("Start agent", "stopped -> starting -> running, or error when the runtime cannot be acquired"),
	Stop:  transitionOp("Stop agent", "running -> stopping -> stopped, or error when the runtime cannot be released"),
	Reset: transitionOp("Reset agent", "error -> stopped"),
}

// Schemas returns the component schemas referenced by agent operations.
func (spec) Schemas() map[string]*openapi.Schema {
	statuses := openapi.Enum("Lifecycle status",
		string(StatusStopped), string(StatusStarting), string(StatusRunning), string(StatusStopping), string(StatusError))
	types := openapi.Enum("Agent type", string(TypeChat), string(TypeCodeAct), string(TypeTool))

	return map[string]*openapi.Schema{
		"Agent": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          {Type: "string", Format: "uuid"},
				"owner_id":    {Type: "string"},
				"name":        {Type: "string"},
				"type":        types,
				"description": {Type: "string", Nullable: true},
				"config":      openapi.SchemaRef("AgentConfig"),
				"status":      statuses,
				"is_active":   {Type: "boolean"},
				"created_at":  {Type: "string", Format: "date-time"},
				"updated_at":  {Type: "string", Format: "date-time"},
			},
		},
		"AgentConfig": {
			Type:        "object",
			Description: "Recognized options are validated; unrecognized keys are kept as-is. Codeact options are rejected on other types",
			Properties: map[string]*openapi.Schema{
				"model":                 {Type: "string"},
				"temperature":           {Type: "number", Minimum: ptr(0.0), Maximum: ptr(2.0), Example: DefaultTemperature},
				"max_tokens":            {Type: "integer", Minimum: ptr(1.0), Example: DefaultMaxTokens},
				"timeout":               {Type: "number", Description: "Seconds", Maximum: ptr(MaxTimeout), Example: DefaultTimeout},
				"system_prompt":         {Type: "string"},
				"enable_code_execution": {Type: "boolean"},
				"code_language":         openapi.Enum("Codeact language", codeLanguages...),
				"max_code_lines":        {Type: "integer", Minimum: ptr(1.0)},
				"sandbox_timeout":       {Type: "number", Description: "Seconds", Maximum: ptr(MaxTimeout)},
				"enable_auto_retry":     {Type: "boolean"},
			},
		},
		"CreateAgentCommand": {
			Type:     "object",
			Required: []string{"name"},
			Properties: map[string]*openapi.Schema{
				"name":        {Type: "string", Example: "demo"},
				"type":        types,
				"description": {Type: "string"},
				"config":      openapi.SchemaRef("AgentConfig"),
			},
		},
		"UpdateAgentCommand": {
			Type:     "object",
			Required: []string{"name"},
			Properties: map[string]*openapi.Schema{
				"name":        {Type: "string"},
				"description": {Type: "string"},
				"config":      openapi.SchemaRef("AgentConfig"),
			},
		},
		"AgentStatus": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":         {Type: "string", Format: "uuid"},
				"status":     statuses,
				"updated_at": {Type: "string", Format: "date-time"},
			},
		},
		"AgentPageResult": openapi.PageResult("Agent"),
	}
}

func ptr(v float64) *float64 {
	return &v
}
