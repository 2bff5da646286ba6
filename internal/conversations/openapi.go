package conversations

import "github.com/JaimeStill/agent-console/pkg/openapi"

type spec struct {
	Create        *openapi.Operation
	List          *openapi.Operation
	Find          *openapi.Operation
	Update        *openapi.Operation
	Delete        *openapi.Operation
	Complete      *openapi.Operation
	Cancel        *openapi.Operation
	BindAgent     *openapi.Operation
	UnbindAgent   *openapi.Operation
	ListMessages  *openapi.Operation
	SendMessage   *openapi.Operation
	UpdateMessage *openapi.Operation
}

var idParam = openapi.PathParam("id", "Conversation UUID")

func closeOp(summary, description string) *openapi.Operation {
	return &openapi.Operation{
		Summary:     summary,
		Description: description,
		Parameters:  []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Closed conversation", "Conversation"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
		},
	}
}

// Spec contains OpenAPI operation definitions for all conversation endpoints.
var Spec = spec{
	Create: &openapi.Operation{
		Summary:     "Create conversation",
		Description: "Creates a conversation, optionally titled and bound to one of the caller's agents",
		RequestBody: openapi.RequestBodyJSON("CreateConversationCommand", false),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Conversation created", "Conversation"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	List: &openapi.Operation{
		Summary:     "List conversations",
		Description: "Returns a page of the caller's conversations, most recently active first",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number (1-indexed)", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Matches title", false),
			openapi.QueryParam("sort", "string", "Comma-separated sort fields. Prefix with - for descending", false),
			openapi.QueryParam("agent_id", "string", "Filter by bound agent", false),
			openapi.QueryParam("title", "string", "Filter by title (contains)", false),
			openapi.QueryParam("status", "string", "Filter by status", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Paginated list of conversations", "ConversationPageResult"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
		},
	},
	Find: &openapi.Operation{
		Summary:    "Get conversation by ID",
		Parameters: []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Conversation", "Conversation"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Update: &openapi.Operation{
		Summary:     "Update conversation",
		Description: "Replaces the title and metadata. A null or blank title clears it; omitted metadata clears it",
		Parameters:  []*openapi.Parameter{idParam},
		RequestBody: openapi.RequestBodyJSON("UpdateConversationCommand", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Conversation updated", "Conversation"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Delete: &openapi.Operation{
		Summary:     "Delete conversation",
		Description: "Removes the conversation and all of its messages",
		Parameters:  []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			204: {Description: "Conversation deleted"},
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Complete: closeOp("Complete conversation", "Marks an active conversation completed. Completed conversations reject new messages"),
	Cancel:   closeOp("Cancel conversation", "Marks an active conversation canceled. Canceled conversations reject new messages"),
	BindAgent: &openapi.Operation{
		Summary:     "Bind agent",
		Description: "Selects the agent whose options drive replies. The agent must be active and owned by the caller",
		Parameters:  []*openapi.Parameter{idParam},
		RequestBody: openapi.RequestBodyJSON("BindAgentCommand", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Conversation with the agent bound", "Conversation"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	UnbindAgent: &openapi.Operation{
		Summary:    "Unbind agent",
		Parameters: []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Conversation without an agent", "Conversation"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	ListMessages: &openapi.Operation{
		Summary:     "List messages",
		Description: "Returns every message of the conversation ordered by created_at, then seq",
		Parameters:  []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Ordered messages", "MessageList"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	SendMessage: &openapi.Operation{
		Summary: "Send message",
		Description: "Stores the user message, generates a reply from the full history and stores it. " +
			"On provider failure the user message remains and no reply is stored. Requires an active conversation",
		Parameters:  []*openapi.Parameter{idParam},
		RequestBody: openapi.RequestBodyJSON("SendMessageCommand", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Assistant reply", "Message"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
			502: openapi.ResponseRef("BadGateway"),
			504: openapi.ResponseRef("GatewayTimeout"),
		},
	},
	UpdateMessage: &openapi.Operation{
		Summary:     "Update message",
		Description: "Messages are immutable; an existing message always yields 409",
		Parameters: []*openapi.Parameter{
			idParam,
			openapi.PathParam("messageId", "Message UUID"),
		},
		Responses: map[int]*openapi.Response{
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
}

var metadataSchema = &openapi.Schema{
	Type:        "object",
	Nullable:    true,
	Description: "Client-defined JSON object stored as-is",
}

// Schemas returns the component schemas referenced by conversation operations.
func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Conversation": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"owner_id":     {Type: "string"},
				"agent_id":     {Type: "string", Format: "uuid", Nullable: true},
				"title":        {Type: "string", Nullable: true},
				"status":       openapi.Enum("Conversation status", string(StatusActive), string(StatusCompleted), string(StatusCanceled)),
				"metadata":     metadataSchema,
				"created_at":   {Type: "string", Format: "date-time"},
				"updated_at":   {Type: "string", Format: "date-time"},
				"completed_at": {Type: "string", Format: "date-time", Nullable: true},
			},
		},
		"Message": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":              {Type: "string", Format: "uuid"},
				"conversation_id": {Type: "string", Format: "uuid"},
				"seq":             {Type: "integer", Description: "Insertion order; breaks created_at ties"},
				"role":            openapi.Enum("Author", string(RoleUser), string(RoleAssistant)),
				"content":         {Type: "string"},
				"metadata":        metadataSchema,
				"created_at":      {Type: "string", Format: "date-time"},
			},
		},
		"MessageList": {
			Type:  "array",
			Items: openapi.SchemaRef("Message"),
		},
		"CreateConversationCommand": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"title":    {Type: "string"},
				"agent_id": {Type: "string", Format: "uuid"},
				"metadata": metadataSchema,
			},
		},
		"UpdateConversationCommand": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"title":    {Type: "string", Nullable: true},
				"metadata": metadataSchema,
			},
		},
		"BindAgentCommand": {
			Type:     "object",
			Required: []string{"agent_id"},
			Properties: map[string]*openapi.Schema{
				"agent_id": {Type: "string", Format: "uuid"},
			},
		},
		"SendMessageCommand": {
			Type:     "object",
			Required: []string{"content"},
			Properties: map[string]*openapi.Schema{
				"content":  {Type: "string", Example: "Hello"},
				"metadata": metadataSchema,
			},
		},
		"ConversationPageResult": openapi.PageResult("Conversation"),
	}
}
