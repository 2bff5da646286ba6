package conversations

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/agent-console/internal/identity"
	"github.com/JaimeStill/agent-console/pkg/handlers"
	"github.com/JaimeStill/agent-console/pkg/pagination"
	"github.com/JaimeStill/agent-console/pkg/routes"
	"github.com/google/uuid"
)

// retryAfter is the Retry-After hint sent with transient generation failures.
const retryAfter = "5"

// Handler provides HTTP handlers for conversations and their messages.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
	maxBody    int64
}

// NewHandler creates a new conversations HTTP handler.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config, maxBody int64) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "conversations"),
		pagination: pagination,
		maxBody:    maxBody,
	}
}

// Routes returns the route group configuration for conversation endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/conversations",
		Tags:        []string{"Conversations"},
		Description: "Conversations, agent binding and messages",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: Spec.List},
			{Method: "POST", Pattern: "", Handler: h.Create, OpenAPI: Spec.Create},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: Spec.Find},
			{Method: "PUT", Pattern: "/{id}", Handler: h.Update, OpenAPI: Spec.Update},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete, OpenAPI: Spec.Delete},
			{Method: "POST", Pattern: "/{id}/complete", Handler: h.Complete, OpenAPI: Spec.Complete},
			{Method: "POST", Pattern: "/{id}/cancel", Handler: h.Cancel, OpenAPI: Spec.Cancel},
			{Method: "PUT", Pattern: "/{id}/agent", Handler: h.BindAgent, OpenAPI: Spec.BindAgent},
			{Method: "DELETE", Pattern: "/{id}/agent", Handler: h.UnbindAgent, OpenAPI: Spec.UnbindAgent},
			{Method: "GET", Pattern: "/{id}/messages", Handler: h.ListMessages, OpenAPI: Spec.ListMessages},
			{Method: "POST", Pattern: "/{id}/messages", Handler: h.SendMessage, OpenAPI: Spec.SendMessage},
			{Method: "PUT", Pattern: "/{id}/messages/{messageId}", Handler: h.UpdateMessage, OpenAPI: Spec.UpdateMessage},
		},
	}
}

// List handles GET /conversations.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters, err := FiltersFromQuery(r.URL.Query())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.List(r.Context(), identity.Owner(r.Context()), page, filters)
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Create handles POST /conversations. An empty body creates an untitled,
// unbound conversation.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd CreateCommand
	if r.ContentLength != 0 {
		var err error
		if cmd, err = handlers.DecodeJSON[CreateCommand](w, r, h.maxBody); err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
			return
		}
	}

	result, err := h.sys.Create(r.Context(), identity.Owner(r.Context()), cmd)
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, result)
}

// Find handles GET /conversations/{id}.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.sys.Find(r.Context(), identity.Owner(r.Context()), id)
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Update handles PUT /conversations/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	cmd, err := handlers.DecodeJSON[UpdateCommand](w, r, h.maxBody)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.Update(r.Context(), identity.Owner(r.Context()), id, cmd)
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Delete handles DELETE /conversations/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.sys.Delete(r.Context(), identity.Owner(r.Context()), id); err != nil {
		h.fail(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Complete handles POST /conversations/{id}/complete.
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	h.close(w, r, h.sys.Complete)
}

// Cancel handles POST /conversations/{id}/cancel.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.close(w, r, h.sys.Cancel)
}

type closeFunc func(ctx context.Context, owner string, id uuid.UUID) (*Conversation, error)

func (h *Handler) close(w http.ResponseWriter, r *http.Request, fn closeFunc) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := fn(r.Context(), identity.Owner(r.Context()), id)
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// BindAgent handles PUT /conversations/{id}/agent.
func (h *Handler) BindAgent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	cmd, err := handlers.DecodeJSON[BindCommand](w, r, h.maxBody)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if cmd.AgentID == uuid.Nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, validationError("agent_id is required"))
		return
	}

	result, err := h.sys.BindAgent(r.Context(), identity.Owner(r.Context()), id, cmd.AgentID)
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// UnbindAgent handles DELETE /conversations/{id}/agent.
func (h *Handler) UnbindAgent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.sys.UnbindAgent(r.Context(), identity.Owner(r.Context()), id)
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// ListMessages handles GET /conversations/{id}/messages.
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.sys.ListMessages(r.Context(), identity.Owner(r.Context()), id)
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// SendMessage handles POST /conversations/{id}/messages and responds with
// the assistant reply.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	cmd, err := handlers.DecodeJSON[SendCommand](w, r, h.maxBody)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.SendMessage(r.Context(), identity.Owner(r.Context()), id, cmd)
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, result)
}

// UpdateMessage handles PUT /conversations/{id}/messages/{messageId}.
func (h *Handler) UpdateMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	messageID, ok := h.pathID(w, r, "messageId")
	if !ok {
		return
	}

	err := h.sys.UpdateMessage(r.Context(), identity.Owner(r.Context()), id, messageID)
	h.fail(w, err)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	if IsRetryable(err) {
		w.Header().Set("Retry-After", retryAfter)
	}
	handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, validationError("invalid %s: %v", name, err))
		return uuid.Nil, false
	}
	return id, true
}
