package agents

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

// Handler provides HTTP handlers for agent records and status transitions.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
	maxBody    int64
}

// NewHandler creates a new agents HTTP handler.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config, maxBody int64) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "agents"),
		pagination: pagination,
		maxBody:    maxBody,
	}
}

// Routes returns the route group configuration for agent endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/agents",
		Tags:        []string{"Agents"},
		Description: "Agent records and lifecycle",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: Spec.List},
			{Method: "POST", Pattern: "", Handler: h.Create, OpenAPI: Spec.Create},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: Spec.Find},
			{Method: "PUT", Pattern: "/{id}", Handler: h.Update, OpenAPI: Spec.Update},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete, OpenAPI: Spec.Delete},
			{Method: "GET", Pattern: "/{id}/status", Handler: h.Status, OpenAPI: Spec.Status},
			{Method: "POST", Pattern: "/{id}/start", Handler: h.Start, OpenAPI: Spec.Start},
			{Method: "POST", Pattern: "/{id}/stop", Handler: h.Stop, OpenAPI: Spec.Stop},
			{Method: "POST", Pattern: "/{id}/reset", Handler: h.Reset, OpenAPI: Spec.Reset},
		},
	}
}

// List handles GET /agents.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), identity.Owner(r.Context()), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Create handles POST /agents.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	cmd, err := handlers.DecodeJSON[CreateCommand](w, r, h.maxBody)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.Create(r.Context(), identity.Owner(r.Context()), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, result)
}

// Find handles GET /agents/{id}.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	result, err := h.sys.Find(r.Context(), identity.Owner(r.Context()), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Update handles PUT /agents/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
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
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Delete handles DELETE /agents/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.sys.Delete(r.Context(), identity.Owner(r.Context()), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Status handles GET /agents/{id}/status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	a, err := h.sys.Find(r.Context(), identity.Owner(r.Context()), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, StatusView{ID: a.ID, Status: a.Status, UpdatedAt: a.UpdatedAt})
}

// Start handles POST /agents/{id}/start.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.sys.Start)
}

// Stop handles POST /agents/{id}/stop.
func (h *Handler) Stop(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.sys.Stop)
}

// Reset handles POST /agents/{id}/reset.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.sys.Reset)
}

type transitionFunc func(ctx context.Context, owner string, id uuid.UUID) (*Agent, error)

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, fn transitionFunc) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	result, err := fn(r.Context(), identity.Owner(r.Context()), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, validationError("invalid agent id: %v", err))
		return uuid.Nil, false
	}
	return id, true
}
