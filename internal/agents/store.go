package agents

import (
	"context"

	"github.com/JaimeStill/agent-console/pkg/pagination"
	"github.com/google/uuid"
)

// Fields are the owner-editable attributes written by Update.
type Fields struct {
	Name        string
	Description *string
	Config      Config
}

// Store persists agents. Every lookup is scoped to an owner: rows that belong
// to another owner, or that were soft deleted, behave as missing and produce
// ErrNotFound.
type Store interface {
	// Insert stores a new agent. The store assigns created_at and updated_at.
	Insert(ctx context.Context, a Agent) (*Agent, error)

	Find(ctx context.Context, owner string, id uuid.UUID) (*Agent, error)
	List(ctx context.Context, owner string, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Agent], error)
	Update(ctx context.Context, owner string, id uuid.UUID, fields Fields) (*Agent, error)

	// Transition atomically moves status from -> to. It fails with
	// ErrInvalidState, leaving the row untouched, when the current status is not from.
	Transition(ctx context.Context, owner string, id uuid.UUID, from, to Status) (*Agent, error)

	// Deactivate clears is_active when the current status is one of allowed.
	Deactivate(ctx context.Context, owner string, id uuid.UUID, allowed []Status) error
}
