package conversations

import (
	"context"
	"encoding/json"

	"github.com/JaimeStill/agent-console/pkg/pagination"
	"github.com/google/uuid"
)

// Store persists conversations and their messages. Conversation lookups are
// scoped to an owner; a conversation owned by someone else behaves as missing.
// Message reads are scoped to a conversation id that the caller already
// resolved through Find.
type Store interface {
	// Create stores a conversation. The store assigns created_at and updated_at.
	// An empty status is stored as active.
	Create(ctx context.Context, c Conversation) (*Conversation, error)

	Find(ctx context.Context, owner string, id uuid.UUID) (*Conversation, error)
	List(ctx context.Context, owner string, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Conversation], error)
	SetDetails(ctx context.Context, owner string, id uuid.UUID, title *string, metadata json.RawMessage) (*Conversation, error)
	SetAgent(ctx context.Context, owner string, id uuid.UUID, agentID *uuid.UUID) (*Conversation, error)

	// SetStatus moves the conversation from one status to another and stamps
	// completed_at. It fails with ErrInvalidState when the current status is not from.
	SetStatus(ctx context.Context, owner string, id uuid.UUID, from, to Status) (*Conversation, error)

	// Delete removes the conversation and every message it owns in one transaction.
	Delete(ctx context.Context, owner string, id uuid.UUID) error

	// Append commits one message and advances the conversation's updated_at in
	// one transaction. The store assigns id, seq and created_at; the message
	// timestamp never precedes earlier messages.
	Append(ctx context.Context, owner string, id uuid.UUID, m Message) (*Message, error)

	// Messages returns the log of a conversation ordered by created_at, then seq.
	Messages(ctx context.Context, id uuid.UUID) ([]Message, error)

	FindMessage(ctx context.Context, id, messageID uuid.UUID) (*Message, error)
}
