// Package conversations manages owner-scoped chat sessions and their
// append-only message logs. Sending a message persists the user turn,
// asks the completion provider for a reply, and persists the reply, with
// sends on one conversation serialized.
package conversations

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Status tracks whether a conversation still accepts messages.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusCanceled:
		return true
	}
	return false
}

// Conversation is a session owned by one user, optionally bound to an agent.
// AgentID is a reference only; the conversation does not own the agent.
// Only active conversations accept messages; completed and canceled are final.
type Conversation struct {
	ID          uuid.UUID       `json:"id"`
	OwnerID     string          `json:"owner_id"`
	AgentID     *uuid.UUID      `json:"agent_id"`
	Title       *string         `json:"title"`
	Status      Status          `json:"status"`
	Metadata    json.RawMessage `json:"metadata"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	CompletedAt *time.Time      `json:"completed_at"`
}

// Message is one immutable turn. Messages of a conversation are ordered by
// CreatedAt, then Seq.
type Message struct {
	ID             uuid.UUID       `json:"id"`
	ConversationID uuid.UUID       `json:"conversation_id"`
	Seq            int64           `json:"seq"`
	Role           Role            `json:"role"`
	Content        string          `json:"content"`
	Metadata       json.RawMessage `json:"metadata"`
	CreatedAt      time.Time       `json:"created_at"`
}

// CreateCommand contains the data accepted when creating a conversation.
type CreateCommand struct {
	Title    *string         `json:"title,omitempty"`
	AgentID  *uuid.UUID      `json:"agent_id,omitempty"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

// UpdateCommand replaces the conversation title and metadata. A nil or blank
// title clears it; omitted or null metadata clears it.
type UpdateCommand struct {
	Title    *string         `json:"title"`
	Metadata json.RawMessage `json:"metadata"`
}

// BindCommand selects the agent a conversation dispatches through.
type BindCommand struct {
	AgentID uuid.UUID `json:"agent_id"`
}

// SendCommand carries the content of a user turn and optional metadata
// stored with it.
type SendCommand struct {
	Content  string          `json:"content"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

const (
	maxTitleLength    = 200
	maxContentLength  = 100_000
	maxMetadataLength = 16 << 10
)

func normalizeTitle(title *string) (*string, error) {
	if title == nil {
		return nil, nil
	}
	t := strings.TrimSpace(*title)
	if t == "" {
		return nil, nil
	}
	if len([]rune(t)) > maxTitleLength {
		return nil, validationError("title exceeds %d characters", maxTitleLength)
	}
	return &t, nil
}

func checkContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return validationError("content is required")
	}
	if len(content) > maxContentLength {
		return validationError("content exceeds %d bytes", maxContentLength)
	}
	return nil
}

// normalizeMetadata accepts a JSON object or nothing. Null and empty input
// yield nil; objects are returned compacted.
func normalizeMetadata(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if len(trimmed) > maxMetadataLength {
		return nil, validationError("metadata exceeds %d bytes", maxMetadataLength)
	}

	var obj map[string]any
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, validationError("metadata must be a JSON object")
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return nil, validationError("metadata must be a JSON object")
	}
	return buf.Bytes(), nil
}
