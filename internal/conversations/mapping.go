package conversations

import (
	"database/sql"
	"encoding/json"
	"net/url"

	"github.com/JaimeStill/agent-console/pkg/query"
	"github.com/JaimeStill/agent-console/pkg/repository"
	"github.com/google/uuid"
)

var projection = query.
	NewProjectionMap("public", "conversations", "c").
	Project("id", "id").
	Project("owner_id", "owner_id").
	Project("agent_id", "agent_id").
	Project("title", "title").
	Project("status", "status").
	Project("metadata", "metadata").
	Project("created_at", "created_at").
	Project("updated_at", "updated_at").
	Project("completed_at", "completed_at")

var defaultSort = query.SortField{Field: "updated_at", Descending: true}

const (
	conversationColumns = `id, owner_id, agent_id, title, status, metadata, created_at, updated_at, completed_at`
	messageColumns      = `id, conversation_id, seq, role, content, metadata, created_at`
)

func scanConversation(s repository.Scanner) (Conversation, error) {
	var (
		c         Conversation
		agentID   uuid.NullUUID
		metadata  []byte
		completed sql.NullTime
	)
	err := s.Scan(&c.ID, &c.OwnerID, &agentID, &c.Title, &c.Status, &metadata, &c.CreatedAt, &c.UpdatedAt, &completed)
	if agentID.Valid {
		c.AgentID = &agentID.UUID
	}
	if completed.Valid {
		c.CompletedAt = &completed.Time
	}
	c.Metadata = metadata
	return c, err
}

func scanMessage(s repository.Scanner) (Message, error) {
	var (
		m        Message
		metadata []byte
	)
	err := s.Scan(&m.ID, &m.ConversationID, &m.Seq, &m.Role, &m.Content, &metadata, &m.CreatedAt)
	m.Metadata = metadata
	return m, err
}

// jsonParam passes metadata to a JSONB column, NULL when empty.
func jsonParam(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}

// Filters contains optional filtering criteria for conversation queries.
type Filters struct {
	AgentID *uuid.UUID
	Title   *string
	Status  *Status
}

// FiltersFromQuery extracts filter values from URL query parameters.
// An agent_id that is not a UUID is reported as a validation error.
func FiltersFromQuery(values url.Values) (Filters, error) {
	var f Filters
	if v := values.Get("agent_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return f, validationError("invalid agent_id: %v", err)
		}
		f.AgentID = &id
	}
	if t := values.Get("title"); t != "" {
		f.Title = &t
	}
	if v := values.Get("status"); v != "" {
		status := Status(v)
		if !status.Valid() {
			return f, validationError("invalid status %q", v)
		}
		f.Status = &status
	}
	return f, nil
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	b.WhereContains("title", f.Title)
	if f.AgentID != nil {
		b.WhereEquals("agent_id", *f.AgentID)
	}
	if f.Status != nil {
		b.WhereEquals("status", string(*f.Status))
	}
	return b
}
