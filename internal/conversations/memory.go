package conversations

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/JaimeStill/agent-console/pkg/pagination"
	"github.com/JaimeStill/agent-console/pkg/repository"
	"github.com/google/uuid"
)

type memoryStore struct {
	mu            sync.RWMutex
	conversations map[uuid.UUID]Conversation
	messages      map[uuid.UUID][]Message
	seq           int64
	clock         repository.Clock
	pagination    pagination.Config
}

// NewMemoryStore creates a Store held in process memory. It is used by the
// memory database driver and by tests.
func NewMemoryStore(pagination pagination.Config) Store {
	return &memoryStore{
		conversations: make(map[uuid.UUID]Conversation),
		messages:      make(map[uuid.UUID][]Message),
		pagination:    pagination,
	}
}

func (m *memoryStore) Create(ctx context.Context, c Conversation) (*Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.conversations[c.ID]; exists {
		return nil, fmt.Errorf("%w: duplicate id %s", ErrValidation, c.ID)
	}

	if c.Status == "" {
		c.Status = StatusActive
	}
	c.Metadata = slices.Clone(c.Metadata)
	now := m.clock.Next()
	c.CreatedAt = now
	c.UpdatedAt = now

	m.conversations[c.ID] = c
	return clone(c), nil
}

func (m *memoryStore) Find(ctx context.Context, owner string, id uuid.UUID) (*Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.lookup(owner, id)
	if !ok {
		return nil, ErrNotFound
	}
	return clone(c), nil
}

func (m *memoryStore) List(ctx context.Context, owner string, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Conversation], error) {
	page.Normalize(m.pagination)

	m.mu.RLock()
	matched := make([]Conversation, 0)
	for _, c := range m.conversations {
		if c.OwnerID == owner && filters.match(c) && matchSearch(c, page.Search) {
			matched = append(matched, *clone(c))
		}
	}
	m.mu.RUnlock()

	sortConversations(matched, page)

	result := pagination.NewPageResult(pagination.Slice(matched, page), len(matched), page.Page, page.PageSize)
	return &result, nil
}

func (m *memoryStore) SetDetails(ctx context.Context, owner string, id uuid.UUID, title *string, metadata json.RawMessage) (*Conversation, error) {
	return m.update(owner, id, func(c *Conversation) error {
		c.Title = title
		c.Metadata = slices.Clone(metadata)
		return nil
	})
}

func (m *memoryStore) SetAgent(ctx context.Context, owner string, id uuid.UUID, agentID *uuid.UUID) (*Conversation, error) {
	return m.update(owner, id, func(c *Conversation) error {
		c.AgentID = agentID
		return nil
	})
}

func (m *memoryStore) SetStatus(ctx context.Context, owner string, id uuid.UUID, from, to Status) (*Conversation, error) {
	return m.update(owner, id, func(c *Conversation) error {
		if c.Status != from {
			return fmt.Errorf("%w: conversation is %s, expected %s", ErrInvalidState, c.Status, from)
		}
		c.Status = to
		return nil
	})
}

func (m *memoryStore) update(owner string, id uuid.UUID, apply func(*Conversation) error) (*Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.lookup(owner, id)
	if !ok {
		return nil, ErrNotFound
	}

	before := c.Status
	if err := apply(&c); err != nil {
		return nil, err
	}
	c.UpdatedAt = m.clock.Next()
	if c.Status != before {
		at := c.UpdatedAt
		c.CompletedAt = &at
	}

	m.conversations[id] = c
	return clone(c), nil
}

func (m *memoryStore) Delete(ctx context.Context, owner string, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.lookup(owner, id); !ok {
		return ErrNotFound
	}

	delete(m.messages, id)
	delete(m.conversations, id)
	return nil
}

func (m *memoryStore) Append(ctx context.Context, owner string, id uuid.UUID, draft Message) (*Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.lookup(owner, id)
	if !ok {
		return nil, ErrNotFound
	}

	now := m.clock.Next()
	m.seq++

	msg := Message{
		ID:             uuid.New(),
		ConversationID: id,
		Seq:            m.seq,
		Role:           draft.Role,
		Content:        draft.Content,
		Metadata:       slices.Clone(draft.Metadata),
		CreatedAt:      now,
	}

	c.UpdatedAt = now
	m.conversations[id] = c
	m.messages[id] = append(m.messages[id], msg)

	out := msg
	out.Metadata = slices.Clone(msg.Metadata)
	return &out, nil
}

func (m *memoryStore) Messages(ctx context.Context, id uuid.UUID) ([]Message, error) {
	m.mu.RLock()
	msgs := slices.Clone(m.messages[id])
	m.mu.RUnlock()

	if msgs == nil {
		msgs = []Message{}
	}
	for i := range msgs {
		msgs[i].Metadata = slices.Clone(msgs[i].Metadata)
	}
	slices.SortStableFunc(msgs, compareMessages)
	return msgs, nil
}

func (m *memoryStore) FindMessage(ctx context.Context, id, messageID uuid.UUID) (*Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, msg := range m.messages[id] {
		if msg.ID == messageID {
			msg.Metadata = slices.Clone(msg.Metadata)
			return &msg, nil
		}
	}
	return nil, fmt.Errorf("%w: message %s", ErrNotFound, messageID)
}

func (m *memoryStore) lookup(owner string, id uuid.UUID) (Conversation, bool) {
	c, ok := m.conversations[id]
	if !ok || c.OwnerID != owner {
		return Conversation{}, false
	}
	return c, true
}

func compareMessages(a, b Message) int {
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.Seq, b.Seq)
}

func clone(c Conversation) *Conversation {
	if c.AgentID != nil {
		id := *c.AgentID
		c.AgentID = &id
	}
	if c.Title != nil {
		t := *c.Title
		c.Title = &t
	}
	if c.CompletedAt != nil {
		at := *c.CompletedAt
		c.CompletedAt = &at
	}
	c.Metadata = slices.Clone(c.Metadata)
	return &c
}

func (f Filters) match(c Conversation) bool {
	if f.AgentID != nil && (c.AgentID == nil || *c.AgentID != *f.AgentID) {
		return false
	}
	if f.Title != nil && (c.Title == nil || !containsFold(*c.Title, *f.Title)) {
		return false
	}
	if f.Status != nil && c.Status != *f.Status {
		return false
	}
	return true
}

func matchSearch(c Conversation, search *string) bool {
	if search == nil || *search == "" {
		return true
	}
	return c.Title != nil && containsFold(*c.Title, *search)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func sortConversations(items []Conversation, page pagination.PageRequest) {
	fields := page.Sort
	if len(fields) == 0 {
		fields = append(fields, defaultSort)
	}

	slices.SortStableFunc(items, func(a, b Conversation) int {
		for _, f := range fields {
			var c int
			switch f.Field {
			case "title":
				c = cmp.Compare(deref(a.Title), deref(b.Title))
			case "status":
				c = cmp.Compare(a.Status, b.Status)
			case "created_at":
				c = a.CreatedAt.Compare(b.CreatedAt)
			case "updated_at":
				c = a.UpdatedAt.Compare(b.UpdatedAt)
			}
			if f.Descending {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
