package agents

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/JaimeStill/agent-console/pkg/pagination"
	"github.com/JaimeStill/agent-console/pkg/repository"
	"github.com/google/uuid"
)

type memoryStore struct {
	mu         sync.RWMutex
	agents     map[uuid.UUID]Agent
	clock      repository.Clock
	pagination pagination.Config
}

// NewMemoryStore creates a Store held in process memory. It is used by the
// memory database driver and by tests.
func NewMemoryStore(pagination pagination.Config) Store {
	return &memoryStore{
		agents:     make(map[uuid.UUID]Agent),
		pagination: pagination,
	}
}

func (m *memoryStore) Insert(ctx context.Context, a Agent) (*Agent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.agents[a.ID]; exists {
		return nil, fmt.Errorf("%w: id %s", ErrDuplicate, a.ID)
	}
	if m.nameTaken(a.OwnerID, a.Name, uuid.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrDuplicate, a.Name)
	}

	now := m.clock.Next()
	a.Status = StatusStopped
	a.IsActive = true
	a.CreatedAt = now
	a.UpdatedAt = now
	a.Config = a.Config.Clone()

	m.agents[a.ID] = a
	return m.copy(a), nil
}

func (m *memoryStore) Find(ctx context.Context, owner string, id uuid.UUID) (*Agent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.lookup(owner, id)
	if !ok {
		return nil, ErrNotFound
	}
	return m.copy(a), nil
}

func (m *memoryStore) List(ctx context.Context, owner string, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Agent], error) {
	page.Normalize(m.pagination)

	m.mu.RLock()
	matched := make([]Agent, 0)
	for _, a := range m.agents {
		if a.OwnerID == owner && a.IsActive && filters.match(a) && matchSearch(a, page.Search) {
			matched = append(matched, *m.copy(a))
		}
	}
	m.mu.RUnlock()

	sortAgents(matched, page)

	result := pagination.NewPageResult(pagination.Slice(matched, page), len(matched), page.Page, page.PageSize)
	return &result, nil
}

func (m *memoryStore) Update(ctx context.Context, owner string, id uuid.UUID, fields Fields) (*Agent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.lookup(owner, id)
	if !ok {
		return nil, ErrNotFound
	}
	if m.nameTaken(owner, fields.Name, id) {
		return nil, fmt.Errorf("%w: %s", ErrDuplicate, fields.Name)
	}

	a.Name = fields.Name
	a.Description = fields.Description
	a.Config = fields.Config.Clone()
	a.UpdatedAt = m.clock.Next()

	m.agents[id] = a
	return m.copy(a), nil
}

func (m *memoryStore) Transition(ctx context.Context, owner string, id uuid.UUID, from, to Status) (*Agent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.lookup(owner, id)
	if !ok {
		return nil, ErrNotFound
	}
	if a.Status != from {
		return nil, fmt.Errorf("%w: agent is %s, expected %s", ErrInvalidState, a.Status, from)
	}

	a.Status = to
	a.UpdatedAt = m.clock.Next()

	m.agents[id] = a
	return m.copy(a), nil
}

func (m *memoryStore) Deactivate(ctx context.Context, owner string, id uuid.UUID, allowed []Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.lookup(owner, id)
	if !ok {
		return ErrNotFound
	}
	if !slices.Contains(allowed, a.Status) {
		return fmt.Errorf("%w: cannot delete a %s agent", ErrInvalidState, a.Status)
	}

	a.IsActive = false
	a.UpdatedAt = m.clock.Next()
	m.agents[id] = a
	return nil
}

func (m *memoryStore) lookup(owner string, id uuid.UUID) (Agent, bool) {
	a, ok := m.agents[id]
	if !ok || !a.IsActive || a.OwnerID != owner {
		return Agent{}, false
	}
	return a, true
}

func (m *memoryStore) nameTaken(owner, name string, except uuid.UUID) bool {
	for id, a := range m.agents {
		if id != except && a.IsActive && a.OwnerID == owner && a.Name == name {
			return true
		}
	}
	return false
}

func (m *memoryStore) copy(a Agent) *Agent {
	a.Config = a.Config.Clone()
	if a.Description != nil {
		d := *a.Description
		a.Description = &d
	}
	return &a
}

func (f Filters) match(a Agent) bool {
	if f.Name != nil && !containsFold(a.Name, *f.Name) {
		return false
	}
	if f.Status != nil && a.Status != *f.Status {
		return false
	}
	if f.Type != nil && a.Type != *f.Type {
		return false
	}
	return true
}

func matchSearch(a Agent, search *string) bool {
	if search == nil || *search == "" {
		return true
	}
	if containsFold(a.Name, *search) {
		return true
	}
	return a.Description != nil && containsFold(*a.Description, *search)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func sortAgents(items []Agent, page pagination.PageRequest) {
	fields := page.Sort
	if len(fields) == 0 {
		fields = append(fields, defaultSort)
	}

	slices.SortStableFunc(items, func(a, b Agent) int {
		for _, f := range fields {
			c := compareField(a, b, f.Field)
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

func compareField(a, b Agent, field string) int {
	switch field {
	case "name":
		return cmp.Compare(a.Name, b.Name)
	case "status":
		return cmp.Compare(a.Status, b.Status)
	case "type":
		return cmp.Compare(a.Type, b.Type)
	case "created_at":
		return a.CreatedAt.Compare(b.CreatedAt)
	case "updated_at":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	}
	return 0
}
