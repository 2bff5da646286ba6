package agents

import (
	"net/url"

	"github.com/JaimeStill/agent-console/pkg/query"
	"github.com/JaimeStill/agent-console/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "agents", "a").
	Project("id", "id").
	Project("owner_id", "owner_id").
	Project("name", "name").
	Project("type", "type").
	Project("description", "description").
	Project("config", "config").
	Project("status", "status").
	Project("is_active", "is_active").
	Project("created_at", "created_at").
	Project("updated_at", "updated_at")

var defaultSort = query.SortField{Field: "name"}

const returning = `id, owner_id, name, type, description, config, status, is_active, created_at, updated_at`

func scanAgent(s repository.Scanner) (Agent, error) {
	var (
		a   Agent
		raw []byte
	)
	err := s.Scan(&a.ID, &a.OwnerID, &a.Name, &a.Type, &a.Description, &raw, &a.Status, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return a, err
	}

	cfg, err := ParseConfig(a.Type, raw)
	if err != nil {
		return a, err
	}
	a.Config = cfg
	return a, nil
}

// Filters contains optional filtering criteria for agent queries.
type Filters struct {
	Name   *string
	Status *Status
	Type   *Type
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters
	if n := values.Get("name"); n != "" {
		f.Name = &n
	}
	if s := values.Get("status"); s != "" {
		status := Status(s)
		f.Status = &status
	}
	if t := values.Get("type"); t != "" {
		typ := Type(t)
		f.Type = &typ
	}
	return f
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	b.WhereContains("name", f.Name)
	if f.Status != nil {
		b.WhereEquals("status", string(*f.Status))
	}
	if f.Type != nil {
		b.WhereEquals("type", string(*f.Type))
	}
	return b
}
