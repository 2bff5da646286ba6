// Package agents manages user-owned agent records: their typed configuration,
// soft deletion, and the status lifecycle driven by start, stop and reset.
package agents

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Type is the agent flavor. It selects which configuration options apply.
type Type string

const (
	TypeChat    Type = "chat"
	TypeCodeAct Type = "codeact"
	TypeTool    Type = "tool"
)

// Valid reports whether t is a known agent type.
func (t Type) Valid() bool {
	switch t {
	case TypeChat, TypeCodeAct, TypeTool:
		return true
	}
	return false
}

// Agent is a named configuration record owned by one user.
type Agent struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Type        Type      `json:"type"`
	Description *string   `json:"description,omitempty"`
	Config      Config    `json:"config"`
	Status      Status    `json:"status"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateCommand contains the data required to create an agent.
type CreateCommand struct {
	Name        string          `json:"name"`
	Type        Type            `json:"type"`
	Description *string         `json:"description,omitempty"`
	Config      json.RawMessage `json:"config,omitempty"`
}

// UpdateCommand replaces the mutable fields of an agent. Status and type are not writable.
type UpdateCommand struct {
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Config      json.RawMessage `json:"config,omitempty"`
}

// StatusView is the response of the status endpoint.
type StatusView struct {
	ID        uuid.UUID `json:"id"`
	Status    Status    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	maxNameLength        = 100
	maxDescriptionLength = 500
)

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", validationError("name is required")
	}
	if len([]rune(name)) > maxNameLength {
		return "", validationError("name exceeds %d characters", maxNameLength)
	}
	return name, nil
}

func normalizeDescription(desc *string) (*string, error) {
	if desc == nil {
		return nil, nil
	}
	d := strings.TrimSpace(*desc)
	if d == "" {
		return nil, nil
	}
	if len([]rune(d)) > maxDescriptionLength {
		return nil, validationError("description exceeds %d characters", maxDescriptionLength)
	}
	return &d, nil
}
