package main

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/JaimeStill/agent-console/internal/agents"
	"github.com/google/uuid"
)

//go:embed seeds/*.json
var seedFiles embed.FS

func init() {
	registerSeeder(AgentSeeder{})
}

// AgentSeedData represents the JSON structure for agent seed files.
type AgentSeedData struct {
	Agents []agents.CreateCommand `json:"agents"`
}

// AgentSeeder saves demo agents for one owner from the embedded seed file
// or an external one.
type AgentSeeder struct{}

func (AgentSeeder) Name() string {
	return "agents"
}

func (AgentSeeder) Description() string {
	return "Seeds demo agents for an owner"
}

// Seed validates every agent configuration and saves the agents. Saving
// inserts or updates by owner and name so repeated runs converge.
func (AgentSeeder) Seed(ctx context.Context, tx *sql.Tx, opts Options) (int, error) {
	if opts.Owner == "" {
		return 0, fmt.Errorf("owner required")
	}

	data, err := loadAgentSeeds(opts.File)
	if err != nil {
		return 0, err
	}

	for _, cmd := range data.Agents {
		if err := saveAgent(ctx, tx, opts.Owner, cmd); err != nil {
			return 0, fmt.Errorf("save agent %s: %w", cmd.Name, err)
		}
	}

	return len(data.Agents), nil
}

func loadAgentSeeds(file string) (*AgentSeedData, error) {
	var (
		content []byte
		err     error
	)
	if file != "" {
		content, err = os.ReadFile(file)
	} else {
		content, err = seedFiles.ReadFile("seeds/agents.json")
	}
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var data AgentSeedData
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	return &data, nil
}

func saveAgent(ctx context.Context, tx *sql.Tx, owner string, cmd agents.CreateCommand) error {
	typ := cmd.Type
	if typ == "" {
		typ = agents.TypeChat
	}

	cfg, err := agents.ParseConfig(typ, cmd.Config)
	if err != nil {
		return err
	}

	config, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	const query = `
		INSERT INTO agents (id, owner_id, name, type, description, config, status, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, 'stopped', TRUE)
		ON CONFLICT (owner_id, name) WHERE is_active DO UPDATE SET
			type = EXCLUDED.type,
			description = EXCLUDED.description,
			config = EXCLUDED.config,
			updated_at = NOW()`

	_, err = tx.ExecContext(ctx, query, uuid.New(), owner, cmd.Name, typ, cmd.Description, config)
	return err
}
