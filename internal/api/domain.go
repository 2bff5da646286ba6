package api

import (
	"github.com/JaimeStill/agent-console/internal/agents"
	"github.com/JaimeStill/agent-console/internal/config"
	"github.com/JaimeStill/agent-console/internal/conversations"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Agents        agents.System
	Conversations conversations.System
}

// NewDomain creates all domain systems from the API runtime. Stores are
// Postgres-backed unless the memory driver is configured.
func NewDomain(runtime *Runtime, cfg *config.Config) *Domain {
	var (
		agentStore        agents.Store
		conversationStore conversations.Store
	)

	if runtime.Database == nil {
		agentStore = agents.NewMemoryStore(runtime.Pagination)
		conversationStore = conversations.NewMemoryStore(runtime.Pagination)
	} else {
		db := runtime.Database.Connection()
		agentStore = agents.NewRepository(db, runtime.Logger, runtime.Pagination)
		conversationStore = conversations.NewRepository(db, runtime.Logger, runtime.Pagination)
	}

	agentsSys := agents.New(
		agentStore,
		agents.NewProviderRuntime(runtime.Completion),
		runtime.Metrics,
		runtime.Logger,
	)

	conversationsSys := conversations.New(
		conversationStore,
		agentsSys,
		runtime.Completion,
		runtime.Locker,
		runtime.Metrics,
		cfg.Completion.TimeoutDuration(),
		runtime.Logger,
	)

	return &Domain{
		Agents:        agentsSys,
		Conversations: conversationsSys,
	}
}
