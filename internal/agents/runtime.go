package agents

import (
	"context"
	"fmt"

	"github.com/JaimeStill/agent-console/internal/completion"
)

// Runtime acquires and releases whatever an agent needs while it is running.
// Start calls Acquire between starting and running; Stop calls Release
// between stopping and stopped.
type Runtime interface {
	Acquire(ctx context.Context, a *Agent) error
	Release(ctx context.Context, a *Agent) error
}

type providerRuntime struct {
	provider completion.Provider
}

// NewProviderRuntime returns a Runtime whose acquisition verifies that the
// completion provider answers within the agent's timeout. Release holds
// nothing and always succeeds.
func NewProviderRuntime(provider completion.Provider) Runtime {
	return &providerRuntime{provider: provider}
}

func (r *providerRuntime) Acquire(ctx context.Context, a *Agent) error {
	ctx, cancel := context.WithTimeout(ctx, a.Config.TimeoutDuration())
	defer cancel()

	if err := r.provider.Ping(ctx); err != nil {
		return fmt.Errorf("provider %s: %w", r.provider.Name(), err)
	}
	return nil
}

func (r *providerRuntime) Release(context.Context, *Agent) error {
	return nil
}
