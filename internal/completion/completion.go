// Package completion defines the assistant reply provider used by conversations
// and its implementations: an OpenAI-compatible HTTP client, a provider that
// always reports unavailability, and a metrics decorator.
package completion

import (
	"context"
	"time"
)

// Roles accepted in a history Turn.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one prior message handed to the provider.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options carry per-agent generation overrides. Zero values fall back to provider defaults.
type Options struct {
	Model        string
	Temperature  *float64
	MaxTokens    int
	SystemPrompt string
	Timeout      time.Duration
}

// Provider produces an assistant reply for a conversation history.
type Provider interface {
	// Generate returns the reply text. Implementations honor ctx cancellation.
	Generate(ctx context.Context, history []Turn, opts Options) (string, error)

	// Ping verifies that the provider is reachable.
	Ping(ctx context.Context) error

	// Name identifies the provider in logs and metrics.
	Name() string
}
