package conversations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/JaimeStill/agent-console/internal/agents"
	"github.com/JaimeStill/agent-console/internal/completion"
	"github.com/JaimeStill/agent-console/pkg/locks"
	"github.com/JaimeStill/agent-console/pkg/metrics"
	"github.com/JaimeStill/agent-console/pkg/pagination"
	"github.com/google/uuid"
)

// Agents resolves the agent a conversation is bound to. agents.System satisfies it.
type Agents interface {
	Find(ctx context.Context, owner string, id uuid.UUID) (*agents.Agent, error)
}

// System defines conversation operations. Every operation is scoped to owner;
// conversations of other owners are reported as not found.
type System interface {
	Create(ctx context.Context, owner string, cmd CreateCommand) (*Conversation, error)
	Find(ctx context.Context, owner string, id uuid.UUID) (*Conversation, error)
	List(ctx context.Context, owner string, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Conversation], error)
	Update(ctx context.Context, owner string, id uuid.UUID, cmd UpdateCommand) (*Conversation, error)
	BindAgent(ctx context.Context, owner string, id, agentID uuid.UUID) (*Conversation, error)
	UnbindAgent(ctx context.Context, owner string, id uuid.UUID) (*Conversation, error)
	Delete(ctx context.Context, owner string, id uuid.UUID) error

	// Complete and Cancel close an active conversation. Closed conversations
	// keep their history but reject new messages.
	Complete(ctx context.Context, owner string, id uuid.UUID) (*Conversation, error)
	Cancel(ctx context.Context, owner string, id uuid.UUID) (*Conversation, error)

	// SendMessage persists the user turn, generates a reply from the full
	// history and persists it. The user turn stays committed when generation
	// fails. Sends on one conversation are serialized and require an active
	// conversation.
	SendMessage(ctx context.Context, owner string, id uuid.UUID, cmd SendCommand) (*Message, error)

	ListMessages(ctx context.Context, owner string, id uuid.UUID) ([]Message, error)

	// UpdateMessage always fails: messages are immutable once stored.
	UpdateMessage(ctx context.Context, owner string, id, messageID uuid.UUID) error
}

type service struct {
	store    Store
	agents   Agents
	provider completion.Provider
	locker   locks.Locker
	metrics  *metrics.Metrics
	timeout  time.Duration
	logger   *slog.Logger
}

// New creates the conversations System. timeout bounds a reply generation
// when the bound agent does not set its own.
func New(store Store, agents Agents, provider completion.Provider, locker locks.Locker, m *metrics.Metrics, timeout time.Duration, logger *slog.Logger) System {
	return &service{
		store:    store,
		agents:   agents,
		provider: provider,
		locker:   locker,
		metrics:  m,
		timeout:  timeout,
		logger:   logger.With("system", "conversations"),
	}
}

func (s *service) Create(ctx context.Context, owner string, cmd CreateCommand) (*Conversation, error) {
	if strings.TrimSpace(owner) == "" {
		return nil, validationError("owner is required")
	}

	title, err := normalizeTitle(cmd.Title)
	if err != nil {
		return nil, err
	}
	metadata, err := normalizeMetadata(cmd.Metadata)
	if err != nil {
		return nil, err
	}

	if cmd.AgentID != nil {
		if _, err := s.agent(ctx, owner, *cmd.AgentID); err != nil {
			return nil, err
		}
	}

	c, err := s.store.Create(ctx, Conversation{
		ID:       uuid.New(),
		OwnerID:  owner,
		AgentID:  cmd.AgentID,
		Title:    title,
		Status:   StatusActive,
		Metadata: metadata,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("conversation created", "id", c.ID, "owner", owner)
	return c, nil
}

func (s *service) Find(ctx context.Context, owner string, id uuid.UUID) (*Conversation, error) {
	return s.store.Find(ctx, owner, id)
}

func (s *service) List(ctx context.Context, owner string, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Conversation], error) {
	return s.store.List(ctx, owner, page, filters)
}

func (s *service) Update(ctx context.Context, owner string, id uuid.UUID, cmd UpdateCommand) (*Conversation, error) {
	title, err := normalizeTitle(cmd.Title)
	if err != nil {
		return nil, err
	}
	metadata, err := normalizeMetadata(cmd.Metadata)
	if err != nil {
		return nil, err
	}
	return s.store.SetDetails(ctx, owner, id, title, metadata)
}

func (s *service) BindAgent(ctx context.Context, owner string, id, agentID uuid.UUID) (*Conversation, error) {
	_, unlock, err := s.acquire(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if _, err := s.agent(ctx, owner, agentID); err != nil {
		return nil, err
	}

	c, err := s.store.SetAgent(ctx, owner, id, &agentID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("agent bound", "id", id, "agent_id", agentID)
	return c, nil
}

func (s *service) UnbindAgent(ctx context.Context, owner string, id uuid.UUID) (*Conversation, error) {
	_, unlock, err := s.acquire(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return s.store.SetAgent(ctx, owner, id, nil)
}

func (s *service) Delete(ctx context.Context, owner string, id uuid.UUID) error {
	_, unlock, err := s.acquire(ctx, owner, id)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.store.Delete(ctx, owner, id); err != nil {
		return err
	}

	s.logger.Info("conversation deleted", "id", id, "owner", owner)
	return nil
}

func (s *service) Complete(ctx context.Context, owner string, id uuid.UUID) (*Conversation, error) {
	return s.close(ctx, owner, id, StatusCompleted)
}

func (s *service) Cancel(ctx context.Context, owner string, id uuid.UUID) (*Conversation, error) {
	return s.close(ctx, owner, id, StatusCanceled)
}

func (s *service) close(ctx context.Context, owner string, id uuid.UUID, to Status) (*Conversation, error) {
	_, unlock, err := s.acquire(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	c, err := s.store.SetStatus(ctx, owner, id, StatusActive, to)
	if err != nil {
		return nil, err
	}

	s.logger.Info("conversation closed", "id", id, "status", to)
	return c, nil
}

func (s *service) SendMessage(ctx context.Context, owner string, id uuid.UUID, cmd SendCommand) (*Message, error) {
	if err := checkContent(cmd.Content); err != nil {
		return nil, err
	}
	metadata, err := normalizeMetadata(cmd.Metadata)
	if err != nil {
		return nil, err
	}

	c, unlock, err := s.acquire(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if c.Status != StatusActive {
		return nil, fmt.Errorf("%w: conversation is %s", ErrInvalidState, c.Status)
	}

	opts := completion.Options{Timeout: s.timeout}
	if c.AgentID != nil {
		a, err := s.agent(ctx, owner, *c.AgentID)
		if err != nil {
			return nil, err
		}
		opts = a.Config.CompletionOptions()
		if opts.Timeout <= 0 {
			opts.Timeout = s.timeout
		}
	}

	user := Message{Role: RoleUser, Content: cmd.Content, Metadata: metadata}
	if _, err := s.append(ctx, owner, id, user); err != nil {
		return nil, err
	}

	history, err := s.store.Messages(ctx, id)
	if err != nil {
		return nil, err
	}

	reply, err := s.generate(ctx, history, opts)
	if err != nil {
		s.logger.Warn("reply generation failed", "id", id, "provider", s.provider.Name(), "error", err)
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	return s.append(ctx, owner, id, Message{Role: RoleAssistant, Content: reply})
}

func (s *service) ListMessages(ctx context.Context, owner string, id uuid.UUID) ([]Message, error) {
	if _, err := s.store.Find(ctx, owner, id); err != nil {
		return nil, err
	}
	return s.store.Messages(ctx, id)
}

func (s *service) UpdateMessage(ctx context.Context, owner string, id, messageID uuid.UUID) error {
	if _, err := s.store.Find(ctx, owner, id); err != nil {
		return err
	}
	if _, err := s.store.FindMessage(ctx, id, messageID); err != nil {
		return err
	}
	return fmt.Errorf("%w: message %s", ErrImmutable, messageID)
}

func (s *service) generate(ctx context.Context, history []Message, opts completion.Options) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	turns := make([]completion.Turn, len(history))
	for i, m := range history {
		turns[i] = completion.Turn{Role: string(m.Role), Content: m.Content}
	}

	reply, err := s.provider.Generate(ctx, turns, opts)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(reply) == "" {
		return "", completion.ErrEmptyResponse
	}
	return reply, nil
}

func (s *service) append(ctx context.Context, owner string, id uuid.UUID, draft Message) (*Message, error) {
	m, err := s.store.Append(ctx, owner, id, draft)
	if err != nil {
		return nil, err
	}
	s.metrics.MessageAppended(string(m.Role))
	s.logger.Debug("message appended", "id", id, "message_id", m.ID, "role", m.Role, "seq", m.Seq)
	return m, nil
}

func (s *service) agent(ctx context.Context, owner string, id uuid.UUID) (*agents.Agent, error) {
	a, err := s.agents.Find(ctx, owner, id)
	if errors.Is(err, agents.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrAgentNotFound, id)
	}
	return a, err
}

// acquire verifies ownership before waiting on the conversation lock, then
// reloads the conversation under it. Callers release with the returned Unlock.
func (s *service) acquire(ctx context.Context, owner string, id uuid.UUID) (*Conversation, locks.Unlock, error) {
	if _, err := s.store.Find(ctx, owner, id); err != nil {
		return nil, nil, err
	}

	unlock, err := s.lock(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	c, err := s.store.Find(ctx, owner, id)
	if err != nil {
		unlock()
		return nil, nil, err
	}
	return c, unlock, nil
}

func (s *service) lock(ctx context.Context, id uuid.UUID) (locks.Unlock, error) {
	unlock, err := s.locker.Lock(ctx, "conversation:"+id.String())
	if err != nil {
		return nil, fmt.Errorf("lock conversation %s: %w", id, err)
	}
	return unlock, nil
}
