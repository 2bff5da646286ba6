package agents

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/JaimeStill/agent-console/pkg/metrics"
	"github.com/JaimeStill/agent-console/pkg/pagination"
	"github.com/google/uuid"
)

// settleTimeout bounds the status write that ends a start or stop. It runs on
// a context detached from the request so a disconnect cannot skip it.
const settleTimeout = 10 * time.Second

const maxOwnerLength = 100

// deletable lists the statuses from which an agent may be soft deleted.
var deletable = []Status{StatusStopped, StatusError}

// System defines agent operations. Every operation is scoped to owner.
type System interface {
	Create(ctx context.Context, owner string, cmd CreateCommand) (*Agent, error)
	Find(ctx context.Context, owner string, id uuid.UUID) (*Agent, error)
	List(ctx context.Context, owner string, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Agent], error)
	Update(ctx context.Context, owner string, id uuid.UUID, cmd UpdateCommand) (*Agent, error)
	Delete(ctx context.Context, owner string, id uuid.UUID) error

	// Start moves a stopped agent through starting to running, or to error
	// when the runtime cannot be acquired.
	Start(ctx context.Context, owner string, id uuid.UUID) (*Agent, error)

	// Stop moves a running agent through stopping to stopped, or to error
	// when the runtime cannot be released.
	Stop(ctx context.Context, owner string, id uuid.UUID) (*Agent, error)

	// Reset returns an agent in error to stopped so it can be started again.
	Reset(ctx context.Context, owner string, id uuid.UUID) (*Agent, error)
}

type service struct {
	store   Store
	runtime Runtime
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates the agents System.
func New(store Store, runtime Runtime, m *metrics.Metrics, logger *slog.Logger) System {
	return &service{
		store:   store,
		runtime: runtime,
		metrics: m,
		logger:  logger.With("system", "agents"),
	}
}

func (s *service) Create(ctx context.Context, owner string, cmd CreateCommand) (*Agent, error) {
	if err := checkOwner(owner); err != nil {
		return nil, err
	}

	name, err := normalizeName(cmd.Name)
	if err != nil {
		return nil, err
	}

	typ := cmd.Type
	if typ == "" {
		typ = TypeChat
	}
	if !typ.Valid() {
		return nil, validationError("unknown agent type %q", typ)
	}

	desc, err := normalizeDescription(cmd.Description)
	if err != nil {
		return nil, err
	}

	cfg, err := ParseConfig(typ, cmd.Config)
	if err != nil {
		return nil, err
	}

	a, err := s.store.Insert(ctx, Agent{
		ID:          uuid.New(),
		OwnerID:     owner,
		Name:        name,
		Type:        typ,
		Description: desc,
		Config:      cfg,
		Status:      StatusStopped,
		IsActive:    true,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("agent created", "id", a.ID, "owner", owner, "name", a.Name, "type", a.Type)
	return a, nil
}

func (s *service) Find(ctx context.Context, owner string, id uuid.UUID) (*Agent, error) {
	return s.store.Find(ctx, owner, id)
}

func (s *service) List(ctx context.Context, owner string, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Agent], error) {
	if filters.Status != nil && !filters.Status.Valid() {
		return nil, validationError("unknown status %q", *filters.Status)
	}
	if filters.Type != nil && !filters.Type.Valid() {
		return nil, validationError("unknown agent type %q", *filters.Type)
	}
	return s.store.List(ctx, owner, page, filters)
}

func (s *service) Update(ctx context.Context, owner string, id uuid.UUID, cmd UpdateCommand) (*Agent, error) {
	name, err := normalizeName(cmd.Name)
	if err != nil {
		return nil, err
	}

	desc, err := normalizeDescription(cmd.Description)
	if err != nil {
		return nil, err
	}

	current, err := s.store.Find(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	cfg := current.Config
	if len(cmd.Config) > 0 {
		if cfg, err = ParseConfig(current.Type, cmd.Config); err != nil {
			return nil, err
		}
	}

	a, err := s.store.Update(ctx, owner, id, Fields{Name: name, Description: desc, Config: cfg})
	if err != nil {
		return nil, err
	}

	s.logger.Info("agent updated", "id", a.ID, "name", a.Name)
	return a, nil
}

func (s *service) Delete(ctx context.Context, owner string, id uuid.UUID) error {
	if err := s.store.Deactivate(ctx, owner, id, deletable); err != nil {
		return err
	}
	s.logger.Info("agent deleted", "id", id, "owner", owner)
	return nil
}

func (s *service) Start(ctx context.Context, owner string, id uuid.UUID) (*Agent, error) {
	a, err := s.transition(ctx, owner, id, StatusStopped, StatusStarting)
	if err != nil {
		return nil, err
	}
	return s.settle(ctx, a, StatusRunning, s.runtime.Acquire)
}

func (s *service) Stop(ctx context.Context, owner string, id uuid.UUID) (*Agent, error) {
	a, err := s.transition(ctx, owner, id, StatusRunning, StatusStopping)
	if err != nil {
		return nil, err
	}
	return s.settle(ctx, a, StatusStopped, s.runtime.Release)
}

func (s *service) Reset(ctx context.Context, owner string, id uuid.UUID) (*Agent, error) {
	return s.transition(ctx, owner, id, StatusError, StatusStopped)
}

// settle runs step for an agent already committed to a transient status and
// then writes the outcome: success on a nil error, StatusError otherwise.
// The write is deferred so it also happens when step panics or ctx ends.
func (s *service) settle(ctx context.Context, a *Agent, success Status, step func(context.Context, *Agent) error) (settled *Agent, err error) {
	from := a.Status
	target := StatusError

	defer func() {
		wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), settleTimeout)
		defer cancel()

		updated, werr := s.transition(wctx, a.OwnerID, a.ID, from, target)
		if werr != nil {
			s.logger.Error("agent status write failed", "id", a.ID, "from", from, "to", target, "error", werr)
			err = errors.Join(err, werr)
			return
		}
		settled = updated
	}()

	if stepErr := step(ctx, a); stepErr != nil {
		s.logger.Warn("agent runtime step failed", "id", a.ID, "status", from, "error", stepErr)
		return nil, fmt.Errorf("%w: %v", ErrRuntime, stepErr)
	}

	target = success
	return nil, nil
}

func (s *service) transition(ctx context.Context, owner string, id uuid.UUID, from, to Status) (*Agent, error) {
	if err := checkTransition(from, to); err != nil {
		return nil, err
	}

	a, err := s.store.Transition(ctx, owner, id, from, to)
	if err != nil {
		return nil, err
	}

	s.metrics.AgentTransition(string(from), string(to))
	s.logger.Info("agent status changed", "id", id, "from", from, "to", to)
	return a, nil
}

func checkOwner(owner string) error {
	if strings.TrimSpace(owner) == "" {
		return validationError("owner is required")
	}
	if len(owner) > maxOwnerLength {
		return validationError("owner exceeds %d characters", maxOwnerLength)
	}
	return nil
}
