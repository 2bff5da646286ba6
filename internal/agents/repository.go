package agents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/JaimeStill/agent-console/pkg/pagination"
	"github.com/JaimeStill/agent-console/pkg/query"
	"github.com/JaimeStill/agent-console/pkg/repository"
	"github.com/google/uuid"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// NewRepository creates a Postgres-backed Store.
func NewRepository(db *sql.DB, logger *slog.Logger, pagination pagination.Config) Store {
	return &repo{
		db:         db,
		logger:     logger.With("system", "agents", "store", "postgres"),
		pagination: pagination,
	}
}

func (r *repo) Insert(ctx context.Context, a Agent) (*Agent, error) {
	cfg, err := json.Marshal(a.Config)
	if err != nil {
		return nil, err
	}

	q := `
		INSERT INTO agents (id, owner_id, name, type, description, config, status, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
		RETURNING ` + returning

	args := []any{a.ID, a.OwnerID, a.Name, string(a.Type), a.Description, cfg, string(StatusStopped)}

	created, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Agent, error) {
		return repository.QueryOne(ctx, tx, q, args, scanAgent)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &created, nil
}

func (r *repo) Find(ctx context.Context, owner string, id uuid.UUID) (*Agent, error) {
	q, args := query.NewBuilder(projection).
		WhereEquals("owner_id", owner).
		WhereRaw("a.is_active").
		BuildSingle("id", id)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAgent)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func (r *repo) List(ctx context.Context, owner string, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Agent], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("owner_id", owner).
		WhereRaw("a.is_active").
		WhereSearch(page.Search, "name", "description")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count agents: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	agents, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanAgent)
	if err != nil {
		return nil, fmt.Errorf("query agents: %w", err)
	}

	result := pagination.NewPageResult(agents, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Update(ctx context.Context, owner string, id uuid.UUID, fields Fields) (*Agent, error) {
	cfg, err := json.Marshal(fields.Config)
	if err != nil {
		return nil, err
	}

	q := `
		UPDATE agents
		SET name = $1, description = $2, config = $3, updated_at = GREATEST(NOW(), updated_at)
		WHERE id = $4 AND owner_id = $5 AND is_active
		RETURNING ` + returning

	a, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Agent, error) {
		return repository.QueryOne(ctx, tx, q, []any{fields.Name, fields.Description, cfg, id, owner}, scanAgent)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func (r *repo) Transition(ctx context.Context, owner string, id uuid.UUID, from, to Status) (*Agent, error) {
	q := `
		UPDATE agents
		SET status = $1, updated_at = GREATEST(NOW(), updated_at)
		WHERE id = $2 AND owner_id = $3 AND is_active AND status = $4
		RETURNING ` + returning

	a, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Agent, error) {
		updated, err := repository.QueryOne(ctx, tx, q, []any{string(to), id, owner, string(from)}, scanAgent)
		if errors.Is(err, sql.ErrNoRows) {
			current, err := r.lockedStatus(ctx, tx, owner, id)
			if err != nil {
				return Agent{}, err
			}
			return Agent{}, fmt.Errorf("%w: agent is %s, expected %s", ErrInvalidState, current, from)
		}
		return updated, err
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func (r *repo) Deactivate(ctx context.Context, owner string, id uuid.UUID, allowed []Status) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		current, err := r.lockedStatus(ctx, tx, owner, id)
		if err != nil {
			return struct{}{}, err
		}
		if !slices.Contains(allowed, current) {
			return struct{}{}, fmt.Errorf("%w: cannot delete a %s agent", ErrInvalidState, current)
		}

		err = repository.ExecExpectOne(ctx, tx,
			"UPDATE agents SET is_active = FALSE, updated_at = GREATEST(NOW(), updated_at) WHERE id = $1",
			[]any{id}, ErrNotFound)
		return struct{}{}, err
	})
	return repository.MapError(err, ErrNotFound, ErrDuplicate)
}

// lockedStatus reads the current status of an active, owned agent and holds
// the row lock for the rest of the transaction.
func (r *repo) lockedStatus(ctx context.Context, tx *sql.Tx, owner string, id uuid.UUID) (Status, error) {
	var s Status
	err := tx.QueryRowContext(ctx,
		"SELECT status FROM agents WHERE id = $1 AND owner_id = $2 AND is_active FOR UPDATE",
		id, owner,
	).Scan(&s)
	return s, err
}
