package conversations

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

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
		logger:     logger.With("system", "conversations", "store", "postgres"),
		pagination: pagination,
	}
}

func (r *repo) Create(ctx context.Context, c Conversation) (*Conversation, error) {
	q := `
		INSERT INTO conversations (id, owner_id, agent_id, title, status, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + conversationColumns

	if c.Status == "" {
		c.Status = StatusActive
	}
	args := []any{c.ID, c.OwnerID, nullUUID(c.AgentID), c.Title, string(c.Status), jsonParam(c.Metadata)}

	created, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Conversation, error) {
		return repository.QueryOne(ctx, tx, q, args, scanConversation)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrAgentNotFound, ErrValidation)
	}
	return &created, nil
}

func (r *repo) Find(ctx context.Context, owner string, id uuid.UUID) (*Conversation, error) {
	q, args := query.NewBuilder(projection).
		WhereEquals("owner_id", owner).
		BuildSingle("id", id)

	c, err := repository.QueryOne(ctx, r.db, q, args, scanConversation)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrValidation)
	}
	return &c, nil
}

func (r *repo) List(ctx context.Context, owner string, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Conversation], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("owner_id", owner).
		WhereSearch(page.Search, "title")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count conversations: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanConversation)
	if err != nil {
		return nil, fmt.Errorf("query conversations: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) SetDetails(ctx context.Context, owner string, id uuid.UUID, title *string, metadata json.RawMessage) (*Conversation, error) {
	return r.update(ctx, "title = $3, metadata = $4", owner, id, title, jsonParam(metadata))
}

func (r *repo) SetAgent(ctx context.Context, owner string, id uuid.UUID, agentID *uuid.UUID) (*Conversation, error) {
	return r.update(ctx, "agent_id = $3", owner, id, nullUUID(agentID))
}

// update applies set, whose placeholders start at $3, to an owned conversation.
func (r *repo) update(ctx context.Context, set string, owner string, id uuid.UUID, values ...any) (*Conversation, error) {
	q := `
		UPDATE conversations
		SET ` + set + `, updated_at = GREATEST(NOW(), updated_at)
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + conversationColumns

	args := append([]any{id, owner}, values...)
	c, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Conversation, error) {
		return repository.QueryOne(ctx, tx, q, args, scanConversation)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrValidation)
	}
	return &c, nil
}

func (r *repo) SetStatus(ctx context.Context, owner string, id uuid.UUID, from, to Status) (*Conversation, error) {
	q := `
		UPDATE conversations
		SET status = $1,
			completed_at = GREATEST(NOW(), updated_at),
			updated_at = GREATEST(NOW(), updated_at)
		WHERE id = $2 AND owner_id = $3 AND status = $4
		RETURNING ` + conversationColumns

	c, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Conversation, error) {
		updated, err := repository.QueryOne(ctx, tx, q, []any{string(to), id, owner, string(from)}, scanConversation)
		if errors.Is(err, sql.ErrNoRows) {
			var current Status
			err := tx.QueryRowContext(ctx,
				"SELECT status FROM conversations WHERE id = $1 AND owner_id = $2 FOR UPDATE",
				id, owner,
			).Scan(&current)
			if err != nil {
				return Conversation{}, err
			}
			return Conversation{}, fmt.Errorf("%w: conversation is %s, expected %s", ErrInvalidState, current, from)
		}
		return updated, err
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrValidation)
	}
	return &c, nil
}

func (r *repo) Delete(ctx context.Context, owner string, id uuid.UUID) error {
	removed, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (int64, error) {
		var locked int
		err := tx.QueryRowContext(ctx,
			"SELECT 1 FROM conversations WHERE id = $1 AND owner_id = $2 FOR UPDATE",
			id, owner,
		).Scan(&locked)
		if err != nil {
			return 0, err
		}

		res, err := tx.ExecContext(ctx, "DELETE FROM messages WHERE conversation_id = $1", id)
		if err != nil {
			return 0, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}

		err = repository.ExecExpectOne(ctx, tx, "DELETE FROM conversations WHERE id = $1", []any{id}, ErrNotFound)
		return n, err
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrValidation)
	}

	r.logger.Debug("conversation rows removed", "id", id, "messages", removed)
	return nil
}

func (r *repo) Append(ctx context.Context, owner string, id uuid.UUID, msg Message) (*Message, error) {
	m, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Message, error) {
		var at time.Time
		err := tx.QueryRowContext(ctx, `
			UPDATE conversations
			SET updated_at = GREATEST(clock_timestamp(), updated_at)
			WHERE id = $1 AND owner_id = $2
			RETURNING updated_at`,
			id, owner,
		).Scan(&at)
		if err != nil {
			return Message{}, err
		}

		q := `
			INSERT INTO messages (id, conversation_id, role, content, metadata, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING ` + messageColumns

		args := []any{uuid.New(), id, string(msg.Role), msg.Content, jsonParam(msg.Metadata), at}
		return repository.QueryOne(ctx, tx, q, args, scanMessage)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrValidation)
	}
	return &m, nil
}

func (r *repo) Messages(ctx context.Context, id uuid.UUID) ([]Message, error) {
	q := `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC, seq ASC`

	msgs, err := repository.QueryMany(ctx, r.db, q, []any{id}, scanMessage)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	return msgs, nil
}

func (r *repo) FindMessage(ctx context.Context, id, messageID uuid.UUID) (*Message, error) {
	q := `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE id = $1 AND conversation_id = $2`

	m, err := repository.QueryOne(ctx, r.db, q, []any{messageID, id}, scanMessage)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrValidation)
	}
	return &m, nil
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
