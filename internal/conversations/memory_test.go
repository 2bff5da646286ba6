package conversations

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/agent-console/pkg/pagination"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_OrderTieBreak(t *testing.T) {
	store := NewMemoryStore(pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}).(*memoryStore)
	frozen := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	store.clock.Now = func() time.Time { return frozen }

	ctx := context.Background()
	c, err := store.Create(ctx, Conversation{ID: uuid.New(), OwnerID: "alice"})
	require.NoError(t, err)

	for _, content := range []string{"a", "b", "c", "d"} {
		_, err := store.Append(ctx, "alice", c.ID, Message{Role: RoleUser, Content: content})
		require.NoError(t, err)
	}

	for range 3 {
		msgs, err := store.Messages(ctx, c.ID)
		require.NoError(t, err)
		require.Len(t, msgs, 4)

		var got []string
		for i, m := range msgs {
			assert.Equal(t, frozen, m.CreatedAt)
			if i > 0 {
				assert.Greater(t, m.Seq, msgs[i-1].Seq)
			}
			got = append(got, m.Content)
		}
		assert.Equal(t, []string{"a", "b", "c", "d"}, got)
	}
}

func TestMemoryStore_ClockNeverRewinds(t *testing.T) {
	store := NewMemoryStore(pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}).(*memoryStore)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	store.clock.Now = func() time.Time { return now }

	ctx := context.Background()
	c, err := store.Create(ctx, Conversation{ID: uuid.New(), OwnerID: "alice"})
	require.NoError(t, err)

	first, err := store.Append(ctx, "alice", c.ID, Message{Role: RoleUser, Content: "first"})
	require.NoError(t, err)

	now = now.Add(-time.Hour)
	second, err := store.Append(ctx, "alice", c.ID, Message{Role: RoleAssistant, Content: "second"})
	require.NoError(t, err)

	assert.False(t, second.CreatedAt.Before(first.CreatedAt))

	found, err := store.Find(ctx, "alice", c.ID)
	require.NoError(t, err)
	assert.Equal(t, second.CreatedAt, found.UpdatedAt)
}

func TestMemoryStore_MessagesScopedToConversation(t *testing.T) {
	store := NewMemoryStore(pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})
	ctx := context.Background()

	a, err := store.Create(ctx, Conversation{ID: uuid.New(), OwnerID: "alice"})
	require.NoError(t, err)
	b, err := store.Create(ctx, Conversation{ID: uuid.New(), OwnerID: "alice"})
	require.NoError(t, err)

	_, err = store.Append(ctx, "alice", a.ID, Message{Role: RoleUser, Content: "for a"})
	require.NoError(t, err)
	_, err = store.Append(ctx, "alice", b.ID, Message{Role: RoleUser, Content: "for b"})
	require.NoError(t, err)

	msgs, err := store.Messages(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "for a", msgs[0].Content)

	_, err = store.Append(ctx, "bob", a.ID, Message{Role: RoleUser, Content: "intruder"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_SetStatus(t *testing.T) {
	store := NewMemoryStore(pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})
	ctx := context.Background()

	c, err := store.Create(ctx, Conversation{ID: uuid.New(), OwnerID: "alice"})
	require.NoError(t, err)
	assert.Equal(t, StatusActive, c.Status)

	_, err = store.SetStatus(ctx, "bob", c.ID, StatusActive, StatusCompleted)
	assert.ErrorIs(t, err, ErrNotFound)

	done, err := store.SetStatus(ctx, "alice", c.ID, StatusActive, StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)
	assert.Equal(t, done.UpdatedAt, *done.CompletedAt)

	_, err = store.SetStatus(ctx, "alice", c.ID, StatusActive, StatusCanceled)
	assert.ErrorIs(t, err, ErrInvalidState)

	found, err := store.Find(ctx, "alice", c.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, found.Status)
}

func TestMemoryStore_MetadataCopied(t *testing.T) {
	store := NewMemoryStore(pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})
	ctx := context.Background()

	meta := []byte(`{"k":"v"}`)
	c, err := store.Create(ctx, Conversation{ID: uuid.New(), OwnerID: "alice", Metadata: meta})
	require.NoError(t, err)
	meta[2] = 'x'
	c.Metadata[2] = 'y'

	found, err := store.Find(ctx, "alice", c.ID)
	require.NoError(t, err)
	assert.Equal(t, `{"k":"v"}`, string(found.Metadata))

	msg, err := store.Append(ctx, "alice", c.ID, Message{Role: RoleUser, Content: "hi", Metadata: []byte(`{"n":1}`)})
	require.NoError(t, err)
	msg.Metadata[2] = 'm'

	msgs, err := store.Messages(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, `{"n":1}`, string(msgs[0].Metadata))
}

func TestNormalizeMetadata(t *testing.T) {
	for _, raw := range []string{"", "  ", "null"} {
		got, err := normalizeMetadata([]byte(raw))
		require.NoError(t, err, raw)
		assert.Nil(t, got, raw)
	}

	got, err := normalizeMetadata([]byte("{ \"a\" : 1 }"))
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got))

	big := []byte(`{"k":"` + strings.Repeat("x", maxMetadataLength) + `"}`)
	_, err = normalizeMetadata(big)
	assert.ErrorIs(t, err, ErrValidation)
}
