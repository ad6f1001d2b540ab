package kv

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"invoice30sec.app/internal/ports"
	"invoice30sec.app/pkg/errors"
)

func TestSubscriptionRepository_Upsert(t *testing.T) {
	mr, client := setupRedis(t)
	repo := NewSubscriptionRepositoryAdapter(client)
	ctx := context.Background()

	first := &ports.SubscriptionData{Email: "reader@example.com", SubscribedAt: time.Now().UTC().Add(-time.Hour)}
	require.NoError(t, repo.Upsert(ctx, first))
	assert.Equal(t, "1", first.ID)
	assert.True(t, first.IsActive)

	mr.HSet("subscription:reader@example.com", "is_active", "0")
	mr.HSet("subscription:reader@example.com", "unsubscribed_at", time.Now().UTC().Format(time.RFC3339))

	second := &ports.SubscriptionData{Email: "reader@example.com", SubscribedAt: time.Now().UTC()}
	require.NoError(t, repo.Upsert(ctx, second))

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.IsActive)
	assert.Nil(t, second.UnsubscribedAt)
	assert.Equal(t, "1", mr.HGet("subscription:reader@example.com", "is_active"))
	assert.Empty(t, mr.HGet("subscription:reader@example.com", "unsubscribed_at"))

	other := &ports.SubscriptionData{Email: "other@example.com"}
	require.NoError(t, repo.Upsert(ctx, other))
	assert.Equal(t, "2", other.ID)
}

func TestSubscriptionRepository_Upsert_Invalid(t *testing.T) {
	_, client := setupRedis(t)
	repo := NewSubscriptionRepositoryAdapter(client)

	assert.True(t, errors.IsValidationError(repo.Upsert(context.Background(), nil)))
	assert.True(t, errors.IsValidationError(repo.Upsert(context.Background(), &ports.SubscriptionData{})))
}
