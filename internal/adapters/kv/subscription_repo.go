package kv

import (
	"context"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"invoice30sec.app/internal/ports"
	"invoice30sec.app/pkg/errors"
)

const (
	subscriptionCounterKey = "subscriptions:counter"
	subscriptionKeyPrefix  = "subscription:"
)

// SubscriptionRepositoryAdapter stores one hash per email under
// subscription:<email> with fields id, email, is_active, subscribed_at and
// unsubscribed_at.
type SubscriptionRepositoryAdapter struct {
	client *redis.Client
}

// NewSubscriptionRepositoryAdapter creates a new subscription repository adapter
func NewSubscriptionRepositoryAdapter(client *redis.Client) ports.SubscriptionRepository {
	return &SubscriptionRepositoryAdapter{client: client}
}

// Upsert creates the hash or reactivates it. The id is assigned once with
// HSETNX so repeat calls keep it.
func (r *SubscriptionRepositoryAdapter) Upsert(ctx context.Context, sub *ports.SubscriptionData) error {
	if sub == nil {
		return errors.NewValidationError("subscription cannot be nil")
	}
	if sub.Email == "" {
		return errors.NewValidationError("email cannot be empty")
	}

	key := subscriptionKeyPrefix + sub.Email

	id, err := r.client.HGet(ctx, key, "id").Result()
	if err != nil && err != redis.Nil {
		return errors.NewDatabaseError("failed to read subscription", err)
	}
	if id == "" {
		n, incrErr := r.client.Incr(ctx, subscriptionCounterKey).Result()
		if incrErr != nil {
			return errors.NewDatabaseError("failed to allocate subscription id", incrErr)
		}
		if _, setErr := r.client.HSetNX(ctx, key, "id", strconv.FormatInt(n, 10)).Result(); setErr != nil {
			return errors.NewDatabaseError("failed to store subscription id", setErr)
		}
	}

	subscribedAt := sub.SubscribedAt
	if subscribedAt.IsZero() {
		subscribedAt = time.Now().UTC()
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			"email", sub.Email,
			"is_active", "1",
			"subscribed_at", subscribedAt.UTC().Format(time.RFC3339Nano),
		)
		pipe.HDel(ctx, key, "unsubscribed_at")
		return nil
	})
	if err != nil {
		return errors.NewDatabaseError("failed to upsert subscription", err)
	}

	// A concurrent first write may have won the HSETNX race; read back the
	// id that actually stuck.
	stored, err := r.client.HGet(ctx, key, "id").Result()
	if err != nil {
		return errors.NewDatabaseError("failed to read subscription id", err)
	}

	sub.ID = stored
	sub.IsActive = true
	sub.SubscribedAt = subscribedAt.UTC()
	sub.UnsubscribedAt = nil
	return nil
}
