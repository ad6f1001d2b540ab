package ports

import (
	"context"
	"time"
)

// SubscriptionData represents a newsletter subscription for persistence
type SubscriptionData struct {
	ID             string
	Email          string
	IsActive       bool
	SubscribedAt   time.Time
	UnsubscribedAt *time.Time
}

// SubscriptionRepository defines the storage port for newsletter signups.
// Upsert inserts a new active row or reactivates the existing one for the
// same email, and fills in the stored ID.
type SubscriptionRepository interface {
	Upsert(ctx context.Context, sub *SubscriptionData) error
}
