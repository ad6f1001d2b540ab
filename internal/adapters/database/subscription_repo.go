package database

import (
	"context"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"invoice30sec.app/internal/ports"
	"invoice30sec.app/pkg/errors"
)

// SubscriptionModel represents the database model for newsletter subscriptions
type SubscriptionModel struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement"`
	Email          string    `gorm:"size:320;not null;uniqueIndex"`
	IsActive       bool      `gorm:"not null;default:true"`
	SubscribedAt   time.Time `gorm:"not null"`
	UnsubscribedAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (SubscriptionModel) TableName() string {
	return "subscriptions"
}

// SubscriptionRepositoryAdapter implements the SubscriptionRepository port using GORM
type SubscriptionRepositoryAdapter struct {
	db *gorm.DB
}

// NewSubscriptionRepositoryAdapter creates a new subscription repository adapter
func NewSubscriptionRepositoryAdapter(db *gorm.DB) ports.SubscriptionRepository {
	return &SubscriptionRepositoryAdapter{db: db}
}

// Upsert inserts the subscription or reactivates the row with the same email.
// On return sub reflects the stored row.
func (r *SubscriptionRepositoryAdapter) Upsert(ctx context.Context, sub *ports.SubscriptionData) error {
	if sub == nil {
		return errors.NewValidationError("subscription cannot be nil")
	}
	if sub.Email == "" {
		return errors.NewValidationError("email cannot be empty")
	}

	subscribedAt := sub.SubscribedAt
	if subscribedAt.IsZero() {
		subscribedAt = time.Now().UTC()
	}

	model := &SubscriptionModel{
		Email:        sub.Email,
		IsActive:     true,
		SubscribedAt: subscribedAt,
	}

	db := r.db.WithContext(ctx)
	result := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "email"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"is_active":       true,
			"subscribed_at":   subscribedAt,
			"unsubscribed_at": nil,
			"updated_at":      time.Now().UTC(),
		}),
	}).Create(model)
	if result.Error != nil {
		return errors.NewDatabaseError("failed to upsert subscription", result.Error)
	}

	// The conflict path does not report the existing primary key on every
	// driver, so read the row back.
	var stored SubscriptionModel
	if err := db.Where("email = ?", sub.Email).First(&stored).Error; err != nil {
		return errors.NewDatabaseError("failed to load subscription", err)
	}

	sub.ID = strconv.FormatUint(stored.ID, 10)
	sub.IsActive = stored.IsActive
	sub.SubscribedAt = stored.SubscribedAt.UTC()
	sub.UnsubscribedAt = stored.UnsubscribedAt
	return nil
}
