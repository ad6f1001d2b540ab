package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"invoice30sec.app/internal/ports"
	"invoice30sec.app/pkg/errors"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Each new connection to :memory: opens an empty database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Migrate(db))
	t.Cleanup(func() { _ = Close(db) })

	return db
}

func TestSubscriptionRepository_Upsert_Create(t *testing.T) {
	repo := NewSubscriptionRepositoryAdapter(setupTestDB(t))

	sub := &ports.SubscriptionData{Email: "reader@example.com", IsActive: true}
	err := repo.Upsert(context.Background(), sub)

	require.NoError(t, err)
	assert.NotEmpty(t, sub.ID)
	assert.True(t, sub.IsActive)
	assert.False(t, sub.SubscribedAt.IsZero())
	assert.Nil(t, sub.UnsubscribedAt)
}

func TestSubscriptionRepository_Upsert_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepositoryAdapter(db)
	ctx := context.Background()

	first := &ports.SubscriptionData{Email: "reader@example.com", SubscribedAt: time.Now().UTC().Add(-time.Hour)}
	require.NoError(t, repo.Upsert(ctx, first))

	// Simulate an unsubscribe that happened through another channel.
	unsubscribed := time.Now().UTC()
	require.NoError(t, db.Model(&SubscriptionModel{}).
		Where("email = ?", "reader@example.com").
		Updates(map[string]interface{}{"is_active": false, "unsubscribed_at": unsubscribed}).Error)

	second := &ports.SubscriptionData{Email: "reader@example.com", SubscribedAt: time.Now().UTC()}
	require.NoError(t, repo.Upsert(ctx, second))

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.IsActive)
	assert.Nil(t, second.UnsubscribedAt)
	assert.True(t, second.SubscribedAt.After(first.SubscribedAt))

	var count int64
	require.NoError(t, db.Model(&SubscriptionModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSubscriptionRepository_Upsert_Invalid(t *testing.T) {
	repo := NewSubscriptionRepositoryAdapter(setupTestDB(t))

	assert.True(t, errors.IsValidationError(repo.Upsert(context.Background(), nil)))
	assert.True(t, errors.IsValidationError(repo.Upsert(context.Background(), &ports.SubscriptionData{})))
}
