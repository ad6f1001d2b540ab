package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"invoice30sec.app/internal/ports"
	"invoice30sec.app/pkg/errors"
)

func TestLeadRepository_InsertAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLeadRepositoryAdapter(db)
	ctx := context.Background()

	lead := &ports.LeadData{
		Email:        "a@b.co",
		WillingToPay: "maybe",
		Price:        149,
		Currency:     "INR",
		Country:      "IN",
		UserAgent:    "Mozilla/5.0",
		SubmittedAt:  time.Now().UTC(),
	}
	require.NoError(t, repo.Insert(ctx, lead))
	require.NotEmpty(t, lead.ID)

	found, err := repo.GetByID(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, "maybe", found.WillingToPay)
	assert.Equal(t, 149.0, found.Price)
	assert.Equal(t, "INR", found.Currency)
	assert.Empty(t, found.Reason)
	assert.WithinDuration(t, lead.SubmittedAt, found.SubmittedAt, time.Second)

	var model LeadModel
	require.NoError(t, db.First(&model, "email = ?", "a@b.co").Error)
	assert.Nil(t, model.Reason)
}

func TestLeadRepository_NoAnswerStoresNullPrice(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLeadRepositoryAdapter(db)

	lead := &ports.LeadData{
		Email:        "a@b.co",
		WillingToPay: "no",
		Reason:       "too_expensive",
		Country:      "Unknown",
		UserAgent:    "Unknown",
		SubmittedAt:  time.Now().UTC(),
	}
	require.NoError(t, repo.Insert(context.Background(), lead))

	var model LeadModel
	require.NoError(t, db.First(&model).Error)
	assert.Nil(t, model.Price)
	assert.Nil(t, model.Currency)
	require.NotNil(t, model.Reason)
	assert.Equal(t, "too_expensive", *model.Reason)
}

func TestLeadRepository_ListRecent(t *testing.T) {
	repo := NewLeadRepositoryAdapter(setupTestDB(t))
	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Insert(ctx, &ports.LeadData{
			Email:        fmt.Sprintf("user%d@example.com", i),
			WillingToPay: "yes",
			Price:        199,
			Currency:     "INR",
			Country:      "IN",
			UserAgent:    "test",
			SubmittedAt:  base.Add(time.Duration(i) * time.Minute),
		}))
	}

	leads, err := repo.ListRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, leads, 3)
	assert.Equal(t, "user4@example.com", leads[0].Email)
	assert.Equal(t, "user3@example.com", leads[1].Email)
	assert.Equal(t, "user2@example.com", leads[2].Email)

	all, err := repo.ListRecent(ctx, 50)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	_, err = repo.ListRecent(ctx, 0)
	assert.True(t, errors.IsValidationError(err))
}

func TestLeadRepository_GetByID_NotFound(t *testing.T) {
	repo := NewLeadRepositoryAdapter(setupTestDB(t))

	for _, id := range []string{"999", "abc", "0", ""} {
		_, err := repo.GetByID(context.Background(), id)
		assert.True(t, errors.IsNotFoundError(err), id)
	}
}

func TestUnconfiguredRepository(t *testing.T) {
	repo := NewUnconfiguredRepository("postgres")
	ctx := context.Background()

	assert.True(t, errors.IsConfigurationError(repo.Insert(ctx, &ports.LeadData{})))
	_, err := repo.ListRecent(ctx, 10)
	assert.True(t, errors.IsConfigurationError(err))
	_, err = repo.GetByID(ctx, "1")
	assert.True(t, errors.IsConfigurationError(err))
	assert.True(t, errors.IsConfigurationError(repo.Upsert(ctx, &ports.SubscriptionData{Email: "a@b.co"})))
	assert.Contains(t, repo.Insert(ctx, nil).Error(), "postgres storage is not configured")
}
