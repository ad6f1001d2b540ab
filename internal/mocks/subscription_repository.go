package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"invoice30sec.app/internal/ports"
)

type SubscriptionRepository struct {
	mock.Mock
}

func NewSubscriptionRepository(t *testing.T) *SubscriptionRepository {
	m := &SubscriptionRepository{}
	register(t, m)
	return m
}

func (m *SubscriptionRepository) Upsert(ctx context.Context, sub *ports.SubscriptionData) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}
