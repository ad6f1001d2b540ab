package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"invoice30sec.app/internal/ports"
)

type LeadRepository struct {
	mock.Mock
}

func NewLeadRepository(t *testing.T) *LeadRepository {
	m := &LeadRepository{}
	register(t, m)
	return m
}

func (m *LeadRepository) Insert(ctx context.Context, lead *ports.LeadData) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *LeadRepository) ListRecent(ctx context.Context, limit int) ([]*ports.LeadData, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ports.LeadData), args.Error(1)
}

func (m *LeadRepository) GetByID(ctx context.Context, id string) (*ports.LeadData, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.LeadData), args.Error(1)
}
