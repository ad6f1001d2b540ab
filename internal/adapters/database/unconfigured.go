package database

import (
	"context"

	"invoice30sec.app/internal/ports"
	"invoice30sec.app/pkg/errors"
)

// UnconfiguredRepository stands in for a storage backend whose connection
// settings are missing. Every call fails with a configuration error so the
// service can start and report 503 per request.
type UnconfiguredRepository struct {
	backend string
}

// NewUnconfiguredRepository creates a repository that always reports backend as unconfigured
func NewUnconfiguredRepository(backend string) *UnconfiguredRepository {
	return &UnconfiguredRepository{backend: backend}
}

var (
	_ ports.LeadRepository         = (*UnconfiguredRepository)(nil)
	_ ports.SubscriptionRepository = (*UnconfiguredRepository)(nil)
)

func (r *UnconfiguredRepository) err() error {
	return errors.NewConfigurationError(r.backend+" storage is not configured", nil)
}

func (r *UnconfiguredRepository) Insert(context.Context, *ports.LeadData) error {
	return r.err()
}

func (r *UnconfiguredRepository) ListRecent(context.Context, int) ([]*ports.LeadData, error) {
	return nil, r.err()
}

func (r *UnconfiguredRepository) GetByID(context.Context, string) (*ports.LeadData, error) {
	return nil, r.err()
}

func (r *UnconfiguredRepository) Upsert(context.Context, *ports.SubscriptionData) error {
	return r.err()
}
