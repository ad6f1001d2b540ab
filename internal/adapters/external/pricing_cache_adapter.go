package external

import (
	"context"
	"encoding/json"
	"time"

	"invoice30sec.app/internal/ports"
	"invoice30sec.app/pkg/errors"
)

// PricingCacheAdapter bridges generic CacheProvider to the typed PricingCache
type PricingCacheAdapter struct {
	cacheProvider ports.CacheProvider
}

// NewPricingCacheAdapter creates a pricing cache adapter using generic cache provider
func NewPricingCacheAdapter(cacheProvider ports.CacheProvider) ports.PricingCache {
	return &PricingCacheAdapter{
		cacheProvider: cacheProvider,
	}
}

// Get retrieves pricing data from cache
func (p *PricingCacheAdapter) Get(ctx context.Context, key string) (*ports.PricingData, error) {
	data, err := p.cacheProvider.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var pricing ports.PricingData
	if err := json.Unmarshal(data, &pricing); err != nil {
		return nil, errors.NewExternalAPIError("failed to deserialize pricing data", err)
	}

	return &pricing, nil
}

// Set stores pricing data in cache
func (p *PricingCacheAdapter) Set(ctx context.Context, key string, pricing *ports.PricingData, ttl time.Duration) error {
	if pricing == nil {
		return errors.NewValidationError("pricing data cannot be nil")
	}

	data, err := json.Marshal(pricing)
	if err != nil {
		return errors.NewExternalAPIError("failed to serialize pricing data", err)
	}

	return p.cacheProvider.Set(ctx, key, data, ttl)
}
