package ports

import (
	"context"
	"time"
)

// CacheProvider defines the contract for key/value operations with expiry.
// Rate-limit marks and the pricing cache are both stored through it.
type CacheProvider interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Clear(ctx context.Context) error
}

// CacheStats represents cache performance metrics
type CacheStats struct {
	Hits        int64
	Misses      int64
	TotalOps    int64
	HitRatio    float64
	LastUpdated time.Time
}

// CacheMetrics defines the contract for cache performance tracking
type CacheMetrics interface {
	GetStats() CacheStats
	RecordHit()
	RecordMiss()
}

// PricingData is the cached pricing entry for one country signal
type PricingData struct {
	Country        string    `json:"country"`
	Currency       string    `json:"currency"`
	CurrencySymbol string    `json:"currencySymbol"`
	DefaultPrice   float64   `json:"defaultPrice"`
	Options        []float64 `json:"options"`
}

// PricingCache defines the contract for caching resolved pricing entries
type PricingCache interface {
	Get(ctx context.Context, key string) (*PricingData, error)
	Set(ctx context.Context, key string, pricing *PricingData, ttl time.Duration) error
}
