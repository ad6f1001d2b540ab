package external

import (
	"fmt"

	"github.com/go-redis/redis/v8"
	"invoice30sec.app/internal/config"
	"invoice30sec.app/internal/ports"
	"invoice30sec.app/pkg/errors"
)

// CacheProvider is the combined surface of the concrete providers
type CacheProvider interface {
	ports.CacheProvider
	ports.CacheMetrics
}

type CacheProviderFactory struct {
	redisClient *redis.Client
}

// NewCacheProviderFactory creates a factory. redisClient may be nil when no
// redis is configured; asking for a redis cache then fails.
func NewCacheProviderFactory(redisClient *redis.Client) *CacheProviderFactory {
	return &CacheProviderFactory{redisClient: redisClient}
}

func (f *CacheProviderFactory) CreateCacheProvider(cfg *config.CacheConfig) (CacheProvider, error) {
	if cfg == nil {
		return nil, errors.NewConfigurationError("cache config cannot be nil", nil)
	}

	switch cfg.Type {
	case config.CacheTypeMemory:
		return NewMemoryCacheProvider(), nil
	case config.CacheTypeRedis:
		if f.redisClient == nil {
			return nil, errors.NewConfigurationError("CACHE_TYPE=redis requires REDIS_URL or REDIS_ADDR", nil)
		}
		provider, err := NewRedisCacheProviderAdapter(f.redisClient, "")
		if err != nil {
			return nil, err
		}
		return provider, nil
	default:
		return nil, errors.NewConfigurationError(
			fmt.Sprintf("unsupported cache type: %s", cfg.Type.String()), nil)
	}
}
