package external

import (
	"context"
	stderrors "errors"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
	"invoice30sec.app/internal/ports"
	"invoice30sec.app/pkg/errors"
)

const clearBatchSize = 500

// RedisCacheProviderAdapter implements CacheProvider port using Redis.
// Keys are stored as keyPrefix+key so several providers can share a database.
type RedisCacheProviderAdapter struct {
	client    *redis.Client
	keyPrefix string
	hits      atomic.Int64
	misses    atomic.Int64
}

// NewRedisCacheProviderAdapter wraps an existing client. The client is owned
// by the caller.
func NewRedisCacheProviderAdapter(client *redis.Client, keyPrefix string) (*RedisCacheProviderAdapter, error) {
	if client == nil {
		return nil, errors.NewConfigurationError("redis client cannot be nil", nil)
	}
	return &RedisCacheProviderAdapter{client: client, keyPrefix: keyPrefix}, nil
}

func (r *RedisCacheProviderAdapter) key(k string) string {
	return r.keyPrefix + k
}

// Get retrieves a value from Redis cache
func (r *RedisCacheProviderAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, errors.NewValidationError("cache key cannot be empty")
	}

	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			r.RecordMiss()
			return nil, errors.NewNotFoundError("cache miss")
		}
		return nil, errors.NewExternalAPIError("redis get operation failed", err)
	}

	r.RecordHit()
	return val, nil
}

// Set stores a value in Redis cache with TTL
func (r *RedisCacheProviderAdapter) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return errors.NewValidationError("cache key cannot be empty")
	}
	if value == nil {
		return errors.NewValidationError("cache value cannot be nil")
	}
	if ttl <= 0 {
		return errors.NewValidationError("cache TTL must be positive")
	}

	if err := r.client.Set(ctx, r.key(key), value, ttl).Err(); err != nil {
		return errors.NewExternalAPIError("redis set operation failed", err)
	}

	return nil
}

// Delete removes a value from Redis cache
func (r *RedisCacheProviderAdapter) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.NewValidationError("cache key cannot be empty")
	}

	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return errors.NewExternalAPIError("redis delete operation failed", err)
	}

	return nil
}

// Exists checks if a live key exists in Redis cache
func (r *RedisCacheProviderAdapter) Exists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, errors.NewValidationError("cache key cannot be empty")
	}

	count, err := r.client.Exists(ctx, r.key(key)).Result()
	if err != nil {
		return false, errors.NewExternalAPIError("redis exists operation failed", err)
	}

	return count > 0, nil
}

// Clear removes every key under the provider's prefix. Lead data lives in the
// same database, so an unprefixed provider refuses to clear.
func (r *RedisCacheProviderAdapter) Clear(ctx context.Context) error {
	if r.keyPrefix == "" {
		return errors.NewValidationError("refusing to clear an unprefixed cache")
	}

	iter := r.client.Scan(ctx, 0, r.keyPrefix+"*", clearBatchSize).Iterator()
	batch := make([]string, 0, clearBatchSize)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == clearBatchSize {
			if err := r.client.Del(ctx, batch...).Err(); err != nil {
				return errors.NewExternalAPIError("redis clear operation failed", err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return errors.NewExternalAPIError("redis scan failed", err)
	}
	if len(batch) > 0 {
		if err := r.client.Del(ctx, batch...).Err(); err != nil {
			return errors.NewExternalAPIError("redis clear operation failed", err)
		}
	}

	return nil
}

// GetStats returns cache statistics
func (r *RedisCacheProviderAdapter) GetStats() ports.CacheStats {
	return newCacheStats(r.hits.Load(), r.misses.Load())
}

// RecordHit increments the cache hit counter
func (r *RedisCacheProviderAdapter) RecordHit() {
	r.hits.Add(1)
}

// RecordMiss increments the cache miss counter
func (r *RedisCacheProviderAdapter) RecordMiss() {
	r.misses.Add(1)
}

// Ping checks if Redis connection is alive
func (r *RedisCacheProviderAdapter) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return errors.NewExternalAPIError("Redis ping failed", err)
	}
	return nil
}

func newCacheStats(hits, misses int64) ports.CacheStats {
	total := hits + misses
	hitRatio := float64(0)
	if total > 0 {
		hitRatio = float64(hits) / float64(total)
	}

	return ports.CacheStats{
		Hits:        hits,
		Misses:      misses,
		TotalOps:    total,
		HitRatio:    hitRatio,
		LastUpdated: time.Now(),
	}
}
