package external

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"invoice30sec.app/internal/ports"
	"invoice30sec.app/pkg/errors"
)

// sweepEvery is the number of writes between expired-entry sweeps.
// Rate-limit marks are written once per email, so without sweeping the map
// would grow with every distinct visitor.
const sweepEvery = 1024

// MemoryCacheProvider implements CacheProvider in process memory. State is
// lost on restart and is not shared between replicas.
type MemoryCacheProvider struct {
	data   map[string]memoryCacheItem
	mutex  sync.RWMutex
	writes int
	hits   atomic.Int64
	misses atomic.Int64
	now    func() time.Time
}

type memoryCacheItem struct {
	data      []byte
	expiresAt time.Time
}

func NewMemoryCacheProvider() *MemoryCacheProvider {
	return &MemoryCacheProvider{
		data: make(map[string]memoryCacheItem),
		now:  time.Now,
	}
}

func (c *MemoryCacheProvider) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, errors.NewValidationError("cache key cannot be empty")
	}

	c.mutex.RLock()
	item, exists := c.data[key]
	c.mutex.RUnlock()

	if !exists || c.now().After(item.expiresAt) {
		c.RecordMiss()
		return nil, errors.NewNotFoundError("cache miss")
	}

	c.RecordHit()
	out := make([]byte, len(item.data))
	copy(out, item.data)
	return out, nil
}

func (c *MemoryCacheProvider) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return errors.NewValidationError("cache key cannot be empty")
	}
	if value == nil {
		return errors.NewValidationError("cache value cannot be nil")
	}
	if ttl <= 0 {
		return errors.NewValidationError("cache TTL must be positive")
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	c.data[key] = memoryCacheItem{
		data:      stored,
		expiresAt: now.Add(ttl),
	}

	c.writes++
	if c.writes >= sweepEvery {
		c.writes = 0
		c.sweepLocked(now)
	}

	return nil
}

func (c *MemoryCacheProvider) sweepLocked(now time.Time) {
	for k, item := range c.data {
		if now.After(item.expiresAt) {
			delete(c.data, k)
		}
	}
}

func (c *MemoryCacheProvider) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.NewValidationError("cache key cannot be empty")
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

func (c *MemoryCacheProvider) Exists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, errors.NewValidationError("cache key cannot be empty")
	}

	c.mutex.RLock()
	item, exists := c.data[key]
	c.mutex.RUnlock()

	if !exists {
		return false, nil
	}

	return !c.now().After(item.expiresAt), nil
}

func (c *MemoryCacheProvider) Clear(ctx context.Context) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data = make(map[string]memoryCacheItem)
	c.writes = 0
	return nil
}

// Len returns the number of stored entries, expired ones included
func (c *MemoryCacheProvider) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

func (c *MemoryCacheProvider) GetStats() ports.CacheStats {
	return newCacheStats(c.hits.Load(), c.misses.Load())
}

func (c *MemoryCacheProvider) RecordHit() {
	c.hits.Add(1)
}

func (c *MemoryCacheProvider) RecordMiss() {
	c.misses.Add(1)
}
