package mocks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"invoice30sec.app/internal/ports"
)

type CacheProvider struct {
	mock.Mock
}

func NewCacheProvider(t *testing.T) *CacheProvider {
	m := &CacheProvider{}
	register(t, m)
	return m
}

func (m *CacheProvider) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *CacheProvider) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *CacheProvider) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *CacheProvider) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *CacheProvider) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type PricingCache struct {
	mock.Mock
}

func NewPricingCache(t *testing.T) *PricingCache {
	m := &PricingCache{}
	register(t, m)
	return m
}

func (m *PricingCache) Get(ctx context.Context, key string) (*ports.PricingData, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.PricingData), args.Error(1)
}

func (m *PricingCache) Set(ctx context.Context, key string, pricing *ports.PricingData, ttl time.Duration) error {
	args := m.Called(ctx, key, pricing, ttl)
	return args.Error(0)
}
