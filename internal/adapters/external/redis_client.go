package external

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"invoice30sec.app/internal/config"
	"invoice30sec.app/pkg/errors"
)

// NewRedisClient builds a client from REDIS_URL when set, REDIS_ADDR
// otherwise, and verifies the connection with a ping.
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.NewExternalAPIError("failed to connect to Redis", err)
	}

	return client, nil
}

func redisOptions(cfg *config.RedisConfig) (*redis.Options, error) {
	if cfg == nil {
		return nil, errors.NewConfigurationError("redis config cannot be nil", nil)
	}
	if !cfg.IsConfigured() {
		return nil, errors.NewConfigurationError("REDIS_URL or REDIS_ADDR is required", nil)
	}

	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, errors.NewConfigurationError("invalid REDIS_URL", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}

	opts.DialTimeout = seconds(cfg.DialTimeout, 5)
	opts.ReadTimeout = seconds(cfg.ReadTimeout, 3)
	opts.WriteTimeout = seconds(cfg.WriteTimeout, 3)
	return opts, nil
}

func seconds(n, fallback int) time.Duration {
	if n <= 0 {
		n = fallback
	}
	return time.Duration(n) * time.Second
}
