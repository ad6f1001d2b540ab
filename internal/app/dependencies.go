package app

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
	"invoice30sec.app/internal/adapters/database"
	"invoice30sec.app/internal/adapters/external"
	"invoice30sec.app/internal/adapters/infrastructure"
	"invoice30sec.app/internal/adapters/kv"
	"invoice30sec.app/internal/config"
	"invoice30sec.app/internal/ports"
)

// DependencyContainer owns the connections and the adapters built on them
type DependencyContainer struct {
	config  *config.Config
	db      *gorm.DB
	redis   *redis.Client
	metrics *infrastructure.PrometheusMetricsCollector
	ports   *ports.ApplicationPorts
}

// Connections carries pre-opened clients. Either may be nil.
type Connections struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// NewDependencyContainer opens the connections the configuration asks for
// and wires the ports. A missing connection string is not an error; the
// affected repository answers every call with a configuration error instead.
func NewDependencyContainer(ctx context.Context, cfg *config.Config, logger ports.Logger) (*DependencyContainer, error) {
	conns, err := openConnections(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	container, err := NewDependencyContainerWithConnections(cfg, conns, logger)
	if err != nil {
		closeConnections(conns, logger)
		return nil, err
	}
	return container, nil
}

func openConnections(ctx context.Context, cfg *config.Config, logger ports.Logger) (Connections, error) {
	var conns Connections

	if cfg.Storage.Backend == config.StorageBackendPostgres {
		if cfg.Database.IsConfigured() {
			db, err := database.Open(cfg.Database)
			if err != nil {
				return conns, fmt.Errorf("open database: %w", err)
			}
			if cfg.Database.AutoMigrate {
				if err := database.Migrate(db); err != nil {
					_ = database.Close(db)
					return conns, fmt.Errorf("run migrations: %w", err)
				}
				logger.Info("Database migrations completed")
			}
			conns.DB = db
		} else {
			logger.Warn("DATABASE_URL is not set; lead and subscription storage is disabled")
		}
	}

	if usesRedis(cfg) {
		if cfg.Cache.Redis.IsConfigured() {
			client, err := external.NewRedisClient(ctx, &cfg.Cache.Redis)
			if err != nil {
				closeConnections(conns, logger)
				return conns, fmt.Errorf("open redis: %w", err)
			}
			conns.Redis = client
		} else {
			logger.Warn("REDIS_URL and REDIS_ADDR are not set; redis-backed features are disabled")
		}
	}

	return conns, nil
}

func usesRedis(cfg *config.Config) bool {
	return cfg.Storage.Backend == config.StorageBackendRedis || cfg.Cache.Type == config.CacheTypeRedis
}

// NewDependencyContainerWithConnections wires the ports on top of conns
func NewDependencyContainerWithConnections(cfg *config.Config, conns Connections, logger ports.Logger) (*DependencyContainer, error) {
	c := &DependencyContainer{
		config: cfg,
		db:     conns.DB,
		redis:  conns.Redis,
	}

	cacheConfig := cfg.Cache
	if cacheConfig.Type == config.CacheTypeRedis && c.redis == nil {
		logger.Warn("Redis cache requested without a redis connection, using memory cache")
		cacheConfig.Type = config.CacheTypeMemory
	}
	cacheProvider, err := external.NewCacheProviderFactory(c.redis).CreateCacheProvider(&cacheConfig)
	if err != nil {
		return nil, fmt.Errorf("create cache provider: %w", err)
	}
	logger.Info("Cache provider initialized", ports.F("type", cacheConfig.Type.String()))

	c.metrics = infrastructure.NewPrometheusMetricsCollector(infrastructure.MetricsCollectorConfig{
		CacheMetrics:   cacheProvider,
		IncludeRuntime: true,
	})

	backend := cfg.Storage.Backend.String()
	leadRepo, subRepo := c.repositories()
	logger.Info("Storage initialized", ports.F("backend", backend))

	configProvider := infrastructure.NewConfigProviderAdapter(cfg)

	c.ports = &ports.ApplicationPorts{
		LeadRepository:         infrastructure.NewInstrumentedLeadRepository(leadRepo, backend, logger, c.metrics),
		SubscriptionRepository: infrastructure.NewInstrumentedSubscriptionRepository(subRepo, backend, logger, c.metrics),
		RateLimitStore:         cacheProvider,
		PricingCache:           external.NewPricingCacheAdapter(cacheProvider),
		CacheMetrics:           cacheProvider,
		ConfigProvider:         configProvider,
		Logger:                 logger,
		Metrics:                c.metrics,
		HealthChecker: infrastructure.NewSystemHealthChecker(infrastructure.SystemHealthCheckerConfig{
			Checkers:       c.healthCheckers(),
			ConfigProvider: configProvider,
		}),
	}

	return c, nil
}

func (c *DependencyContainer) repositories() (ports.LeadRepository, ports.SubscriptionRepository) {
	switch c.config.Storage.Backend {
	case config.StorageBackendRedis:
		if c.redis != nil {
			return kv.NewLeadRepositoryAdapter(c.redis, kv.DefaultListCap), kv.NewSubscriptionRepositoryAdapter(c.redis)
		}
	default:
		if c.db != nil {
			return database.NewLeadRepositoryAdapter(c.db), database.NewSubscriptionRepositoryAdapter(c.db)
		}
	}
	unconfigured := database.NewUnconfiguredRepository(c.config.Storage.Backend.String())
	return unconfigured, unconfigured
}

func (c *DependencyContainer) healthCheckers() map[string]ports.HealthChecker {
	checkers := make(map[string]ports.HealthChecker)
	if c.config.Storage.Backend == config.StorageBackendPostgres {
		checkers["database"] = infrastructure.NewDatabaseHealthChecker(c.db)
	}
	if usesRedis(c.config) {
		checkers["redis"] = infrastructure.NewRedisHealthChecker(c.redis)
	}
	return checkers
}

func (c *DependencyContainer) ApplicationPorts() *ports.ApplicationPorts {
	return c.ports
}

// Metrics returns the collector backing the /metrics endpoint
func (c *DependencyContainer) Metrics() *infrastructure.PrometheusMetricsCollector {
	return c.metrics
}

// Cleanup closes every connection the container holds
func (c *DependencyContainer) Cleanup() {
	closeConnections(Connections{DB: c.db, Redis: c.redis}, c.ports.Logger)
}

func closeConnections(conns Connections, logger ports.Logger) {
	if conns.DB != nil {
		if err := database.Close(conns.DB); err != nil {
			logger.Warn("Error closing database", ports.F("error", err))
		}
	}
	if conns.Redis != nil {
		if err := conns.Redis.Close(); err != nil {
			logger.Warn("Error closing redis", ports.F("error", err))
		}
	}
}
