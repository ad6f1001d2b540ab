package ports

// ApplicationPorts aggregates all ports for dependency injection
type ApplicationPorts struct {
	// Storage
	LeadRepository         LeadRepository
	SubscriptionRepository SubscriptionRepository

	// Cache
	RateLimitStore CacheProvider
	PricingCache   PricingCache
	CacheMetrics   CacheMetrics

	// Infrastructure
	ConfigProvider ConfigProvider
	Logger         Logger
	Metrics        MetricsCollector
	HealthChecker  SystemHealthChecker
}
