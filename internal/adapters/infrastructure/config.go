package infrastructure

import (
	"invoice30sec.app/internal/config"
	"invoice30sec.app/internal/ports"
)

// ConfigProviderAdapter implements the ConfigProvider port
type ConfigProviderAdapter struct {
	config *config.Config
}

// NewConfigProviderAdapter creates a new config provider adapter
func NewConfigProviderAdapter(cfg *config.Config) *ConfigProviderAdapter {
	return &ConfigProviderAdapter{
		config: cfg,
	}
}

// GetLeadPolicy returns the lead intake policy
func (c *ConfigProviderAdapter) GetLeadPolicy() ports.LeadPolicy {
	l := c.config.Leads
	return ports.LeadPolicy{
		YesPrice:         l.YesPrice,
		DefaultCurrency:  l.DefaultCurrency,
		RateLimitEnabled: l.RateLimitEnabled,
		RateLimitWindow:  l.RateLimitWindow,
		DefaultListLimit: l.DefaultListLimit,
		MaxListLimit:     l.MaxListLimit,
	}
}

// GetPricingSettings returns pricing lookup configuration
func (c *ConfigProviderAdapter) GetPricingSettings() ports.PricingSettings {
	return ports.PricingSettings{
		CountryHeader: c.config.Pricing.CountryHeader,
		CacheTTL:      c.config.Pricing.CacheTTL,
	}
}

// GetStorageSettings describes the selected backend and what is configured
func (c *ConfigProviderAdapter) GetStorageSettings() ports.StorageSettings {
	return ports.StorageSettings{
		Backend:         c.config.Storage.Backend.String(),
		DatabaseEnabled: c.config.Database.IsConfigured(),
		RedisEnabled:    c.config.Cache.Redis.IsConfigured(),
	}
}

// GetAdminSecret returns the shared secret for admin reads. Empty disables them.
func (c *ConfigProviderAdapter) GetAdminSecret() string {
	return c.config.Leads.AdminSecret
}
