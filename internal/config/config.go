package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"invoice30sec.app/pkg/errors"
)

const (
	maxRedisDB       = 15
	maxPortNumber    = 65535
	maxListLimitCap  = 1000
	maxPricingTTL    = 7 * 24 * time.Hour
	maxRateLimitSpan = 24 * time.Hour
)

// Config represents the application configuration structure
type Config struct {
	Server   ServerConfig   `split_words:"true"`
	Storage  StorageConfig  `split_words:"true"`
	Database DatabaseConfig `split_words:"true"`
	Cache    CacheConfig    `split_words:"true"`
	Leads    LeadsConfig    `split_words:"true"`
	Pricing  PricingConfig  `split_words:"true"`
	Log      LogConfig      `split_words:"true"`
}

type ServerConfig struct {
	Port         int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"15s"`
	GinMode      string        `envconfig:"GIN_MODE" default:"release"`
}

// StorageBackend selects the lead/subscription persistence implementation
type StorageBackend int

const (
	StorageBackendUnknown StorageBackend = iota
	StorageBackendPostgres
	StorageBackendRedis
)

// String returns the string representation of storage backend
func (s StorageBackend) String() string {
	switch s {
	case StorageBackendPostgres:
		return "postgres"
	case StorageBackendRedis:
		return "redis"
	default:
		return "unknown"
	}
}

// IsValid checks if the storage backend is valid
func (s StorageBackend) IsValid() bool {
	return s == StorageBackendPostgres || s == StorageBackendRedis
}

// StorageBackendFromString converts string to StorageBackend enum
func StorageBackendFromString(s string) StorageBackend {
	switch strings.ToLower(s) {
	case "postgres", "postgresql":
		return StorageBackendPostgres
	case "redis", "kv":
		return StorageBackendRedis
	default:
		return StorageBackendUnknown
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for envconfig
func (s *StorageBackend) UnmarshalText(text []byte) error {
	*s = StorageBackendFromString(string(text))
	return nil
}

// MarshalText implements encoding.TextMarshaler for envconfig
func (s StorageBackend) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type StorageConfig struct {
	Backend StorageBackend `envconfig:"STORAGE_BACKEND" default:"postgres"`
}

// DatabaseConfig holds the relational store settings. An empty URL is not a
// startup error: requests touching storage fail with a configuration error.
type DatabaseConfig struct {
	URL          string `envconfig:"DATABASE_URL"`
	MaxOpenConns int    `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns int    `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	AutoMigrate  bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`
}

// IsConfigured reports whether a connection string was supplied
func (d DatabaseConfig) IsConfigured() bool {
	return strings.TrimSpace(d.URL) != ""
}

// CacheType represents the type of cache to use
type CacheType int

const (
	CacheTypeUnknown CacheType = iota
	CacheTypeMemory
	CacheTypeRedis
)

// String returns the string representation of cache type
func (c CacheType) String() string {
	switch c {
	case CacheTypeMemory:
		return "memory"
	case CacheTypeRedis:
		return "redis"
	default:
		return "unknown"
	}
}

// IsValid checks if the cache type is valid
func (c CacheType) IsValid() bool {
	return c == CacheTypeMemory || c == CacheTypeRedis
}

// CacheTypeFromString converts string to CacheType enum
func CacheTypeFromString(s string) CacheType {
	switch strings.ToLower(s) {
	case "memory":
		return CacheTypeMemory
	case "redis":
		return CacheTypeRedis
	default:
		return CacheTypeUnknown
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for envconfig
func (c *CacheType) UnmarshalText(text []byte) error {
	*c = CacheTypeFromString(string(text))
	return nil
}

// MarshalText implements encoding.TextMarshaler for envconfig
func (c CacheType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

type CacheConfig struct {
	Type  CacheType   `envconfig:"CACHE_TYPE" default:"memory"`
	Redis RedisConfig `split_words:"true"`
}

type RedisConfig struct {
	URL          string `envconfig:"REDIS_URL"`
	Addr         string `envconfig:"REDIS_ADDR"`
	Password     string `envconfig:"REDIS_PASSWORD" default:""`
	DB           int    `envconfig:"REDIS_DB" default:"0"`
	DialTimeout  int    `envconfig:"REDIS_DIAL_TIMEOUT" default:"5"`
	ReadTimeout  int    `envconfig:"REDIS_READ_TIMEOUT" default:"3"`
	WriteTimeout int    `envconfig:"REDIS_WRITE_TIMEOUT" default:"3"`
}

// IsConfigured reports whether either a URL or an address was supplied
func (r RedisConfig) IsConfigured() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Addr) != ""
}

type LeadsConfig struct {
	AdminSecret      string        `envconfig:"LEADS_ADMIN_SECRET"`
	YesPrice         float64       `envconfig:"LEADS_YES_PRICE" default:"199"`
	DefaultCurrency  string        `envconfig:"LEADS_DEFAULT_CURRENCY" default:"INR"`
	RateLimitEnabled bool          `envconfig:"LEADS_RATE_LIMIT_ENABLED" default:"true"`
	RateLimitWindow  time.Duration `envconfig:"LEADS_RATE_LIMIT_WINDOW" default:"60s"`
	DefaultListLimit int           `envconfig:"LEADS_DEFAULT_LIST_LIMIT" default:"50"`
	MaxListLimit     int           `envconfig:"LEADS_MAX_LIST_LIMIT" default:"200"`
}

type PricingConfig struct {
	CountryHeader string        `envconfig:"PRICING_COUNTRY_HEADER" default:"X-Vercel-IP-Country"`
	CacheTTL      time.Duration `envconfig:"PRICING_CACHE_TTL" default:"12h"`
}

type LogConfig struct {
	Level    string `envconfig:"LOG_LEVEL" default:"info"`
	FilePath string `envconfig:"LOG_FILE_PATH"`
}

func LoadConfig() (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, errors.NewConfigurationError("error processing config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	if err := c.Leads.Validate(); err != nil {
		return err
	}
	if err := c.Pricing.Validate(); err != nil {
		return err
	}
	return nil
}

func (s *ServerConfig) Validate() error {
	if s.Port < 1 || s.Port > maxPortNumber {
		return errors.NewConfigurationError("SERVER_PORT must be between 1 and 65535", nil)
	}
	if s.ReadTimeout <= 0 || s.WriteTimeout <= 0 {
		return errors.NewConfigurationError("SERVER_READ_TIMEOUT and SERVER_WRITE_TIMEOUT must be positive", nil)
	}
	switch s.GinMode {
	case "debug", "release", "test":
		return nil
	default:
		return errors.NewConfigurationError("GIN_MODE must be one of: debug, release, test", nil)
	}
}

func (s *StorageConfig) Validate() error {
	if !s.Backend.IsValid() {
		return errors.NewConfigurationError("STORAGE_BACKEND must be one of: postgres, redis", nil)
	}
	return nil
}

func (d *DatabaseConfig) Validate() error {
	if d.MaxOpenConns < 1 {
		return errors.NewConfigurationError("DB_MAX_OPEN_CONNS must be at least 1", nil)
	}
	if d.MaxIdleConns < 0 || d.MaxIdleConns > d.MaxOpenConns {
		return errors.NewConfigurationError("DB_MAX_IDLE_CONNS must be between 0 and DB_MAX_OPEN_CONNS", nil)
	}
	return nil
}

func (c *CacheConfig) Validate() error {
	if !c.Type.IsValid() {
		return errors.NewConfigurationError("CACHE_TYPE must be one of: memory, redis", nil)
	}
	return c.Redis.Validate()
}

func (r *RedisConfig) Validate() error {
	if r.URL != "" && !strings.HasPrefix(r.URL, "redis://") && !strings.HasPrefix(r.URL, "rediss://") {
		return errors.NewConfigurationError("REDIS_URL must start with redis:// or rediss://", nil)
	}
	if r.DB < 0 || r.DB > maxRedisDB {
		return errors.NewConfigurationError("REDIS_DB must be between 0 and 15", nil)
	}
	if r.DialTimeout < 1 {
		return errors.NewConfigurationError("REDIS_DIAL_TIMEOUT must be at least 1 second", nil)
	}
	if r.ReadTimeout < 1 {
		return errors.NewConfigurationError("REDIS_READ_TIMEOUT must be at least 1 second", nil)
	}
	if r.WriteTimeout < 1 {
		return errors.NewConfigurationError("REDIS_WRITE_TIMEOUT must be at least 1 second", nil)
	}
	return nil
}

func (l *LeadsConfig) Validate() error {
	if l.YesPrice <= 0 {
		return errors.NewConfigurationError("LEADS_YES_PRICE must be positive", nil)
	}
	if len(strings.TrimSpace(l.DefaultCurrency)) != 3 {
		return errors.NewConfigurationError("LEADS_DEFAULT_CURRENCY must be a 3-letter currency code", nil)
	}
	if l.RateLimitWindow <= 0 || l.RateLimitWindow > maxRateLimitSpan {
		return errors.NewConfigurationError("LEADS_RATE_LIMIT_WINDOW must be between 1s and 24h", nil)
	}
	if l.MaxListLimit < 1 || l.MaxListLimit > maxListLimitCap {
		return errors.NewConfigurationError(
			fmt.Sprintf("LEADS_MAX_LIST_LIMIT must be between 1 and %d", maxListLimitCap), nil)
	}
	if l.DefaultListLimit < 1 || l.DefaultListLimit > l.MaxListLimit {
		return errors.NewConfigurationError("LEADS_DEFAULT_LIST_LIMIT must be between 1 and LEADS_MAX_LIST_LIMIT", nil)
	}
	return nil
}

func (p *PricingConfig) Validate() error {
	if strings.TrimSpace(p.CountryHeader) == "" {
		return errors.NewConfigurationError("PRICING_COUNTRY_HEADER cannot be empty", nil)
	}
	if p.CacheTTL <= 0 || p.CacheTTL > maxPricingTTL {
		return errors.NewConfigurationError("PRICING_CACHE_TTL must be between 1s and 168h", nil)
	}
	return nil
}

// Summary returns loggable key/value pairs with secrets masked
func (c *Config) Summary() []interface{} {
	return []interface{}{
		"port", c.Server.Port,
		"storage_backend", c.Storage.Backend.String(),
		"database_configured", c.Database.IsConfigured(),
		"cache_type", c.Cache.Type.String(),
		"redis_configured", c.Cache.Redis.IsConfigured(),
		"admin_secret", maskString(c.Leads.AdminSecret),
		"rate_limit_enabled", c.Leads.RateLimitEnabled,
		"rate_limit_window", c.Leads.RateLimitWindow.String(),
		"max_list_limit", c.Leads.MaxListLimit,
		"pricing_country_header", c.Pricing.CountryHeader,
		"log_level", c.Log.Level,
	}
}

func maskString(s string) string {
	if s == "" {
		return "<not set>"
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
