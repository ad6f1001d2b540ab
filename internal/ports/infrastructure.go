package ports

import (
	"context"
	"time"
)

// LeadPolicy represents the lead intake policy values
type LeadPolicy struct {
	YesPrice         float64
	DefaultCurrency  string
	RateLimitEnabled bool
	RateLimitWindow  time.Duration
	DefaultListLimit int
	MaxListLimit     int
}

// PricingSettings represents pricing lookup configuration
type PricingSettings struct {
	CountryHeader string
	CacheTTL      time.Duration
}

// StorageSettings describes the selected persistence backend
type StorageSettings struct {
	Backend         string
	DatabaseEnabled bool
	RedisEnabled    bool
}

// ConfigProvider defines the contract for configuration management
type ConfigProvider interface {
	GetLeadPolicy() LeadPolicy
	GetPricingSettings() PricingSettings
	GetStorageSettings() StorageSettings
	GetAdminSecret() string
}

// Logger defines the contract for structured logging
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Field represents a log field
type Field struct {
	Key   string
	Value interface{}
}

// F creates a log field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Rejection reasons reported to MetricsCollector.RecordLeadRejected
const (
	RejectHoneypot   = "honeypot"
	RejectValidation = "validation"
	RejectRateLimit  = "rate_limited"
)

// MetricsCollector defines the contract for metrics collection
type MetricsCollector interface {
	RecordLeadSubmitted(ctx context.Context, willingToPay string)
	RecordLeadRejected(ctx context.Context, reason string)
	RecordSubscription(ctx context.Context)
	RecordPricingLookup(ctx context.Context, currency string, cacheHit bool)
	RecordStorageOperation(operation string, duration time.Duration, err error)
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
}
