package mocks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"invoice30sec.app/internal/ports"
)

type ConfigProvider struct {
	mock.Mock
}

func NewConfigProvider(t *testing.T) *ConfigProvider {
	m := &ConfigProvider{}
	register(t, m)
	return m
}

func (m *ConfigProvider) GetLeadPolicy() ports.LeadPolicy {
	return m.Called().Get(0).(ports.LeadPolicy)
}

func (m *ConfigProvider) GetPricingSettings() ports.PricingSettings {
	return m.Called().Get(0).(ports.PricingSettings)
}

func (m *ConfigProvider) GetStorageSettings() ports.StorageSettings {
	return m.Called().Get(0).(ports.StorageSettings)
}

func (m *ConfigProvider) GetAdminSecret() string {
	return m.Called().String(0)
}

// Logger discards every call. Tests that need to assert on log output use
// the slog adapter with a buffer instead.
type Logger struct{}

func NewLogger() *Logger { return &Logger{} }

func (*Logger) Debug(string, ...ports.Field) {}
func (*Logger) Info(string, ...ports.Field)  {}
func (*Logger) Warn(string, ...ports.Field)  {}
func (*Logger) Error(string, ...ports.Field) {}

type MetricsCollector struct {
	mock.Mock
}

func NewMetricsCollector(t *testing.T) *MetricsCollector {
	m := &MetricsCollector{}
	register(t, m)
	return m
}

func (m *MetricsCollector) RecordLeadSubmitted(ctx context.Context, willingToPay string) {
	m.Called(ctx, willingToPay)
}

func (m *MetricsCollector) RecordLeadRejected(ctx context.Context, reason string) {
	m.Called(ctx, reason)
}

func (m *MetricsCollector) RecordSubscription(ctx context.Context) {
	m.Called(ctx)
}

func (m *MetricsCollector) RecordPricingLookup(ctx context.Context, currency string, cacheHit bool) {
	m.Called(ctx, currency, cacheHit)
}

func (m *MetricsCollector) RecordStorageOperation(operation string, duration time.Duration, err error) {
	m.Called(operation, duration, err)
}

func (m *MetricsCollector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	m.Called(method, route, status, duration)
}
