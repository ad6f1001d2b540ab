package infrastructure

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"invoice30sec.app/internal/ports"
)

type staticCacheMetrics struct {
	stats ports.CacheStats
}

func (s staticCacheMetrics) GetStats() ports.CacheStats { return s.stats }
func (staticCacheMetrics) RecordHit()                   {}
func (staticCacheMetrics) RecordMiss()                  {}

func TestPrometheusMetricsCollector_Counters(t *testing.T) {
	m := NewPrometheusMetricsCollector(MetricsCollectorConfig{})
	ctx := context.Background()

	m.RecordLeadSubmitted(ctx, "yes")
	m.RecordLeadSubmitted(ctx, "yes")
	m.RecordLeadSubmitted(ctx, "no")
	m.RecordLeadRejected(ctx, ports.RejectRateLimit)
	m.RecordSubscription(ctx)
	m.RecordPricingLookup(ctx, "INR", true)
	m.RecordPricingLookup(ctx, "INR", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.leadsSubmitted.WithLabelValues("yes")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.leadsSubmitted.WithLabelValues("no")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.leadsRejected.WithLabelValues("rate_limited")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.subscriptions))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pricingLookups.WithLabelValues("INR", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pricingLookups.WithLabelValues("INR", "miss")))
}

func TestPrometheusMetricsCollector_StorageAndHTTP(t *testing.T) {
	m := NewPrometheusMetricsCollector(MetricsCollectorConfig{})

	m.RecordStorageOperation("lead_insert", 5*time.Millisecond, nil)
	m.RecordStorageOperation("lead_insert", 5*time.Millisecond, stderrors.New("down"))
	m.RecordHTTPRequest(http.MethodPost, "/api/leads", http.StatusOK, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.storageErrors.WithLabelValues("lead_insert")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/api/leads", "200")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.storageDuration))
}

func TestPrometheusMetricsCollector_Handler(t *testing.T) {
	m := NewPrometheusMetricsCollector(MetricsCollectorConfig{
		CacheMetrics: staticCacheMetrics{stats: ports.CacheStats{Hits: 3, Misses: 1}},
	})
	m.RecordLeadSubmitted(context.Background(), "maybe")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `invoice30sec_leads_submitted_total{willing_to_pay="maybe"} 1`)
	assert.Contains(t, body, "invoice30sec_cache_hits_total 3")
	assert.Contains(t, body, "invoice30sec_cache_misses_total 1")
}

func TestPrometheusMetricsCollector_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewPrometheusMetricsCollector(MetricsCollectorConfig{IncludeRuntime: true})
		NewPrometheusMetricsCollector(MetricsCollectorConfig{IncludeRuntime: true})
	})
}
