package infrastructure

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"invoice30sec.app/internal/ports"
)

const metricsNamespace = "invoice30sec"

// PrometheusMetricsCollector implements MetricsCollector on a private
// registry, so several instances can coexist in one process.
type PrometheusMetricsCollector struct {
	registry *prometheus.Registry

	leadsSubmitted  *prometheus.CounterVec
	leadsRejected   *prometheus.CounterVec
	subscriptions   prometheus.Counter
	pricingLookups  *prometheus.CounterVec
	storageDuration *prometheus.HistogramVec
	storageErrors   *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// MetricsCollectorConfig holds configuration for creating the metrics collector
type MetricsCollectorConfig struct {
	// CacheMetrics, when set, is exported as hit/miss gauges
	CacheMetrics ports.CacheMetrics
	// IncludeRuntime adds the Go runtime and process collectors
	IncludeRuntime bool
}

// NewPrometheusMetricsCollector creates and registers all metrics
func NewPrometheusMetricsCollector(cfg MetricsCollectorConfig) *PrometheusMetricsCollector {
	m := &PrometheusMetricsCollector{
		registry: prometheus.NewRegistry(),
		leadsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "leads_submitted_total",
			Help:      "Leads stored, by willingness-to-pay answer.",
		}, []string{"willing_to_pay"}),
		leadsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "leads_rejected_total",
			Help:      "Lead submissions not stored, by reason.",
		}, []string{"reason"}),
		subscriptions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "newsletter_subscriptions_total",
			Help:      "Newsletter subscribe calls that reached storage successfully.",
		}),
		pricingLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "pricing_lookups_total",
			Help:      "Pricing lookups, by resolved currency and cache outcome.",
		}, []string{"currency", "cache"}),
		storageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "storage_operation_duration_seconds",
			Help:      "Storage call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		storageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "storage_operation_errors_total",
			Help:      "Storage calls that returned an error.",
		}, []string{"operation"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		m.leadsSubmitted,
		m.leadsRejected,
		m.subscriptions,
		m.pricingLookups,
		m.storageDuration,
		m.storageErrors,
		m.httpRequests,
		m.httpDuration,
	)

	if cfg.CacheMetrics != nil {
		stats := cfg.CacheMetrics
		m.registry.MustRegister(
			prometheus.NewCounterFunc(prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "cache_hits_total",
				Help:      "Cache reads that found a live entry.",
			}, func() float64 { return float64(stats.GetStats().Hits) }),
			prometheus.NewCounterFunc(prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "cache_misses_total",
				Help:      "Cache reads that found nothing.",
			}, func() float64 { return float64(stats.GetStats().Misses) }),
		)
	}

	if cfg.IncludeRuntime {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	return m
}

func (m *PrometheusMetricsCollector) RecordLeadSubmitted(_ context.Context, willingToPay string) {
	m.leadsSubmitted.WithLabelValues(willingToPay).Inc()
}

func (m *PrometheusMetricsCollector) RecordLeadRejected(_ context.Context, reason string) {
	m.leadsRejected.WithLabelValues(reason).Inc()
}

func (m *PrometheusMetricsCollector) RecordSubscription(_ context.Context) {
	m.subscriptions.Inc()
}

func (m *PrometheusMetricsCollector) RecordPricingLookup(_ context.Context, currency string, cacheHit bool) {
	outcome := "miss"
	if cacheHit {
		outcome = "hit"
	}
	m.pricingLookups.WithLabelValues(currency, outcome).Inc()
}

func (m *PrometheusMetricsCollector) RecordStorageOperation(operation string, duration time.Duration, err error) {
	m.storageDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.storageErrors.WithLabelValues(operation).Inc()
	}
}

func (m *PrometheusMetricsCollector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Registry exposes the underlying registry for tests and custom collectors
func (m *PrometheusMetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *PrometheusMetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
