package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"invoice30sec.app/internal/adapters/external"
	"invoice30sec.app/internal/adapters/infrastructure"
	"invoice30sec.app/internal/core/lead"
	"invoice30sec.app/internal/core/newsletter"
	"invoice30sec.app/internal/core/pricing"
	"invoice30sec.app/internal/mocks"
	"invoice30sec.app/internal/ports"
)

const testAdminSecret = "test-admin-secret"

type stubHealthChecker struct {
	results map[string]ports.HealthStatus
}

func (s *stubHealthChecker) CheckAll(context.Context) map[string]ports.HealthStatus {
	return s.results
}

type testServer struct {
	router  *gin.Engine
	leads   *mocks.LeadRepository
	subs    *mocks.SubscriptionRepository
	health  *stubHealthChecker
	metrics *infrastructure.PrometheusMetricsCollector
}

type serverOverrides struct {
	adminSecret string
	pricing     PricingUseCase
}

func newTestServer(t *testing.T) *testServer {
	return newTestServerWith(t, serverOverrides{adminSecret: testAdminSecret})
}

func newTestServerWith(t *testing.T, o serverOverrides) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	leadRepo := mocks.NewLeadRepository(t)
	subRepo := mocks.NewSubscriptionRepository(t)
	logger := mocks.NewLogger()
	metrics := infrastructure.NewPrometheusMetricsCollector(infrastructure.MetricsCollectorConfig{})

	cfg := mocks.NewConfigProvider(t)
	cfg.On("GetLeadPolicy").Return(ports.LeadPolicy{
		YesPrice:         199,
		DefaultCurrency:  "INR",
		RateLimitEnabled: true,
		RateLimitWindow:  time.Minute,
		DefaultListLimit: 50,
		MaxListLimit:     200,
	})

	leadUseCase, err := lead.NewUseCase(lead.UseCaseDependencies{
		LeadRepo:       leadRepo,
		RateLimitStore: external.NewMemoryCacheProvider(),
		Metrics:        metrics,
		Config:         cfg,
		Logger:         logger,
	})
	require.NoError(t, err)

	pricingUseCase := o.pricing
	if pricingUseCase == nil {
		cfg.On("GetPricingSettings").Return(ports.PricingSettings{CacheTTL: time.Hour})
		uc, err := pricing.NewUseCase(pricing.UseCaseDependencies{
			Cache:   external.NewPricingCacheAdapter(external.NewMemoryCacheProvider()),
			Config:  cfg,
			Logger:  logger,
			Metrics: metrics,
		})
		require.NoError(t, err)
		pricingUseCase = uc
	}

	newsletterUseCase, err := newsletter.NewUseCase(newsletter.UseCaseDependencies{
		SubscriptionRepo: subRepo,
		Logger:           logger,
		Metrics:          metrics,
	})
	require.NoError(t, err)

	health := &stubHealthChecker{results: map[string]ports.HealthStatus{
		"database": {Component: "database", Status: ports.StatusHealthy},
	}}

	server, err := NewHTTPServerAdapter(ServerOptions{
		Config:            ServerConfig{AdminSecret: o.adminSecret},
		LeadUseCase:       leadUseCase,
		PricingUseCase:    pricingUseCase,
		NewsletterUseCase: newsletterUseCase,
		HealthChecker:     health,
		Metrics:           metrics,
		MetricsHandler:    metrics.Handler(),
		Logger:            logger,
	})
	require.NoError(t, err)

	return &testServer{
		router:  server.GetRouter(),
		leads:   leadRepo,
		subs:    subRepo,
		health:  health,
		metrics: metrics,
	}
}

func (ts *testServer) do(method, path string, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestNewHTTPServerAdapter_MissingDependencies(t *testing.T) {
	server, err := NewHTTPServerAdapter(ServerOptions{})

	assert.Nil(t, server)
	assert.ErrorContains(t, err, "lead use case is required")
}

func TestRequestID(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodGet, "/api/health", "", nil)
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)

	w = ts.do(http.MethodGet, "/api/health", "", map[string]string{"X-Request-ID": "req-123"})
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decodeBody(t, w)["status"])

	ts.health.results["redis"] = ports.HealthStatus{Component: "redis", Status: ports.StatusUnhealthy, Error: "connection refused"}

	w = ts.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "unhealthy", body["status"])
	components := body["components"].(map[string]interface{})
	assert.Contains(t, components, "redis")
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	ts.do(http.MethodGet, "/api/health", "", nil)
	w := ts.do(http.MethodGet, "/metrics", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `invoice30sec_http_requests_total{method="GET",route="/api/health",status="200"} 1`)
}
