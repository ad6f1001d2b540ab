package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"invoice30sec.app/internal/adapters/database"
	"invoice30sec.app/internal/config"
	"invoice30sec.app/internal/mocks"
)

const testSecret = "round-trip-secret"

func testConfig(backend config.StorageBackend) *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Port: 8080, ReadTimeout: time.Second, WriteTimeout: time.Second, GinMode: "test"},
		Storage:  config.StorageConfig{Backend: backend},
		Database: config.DatabaseConfig{MaxOpenConns: 1, MaxIdleConns: 1},
		Cache: config.CacheConfig{
			Type:  config.CacheTypeMemory,
			Redis: config.RedisConfig{DialTimeout: 1, ReadTimeout: 1, WriteTimeout: 1},
		},
		Leads: config.LeadsConfig{
			AdminSecret:      testSecret,
			YesPrice:         199,
			DefaultCurrency:  "INR",
			RateLimitEnabled: true,
			RateLimitWindow:  time.Minute,
			DefaultListLimit: 50,
			MaxListLimit:     200,
		},
		Pricing: config.PricingConfig{CountryHeader: "X-Vercel-IP-Country", CacheTTL: time.Hour},
	}
}

func setupSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return db
}

func newTestApplication(t *testing.T, cfg *config.Config, conns Connections) *Application {
	t.Helper()
	gin.SetMode(gin.TestMode)

	deps, err := NewDependencyContainerWithConnections(cfg, conns, mocks.NewLogger())
	require.NoError(t, err)
	t.Cleanup(deps.Cleanup)

	application, err := NewApplicationWithDependencies(cfg, deps)
	require.NoError(t, err)
	return application
}

func call(t *testing.T, a *Application, method, path, body string, headers map[string]string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	a.GetRouter().ServeHTTP(w, req)

	var decoded map[string]interface{}
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(w.Body.Bytes(), &decoded)
	}
	return w.Code, decoded
}

func leadEmails(t *testing.T, body map[string]interface{}) []string {
	t.Helper()
	raw, ok := body["leads"].([]interface{})
	require.True(t, ok)
	emails := make([]string, 0, len(raw))
	for _, l := range raw {
		emails = append(emails, l.(map[string]interface{})["email"].(string))
	}
	return emails
}

func TestApplication_PostgresRoundTrip(t *testing.T) {
	a := newTestApplication(t, testConfig(config.StorageBackendPostgres), Connections{DB: setupSQLite(t)})

	status, body := call(t, a, http.MethodPost, "/api/leads",
		`{"email":"maker@example.com","willingToPay":"maybe","price":149}`,
		map[string]string{"X-Vercel-IP-Country": "IN", "User-Agent": "RoundTrip/1.0"})
	require.Equal(t, http.StatusOK, status)
	id := body["id"].(string)
	assert.NotEmpty(t, id)

	status, body = call(t, a, http.MethodGet, "/api/leads", "", map[string]string{"x-admin-secret": testSecret})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["count"])
	stored := body["leads"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "maker@example.com", stored["email"])
	assert.Equal(t, "IN", stored["country"])
	assert.Equal(t, "RoundTrip/1.0", stored["userAgent"])
	assert.Equal(t, float64(149), stored["price"])
	assert.Equal(t, "INR", stored["currency"])

	status, body = call(t, a, http.MethodGet, "/api/leads/"+id, "", map[string]string{"x-admin-secret": testSecret})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, id, body["id"])

	status, _ = call(t, a, http.MethodGet, "/api/leads/999", "", map[string]string{"x-admin-secret": testSecret})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestApplication_SubscribeTwiceKeepsID(t *testing.T) {
	a := newTestApplication(t, testConfig(config.StorageBackendPostgres), Connections{DB: setupSQLite(t)})

	status, first := call(t, a, http.MethodPost, "/api/subscribe", `{"email":"reader@example.com"}`, nil)
	require.Equal(t, http.StatusOK, status)
	status, second := call(t, a, http.MethodPost, "/api/subscribe", `{"email":"READER@example.com"}`, nil)
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, true, second["success"])
	assert.Equal(t, first["id"], second["id"])
}

func TestApplication_RedisRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := testConfig(config.StorageBackendRedis)
	cfg.Cache.Type = config.CacheTypeRedis
	cfg.Cache.Redis.Addr = mr.Addr()
	a := newTestApplication(t, cfg, Connections{Redis: client})

	for _, email := range []string{"first@example.com", "second@example.com"} {
		status, _ := call(t, a, http.MethodPost, "/api/leads", `{"email":"`+email+`","willingToPay":"yes"}`, nil)
		require.Equal(t, http.StatusOK, status)
	}

	status, body := call(t, a, http.MethodGet, "/api/leads?limit=10", "", map[string]string{"x-admin-secret": testSecret})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"second@example.com", "first@example.com"}, leadEmails(t, body))

	assert.True(t, mr.Exists("rl:first@example.com"))

	status, _ = call(t, a, http.MethodPost, "/api/leads", `{"email":"first@example.com","willingToPay":"no","reason":"Other"}`, nil)
	assert.Equal(t, http.StatusTooManyRequests, status)

	status, body = call(t, a, http.MethodGet, "/api/pricing", "", map[string]string{"X-Vercel-IP-Country": "br"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "BR", body["country"])
	assert.True(t, mr.Exists("pricing:BR"))

	status, body = call(t, a, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
}

func TestApplication_UnconfiguredStorage(t *testing.T) {
	a := newTestApplication(t, testConfig(config.StorageBackendPostgres), Connections{})

	status, body := call(t, a, http.MethodPost, "/api/leads", `{"email":"a@example.com","willingToPay":"yes"}`, nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "Service unavailable", body["error"])

	status, _ = call(t, a, http.MethodPost, "/api/subscribe", `{"email":"a@example.com"}`, nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)

	status, body = call(t, a, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "unhealthy", body["status"])

	status, _ = call(t, a, http.MethodGet, "/api/pricing", "", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestApplication_MetricsEndpoint(t *testing.T) {
	a := newTestApplication(t, testConfig(config.StorageBackendPostgres), Connections{DB: setupSQLite(t)})

	call(t, a, http.MethodPost, "/api/leads", `{"email":"m@example.com","willingToPay":"yes"}`, nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	a.GetRouter().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `invoice30sec_leads_submitted_total{willing_to_pay="yes"} 1`)
	assert.Contains(t, w.Body.String(), `invoice30sec_storage_operation_duration_seconds_count{operation="lead_insert"} 1`)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestNewDependencyContainer_OpensRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(config.StorageBackendRedis)
	cfg.Cache.Redis.Addr = mr.Addr()

	deps, err := NewDependencyContainer(context.Background(), cfg, mocks.NewLogger())
	require.NoError(t, err)
	t.Cleanup(deps.Cleanup)

	results := deps.ApplicationPorts().HealthChecker.CheckAll(context.Background())
	assert.Equal(t, "healthy", results["redis"].Status)
}

func TestNewDependencyContainer_UnreachableRedis(t *testing.T) {
	cfg := testConfig(config.StorageBackendRedis)
	cfg.Cache.Redis.Addr = "127.0.0.1:1"

	deps, err := NewDependencyContainer(context.Background(), cfg, mocks.NewLogger())

	assert.Nil(t, deps)
	assert.ErrorContains(t, err, "open redis")
}

func TestNewDependencyContainer_MissingConnectionStrings(t *testing.T) {
	for _, backend := range []config.StorageBackend{config.StorageBackendPostgres, config.StorageBackendRedis} {
		t.Run(backend.String(), func(t *testing.T) {
			deps, err := NewDependencyContainer(context.Background(), testConfig(backend), mocks.NewLogger())
			require.NoError(t, err)
			t.Cleanup(deps.Cleanup)

			err = deps.ApplicationPorts().SubscriptionRepository.Upsert(context.Background(), nil)
			assert.ErrorContains(t, err, backend.String()+" storage is not configured")
		})
	}
}
