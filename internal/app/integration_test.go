//go:build integration

package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"invoice30sec.app/internal/adapters/database"
	"invoice30sec.app/internal/adapters/infrastructure"
	"invoice30sec.app/internal/config"
)

// IntegrationTestSuite runs the HTTP surface against real PostgreSQL and
// Redis instances named by TEST_DATABASE_URL and TEST_REDIS_URL.
type IntegrationTestSuite struct {
	suite.Suite
	application *Application
	deps        *DependencyContainer
}

func TestIntegrationSuite(t *testing.T) {
	if os.Getenv("TEST_DATABASE_URL") == "" || os.Getenv("TEST_REDIS_URL") == "" {
		t.Skip("TEST_DATABASE_URL and TEST_REDIS_URL are required")
	}
	suite.Run(t, new(IntegrationTestSuite))
}

func (s *IntegrationTestSuite) SetupSuite() {
	cfg := testConfig(config.StorageBackendPostgres)
	cfg.Database = config.DatabaseConfig{
		URL:          os.Getenv("TEST_DATABASE_URL"),
		MaxOpenConns: 5,
		MaxIdleConns: 2,
		AutoMigrate:  true,
	}
	cfg.Cache.Type = config.CacheTypeRedis
	cfg.Cache.Redis.URL = os.Getenv("TEST_REDIS_URL")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	deps, err := NewDependencyContainer(ctx, cfg, infrastructure.NewSlogLoggerAdapter(nil))
	s.Require().NoError(err)
	s.deps = deps

	application, err := NewApplicationWithDependencies(cfg, deps)
	s.Require().NoError(err)
	s.application = application
}

func (s *IntegrationTestSuite) TearDownSuite() {
	if s.deps != nil {
		s.deps.Cleanup()
	}
}

func (s *IntegrationTestSuite) SetupTest() {
	s.Require().NoError(s.deps.db.Exec("DELETE FROM leads").Error)
	s.Require().NoError(s.deps.db.Exec("DELETE FROM subscriptions").Error)
	s.Require().NoError(s.deps.redis.FlushDB(context.Background()).Err())
}

func (s *IntegrationTestSuite) TestHealth() {
	status, body := call(s.T(), s.application, http.MethodGet, "/api/health", "", nil)

	s.Equal(http.StatusOK, status)
	s.Equal("healthy", body["status"])
}

func (s *IntegrationTestSuite) TestLeadRoundTrip() {
	for i := 0; i < 3; i++ {
		payload := fmt.Sprintf(`{"email":"lead%d@example.com","willingToPay":"yes"}`, i)
		status, _ := call(s.T(), s.application, http.MethodPost, "/api/leads", payload,
			map[string]string{"X-Vercel-IP-Country": "IN"})
		s.Require().Equal(http.StatusOK, status)
	}

	status, body := call(s.T(), s.application, http.MethodGet, "/api/leads?limit=2", "",
		map[string]string{"x-admin-secret": testSecret})

	s.Require().Equal(http.StatusOK, status)
	s.Equal([]string{"lead2@example.com", "lead1@example.com"}, leadEmails(s.T(), body))
}

func (s *IntegrationTestSuite) TestNumericPricePrecision() {
	status, _ := call(s.T(), s.application, http.MethodPost, "/api/leads",
		`{"email":"precise@example.com","willingToPay":"maybe","price":149.99}`, nil)
	s.Require().Equal(http.StatusOK, status)

	var stored database.LeadModel
	s.Require().NoError(s.deps.db.Where("email = ?", "precise@example.com").First(&stored).Error)
	s.Require().NotNil(stored.Price)
	s.InDelta(149.99, *stored.Price, 0.001)
}

func (s *IntegrationTestSuite) TestRateLimitAcrossRequests() {
	body := `{"email":"twice@example.com","willingToPay":"no","reason":"Other"}`

	first, _ := call(s.T(), s.application, http.MethodPost, "/api/leads", body, nil)
	second, _ := call(s.T(), s.application, http.MethodPost, "/api/leads", body, nil)

	s.Equal(http.StatusOK, first)
	s.Equal(http.StatusTooManyRequests, second)
}

func (s *IntegrationTestSuite) TestSubscribeReactivates() {
	_, first := call(s.T(), s.application, http.MethodPost, "/api/subscribe", `{"email":"news@example.com"}`, nil)
	s.Require().NoError(s.deps.db.Exec("UPDATE subscriptions SET is_active = false, unsubscribed_at = NOW()").Error)

	_, second := call(s.T(), s.application, http.MethodPost, "/api/subscribe", `{"email":"news@example.com"}`, nil)

	s.Equal(first["id"], second["id"])
	var model database.SubscriptionModel
	s.Require().NoError(s.deps.db.First(&model).Error)
	s.True(model.IsActive)
	s.Nil(model.UnsubscribedAt)
}
