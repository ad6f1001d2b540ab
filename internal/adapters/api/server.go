// Package api provides HTTP adapters for the hexagonal architecture
// These adapters handle incoming HTTP requests and translate them to use cases
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"invoice30sec.app/internal/core/lead"
	"invoice30sec.app/internal/core/newsletter"
	"invoice30sec.app/internal/core/pricing"
	"invoice30sec.app/internal/ports"
	"invoice30sec.app/pkg/errors"
)

const (
	defaultCountryHeader = "X-Vercel-IP-Country"
	adminSecretHeader    = "x-admin-secret"
	requestIDHeader      = "X-Request-ID"
)

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	// AdminSecret guards the lead read endpoints. Empty rejects every read.
	AdminSecret string
	// CountryHeader names the request header carrying the visitor's country code
	CountryHeader string
}

// HTTPServerAdapter implements HTTP server using Gin framework
type HTTPServerAdapter struct {
	router            *gin.Engine
	config            ServerConfig
	leadUseCase       LeadUseCase
	pricingUseCase    PricingUseCase
	newsletterUseCase NewsletterUseCase
	healthChecker     ports.SystemHealthChecker
	metrics           ports.MetricsCollector
	logger            ports.Logger
}

// Use case interfaces that the HTTP adapter depends on
type LeadUseCase interface {
	Submit(ctx context.Context, params lead.SubmitParams) (*lead.SubmitResult, error)
	ListRecent(ctx context.Context, params lead.ListParams) ([]*lead.Lead, error)
	Get(ctx context.Context, id string) (*lead.Lead, error)
}

type PricingUseCase interface {
	Lookup(ctx context.Context, code string) (*pricing.Result, error)
}

type NewsletterUseCase interface {
	Subscribe(ctx context.Context, params newsletter.SubscribeParams) (*newsletter.Subscription, error)
}

// ServerOptions represents options for creating the HTTP server
type ServerOptions struct {
	Config            ServerConfig
	LeadUseCase       LeadUseCase
	PricingUseCase    PricingUseCase
	NewsletterUseCase NewsletterUseCase
	HealthChecker     ports.SystemHealthChecker
	Metrics           ports.MetricsCollector
	// MetricsHandler serves GET /metrics when set
	MetricsHandler http.Handler
	Logger         ports.Logger
}

// NewHTTPServerAdapter creates a new HTTP server adapter
func NewHTTPServerAdapter(opts ServerOptions) (*HTTPServerAdapter, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server options: %w", err)
	}

	cfg := opts.Config
	if cfg.CountryHeader == "" {
		cfg.CountryHeader = defaultCountryHeader
	}

	router := gin.New()

	server := &HTTPServerAdapter{
		router:            router,
		config:            cfg,
		leadUseCase:       opts.LeadUseCase,
		pricingUseCase:    opts.PricingUseCase,
		newsletterUseCase: opts.NewsletterUseCase,
		healthChecker:     opts.HealthChecker,
		metrics:           opts.Metrics,
		logger:            opts.Logger,
	}

	server.setupRoutes(opts.MetricsHandler)
	return server, nil
}

// Validate checks if all required dependencies are provided
func (opts *ServerOptions) Validate() error {
	if opts.LeadUseCase == nil {
		return errors.NewValidationError("lead use case is required")
	}
	if opts.PricingUseCase == nil {
		return errors.NewValidationError("pricing use case is required")
	}
	if opts.NewsletterUseCase == nil {
		return errors.NewValidationError("newsletter use case is required")
	}
	if opts.HealthChecker == nil {
		return errors.NewValidationError("health checker is required")
	}
	if opts.Metrics == nil {
		return errors.NewValidationError("metrics collector is required")
	}
	if opts.Logger == nil {
		return errors.NewValidationError("logger is required")
	}
	return nil
}

// setupRoutes configures all HTTP routes
func (s *HTTPServerAdapter) setupRoutes(metricsHandler http.Handler) {
	s.router.Use(
		s.recovery(),
		s.requestID(),
		s.requestLogger(),
		s.requestMetrics(),
	)

	api := s.router.Group("/api")
	{
		api.POST("/leads", s.submitLead)
		api.POST("/subscribe", s.subscribe)
		api.GET("/pricing", s.getPricing)
		api.GET("/health", s.getHealth)

		admin := api.Group("", s.requireAdmin())
		admin.GET("/leads", s.listLeads)
		admin.GET("/leads/:id", s.getLead)
	}

	if metricsHandler != nil {
		s.router.GET("/metrics", gin.WrapH(metricsHandler))
	}
}

// GetRouter returns the router for the HTTP server and tests
func (s *HTTPServerAdapter) GetRouter() *gin.Engine {
	return s.router
}
