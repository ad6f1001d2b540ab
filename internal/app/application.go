package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"invoice30sec.app/internal/adapters/api"
	"invoice30sec.app/internal/config"
	"invoice30sec.app/internal/core/lead"
	"invoice30sec.app/internal/core/newsletter"
	"invoice30sec.app/internal/core/pricing"
	"invoice30sec.app/internal/ports"
)

type Application struct {
	config *config.Config

	// Use Cases
	leadUseCase       *lead.UseCase
	pricingUseCase    *pricing.UseCase
	newsletterUseCase *newsletter.UseCase

	// Adapters
	httpServer *http.Server
	router     *gin.Engine

	// Infrastructure
	deps  *DependencyContainer
	ports *ports.ApplicationPorts
}

// NewApplication opens the configured connections and wires the service
func NewApplication(ctx context.Context, cfg *config.Config, logger ports.Logger) (*Application, error) {
	deps, err := NewDependencyContainer(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create dependency container: %w", err)
	}

	app, err := NewApplicationWithDependencies(cfg, deps)
	if err != nil {
		deps.Cleanup()
		return nil, err
	}
	return app, nil
}

// NewApplicationWithDependencies creates an application over an existing container
func NewApplicationWithDependencies(cfg *config.Config, deps *DependencyContainer) (*Application, error) {
	app := &Application{
		config: cfg,
		deps:   deps,
		ports:  deps.ApplicationPorts(),
	}

	if err := app.initializeUseCases(); err != nil {
		return nil, fmt.Errorf("initialize use cases: %w", err)
	}

	if err := app.initializeAdapters(); err != nil {
		return nil, fmt.Errorf("initialize adapters: %w", err)
	}

	return app, nil
}

func (a *Application) initializeUseCases() error {
	leadUseCase, err := lead.NewUseCase(lead.UseCaseDependencies{
		LeadRepo:       a.ports.LeadRepository,
		RateLimitStore: a.ports.RateLimitStore,
		Metrics:        a.ports.Metrics,
		Config:         a.ports.ConfigProvider,
		Logger:         a.ports.Logger,
	})
	if err != nil {
		return fmt.Errorf("create lead use case: %w", err)
	}
	a.leadUseCase = leadUseCase

	pricingUseCase, err := pricing.NewUseCase(pricing.UseCaseDependencies{
		Cache:   a.ports.PricingCache,
		Config:  a.ports.ConfigProvider,
		Logger:  a.ports.Logger,
		Metrics: a.ports.Metrics,
	})
	if err != nil {
		return fmt.Errorf("create pricing use case: %w", err)
	}
	a.pricingUseCase = pricingUseCase

	newsletterUseCase, err := newsletter.NewUseCase(newsletter.UseCaseDependencies{
		SubscriptionRepo: a.ports.SubscriptionRepository,
		Logger:           a.ports.Logger,
		Metrics:          a.ports.Metrics,
	})
	if err != nil {
		return fmt.Errorf("create newsletter use case: %w", err)
	}
	a.newsletterUseCase = newsletterUseCase

	return nil
}

func (a *Application) initializeAdapters() error {
	httpAdapter, err := api.NewHTTPServerAdapter(api.ServerOptions{
		Config: api.ServerConfig{
			AdminSecret:   a.ports.ConfigProvider.GetAdminSecret(),
			CountryHeader: a.ports.ConfigProvider.GetPricingSettings().CountryHeader,
		},
		LeadUseCase:       a.leadUseCase,
		PricingUseCase:    a.pricingUseCase,
		NewsletterUseCase: a.newsletterUseCase,
		HealthChecker:     a.ports.HealthChecker,
		Metrics:           a.ports.Metrics,
		MetricsHandler:    a.deps.Metrics().Handler(),
		Logger:            a.ports.Logger,
	})
	if err != nil {
		return fmt.Errorf("create HTTP adapter: %w", err)
	}

	a.router = httpAdapter.GetRouter()

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", a.config.Server.Port),
		Handler:           a.router,
		ReadTimeout:       a.config.Server.ReadTimeout,
		ReadHeaderTimeout: a.config.Server.ReadTimeout,
		WriteTimeout:      a.config.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	return nil
}

// Start serves HTTP until the server is shut down
func (a *Application) Start(ctx context.Context) error {
	a.ports.Logger.Info("Starting HTTP server", ports.F("port", a.config.Server.Port))
	if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and closes connections
func (a *Application) Shutdown(ctx context.Context) error {
	a.ports.Logger.Info("Shutting down application")

	err := a.httpServer.Shutdown(ctx)
	if err != nil {
		a.ports.Logger.Error("Error shutting down HTTP server", ports.F("error", err))
	}

	a.deps.Cleanup()

	if err != nil {
		return fmt.Errorf("shutdown HTTP server: %w", err)
	}
	a.ports.Logger.Info("Application shutdown complete")
	return nil
}

// Config returns the application configuration
func (a *Application) Config() *config.Config {
	return a.config
}

// GetRouter returns the Gin router for testing
func (a *Application) GetRouter() *gin.Engine {
	return a.router
}
