package infrastructure

import (
	"context"
	"time"

	"invoice30sec.app/internal/ports"
)

// InstrumentedLeadRepository decorates a LeadRepository with latency metrics
// and structured logging of failures.
type InstrumentedLeadRepository struct {
	repo    ports.LeadRepository
	backend string
	logger  ports.Logger
	metrics ports.MetricsCollector
}

// NewInstrumentedLeadRepository wraps repo; backend names the store in logs and metric labels
func NewInstrumentedLeadRepository(repo ports.LeadRepository, backend string, logger ports.Logger, metrics ports.MetricsCollector) ports.LeadRepository {
	return &InstrumentedLeadRepository{
		repo:    repo,
		backend: backend,
		logger:  logger,
		metrics: metrics,
	}
}

func (d *InstrumentedLeadRepository) Insert(ctx context.Context, lead *ports.LeadData) error {
	start := time.Now()
	err := d.repo.Insert(ctx, lead)
	d.observe("lead_insert", start, err)
	return err
}

func (d *InstrumentedLeadRepository) ListRecent(ctx context.Context, limit int) ([]*ports.LeadData, error) {
	start := time.Now()
	leads, err := d.repo.ListRecent(ctx, limit)
	d.observe("lead_list", start, err, ports.F("limit", limit), ports.F("count", len(leads)))
	return leads, err
}

func (d *InstrumentedLeadRepository) GetByID(ctx context.Context, id string) (*ports.LeadData, error) {
	start := time.Now()
	lead, err := d.repo.GetByID(ctx, id)
	d.observe("lead_get", start, err, ports.F("id", id))
	return lead, err
}

func (d *InstrumentedLeadRepository) observe(op string, start time.Time, err error, fields ...ports.Field) {
	observe(d.logger, d.metrics, d.backend, op, start, err, fields...)
}

// InstrumentedSubscriptionRepository decorates a SubscriptionRepository the same way
type InstrumentedSubscriptionRepository struct {
	repo    ports.SubscriptionRepository
	backend string
	logger  ports.Logger
	metrics ports.MetricsCollector
}

func NewInstrumentedSubscriptionRepository(repo ports.SubscriptionRepository, backend string, logger ports.Logger, metrics ports.MetricsCollector) ports.SubscriptionRepository {
	return &InstrumentedSubscriptionRepository{
		repo:    repo,
		backend: backend,
		logger:  logger,
		metrics: metrics,
	}
}

func (d *InstrumentedSubscriptionRepository) Upsert(ctx context.Context, sub *ports.SubscriptionData) error {
	start := time.Now()
	err := d.repo.Upsert(ctx, sub)
	observe(d.logger, d.metrics, d.backend, "subscription_upsert", start, err)
	return err
}

func observe(logger ports.Logger, metrics ports.MetricsCollector, backend, op string, start time.Time, err error, fields ...ports.Field) {
	duration := time.Since(start)
	metrics.RecordStorageOperation(op, duration, err)

	fields = append(fields,
		ports.F("backend", backend),
		ports.F("operation", op),
		ports.F("duration_ms", duration.Milliseconds()))

	if err != nil {
		logger.Error("Storage operation failed", append(fields, ports.F("error", err))...)
		return
	}
	logger.Debug("Storage operation completed", fields...)
}
