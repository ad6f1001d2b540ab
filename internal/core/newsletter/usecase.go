package newsletter

import (
	"context"
	"fmt"
	"time"

	"invoice30sec.app/internal/ports"
	"invoice30sec.app/pkg/errors"
)

type UseCase struct {
	subscriptionRepo ports.SubscriptionRepository
	logger           ports.Logger
	metrics          ports.MetricsCollector
}

type UseCaseDependencies struct {
	SubscriptionRepo ports.SubscriptionRepository
	Logger           ports.Logger
	Metrics          ports.MetricsCollector
}

func NewUseCase(deps UseCaseDependencies) (*UseCase, error) {
	if deps.SubscriptionRepo == nil {
		return nil, errors.NewValidationError("subscription repository is required")
	}
	if deps.Logger == nil {
		return nil, errors.NewValidationError("logger is required")
	}
	if deps.Metrics == nil {
		return nil, errors.NewValidationError("metrics collector is required")
	}

	return &UseCase{
		subscriptionRepo: deps.SubscriptionRepo,
		logger:           deps.Logger,
		metrics:          deps.Metrics,
	}, nil
}

// Subscribe records an active subscription for the email. Repeat calls
// reactivate the existing row and keep its ID.
func (uc *UseCase) Subscribe(ctx context.Context, params SubscribeParams) (*Subscription, error) {
	if msg := params.Validate(); msg != "" {
		return nil, errors.NewValidationError(msg)
	}
	params.Normalize()

	data := &ports.SubscriptionData{
		Email:        params.Email,
		IsActive:     true,
		SubscribedAt: time.Now().UTC(),
	}
	if err := uc.subscriptionRepo.Upsert(ctx, data); err != nil {
		return nil, fmt.Errorf("upsert subscription: %w", err)
	}

	uc.metrics.RecordSubscription(ctx)
	uc.logger.Info("Newsletter subscription stored", ports.F("id", data.ID))

	return &Subscription{
		ID:             data.ID,
		Email:          data.Email,
		IsActive:       data.IsActive,
		SubscribedAt:   data.SubscribedAt,
		UnsubscribedAt: data.UnsubscribedAt,
	}, nil
}
