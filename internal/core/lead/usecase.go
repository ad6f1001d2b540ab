package lead

import (
	"context"
	"fmt"
	"strings"

	"invoice30sec.app/internal/ports"
	"invoice30sec.app/pkg/errors"
	"invoice30sec.app/pkg/validation"
)

const rateLimitKeyPrefix = "rl:"

type UseCase struct {
	leadRepo ports.LeadRepository
	marks    ports.CacheProvider
	metrics  ports.MetricsCollector
	logger   ports.Logger
	policy   Policy
}

type UseCaseDependencies struct {
	LeadRepo ports.LeadRepository
	// RateLimitStore holds the short-lived rl:<email> marks. Required only
	// when the policy enables rate limiting.
	RateLimitStore ports.CacheProvider
	Metrics        ports.MetricsCollector
	Config         ports.ConfigProvider
	Logger         ports.Logger
}

type SubmitParams struct {
	Submission Submission
	Country    string
	UserAgent  string
}

type SubmitResult struct {
	// Ignored is set for honeypot submissions; nothing was written.
	Ignored bool
	Lead    *Lead
}

type ListParams struct {
	Limit int
}

func NewUseCase(deps UseCaseDependencies) (*UseCase, error) {
	if deps.LeadRepo == nil {
		return nil, errors.NewValidationError("lead repository is required")
	}
	if deps.Config == nil {
		return nil, errors.NewValidationError("config is required")
	}
	if deps.Logger == nil {
		return nil, errors.NewValidationError("logger is required")
	}
	if deps.Metrics == nil {
		return nil, errors.NewValidationError("metrics collector is required")
	}

	policy := policyFromPorts(deps.Config.GetLeadPolicy())
	if policy.RateLimitEnabled && deps.RateLimitStore == nil {
		return nil, errors.NewValidationError("rate limit store is required when rate limiting is enabled")
	}

	return &UseCase{
		leadRepo: deps.LeadRepo,
		marks:    deps.RateLimitStore,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
		policy:   policy,
	}, nil
}

func policyFromPorts(p ports.LeadPolicy) Policy {
	policy := Policy{
		YesPrice:         p.YesPrice,
		DefaultCurrency:  p.DefaultCurrency,
		RateLimitEnabled: p.RateLimitEnabled,
		RateLimitWindow:  p.RateLimitWindow,
		DefaultListLimit: p.DefaultListLimit,
		MaxListLimit:     p.MaxListLimit,
	}
	defaults := DefaultPolicy()
	if policy.YesPrice <= 0 {
		policy.YesPrice = defaults.YesPrice
	}
	if policy.DefaultCurrency == "" {
		policy.DefaultCurrency = defaults.DefaultCurrency
	}
	if policy.RateLimitWindow <= 0 {
		policy.RateLimitWindow = defaults.RateLimitWindow
	}
	if policy.MaxListLimit <= 0 {
		policy.MaxListLimit = defaults.MaxListLimit
	}
	if policy.DefaultListLimit <= 0 || policy.DefaultListLimit > policy.MaxListLimit {
		policy.DefaultListLimit = min(defaults.DefaultListLimit, policy.MaxListLimit)
	}
	return policy
}

// Policy returns the effective intake policy
func (uc *UseCase) Policy() Policy {
	return uc.policy
}

// Submit validates, rate limits and persists a survey response
func (uc *UseCase) Submit(ctx context.Context, params SubmitParams) (*SubmitResult, error) {
	sub := params.Submission

	if sub.IsBot() {
		uc.logger.Info("Honeypot submission discarded", ports.F("userAgent", params.UserAgent))
		uc.metrics.RecordLeadRejected(ctx, ports.RejectHoneypot)
		return &SubmitResult{Ignored: true}, nil
	}

	answer, fieldErrs := sub.Validate(uc.policy)
	if len(fieldErrs) > 0 {
		uc.logger.Debug("Lead validation failed", ports.F("fields", fieldErrs))
		uc.metrics.RecordLeadRejected(ctx, ports.RejectValidation)
		return nil, errors.NewFieldValidationError(fieldErrs)
	}

	if uc.policy.RateLimitEnabled {
		limited, err := uc.checkAndMark(ctx, sub.Email)
		if err != nil {
			return nil, fmt.Errorf("check rate limit: %w", err)
		}
		if limited {
			uc.metrics.RecordLeadRejected(ctx, ports.RejectRateLimit)
			return nil, errors.NewRateLimitError("Too many requests. Please try again later.")
		}
	}

	lead := NewLead(sub.Email, answer, params.Country, params.UserAgent)
	data := toLeadData(lead)
	if err := uc.leadRepo.Insert(ctx, data); err != nil {
		return nil, fmt.Errorf("insert lead: %w", err)
	}
	lead.ID = data.ID

	uc.metrics.RecordLeadSubmitted(ctx, answer.WillingToPay().String())
	uc.logger.Info("Lead recorded",
		ports.F("id", lead.ID),
		ports.F("willingToPay", answer.WillingToPay().String()),
		ports.F("country", lead.Country))

	return &SubmitResult{Lead: lead}, nil
}

// checkAndMark reports whether email already holds a live mark, and sets one
// otherwise. The two steps are not atomic; concurrent duplicates may both pass.
func (uc *UseCase) checkAndMark(ctx context.Context, email string) (bool, error) {
	key := RateLimitKey(email)

	exists, err := uc.marks.Exists(ctx, key)
	if err != nil {
		return false, err
	}
	if exists {
		uc.logger.Debug("Lead rate limited", ports.F("key", key))
		return true, nil
	}

	if err := uc.marks.Set(ctx, key, []byte("1"), uc.policy.RateLimitWindow); err != nil {
		return false, err
	}
	return false, nil
}

// RateLimitKey returns the mark key for an email address
func RateLimitKey(email string) string {
	return rateLimitKeyPrefix + validation.NormalizeEmail(email)
}

// ListRecent returns up to params.Limit leads, most recent first. Zero means
// the default limit; values above the maximum are clamped.
func (uc *UseCase) ListRecent(ctx context.Context, params ListParams) ([]*Lead, error) {
	limit, err := uc.effectiveLimit(params.Limit)
	if err != nil {
		return nil, err
	}

	data, err := uc.leadRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent leads: %w", err)
	}

	leads := make([]*Lead, 0, len(data))
	for _, d := range data {
		l, convErr := fromLeadData(d)
		if convErr != nil {
			uc.logger.Warn("Skipping malformed lead record", ports.F("id", d.ID), ports.F("error", convErr))
			continue
		}
		leads = append(leads, l)
	}
	return leads, nil
}

func (uc *UseCase) effectiveLimit(requested int) (int, error) {
	switch {
	case requested < 0:
		return 0, errors.NewValidationError("limit must be a positive integer")
	case requested == 0:
		return uc.policy.DefaultListLimit, nil
	case requested > uc.policy.MaxListLimit:
		return uc.policy.MaxListLimit, nil
	default:
		return requested, nil
	}
}

// Get returns a single lead by its identifier
func (uc *UseCase) Get(ctx context.Context, id string) (*Lead, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.NewValidationError("id is required")
	}

	data, err := uc.leadRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get lead %s: %w", id, err)
	}
	return fromLeadData(data)
}

func toLeadData(l *Lead) *ports.LeadData {
	data := &ports.LeadData{
		ID:           l.ID,
		Email:        l.Email,
		WillingToPay: l.Answer.WillingToPay().String(),
		Country:      l.Country,
		UserAgent:    l.UserAgent,
		SubmittedAt:  l.SubmittedAt,
	}
	if price, currency, ok := l.Price(); ok {
		data.Price = price
		data.Currency = currency
	}
	if reason, ok := l.Reason(); ok {
		data.Reason = reason
	}
	return data
}

func fromLeadData(d *ports.LeadData) (*Lead, error) {
	var answer Answer
	switch WillingToPayFromString(d.WillingToPay) {
	case WillingToPayYes:
		answer = YesAnswer{Price: d.Price, Currency: d.Currency}
	case WillingToPayMaybe:
		answer = MaybeAnswer{Price: d.Price, Currency: d.Currency}
	case WillingToPayNo:
		answer = NoAnswer{Reason: d.Reason}
	default:
		return nil, errors.NewDatabaseError(fmt.Sprintf("stored lead has invalid willingToPay %q", d.WillingToPay), nil)
	}

	return &Lead{
		ID:          d.ID,
		Email:       d.Email,
		Answer:      answer,
		Country:     d.Country,
		UserAgent:   d.UserAgent,
		SubmittedAt: d.SubmittedAt,
	}, nil
}
