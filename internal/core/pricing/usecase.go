package pricing

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
	"invoice30sec.app/internal/ports"
	"invoice30sec.app/pkg/errors"
	"invoice30sec.app/pkg/validation"
)

const (
	cacheKeyPrefix  = "pricing:"
	defaultCacheTTL = 12 * time.Hour
)

type UseCase struct {
	cache   ports.PricingCache
	logger  ports.Logger
	metrics ports.MetricsCollector
	ttl     time.Duration
	group   singleflight.Group
}

type UseCaseDependencies struct {
	Cache   ports.PricingCache
	Config  ports.ConfigProvider
	Logger  ports.Logger
	Metrics ports.MetricsCollector
}

func NewUseCase(deps UseCaseDependencies) (*UseCase, error) {
	if deps.Cache == nil {
		return nil, errors.NewValidationError("pricing cache is required")
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

	ttl := deps.Config.GetPricingSettings().CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	return &UseCase{
		cache:   deps.Cache,
		logger:  deps.Logger,
		metrics: deps.Metrics,
		ttl:     ttl,
	}, nil
}

// Lookup resolves the pricing for a country code. Cache failures fall back
// to the static table; the only error returned is a cancelled context.
func (uc *UseCase) Lookup(ctx context.Context, code string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	country := NormalizeCountry(code)
	if country == "" {
		return uc.record(ctx, &Result{Country: UnknownCountry, Pricing: DefaultConfig()}, false), nil
	}

	// Arbitrary header values are answered from the table without touching
	// the cache, so they cannot grow the key space.
	if !validation.IsCountryCode(country) {
		return uc.record(ctx, &Result{Country: country, Pricing: DefaultConfig()}, false), nil
	}

	v, _, shared := uc.group.Do(country, func() (interface{}, error) {
		return uc.lookupCached(ctx, country), nil
	})
	res := v.(lookupResult)
	if shared {
		uc.logger.Debug("Pricing lookup coalesced", ports.F("country", country))
	}

	out := res.result
	out.Pricing = out.Pricing.clone()
	return uc.record(ctx, &out, res.hit), nil
}

type lookupResult struct {
	result Result
	hit    bool
}

func (uc *UseCase) lookupCached(ctx context.Context, country string) lookupResult {
	key := cacheKeyPrefix + country

	cached, err := uc.cache.Get(ctx, key)
	if err == nil && cached != nil {
		return lookupResult{result: fromPricingData(cached), hit: true}
	}
	if err != nil && !errors.IsNotFoundError(err) {
		uc.logger.Warn("Pricing cache read failed", ports.F("country", country), ports.F("error", err))
	}

	result := Result{Country: country, Pricing: ForCountry(country)}
	if setErr := uc.cache.Set(ctx, key, toPricingData(result), uc.ttl); setErr != nil {
		uc.logger.Warn("Failed to cache pricing", ports.F("country", country), ports.F("error", setErr))
	}
	return lookupResult{result: result}
}

func (uc *UseCase) record(ctx context.Context, res *Result, hit bool) *Result {
	uc.metrics.RecordPricingLookup(ctx, res.Pricing.Currency, hit)
	return res
}

func toPricingData(r Result) *ports.PricingData {
	return &ports.PricingData{
		Country:        r.Country,
		Currency:       r.Pricing.Currency,
		CurrencySymbol: r.Pricing.CurrencySymbol,
		DefaultPrice:   r.Pricing.Prices.Default,
		Options:        append([]float64(nil), r.Pricing.Prices.Options...),
	}
}

func fromPricingData(d *ports.PricingData) Result {
	return Result{
		Country: d.Country,
		Pricing: Config{
			Currency:       d.Currency,
			CurrencySymbol: d.CurrencySymbol,
			Prices: Prices{
				Default: d.DefaultPrice,
				Options: append([]float64(nil), d.Options...),
			},
		},
	}
}
