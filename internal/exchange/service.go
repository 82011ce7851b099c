package exchange

import (
	"context"
	"net/http"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/lodgerhq/lodger/internal/config"
	"github.com/lodgerhq/lodger/internal/gateway/flutterwave"
	"github.com/lodgerhq/lodger/internal/observability/metrics"
)

const (
	defaultProviderTimeout = 4 * time.Second
	defaultCacheTTL        = 5 * time.Minute

	sourceIdentity = "identity"
	sourceCache    = "cache"
)

// Service walks the provider chain in strict order. Providers are tried
// sequentially so a healthy gateway avoids egress to the public endpoints;
// each attempt carries its own timeout and is never retried.
type Service struct {
	providers []Provider
	cache     RateCache
	timeout   time.Duration
	log       *zap.Logger
	metrics   *metrics.Metrics
}

type Params struct {
	fx.In

	Config  config.Config
	Gateway *flutterwave.Client
	Redis   *redis.Client `optional:"true"`
	Log     *zap.Logger
	Metrics *metrics.Metrics
}

func NewService(p Params) *Service {
	timeout := p.Config.Exchange.ProviderTimeout
	if timeout <= 0 {
		timeout = defaultProviderTimeout
	}
	ttl := p.Config.Exchange.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	httpClient := &http.Client{Timeout: timeout}
	providers := []Provider{
		newGatewayProvider(p.Gateway),
		newDailyRatesProvider(p.Config.Exchange.DailyRatesURL, httpClient),
		newDatasetProvider(p.Config.Exchange.CurrencyDataURL, httpClient),
	}

	var rateCache RateCache
	if p.Redis != nil {
		rateCache = newRedisRateCache(p.Redis, ttl)
	} else {
		rateCache = newMemoryRateCache(ttl)
	}

	return &Service{
		providers: providers,
		cache:     rateCache,
		timeout:   timeout,
		log:       p.Log.Named("exchange.service"),
		metrics:   p.Metrics,
	}
}

// NewChain builds a service over explicit providers, bypassing upstream
// client construction. Exposed for composition in tests and tooling.
func NewChain(providers []Provider, cache RateCache, timeout time.Duration, log *zap.Logger, m *metrics.Metrics) *Service {
	if timeout <= 0 {
		timeout = defaultProviderTimeout
	}
	if cache == nil {
		cache = newMemoryRateCache(defaultCacheTTL)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{providers: providers, cache: cache, timeout: timeout, log: log, metrics: m}
}

// GetRate resolves the USD→to rate. It never returns an error: when no
// provider can quote the pair the result is the identity quote with
// FallbackIdentity set, which callers must treat as "no conversion
// available".
func (s *Service) GetRate(ctx context.Context, to string) Quote {
	to = strings.ToUpper(strings.TrimSpace(to))
	if to == "" || to == "USD" {
		return Quote{Rate: 1, Source: sourceIdentity}
	}

	if quote, ok := s.cache.Get(ctx, to); ok {
		s.metrics.RecordExchangeLookup(ctx, sourceCache, "hit")
		return quote
	}

	for _, provider := range s.providers {
		rate, err := s.tryProvider(ctx, provider, to)
		if err != nil {
			s.metrics.RecordExchangeLookup(ctx, provider.Name(), "error")
			s.log.Warn("rate provider failed",
				zap.String("provider", provider.Name()),
				zap.String("currency", to),
				zap.Error(err),
			)
			continue
		}
		quote := Quote{Rate: rate, Source: provider.Name()}
		s.cache.Set(ctx, to, quote)
		s.metrics.RecordExchangeLookup(ctx, provider.Name(), "success")
		return quote
	}

	s.metrics.RecordExchangeLookup(ctx, sourceIdentity, "fallback")
	s.log.Warn("all rate providers failed, returning identity quote", zap.String("currency", to))
	return Quote{Rate: 1, Source: sourceIdentity, FallbackIdentity: true}
}

func (s *Service) tryProvider(ctx context.Context, provider Provider, to string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return provider.Rate(ctx, to)
}
