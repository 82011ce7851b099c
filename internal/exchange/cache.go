package exchange

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/lodgerhq/lodger/internal/cache"
)

// RateCache holds recently resolved quotes per target currency. Identity
// fallbacks are never stored; a cached bad quote would mask provider
// recovery for the whole TTL.
type RateCache interface {
	Get(ctx context.Context, to string) (Quote, bool)
	Set(ctx context.Context, to string, quote Quote)
}

type memoryRateCache struct {
	entries cache.Cache[string, Quote]
	ttl     time.Duration
}

func newMemoryRateCache(ttl time.Duration) *memoryRateCache {
	return &memoryRateCache{entries: cache.NewTTLCache[string, Quote](), ttl: ttl}
}

func (c *memoryRateCache) Get(_ context.Context, to string) (Quote, bool) {
	return c.entries.Get(to)
}

func (c *memoryRateCache) Set(_ context.Context, to string, quote Quote) {
	if quote.FallbackIdentity {
		return
	}
	c.entries.Set(to, quote, c.ttl)
}

// redisRateCache shares quotes across replicas.
type redisRateCache struct {
	client *redis.Client
	ttl    time.Duration
}

func newRedisRateCache(client *redis.Client, ttl time.Duration) *redisRateCache {
	return &redisRateCache{client: client, ttl: ttl}
}

func rateKey(to string) string {
	return "fx:usd:" + to
}

func (c *redisRateCache) Get(ctx context.Context, to string) (Quote, bool) {
	raw, err := c.client.Get(ctx, rateKey(to)).Bytes()
	if err != nil {
		return Quote{}, false
	}
	var quote Quote
	if err := json.Unmarshal(raw, &quote); err != nil {
		return Quote{}, false
	}
	return quote, true
}

func (c *redisRateCache) Set(ctx context.Context, to string, quote Quote) {
	if quote.FallbackIdentity {
		return
	}
	raw, err := json.Marshal(quote)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, rateKey(to), raw, c.ttl).Err()
}
