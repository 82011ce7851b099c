package ratelimit

import (
	"context"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"

	"github.com/lodgerhq/lodger/internal/config"
)

const (
	keyPaymentClient = "payment:client:%s"

	paymentRate  = 3.0
	paymentBurst = 10
)

// NewRedisClient builds the shared redis connection, or nil when no address
// is configured; callers treat nil as "feature disabled".
func NewRedisClient(cfg config.Config) *redis.Client {
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.RedisPassword),
	})
}

// PaymentLimiter throttles the public payment endpoints per client IP.
type PaymentLimiter struct {
	enabled bool
	bucket  *TokenBucket
}

func NewPaymentLimiter(client *redis.Client) *PaymentLimiter {
	if client == nil {
		return &PaymentLimiter{}
	}
	return &PaymentLimiter{
		enabled: true,
		bucket:  NewTokenBucket(client),
	}
}

func (l *PaymentLimiter) Enabled() bool {
	return l != nil && l.enabled
}

// Allow reports whether the client may proceed. Limiter errors fail open.
func (l *PaymentLimiter) Allow(ctx context.Context, clientIP string) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	result, err := l.bucket.Allow(ctx, fmt.Sprintf(keyPaymentClient, strings.TrimSpace(clientIP)), paymentRate, paymentBurst)
	if err != nil {
		return true, err
	}
	return result.Allowed, nil
}
