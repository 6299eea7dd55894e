// Package redis provides a Redis-backed rate limiter for deployments where
// several instances must share one per-user generation budget.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/tendant/simple-social/pkg/simplesocial"
)

const (
	defaultLimit  = 10
	defaultWindow = time.Minute
)

// Limiter implements simplesocial.RateLimiter on a shared Redis counter.
// INCR plus first-write EXPIRE keeps the check-and-consume atomic across
// instances.
type Limiter struct {
	client    goredis.UniversalClient
	limit     int
	window    time.Duration
	keyPrefix string
}

// Option represents a functional option for configuring the limiter
type Option func(*Limiter)

// WithLimit sets the calls-per-window budget (default 10).
func WithLimit(limit int) Option {
	return func(l *Limiter) {
		l.limit = limit
	}
}

// WithWindow sets the window length (default one minute).
func WithWindow(window time.Duration) Option {
	return func(l *Limiter) {
		l.window = window
	}
}

// WithKeyPrefix sets the Redis key prefix (default "simplesocial:ratelimit").
func WithKeyPrefix(prefix string) Option {
	return func(l *Limiter) {
		l.keyPrefix = prefix
	}
}

// New creates a new Redis-backed rate limiter
func New(client goredis.UniversalClient, opts ...Option) *Limiter {
	l := &Limiter{
		client:    client,
		limit:     defaultLimit,
		window:    defaultWindow,
		keyPrefix: "simplesocial:ratelimit",
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// CheckAndConsume consumes one call from the shared budget. The window key
// expires on its own, so a user's first call after a quiet period starts a
// fresh window.
func (l *Limiter) CheckAndConsume(ctx context.Context, userID string) error {
	key := fmt.Sprintf("%s:%s", l.keyPrefix, userID)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("rate limit check for %q: %w", userID, err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("rate limit window for %q: %w", userID, err)
		}
	}
	if count > int64(l.limit) {
		return simplesocial.ErrRateLimitExceeded
	}
	return nil
}
