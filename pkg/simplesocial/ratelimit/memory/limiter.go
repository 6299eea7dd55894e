// Package memory provides the process-local sliding-window rate limiter.
//
// It protects only the local process's calls to the generation collaborator;
// in a multi-instance deployment each instance holds its own counters. Use
// the redis limiter when a shared budget is required.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/tendant/simple-social/pkg/simplesocial"
)

const (
	defaultLimit  = 10
	defaultWindow = time.Minute
)

type entry struct {
	count   int
	resetAt time.Time
}

// Limiter implements simplesocial.RateLimiter with an in-memory per-user
// (count, windowResetAt) pair. Updates happen under one lock so concurrent
// staging for the same user cannot bypass the budget.
type Limiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	now     func() time.Time
	entries map[string]*entry
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

// WithClock injects the time source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// New creates a new in-memory rate limiter
func New(opts ...Option) *Limiter {
	l := &Limiter{
		limit:   defaultLimit,
		window:  defaultWindow,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// CheckAndConsume consumes one call from the user's budget, resetting the
// window when it has elapsed. Returns ErrRateLimitExceeded once the budget
// for the current window is spent.
func (l *Limiter) CheckAndConsume(_ context.Context, userID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[userID]
	if !ok || !now.Before(e.resetAt) {
		l.entries[userID] = &entry{count: 1, resetAt: now.Add(l.window)}
		return nil
	}
	if e.count < l.limit {
		e.count++
		return nil
	}
	return simplesocial.ErrRateLimitExceeded
}
