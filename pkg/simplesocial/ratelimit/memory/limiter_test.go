package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-social/pkg/simplesocial"
	"github.com/tendant/simple-social/pkg/simplesocial/ratelimit/memory"
)

func TestLimiterBudget(t *testing.T) {
	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	limiter := memory.New(memory.WithClock(func() time.Time { return now }))

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		require.NoError(t, limiter.CheckAndConsume(ctx, "user-1"), "call %d should pass", i+1)
	}

	err := limiter.CheckAndConsume(ctx, "user-1")
	assert.ErrorIs(t, err, simplesocial.ErrRateLimitExceeded)

	// The window resets after a minute.
	now = now.Add(61 * time.Second)
	assert.NoError(t, limiter.CheckAndConsume(ctx, "user-1"))
}

func TestLimiterUsersAreIndependent(t *testing.T) {
	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	limiter := memory.New(
		memory.WithLimit(1),
		memory.WithClock(func() time.Time { return now }),
	)

	ctx := context.Background()
	require.NoError(t, limiter.CheckAndConsume(ctx, "user-1"))
	assert.ErrorIs(t, limiter.CheckAndConsume(ctx, "user-1"), simplesocial.ErrRateLimitExceeded)
	assert.NoError(t, limiter.CheckAndConsume(ctx, "user-2"))
}

func TestLimiterCustomWindow(t *testing.T) {
	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	limiter := memory.New(
		memory.WithLimit(2),
		memory.WithWindow(10*time.Second),
		memory.WithClock(func() time.Time { return now }),
	)

	ctx := context.Background()
	require.NoError(t, limiter.CheckAndConsume(ctx, "user-1"))
	require.NoError(t, limiter.CheckAndConsume(ctx, "user-1"))
	assert.ErrorIs(t, limiter.CheckAndConsume(ctx, "user-1"), simplesocial.ErrRateLimitExceeded)

	now = now.Add(11 * time.Second)
	assert.NoError(t, limiter.CheckAndConsume(ctx, "user-1"))
}

func TestLimiterConcurrentConsume(t *testing.T) {
	limiter := memory.New(memory.WithLimit(50))

	var wg sync.WaitGroup
	errs := make([]error, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = limiter.CheckAndConsume(context.Background(), "user-1")
		}(i)
	}
	wg.Wait()

	denied := 0
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, simplesocial.ErrRateLimitExceeded)
			denied++
		}
	}
	assert.Equal(t, 50, denied)
}
