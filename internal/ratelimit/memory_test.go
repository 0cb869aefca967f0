package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiterAllowsUpToMax(t *testing.T) {
	l := NewMemoryLimiter(time.Minute, 5)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, l.Allow(ctx, "10.0.0.1"), "attempt %d should pass", i+1)
	}
	assert.ErrorIs(t, l.Allow(ctx, "10.0.0.1"), ErrRateLimited)
}

func TestMemoryLimiterWindowSlides(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := NewMemoryLimiter(time.Minute, 5)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, l.Allow(ctx, "10.0.0.1"))
	}
	assert.ErrorIs(t, l.Allow(ctx, "10.0.0.1"), ErrRateLimited)

	now = now.Add(61 * time.Second)
	assert.NoError(t, l.Allow(ctx, "10.0.0.1"))
}

func TestMemoryLimiterIsolatesAddresses(t *testing.T) {
	l := NewMemoryLimiter(time.Minute, 1)
	ctx := context.Background()

	require.NoError(t, l.Allow(ctx, "10.0.0.1"))
	assert.ErrorIs(t, l.Allow(ctx, "10.0.0.1"), ErrRateLimited)
	assert.NoError(t, l.Allow(ctx, "10.0.0.2"))
}

func TestMemoryLimiterConcurrentAttempts(t *testing.T) {
	l := NewMemoryLimiter(time.Minute, 5)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.Allow(ctx, "10.0.0.1"); err == nil {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, admitted)
}
