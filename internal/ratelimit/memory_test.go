package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter(t *testing.T) {
	current := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewMemoryLimiter()
	limiter.now = func() time.Time { return current }
	ctx := context.Background()

	allowed, err := limiter.Allow(ctx, "1", 2, time.Second)
	require.NoError(t, err)
	assert.True(t, allowed)
	allowed, _ = limiter.Allow(ctx, "1", 2, time.Second)
	assert.True(t, allowed)
	allowed, _ = limiter.Allow(ctx, "1", 2, time.Second)
	assert.False(t, allowed)

	// другой ключ не затронут
	allowed, _ = limiter.Allow(ctx, "2", 2, time.Second)
	assert.True(t, allowed)

	current = current.Add(time.Second)
	allowed, _ = limiter.Allow(ctx, "1", 2, time.Second)
	assert.True(t, allowed)
}

func TestMemoryLimiterSweep(t *testing.T) {
	current := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewMemoryLimiter()
	limiter.now = func() time.Time { return current }
	ctx := context.Background()

	_, _ = limiter.Allow(ctx, "old", 1, time.Second)
	current = current.Add(500 * time.Millisecond)
	_, _ = limiter.Allow(ctx, "fresh", 1, time.Second)
	current = current.Add(600 * time.Millisecond)

	limiter.Sweep()
	assert.NotContains(t, limiter.windows, "old")
	assert.Contains(t, limiter.windows, "fresh")
}

func TestMemoryLimiterConcurrent(t *testing.T) {
	limiter := NewMemoryLimiter()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, _ := limiter.Allow(ctx, "42", 10, time.Minute)
			if ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, allowed)
}
