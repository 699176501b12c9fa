package ratelimit

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockLimiter struct {
	mock.Mock
}

func (m *mockLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func TestFailoverLimiter(t *testing.T) {
	primary := new(mockLimiter)
	fallback := new(mockLimiter)
	logger := zerolog.New(io.Discard)
	current := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewFailoverLimiter(primary, fallback, &logger)
	limiter.now = func() time.Time { return current }
	ctx := context.Background()

	t.Run("PrimarySuccess", func(t *testing.T) {
		primary.On("Allow", ctx, "1", 5, time.Minute).Return(true, nil).Once()

		allowed, err := limiter.Allow(ctx, "1", 5, time.Minute)
		assert.NoError(t, err)
		assert.True(t, allowed)
		assert.False(t, limiter.Degraded())
		primary.AssertExpectations(t)
	})

	t.Run("PrimaryFailure", func(t *testing.T) {
		primary.On("Allow", ctx, "1", 5, time.Minute).Return(false, errors.New("redis down")).Once()
		fallback.On("Allow", ctx, "1", 5, time.Minute).Return(true, nil).Once()

		allowed, err := limiter.Allow(ctx, "1", 5, time.Minute)
		assert.NoError(t, err)
		assert.True(t, allowed)
		assert.True(t, limiter.Degraded())
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("StaysOnFallback", func(t *testing.T) {
		current = current.Add(30 * time.Second)
		fallback.On("Allow", ctx, "1", 5, time.Minute).Return(false, nil).Once()

		allowed, err := limiter.Allow(ctx, "1", 5, time.Minute)
		assert.NoError(t, err)
		assert.False(t, allowed)
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("RecoveryStillFailing", func(t *testing.T) {
		current = current.Add(2 * time.Minute)
		primary.On("Allow", ctx, "1", 5, time.Minute).Return(false, errors.New("still down")).Once()
		fallback.On("Allow", ctx, "1", 5, time.Minute).Return(true, nil).Once()

		allowed, err := limiter.Allow(ctx, "1", 5, time.Minute)
		assert.NoError(t, err)
		assert.True(t, allowed)
		assert.True(t, limiter.Degraded())
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("Recovery", func(t *testing.T) {
		current = current.Add(2 * time.Minute)
		primary.On("Allow", ctx, "1", 5, time.Minute).Return(true, nil).Once()

		allowed, err := limiter.Allow(ctx, "1", 5, time.Minute)
		assert.NoError(t, err)
		assert.True(t, allowed)
		assert.False(t, limiter.Degraded())
		primary.AssertExpectations(t)
	})
}
