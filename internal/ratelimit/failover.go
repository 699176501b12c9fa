package ratelimit

import (
	"context"
	"sync/atomic"
	"time"

	"shareit/internal/metrics"

	"github.com/rs/zerolog"
)

const retryPrimaryAfter = time.Minute

// FailoverLimiter uses primary until it fails, then fallback, probing primary again once a minute.
type FailoverLimiter struct {
	primary   Limiter
	fallback  Limiter
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
	now       func() time.Time
}

func NewFailoverLimiter(primary, fallback Limiter, logger *zerolog.Logger) *FailoverLimiter {
	return &FailoverLimiter{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		now:      time.Now,
	}
}

func (f *FailoverLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if f.isDown.Load() && f.now().Sub(time.Unix(0, f.lastCheck.Load())) > retryPrimaryAfter {
		allowed, err := f.primary.Allow(ctx, key, limit, window)
		if err == nil {
			f.logger.Info().Msg("Primary rate limiter recovered")
			f.isDown.Store(false)
			metrics.SetLimiterFallback(false)
			return allowed, nil
		}
		f.lastCheck.Store(f.now().UnixNano())
	}

	if !f.isDown.Load() {
		allowed, err := f.primary.Allow(ctx, key, limit, window)
		if err == nil {
			return allowed, nil
		}
		f.logger.Error().Err(err).Msg("Primary rate limiter failed, falling back to memory")
		f.isDown.Store(true)
		f.lastCheck.Store(f.now().UnixNano())
		metrics.SetLimiterFallback(true)
	}

	return f.fallback.Allow(ctx, key, limit, window)
}

// Degraded reports whether requests are currently counted by the fallback.
func (f *FailoverLimiter) Degraded() bool {
	return f.isDown.Load()
}
