// Package ratelimiter limits how often outbound calls are made.
package ratelimiter

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Limiter blocks until the next call is allowed.
type Limiter interface {
	Wait(ctx context.Context) error
}

// RateLimiter spreads limit calls per interval over a token bucket shared by
// concurrent callers. Up to limit calls may burst at once.
type RateLimiter struct {
	limit  int
	lim    *rate.Limiter
	logger *zap.Logger
}

var _ Limiter = (*RateLimiter)(nil)

// NewRateLimiter creates a limiter allowing limit calls per interval.
// A non-positive limit disables limiting.
func NewRateLimiter(limit int, interval time.Duration, logger *zap.Logger) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	lim := rate.NewLimiter(rate.Inf, 0)
	if limit > 0 && interval > 0 {
		lim = rate.NewLimiter(rate.Every(interval/time.Duration(limit)), limit)
	}
	return &RateLimiter{limit: limit, lim: lim, logger: logger}
}

// Wait blocks until a token is available. It fails without waiting when ctx
// ends first or its deadline is too close for a token to arrive.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if rl.lim.Tokens() < 1 {
		rl.logger.Warn("rate limit reached; waiting", zap.Int("limit", rl.limit))
	}
	return rl.lim.Wait(ctx)
}
