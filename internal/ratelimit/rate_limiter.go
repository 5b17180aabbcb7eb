// rate_limiter.go - Per-provider request pacing to stay under upstream RPM quotas

package ratelimit

import (
	"context"
	"time"

	"github.com/juju/ratelimit"
)

// RateLimiter paces outgoing calls to one provider with a token bucket.
// A nil *RateLimiter never blocks.
type RateLimiter struct {
	bucket *ratelimit.Bucket
	name   string
}

// NewRateLimiter allows requestsPerMinute calls per minute with bursts of the same size.
// Returns nil when requestsPerMinute <= 0 (unlimited).
func NewRateLimiter(name string, requestsPerMinute int) *RateLimiter {
	if requestsPerMinute <= 0 {
		return nil
	}
	perSecond := float64(requestsPerMinute) / 60.0
	return &RateLimiter{
		bucket: ratelimit.NewBucketWithRate(perSecond, int64(requestsPerMinute)),
		name:   name,
	}
}

// Wait blocks until a token is available or ctx is done.
// The token is reserved up front, so a cancelled wait still spends it.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if rl == nil {
		return nil
	}

	delay := rl.bucket.Take(1)
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Available reports the tokens that could be taken without waiting
func (rl *RateLimiter) Available() int64 {
	if rl == nil {
		return -1
	}
	return rl.bucket.Available()
}

// Name identifies the provider this limiter paces
func (rl *RateLimiter) Name() string {
	if rl == nil {
		return ""
	}
	return rl.name
}
