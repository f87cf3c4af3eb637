package bolt

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/stancil-services/boltsync/internal/core/ports/driven"
)

// RequestsPerHour is the documented ceiling of the Bolt open API.
const RequestsPerHour = 1000

// DefaultInterval is the minimum spacing between two requests.
const DefaultInterval = time.Hour / RequestsPerHour

// Verify interface compliance.
var _ driven.Pacer = (*RateLimiter)(nil)

// RateLimiter spaces requests to stay under the hourly ceiling.
// It holds a single token, so the first Wait returns immediately and
// every later Wait blocks until interval has passed since the previous one.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a limiter allowing one request per interval.
// A non-positive interval disables pacing.
func NewRateLimiter(interval time.Duration) *RateLimiter {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Wait blocks until the next request may be made.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}
