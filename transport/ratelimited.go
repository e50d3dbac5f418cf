package transport

import (
	"fmt"

	"golang.org/x/time/rate"

	"github.com/eostangvik/threadsync/dispatch"
)

// RateLimitExceededError is returned by RateLimited.ScheduleThreadCallback
// when arming a pickup would exceed the configured rate.
type RateLimitExceededError struct {
	Target string
}

func (e *RateLimitExceededError) Error() string {
	return fmt.Sprintf("transport: pickup rate exceeded for target %s", e.Target)
}

// RateLimited wraps a dispatch.Transport and throttles how often it is
// allowed to arm a pickup. One limiter is shared by all targets, so
// pickups armed for any target draw on the same budget; targets are not
// limited individually. Grounded in the same
// golang.org/x/time/rate limiter the pool package's WithRateLimit option
// constructs for throttling task throughput.
type RateLimited[ID comparable] struct {
	inner   dispatch.Transport[ID]
	limiter *rate.Limiter
}

// NewRateLimited wraps inner with a limiter allowing r pickups per second
// with the given burst.
func NewRateLimited[ID comparable](inner dispatch.Transport[ID], r rate.Limit, burst int) *RateLimited[ID] {
	return &RateLimited[ID]{inner: inner, limiter: rate.NewLimiter(r, burst)}
}

// ScheduleThreadCallback implements dispatch.Transport.
func (t *RateLimited[ID]) ScheduleThreadCallback(target ID, callback func()) error {
	if !t.limiter.Allow() {
		return &RateLimitExceededError{Target: fmt.Sprint(target)}
	}
	return t.inner.ScheduleThreadCallback(target, callback)
}
