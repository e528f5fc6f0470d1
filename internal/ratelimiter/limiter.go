package ratelimiter

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter is a token bucket ahead of the SMTP transport, shared by all
// consumer workers. It enforces a steady-state send rate so a large
// reminder scan cannot flood the mail relay. Burst is set equal to the
// rate so no extra capacity accumulates beyond the per-second maximum.
type Limiter struct {
	limiter *rate.Limiter
}

// New creates a Limiter allowing ratePerSec sends per second.
func New(ratePerSec int) *Limiter {
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(ratePerSec), ratePerSec)}
}

// Wait blocks until the limiter grants a token. Called by each worker
// immediately before handing a message to the mailer. Returns a non-nil
// error only if ctx is cancelled while waiting.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
