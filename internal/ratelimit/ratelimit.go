// Package ratelimit provides the call discipline for one external API:
// a minimum interval between calls plus exponential backoff after
// failures, with a bounded consecutive-failure budget.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/ferrule-labs/quaero/internal/core/domain"
)

// maxBackoffShift caps the exponential backoff doubling.
const maxBackoffShift = 10

// Config holds rate limiting configuration for one external API.
type Config struct {
	// MinInterval is the minimum time between admitted calls.
	MinInterval time.Duration

	// BaseDelay is the backoff after the first failure; it doubles
	// with every consecutive failure.
	BaseDelay time.Duration

	// MaxRetries is how many consecutive failures are retried before
	// the limiter reports exhaustion.
	MaxRetries int
}

// Limiter enforces the call discipline for exactly one external API.
// It uses a token bucket (burst 1) for the interval gate, so concurrent
// callers are admitted one at a time in arrival order.
//
// Limiter is safe for concurrent use by multiple goroutines.
type Limiter struct {
	cfg  Config
	gate *rate.Limiter

	mu       sync.Mutex
	retryAt  time.Time
	failures int
	calls    int64
	retries  int64
}

// New creates a limiter for one external API.
func New(cfg Config) *Limiter {
	gate := rate.NewLimiter(rate.Inf, 1)
	if cfg.MinInterval > 0 {
		gate = rate.NewLimiter(rate.Every(cfg.MinInterval), 1)
	}

	return &Limiter{
		cfg:  cfg,
		gate: gate,
	}
}

// Acquire blocks until a call may be made: first any pending failure
// backoff, then the interval gate. The wait is cooperative and respects
// context cancellation.
//
// Once the consecutive-failure budget is exhausted, Acquire fails with
// domain.ErrRateLimitExceeded until the final backoff window has passed;
// after that a single probe call is admitted. The failure count itself
// resets only on ReportSuccess.
func (l *Limiter) Acquire(ctx context.Context) error {
	l.mu.Lock()
	failures := l.failures
	retryAt := l.retryAt
	l.mu.Unlock()

	if failures > l.cfg.MaxRetries && time.Now().Before(retryAt) {
		return domain.ErrRateLimitExceeded
	}

	if wait := time.Until(retryAt); wait > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	if err := l.gate.Wait(ctx); err != nil {
		return err
	}

	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	return nil
}

// ReportFailure records a failed external call. It arms a backoff of
// BaseDelay * 2^(failures-1) and returns true while the retry budget
// still allows another attempt.
func (l *Limiter) ReportFailure() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.failures++
	l.retryAt = time.Now().Add(l.backoffLocked())

	if l.failures > l.cfg.MaxRetries {
		return false
	}
	l.retries++
	return true
}

// ReportSuccess records a successful external call, resetting the
// consecutive-failure count and any pending backoff.
func (l *Limiter) ReportSuccess() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.failures = 0
	l.retryAt = time.Time{}
}

// backoffLocked computes the current backoff delay. Caller holds mu.
func (l *Limiter) backoffLocked() time.Duration {
	shift := l.failures - 1
	if shift < 0 {
		shift = 0
	}
	if shift > maxBackoffShift {
		shift = maxBackoffShift
	}
	return l.cfg.BaseDelay << shift
}

// Snapshot returns the limiter's call counters for the stats surface.
func (l *Limiter) Snapshot() domain.ClientStats {
	l.mu.Lock()
	defer l.mu.Unlock()

	return domain.ClientStats{
		Calls:               l.calls,
		Retries:             l.retries,
		ConsecutiveFailures: l.failures,
	}
}
