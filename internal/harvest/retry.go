package harvest

import "time"

// Retry defaults. A failing page is attempted MaxAttempts+1 times in total
// before its letter is abandoned.
const (
	DefaultMaxAttempts = 10
	DefaultBaseDelay   = 10 * time.Second
)

// LinearRetryPolicy waits BaseDelay*attempt between attempts on the same URL.
// The backoff is linear, not exponential, and the attempt counter resets fully
// on any success, so a flaky page late in a long pagination chain does not
// inherit backoff state from earlier pages.
type LinearRetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// NewLinearRetryPolicy builds a policy with the default ceiling and delay.
func NewLinearRetryPolicy() *LinearRetryPolicy {
	return &LinearRetryPolicy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
	}
}

// ShouldRetry decides whether another attempt is allowed. attempt is the
// number of consecutive failures seen so far on the current URL.
func (p *LinearRetryPolicy) ShouldRetry(attempt int) bool {
	return attempt <= p.MaxAttempts
}

// Backoff returns the wait duration before the next attempt.
func (p *LinearRetryPolicy) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(attempt) * p.BaseDelay
}
