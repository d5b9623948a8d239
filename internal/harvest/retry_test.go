package harvest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLinearRetryPolicy_Ceiling(t *testing.T) {
	t.Parallel()
	p := &LinearRetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}

	require.True(t, p.ShouldRetry(1))
	require.True(t, p.ShouldRetry(3))
	require.False(t, p.ShouldRetry(4))
}

func TestLinearRetryPolicy_BackoffGrowsLinearly(t *testing.T) {
	t.Parallel()
	p := &LinearRetryPolicy{MaxAttempts: 10, BaseDelay: 10 * time.Millisecond}

	require.Equal(t, 10*time.Millisecond, p.Backoff(1))
	require.Equal(t, 30*time.Millisecond, p.Backoff(3))
	// Degenerate input is clamped rather than producing a zero sleep.
	require.Equal(t, 10*time.Millisecond, p.Backoff(0))
}

func TestNewLinearRetryPolicy_Defaults(t *testing.T) {
	t.Parallel()
	p := NewLinearRetryPolicy()
	require.Equal(t, DefaultMaxAttempts, p.MaxAttempts)
	require.Equal(t, DefaultBaseDelay, p.BaseDelay)
}
