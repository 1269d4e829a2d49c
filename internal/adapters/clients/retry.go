package clients

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"net"
	"time"

	"github.com/jsamuelsen/daily-quote/internal/platform/config"
)

// defaultJitterFactor applies when the retry config leaves jitter at zero.
const defaultJitterFactor = 0.25

// retryPolicy decides how many attempts a fetch gets and how long to wait
// between them.
type retryPolicy struct {
	cfg config.RetryConfig

	// jitter returns a value in [-1, 1).
	jitter func() float64
}

func newRetryPolicy(cfg config.RetryConfig) retryPolicy {
	return retryPolicy{
		cfg: cfg,
		jitter: func() float64 {
			return rand.Float64()*2 - 1 //nolint:gosec // spreading retries, not security
		},
	}
}

func (p retryPolicy) attempts() int {
	return max(p.cfg.MaxAttempts, 1)
}

// backoff returns the wait after failed attempt n (1-based). It grows from
// InitialInterval by Multiplier, carries symmetric jitter and is capped at
// MaxInterval. A longer Retry-After from the host is honoured up to the cap.
func (p retryPolicy) backoff(n int, cause error) time.Duration {
	mult := max(p.cfg.Multiplier, 1)
	wait := float64(p.cfg.InitialInterval) * math.Pow(mult, float64(n-1))

	factor := p.cfg.JitterFactor
	if factor <= 0 {
		factor = defaultJitterFactor
	}

	wait += wait * factor * p.jitter()

	var statusErr *StatusError
	if errors.As(cause, &statusErr) && float64(statusErr.RetryAfter) > wait {
		wait = float64(statusErr.RetryAfter)
	}

	if p.cfg.MaxInterval > 0 && wait > float64(p.cfg.MaxInterval) {
		wait = float64(p.cfg.MaxInterval)
	}

	return time.Duration(wait)
}

// retryableError reports whether a transport error is worth another attempt.
// Cancellation and deadline errors from the caller's context never are.
func retryableError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError

	return errors.As(err, &opErr)
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
