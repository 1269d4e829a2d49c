// Package clients provides the instrumented HTTP client used to read the
// remote quote catalog.
package clients

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

var (
	// ErrCircuitOpen is returned without contacting the host while the
	// circuit breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last failure once every attempt is used.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)

// StatusError is a response the client counts as a failed attempt:
// a 5xx or a 429.
type StatusError struct {
	StatusCode int

	// RetryAfter is the wait the host asked for, or zero.
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("host responded %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// retryableStatus reports whether a response status is worth another attempt.
func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// newStatusError consumes resp and describes it as a failed attempt.
func newStatusError(resp *http.Response, now time.Time) *StatusError {
	_ = resp.Body.Close()

	return &StatusError{
		StatusCode: resp.StatusCode,
		RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), now),
	}
}

// parseRetryAfter reads a Retry-After value in seconds or as an HTTP date.
// Anything else, or a date in the past, yields zero.
func parseRetryAfter(v string, now time.Time) time.Duration {
	if v == "" {
		return 0
	}

	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0
		}

		return time.Duration(secs) * time.Second
	}

	at, err := http.ParseTime(v)
	if err != nil || !at.After(now) {
		return 0
	}

	return at.Sub(now)
}
