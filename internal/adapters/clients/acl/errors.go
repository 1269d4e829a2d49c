package acl

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jsamuelsen/daily-quote/internal/adapters/clients"
	"github.com/jsamuelsen/daily-quote/internal/domain"
)

// maxErrorBodyBytes caps how much of an error response is kept for context.
const maxErrorBodyBytes = 256

// MapHTTPError maps a failed exchange with a remote resource to a domain error.
// Every failure of a read-only resource means the same thing to the domain:
// the resource is unavailable. The reason carries the specific cause.
//
// Parameters:
//   - resp: the HTTP response (nil for transport errors)
//   - clientErr: any error from the HTTP client (may be nil)
//   - source: name of the remote resource for error context
//   - operation: the operation being performed (e.g., "load catalog")
//
// Returns nil for 2xx responses.
func MapHTTPError(resp *http.Response, clientErr error, source, operation string) error {
	if clientErr != nil {
		return mapClientError(clientErr, source, operation)
	}

	if resp == nil {
		return domain.NewResourceUnavailableError(source, "no response received")
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	reason := fmt.Sprintf("%s failed with status %d", operation, resp.StatusCode)
	if snippet := bodySnippet(resp.Body); snippet != "" {
		reason += ": " + snippet
	}

	return domain.NewResourceUnavailableError(source, reason)
}

// mapClientError translates client-level errors to domain errors.
func mapClientError(err error, source, operation string) error {
	switch {
	case errors.Is(err, clients.ErrCircuitOpen):
		return domain.NewResourceUnavailableError(source,
			fmt.Sprintf("circuit breaker open during %s", operation))

	case errors.Is(err, clients.ErrMaxRetriesExceeded):
		return domain.NewResourceUnavailableError(source,
			fmt.Sprintf("max retries exceeded during %s", operation))

	default:
		return domain.NewResourceUnavailableError(source,
			fmt.Sprintf("%s failed: %v", operation, err))
	}
}

// bodySnippet returns the first bytes of an error body on a single line.
func bodySnippet(body io.Reader) string {
	if body == nil {
		return ""
	}

	b, err := io.ReadAll(io.LimitReader(body, maxErrorBodyBytes))
	if err != nil {
		return ""
	}

	return strings.Join(strings.Fields(string(b)), " ")
}
