// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrResourceUnavailable, ErrMalformedRecord, etc.)
//   - Keep interfaces small and focused (Interface Segregation Principle)
package ports

import (
	"context"
	"errors"

	"github.com/jsamuelsen/daily-quote/internal/domain"
)

// ErrCacheMiss is returned by Cache.Get when the key does not exist or has expired.
var ErrCacheMiss = errors.New("cache miss")

// QuoteStore loads the quote catalog from its persisted resource.
// Implementations read the source on every call; they never cache.
//
// Example usage in application layer:
//
//	catalog, err := store.Load(ctx)
//	if err != nil {
//	    return nil, fmt.Errorf("loading catalog: %w", err)
//	}
//	sel, err := domain.SelectQuote(catalog, now)
type QuoteStore interface {
	// Load reads every record from the source in source order.
	// Returns domain.ErrResourceUnavailable if the source cannot be read and
	// domain.ErrMalformedRecord if any row lacks a required field.
	Load(ctx context.Context) (domain.Catalog, error)
}

// PageData is the view model handed to the PageRenderer.
type PageData struct {
	// Quote is the display text, already wrapped in quotation marks.
	Quote string

	// Author is who said or wrote the quote.
	Author string

	// Date is the selection date formatted as YYYY-MM-DD.
	Date string
}

// ErrorPageData is the view model for the user-visible failure page.
type ErrorPageData struct {
	Status  int
	Message string
	TraceID string
}

// PageRenderer produces the HTML documents served to browsers.
type PageRenderer interface {
	// RenderPage renders the daily quote page.
	RenderPage(ctx context.Context, data PageData) ([]byte, error)

	// RenderError renders the page shown when the quote cannot be produced.
	RenderError(ctx context.Context, data ErrorPageData) ([]byte, error)
}

// Cache defines the contract for caching operations.
// Implementations may use Redis or in-memory caches.
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns ErrCacheMiss if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with optional TTL.
	// A TTL of 0 means no expiration.
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error

	// Delete removes a value from the cache.
	// Does not return an error if the key does not exist.
	Delete(ctx context.Context, key string) error
}
