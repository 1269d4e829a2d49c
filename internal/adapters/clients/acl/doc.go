// Package acl provides Anti-Corruption Layer adapters for remote resources.
//
// An ACL adapter is the translation boundary between a downstream service and
// the domain:
//
//   - transport errors, retries and circuit breaker trips become
//     [domain.ErrResourceUnavailable]
//   - non-2xx responses become [domain.ErrResourceUnavailable] with the status
//   - response bodies are translated into domain types before they leave the package
//
// # Package Components
//
//   - [BaseAdapter]: embeddable helper that issues requests through
//     [clients.Client] and maps failures with [MapHTTPError]
//   - [CatalogClient]: fetches the quote catalog as CSV and parses it with
//     the same rules as the local file store
//
// Example:
//
//	client, err := clients.New(&clients.Config{
//	    BaseURL:     "https://cdn.example.com/quotes.csv",
//	    ServiceName: "quote-catalog",
//	    Retry:       cfg.Client.Retry,
//	    Circuit:     cfg.Client.CircuitBreaker,
//	})
//	store := acl.NewCatalogClient(acl.CatalogClientConfig{Client: client})
//	catalog, err := store.Load(ctx)
package acl
