package acl

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/jsamuelsen/daily-quote/internal/adapters/catalog"
	"github.com/jsamuelsen/daily-quote/internal/adapters/clients"
	"github.com/jsamuelsen/daily-quote/internal/domain"
	"github.com/jsamuelsen/daily-quote/internal/platform/logging"
)

const (
	opLoadCatalog  = "load catalog"
	opCheckCatalog = "check catalog"
)

// CatalogClientConfig contains configuration for the remote catalog client.
type CatalogClientConfig struct {
	// Client is the HTTP client to use for requests.
	// Its BaseURL should point at the CSV document.
	Client *clients.Client

	// Path is appended to the client's BaseURL. Empty fetches BaseURL itself.
	Path string

	// Delimiter separates fields. Defaults to a comma.
	Delimiter rune

	// Logger is the structured logger.
	Logger *slog.Logger
}

// CatalogClient implements ports.QuoteStore over HTTP.
// The remote document uses the same format as the local catalog file.
type CatalogClient struct {
	BaseAdapter

	path      string
	delimiter rune
	logger    *slog.Logger
}

// NewCatalogClient creates a new remote catalog adapter.
// Panics if Client is nil. Defaults logger to slog.Default() if nil.
func NewCatalogClient(cfg CatalogClientConfig) *CatalogClient {
	if cfg.Client == nil {
		panic("CatalogClient: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	delim := cfg.Delimiter
	if delim == 0 {
		delim = catalog.DefaultDelimiter
	}

	return &CatalogClient{
		BaseAdapter: NewBaseAdapter(cfg.Client, catalog.HealthCheckName),
		path:        cfg.Path,
		delimiter:   delim,
		logger:      logger,
	}
}

// Load fetches the document and translates it into a domain catalog.
// Implements ports.QuoteStore.
func (c *CatalogClient) Load(ctx context.Context) (domain.Catalog, error) {
	c.logger.Log(ctx, logging.LevelTrace, "fetching remote catalog", slog.String("path", c.path))

	body, err := c.Fetch(ctx, c.path, opLoadCatalog)
	if err != nil {
		return nil, err
	}

	quotes, err := catalog.Parse(bytes.NewReader(body), c.delimiter)
	if err != nil {
		if domain.IsMalformedRecord(err) {
			return nil, err
		}

		return nil, domain.NewResourceUnavailableError(c.ServiceName(), err.Error())
	}

	c.logger.Log(ctx, logging.LevelTrace, "translated remote catalog",
		slog.Int("bytes", len(body)),
		slog.Int("records", quotes.Len()),
	)

	return quotes, nil
}

// Name implements ports.HealthChecker.
func (c *CatalogClient) Name() string {
	return c.ServiceName()
}

// Check implements ports.HealthChecker with a HEAD request, so readiness
// checks do not download the document.
func (c *CatalogClient) Check(ctx context.Context) error {
	return c.Head(ctx, c.path, opCheckCatalog)
}
