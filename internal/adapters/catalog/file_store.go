package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jsamuelsen/daily-quote/internal/domain"
	"github.com/jsamuelsen/daily-quote/internal/platform/logging"
)

// HealthCheckName identifies the catalog in readiness results.
const HealthCheckName = "quote-catalog"

// FileStore loads the catalog from a local file on every call.
type FileStore struct {
	path      string
	delimiter rune
}

// FileStoreConfig configures a FileStore.
type FileStoreConfig struct {
	// Path to the CSV file.
	Path string

	// Delimiter separates fields. Defaults to a comma.
	Delimiter rune
}

// NewFileStore creates a FileStore for the configured path.
func NewFileStore(cfg FileStoreConfig) *FileStore {
	delim := cfg.Delimiter
	if delim == 0 {
		delim = DefaultDelimiter
	}

	return &FileStore{path: cfg.Path, delimiter: delim}
}

// Load reads and parses the whole file.
// Returns domain.ErrResourceUnavailable if the file cannot be opened or read,
// and domain.ErrMalformedRecord for any row missing a required field.
func (s *FileStore) Load(ctx context.Context) (domain.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, domain.NewResourceUnavailableError(s.path, openReason(err))
	}
	defer f.Close()

	catalog, err := Parse(f, s.delimiter)
	if err != nil {
		if domain.IsMalformedRecord(err) {
			return nil, err
		}

		return nil, domain.NewResourceUnavailableError(s.path, err.Error())
	}

	logging.FromContext(ctx).Log(ctx, logging.LevelTrace, "catalog loaded",
		slog.String("source", s.path),
		slog.Int("records", catalog.Len()),
	)

	return catalog, nil
}

// Name implements ports.HealthChecker.
func (s *FileStore) Name() string {
	return HealthCheckName
}

// Check implements ports.HealthChecker. The catalog is healthy when it
// loads and holds at least one quote.
func (s *FileStore) Check(ctx context.Context) error {
	catalog, err := s.Load(ctx)
	if err != nil {
		return err
	}

	if catalog.Len() == 0 {
		return domain.ErrEmptyCatalog
	}

	return nil
}

func openReason(err error) string {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return "file not found"
	case errors.Is(err, os.ErrPermission):
		return "permission denied"
	default:
		return err.Error()
	}
}
