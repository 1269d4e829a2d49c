// Package app contains application services that orchestrate use cases.
// This is the application layer in Clean Architecture - it coordinates
// domain logic and infrastructure through ports.
//
// Both entry points of the service, a page request and the scheduled
// refresh, converge on the same pipeline: load the catalog, select the
// quote for today, render the page.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/jsamuelsen/daily-quote/internal/domain"
	"github.com/jsamuelsen/daily-quote/internal/platform/logging"
	"github.com/jsamuelsen/daily-quote/internal/platform/telemetry"
	"github.com/jsamuelsen/daily-quote/internal/ports"
)

// CookieName is the name of the cookie carrying today's quote.
const CookieName = "quote"

const cacheKeyPrefix = "page:"

// Clock returns the current time.
type Clock func() time.Time

// QuoteCookie describes the cookie attached to every response serving a page.
type QuoteCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`

	// Expires is the start of the day after the page was built.
	Expires time.Time `json:"expires"`
}

// DailyPage is the result of one pipeline run. It is the unit the page cache stores.
type DailyPage struct {
	Selection domain.Selection `json:"selection"`
	HTML      []byte           `json:"html"`
	Cookie    QuoteCookie      `json:"cookie"`
	BuiltAt   time.Time        `json:"builtAt"`
}

// DailyQuoteServiceConfig contains the collaborators of the service.
type DailyQuoteServiceConfig struct {
	// Store loads the catalog. Required.
	Store ports.QuoteStore

	// Renderer produces the HTML page. Required.
	Renderer ports.PageRenderer

	// Cache holds built pages. Optional; nil recomputes on every call.
	Cache ports.Cache

	// Location is the zone "today" is computed in. Defaults to time.Local.
	Location *time.Location

	// Clock defaults to time.Now.
	Clock Clock

	Logger *slog.Logger
}

// DailyQuoteService builds the daily quote page.
// It depends on port interfaces, not concrete implementations.
type DailyQuoteService struct {
	store    ports.QuoteStore
	renderer ports.PageRenderer
	cache    ports.Cache
	location *time.Location
	clock    Clock
	logger   *slog.Logger
}

// NewDailyQuoteService creates the service.
// Panics if Store or Renderer is nil.
func NewDailyQuoteService(cfg DailyQuoteServiceConfig) *DailyQuoteService {
	if cfg.Store == nil {
		panic("DailyQuoteService: Store is required")
	}

	if cfg.Renderer == nil {
		panic("DailyQuoteService: Renderer is required")
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &DailyQuoteService{
		store:    cfg.Store,
		renderer: cfg.Renderer,
		cache:    cfg.Cache,
		location: loc,
		clock:    clock,
		logger:   logger.With(slog.String("component", "app.DailyQuoteService")),
	}
}

// Now returns the current time in the configured location.
func (s *DailyQuoteService) Now() time.Time {
	return s.clock().In(s.location)
}

// Today returns the page for the current day.
// A cached page is served when present; otherwise the pipeline runs and
// its result is cached until the start of the next day.
func (s *DailyQuoteService) Today(ctx context.Context) (*DailyPage, error) {
	now := s.Now()
	key := CacheKey(now)

	if page, ok := s.lookup(ctx, key); ok {
		return page, nil
	}

	page, err := s.build(ctx, now)
	if err != nil {
		return nil, err
	}

	s.save(ctx, key, page, now)

	return page, nil
}

// Refresh always runs the pipeline and overwrites the cached page.
func (s *DailyQuoteService) Refresh(ctx context.Context) (*DailyPage, error) {
	now := s.Now()

	page, err := s.build(ctx, now)
	if err != nil {
		return nil, err
	}

	s.save(ctx, CacheKey(now), page, now)

	s.loggerFor(ctx).InfoContext(ctx, "daily quote refreshed",
		slog.String("date", page.Selection.DateString()),
		slog.Int("index", page.Selection.Index),
		slog.String("author", page.Selection.Quote.Author),
	)

	return page, nil
}

// SelectionOn selects the quote for a calendar date given as YYYY-MM-DD,
// interpreted in the configured location. Nothing is rendered or cached.
func (s *DailyQuoteService) SelectionOn(ctx context.Context, date string) (domain.Selection, error) {
	day, err := time.ParseInLocation(domain.DateLayout, date, s.location)
	if err != nil {
		return domain.Selection{}, fmt.Errorf("parsing date: %w", err)
	}

	catalog, err := s.store.Load(ctx)
	if err != nil {
		return domain.Selection{}, fmt.Errorf("loading catalog: %w", err)
	}

	sel, err := domain.SelectQuote(catalog, day)
	if err != nil {
		return domain.Selection{}, fmt.Errorf("selecting quote: %w", err)
	}

	return sel, nil
}

// CacheKey returns the page cache key for the calendar day of t.
func CacheKey(t time.Time) string {
	return cacheKeyPrefix + t.Format(domain.DateLayout)
}

// build runs load, select and render for now.
func (s *DailyQuoteService) build(ctx context.Context, now time.Time) (page *DailyPage, err error) {
	ctx, span := telemetry.Tracer("app").Start(ctx, "DailyQuoteService.build")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	catalog, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	sel, err := domain.SelectQuote(catalog, now)
	if err != nil {
		return nil, fmt.Errorf("selecting quote: %w", err)
	}

	span.SetAttributes(
		attribute.Int("quote.catalog_size", sel.CatalogSize),
		attribute.Int("quote.day_of_year", sel.DayOfYear),
		attribute.Int("quote.index", sel.Index),
	)

	html, err := s.renderer.RenderPage(ctx, ports.PageData{
		Quote:  sel.DisplayText(),
		Author: sel.Quote.Author,
		Date:   sel.DateString(),
	})
	if err != nil {
		return nil, fmt.Errorf("rendering page: %w", err)
	}

	return &DailyPage{
		Selection: sel,
		HTML:      html,
		Cookie: QuoteCookie{
			Name:    CookieName,
			Value:   sel.DisplayText(),
			Expires: domain.StartOfNextDay(now),
		},
		BuiltAt: now,
	}, nil
}

// lookup reads a page from the cache. Any cache failure is a miss.
func (s *DailyQuoteService) lookup(ctx context.Context, key string) (*DailyPage, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ports.ErrCacheMiss) {
			s.loggerFor(ctx).WarnContext(ctx, "page cache read failed",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}

		return nil, false
	}

	var page DailyPage
	if err := json.Unmarshal(data, &page); err != nil {
		s.loggerFor(ctx).WarnContext(ctx, "discarding undecodable cached page",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)

		return nil, false
	}

	s.loggerFor(ctx).Log(ctx, logging.LevelTrace, "page cache hit", slog.String("key", key))

	return &page, true
}

// save writes a page to the cache until the start of the next day.
// Failures are logged and otherwise ignored.
func (s *DailyQuoteService) save(ctx context.Context, key string, page *DailyPage, now time.Time) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(page)
	if err != nil {
		s.loggerFor(ctx).WarnContext(ctx, "encoding page for cache failed", slog.String("error", err.Error()))
		return
	}

	if err := s.cache.Set(ctx, key, data, secondsUntil(domain.StartOfNextDay(now), now)); err != nil {
		s.loggerFor(ctx).WarnContext(ctx, "page cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

// loggerFor prefers the request or job scoped logger.
func (s *DailyQuoteService) loggerFor(ctx context.Context) *slog.Logger {
	return logging.FromContextOr(ctx, s.logger)
}

// secondsUntil rounds up so an entry never outlives its day by truncation,
// and never returns less than one second since zero means no expiry.
func secondsUntil(deadline, now time.Time) int {
	secs := int(math.Ceil(deadline.Sub(now).Seconds()))
	if secs < 1 {
		return 1
	}

	return secs
}
