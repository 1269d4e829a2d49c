// Package main is the entry point for the service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jsamuelsen/daily-quote/internal/adapters/cache"
	"github.com/jsamuelsen/daily-quote/internal/adapters/catalog"
	"github.com/jsamuelsen/daily-quote/internal/adapters/clients"
	"github.com/jsamuelsen/daily-quote/internal/adapters/clients/acl"
	"github.com/jsamuelsen/daily-quote/internal/adapters/http"
	"github.com/jsamuelsen/daily-quote/internal/adapters/http/handlers"
	"github.com/jsamuelsen/daily-quote/internal/adapters/render"
	"github.com/jsamuelsen/daily-quote/internal/app"
	"github.com/jsamuelsen/daily-quote/internal/platform/config"
	"github.com/jsamuelsen/daily-quote/internal/platform/logging"
	"github.com/jsamuelsen/daily-quote/internal/platform/scheduler"
	"github.com/jsamuelsen/daily-quote/internal/platform/telemetry"
	"github.com/jsamuelsen/daily-quote/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	slog.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	// 4. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
		Location:     cfg.Schedule.Timezone,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 5. Resolve the calendar used for "today" and for the schedule
	location, err := cfg.Schedule.Location()
	if err != nil {
		return fmt.Errorf("invalid schedule: %w", err)
	}

	// 6. Create health registry
	healthRegistry := ports.NewHealthRegistry()

	// 7. Create the quote store (file or remote catalog)
	store, err := newQuoteStore(cfg, logger)
	if err != nil {
		return err
	}

	if err := healthRegistry.Register(store); err != nil {
		return fmt.Errorf("registering catalog health check: %w", err)
	}

	// 8. Create the page cache
	pageCache, closeCache, err := newPageCache(cfg, healthRegistry)
	if err != nil {
		return err
	}
	defer closeCache()

	// 9. Create the page renderer
	renderer, err := render.New(render.Config{
		Title:            cfg.Page.Title,
		PageTemplatePath: cfg.Page.TemplatePath,
		Logger:           logger,
	})
	if err != nil {
		return fmt.Errorf("creating page renderer: %w", err)
	}

	// 10. Create the daily quote service (application layer)
	quoteService := app.NewDailyQuoteService(app.DailyQuoteServiceConfig{
		Store:    store,
		Renderer: renderer,
		Cache:    pageCache,
		Location: location,
		Logger:   logger,
	})

	// Warm the cache; a failure here is served as an error page later, not fatal.
	if _, err := quoteService.Refresh(ctx); err != nil {
		logger.Warn("initial quote refresh failed", slog.String("error", err.Error()))
	}

	// 11. Schedule the midnight refresh
	sched, err := newScheduler(cfg, location, quoteService, logger)
	if err != nil {
		return err
	}

	// 12. Create handlers
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	healthHandler := handlers.NewHealthHandler(healthRegistry, buildInfo)
	pageHandler := handlers.NewPageHandler(quoteService, renderer)
	quoteHandler := handlers.NewQuoteHandler(quoteService)

	// 13. Create HTTP server
	server := http.New(&cfg.Server, logger)

	// 14. Setup router with all middleware and routes
	routerCfg := http.RouterConfig{
		Logger:        logger,
		AppConfig:     &cfg.App,
		HealthHandler: healthHandler,
		PageHandler:   pageHandler,
		QuoteHandler:  quoteHandler,
		Timeout:       cfg.Server.RequestTimeout,
		RateLimit:     cfg.Server.RateLimit,
	}
	http.SetupRouter(server.Engine(), routerCfg)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	// 15. Start server (non-blocking)
	serverErr, err := server.Start()
	if err != nil {
		stopScheduler(ctx, logger, sched, cfg.Server.ShutdownTimeout)
		return err
	}

	// 16. Wait for shutdown signal
	return waitForShutdown(ctx, logger, server, sched, serverErr, quit, cfg.Server.ShutdownTimeout)
}

// catalogStore is a QuoteStore that can report its own health.
type catalogStore interface {
	ports.QuoteStore
	ports.HealthChecker
}

// newQuoteStore selects the catalog source from configuration.
func newQuoteStore(cfg *config.Config, logger *slog.Logger) (catalogStore, error) {
	delim := cfg.Catalog.DelimiterRune()

	if cfg.Catalog.Source != config.CatalogSourceHTTP {
		logger.Info("using file catalog", slog.String("path", cfg.Catalog.Path))

		return catalog.NewFileStore(catalog.FileStoreConfig{
			Path:      cfg.Catalog.Path,
			Delimiter: delim,
		}), nil
	}

	httpClient, err := clients.New(&clients.Config{
		BaseURL:     cfg.Catalog.URL,
		ServiceName: catalog.HealthCheckName,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Accept:      "text/csv",
		UserAgent:   cfg.App.Name + "/" + cfg.App.Version,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating catalog HTTP client: %w", err)
	}

	logger.Info("using remote catalog", slog.String("url", cfg.Catalog.URL))

	return acl.NewCatalogClient(acl.CatalogClientConfig{
		Client:    httpClient,
		Delimiter: delim,
		Logger:    logger,
	}), nil
}

// newPageCache builds the configured cache. The returned func releases it.
func newPageCache(cfg *config.Config, registry ports.HealthRegistry) (ports.Cache, func(), error) {
	noop := func() {}

	if !cfg.Cache.Enabled {
		return nil, noop, nil
	}

	if cfg.Cache.Backend != config.CacheBackendRedis {
		return cache.NewMemoryCache(cfg.Cache.Size), noop, nil
	}

	redisCache := cache.NewRedisCache(cache.RedisConfig{
		Addr:      cfg.Cache.Redis.Addr,
		Password:  cfg.Cache.Redis.Password,
		DB:        cfg.Cache.Redis.DB,
		KeyPrefix: cfg.Cache.KeyPrefix,
	})

	if err := registry.Register(redisCache); err != nil {
		_ = redisCache.Close()
		return nil, noop, fmt.Errorf("registering cache health check: %w", err)
	}

	return redisCache, func() { _ = redisCache.Close() }, nil
}

// newScheduler registers the refresh job and starts the scheduler.
// Returns nil when scheduling is disabled.
func newScheduler(
	cfg *config.Config,
	location *time.Location,
	svc *app.DailyQuoteService,
	logger *slog.Logger,
) (*scheduler.Scheduler, error) {
	if !cfg.Schedule.Enabled {
		logger.Info("daily refresh disabled; pages are built on first request of each day")
		return nil, nil
	}

	sched := scheduler.New(scheduler.Config{
		Location: location,
		Logger:   logger,
	})

	job := app.RefreshJob(svc, app.RefreshJobConfig{
		Name:    cfg.Schedule.Name,
		Spec:    cfg.Schedule.Spec,
		Timeout: cfg.Schedule.Timeout,
	})

	if err := sched.Add(job); err != nil {
		return nil, fmt.Errorf("scheduling daily refresh: %w", err)
	}

	sched.Start()

	if next, err := sched.Next(job.Name); err == nil {
		logger.Info("next daily refresh", slog.Time("at", next))
	}

	return sched, nil
}

// shutdowner is the part of the HTTP server the shutdown sequence needs.
type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// waitForShutdown blocks until a signal arrives or the server fails, then
// stops the scheduler and drains the server. Both exits take the same path.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server shutdowner,
	sched *scheduler.Scheduler,
	serverErr <-chan error,
	quit <-chan os.Signal,
	shutdownTimeout time.Duration,
) error {
	var runErr error

	select {
	case err, ok := <-serverErr:
		if !ok || err == nil {
			err = errors.New("server stopped unexpectedly")
		}
		logger.Error("server failed", slog.String("error", err.Error()))
		runErr = fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	logger.Info("initiating graceful shutdown", slog.Duration("timeout", shutdownTimeout))

	// No new refreshes; a running one is cancelled
	stopScheduler(ctx, logger, sched, shutdownTimeout)

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	// Stop accepting new requests, drain in-flight
	if err := server.Shutdown(shutdownCtx); err != nil {
		return errors.Join(runErr, fmt.Errorf("server shutdown: %w", err))
	}

	if runErr != nil {
		return runErr
	}

	logger.Info("shutdown complete")

	return nil
}

// stopScheduler cancels running refreshes and waits up to timeout for them.
func stopScheduler(ctx context.Context, logger *slog.Logger, sched *scheduler.Scheduler, timeout time.Duration) {
	if sched == nil {
		return
	}

	stopCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := sched.Stop(stopCtx); err != nil {
		logger.Warn("scheduler shutdown", slog.String("error", err.Error()))
	}
}
