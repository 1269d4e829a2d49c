package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/daily-quote/internal/adapters/http/handlers"
	"github.com/jsamuelsen/daily-quote/internal/adapters/http/middleware"
	"github.com/jsamuelsen/daily-quote/internal/platform/config"
	"github.com/jsamuelsen/daily-quote/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default timeout for page and API requests.
const DefaultRequestTimeout = 10 * time.Second

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// Logger is the structured logger for request logging.
	Logger *slog.Logger

	// AppConfig contains application configuration.
	AppConfig *config.AppConfig

	// HealthHandler handles health check endpoints.
	HealthHandler *handlers.HealthHandler

	// PageHandler serves the HTML page at /.
	PageHandler *handlers.PageHandler

	// QuoteHandler serves the JSON API under /api/v1.
	QuoteHandler *handlers.QuoteHandler

	// Timeout is the request timeout for the page and the API. Zero disables it.
	Timeout time.Duration

	// RateLimit is the per-client page and API budget per minute. Zero disables it.
	RateLimit int
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery - catch panics first (GET / adds its own, HTML, recovery)
//  2. Request ID - generate/extract request ID
//  3. Correlation ID - handle distributed tracing correlation
//  4. OpenTelemetry - tracing, then metrics and the X-Trace-ID header
//  5. Logging - request logging (skips health endpoints)
//  6. Rate limit and timeout - per route group
//
// Route groups:
//   - /-/ (internal): Health endpoints, no rate limit or timeout
//   - / : The daily quote page
//   - /api/v1/ : JSON view of the selection
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(cfg.Logger, nil),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.TracingMiddleware(cfg.AppConfig.Name),
		telemetry.Middleware(),
		middleware.Logging(cfg.Logger),
	)

	engine.HandleMethodNotAllowed = true
	engine.NoRoute(NotFound)
	engine.NoMethod(MethodNotAllowed)

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutes(engine)
	}

	public := engine.Group("")
	public.Use(middleware.RateLimit(cfg.RateLimit))

	public.Use(middleware.Deadline(cfg.Timeout))

	if cfg.PageHandler != nil {
		cfg.PageHandler.RegisterPageRoutes(public, cfg.Logger)
	}

	if cfg.QuoteHandler != nil {
		cfg.QuoteHandler.RegisterQuoteRoutes(public.Group("/api/v1"))
	}
}

// NewDefaultRouterConfig creates a RouterConfig with sensible defaults.
func NewDefaultRouterConfig(
	logger *slog.Logger,
	appCfg *config.AppConfig,
	healthHandler *handlers.HealthHandler,
	pageHandler *handlers.PageHandler,
	quoteHandler *handlers.QuoteHandler,
) RouterConfig {
	return RouterConfig{
		Logger:        logger,
		AppConfig:     appCfg,
		HealthHandler: healthHandler,
		PageHandler:   pageHandler,
		QuoteHandler:  quoteHandler,
		Timeout:       DefaultRequestTimeout,
		RateLimit:     config.DefaultRateLimitPerMinute,
	}
}
