package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/daily-quote/internal/adapters/http/middleware"
	"github.com/jsamuelsen/daily-quote/internal/platform/config"
	"github.com/jsamuelsen/daily-quote/internal/platform/logging"
	"github.com/jsamuelsen/daily-quote/internal/platform/telemetry"
)

const (
	meterName = "github.com/jsamuelsen/daily-quote/internal/adapters/clients"

	defaultTimeout = 10 * time.Second

	idleConns        = 4
	idleConnsPerHost = 2
	idleConnTimeout  = 90 * time.Second
)

// Fetch outcomes recorded on the request metrics.
const (
	outcomeOK          = "ok"
	outcomeCircuitOpen = "circuit_open"
	outcomeCanceled    = "canceled"
	outcomeFailed      = "failed"
)

// Config configures a Client.
type Config struct {
	// BaseURL is the URL requests are resolved against. An empty request path
	// targets BaseURL itself.
	BaseURL string

	// ServiceName names the remote host in logs, spans and metrics.
	ServiceName string

	// Timeout bounds a single attempt. Retries and backoff come on top.
	Timeout time.Duration

	Retry   config.RetryConfig
	Circuit config.CircuitBreakerConfig

	// Accept is sent as the Accept header when set.
	Accept string

	// UserAgent is sent as the User-Agent header when set.
	UserAgent string

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Transport overrides the HTTP transport. Tests use it to stub the network.
	Transport http.RoundTripper
}

// Client fetches read-only documents from one remote host. Every call is
// guarded by a circuit breaker, retried on transient failures, traced and
// counted, and carries the caller's request and correlation IDs.
type Client struct {
	http    *http.Client
	baseURL string
	name    string
	accept  string
	agent   string

	retry   retryPolicy
	breaker *CircuitBreaker
	logger  *slog.Logger
	tracer  trace.Tracer

	duration metric.Float64Histogram
	requests metric.Int64Counter
}

// New validates cfg and builds a Client.
func New(cfg *Config) (*Client, error) {
	switch {
	case cfg == nil:
		return nil, errors.New("config is required")
	case cfg.ServiceName == "":
		return nil, errors.New("service name is required")
	case cfg.BaseURL == "":
		return nil, errors.New("base URL is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "clients"))

	meter := otel.Meter(meterName)

	duration, err := meter.Float64Histogram("http.client.request.duration",
		metric.WithDescription("Duration of remote fetches including retries"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration metric: %w", err)
	}

	requests, err := meter.Int64Counter("http.client.request.total",
		metric.WithDescription("Remote fetches by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request counter: %w", err)
	}

	transport := cfg.Transport
	if transport == nil {
		transport = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        idleConns,
			MaxIdleConnsPerHost: idleConnsPerHost,
			IdleConnTimeout:     idleConnTimeout,
		}
	}

	breaker := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:   cfg.Circuit.MaxFailures,
		Timeout:       cfg.Circuit.Timeout,
		HalfOpenLimit: cfg.Circuit.HalfOpenLimit,
	})
	breaker.OnStateChange(func(from, to State) {
		logger.Warn("circuit breaker state changed",
			slog.String("downstream", cfg.ServiceName),
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
	})

	return &Client{
		http:     &http.Client{Timeout: timeout, Transport: transport},
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		name:     cfg.ServiceName,
		accept:   cfg.Accept,
		agent:    cfg.UserAgent,
		retry:    newRetryPolicy(cfg.Retry),
		breaker:  breaker,
		logger:   logger,
		tracer:   telemetry.Tracer("clients"),
		duration: duration,
		requests: requests,
	}, nil
}

// Get performs a GET on path.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	return c.fetch(ctx, http.MethodGet, path)
}

// Head performs a HEAD on path.
func (c *Client) Head(ctx context.Context, path string) (*http.Response, error) {
	return c.fetch(ctx, http.MethodHead, path)
}

// CircuitState returns the breaker's current state.
func (c *Client) CircuitState() State {
	return c.breaker.State()
}

func (c *Client) fetch(ctx context.Context, method, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	return c.Do(ctx, req)
}

// Do sends req through the breaker and retry policy. The request must not
// carry a body, so every attempt can resend it unchanged. A response is
// returned for any status below 500 other than 429; callers own its body.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	start := time.Now()
	logger := logging.FromContextOr(ctx, c.logger).With(
		slog.String("downstream", c.name),
		slog.String("method", req.Method),
		slog.String("url", req.URL.Redacted()),
	)

	if !c.breaker.Allow() {
		c.record(ctx, req.Method, 0, start, outcomeCircuitOpen)
		logger.Warn("request blocked by circuit breaker",
			slog.Duration("retry_after", c.breaker.RetryAfter()))

		return nil, ErrCircuitOpen
	}

	ctx, span := c.tracer.Start(ctx, req.Method+" "+c.name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL.Redacted()),
			attribute.String("peer.service", c.name),
		),
	)
	defer span.End()

	c.decorate(ctx, req)

	resp, attempts, err := c.send(ctx, req, logger)
	span.SetAttributes(attribute.Int("http.attempts", attempts))

	if err != nil {
		c.breaker.RecordFailure()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		if ctx.Err() != nil {
			c.record(ctx, req.Method, 0, start, outcomeCanceled)
			return nil, err
		}

		code := 0
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			code = statusErr.StatusCode
		}

		c.record(ctx, req.Method, code, start, outcomeFailed)
		logger.Error("request failed",
			slog.Int("attempts", attempts),
			slog.Duration("duration", time.Since(start)),
			slog.Any("error", err),
		)

		return nil, fmt.Errorf("%w: %w", ErrMaxRetriesExceeded, err)
	}

	c.breaker.RecordSuccess()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= http.StatusBadRequest {
		span.SetStatus(codes.Error, "HTTP "+strconv.Itoa(resp.StatusCode))
	}

	c.record(ctx, req.Method, resp.StatusCode, start, outcomeOK)
	logger.Debug("request completed",
		slog.Int("status", resp.StatusCode),
		slog.Int("attempts", attempts),
		slog.Duration("duration", time.Since(start)),
	)

	return resp, nil
}

// send runs the attempts and returns how many were made. The error is the
// last attempt's failure, or the context error if the wait was cut short.
func (c *Client) send(ctx context.Context, req *http.Request, logger *slog.Logger) (*http.Response, int, error) {
	limit := c.retry.attempts()

	var lastErr error
	for n := 1; ; n++ {
		resp, err := c.http.Do(req.WithContext(ctx))
		switch {
		case err == nil && !retryableStatus(resp.StatusCode):
			return resp, n, nil
		case err == nil:
			lastErr = newStatusError(resp, time.Now())
		case retryableError(err):
			lastErr = err
		default:
			return nil, n, err
		}

		if n >= limit {
			return nil, n, lastErr
		}

		wait := c.retry.backoff(n, lastErr)
		logger.Debug("retrying request",
			slog.Int("attempt", n+1),
			slog.Duration("backoff", wait),
			slog.Any("cause", lastErr),
		)

		if err := sleep(ctx, wait); err != nil {
			return nil, n, err
		}
	}
}

// decorate sets the tracking, content negotiation and trace headers.
func (c *Client) decorate(ctx context.Context, req *http.Request) {
	headers := map[string]string{
		middleware.HeaderRequestID:     middleware.RequestIDFromContext(ctx),
		middleware.HeaderCorrelationID: middleware.CorrelationIDFromContext(ctx),
		"Accept":                       c.accept,
		"User-Agent":                   c.agent,
	}
	for name, value := range headers {
		if value != "" {
			req.Header.Set(name, value)
		}
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
}

// resolve joins path onto the base URL.
func (c *Client) resolve(path string) string {
	switch {
	case path == "":
		return c.baseURL
	case strings.HasPrefix(path, "/"):
		return c.baseURL + path
	default:
		return c.baseURL + "/" + path
	}
}

func (c *Client) record(ctx context.Context, method string, status int, start time.Time, outcome string) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("peer.service", c.name),
		attribute.String("result", outcome),
	}
	if status > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", status))
	}

	opt := metric.WithAttributes(attrs...)
	c.duration.Record(ctx, time.Since(start).Seconds(), opt)
	c.requests.Add(ctx, 1, opt)
}
