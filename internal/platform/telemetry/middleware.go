package telemetry

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationPrefix = "github.com/jsamuelsen/daily-quote/"

	// opsPrefix holds the health and metrics endpoints, which are neither
	// traced nor measured.
	opsPrefix = "/-/"

	// HeaderTraceID echoes the request's trace ID so a visitor's report can
	// be matched to a trace.
	HeaderTraceID = "X-Trace-ID"
)

// serverMetrics are the HTTP server instruments.
type serverMetrics struct {
	duration metric.Float64Histogram
	requests metric.Int64Counter
	inFlight metric.Int64UpDownCounter
}

func newServerMetrics(meter metric.Meter) (*serverMetrics, error) {
	var m serverMetrics
	var err error

	if m.duration, err = meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("Time to serve a page or API request"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.requests, err = meter.Int64Counter("http.server.request.total",
		metric.WithDescription("Requests served by route and status"),
	); err != nil {
		return nil, err
	}

	if m.inFlight, err = meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("Requests currently being served"),
	); err != nil {
		return nil, err
	}

	return &m, nil
}

// Middleware records server metrics and sets the X-Trace-ID header. Register
// it after TracingMiddleware so the request span is already active.
func Middleware() gin.HandlerFunc {
	m, err := newServerMetrics(otel.Meter(instrumentationPrefix + "telemetry"))
	if err != nil {
		otel.Handle(err)
	}

	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, opsPrefix) {
			c.Next()
			return
		}

		if traceID := TraceID(c.Request.Context()); traceID != "" {
			c.Header(HeaderTraceID, traceID)
		}

		if m == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		route := attribute.String("http.route", c.FullPath())
		method := attribute.String("http.method", c.Request.Method)

		m.inFlight.Add(ctx, 1, metric.WithAttributes(method, route))
		start := time.Now()

		c.Next()

		m.inFlight.Add(ctx, -1, metric.WithAttributes(method, route))

		done := metric.WithAttributes(method, route, attribute.Int("http.status_code", c.Writer.Status()))
		m.duration.Record(ctx, time.Since(start).Seconds(), done)
		m.requests.Add(ctx, 1, done)
	}
}

// TracingMiddleware returns the otelgin tracing middleware. Operational
// endpoints are not traced.
func TracingMiddleware(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName, otelgin.WithFilter(func(r *http.Request) bool {
		return !strings.HasPrefix(r.URL.Path, opsPrefix)
	}))
}

// TraceID returns the hex trace ID of the span in ctx, or "".
func TraceID(ctx context.Context) string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.HasTraceID() {
		return ""
	}

	return sc.TraceID().String()
}
