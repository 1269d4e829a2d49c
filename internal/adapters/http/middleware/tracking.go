// Package middleware provides the gin middleware of the daily quote service.
package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/daily-quote/internal/platform/logging"
)

const (
	// HeaderRequestID identifies a single request.
	HeaderRequestID = "X-Request-ID"

	// HeaderCorrelationID identifies the transaction a request belongs to.
	// It is forwarded unchanged to the remote catalog.
	HeaderCorrelationID = "X-Correlation-ID"

	// ContextKeyRequestID is the gin.Context key holding the request ID.
	ContextKeyRequestID = "request_id"

	// ContextKeyCorrelationID is the gin.Context key holding the correlation ID.
	ContextKeyCorrelationID = "correlation_id"

	// maxTrackingIDLength caps inbound IDs; longer values are replaced.
	maxTrackingIDLength = 128
)

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
	ctxKeyCorrelationID
)

// trackingID is one ID header carried from the inbound request through the
// request context, the context logger, the response and outbound calls.
type trackingID struct {
	header string
	ginKey string
	store  func(context.Context, string) context.Context
	enrich func(context.Context, string) context.Context
}

var (
	requestID = trackingID{
		header: HeaderRequestID,
		ginKey: ContextKeyRequestID,
		store:  ContextWithRequestID,
		enrich: logging.WithRequestID,
	}

	correlationID = trackingID{
		header: HeaderCorrelationID,
		ginKey: ContextKeyCorrelationID,
		store:  ContextWithCorrelationID,
		enrich: logging.WithCorrelationID,
	}
)

func (t trackingID) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(t.header))
		if !validTrackingID(id) {
			id = uuid.NewString()
		}

		c.Set(t.ginKey, id)
		c.Header(t.header, id)

		ctx := t.enrich(t.store(c.Request.Context(), id), id)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// validTrackingID accepts non-empty printable ASCII up to maxTrackingIDLength.
// Inbound IDs are echoed and forwarded to the catalog host.
func validTrackingID(id string) bool {
	if id == "" || len(id) > maxTrackingIDLength {
		return false
	}

	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}

	return true
}

// RequestID returns middleware that reuses the inbound X-Request-ID or
// generates a UUID, and makes it available to handlers, the context
// logger, the response headers and the remote catalog client.
func RequestID() gin.HandlerFunc {
	return requestID.handler()
}

// CorrelationID is RequestID for X-Correlation-ID.
func CorrelationID() gin.HandlerFunc {
	return correlationID.handler()
}

// GetRequestID returns the request ID set by RequestID, or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}

// GetCorrelationID returns the correlation ID set by CorrelationID, or "".
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(ContextKeyCorrelationID)
}

// ContextWithRequestID stores a request ID in ctx.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, id)
}

// ContextWithCorrelationID stores a correlation ID in ctx.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyCorrelationID, id)
}

// RequestIDFromContext returns the request ID stored in ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxKeyRequestID)
}

// CorrelationIDFromContext returns the correlation ID stored in ctx, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxKeyCorrelationID)
}

func stringValue(ctx context.Context, key ctxKey) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(key).(string)

	return id
}
