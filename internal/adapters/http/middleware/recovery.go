package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/daily-quote/internal/adapters/http/dto"
	"github.com/jsamuelsen/daily-quote/internal/platform/logging"
)

// PanicResponder writes the response for a recovered panic.
// It is only called while nothing has been written yet.
type PanicResponder func(c *gin.Context)

// Recovery returns middleware that turns a panic into a 500 response.
// respond renders the failure for the route, for example the HTML error
// page under GET /; nil writes the JSON error envelope.
//
// Register it first on the engine, and again on a route that needs its
// own responder: the innermost Recovery handles the panic.
func Recovery(logger *slog.Logger, respond PanicResponder) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	if respond == nil {
		respond = respondInternalError
	}

	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			// net/http uses this value to abort a response silently.
			if err, ok := r.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(r)
			}

			ctx := c.Request.Context()
			logging.FromContextOr(ctx, logger).ErrorContext(ctx, "panic recovered",
				slog.Any("error", r),
				slog.String("stack", string(debug.Stack())),
				slog.String("method", c.Request.Method),
				slog.String("route", c.FullPath()),
				slog.String("trace_id", dto.GetTraceID(c)),
			)

			if c.Writer.Written() {
				c.Abort()
				return
			}

			respond(c)
			c.Abort()
		}()

		c.Next()
	}
}

func respondInternalError(c *gin.Context) {
	dto.AbortWithErrorCode(c, dto.ErrorCodeInternal, "an internal error occurred")
}
