package handlers

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/daily-quote/internal/adapters/http/dto"
	"github.com/jsamuelsen/daily-quote/internal/adapters/http/middleware"
	"github.com/jsamuelsen/daily-quote/internal/app"
	"github.com/jsamuelsen/daily-quote/internal/platform/logging"
	"github.com/jsamuelsen/daily-quote/internal/ports"
)

const htmlContentType = "text/html; charset=utf-8"

// pageUnavailableMessage is shown to browsers for every pipeline failure.
const pageUnavailableMessage = "Today's quote could not be loaded. Please try again later."

// PageHandler serves the daily quote page.
type PageHandler struct {
	service  *app.DailyQuoteService
	renderer ports.PageRenderer
}

// NewPageHandler creates a page handler. The renderer is used for the error page.
func NewPageHandler(service *app.DailyQuoteService, renderer ports.PageRenderer) *PageHandler {
	return &PageHandler{
		service:  service,
		renderer: renderer,
	}
}

// Index handles GET /
// Responds with today's page and the quote cookie, or a 500 error page.
func (h *PageHandler) Index(c *gin.Context) {
	page, err := h.service.Today(c.Request.Context())
	if err != nil {
		logFailure(c, "serving daily quote page failed", err)
		h.renderError(c, http.StatusInternalServerError)

		return
	}

	http.SetCookie(c.Writer, QuoteCookie(page.Cookie))
	c.Data(http.StatusOK, htmlContentType, page.HTML)
}

// QuoteCookie converts the page's cookie descriptor into an HTTP cookie.
// The value is query-escaped so the typographic quotation marks survive.
// The cookie is meant for page scripts, so it is not HttpOnly.
func QuoteCookie(qc app.QuoteCookie) *http.Cookie {
	return &http.Cookie{
		Name:     qc.Name,
		Value:    url.QueryEscape(qc.Value),
		Path:     "/",
		Expires:  qc.Expires,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *PageHandler) renderError(c *gin.Context, status int) {
	body, err := h.renderer.RenderError(c.Request.Context(), ports.ErrorPageData{
		Status:  status,
		Message: pageUnavailableMessage,
		TraceID: dto.GetTraceID(c),
	})
	if err != nil {
		logging.FromContext(c.Request.Context()).ErrorContext(c.Request.Context(), "rendering error page failed",
			slog.String("error", err.Error()),
		)
		c.String(status, http.StatusText(status))

		return
	}

	c.Data(status, htmlContentType, body)
}

// RenderPanic answers a panic recovered under GET / with the HTML error page.
func (h *PageHandler) RenderPanic(c *gin.Context) {
	h.renderError(c, http.StatusInternalServerError)
}

// RegisterPageRoutes registers GET /. A panic while serving it is answered
// with the HTML error page rather than the JSON envelope.
func (h *PageHandler) RegisterPageRoutes(r gin.IRoutes, logger *slog.Logger) {
	r.GET("/", middleware.Recovery(logger, h.RenderPanic), h.Index)
}

// logFailure logs a pipeline failure with request context and the mapped error code.
func logFailure(c *gin.Context, msg string, err error) {
	ctx := c.Request.Context()
	_, resp := dto.MapError(err)

	logging.FromContext(ctx).ErrorContext(ctx, msg,
		slog.String("error", err.Error()),
		slog.String("error_code", resp.Error.Code),
		slog.String("trace_id", dto.GetTraceID(c)),
	)
}
