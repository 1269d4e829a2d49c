package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/daily-quote/internal/adapters/http/dto"
	"github.com/jsamuelsen/daily-quote/internal/app"
)

// QuoteHandler serves the JSON view of the daily quote.
type QuoteHandler struct {
	service *app.DailyQuoteService
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(service *app.DailyQuoteService) *QuoteHandler {
	return &QuoteHandler{
		service: service,
	}
}

// GetToday handles GET /api/v1/quotes/today
// Returns the quote selected for the current day.
//
// @Summary Get today's quote
// @Tags quotes
// @Produce json
// @Success 200 {object} dto.QuoteResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/quotes/today [get]
func (h *QuoteHandler) GetToday(c *gin.Context) {
	page, err := h.service.Today(c.Request.Context())
	if err != nil {
		logFailure(c, "serving today's quote failed", err)
		dto.HandleError(c, err)

		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse(page.Selection))
}

// GetByDate handles GET /api/v1/quotes?date=YYYY-MM-DD
// Returns the quote selected for the given calendar date.
//
// @Summary Get the quote for a date
// @Tags quotes
// @Produce json
// @Param date query string true "Calendar date (YYYY-MM-DD)"
// @Success 200 {object} dto.QuoteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/quotes [get]
func (h *QuoteHandler) GetByDate(c *gin.Context) {
	var q dto.DateQuery
	if err := dto.BindQueryAndValidate(c, &q); err != nil {
		if dto.IsValidationError(err) {
			dto.HandleError(c, err)
			return
		}

		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.ErrorCodeBadRequest,
			"invalid query string",
		).WithTraceID(dto.GetTraceID(c)))

		return
	}

	sel, err := h.service.SelectionOn(c.Request.Context(), q.Date)
	if err != nil {
		logFailure(c, "selecting quote by date failed", err)
		dto.HandleError(c, err)

		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse(sel))
}

// RegisterQuoteRoutes registers quote routes on the given router group.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.GET("", h.GetByDate)
	quotes.GET("/today", h.GetToday)
}
