package dto

import "github.com/jsamuelsen/daily-quote/internal/domain"

// QuoteResponse is the JSON view of a selected quote.
type QuoteResponse struct {
	// Text is the display text, wrapped in quotation marks.
	Text        string `json:"text"`
	Author      string `json:"author"`
	Date        string `json:"date"`
	DayOfYear   int    `json:"dayOfYear"`
	Index       int    `json:"index"`
	CatalogSize int    `json:"catalogSize"`
}

// NewQuoteResponse converts a domain selection to its JSON view.
func NewQuoteResponse(sel domain.Selection) *QuoteResponse {
	return &QuoteResponse{
		Text:        sel.DisplayText(),
		Author:      sel.Quote.Author,
		Date:        sel.DateString(),
		DayOfYear:   sel.DayOfYear,
		Index:       sel.Index,
		CatalogSize: sel.CatalogSize,
	}
}

// DateQuery selects the calendar date to look up.
type DateQuery struct {
	Date string `form:"date" validate:"required,calendardate"`
}
