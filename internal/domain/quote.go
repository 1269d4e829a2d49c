// Package domain contains core business entities and rules.
package domain

import "time"

// DateLayout is the calendar date format shown on the page and used in cache keys.
const DateLayout = "2006-01-02"

// Typographic quotation marks wrapped around the quote text for display.
const (
	openQuote  = "“"
	closeQuote = "”"
)

// Quote represents a quotation with its author.
// This is a domain entity - it has no knowledge of external systems.
type Quote struct {
	// Text is the quotation as stored in the catalog, without decoration.
	Text string

	// Author is who said or wrote the quote.
	Author string
}

// DisplayText returns the quote text wrapped in typographic quotation marks.
func (q Quote) DisplayText() string {
	return openQuote + q.Text + closeQuote
}

// Catalog is the ordered set of quotes loaded from the persisted resource.
// Order is file order. A Catalog is owned by the invocation that loaded it.
type Catalog []Quote

// Len returns the number of quotes in the catalog.
func (c Catalog) Len() int {
	return len(c)
}

// Selection is the quote chosen for a calendar date.
type Selection struct {
	Quote Quote

	// Date is the calendar date the selection was made for.
	Date time.Time

	// DayOfYear is the 1-based ordinal day of Date within its year.
	DayOfYear int

	// Index is the 0-based position of Quote in the catalog.
	Index int

	// CatalogSize is the length of the catalog the selection was made from.
	CatalogSize int
}

// DisplayText returns the selected quote text wrapped for display.
func (s Selection) DisplayText() string {
	return s.Quote.DisplayText()
}

// DateString returns the selection date formatted as YYYY-MM-DD.
func (s Selection) DateString() string {
	return s.Date.Format(DateLayout)
}

// DayOfYear returns the 1-based ordinal day of t in its own location.
// Jan 1 is 1; Dec 31 is 365, or 366 in a leap year.
func DayOfYear(t time.Time) int {
	return t.YearDay()
}

// SelectQuote deterministically picks the quote for asOf.
// The index is DayOfYear(asOf) modulo the catalog length, so short catalogs
// cycle several times per year. Returns ErrEmptyCatalog for an empty catalog.
func SelectQuote(catalog Catalog, asOf time.Time) (Selection, error) {
	if catalog.Len() == 0 {
		return Selection{}, ErrEmptyCatalog
	}

	day := DayOfYear(asOf)
	index := day % catalog.Len()

	return Selection{
		Quote:       catalog[index],
		Date:        asOf,
		DayOfYear:   day,
		Index:       index,
		CatalogSize: catalog.Len(),
	}, nil
}

// StartOfNextDay returns midnight at the beginning of the day after t,
// in t's location.
func StartOfNextDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}
