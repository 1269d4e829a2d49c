package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeQuotes() Catalog {
	return Catalog{
		{Text: "A", Author: "X"},
		{Text: "B", Author: "Y"},
		{Text: "C", Author: "Z"},
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 9, 30, 0, 0, time.UTC)
}

func TestDayOfYear(t *testing.T) {
	tests := []struct {
		name     string
		at       time.Time
		expected int
	}{
		{"jan 1", date(2023, time.January, 1), 1},
		{"dec 31 non-leap", date(2023, time.December, 31), 365},
		{"dec 31 leap", date(2024, time.December, 31), 366},
		{"mar 1 leap", date(2024, time.March, 1), 61},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DayOfYear(tt.at))
		})
	}
}

func TestSelectQuote(t *testing.T) {
	tests := []struct {
		name          string
		catalog       Catalog
		at            time.Time
		expectedQuote Quote
		expectedIndex int
	}{
		{
			name:          "jan 1 picks index 1",
			catalog:       threeQuotes(),
			at:            date(2023, time.January, 1),
			expectedQuote: Quote{Text: "B", Author: "Y"},
			expectedIndex: 1,
		},
		{
			name:          "day 365 picks index 2",
			catalog:       threeQuotes(),
			at:            date(2023, time.December, 31),
			expectedQuote: Quote{Text: "C", Author: "Z"},
			expectedIndex: 2,
		},
		{
			name:          "day 366 in leap year wraps to index 0",
			catalog:       threeQuotes(),
			at:            date(2024, time.December, 31),
			expectedQuote: Quote{Text: "A", Author: "X"},
			expectedIndex: 0,
		},
		{
			name:          "single record catalog",
			catalog:       Catalog{{Text: "Only", Author: "One"}},
			at:            date(2025, time.July, 4),
			expectedQuote: Quote{Text: "Only", Author: "One"},
			expectedIndex: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := SelectQuote(tt.catalog, tt.at)
			require.NoError(t, err)

			assert.Equal(t, tt.expectedQuote, sel.Quote)
			assert.Equal(t, tt.expectedIndex, sel.Index)
			assert.Equal(t, tt.catalog.Len(), sel.CatalogSize)
			assert.Equal(t, DayOfYear(tt.at), sel.DayOfYear)
		})
	}
}

func TestSelectQuote_Deterministic(t *testing.T) {
	catalog := threeQuotes()
	at := date(2025, time.May, 17)

	first, err := SelectQuote(catalog, at)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := SelectQuote(catalog, at)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestSelectQuote_SameResidueSameRecord(t *testing.T) {
	catalog := threeQuotes()
	start := date(2023, time.January, 1)

	for offset := 0; offset < 362; offset++ {
		d1 := start.AddDate(0, 0, offset)
		d2 := d1.AddDate(0, 0, catalog.Len())

		s1, err := SelectQuote(catalog, d1)
		require.NoError(t, err)
		s2, err := SelectQuote(catalog, d2)
		require.NoError(t, err)

		assert.Equal(t, s1.Quote, s2.Quote, "days %d and %d", s1.DayOfYear, s2.DayOfYear)
	}
}

func TestSelectQuote_SingleRecordAllYear(t *testing.T) {
	catalog := Catalog{{Text: "Only", Author: "One"}}
	start := date(2024, time.January, 1)

	for offset := 0; offset < 366; offset++ {
		sel, err := SelectQuote(catalog, start.AddDate(0, 0, offset))
		require.NoError(t, err)
		assert.Equal(t, catalog[0], sel.Quote)
	}
}

func TestSelectQuote_EmptyCatalog(t *testing.T) {
	for _, catalog := range []Catalog{nil, {}} {
		assert.NotPanics(t, func() {
			_, err := SelectQuote(catalog, date(2025, time.March, 3))
			require.ErrorIs(t, err, ErrEmptyCatalog)
		})
	}
}

func TestSelection_Display(t *testing.T) {
	sel, err := SelectQuote(threeQuotes(), date(2023, time.January, 1))
	require.NoError(t, err)

	assert.Equal(t, "“B”", sel.DisplayText())
	assert.Equal(t, "2023-01-01", sel.DateString())
}

func TestStartOfNextDay(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)

	tests := []struct {
		name     string
		at       time.Time
		expected time.Time
	}{
		{
			name:     "mid day",
			at:       time.Date(2025, time.June, 10, 13, 45, 12, 0, loc),
			expected: time.Date(2025, time.June, 11, 0, 0, 0, 0, loc),
		},
		{
			name:     "exactly midnight",
			at:       time.Date(2025, time.June, 10, 0, 0, 0, 0, loc),
			expected: time.Date(2025, time.June, 11, 0, 0, 0, 0, loc),
		},
		{
			name:     "year end rolls over",
			at:       time.Date(2025, time.December, 31, 23, 59, 59, 0, loc),
			expected: time.Date(2026, time.January, 1, 0, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.expected.Equal(StartOfNextDay(tt.at)))
		})
	}
}
