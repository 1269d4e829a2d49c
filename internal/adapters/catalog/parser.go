// Package catalog reads the quote catalog from delimited flat files.
package catalog

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jsamuelsen/daily-quote/internal/domain"
)

// Column names required in the header row. Matching is case-sensitive.
const (
	ColumnQuote  = "Quote"
	ColumnAuthor = "Author"
)

// DefaultDelimiter separates fields when none is configured.
const DefaultDelimiter = ','

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse reads a header row followed by one quote per row.
// Every row must carry a non-blank Quote and Author; the first offending row
// fails the whole parse with a domain.MalformedRecordError naming its line.
// Extra columns are ignored. Input with no rows at all yields an empty catalog.
func Parse(r io.Reader, delimiter rune) (domain.Catalog, error) {
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}

	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return domain.Catalog{}, nil
	}
	if err != nil {
		return nil, csvError(err)
	}

	quoteCol, authorCol, err := columns(header)
	if err != nil {
		return nil, err
	}

	catalog := make(domain.Catalog, 0, 64)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvError(err)
		}

		line, _ := reader.FieldPos(0)

		text, ok := field(record, quoteCol)
		if !ok {
			return nil, domain.NewMalformedRecordError(line, ColumnQuote, "missing or blank")
		}

		author, ok := field(record, authorCol)
		if !ok {
			return nil, domain.NewMalformedRecordError(line, ColumnAuthor, "missing or blank")
		}

		catalog = append(catalog, domain.Quote{Text: text, Author: author})
	}

	return catalog, nil
}

// columns locates the required columns in the header row.
func columns(header []string) (quoteCol, authorCol int, err error) {
	quoteCol, authorCol = -1, -1

	for i, name := range header {
		switch strings.TrimSpace(name) {
		case ColumnQuote:
			if quoteCol < 0 {
				quoteCol = i
			}
		case ColumnAuthor:
			if authorCol < 0 {
				authorCol = i
			}
		}
	}

	if quoteCol < 0 {
		return 0, 0, domain.NewMalformedRecordError(1, ColumnQuote, "column not found in header")
	}

	if authorCol < 0 {
		return 0, 0, domain.NewMalformedRecordError(1, ColumnAuthor, "column not found in header")
	}

	return quoteCol, authorCol, nil
}

// field returns the trimmed value at idx, reporting false when the row is
// too short or the value is blank.
func field(record []string, idx int) (string, bool) {
	if idx >= len(record) {
		return "", false
	}

	v := strings.TrimSpace(record[idx])

	return v, v != ""
}

// csvError converts a low-level CSV syntax error into a malformed record.
func csvError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return domain.NewMalformedRecordError(pe.StartLine, "", pe.Err.Error())
	}

	return fmt.Errorf("reading catalog: %w", err)
}
