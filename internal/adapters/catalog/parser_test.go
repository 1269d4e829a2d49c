package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/daily-quote/internal/domain"
)

func TestParse_ValidCatalogs(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		delimiter rune
		expected  domain.Catalog
	}{
		{
			name:      "three rows in file order",
			input:     "Quote,Author\nA,X\nB,Y\nC,Z\n",
			delimiter: ',',
			expected: domain.Catalog{
				{Text: "A", Author: "X"},
				{Text: "B", Author: "Y"},
				{Text: "C", Author: "Z"},
			},
		},
		{
			name:      "quoted field with embedded delimiter",
			input:     "Quote,Author\n\"Stay hungry, stay foolish.\",Steve Jobs\n",
			delimiter: ',',
			expected:  domain.Catalog{{Text: "Stay hungry, stay foolish.", Author: "Steve Jobs"}},
		},
		{
			name:      "columns reordered with extras",
			input:     "Author,Genre,Quote\nSeneca,stoic,Luck is what happens when preparation meets opportunity.\n",
			delimiter: ',',
			expected: domain.Catalog{
				{Text: "Luck is what happens when preparation meets opportunity.", Author: "Seneca"},
			},
		},
		{
			name:      "semicolon delimiter",
			input:     "Quote;Author\nKeep going;Anon\n",
			delimiter: ';',
			expected:  domain.Catalog{{Text: "Keep going", Author: "Anon"}},
		},
		{
			name:      "zero delimiter defaults to comma",
			input:     "Quote,Author\nA,X\n",
			delimiter: 0,
			expected:  domain.Catalog{{Text: "A", Author: "X"}},
		},
		{
			name:      "byte order mark before header",
			input:     "\ufeffQuote,Author\nA,X\n",
			delimiter: ',',
			expected:  domain.Catalog{{Text: "A", Author: "X"}},
		},
		{
			name:      "surrounding whitespace trimmed",
			input:     "Quote, Author\n  Be kind ,  Someone  \n",
			delimiter: ',',
			expected:  domain.Catalog{{Text: "Be kind", Author: "Someone"}},
		},
		{
			name:      "non-ascii text preserved",
			input:     "Quote,Author\nLa vie est belle,Émile\n",
			delimiter: ',',
			expected:  domain.Catalog{{Text: "La vie est belle", Author: "Émile"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog, err := Parse(strings.NewReader(tt.input), tt.delimiter)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, catalog)
		})
	}
}

func TestParse_EmptyInputs(t *testing.T) {
	for _, input := range []string{"", "Quote,Author\n"} {
		catalog, err := Parse(strings.NewReader(input), ',')
		require.NoError(t, err)
		assert.Empty(t, catalog)
	}
}

func TestParse_MalformedRecords(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		expectedLine  int
		expectedField string
	}{
		{
			name:          "missing author column",
			input:         "Quote\nA\nB\n",
			expectedLine:  1,
			expectedField: ColumnAuthor,
		},
		{
			name:          "missing quote column",
			input:         "Author,Genre\nX,misc\n",
			expectedLine:  1,
			expectedField: ColumnQuote,
		},
		{
			name:          "header is case-sensitive",
			input:         "quote,author\nA,X\n",
			expectedLine:  1,
			expectedField: ColumnQuote,
		},
		{
			name:          "short row",
			input:         "Quote,Author\nA,X\nB\n",
			expectedLine:  3,
			expectedField: ColumnAuthor,
		},
		{
			name:          "blank author",
			input:         "Quote,Author\nA,X\nB,Y\nC,   \n",
			expectedLine:  4,
			expectedField: ColumnAuthor,
		},
		{
			name:          "empty quote",
			input:         "Quote,Author\n,X\n",
			expectedLine:  2,
			expectedField: ColumnQuote,
		},
		{
			name:          "line numbers follow multi-line fields",
			input:         "Quote,Author\n\"first\nsecond\",X\nC\n",
			expectedLine:  4,
			expectedField: ColumnAuthor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog, err := Parse(strings.NewReader(tt.input), ',')
			require.Error(t, err)
			assert.Nil(t, catalog)
			assert.True(t, domain.IsMalformedRecord(err))

			var malformed *domain.MalformedRecordError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, tt.expectedLine, malformed.Line)
			assert.Equal(t, tt.expectedField, malformed.Field)
		})
	}
}

func TestParse_SyntaxError(t *testing.T) {
	_, err := Parse(strings.NewReader("Quote,Author\nHe said \"hi,Bob\n"), ',')
	require.Error(t, err)

	var malformed *domain.MalformedRecordError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, 2, malformed.Line)
	assert.Empty(t, malformed.Field)
}
