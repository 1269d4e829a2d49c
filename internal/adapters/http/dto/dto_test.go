package dto

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/daily-quote/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)

	return c, w
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse(ErrorCodeCatalogEmpty, "the quote catalog is empty")

	assert.Equal(t, ErrorCodeCatalogEmpty, resp.Error.Code)
	assert.Equal(t, "the quote catalog is empty", resp.Error.Message)
	assert.Nil(t, resp.Error.Details)
	assert.Empty(t, resp.TraceID)

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":{"code":"CATALOG_EMPTY","message":"the quote catalog is empty"}}`, string(data))
}

func TestNewErrorResponseWithDetails(t *testing.T) {
	resp := NewErrorResponseWithDetails(ErrorCodeValidation, "request validation failed", map[string]string{
		"date": "this field is required",
	})

	assert.Equal(t, "this field is required", resp.Error.Details["date"])
}

func TestWithTraceID(t *testing.T) {
	resp := NewErrorResponse(ErrorCodeInternal, "boom").WithTraceID("abc123")

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"traceId":"abc123"`)
}

func TestHTTPStatusFromCode(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{ErrorCodeCatalogUnavailable, http.StatusInternalServerError},
		{ErrorCodeCatalogMalformed, http.StatusInternalServerError},
		{ErrorCodeCatalogEmpty, http.StatusInternalServerError},
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeBadRequest, http.StatusBadRequest},
		{ErrorCodeRateLimited, http.StatusTooManyRequests},
		{ErrorCodeTimeout, http.StatusServiceUnavailable},
		{ErrorCodeInternal, http.StatusInternalServerError},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusFromCode(tt.code))
		})
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "resource unavailable",
			err:        domain.NewResourceUnavailableError("quotes.csv", "file not found"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   ErrorCodeCatalogUnavailable,
		},
		{
			name:       "wrapped malformed record",
			err:        fmt.Errorf("loading catalog: %w", domain.NewMalformedRecordError(4, "Author", "is missing")),
			wantStatus: http.StatusInternalServerError,
			wantCode:   ErrorCodeCatalogMalformed,
		},
		{
			name:       "empty catalog",
			err:        fmt.Errorf("selecting quote: %w", domain.ErrEmptyCatalog),
			wantStatus: http.StatusInternalServerError,
			wantCode:   ErrorCodeCatalogEmpty,
		},
		{
			name:       "validation",
			err:        Validate(&DateQuery{}),
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrorCodeValidation,
		},
		{
			name:       "deadline",
			err:        fmt.Errorf("loading catalog: %w", context.DeadlineExceeded),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   ErrorCodeTimeout,
		},
		{
			name:       "unknown",
			err:        errors.New("template: page: boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   ErrorCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := MapError(tt.err)

			assert.Equal(t, tt.wantStatus, status)
			require.NotNil(t, resp)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}

	t.Run("unknown errors do not leak details", func(t *testing.T) {
		_, resp := MapError(errors.New("open /etc/secret: permission denied"))
		assert.Equal(t, "an internal error occurred", resp.Error.Message)
	})

	t.Run("catalog errors do not leak paths", func(t *testing.T) {
		_, resp := MapError(domain.NewResourceUnavailableError("/srv/data/quotes.csv", "permission denied"))
		assert.NotContains(t, resp.Error.Message, "/srv/data")
	})

	t.Run("nil", func(t *testing.T) {
		status, resp := MapError(nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Nil(t, resp)
	})
}

func TestGetTraceID(t *testing.T) {
	tests := []struct {
		name         string
		setupContext func(*gin.Context)
		want         string
	}{
		{
			name: "trace ID in context",
			setupContext: func(c *gin.Context) {
				c.Set("trace_id", "context-trace-123")
			},
			want: "context-trace-123",
		},
		{
			name: "request ID header",
			setupContext: func(c *gin.Context) {
				c.Request.Header.Set("X-Request-ID", "header-trace-456")
			},
			want: "header-trace-456",
		},
		{
			name: "trace ID in context takes precedence",
			setupContext: func(c *gin.Context) {
				c.Set("trace_id", "context-trace-123")
				c.Request.Header.Set("X-Request-ID", "header-trace-456")
			},
			want: "context-trace-123",
		},
		{
			name:         "no trace ID",
			setupContext: func(*gin.Context) {},
			want:         "",
		},
		{
			name: "trace ID in context but wrong type",
			setupContext: func(c *gin.Context) {
				c.Set("trace_id", 12345)
			},
			want: "",
		},
		{
			name: "active span wins",
			setupContext: func(c *gin.Context) {
				c.Set("trace_id", "context-trace-123")

				sc := trace.NewSpanContext(trace.SpanContextConfig{
					TraceID:    trace.TraceID{0x4b, 0xf9, 0x2f, 0x35, 0x77, 0xb3, 0x4d, 0xa6, 0xa3, 0xce, 0x92, 0x9d, 0x0e, 0x0e, 0x47, 0x36},
					SpanID:     trace.SpanID{0x00, 0xf0, 0x67, 0xaa, 0x0b, 0xa9, 0x02, 0xb7},
					TraceFlags: trace.FlagsSampled,
				})
				ctx := trace.ContextWithSpanContext(c.Request.Context(), sc)
				c.Request = c.Request.WithContext(ctx)
			},
			want: "4bf92f3577b34da6a3ce929d0e0e4736",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext("/")
			tt.setupContext(c)

			assert.Equal(t, tt.want, GetTraceID(c))
		})
	}
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unavailable", domain.NewResourceUnavailableError("quotes.csv", "file not found"), http.StatusInternalServerError, ErrorCodeCatalogUnavailable},
		{"malformed", domain.NewMalformedRecordError(2, "Quote", "is missing"), http.StatusInternalServerError, ErrorCodeCatalogMalformed},
		{"empty", domain.ErrEmptyCatalog, http.StatusInternalServerError, ErrorCodeCatalogEmpty},
		{"internal", errors.New("unexpected error"), http.StatusInternalServerError, ErrorCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext("/")
			c.Set("trace_id", "trace-123")

			HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)

			var response ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.wantCode, response.Error.Code)
			assert.Equal(t, "trace-123", response.TraceID)
		})
	}
}

func TestAbortWithErrorCode(t *testing.T) {
	c, w := newTestContext("/")

	AbortWithErrorCode(c, ErrorCodeRateLimited, "too many requests")

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, ErrorCodeRateLimited, response.Error.Code)
}

func TestValidator(t *testing.T) {
	assert.Same(t, Validator(), Validator())
}

func TestBindQueryAndValidate(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantErr  error
		wantDate string
	}{
		{"valid", "?date=2024-02-29", nil, "2024-02-29"},
		{"missing", "", ErrValidation, ""},
		{"wrong layout", "?date=29/02/2024", ErrValidation, ""},
		{"impossible date", "?date=2023-02-29", ErrValidation, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext("/api/v1/quotes" + tt.query)

			var q DateQuery
			err := BindQueryAndValidate(c, &q)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantDate, q.Date)
		})
	}
}

func TestValidationErrors(t *testing.T) {
	t.Run("missing date", func(t *testing.T) {
		got := ValidationErrors(Validate(&DateQuery{}))
		assert.Equal(t, map[string]string{"date": "this field is required"}, got)
	})

	t.Run("bad layout", func(t *testing.T) {
		got := ValidationErrors(Validate(&DateQuery{Date: "tomorrow"}))
		assert.Equal(t, map[string]string{"date": "must be a calendar date formatted as YYYY-MM-DD"}, got)
	})

	t.Run("non-validation error returns empty map", func(t *testing.T) {
		assert.Empty(t, ValidationErrors(errors.New("some error")))
	})
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, IsValidationError(Validate(&DateQuery{})))
	assert.False(t, IsValidationError(errors.New("some error")))
	assert.False(t, IsValidationError(nil))
}

func TestValidationMessage_UnknownTag(t *testing.T) {
	type sizeLimited struct {
		Size int `json:"size" validate:"max=1"`
	}

	got := ValidationErrors(Validate(&sizeLimited{Size: 2}))
	assert.Equal(t, "failed validation: max", got["size"])
}

func TestNewQuoteResponse(t *testing.T) {
	sel, err := domain.SelectQuote(domain.Catalog{
		{Text: "A", Author: "X"},
		{Text: "B", Author: "Y"},
		{Text: "C", Author: "Z"},
	}, time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	resp := NewQuoteResponse(sel)

	assert.Equal(t, &QuoteResponse{
		Text:        "“B”",
		Author:      "Y",
		Date:        "2023-01-01",
		DayOfYear:   1,
		Index:       1,
		CatalogSize: 3,
	}, resp)

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"“B”","author":"Y","date":"2023-01-01","dayOfYear":1,"index":1,"catalogSize":3}`, string(data))
}

func TestGetTraceID_BackgroundRequest(t *testing.T) {
	c, _ := newTestContext("/")
	c.Request = c.Request.WithContext(context.Background())

	assert.Empty(t, GetTraceID(c))
}
