// Package dto provides Data Transfer Objects for HTTP request/response handling.
package dto

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/daily-quote/internal/domain"
	"github.com/jsamuelsen/daily-quote/internal/platform/telemetry"
)

// ErrorResponse is the standard error envelope for all error responses.
// It provides a consistent structure for API error handling.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	// Code is a machine-readable error code (e.g., "CATALOG_EMPTY", "VALIDATION_ERROR").
	Code string `json:"code"`

	// Message is a human-readable error message.
	Message string `json:"message"`

	// Details provides additional context about the error.
	// For validation errors, this contains field-level error messages.
	Details map[string]string `json:"details,omitempty"`
}

// Error codes for machine-readable error identification.
const (
	// ErrorCodeCatalogUnavailable indicates the quote catalog could not be read.
	ErrorCodeCatalogUnavailable = "CATALOG_UNAVAILABLE"

	// ErrorCodeCatalogMalformed indicates a catalog row lacks a required field.
	ErrorCodeCatalogMalformed = "CATALOG_MALFORMED"

	// ErrorCodeCatalogEmpty indicates the catalog holds no quotes.
	ErrorCodeCatalogEmpty = "CATALOG_EMPTY"

	// ErrorCodeNotFound indicates the requested route does not exist.
	ErrorCodeNotFound = "NOT_FOUND"

	// ErrorCodeValidation indicates request validation failed.
	ErrorCodeValidation = "VALIDATION_ERROR"

	// ErrorCodeRateLimited indicates the client exceeded its request budget.
	ErrorCodeRateLimited = "RATE_LIMITED"

	// ErrorCodeInternal indicates an internal server error.
	ErrorCodeInternal = "INTERNAL_ERROR"

	// ErrorCodeTimeout indicates the request deadline passed before a quote
	// could be served.
	ErrorCodeTimeout = "TIMEOUT"

	// ErrorCodeBadRequest indicates the request was malformed.
	ErrorCodeBadRequest = "BAD_REQUEST"
)

// internalErrorMessage is shown for errors whose details must not leak.
const internalErrorMessage = "an internal error occurred"

// NewErrorResponse creates a new error response with the given code and message.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// NewErrorResponseWithDetails creates an error response with additional details.
func NewErrorResponseWithDetails(code, message string, details map[string]string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// WithTraceID adds a trace ID to the error response.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}

// HTTPStatusFromCode maps error codes to HTTP status codes.
// Catalog failures are server faults: the request was fine, the data was not.
func HTTPStatusFromCode(code string) int {
	switch code {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeValidation, ErrorCodeBadRequest:
		return http.StatusBadRequest
	case ErrorCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrorCodeTimeout:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// MapError maps an error to an HTTP status code and error response.
// Unknown errors are mapped to 500 Internal Server Error with a generic message.
func MapError(err error) (int, *ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	var resp *ErrorResponse

	switch {
	case domain.IsResourceUnavailable(err):
		resp = NewErrorResponse(ErrorCodeCatalogUnavailable, "the quote catalog is unavailable")

	case domain.IsMalformedRecord(err):
		resp = NewErrorResponse(ErrorCodeCatalogMalformed, "the quote catalog is malformed")

	case domain.IsEmptyCatalog(err):
		resp = NewErrorResponse(ErrorCodeCatalogEmpty, "the quote catalog is empty")

	case IsValidationError(err):
		resp = NewErrorResponseWithDetails(ErrorCodeValidation, "request validation failed", ValidationErrors(err))

	case errors.Is(err, context.DeadlineExceeded):
		resp = NewErrorResponse(ErrorCodeTimeout, "the request timed out")

	default:
		resp = NewErrorResponse(ErrorCodeInternal, internalErrorMessage)
	}

	return HTTPStatusFromCode(resp.Error.Code), resp
}

// GetTraceID returns the trace ID of the request span.
// Falls back to the trace ID stored on the gin context, then to the request ID header.
func GetTraceID(c *gin.Context) string {
	if traceID := telemetry.TraceID(c.Request.Context()); traceID != "" {
		return traceID
	}

	if v, ok := c.Get("trace_id"); ok {
		if traceID, ok := v.(string); ok {
			return traceID
		}

		return ""
	}

	return c.GetHeader("X-Request-ID")
}

// HandleError writes the JSON error envelope for err.
func HandleError(c *gin.Context, err error) {
	status, resp := MapError(err)
	c.JSON(status, resp.WithTraceID(GetTraceID(c)))
}

// AbortWithErrorCode aborts the request chain with a specific error code.
func AbortWithErrorCode(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(HTTPStatusFromCode(code), NewErrorResponse(code, message).WithTraceID(GetTraceID(c)))
}
