// Package domain contains business logic types and errors.
// Domain errors represent business-level failures, NOT HTTP errors.
// They are infrastructure-agnostic and can be mapped to HTTP responses or log
// entries by adapters.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrResourceUnavailable indicates the quote catalog could not be read.
	ErrResourceUnavailable = errors.New("resource unavailable")

	// ErrMalformedRecord indicates a catalog row or header lacks a required field.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrEmptyCatalog indicates the catalog holds no quotes, so nothing can be selected.
	ErrEmptyCatalog = errors.New("empty catalog")
)

// ResourceUnavailableError provides context for an unreadable catalog source.
type ResourceUnavailableError struct {
	Source string
	Reason string
}

// Error implements the error interface.
func (e *ResourceUnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("catalog source %q unavailable: %s", e.Source, e.Reason)
	}

	return fmt.Sprintf("catalog source %q unavailable", e.Source)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ResourceUnavailableError) Unwrap() error {
	return ErrResourceUnavailable
}

// NewResourceUnavailableError creates a resource unavailable error with context.
func NewResourceUnavailableError(source, reason string) error {
	return &ResourceUnavailableError{Source: source, Reason: reason}
}

// MalformedRecordError provides context for a catalog row that lacks a required field.
// Line is the 1-based line in the source; line 1 is the header.
// Field is empty when the row could not be split into fields at all.
type MalformedRecordError struct {
	Line   int
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *MalformedRecordError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("malformed record on line %d: %s", e.Line, e.Reason)
	}

	if e.Reason != "" {
		return fmt.Sprintf("malformed record on line %d: field %q %s", e.Line, e.Field, e.Reason)
	}

	return fmt.Sprintf("malformed record on line %d: field %q", e.Line, e.Field)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *MalformedRecordError) Unwrap() error {
	return ErrMalformedRecord
}

// NewMalformedRecordError creates a malformed record error with context.
func NewMalformedRecordError(line int, field, reason string) error {
	return &MalformedRecordError{Line: line, Field: field, Reason: reason}
}

// IsResourceUnavailable checks if an error is a resource unavailable error.
func IsResourceUnavailable(err error) bool {
	return errors.Is(err, ErrResourceUnavailable)
}

// IsMalformedRecord checks if an error is a malformed record error.
func IsMalformedRecord(err error) bool {
	return errors.Is(err, ErrMalformedRecord)
}

// IsEmptyCatalog checks if an error is an empty catalog error.
func IsEmptyCatalog(err error) bool {
	return errors.Is(err, ErrEmptyCatalog)
}

// IsCatalogError reports whether err is any of the catalog error kinds.
func IsCatalogError(err error) bool {
	return IsResourceUnavailable(err) || IsMalformedRecord(err) || IsEmptyCatalog(err)
}
