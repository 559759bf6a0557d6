// Package apierror provides the error taxonomy shared by all services and the
// standardized response structures for the API. All errors returned to clients
// go through this package to ensure consistency and to prevent leaking internal
// details (stack traces, DB errors, etc.).
package apierror

import (
	"fmt"
	"net/http"
)

// Kind classifies an error for both callers and the HTTP layer.
type Kind string

const (
	KindValidation        Kind = "validation"
	KindNotFound          Kind = "not_found"
	KindConflict          Kind = "conflict"
	KindInsufficientStock Kind = "insufficient_stock"
	KindStoreUnavailable  Kind = "store_unavailable"
)

// Error is the canonical service error. Field carries the offending input
// field or entity reference so the presentation layer can show a specific
// message.
type Error struct {
	Kind    Kind   `json:"kind"`
	Field   string `json:"field,omitempty"`
	Message string `json:"detail"`
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func Validation(field, msg string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: msg}
}

func NotFound(entity string, id any) *Error {
	return &Error{Kind: KindNotFound, Field: entity, Message: fmt.Sprintf("%s %v not found", entity, id)}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func InsufficientStock(partRef string, available, requested int) *Error {
	return &Error{
		Kind:    KindInsufficientStock,
		Field:   partRef,
		Message: fmt.Sprintf("insufficient stock for %s: %d available, %d requested", partRef, available, requested),
	}
}

func StoreUnavailable(err error) *Error {
	return &Error{Kind: KindStoreUnavailable, Message: "store unavailable: " + err.Error()}
}

// StatusOf maps an error to its HTTP status code. Unknown errors are 500.
func StatusOf(err error) int {
	e, ok := err.(*Error)
	if !ok {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindInsufficientStock:
		return http.StatusConflict
	case KindStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}

// APIError is the generic error envelope for responses that do not originate
// from a typed service error (bad JSON, auth failures, rate limits).
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors from request binding.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "validation error", Fields: fields}
}
