// Package apierror provides standardized error response structures for the API
// and the domain error taxonomy. All errors returned to clients go through this
// package to ensure consistency and to prevent leaking internal details (stack
// traces, DB errors, etc.).
package apierror

import (
	"errors"
	"net/http"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
// Details carries per-item messages when a single operation fails for several
// reasons at once (e.g. every insufficient-stock line of a delivery).
type APIError struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func New(msg string) *APIError { return &APIError{Error: msg} }

func WithDetails(msg string, details []string) *APIError {
	return &APIError{Error: msg, Details: details}
}

// Kind classifies a domain error for HTTP mapping and retry semantics.
// NotFound / InvalidTransition / InsufficientStock / Validation are detected
// before any mutation; Transaction means the atomic commit itself failed and
// the operation rolled back completely.
type Kind int

const (
	KindNotFound Kind = iota
	KindInvalidTransition
	KindInsufficientStock
	KindValidation
	KindTransaction
)

// Error is a domain error carrying its taxonomy kind and optional detail lines.
type Error struct {
	Kind    Kind
	Msg     string
	Details []string
	Err     error // wrapped cause, never exposed to clients
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Err }

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

func InvalidTransition(msg string) *Error {
	return &Error{Kind: KindInvalidTransition, Msg: msg}
}

func InsufficientStock(msg string, details []string) *Error {
	return &Error{Kind: KindInsufficientStock, Msg: msg, Details: details}
}

func Validation(msg string, details ...string) *Error {
	return &Error{Kind: KindValidation, Msg: msg, Details: details}
}

func Transaction(msg string, err error) *Error {
	return &Error{Kind: KindTransaction, Msg: msg, Err: err}
}

// HTTPStatus maps an error to its response status code. Unrecognized errors
// map to 500 — the handler layer replaces their message with a generic one.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidTransition:
		return http.StatusConflict
	case KindInsufficientStock, KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Envelope builds the wire representation for a domain error. Non-domain
// errors get a generic message so internals never leak.
func Envelope(err error) *APIError {
	var e *Error
	if !errors.As(err, &e) {
		return New("Internal server error")
	}
	if e.Kind == KindTransaction {
		return New(e.Msg)
	}
	return WithDetails(e.Msg, e.Details)
}
