// Package apperr defines the closed set of error kinds the HTTP layer knows
// about. Handlers return *Error values, the web error handler maps the kind
// to a status code exactly once.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind uint8

const (
	// Internal is an unexpected fault. Its message is never shown to clients.
	Internal Kind = iota
	// Unauthenticated means no credential was presented.
	Unauthenticated
	// Forbidden means the credential is invalid or lacks the required role.
	Forbidden
	// NotFound means the addressed document does not exist.
	NotFound
	// Validation means the request payload is malformed or incomplete.
	Validation
	// Conflict means the request collides with existing state, e.g. a taken email.
	Conflict
	// TooLarge means an uploaded file exceeds its ceiling.
	TooLarge
)

var kindNames = map[Kind]string{
	Internal:        "internal",
	Unauthenticated: "unauthenticated",
	Forbidden:       "forbidden",
	NotFound:        "not_found",
	Validation:      "validation",
	Conflict:        "conflict",
	TooLarge:        "too_large",
}

// String returns the snake case name of k.
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}

	return "unknown"
}

// Status maps k to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Validation:
		return http.StatusBadRequest
	case Conflict:
		return http.StatusConflict
	case TooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// FieldError describes a single invalid request field.
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Value any    `json:"value,omitempty"`
}

// Error is an application error with a client facing message.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap creates an error of the given kind with cause err.
func Wrap(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// NewNotFound is a shortcut for New(NotFound, msg).
func NewNotFound(msg string) *Error {
	return New(NotFound, msg)
}

// NewValidation is a shortcut for New(Validation, msg).
func NewValidation(msg string, fields ...FieldError) *Error {
	return &Error{Kind: Validation, Message: msg, Fields: fields}
}

// NewInternal wraps an unexpected fault.
func NewInternal(err error) *Error {
	return Wrap(Internal, err, "internal server error")
}

// KindOf returns the kind of err, Internal if err is no *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return Internal
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error

	return errors.As(err, &e) && e.Kind == kind
}
