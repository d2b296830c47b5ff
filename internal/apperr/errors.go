// Package apperr defines the error kinds surfaced across the API boundary.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the request boundary
type Kind int

const (
	// Internal is an unexpected failure
	Internal Kind = iota
	// NotFound means the record is absent or not owned by the caller
	NotFound
	// InvalidCredential means a missing or invalid credential
	InvalidCredential
	// ValidationFailure means the request is missing a field or carries a bad value
	ValidationFailure
	// DataUnavailable means the underlying store query failed
	DataUnavailable
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case InvalidCredential:
		return "invalid_credential"
	case ValidationFailure:
		return "validation_failure"
	case DataUnavailable:
		return "data_unavailable"
	default:
		return "internal"
	}
}

// Error carries a kind, a caller-safe message and an optional cause
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an error of the given kind around a cause
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or Internal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// MessageOf returns the caller-safe message of err, or fallback when err
// carries no *Error
func MessageOf(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
