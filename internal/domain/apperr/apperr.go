// Package apperr defines the error taxonomy services report and the
// transport layer maps onto structured responses.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for the transport boundary.
type Kind string

const (
	KindValidation   Kind = "VALIDATION"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindNotFound     Kind = "NOT_FOUND"
	KindConflict     Kind = "CONFLICT"
	KindIntegration  Kind = "INTEGRATION"
	KindInternal     Kind = "INTERNAL"
)

// Error carries a kind, a human message, an optional machine label for
// client-side localization, and the offending field for validation
// failures.
type Error struct {
	Kind  Kind
	Msg   string
	Label string
	Field string
	Err   error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field %q)", e.Kind, e.Msg, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports an input that failed schema checks on field.
func Validation(field, msg string) *Error {
	return &Error{Kind: KindValidation, Msg: msg, Field: field}
}

// ValidationLabel is Validation with a machine-readable label attached.
func ValidationLabel(field, msg, label string) *Error {
	return &Error{Kind: KindValidation, Msg: msg, Field: field, Label: label}
}

// Unauthorized reports a missing or insufficient acting user.
func Unauthorized() *Error {
	return &Error{Kind: KindUnauthorized, Msg: "action not allowed", Label: "unauthorized"}
}

// NotFound reports an id that did not resolve to a live entity.
func NotFound(what string) *Error {
	return &Error{Kind: KindNotFound, Msg: what + " not found", Label: what + "_not_found"}
}

// Conflict reports a duplicate unique field.
func Conflict(msg, label string) *Error {
	return &Error{Kind: KindConflict, Msg: msg, Label: label}
}

// Integration reports an external collaborator failure.
func Integration(msg string, err error) *Error {
	return &Error{Kind: KindIntegration, Msg: msg, Label: "integration_unavailable", Err: err}
}

// Internal wraps an unexpected failure, preserving the original message.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Msg: err.Error(), Err: err}
}

// KindOf extracts the kind of err, or KindInternal when it is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// As returns err as an *Error when possible.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, k Kind) bool { return KindOf(err) == k }
