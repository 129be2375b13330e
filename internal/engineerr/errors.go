// Package engineerr defines the typed error taxonomy shared by every
// action entry point in the core engine (see SPEC_FULL.md §7).
package engineerr

import (
	"errors"
	"fmt"
)

// Code is a closed category of failure. Callers distinguish error kinds by
// Code, never by matching message text.
type Code string

const (
	InvalidArgument   Code = "invalid_argument"
	PreconditionFailed Code = "precondition_failed"
	NotFound          Code = "not_found"
	ConflictState     Code = "conflict_state"
	SchemaInvalid     Code = "schema_invalid"
	SemanticInvalid   Code = "semantic_invalid"
	Transient         Code = "transient"
)

// Error is the concrete error type returned by engine operations.
type Error struct {
	code    Code
	message string
	wrapped error
}

func (e *Error) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.wrapped)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error { return e.wrapped }

// Code returns the error's category.
func (e *Error) Code() Code { return e.code }

// New builds an Error of the given category.
func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Newf builds an Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{code: code, message: fmt.Sprintf(format, args...)}
}

// Wrap attaches an underlying cause to a typed error.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{code: code, message: message, wrapped: cause}
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.code == code
	}
	return false
}

// CodeOf extracts the Code from err, or "" if err is not a tagged Error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.code
	}
	return ""
}
