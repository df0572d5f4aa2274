// Package errors defines the code-tagged errors returned throughout ascent.
//
// Every failure a caller may want to react to carries a [Code]. The CLI
// prints the message, the HTTP API maps the code to a status, and tests
// match on the code rather than on text:
//
//	if errors.Is(err, errors.ErrCodeInsufficientPoints) {
//	    // ask for a higher density
//	}
//
// Wrapping keeps the cause reachable through the standard errors package:
//
//	return errors.Wrap(errors.ErrCodeStorage, err, "save layout %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code is a stable, machine-readable failure class.
type Code string

const (
	// Caller input.
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidRules  Code = "INVALID_RULES"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidID     Code = "INVALID_ID"

	// Generation stages.
	ErrCodeInsufficientPoints Code = "INSUFFICIENT_POINTS"
	ErrCodeSolverFailed       Code = "SOLVER_FAILED"
	ErrCodeContradiction      Code = "CONTRADICTION"
	ErrCodePackingOverlap     Code = "PACKING_OVERLAP"
	ErrCodeNoPath             Code = "NO_PATH"

	ErrCodeNotFound Code = "NOT_FOUND"

	// Backends.
	ErrCodeStorage Code = "STORAGE"
	ErrCodeTimeout Code = "TIMEOUT"

	ErrCodeInternal    Code = "INTERNAL"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// clientCodes are caused by the request itself; retrying it unchanged will
// fail again. Too few anchors counts: the caller chose the density.
var clientCodes = map[Code]bool{
	ErrCodeInvalidInput:       true,
	ErrCodeInvalidConfig:      true,
	ErrCodeInvalidRules:       true,
	ErrCodeInvalidFormat:      true,
	ErrCodeInvalidPath:        true,
	ErrCodeInvalidID:          true,
	ErrCodeInsufficientPoints: true,
}

// Client reports whether c describes bad caller input.
func (c Code) Client() bool { return clientCodes[c] }

// Error is a failure with a code, a message for people and an optional
// cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a Sprintf-formatted message.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap is New with a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &Error{Code: code, Message: msg, Cause: cause}
}

// find returns the outermost *Error in err's chain.
func find(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost coded error in err's chain has code.
// Codes of errors wrapped further down do not match.
func Is(err error, code Code) bool {
	e, ok := find(err)
	return ok && e.Code == code
}

// CodeOf returns the code of the outermost coded error, or "" when err
// carries none.
func CodeOf(err error) Code {
	if e, ok := find(err); ok {
		return e.Code
	}
	return ""
}

// Message returns the message of the outermost coded error without code or
// cause, falling back to err.Error().
func Message(err error) string {
	if e, ok := find(err); ok {
		return e.Message
	}
	return err.Error()
}

// IsClientError reports whether err was caused by bad caller input rather
// than a generation or backend failure.
func IsClientError(err error) bool {
	return CodeOf(err).Client()
}
