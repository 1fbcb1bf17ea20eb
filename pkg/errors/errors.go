// Package errors defines the coded errors kintree returns across the
// family model, the CLI and the HTTP API.
//
// Every code belongs to a [Kind] that tells a caller how to react: fix the
// input, pick different relatives, look elsewhere, or give up. The CLI maps
// kinds to exit codes and the server maps them to HTTP statuses.
//
// The relationship model reports its validation failures with dedicated codes:
//   - INVALID_REFERENCE: an operation referenced a node id that is not registered
//   - CYCLE_REJECTED: a parent/child link would make someone their own ancestor
//   - TOO_MANY_PARENTS: a child already has two distinct parents
//
// Usage:
//
//	err := errors.New(errors.ErrCodeCycleRejected, "%s is an ancestor of %s", a, b)
//	if errors.Is(err, errors.ErrCodeCycleRejected) {
//	    // ask for a different parent
//	}
//	err = errors.Wrap(errors.ErrCodeInvalidFormat, cause, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

const (
	ErrCodeInvalidReference Code = "INVALID_REFERENCE"
	ErrCodeCycleRejected    Code = "CYCLE_REJECTED"
	ErrCodeTooManyParents   Code = "TOO_MANY_PARENTS"

	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidStyle  Code = "INVALID_STYLE"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	ErrCodeNotFound       Code = "NOT_FOUND"
	ErrCodeMemberNotFound Code = "MEMBER_NOT_FOUND"
	ErrCodeFileNotFound   Code = "FILE_NOT_FOUND"

	ErrCodeStorage     Code = "STORAGE_ERROR"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Kind groups codes by the action they call for.
type Kind int

const (
	KindInternal    Kind = iota // a bug or an unclassified failure
	KindInput                   // the request itself is malformed
	KindConflict                // the request contradicts the family as it is
	KindMissing                 // something named does not exist
	KindBackend                 // a store or cache failed
	KindUnsupported             // valid but not implemented for this case
)

var kinds = map[Code]Kind{
	ErrCodeInvalidReference: KindInput,
	ErrCodeInvalidInput:     KindInput,
	ErrCodeInvalidFormat:    KindInput,
	ErrCodeInvalidStyle:     KindInput,
	ErrCodeInvalidPath:      KindInput,
	ErrCodeCycleRejected:    KindConflict,
	ErrCodeTooManyParents:   KindConflict,
	ErrCodeNotFound:         KindMissing,
	ErrCodeMemberNotFound:   KindMissing,
	ErrCodeFileNotFound:     KindMissing,
	ErrCodeStorage:          KindBackend,
	ErrCodeUnsupported:      KindUnsupported,
}

// Kind returns the kind of c. Unknown codes are internal.
func (c Code) Kind() Kind { return kinds[c] }

// HTTPStatus returns the response status for c.
func (c Code) HTTPStatus() int {
	switch c.Kind() {
	case KindInput:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindMissing:
		return http.StatusNotFound
	case KindBackend:
		return http.StatusBadGateway
	case KindUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// Is reports whether any coded error in err's chain has code.
func Is(err error, code Code) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Code == code {
			return true
		}
		switch u := err.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				if Is(inner, code) {
					return true
				}
			}
			return false
		case interface{ Unwrap() error }:
			err = u.Unwrap()
		default:
			return false
		}
	}
	return false
}

// GetCode returns the outermost code in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// KindOf returns the kind of err's outermost code. Uncoded errors are
// internal.
func KindOf(err error) Kind { return GetCode(err).Kind() }

// UserMessage returns the message of the outermost coded error without its
// code prefix, or err.Error() for uncoded errors.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
