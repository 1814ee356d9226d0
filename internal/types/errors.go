package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific error type
type ErrorCode string

const (
	// Lookup errors
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrInvalidIndex   ErrorCode = "INVALID_INDEX"
	ErrSizeMismatch   ErrorCode = "SIZE_MISMATCH"
	ErrDuplicateToken ErrorCode = "DUPLICATE_TOKEN"

	// Deck errors
	ErrDeckEmpty    ErrorCode = "DECK_EMPTY"
	ErrDeckNotFound ErrorCode = "DECK_NOT_FOUND"
	ErrConflict     ErrorCode = "CONFLICT"

	// Command errors
	ErrInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	ErrInvalidCommand  ErrorCode = "INVALID_COMMAND"

	// System errors
	ErrDatabaseError ErrorCode = "DATABASE_ERROR"
	ErrInternalError ErrorCode = "INTERNAL_ERROR"
)

// Error is an error carrying a machine-readable code
type Error struct {
	Code    ErrorCode
	Message string
	Err     error // Underlying error, if any
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new coded error
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new coded error with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error in a coded error
func Wrap(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Is reports whether err, or anything it wraps, is a coded error with the given code
func Is(err error, code ErrorCode) bool {
	var codedErr *Error
	if !As(err, &codedErr) {
		return false
	}
	return codedErr.Code == code
}

// As finds the first coded error in err's chain and stores it in target
func As(err error, target **Error) bool {
	if err == nil || target == nil {
		return false
	}
	return errors.As(err, target)
}
