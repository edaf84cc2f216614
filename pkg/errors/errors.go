// Package errors provides structured error types for flowlayout.
//
// Errors carry a machine-readable [Code] so the CLI and the HTTP API can
// tell user-input problems (bad scope or subset references, malformed
// diagrams) apart from solver failures and internal faults.
//
// # Error Codes
//
//   - INVALID_*: input validation failures, raised before any mutation
//   - NOT_FOUND: a referenced element does not exist
//   - SOLVER_FAILED: the external layout solver rejected the graph
//   - INTERNAL_ERROR / UNSUPPORTED: unexpected faults
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidScope, "scope %q is not a pool or sub-process", id)
//	if errors.Is(err, errors.ErrCodeInvalidScope) {
//	    // report to the user, nothing was mutated
//	}
//
//	err := errors.Wrap(errors.ErrCodeSolver, cause, "layout solver failed")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidScope   Code = "INVALID_SCOPE"
	ErrCodeInvalidSubset  Code = "INVALID_SUBSET"
	ErrCodeInvalidDiagram Code = "INVALID_DIAGRAM"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Solver errors
	ErrCodeSolver Code = "SOLVER_FAILED"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsUserError reports whether err is an input error the caller can fix.
// User errors are always raised before the diagram is mutated.
func IsUserError(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidScope, ErrCodeInvalidSubset,
		ErrCodeInvalidDiagram, ErrCodeInvalidConfig, ErrCodeNotFound:
		return true
	}
	return false
}
