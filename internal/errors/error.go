package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryHooks    Category = "hooks"
	CategoryCommit   Category = "commit"
	CategorySchedule Category = "schedule"
	CategoryConfig   Category = "config"
	CategoryCLI      Category = "cli"
)

// LoomError is a structured error with a code, explanation and fix hint.
type LoomError struct {
	// Code is a unique error identifier (e.g., "L001").
	Code string

	// Category is the error type (hooks, commit, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *LoomError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *LoomError) Unwrap() error {
	return e.Wrapped
}

// WithSuggestion adds a fix suggestion to the error.
func (e *LoomError) WithSuggestion(s string) *LoomError {
	e.Suggestion = s
	return e
}

// WithDetail replaces the detailed explanation.
func (e *LoomError) WithDetail(d string) *LoomError {
	e.Detail = d
	return e
}

// WithDetailf replaces the detailed explanation with a formatted string.
func (e *LoomError) WithDetailf(format string, args ...any) *LoomError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *LoomError) Wrap(err error) *LoomError {
	e.Wrapped = err
	return e
}

// New creates a LoomError from a registered error code.
func New(code string) *LoomError {
	template, ok := registry[code]
	if !ok {
		return &LoomError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &LoomError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
		DocURL:     template.DocURL,
	}
}

// Newf creates a new LoomError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *LoomError {
	return &LoomError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a LoomError.
// An error that already is (or wraps) a LoomError is returned as is.
func FromError(err error, code string) *LoomError {
	if err == nil {
		return nil
	}
	var le *LoomError
	if stderrors.As(err, &le) {
		return le
	}
	return New(code).Wrap(err)
}

// HasCode reports whether err is, or wraps, a LoomError with the given code.
func HasCode(err error, code string) bool {
	var le *LoomError
	for err != nil {
		if !stderrors.As(err, &le) {
			return false
		}
		if le.Code == code {
			return true
		}
		err = le.Wrapped
	}
	return false
}
