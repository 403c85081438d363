// Package errors provides a lightweight structured error type (EngineError)
// for category-based classification of page resolution failures and their
// mapping to transport-level status codes.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory represents the category of an engine error for classification
type ErrorCategory string

const (
	// Request resolution errors
	CategoryRouteNotFound ErrorCategory = "route_not_found"
	CategoryLocale        ErrorCategory = "locale"

	// User-supplied generator errors
	CategoryGeneration ErrorCategory = "generation"

	// Persisted state errors
	CategorySchedule   ErrorCategory = "schedule"
	CategoryStoreRead  ErrorCategory = "store_read"
	CategoryStoreWrite ErrorCategory = "store_write"

	// Configuration and infrastructure errors
	CategoryConfig   ErrorCategory = "config"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops the request
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// ErrorCause attributes a generation failure to the party responsible for it.
// It decides whether a transport adapter reports a client-class or
// server-class failure code.
type ErrorCause string

const (
	CauseClient ErrorCause = "client"
	CauseServer ErrorCause = "server"
)

// EngineError is a structured error with category, blame, and context
type EngineError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Blame    ErrorCause    `json:"blame,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for EngineError
type ContextFields map[string]any

// Error implements the error interface
func (e *EngineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *EngineError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *EngineError) WithContext(key string, value any) *EngineError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new EngineError
func New(category ErrorCategory, severity ErrorSeverity, message string) *EngineError {
	return &EngineError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new EngineError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *EngineError {
	return &EngineError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal
// if it is not an EngineError
func GetCategory(err error) ErrorCategory {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Category
	}
	return CategoryInternal
}

// blamedError attaches a cause attribution to an arbitrary generator error.
type blamedError struct {
	err   error
	blame ErrorCause
}

func (b *blamedError) Error() string { return b.err.Error() }
func (b *blamedError) Unwrap() error { return b.err }

// WithBlame marks an error as caused by the given party. Generator authors use
// this to attribute failures to bad request data (client) rather than the
// server; unblamed errors are attributed to the server.
func WithBlame(err error, blame ErrorCause) error {
	if err == nil {
		return nil
	}
	return &blamedError{err: err, blame: blame}
}

// BlameOf extracts the blame attribution from an error chain, defaulting to
// the server when none was attached.
func BlameOf(err error) ErrorCause {
	var be *blamedError
	if errors.As(err, &be) {
		return be.blame
	}
	var ee *EngineError
	if errors.As(err, &ee) && ee.Blame != "" {
		return ee.Blame
	}
	return CauseServer
}
