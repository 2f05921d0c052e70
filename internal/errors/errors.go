// Package errors provides the structured error type (BuildError) used for
// category-based classification of build failures across pipelines, the
// relocator, and the writer.
package errors

import (
	"fmt"
)

// ErrorCategory classifies a build failure by its origin.
type ErrorCategory string

const (
	// CategoryResolution covers entry paths or root-relative asset paths
	// that do not exist.
	CategoryResolution ErrorCategory = "resolution"
	// CategoryCollaborator covers internal failures of the module bundler,
	// style inliner, or token replacer. Propagated unchanged to the caller.
	CategoryCollaborator ErrorCategory = "collaborator"
	// CategoryNameCollision covers two distinct asset paths resolving to
	// the same final basename.
	CategoryNameCollision ErrorCategory = "name_collision"
	// CategoryWrite covers output sink failures (permissions, disk full).
	CategoryWrite ErrorCategory = "write"
	// CategoryConfig covers invalid or missing build configuration.
	CategoryConfig ErrorCategory = "config"
	// CategoryInternal is the fallback for everything else.
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is. Every category above is
// fatal to the running build today; the severity field keeps log filtering
// uniform across packages.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"
	SeverityError   ErrorSeverity = "error"
	SeverityWarning ErrorSeverity = "warning"
)

// ContextFields carries structured context for a BuildError.
type ContextFields map[string]any

// BuildError is a structured error with category and context. Errors are
// surfaced synchronously to the build caller; none are retried and none are
// downgraded to warnings.
type BuildError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap supports errors.Is/errors.As chains.
func (e *BuildError) Unwrap() error {
	return e.Cause
}

// WithContext adds a structured context field to the error.
func (e *BuildError) WithContext(key string, value any) *BuildError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new BuildError.
func New(category ErrorCategory, message string) *BuildError {
	return &BuildError{
		Category: category,
		Severity: SeverityFatal,
		Message:  message,
	}
}

// Newf creates a new BuildError with a formatted message.
func Newf(category ErrorCategory, format string, args ...any) *BuildError {
	return New(category, fmt.Sprintf(format, args...))
}

// Wrap creates a BuildError that wraps an existing error.
func Wrap(err error, category ErrorCategory, message string) *BuildError {
	return &BuildError{
		Category: category,
		Severity: SeverityFatal,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category.
func IsCategory(err error, category ErrorCategory) bool {
	if be, ok := err.(*BuildError); ok {
		return be.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or CategoryInternal if
// the error is not a BuildError.
func GetCategory(err error) ErrorCategory {
	if be, ok := err.(*BuildError); ok {
		return be.Category
	}
	return CategoryInternal
}
