package core

import (
	"fmt"
)

// ErrorCategory classifies the type of error for reporting and propagation
// decisions.
type ErrorCategory int

const (
	ErrCategoryNone       ErrorCategory = iota // No error
	ErrCategoryResolution                      // Reference, case or base-path resolution failed
	ErrCategoryArgument                        // Missing or invalid step parameter
	ErrCategoryTimeout                         // Wait exhausted without locating an element
	ErrCategoryAssertion                       // Backend state did not match expectation
	ErrCategoryLifecycle                       // Setup or teardown sequence failed
)

// String returns the string representation of ErrorCategory.
func (c ErrorCategory) String() string {
	switch c {
	case ErrCategoryNone:
		return "none"
	case ErrCategoryResolution:
		return "resolution"
	case ErrCategoryArgument:
		return "argument"
	case ErrCategoryTimeout:
		return "timeout"
	case ErrCategoryAssertion:
		return "assertion"
	case ErrCategoryLifecycle:
		return "lifecycle"
	default:
		return "unknown"
	}
}

// ExecutionError represents a structured engine error with category and
// details.
type ExecutionError struct {
	Category ErrorCategory
	Code     string                 // Machine-readable code: element_not_found, case_not_found, etc.
	Message  string                 // Human-readable message
	Details  map[string]interface{} // Additional context
	Cause    error                  // Underlying error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// Is matches two ExecutionErrors by code, so errors.Is works against the
// predefined sentinels after WithMessage/WithCause copies.
func (e *ExecutionError) Is(target error) bool {
	t, ok := target.(*ExecutionError)
	return ok && t.Code == e.Code
}

// WithCause returns a copy of the error with the given cause.
func (e *ExecutionError) WithCause(cause error) *ExecutionError {
	return &ExecutionError{
		Category: e.Category,
		Code:     e.Code,
		Message:  e.Message,
		Details:  e.Details,
		Cause:    cause,
	}
}

// WithMessage returns a copy of the error with a custom message.
func (e *ExecutionError) WithMessage(msg string) *ExecutionError {
	return &ExecutionError{
		Category: e.Category,
		Code:     e.Code,
		Message:  msg,
		Details:  e.Details,
		Cause:    e.Cause,
	}
}

// WithMessagef returns a copy of the error with a formatted message.
func (e *ExecutionError) WithMessagef(format string, args ...interface{}) *ExecutionError {
	return e.WithMessage(fmt.Sprintf(format, args...))
}

// WithDetails returns a copy of the error with additional details.
func (e *ExecutionError) WithDetails(details map[string]interface{}) *ExecutionError {
	merged := make(map[string]interface{})
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	return &ExecutionError{
		Category: e.Category,
		Code:     e.Code,
		Message:  e.Message,
		Details:  merged,
		Cause:    e.Cause,
	}
}

// Predefined errors
var (
	// Resolution errors
	ErrReferenceNotFound = &ExecutionError{
		Category: ErrCategoryResolution,
		Code:     "reference_not_found",
		Message:  "referenced document not found",
	}
	ErrCaseNotFound = &ExecutionError{
		Category: ErrCategoryResolution,
		Code:     "case_not_found",
		Message:  "referenced case not found",
	}
	ErrWrongDocumentKind = &ExecutionError{
		Category: ErrCategoryResolution,
		Code:     "wrong_document_kind",
		Message:  "referenced document is not a screen test",
	}
	ErrBasePathUnset = &ExecutionError{
		Category: ErrCategoryResolution,
		Code:     "base_path_unset",
		Message:  "no base directory known for reference resolution",
	}

	// Step errors
	ErrStepArgument = &ExecutionError{
		Category: ErrCategoryArgument,
		Code:     "step_argument",
		Message:  "missing or invalid step parameter",
	}
	ErrElementNotFound = &ExecutionError{
		Category: ErrCategoryTimeout,
		Code:     "element_not_found",
		Message:  "element not found",
	}
	ErrAssertionFailure = &ExecutionError{
		Category: ErrCategoryAssertion,
		Code:     "assertion_failure",
		Message:  "assertion failed",
	}

	// Lifecycle errors
	ErrSetupFailure = &ExecutionError{
		Category: ErrCategoryLifecycle,
		Code:     "setup_failure",
		Message:  "setup sequence failed",
	}
	ErrTeardownFailure = &ExecutionError{
		Category: ErrCategoryLifecycle,
		Code:     "teardown_failure",
		Message:  "teardown sequence failed",
	}
)

// NewExecutionError creates a new ExecutionError with the given parameters.
func NewExecutionError(category ErrorCategory, code, message string) *ExecutionError {
	return &ExecutionError{
		Category: category,
		Code:     code,
		Message:  message,
	}
}
