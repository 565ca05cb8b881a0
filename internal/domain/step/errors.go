package step

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes covering the installer failure taxonomy.
const (
	CodePrecondition    = "PRECONDITION"
	CodeResource        = "RESOURCE"
	CodeStepFatal       = "STEP_FATAL"
	CodeStepRecoverable = "STEP_RECOVERABLE"
	CodePersistence     = "PERSISTENCE"
	CodeValidation      = "VALIDATION"
)

// Error is a structured installer error with an error code and an
// actionable suggestion.
type Error struct {
	Code       string // Error code for categorization
	Message    string // User-facing error message
	StepID     string // Step ID if applicable
	Suggestion string // Actionable suggestion to fix the error
	Underlying error  // Wrapped error for error chain
}

// Error returns the formatted error message.
func (e *Error) Error() string {
	if e.StepID != "" {
		return fmt.Sprintf("step %q: %s", e.StepID, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error for error chain support.
func (e *Error) Unwrap() error {
	return e.Underlying
}

// Format returns a fully formatted error with all details.
func (e *Error) Format() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))
	if e.StepID != "" {
		b.WriteString(fmt.Sprintf("\n  Step: %s", e.StepID))
	}
	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  Suggestion: %s", e.Suggestion))
	}
	if e.Underlying != nil {
		b.WriteString(fmt.Sprintf("\n  Cause: %s", e.Underlying.Error()))
	}

	return b.String()
}

// NewError creates a new Error with the given code and message.
func NewError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithStepID returns a copy of the error with the step ID set.
func (e *Error) WithStepID(stepID string) *Error {
	clone := *e
	clone.StepID = stepID
	return &clone
}

// WithSuggestion returns a copy of the error with the suggestion set.
func (e *Error) WithSuggestion(suggestion string) *Error {
	clone := *e
	clone.Suggestion = suggestion
	return &clone
}

// WithUnderlying returns a copy of the error wrapping cause.
func (e *Error) WithUnderlying(cause error) *Error {
	clone := *e
	clone.Underlying = cause
	return &clone
}

// Code extracts the installer error code from err, or "" if err does not
// carry one.
func Code(err error) string {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Code
	}
	return ""
}

// IsFatal reports whether err must halt the run. Unclassified errors
// from fatal steps are wrapped into CodeStepFatal by the engine, so an
// unknown code here means recoverable.
func IsFatal(err error) bool {
	switch Code(err) {
	case CodePrecondition, CodeResource, CodeStepFatal, CodePersistence:
		return true
	}
	return false
}
