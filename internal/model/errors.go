package model

import (
	"errors"
	"fmt"
)

// ValidationCode categorizes a rejected user action.
type ValidationCode string

const (
	// CodeMissingField indicates a required field was empty.
	CodeMissingField ValidationCode = "MISSING_FIELD"

	// CodeOutOfRange indicates a number or enum value outside its bounds.
	CodeOutOfRange ValidationCode = "OUT_OF_RANGE"

	// CodeInvalidField indicates a malformed value (e.g. an unparseable email).
	CodeInvalidField ValidationCode = "INVALID_FIELD"

	// CodeDuplicateEmail indicates registration with an email already taken.
	CodeDuplicateEmail ValidationCode = "DUPLICATE_EMAIL"

	// CodeInvalidCredentials indicates an unknown email or wrong credential.
	CodeInvalidCredentials ValidationCode = "INVALID_CREDENTIALS"

	// CodeNoSession indicates an operation that needs a logged-in user.
	CodeNoSession ValidationCode = "NO_SESSION"

	// CodeEmptyQuestionnaire indicates a questionnaire without questions.
	CodeEmptyQuestionnaire ValidationCode = "EMPTY_QUESTIONNAIRE"

	// CodeNoActiveTest indicates an answer submitted while no test is running.
	CodeNoActiveTest ValidationCode = "NO_ACTIVE_TEST"
)

// ValidationError is a recoverable rejection of user input. The operation
// that returned it made no state change.
type ValidationError struct {
	Code    ValidationCode
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field=%s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidationError creates a ValidationError without a field.
func NewValidationError(code ValidationCode, format string, args ...any) *ValidationError {
	return &ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// NewFieldError creates a ValidationError bound to a field.
func NewFieldError(code ValidationCode, field, format string, args ...any) *ValidationError {
	return &ValidationError{Code: code, Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a reference to a catalog entry that does not exist.
type NotFoundError struct {
	Kind string // "questionnaire", "technique", ...
	ID   string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// PersistenceError wraps a failed gateway operation.
type PersistenceError struct {
	Op  string // "get", "set", "remove"
	Key string
	Err error
}

// Error implements the error interface.
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s %q: %v", e.Op, e.Key, e.Err)
}

// Unwrap returns the underlying storage error.
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsValidation returns true if err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// HasCode returns true if err is or wraps a ValidationError with the given code.
func HasCode(err error, code ValidationCode) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Code == code
	}
	return false
}

// IsNotFound returns true if err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsPersistence returns true if err is or wraps a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
