package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error taxonomy shared by every layer. Services wrap store errors into one of
// these sentinels and the API layer maps them onto HTTP status codes.
var (
	// ErrValidation is returned when input is malformed or missing, including
	// unknown or expired invitation tokens.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when an operation targets an entity that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when an operation would duplicate a unique value
	// such as an email address or username.
	ErrConflict = errors.New("conflict")

	// ErrAuthentication is returned when login credentials do not verify.
	ErrAuthentication = errors.New("authentication failed")

	// ErrAuthorization is returned when an actor lacks the privilege required
	// for an operation.
	ErrAuthorization = errors.New("not authorized")
)

// FieldError describes a single rule violation on a named field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every violation found while validating an entity
// or request. It unwraps to ErrValidation.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError creates a ValidationError holding a single violation.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// Add records another violation.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Merge appends the violations carried by err. A non-validation error is
// recorded under the "error" field.
func (e *ValidationError) Merge(err error) {
	if err == nil {
		return
	}
	var other *ValidationError
	if errors.As(err, &other) {
		e.Fields = append(e.Fields, other.Fields...)
		return
	}
	e.Add("error", err.Error())
}

// HasErrors reports whether any violation was recorded.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// Err returns e as an error when it holds violations, or nil otherwise.
// It avoids the typed-nil pitfall of returning a nil *ValidationError.
func (e *ValidationError) Err() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s %s", f.Field, f.Message))
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

// Unwrap makes errors.Is(err, ErrValidation) succeed.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
