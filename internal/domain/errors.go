package domain

import (
	"errors"
	"strings"
)

// Sentinel errors shared by services, adapters and transport.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrExternal      = errors.New("external service error")
)

// FieldError names a rejected request field.
type FieldError struct {
	Field   string
	Message string
}

func (f FieldError) String() string { return f.Field + ": " + f.Message }

// ValidationError collects every rejected field of one request.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Message()
}

// Message renders the field errors as "field: message; field: message".
func (e *ValidationError) Message() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.String()
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Message: message}}}
}

func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}
