package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")

	// ErrAlreadyDecided is returned when a moderation decision targets an
	// entry that is no longer in a decidable status. Wraps ErrConflict so
	// callers can treat it as a lost race.
	ErrAlreadyDecided = fmt.Errorf("entry already decided: %w", ErrConflict)

	// ErrParentNotEligible is returned when a variant submission references a
	// parent that is missing, itself a variant, or not yet approved.
	ErrParentNotEligible = errors.New("parent entry not eligible for variants")

	// ErrServiceDegraded signals that an optional external service (assistant,
	// normalizer) was unavailable. Callers absorb it and fall back to the
	// manual flow; it never fails a submission on its own.
	ErrServiceDegraded = errors.New("external service degraded")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}
