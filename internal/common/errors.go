// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Input errors.
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnknownCategory = errors.New("unknown category")

	// Predictor errors.
	ErrSchemaMismatch      = errors.New("feature schema mismatch")
	ErrArtifactUnavailable = errors.New("model artifact unavailable")
	ErrPredictionFailed    = errors.New("prediction failed")

	// Storage errors.
	ErrNotFound = errors.New("not found")

	// Configuration errors.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// FieldError reports a vehicle record field outside its declared domain.
type FieldError struct {
	Field  string
	Value  any
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid input: %s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidInput
}

// NewFieldError creates a field validation error.
func NewFieldError(field string, value any, reason string) error {
	return &FieldError{Field: field, Value: value, Reason: reason}
}

// CategoryError reports a categorical value with no vocabulary entry at
// encoding time. It is never degraded to a silent all-zero indicator row.
type CategoryError struct {
	Field string
	Value string
}

func (e *CategoryError) Error() string {
	return fmt.Sprintf("unknown category: %s %q has no vocabulary entry", e.Field, e.Value)
}

func (e *CategoryError) Unwrap() error {
	return ErrUnknownCategory
}

// SchemaError reports a disagreement between the feature vector produced at
// inference time and the column set the trained artifact expects.
type SchemaError struct {
	Missing []string
	Extra   []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("feature schema mismatch: %d missing, %d unexpected columns", len(e.Missing), len(e.Extra))
}

func (e *SchemaError) Unwrap() error {
	return ErrSchemaMismatch
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
