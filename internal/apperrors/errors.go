package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that a write lost a race against a concurrent write (stale version).
var ErrConflict = errors.New("resource was modified concurrently")

// ErrCorruptedData indicates a persisted record that no longer satisfies its schema.
// It is fatal for the read and never retried.
var ErrCorruptedData = errors.New("corrupted data")

// ErrRepositoryUnavailable indicates the repository timed out, or its circuit is open.
// This is the only error class that is eligible for retry.
var ErrRepositoryUnavailable = errors.New("repository unavailable")

// Conversion boundary errors.
var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidFactor = errors.New("invalid conversion factor")
)

// Execution errors.
var (
	ErrInvalidAccountType     = errors.New("invalid account type")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrMissingAccount         = errors.New("missing account")
	ErrInsufficientFunds      = errors.New("insufficient funds")
)

// ErrUnsupportedTransactionType is kept as an alias so either name matches with errors.Is.
var ErrUnsupportedTransactionType = ErrInvalidTransactionType

// AppError carries an explicit HTTP status alongside the underlying cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ValidationError is a structured validation failure with one detail entry per offending field.
type ValidationError struct {
	Message string
	Details []string
	// Cause is matched by errors.Is in addition to ErrValidation, e.g. ErrCorruptedData for the read profile.
	Cause error
}

// NewValidationError creates a ValidationError for request input.
func NewValidationError(message string, details ...string) *ValidationError {
	return &ValidationError{Message: message, Details: details}
}

// NewCorruptedDataError creates a ValidationError that matches ErrCorruptedData.
func NewCorruptedDataError(message string, details ...string) *ValidationError {
	return &ValidationError{Message: message, Details: details, Cause: ErrCorruptedData}
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Details, "; ")
}

// Is reports ErrValidation for request errors and the Cause for storage errors.
func (e *ValidationError) Is(target error) bool {
	if e.Cause != nil {
		return target == e.Cause
	}
	return target == ErrValidation
}
