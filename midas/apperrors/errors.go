package apperrors

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrValidation ErrorType = "VALIDATION_ERROR"
	ErrInvariant  ErrorType = "INVARIANT_VIOLATION"
	ErrTransient  ErrorType = "TRANSIENT_IO_ERROR"
	ErrNotFound   ErrorType = "NOT_FOUND"
	ErrConflict   ErrorType = "CONFLICT"
	ErrInternal   ErrorType = "INTERNAL_ERROR"
)

// AppError is the standard error struct for the application
type AppError struct {
	Type       ErrorType `json:"code"`
	Message    string    `json:"message"`
	Suggestion string    `json:"suggestion,omitempty"`
	Retryable  bool      `json:"-"`
	Cause      error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(errType ErrorType, msg string, cause error) *AppError {
	return &AppError{
		Type:       errType,
		Message:    msg,
		Cause:      cause,
		Retryable:  mapTypeToRetryable(errType),
		Suggestion: mapTypeToSuggestion(errType),
	}
}

// NewValidation flags caller-supplied input that fails a precondition,
// such as a non-positive amount or an unknown job name.
func NewValidation(msg string) *AppError {
	return New(ErrValidation, msg, nil)
}

// NewInvariant flags internal state that contradicts a documented
// invariant, such as a negative balance surfacing from storage.
func NewInvariant(msg string) *AppError {
	return New(ErrInvariant, msg, nil)
}

// NewTransient wraps a persistence or network failure that a caller
// may retry.
func NewTransient(msg string, cause error) *AppError {
	return New(ErrTransient, msg, cause)
}

func NewNotFound(msg string) *AppError {
	return New(ErrNotFound, msg, nil)
}

func NewConflict(msg string) *AppError {
	return New(ErrConflict, msg, nil)
}

func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return New(ErrInternal, err.Error(), err)
}

func IsValidation(err error) bool { return isType(err, ErrValidation) }
func IsInvariant(err error) bool  { return isType(err, ErrInvariant) }
func IsTransient(err error) bool  { return isType(err, ErrTransient) }
func IsNotFound(err error) bool   { return isType(err, ErrNotFound) }
func IsConflict(err error) bool   { return isType(err, ErrConflict) }

func isType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

func mapTypeToRetryable(t ErrorType) bool {
	switch t {
	case ErrTransient, ErrConflict:
		return true
	default:
		return false
	}
}

func mapTypeToSuggestion(t ErrorType) string {
	switch t {
	case ErrValidation:
		return "Check the request parameters."
	case ErrTransient:
		return "Retry the operation."
	case ErrConflict:
		return "Retry after the conflicting operation settles."
	default:
		return ""
	}
}
