package errors

import (
	stderrors "errors"
	"fmt"
)

// Application error types organized by category for better error handling

type ErrorType int

// Domain/Business Logic Errors - errors related to business rules and validation
const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeValidation
	ErrorTypeNotFound
	ErrorTypeRateLimit
	ErrorTypeUnauthorized

	// Infrastructure Errors - errors related to external systems and services
	ErrorTypeDatabase
	ErrorTypeExternalAPI

	// System/Configuration Errors - errors related to system setup and configuration
	ErrorTypeConfiguration
)

// String returns the string representation of error type
func (e ErrorType) String() string {
	switch e {
	case ErrorTypeValidation:
		return "VALIDATION_ERROR"
	case ErrorTypeNotFound:
		return "NOT_FOUND_ERROR"
	case ErrorTypeRateLimit:
		return "RATE_LIMIT_ERROR"
	case ErrorTypeUnauthorized:
		return "UNAUTHORIZED_ERROR"
	case ErrorTypeDatabase:
		return "DATABASE_ERROR"
	case ErrorTypeExternalAPI:
		return "EXTERNAL_API_ERROR"
	case ErrorTypeConfiguration:
		return "CONFIGURATION_ERROR"
	default:
		return "UNKNOWN_ERROR"
	}
}

// Short aliases used across adapters
const (
	ValidationError    = ErrorTypeValidation
	NotFoundError      = ErrorTypeNotFound
	RateLimitError     = ErrorTypeRateLimit
	UnauthorizedError  = ErrorTypeUnauthorized
	DatabaseError      = ErrorTypeDatabase
	ExternalAPIError   = ErrorTypeExternalAPI
	ConfigurationError = ErrorTypeConfiguration
)

// AppError carries a classified error. Fields holds per-field validation
// messages keyed by request field name.
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Fields  map[string]string
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type.String(), e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type.String(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// HasFields reports whether the error carries field-level details
func (e *AppError) HasFields() bool {
	return len(e.Fields) > 0
}

func New(errorType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
	}
}

func Wrap(errorType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// Domain/Business Logic Error Constructors
func NewValidationError(message string) *AppError {
	return New(ValidationError, message)
}

// NewFieldValidationError builds a validation error with per-field messages
func NewFieldValidationError(fields map[string]string) *AppError {
	return &AppError{
		Type:    ValidationError,
		Message: "Validation failed",
		Fields:  fields,
	}
}

func NewNotFoundError(message string) *AppError {
	return New(NotFoundError, message)
}

func NewRateLimitError(message string) *AppError {
	return New(RateLimitError, message)
}

func NewUnauthorizedError() *AppError {
	return New(UnauthorizedError, "Unauthorized")
}

// Infrastructure Error Constructors
func NewDatabaseError(message string, cause error) *AppError {
	return Wrap(DatabaseError, message, cause)
}

func NewExternalAPIError(message string, cause error) *AppError {
	return Wrap(ExternalAPIError, message, cause)
}

// System/Configuration Error Constructors
func NewConfigurationError(message string, cause error) *AppError {
	return Wrap(ConfigurationError, message, cause)
}

// Helper functions for error type checking
func isType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

func IsNotFoundError(err error) bool {
	return isType(err, NotFoundError)
}

func IsValidationError(err error) bool {
	return isType(err, ValidationError)
}

func IsRateLimitError(err error) bool {
	return isType(err, RateLimitError)
}

func IsUnauthorizedError(err error) bool {
	return isType(err, UnauthorizedError)
}

func IsDatabaseError(err error) bool {
	return isType(err, DatabaseError)
}

func IsConfigurationError(err error) bool {
	return isType(err, ConfigurationError)
}
