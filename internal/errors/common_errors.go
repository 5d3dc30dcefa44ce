package errors

import (
	"fmt"
)

// ErrorType classifies an AppError for the problem mapping.
type ErrorType string

const (
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeStorage    ErrorType = "STORAGE"
)

// AppError is a service-level failure. Context carries structured details
// such as the kind of resource that was not found.
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext sets a context value and returns e.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewNotFoundError reports a missing session, asset or report. The resource
// name is kept in Context["resource"].
func NewNotFoundError(resource string) *AppError {
	return (&AppError{Type: ErrTypeNotFound, Message: resource + " not found"}).
		WithContext("resource", resource)
}

// NewStorageError reports a failed write under the export directory.
func NewStorageError(message string, cause error) *AppError {
	return &AppError{Type: ErrTypeStorage, Message: message, Cause: cause}
}

// NewAppValidationError reports a request the service cannot act on.
func NewAppValidationError(message string) *AppError {
	return &AppError{Type: ErrTypeValidation, Message: message}
}
