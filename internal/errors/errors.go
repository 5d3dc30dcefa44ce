package errors

import (
	"net/http"

	"github.com/go-chi/render"
)

// Error codes carried by APIError.
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeValidationFailed  = "VALIDATION_FAILED"
	CodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
)

// APIError is a transport-level error that already knows its HTTP status,
// such as a malformed body or an out-of-range query parameter.
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Render implements render.Renderer.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// ValidationError names one rejected request field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrRateLimitExceeded is returned to clients over their request budget.
var ErrRateLimitExceeded = &APIError{
	StatusCode: http.StatusTooManyRequests,
	ErrorCode:  CodeRateLimitExceeded,
	Message:    "Rate limit exceeded",
}

// InvalidRequestWithError reports a body that could not be decoded.
func InvalidRequestWithError(err error) *APIError {
	return &APIError{
		StatusCode: http.StatusBadRequest,
		ErrorCode:  CodeInvalidRequest,
		Message:    "Invalid request format",
		Details:    err.Error(),
	}
}

// ErrValidation reports a single invalid field.
func ErrValidation(field, message string) *APIError {
	return NewValidationErrors([]ValidationError{{Field: field, Message: message}})
}

// NewValidationErrors reports every invalid field of a request.
func NewValidationErrors(errs []ValidationError) *APIError {
	return &APIError{
		StatusCode: http.StatusBadRequest,
		ErrorCode:  CodeValidationFailed,
		Message:    "Request validation failed",
		Details:    errs,
	}
}
