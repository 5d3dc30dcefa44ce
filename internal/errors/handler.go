package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"runtime/debug"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"fardash/internal/dataprocessing"
	"fardash/internal/infrastructure"
)

// Problem types following RFC 7807
const (
	TypeValidation       = "/errors/validation"
	TypeNotFound         = "/errors/not-found"
	TypeMethodNotAllowed = "/errors/method-not-allowed"
	TypeRateLimit        = "/errors/rate-limit"
	TypeInternal         = "/errors/internal"
	TypeTimeout          = "/errors/timeout"
	TypeDataUnavailable  = "/errors/data/unavailable"
	TypeSessionNotFound  = "/errors/session/not-found"
)

// ErrorHandler provides centralized error handling
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
	}
}

// HandleError converts any error to RFC 7807 format and responds
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	problem := h.ErrorToProblem(err, r)
	level := slog.LevelWarn
	if problem.Status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(r.Context(), level, "request failed",
		slog.String("error", err.Error()),
		slog.Int("status", problem.Status),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	if traceID := infrastructure.GetTraceID(r.Context()); traceID != "" {
		problem.WithExtension("trace_id", traceID)
	}
	infrastructure.RecordError(r.Context(), err)
	_ = render.Render(w, r, problem)
}

// ErrorToProblem converts an error to RFC 7807 Problem Details
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	path := r.URL.Path

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewProblemDetails(http.StatusGatewayTimeout, TypeTimeout, "Request Timeout",
			"The request took too long to process and was cancelled", path)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErrorToProblem(apiErr, path)
	}

	var loadErr *dataprocessing.LoadError
	if errors.As(err, &loadErr) {
		return NewProblemDetails(http.StatusUnprocessableEntity, TypeDataUnavailable, "Data Unavailable",
			loadErr.Reason, path).
			WithExtension("file", filepath.Base(loadErr.Path)).
			WithExtension("sheet", loadErr.Sheet)
	}
	if errors.Is(err, dataprocessing.ErrDataUnavailable) {
		return NewProblemDetails(http.StatusUnprocessableEntity, TypeDataUnavailable, "Data Unavailable",
			err.Error(), path)
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return NewProblemDetails(http.StatusBadRequest, TypeValidation, "Validation Failed",
			"One or more fields are invalid", path).
			WithExtension("errors", FieldErrors(verrs))
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErrorToProblem(appErr, path)
	}

	return NewProblemDetails(http.StatusInternalServerError, TypeInternal, "Internal Server Error",
		"An unexpected error occurred while processing your request", path)
}

// FieldErrors converts validator output to field messages.
func FieldErrors(verrs validator.ValidationErrors) []ValidationError {
	out := make([]ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		msg := fmt.Sprintf("failed on '%s'", fe.Tag())
		if fe.Param() != "" {
			msg = fmt.Sprintf("failed on '%s=%s'", fe.Tag(), fe.Param())
		}
		out = append(out, ValidationError{Field: fe.Field(), Message: msg})
	}
	return out
}

func apiErrorToProblem(apiErr *APIError, path string) *ProblemDetails {
	problemType := TypeInternal
	switch apiErr.ErrorCode {
	case CodeInvalidRequest, CodeValidationFailed:
		problemType = TypeValidation
	case CodeRateLimitExceeded:
		problemType = TypeRateLimit
	}

	problem := NewProblemDetails(apiErr.StatusCode, problemType, http.StatusText(apiErr.StatusCode),
		apiErr.Message, path).WithExtension("error_code", apiErr.ErrorCode)
	if apiErr.Details != nil {
		problem.WithExtension("details", apiErr.Details)
	}
	return problem
}

func appErrorToProblem(appErr *AppError, path string) *ProblemDetails {
	var problem *ProblemDetails
	switch appErr.Type {
	case ErrTypeNotFound:
		problemType := TypeNotFound
		if appErr.Context["resource"] == "session" {
			problemType = TypeSessionNotFound
		}
		problem = NewProblemDetails(http.StatusNotFound, problemType, "Not Found", appErr.Message, path)
	case ErrTypeValidation:
		problem = NewProblemDetails(http.StatusBadRequest, TypeValidation, "Validation Failed", appErr.Message, path)
	default:
		problem = NewProblemDetails(http.StatusInternalServerError, TypeInternal, "Internal Server Error",
			"An unexpected error occurred while processing your request", path)
	}
	return problem.WithExtension("error_type", string(appErr.Type))
}

// HandlePanic recovers from panics and returns RFC 7807 error
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, recovered interface{}) {
	stack := string(debug.Stack())
	h.logger.ErrorContext(r.Context(), "panic recovered",
		slog.Any("panic", recovered),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("stack", stack),
	)

	problem := NewProblemDetails(http.StatusInternalServerError, TypeInternal, "Internal Server Error",
		"An unexpected error occurred", r.URL.Path)
	if traceID := infrastructure.GetTraceID(r.Context()); traceID != "" {
		problem.WithExtension("trace_id", traceID)
	}
	if h.includeStack {
		problem.WithExtension("panic", fmt.Sprintf("%v", recovered))
		problem.WithExtension("stack", stack)
	}
	_ = render.Render(w, r, problem)
}

// NotFound returns a standard 404 error
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	_ = render.Render(w, r, NewProblemDetails(http.StatusNotFound, TypeNotFound, "Not Found",
		"The requested resource was not found", r.URL.Path))
}

// MethodNotAllowed returns a standard 405 error
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	_ = render.Render(w, r, NewProblemDetails(http.StatusMethodNotAllowed, TypeMethodNotAllowed, "Method Not Allowed",
		fmt.Sprintf("Method %s is not allowed for this endpoint", r.Method), r.URL.Path))
}

// RecoveryMiddleware provides panic recovery with proper error responses
func RecoveryMiddleware(handler *ErrorHandler) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					handler.HandlePanic(w, r, rvr)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
