package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "fardash/internal/errors"
	"fardash/internal/validation"
)

// maxBodySize bounds JSON request bodies.
const maxBodySize = 1 << 20

// Validator decodes and validates request payloads using struct tags.
type Validator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// NewValidator creates a validator reporting JSON field names.
func NewValidator(logger *slog.Logger) *Validator {
	v := validator.New()

	_ = v.RegisterValidation("filename", isValidFilename)
	_ = v.RegisterValidation("workbook", isWorkbookName)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{
		validate: v,
		logger:   logger.With(slog.String("component", "validation")),
	}
}

// DecodeJSON reads an optional JSON body into dst and validates it. An empty
// body leaves dst at its zero value.
func (m *Validator) DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body != nil && r.ContentLength != 0 {
		dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
		dec.DisallowUnknownFields()
		if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
			return apierrors.InvalidRequestWithError(err)
		}
	}
	return m.ValidateStruct(dst)
}

// ValidateStruct validates a struct and returns validation errors
func (m *Validator) ValidateStruct(v interface{}) error {
	err := m.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apierrors.InvalidRequestWithError(err)
	}

	out := make([]apierrors.ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: formatValidationError(fe),
		})
	}
	m.logger.Debug("request validation failed", slog.Int("errors", len(out)))
	return apierrors.NewValidationErrors(out)
}

// QueryInt parses an integer query parameter within [min, max]. A missing
// parameter yields def.
func QueryInt(r *http.Request, param string, min, max, def int) (int, error) {
	value := r.URL.Query().Get(param)
	if value == "" {
		return def, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, apierrors.ErrValidation(param, fmt.Sprintf("%s must be a valid integer", param))
	}
	if n < min || n > max {
		return 0, apierrors.ErrValidation(param, fmt.Sprintf("%s must be between %d and %d", param, min, max))
	}
	return n, nil
}

// QueryFloat parses a non-negative number query parameter. A missing
// parameter yields def.
func QueryFloat(r *http.Request, param string, def float64) (float64, error) {
	value := r.URL.Query().Get(param)
	if value == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f < 0 {
		return 0, apierrors.ErrValidation(param, fmt.Sprintf("%s must be a non-negative number", param))
	}
	return f, nil
}

func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "filename":
		return fmt.Sprintf("%s must be a plain file name", field)
	case "workbook":
		return fmt.Sprintf("%s must be an .xlsx or .xlsm workbook", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

// isValidFilename rejects names that could escape the data directory.
func isValidFilename(fl validator.FieldLevel) bool {
	filename := fl.Field().String()
	if filename == "" || len(filename) > 255 {
		return false
	}
	return !strings.Contains(filename, "..") && !strings.ContainsAny(filename, `/\`)
}

func isWorkbookName(fl validator.FieldLevel) bool {
	return validation.IsWorkbookName(fl.Field().String())
}
