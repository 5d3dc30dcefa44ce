package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fardash/internal/dataprocessing"
	"fardash/internal/infrastructure"
	"fardash/internal/shared/testutil"
)

func TestErrorHandler_ErrorToProblem(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)
	req := httptest.NewRequest(http.MethodGet, "/api/sessions/x", nil)

	type payload struct {
		Q string `validate:"required"`
	}
	verr := validator.New().Struct(payload{})

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"load error", &dataprocessing.LoadError{Path: "/data/a.xlsx", Sheet: "FAR", Reason: "sheet not found"}, http.StatusUnprocessableEntity, TypeDataUnavailable},
		{"wrapped data unavailable", fmt.Errorf("open: %w", dataprocessing.ErrDataUnavailable), http.StatusUnprocessableEntity, TypeDataUnavailable},
		{"session not found", fmt.Errorf("get: %w", NewNotFoundError("session")), http.StatusNotFound, TypeSessionNotFound},
		{"validation", verr, http.StatusBadRequest, TypeValidation},
		{"api error", ErrValidation("q", "required"), http.StatusBadRequest, TypeValidation},
		{"report not found", NewNotFoundError("report"), http.StatusNotFound, TypeNotFound},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout, TypeTimeout},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, TypeInternal},
		{"storage", NewStorageError("disk full", nil), http.StatusInternalServerError, TypeInternal},
		{"service validation", NewAppValidationError("bad params"), http.StatusBadRequest, TypeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := h.ErrorToProblem(tt.err, req)
			assert.Equal(t, tt.wantStatus, p.Status)
			assert.Equal(t, tt.wantType, p.Type)
			assert.Equal(t, "/api/sessions/x", p.Instance)
		})
	}
}

func TestErrorHandler_HandleError(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)

	req := httptest.NewRequest(http.MethodPost, "/api/sessions", nil)
	req = req.WithContext(infrastructure.WithTraceID(req.Context(), "trace-1"))
	rec := httptest.NewRecorder()

	h.HandleError(rec, req, &dataprocessing.LoadError{Path: "/srv/data/assets.xlsx", Sheet: "FAR", Reason: "sheet not found"})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "sheet not found", body["detail"])
	assert.Equal(t, "assets.xlsx", body["file"], "server paths are not leaked")
	assert.Equal(t, "trace-1", body["trace_id"])
	assert.Len(t, logs.Records(), 1)
}

func TestRecoveryMiddleware(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, true)

	handler := RecoveryMiddleware(h)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "kaboom", body["panic"])
	assert.Contains(t, body, "stack")
	assert.NotEmpty(t, logs.RecordsAt(slog.LevelError))
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	p := NewProblemDetails(http.StatusNotFound, TypeNotFound, "Not Found", "", "/x").
		WithExtension("type", "ignored").
		WithExtension("session", "abc")

	data, err := json.Marshal(p)
	require.NoError(t, err)

	assert.JSONEq(t, `{"type":"/errors/not-found","title":"Not Found","status":404,"instance":"/x","session":"abc"}`, string(data))
}
