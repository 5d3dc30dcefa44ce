package http

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fardash/internal/services"
	"fardash/internal/shared/testutil"
)

type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) HealthCheck(ctx context.Context) services.HealthStatus {
	return m.Called(ctx).Get(0).(services.HealthStatus)
}

func (m *MockHealthService) ReadinessCheck(ctx context.Context) services.HealthStatus {
	return m.Called(ctx).Get(0).(services.HealthStatus)
}

func (m *MockHealthService) LivenessCheck(ctx context.Context) services.HealthStatus {
	return m.Called(ctx).Get(0).(services.HealthStatus)
}

func (m *MockHealthService) Version() map[string]interface{} {
	return m.Called().Get(0).(map[string]interface{})
}

func TestHealthHandler(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		setup      func(*MockHealthService)
		handler    func(*HealthHandler) http.HandlerFunc
		wantStatus int
		wantField  string
		wantValue  string
	}{
		{
			name: "health",
			setup: func(m *MockHealthService) {
				m.On("HealthCheck", mock.Anything).Return(services.HealthStatus{Status: "ok", Timestamp: now, Version: "1.0.0"})
			},
			handler:    func(h *HealthHandler) http.HandlerFunc { return h.HealthCheck },
			wantStatus: http.StatusOK,
			wantField:  "status",
			wantValue:  "ok",
		},
		{
			name: "ready",
			setup: func(m *MockHealthService) {
				m.On("ReadinessCheck", mock.Anything).Return(services.HealthStatus{Status: "ready", Timestamp: now})
			},
			handler:    func(h *HealthHandler) http.HandlerFunc { return h.ReadinessCheck },
			wantStatus: http.StatusOK,
			wantField:  "status",
			wantValue:  "ready",
		},
		{
			name: "not ready",
			setup: func(m *MockHealthService) {
				m.On("ReadinessCheck", mock.Anything).Return(services.HealthStatus{
					Status:   "not_ready",
					Services: map[string]interface{}{"data": services.ServiceHealth{Status: "not_ready"}},
				})
			},
			handler:    func(h *HealthHandler) http.HandlerFunc { return h.ReadinessCheck },
			wantStatus: http.StatusServiceUnavailable,
			wantField:  "status",
			wantValue:  "not_ready",
		},
		{
			name: "live",
			setup: func(m *MockHealthService) {
				m.On("LivenessCheck", mock.Anything).Return(services.HealthStatus{Status: "alive"})
			},
			handler:    func(h *HealthHandler) http.HandlerFunc { return h.LivenessCheck },
			wantStatus: http.StatusOK,
			wantField:  "status",
			wantValue:  "alive",
		},
		{
			name: "version",
			setup: func(m *MockHealthService) {
				m.On("Version").Return(map[string]interface{}{"version": "1.0.0"})
			},
			handler:    func(h *HealthHandler) http.HandlerFunc { return h.Version },
			wantStatus: http.StatusOK,
			wantField:  "version",
			wantValue:  "1.0.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockHealthService)
			tt.setup(svc)
			logger, _ := testutil.NewTestLogger(t)
			h := NewHealthHandler(svc, logger)

			rec := serve(tt.handler(h), http.MethodGet, "/api/health", "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantValue, body[tt.wantField])
			svc.AssertExpectations(t)
		})
	}
}
