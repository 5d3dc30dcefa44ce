package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"fardash/internal/services"
)

// HealthServiceInterface defines the health checks served over HTTP.
type HealthServiceInterface interface {
	HealthCheck(ctx context.Context) services.HealthStatus
	ReadinessCheck(ctx context.Context) services.HealthStatus
	LivenessCheck(ctx context.Context) services.HealthStatus
	Version() map[string]interface{}
}

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	service HealthServiceInterface
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service HealthServiceInterface, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "health")),
	}
}

// HealthCheck handles GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.HealthCheck(r.Context()))
}

// ReadinessCheck handles GET /api/health/ready. A not-ready service answers
// 503 so orchestrators stop routing to it.
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	status := h.service.ReadinessCheck(r.Context())
	if status.Status != "ready" {
		h.logger.WarnContext(r.Context(), "readiness check failed", slog.Any("services", status.Services))
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, status)
}

// LivenessCheck handles GET /api/health/live
func (h *HealthHandler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.LivenessCheck(r.Context()))
}

// Version handles GET /api/version
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Version())
}
