package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"fardash/pkg/contracts"
)

// SessionCounter reports how many sessions are held.
type SessionCounter interface {
	SessionCount() int
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	dataDir   string
	sessions  SessionCounter
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a health service. sessions may be nil before the
// dashboard service is wired.
func NewHealthService(version, buildTime, dataDir string, sessions SessionCounter, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "health_service"))
	logger.Info("HealthService initialized",
		slog.String("version", version),
		slog.String("data_dir", dataDir))

	return &HealthService{
		version:   version,
		buildTime: buildTime,
		dataDir:   dataDir,
		sessions:  sessions,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "HealthCheck: performing health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck reports whether the data directory and session registry
// are usable.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]interface{}{
			"data":     hs.checkDataHealth(),
			"sessions": hs.checkSessionHealth(),
		},
	}

	for name, service := range status.Services {
		if sh, ok := service.(ServiceHealth); ok && sh.Status != "ready" {
			status.Status = "not_ready"
			hs.logger.WarnContext(ctx, "Service not ready",
				slog.String("service", name),
				slog.String("message", sh.Message))
		}
	}
	return status
}

// LivenessCheck returns liveness status with runtime statistics.
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":         time.Since(hs.startTime).Seconds(),
			"go_version":     runtime.Version(),
			"goroutines":     runtime.NumGoroutine(),
			"heap_alloc":     mem.HeapAlloc,
			"gc_cycles":      mem.NumGC,
			"cpu_count":      runtime.NumCPU(),
			"sessions_total": hs.sessionCount(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	info := contracts.Info()
	result := map[string]interface{}{
		"version":     hs.version,
		"api_version": info.APIVersion,
		"git_commit":  info.GitCommit,
		"go_version":  info.GoVersion,
		"platform":    info.Platform,
		"uptime":      time.Since(hs.startTime).Seconds(),
		"start_time":  hs.startTime.Format(time.RFC3339),
	}
	if hs.buildTime != "" {
		result["build_time"] = hs.buildTime
	}
	return result
}

func (hs *HealthService) sessionCount() int {
	if hs.sessions == nil {
		return 0
	}
	return hs.sessions.SessionCount()
}

func (hs *HealthService) checkDataHealth() ServiceHealth {
	info, err := os.Stat(hs.dataDir)
	if err != nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: fmt.Sprintf("Data directory not accessible: %s", hs.dataDir),
		}
	}
	if !info.IsDir() {
		return ServiceHealth{
			Status:  "not_ready",
			Message: fmt.Sprintf("Data path is not a directory: %s", hs.dataDir),
		}
	}
	return ServiceHealth{Status: "ready", Message: "Data directory is accessible"}
}

func (hs *HealthService) checkSessionHealth() ServiceHealth {
	if hs.sessions == nil {
		return ServiceHealth{Status: "not_ready", Message: "session registry not initialized"}
	}
	return ServiceHealth{
		Status:  "ready",
		Message: fmt.Sprintf("%d sessions held", hs.sessions.SessionCount()),
	}
}
