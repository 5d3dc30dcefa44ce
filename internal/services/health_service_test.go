package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fardash/internal/shared/testutil"
)

type sessionCount int

func (c sessionCount) SessionCount() int { return int(c) }

func TestHealthService_ReadinessCheck(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		dataDir  string
		sessions SessionCounter
		want     string
	}{
		{"ready", dir, sessionCount(2), "ready"},
		{"missing data dir", filepath.Join(dir, "missing"), sessionCount(0), "not_ready"},
		{"no session registry", dir, nil, "not_ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			hs := NewHealthService("1.0.0", "", tt.dataDir, tt.sessions, logger)

			status := hs.ReadinessCheck(context.Background())

			assert.Equal(t, tt.want, status.Status)
			assert.Contains(t, status.Services, "data")
			assert.Contains(t, status.Services, "sessions")
		})
	}
}

func TestHealthService_Liveness(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hs := NewHealthService("1.0.0", "2026-01-01", t.TempDir(), sessionCount(3), logger)

	live := hs.LivenessCheck(context.Background())
	assert.Equal(t, "alive", live.Status)
	assert.Equal(t, 3, live.Runtime["sessions_total"])
	assert.Contains(t, live.Runtime, "goroutines")

	health := hs.HealthCheck(context.Background())
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "1.0.0", health.Version)

	v := hs.Version()
	require.Contains(t, v, "build_time")
	assert.Equal(t, "2026-01-01", v["build_time"])
	assert.Equal(t, "v1", v["api_version"])
}
