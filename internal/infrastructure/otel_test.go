package infrastructure

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"fardash/internal/config"
)

func TestInitializeOTel_Disabled(t *testing.T) {
	p, err := InitializeOTel(config.TelemetryConfig{ServiceName: "test"}, slog.Default())
	require.NoError(t, err)

	assert.Nil(t, p.TracerProvider)
	assert.Nil(t, p.MeterProvider)
	assert.Nil(t, p.PrometheusHTTP)
	assert.NotNil(t, p.Tracer)
	assert.NotNil(t, p.Meter)
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestInitializeOTel_Enabled(t *testing.T) {
	p, err := InitializeOTel(config.TelemetryConfig{ServiceName: "test", EnableTracing: true, EnableMetrics: true}, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })

	assert.NotNil(t, p.TracerProvider)
	assert.NotNil(t, p.MeterProvider)
	assert.NotNil(t, p.PrometheusHTTP)

	m, err := NewDashboardMetrics(p.Meter)
	require.NoError(t, err)
	m.SessionsCreated.Add(context.Background(), 1)
}

func TestNewDashboardMetrics_Noop(t *testing.T) {
	m, err := NewDashboardMetrics(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)
	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.ExportsTotal)
}
