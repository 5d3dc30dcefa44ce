package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"fardash/internal/config"
	"fardash/pkg/contracts"
)

// MeterName is the instrumentation scope of the HTTP and session metrics.
const MeterName = "fardash"

// OTelProviders holds the OpenTelemetry providers
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	PrometheusHTTP http.Handler
	Logger         *slog.Logger
}

// InitializeOTel installs the global tracer and meter providers. Disabled
// signals get no-op implementations so callers never check for nil.
func InitializeOTel(cfg config.TelemetryConfig, logger *slog.Logger) (*OTelProviders, error) {
	ctx := context.Background()
	providers := &OTelProviders{
		Tracer: tracenoop.NewTracerProvider().Tracer(MeterName),
		Meter:  noop.NewMeterProvider().Meter(MeterName),
		Logger: logger,
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(contracts.Version),
		attribute.String("service.instance.id", instanceID()),
	)

	if cfg.EnableTracing {
		opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
		if cfg.TraceToConsole {
			exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
			if err != nil {
				return nil, fmt.Errorf("failed to create trace exporter: %w", err)
			}
			opts = append(opts, sdktrace.WithBatcher(exporter))
		}
		tp := sdktrace.NewTracerProvider(opts...)
		providers.TracerProvider = tp
		providers.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(contracts.Version))
		otel.SetTracerProvider(tp)
	}

	if cfg.EnableMetrics {
		exporter, err := prometheus.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
		}
		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(exporter),
		)
		providers.MeterProvider = mp
		providers.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(contracts.Version))
		providers.PrometheusHTTP = promhttp.Handler()
		otel.SetMeterProvider(mp)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.InfoContext(ctx, "OpenTelemetry initialized",
		slog.String("service", cfg.ServiceName),
		slog.Bool("tracing_enabled", cfg.EnableTracing),
		slog.Bool("metrics_enabled", cfg.EnableMetrics))

	return providers, nil
}

// DashboardMetrics holds the HTTP and session instruments.
type DashboardMetrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter

	SessionsCreated metric.Int64Counter
	SessionsActive  metric.Int64UpDownCounter
	SessionsEvicted metric.Int64Counter
	ExportsTotal    metric.Int64Counter
}

// NewDashboardMetrics registers the dashboard instruments on meter.
func NewDashboardMetrics(meter metric.Meter) (*DashboardMetrics, error) {
	var (
		m    DashboardMetrics
		err  error
		errs []error
	)
	collect := func(e error) {
		if e != nil {
			errs = append(errs, e)
		}
	}

	m.HTTPRequestsTotal, err = meter.Int64Counter("http_requests_total",
		metric.WithDescription("Total number of HTTP requests"))
	collect(err)
	m.HTTPRequestDuration, err = meter.Float64Histogram("http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"))
	collect(err)
	m.HTTPActiveRequests, err = meter.Int64UpDownCounter("http_active_requests",
		metric.WithDescription("Number of active HTTP requests"))
	collect(err)
	m.SessionsCreated, err = meter.Int64Counter("dashboard_sessions_created_total",
		metric.WithDescription("Total number of register sessions created"))
	collect(err)
	m.SessionsActive, err = meter.Int64UpDownCounter("dashboard_sessions_active",
		metric.WithDescription("Number of loaded register sessions"))
	collect(err)
	m.SessionsEvicted, err = meter.Int64Counter("dashboard_sessions_evicted_total",
		metric.WithDescription("Sessions removed by expiry or capacity"))
	collect(err)
	m.ExportsTotal, err = meter.Int64Counter("dashboard_exports_total",
		metric.WithDescription("Total number of report exports"))
	collect(err)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &m, nil
}

// Shutdown gracefully shuts down OpenTelemetry providers
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var errs []error

	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}
	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	p.Logger.InfoContext(ctx, "OpenTelemetry shutdown complete")
	return nil
}

func instanceID() string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("%s-%d", hostname, time.Now().Unix())
}

// RecordError records an error on the current span
func RecordError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
