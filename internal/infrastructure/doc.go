// Package infrastructure wires the process-wide logging and telemetry:
// the JSON slog logger with trace ID injection, the OpenTelemetry tracer and
// meter providers, and the Prometheus scrape handler.
package infrastructure
