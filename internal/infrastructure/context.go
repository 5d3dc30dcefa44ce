package infrastructure

import (
	"context"
	"log/slog"
)

type contextKey int

const (
	traceIDKey contextKey = iota
	sessionIDKey
)

// WithTraceID stores the request's trace ID.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// GetTraceID returns the trace ID stored in ctx, or "".
func GetTraceID(ctx context.Context) string {
	return stringValue(ctx, traceIDKey)
}

// WithSessionID stores the dashboard session a request operates on.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// GetSessionID returns the session ID stored in ctx, or "".
func GetSessionID(ctx context.Context) string {
	return stringValue(ctx, sessionIDKey)
}

func stringValue(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(key).(string)
	return v
}

// contextAttrs returns the request-scoped attributes every log record made
// with ctx should carry.
func contextAttrs(ctx context.Context) []slog.Attr {
	var attrs []slog.Attr
	if id := GetTraceID(ctx); id != "" {
		attrs = append(attrs, slog.String("trace_id", id))
	}
	if id := GetSessionID(ctx); id != "" {
		attrs = append(attrs, slog.String("session_id", id))
	}
	return attrs
}
