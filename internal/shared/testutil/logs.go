package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

// LogRecord is one captured log call. Attrs holds the record's own
// attributes merged over those added with Logger.With, keyed by their
// group-qualified name ("component", "request.method").
type LogRecord struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

type logStore struct {
	mu      sync.Mutex
	records []LogRecord
}

// BufferedSlogHandler records every log call in memory. Handlers derived
// with WithAttrs or WithGroup share the parent's records.
type BufferedSlogHandler struct {
	store  *logStore
	attrs  map[string]any
	prefix string
	t      *testing.T
}

// NewBufferedSlogHandler creates an empty handler. When t is non-nil each
// record is also written to the test log.
func NewBufferedSlogHandler(t *testing.T) *BufferedSlogHandler {
	return &BufferedSlogHandler{store: &logStore{}, attrs: map[string]any{}, t: t}
}

// NewTestLogger returns a logger backed by a fresh BufferedSlogHandler.
func NewTestLogger(t *testing.T) (*slog.Logger, *BufferedSlogHandler) {
	h := NewBufferedSlogHandler(t)
	return slog.New(h), h
}

func (h *BufferedSlogHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *BufferedSlogHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for k, v := range h.attrs {
		attrs[k] = v
	}
	r.Attrs(func(a slog.Attr) bool {
		flatten(attrs, h.prefix, a)
		return true
	})

	h.store.mu.Lock()
	h.store.records = append(h.store.records, LogRecord{
		Time:    r.Time,
		Level:   r.Level,
		Message: r.Message,
		Attrs:   attrs,
	})
	h.store.mu.Unlock()

	if h.t != nil {
		h.t.Logf("[%s] %s %v", r.Level, r.Message, attrs)
	}
	return nil
}

func (h *BufferedSlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.clone()
	for _, a := range attrs {
		flatten(next.attrs, h.prefix, a)
	}
	return next
}

func (h *BufferedSlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := h.clone()
	next.prefix = h.prefix + name + "."
	return next
}

func (h *BufferedSlogHandler) clone() *BufferedSlogHandler {
	attrs := make(map[string]any, len(h.attrs))
	for k, v := range h.attrs {
		attrs[k] = v
	}
	return &BufferedSlogHandler{store: h.store, attrs: attrs, prefix: h.prefix, t: h.t}
}

func flatten(dst map[string]any, prefix string, a slog.Attr) {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p += a.Key + "."
		}
		for _, ga := range v.Group() {
			flatten(dst, p, ga)
		}
		return
	}
	dst[prefix+a.Key] = v.Any()
}

// Records returns a copy of everything captured so far.
func (h *BufferedSlogHandler) Records() []LogRecord {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	return append([]LogRecord(nil), h.store.records...)
}

// RecordsAt returns the records logged at exactly level.
func (h *BufferedSlogHandler) RecordsAt(level slog.Level) []LogRecord {
	var out []LogRecord
	for _, r := range h.Records() {
		if r.Level == level {
			out = append(out, r)
		}
	}
	return out
}

// ContainsMessage reports whether any record's message contains msg.
func (h *BufferedSlogHandler) ContainsMessage(msg string) bool {
	for _, r := range h.Records() {
		if strings.Contains(r.Message, msg) {
			return true
		}
	}
	return false
}

// ContainsAttr reports whether any record carries key with value.
func (h *BufferedSlogHandler) ContainsAttr(key string, value any) bool {
	for _, r := range h.Records() {
		if v, ok := r.Attrs[key]; ok && v == value {
			return true
		}
	}
	return false
}

// Reset drops every captured record.
func (h *BufferedSlogHandler) Reset() {
	h.store.mu.Lock()
	h.store.records = nil
	h.store.mu.Unlock()
}

// AssertLogContains fails t unless a record at level contains msg.
func AssertLogContains(t *testing.T, h *BufferedSlogHandler, level slog.Level, msg string) {
	t.Helper()
	records := h.RecordsAt(level)
	for _, r := range records {
		if strings.Contains(r.Message, msg) {
			return
		}
	}
	t.Errorf("no %s record containing %q", level, msg)
	for _, r := range records {
		t.Logf("  %s: %s", level, r.Message)
	}
}

// AssertNoErrors fails t for every record logged at ERROR.
func AssertNoErrors(t *testing.T, h *BufferedSlogHandler) {
	t.Helper()
	for _, r := range h.RecordsAt(slog.LevelError) {
		t.Errorf("unexpected error log: %s %v", r.Message, r.Attrs)
	}
}
