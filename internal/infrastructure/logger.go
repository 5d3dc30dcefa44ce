package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"fardash/internal/config"
)

var (
	globalLogger     *slog.Logger
	globalLoggerOnce sync.Once
	globalLogFile    *os.File
	logFileMu        sync.Mutex
)

// InitializeLogger creates the application-wide JSON logger and installs it
// as the slog default. Only the first call has any effect.
func InitializeLogger(cfg config.LoggingConfig) (*slog.Logger, error) {
	var err error
	globalLoggerOnce.Do(func() {
		var out io.Writer
		out, err = logOutput(cfg)
		if err != nil {
			return
		}
		globalLogger = NewLogger(out, cfg.Level)
		slog.SetDefault(globalLogger)
	})
	return globalLogger, err
}

// NewLogger builds a JSON logger writing to out that stamps records with the
// trace and session IDs found in their context.
func NewLogger(out io.Writer, level string) *slog.Logger {
	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		AddSource: true,
		Level:     ParseLogLevel(level),
	})
	return slog.New(&contextHandler{Handler: handler})
}

// GetLogger returns the global logger instance.
// If not initialized, returns the default slog logger.
func GetLogger() *slog.Logger {
	if globalLogger == nil {
		return slog.Default()
	}
	return globalLogger
}

func logOutput(cfg config.LoggingConfig) (io.Writer, error) {
	switch strings.ToLower(cfg.Output) {
	case "file", "both":
		file, err := openLogFile(cfg.FilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		logFileMu.Lock()
		globalLogFile = file
		logFileMu.Unlock()
		if cfg.Output == "file" {
			return file, nil
		}
		return io.MultiWriter(os.Stdout, file), nil
	default:
		return os.Stdout, nil
	}
}

// contextHandler stamps records with the trace and session IDs found in
// their context.
type contextHandler struct {
	slog.Handler
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(contextAttrs(ctx)...)
	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name)}
}

// ParseLogLevel converts a level name to slog.Level, defaulting to info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// CloseLogFile closes the global log file if open.
func CloseLogFile() error {
	logFileMu.Lock()
	defer logFileMu.Unlock()

	if globalLogFile != nil {
		err := globalLogFile.Close()
		globalLogFile = nil
		return err
	}
	return nil
}

// ResetLoggerForTesting resets the global logger state.
func ResetLoggerForTesting() {
	_ = CloseLogFile()
	globalLogger = nil
	globalLoggerOnce = sync.Once{}
}

func openLogFile(filePath string) (*os.File, error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", filePath, err)
	}
	return file, nil
}
