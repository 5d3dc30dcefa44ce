package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// utf8BOM lets Excel recognize UTF-8 content.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	baseDir string
	logger  *slog.Logger
}

// NewCSVWriter creates a writer resolving relative paths against baseDir.
func NewCSVWriter(baseDir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{
		baseDir: baseDir,
		logger:  logger.With(slog.String("component", "csv_writer")),
	}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	Append    bool
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// Write encodes options to out.
func (w *CSVWriter) Write(out io.Writer, options WriteOptions) error {
	if options.BOMPrefix && !options.Append {
		if _, err := out.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(out)

	if !options.Append && len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	fullPath := w.resolvePath(filePath)

	w.logger.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if options.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(fullPath, flags, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}

	if err := w.Write(file, options); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteReport writes a report as a BOM-prefixed CSV file.
func (w *CSVWriter) WriteReport(filePath string, report Report) error {
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   report.Headers,
		Records:   report.Records,
		BOMPrefix: true,
	})
}

// resolvePath resolves a relative path against the export directory.
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) || w.baseDir == "" {
		return filePath
	}
	return filepath.Join(w.baseDir, filePath)
}
