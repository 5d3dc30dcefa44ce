package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrFileNotFound is returned when a workbook path does not exist.
	ErrFileNotFound = errors.New("file not found")
	// ErrNotWorkbook is returned for paths that are not spreadsheet workbooks.
	ErrNotWorkbook = errors.New("not a workbook")
	// ErrLockFile is returned for Office owner/lock files (~$name.xlsx).
	ErrLockFile = errors.New("office lock file")
)

// WorkbookExtensions lists the spreadsheet formats the loader can open.
var WorkbookExtensions = []string{".xlsx", ".xlsm"}

// FileValidator checks input and output paths before they are used.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger.With(slog.String("component", "file_validator")),
	}
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return fmt.Errorf("%s: %w", path, ErrFileNotFound)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		v.logger.Error("Path is not a regular file",
			slog.String("path", path))
		return fmt.Errorf("%s is not a regular file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// IsWorkbookName reports whether name looks like a loadable workbook. Lock
// files are rejected.
func IsWorkbookName(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, "~$") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(base))
	for _, allowed := range WorkbookExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// ValidateWorkbook checks that path is an existing, readable workbook.
func (v *FileValidator) ValidateWorkbook(path string) error {
	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") {
		v.logger.Warn("Skipping temporary Excel file",
			slog.String("file", path))
		return fmt.Errorf("%s: %w", path, ErrLockFile)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !IsWorkbookName(base) {
		v.logger.Error("File is not an Excel workbook",
			slog.String("file", path),
			slog.String("extension", ext))
		return fmt.Errorf("%s (extension %q): %w", path, ext, ErrNotWorkbook)
	}

	return v.ValidateFile(path)
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}
