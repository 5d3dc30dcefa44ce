package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"fardash/internal/dataprocessing"
	"fardash/internal/validation"
)

// Workbook is a register candidate found in the data directory.
type Workbook struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
	Sheets  []string
}

// Discovery lists workbooks under a base directory.
type Discovery struct {
	basePath string
	logger   *slog.Logger
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string, logger *slog.Logger) *Discovery {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discovery{
		basePath: basePath,
		logger:   logger.With(slog.String("component", "discovery")),
	}
}

// FindWorkbooks returns the .xlsx/.xlsm files directly under dir, sorted by
// name, with their sheet names. Office lock files are skipped. A workbook
// that cannot be opened is listed without sheets. A relative dir is taken
// from the base path.
func (d *Discovery) FindWorkbooks(dir string) ([]Workbook, error) {
	fullPath := dir
	if !filepath.IsAbs(dir) {
		fullPath = filepath.Join(d.basePath, dir)
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	workbooks := make([]Workbook, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !validation.IsWorkbookName(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}

		wb := Workbook{
			Path:    filepath.Join(fullPath, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}
		sheets, err := dataprocessing.ListSheets(wb.Path)
		if err != nil {
			d.logger.Warn("Unreadable workbook",
				slog.String("file", wb.Name),
				slog.String("error", err.Error()))
		}
		wb.Sheets = sheets
		workbooks = append(workbooks, wb)
	}

	sort.Slice(workbooks, func(i, j int) bool {
		return workbooks[i].Name < workbooks[j].Name
	})
	return workbooks, nil
}
