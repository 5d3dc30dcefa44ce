package dataprocessing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"fardash/internal/validation"
)

// DefaultHeaderRow is the 1-based row holding column labels. The register
// export carries a title row above the header.
const DefaultHeaderRow = 2

// ErrDataUnavailable is returned when a workbook, its sheet, or its data rows
// cannot be found.
var ErrDataUnavailable = errors.New("data unavailable")

// Source identifies the worksheet a table is loaded from.
type Source struct {
	Path      string `json:"file"`
	Sheet     string `json:"sheet"`
	HeaderRow int    `json:"header_row"`
}

// LoadError describes why a source could not be loaded. It matches
// ErrDataUnavailable with errors.Is.
type LoadError struct {
	Path   string
	Sheet  string
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("load %s", e.Path)
	if e.Sheet != "" {
		msg += fmt.Sprintf(" [%s]", e.Sheet)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDataUnavailable}
	}
	return []error{ErrDataUnavailable, e.Err}
}

// Loader reads a worksheet into a Table.
type Loader struct {
	validator *validation.FileValidator
	logger    *slog.Logger
}

// NewLoader creates a workbook loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		validator: validation.NewFileValidator(logger),
		logger:    logger.With(slog.String("component", "loader")),
	}
}

// Load opens src and returns its data rows as text cells, keyed by the labels
// found on the header row. An empty sheet name selects the first sheet.
func (l *Loader) Load(ctx context.Context, src Source) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if src.HeaderRow <= 0 {
		src.HeaderRow = DefaultHeaderRow
	}

	if err := l.validator.ValidateWorkbook(src.Path); err != nil {
		return nil, &LoadError{Path: src.Path, Sheet: src.Sheet, Reason: "invalid workbook", Err: err}
	}

	f, err := excelize.OpenFile(src.Path, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &LoadError{Path: src.Path, Sheet: src.Sheet, Reason: "failed to open file", Err: err}
	}
	defer f.Close()

	sheet, ok := findSheet(f.GetSheetList(), src.Sheet)
	if !ok {
		l.logger.Warn("Sheet not found",
			slog.String("file", src.Path),
			slog.String("sheet", src.Sheet),
			slog.Any("available", f.GetSheetList()))
		return nil, &LoadError{Path: src.Path, Sheet: src.Sheet, Reason: "sheet not found"}
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &LoadError{Path: src.Path, Sheet: sheet, Reason: "failed to read rows", Err: err}
	}
	if len(rows) <= src.HeaderRow {
		return nil, &LoadError{Path: src.Path, Sheet: sheet, Reason: "sheet has no data rows"}
	}

	header := rows[src.HeaderRow-1]
	data := rows[src.HeaderRow:]

	width := len(header)
	for _, row := range data {
		if len(row) > width {
			width = len(row)
		}
	}

	columns := make([]string, width)
	copy(columns, header)

	cells := make([][]Cell, len(data))
	for i, row := range data {
		out := make([]Cell, width)
		for j, raw := range row {
			out[j] = Text(raw)
		}
		cells[i] = out
	}

	l.logger.Info("Workbook loaded",
		slog.String("file", src.Path),
		slog.String("sheet", sheet),
		slog.Int("header_row", src.HeaderRow),
		slog.Int("rows", len(cells)),
		slog.Int("columns", width))

	return NewTable(columns, cells), nil
}

// ListSheets returns the sheet names of a workbook in tab order.
func ListSheets(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

func findSheet(sheets []string, want string) (string, bool) {
	if len(sheets) == 0 {
		return "", false
	}
	if want == "" {
		return sheets[0], true
	}
	for _, s := range sheets {
		if s == want {
			return s, true
		}
	}
	return "", false
}
