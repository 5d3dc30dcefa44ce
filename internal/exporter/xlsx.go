package exporter

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"fardash/internal/dataprocessing"
)

// maxSheetName is Excel's limit on sheet name length.
const maxSheetName = 31

// Sheet is one worksheet to write.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
}

// TableSheet converts a processed table to a sheet.
func TableSheet(name string, t *dataprocessing.Table) Sheet {
	rows := make([][]interface{}, len(t.Rows))
	for i, row := range t.Rows {
		values := make([]interface{}, len(row))
		for j, c := range row {
			values[j] = c.Value()
		}
		rows[i] = values
	}
	return Sheet{Name: name, Headers: append([]string(nil), t.Columns...), Rows: rows}
}

// ReportSheet converts a string report to a sheet.
func ReportSheet(r Report) Sheet {
	rows := make([][]interface{}, len(r.Records))
	for i, rec := range r.Records {
		values := make([]interface{}, len(rec))
		for j, v := range rec {
			values[j] = v
		}
		rows[i] = values
	}
	return Sheet{Name: r.Name, Headers: r.Headers, Rows: rows}
}

// XLSXWriter writes sheets to an Excel workbook.
type XLSXWriter struct {
	logger *slog.Logger
}

// NewXLSXWriter creates a workbook writer.
func NewXLSXWriter(logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXWriter{logger: logger.With(slog.String("component", "xlsx_writer"))}
}

// Write encodes sheets as a workbook to out.
func (w *XLSXWriter) Write(out io.Writer, sheets ...Sheet) error {
	f, err := w.build(sheets)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Save writes sheets as a workbook file at path.
func (w *XLSXWriter) Save(path string, sheets ...Sheet) error {
	f, err := w.build(sheets)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	w.logger.Info("Workbook saved",
		slog.String("file", path),
		slog.Int("sheets", len(sheets)))
	return nil
}

func (w *XLSXWriter) build(sheets []Sheet) (*excelize.File, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets to write")
	}

	f := excelize.NewFile()
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, sheet := range sheets {
		name := sheetName(sheet.Name, i)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to name sheet %q: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to add sheet %q: %w", name, err)
		}

		if err := writeSheet(f, name, sheet, headerStyle); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func writeSheet(f *excelize.File, name string, sheet Sheet, headerStyle int) error {
	sw, err := f.NewStreamWriter(name)
	if err != nil {
		return fmt.Errorf("failed to open stream for %q: %w", name, err)
	}

	header := make([]interface{}, len(sheet.Headers))
	for i, h := range sheet.Headers {
		header[i] = h
	}
	if err := sw.SetRow("A1", header, excelize.RowOpts{StyleID: headerStyle}); err != nil {
		return fmt.Errorf("failed to write header of %q: %w", name, err)
	}

	for i, row := range sheet.Rows {
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = cellValue(v)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("failed to write row %d of %q: %w", i+2, name, err)
		}
	}
	return sw.Flush()
}

func sheetName(name string, index int) string {
	if name == "" {
		return fmt.Sprintf("Sheet%d", index+1)
	}
	r := []rune(name)
	if len(r) > maxSheetName {
		r = r[:maxSheetName]
	}
	return string(r)
}
