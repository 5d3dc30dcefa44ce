package dataprocessing

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CellKind tags the value held by a Cell.
type CellKind uint8

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	CellDate
)

func (k CellKind) String() string {
	switch k {
	case CellText:
		return "text"
	case CellNumber:
		return "number"
	case CellDate:
		return "date"
	default:
		return "empty"
	}
}

// Cell is a single worksheet value. Only the field matching Kind is meaningful.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Date   time.Time
}

// Empty returns a cell holding no value.
func Empty() Cell { return Cell{} }

// Text returns a text cell. Blank strings become empty cells.
func Text(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return Cell{}
	}
	return Cell{Kind: CellText, Text: s}
}

// Number returns a numeric cell.
func Number(f float64) Cell { return Cell{Kind: CellNumber, Number: f} }

// Date returns a date cell.
func Date(t time.Time) Cell { return Cell{Kind: CellDate, Date: t} }

// IsEmpty reports whether the cell holds no value.
func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty || (c.Kind == CellText && strings.TrimSpace(c.Text) == "")
}

// Float returns the numeric value and whether the cell is a number.
func (c Cell) Float() (float64, bool) {
	if c.Kind != CellNumber {
		return 0, false
	}
	return c.Number, true
}

// String renders the cell the way it would be written to a report.
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellDate:
		if c.Date.Hour() == 0 && c.Date.Minute() == 0 && c.Date.Second() == 0 {
			return c.Date.Format("2006-01-02")
		}
		return c.Date.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

// Value returns the cell as a plain Go value suitable for spreadsheet writers.
func (c Cell) Value() interface{} {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return c.Number
	case CellDate:
		return c.Date
	default:
		return nil
	}
}

// Table is the in-memory working set the pipeline transforms. Rows always have
// exactly len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]Cell

	index map[string]int
}

// NewTable creates a table and pads or truncates rows to the column count.
func NewTable(columns []string, rows [][]Cell) *Table {
	t := &Table{Columns: append([]string(nil), columns...)}
	t.Rows = make([][]Cell, 0, len(rows))
	for _, row := range rows {
		t.Rows = append(t.Rows, fitRow(row, len(columns)))
	}
	t.reindex()
	return t
}

func fitRow(row []Cell, width int) []Cell {
	out := make([]Cell, width)
	copy(out, row)
	return out
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, name := range t.Columns {
		if _, dup := t.index[name]; !dup {
			t.index[name] = i
		}
	}
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// ColumnIndex returns the position of a column, or -1.
func (t *Table) ColumnIndex(name string) int {
	if t.index == nil {
		t.reindex()
	}
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Column returns a copy of the named column's cells.
func (t *Table) Column(name string) ([]Cell, bool) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, false
	}
	out := make([]Cell, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out, true
}

// Cell returns the value at row/column, or an empty cell when the column is
// unknown.
func (t *Table) Cell(row int, name string) Cell {
	idx := t.ColumnIndex(name)
	if idx < 0 || row < 0 || row >= len(t.Rows) {
		return Cell{}
	}
	return t.Rows[row][idx]
}

// SetColumn overwrites an existing column or appends a new one.
func (t *Table) SetColumn(name string, cells []Cell) error {
	if len(cells) != len(t.Rows) {
		return fmt.Errorf("column %q has %d cells, table has %d rows", name, len(cells), len(t.Rows))
	}
	idx := t.ColumnIndex(name)
	if idx < 0 {
		t.Columns = append(t.Columns, name)
		for i := range t.Rows {
			t.Rows[i] = append(t.Rows[i], cells[i])
		}
		t.reindex()
		return nil
	}
	for i := range t.Rows {
		t.Rows[i][idx] = cells[i]
	}
	return nil
}

// RenameColumns replaces every column label at once.
func (t *Table) RenameColumns(names []string) error {
	if len(names) != len(t.Columns) {
		return fmt.Errorf("expected %d column names, got %d", len(t.Columns), len(names))
	}
	t.Columns = append([]string(nil), names...)
	t.reindex()
	return nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	c := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([][]Cell, len(t.Rows)),
	}
	for i, row := range t.Rows {
		c.Rows[i] = append([]Cell(nil), row...)
	}
	c.reindex()
	return c
}
