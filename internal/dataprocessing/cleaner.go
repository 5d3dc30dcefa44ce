package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"fardash/pkg/contracts/domain"
)

// MissingWarnPercent is the share of empty cells above which a column is
// logged as sparse.
const MissingWarnPercent = 5.0

// FallbackDateLayout is tried for a whole date column when no cell parses
// with the day-first layouts.
const FallbackDateLayout = "2006-01-02 15:04:05"

var dayFirstLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02/01/2006 15:04",
	"02/01/2006 15:04:05",
	"02-01-2006",
	"2-1-2006",
	"02.01.2006",
	"2006-01-02",
	"2006/01/02",
	"2006-01-02T15:04:05",
	"02 Jan 2006",
	"2 January 2006",
	"02-Jan-2006",
	"02-Jan-06",
}

// textSentinels are placeholder strings treated as missing in text columns.
var textSentinels = []string{"Not Available", "N/A", "nan", "None"}

var numberNoise = strings.NewReplacer(",", "", " ", "", "\u00a0", "")

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeLabel turns a header label into an identifier-like name: line
// breaks and diacritics are removed, punctuation is dropped and whitespace
// runs become a single underscore. Applying it twice gives the same result.
func NormalizeLabel(label string) string {
	s := strings.ReplaceAll(label, "\r", "")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.TrimSpace(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	s = b.String()

	// Composition runs last so runes brought together by the filter are
	// already composed on the first pass.
	if out, _, err := transform.String(stripMarks, s); err == nil {
		s = out
	}
	return strings.Join(strings.Fields(s), "_")
}

// NormalizeColumns normalizes every label, naming blank ones Unnamed_<index>
// and suffixing repeats with _<n> so that the result is unique.
func NormalizeColumns(labels []string) []string {
	out := make([]string, len(labels))
	seen := make(map[string]bool, len(labels))
	for i, label := range labels {
		name := NormalizeLabel(label)
		if name == "" {
			name = fmt.Sprintf("Unnamed_%d", i)
		}
		candidate := name
		for n := 1; seen[candidate]; n++ {
			candidate = fmt.Sprintf("%s_%d", name, n)
		}
		seen[candidate] = true
		out[i] = candidate
	}
	return out
}

// isSentinel reports whether s is a placeholder for a missing value.
func isSentinel(s string) bool {
	for _, token := range textSentinels {
		if strings.EqualFold(s, token) {
			return true
		}
	}
	return false
}

// isMissing reports whether a cell is blank or holds a missing-value
// placeholder. Such cells become Empty without counting as parse failures.
func isMissing(c Cell) bool {
	return c.IsEmpty() || (c.Kind == CellText && isSentinel(strings.TrimSpace(c.Text)))
}

// ParseNumber converts a cell to a number. Thousands separators and spaces
// are ignored; NaN and infinities are rejected.
func ParseNumber(c Cell) (float64, bool) {
	switch c.Kind {
	case CellNumber:
		return c.Number, !math.IsNaN(c.Number) && !math.IsInf(c.Number, 0)
	case CellText:
		s := numberNoise.Replace(c.Text)
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// ParseDate converts a cell to a date. Excel serial numbers are tried first,
// then the given layouts in order.
func ParseDate(c Cell, layouts []string) (time.Time, bool) {
	switch c.Kind {
	case CellDate:
		return c.Date, true
	case CellNumber:
		return serialToTime(c.Number)
	case CellText:
		s := strings.TrimSpace(c.Text)
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return serialToTime(f)
		}
		for _, layout := range layouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func serialToTime(f float64) (time.Time, bool) {
	if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(f, false)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// columnStage normalizes labels and binds them to the schema.
type columnStage struct {
	schema *Schema
}

func (columnStage) Name() string { return "clean_columns" }
func (columnStage) Version() int { return 1 }

func (s columnStage) Apply(_ context.Context, ds *Dataset, rep *Report) (Outcome, error) {
	names := NormalizeColumns(ds.Table.Columns)
	if err := ds.Table.RenameColumns(names); err != nil {
		return Outcome{}, err
	}
	ds.Columns = s.schema.Resolve(names)
	rep.Columns = names

	var missing []string
	for _, key := range RequiredFields {
		if !ds.Columns.Has(key) {
			missing = append(missing, string(key))
		}
	}
	if len(missing) > 0 {
		return Partial(fmt.Sprintf("required fields not found: %s", strings.Join(missing, ", "))), nil
	}
	return Succeeded(), nil
}

// pruneStage drops rows in which every cell is blank.
type pruneStage struct{}

func (pruneStage) Name() string { return "prune_rows" }
func (pruneStage) Version() int { return 1 }

func (pruneStage) Apply(_ context.Context, ds *Dataset, rep *Report) (Outcome, error) {
	kept := ds.Table.Rows[:0]
	dropped := 0
	for _, row := range ds.Table.Rows {
		blank := true
		for _, c := range row {
			if !c.IsEmpty() {
				blank = false
				break
			}
		}
		if blank {
			dropped++
			continue
		}
		kept = append(kept, row)
	}
	ds.Table.Rows = kept
	rep.RowsDropped = dropped
	return Succeeded(), nil
}

// coerceStage converts mapped columns to the type of their schema role.
type coerceStage struct {
	schema *Schema
}

func (coerceStage) Name() string { return "coerce_types" }
func (coerceStage) Version() int { return 1 }

func (s coerceStage) Apply(_ context.Context, ds *Dataset, _ *Report) (Outcome, error) {
	var reasons []string
	for _, field := range s.schema.Fields {
		col, ok := ds.Columns.Column(field.Key)
		if !ok {
			continue
		}
		cells, _ := ds.Table.Column(col)

		var failed int
		switch field.Role {
		case RoleDate:
			cells, failed = coerceDates(cells)
		case RoleNumber:
			cells, failed = coerceNumbers(cells)
		default:
			cells = coerceText(cells)
		}
		if err := ds.Table.SetColumn(col, cells); err != nil {
			return Outcome{}, err
		}
		if failed > 0 {
			reasons = append(reasons, fmt.Sprintf("%s: %d values could not be parsed", col, failed))
		}
	}
	if len(reasons) > 0 {
		return Partial(reasons...), nil
	}
	return Succeeded(), nil
}

func coerceDates(cells []Cell) ([]Cell, int) {
	convert := func(layouts []string) ([]Cell, int, int) {
		out := make([]Cell, len(cells))
		parsed, failed := 0, 0
		for i, c := range cells {
			if isMissing(c) {
				continue
			}
			if t, ok := ParseDate(c, layouts); ok {
				out[i] = Date(t)
				parsed++
			} else {
				failed++
			}
		}
		return out, parsed, failed
	}

	out, parsed, failed := convert(dayFirstLayouts)
	if parsed == 0 && failed > 0 {
		out, _, failed = convert([]string{FallbackDateLayout})
	}
	return out, failed
}

func coerceNumbers(cells []Cell) ([]Cell, int) {
	out := make([]Cell, len(cells))
	failed := 0
	for i, c := range cells {
		if isMissing(c) {
			continue
		}
		if f, ok := ParseNumber(c); ok {
			out[i] = Number(f)
		} else {
			failed++
		}
	}
	return out, failed
}

func coerceText(cells []Cell) []Cell {
	out := make([]Cell, len(cells))
	for i, c := range cells {
		if c.IsEmpty() {
			continue
		}
		s := strings.TrimSpace(c.String())
		if isSentinel(s) {
			continue
		}
		out[i] = Text(s)
	}
	return out
}

// MissingStat counts the empty cells of one column.
type MissingStat struct {
	Column  string  `json:"column"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// fillStage records missing values and fills the financial and label fields.
type fillStage struct {
	logger *slog.Logger
}

func (fillStage) Name() string { return "fill_missing" }
func (fillStage) Version() int { return 1 }

var (
	zeroFilled        = []FieldKey{FieldCost, FieldDepreciation, FieldNetBookValue}
	unspecifiedFilled = []FieldKey{FieldDescription, FieldCustodian}
)

func (s fillStage) Apply(ctx context.Context, ds *Dataset, rep *Report) (Outcome, error) {
	rep.Missing = MissingReport(ds.Table)
	for _, stat := range rep.Missing {
		if stat.Percent > MissingWarnPercent {
			s.logger.WarnContext(ctx, "Column has many missing values",
				slog.String("column", stat.Column),
				slog.Int("missing", stat.Count),
				slog.Float64("percent", stat.Percent))
		}
	}

	fill := func(key FieldKey, value Cell) error {
		col, ok := ds.Columns.Column(key)
		if !ok {
			return nil
		}
		cells, _ := ds.Table.Column(col)
		for i, c := range cells {
			if c.IsEmpty() {
				cells[i] = value
			}
		}
		return ds.Table.SetColumn(col, cells)
	}

	for _, key := range zeroFilled {
		if err := fill(key, Number(0)); err != nil {
			return Outcome{}, err
		}
	}
	for _, key := range unspecifiedFilled {
		if err := fill(key, Text(domain.Unspecified)); err != nil {
			return Outcome{}, err
		}
	}
	return Succeeded(), nil
}

// MissingReport counts empty cells per column, most sparse first. Columns
// with no missing values are omitted.
func MissingReport(t *Table) []MissingStat {
	if t.Len() == 0 {
		return nil
	}
	var stats []MissingStat
	for j, col := range t.Columns {
		count := 0
		for _, row := range t.Rows {
			if row[j].IsEmpty() {
				count++
			}
		}
		if count == 0 {
			continue
		}
		stats = append(stats, MissingStat{
			Column:  col,
			Count:   count,
			Percent: round(float64(count)/float64(t.Len())*100, 2),
		})
	}
	sort.SliceStable(stats, func(i, j int) bool { return stats[i].Count > stats[j].Count })
	return stats
}

func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
