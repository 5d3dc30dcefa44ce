package dataprocessing

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fardash/internal/shared/testutil"
	"fardash/pkg/contracts/domain"
)

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  string
	}{
		{"spaces become underscores", "Asset Description", "Asset_Description"},
		{"punctuation dropped", "Level 1 FA Module - English Description", "Level_1_FA_Module_English_Description"},
		{"line breaks", "Net Book\r\nValue", "Net_Book_Value"},
		{"surrounding whitespace", "  Cost  ", "Cost"},
		{"latin diacritics", "Café Equipment", "Cafe_Equipment"},
		{"arabic kept", "التكلفة", "التكلفة"},
		{"arabic hamza mark removed", "العمر الإنتاجي", "العمر_الانتاجي"},
		{"underscores kept", "Tag_number", "Tag_number"},
		{"only punctuation", "---", ""},
		{"jamo joined by dropped punctuation compose", "\u1100-\u1161", "\uAC00"},
		{"decomposed diacritic", "Cafe\u0301", "Cafe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeLabel(tt.label)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, NormalizeLabel(got), "normalizing twice must not change the label")
		})
	}
}

func TestNormalizeColumns(t *testing.T) {
	got := NormalizeColumns([]string{"Cost", "", "Cost", "Cost ", "City"})
	assert.Equal(t, []string{"Cost", "Unnamed_1", "Cost_1", "Cost_2", "City"}, got)

	// Already unique labels are left alone.
	assert.Equal(t, got, NormalizeColumns(got))
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name   string
		cell   Cell
		want   float64
		wantOK bool
	}{
		{"plain", Text("5000"), 5000, true},
		{"thousands separator", Text("12,500.75"), 12500.75, true},
		{"spaces", Text(" 1 000 "), 1000, true},
		{"negative", Text("-5"), -5, true},
		{"number cell", Number(3), 3, true},
		{"text", Text("N/A"), 0, false},
		{"nan literal", Text("nan"), 0, false},
		{"infinity literal", Text("Inf"), 0, false},
		{"empty", Empty(), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseNumber(tt.cell)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDate(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name   string
		cell   Cell
		want   time.Time
		wantOK bool
	}{
		{"day first", Text("15/06/2023"), day(2023, time.June, 15), true},
		{"day first ambiguous", Text("01/02/2020"), day(2020, time.February, 1), true},
		{"iso", Text("2022-03-10"), day(2022, time.March, 10), true},
		{"excel serial", Text("44927"), day(2023, time.January, 1), true},
		{"date cell", Date(day(2021, 5, 5)), day(2021, 5, 5), true},
		{"garbage", Text("soon"), time.Time{}, false},
		{"negative serial", Text("-3"), time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.cell, dayFirstLayouts)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
			}
		})
	}
}

func TestCoerceDates_FallbackLayout(t *testing.T) {
	cells := []Cell{Text("2021-04-05 10:30:00"), Text("2020-12-31 23:59:59"), Empty()}

	out, failed := coerceDates(cells)

	assert.Equal(t, 0, failed)
	require.Equal(t, CellDate, out[0].Kind)
	assert.Equal(t, time.Date(2021, 4, 5, 10, 30, 0, 0, time.UTC), out[0].Date)
	assert.True(t, out[2].IsEmpty())
}

func TestCoerce_SentinelsAreMissing(t *testing.T) {
	dates, failed := coerceDates([]Cell{Text("01/02/2020"), Text("N/A"), Text(" nan "), Empty()})
	assert.Equal(t, 0, failed)
	assert.Equal(t, CellDate, dates[0].Kind)
	assert.True(t, dates[1].IsEmpty())
	assert.True(t, dates[2].IsEmpty())

	numbers, failed := coerceNumbers([]Cell{Text("1,500"), Text("None"), Text("Not Available"), Text("oops")})
	assert.Equal(t, 1, failed, "only real garbage counts as a failure")
	assert.Equal(t, Number(1500), numbers[0])
	assert.True(t, numbers[1].IsEmpty())
	assert.True(t, numbers[2].IsEmpty())
	assert.True(t, numbers[3].IsEmpty())
}

func TestCoerceText_Sentinels(t *testing.T) {
	out := coerceText([]Cell{Text("Not Available"), Text("n/a"), Text("NaN"), Text("none"), Text("  Laptop ")})

	for i := 0; i < 4; i++ {
		assert.True(t, out[i].IsEmpty(), "cell %d should be blank", i)
	}
	assert.Equal(t, "Laptop", out[4].Text)
}

func TestCleaningStages(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	schema := DefaultSchema()

	table := NewTable(
		[]string{"Tag number", "Asset Description", "Custodian", "Cost", "Depreciation amount", "Net Book Value", "Remarks"},
		[][]Cell{
			{Text("A1"), Text("Printer"), Text("IT"), Text("1,000"), Text("200"), Text("800"), Text("ok")},
			{Empty(), Text(" "), Empty(), Empty(), Empty(), Empty(), Empty()},
			{Text("A2"), Text("None"), Empty(), Text("oops"), Empty(), Text("50"), Empty()},
		},
	)
	ds := &Dataset{Table: table, Columns: Mapping{}}
	rep := &Report{}
	ctx := context.Background()

	out, err := columnStage{schema: schema}.Apply(ctx, ds, rep)
	require.NoError(t, err)
	assert.Equal(t, StageSucceeded, out.Status)
	assert.Equal(t, "Tag_number", ds.Columns[FieldTag])

	_, err = pruneStage{}.Apply(ctx, ds, rep)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.RowsDropped)
	require.Equal(t, 2, ds.Table.Len())

	out, err = coerceStage{schema: schema}.Apply(ctx, ds, rep)
	require.NoError(t, err)
	assert.Equal(t, StagePartial, out.Status)
	assert.Contains(t, out.Reasons, "Cost: 1 values could not be parsed")
	assert.Equal(t, float64(1000), ds.Table.Cell(0, "Cost").Number)
	assert.Equal(t, "ok", ds.Table.Cell(0, "Remarks").Text, "unmapped columns pass through")

	out, err = fillStage{logger: logger}.Apply(ctx, ds, rep)
	require.NoError(t, err)
	assert.Equal(t, StageSucceeded, out.Status)

	assert.Equal(t, Number(0), ds.Table.Cell(1, "Cost"))
	assert.Equal(t, Number(0), ds.Table.Cell(1, "Depreciation_amount"))
	assert.Equal(t, domain.Unspecified, ds.Table.Cell(1, "Asset_Description").Text)
	assert.Equal(t, domain.Unspecified, ds.Table.Cell(1, "Custodian").Text)
	assert.True(t, ds.Table.Cell(1, "Remarks").IsEmpty(), "other columns keep their gaps")

	assert.Contains(t, rep.Missing, MissingStat{Column: "Remarks", Count: 1, Percent: 50})
	testutil.AssertLogContains(t, logs, slog.LevelWarn, "Column has many missing values")
}

func TestMissingReport(t *testing.T) {
	table := NewTable([]string{"a", "b"}, [][]Cell{
		{Empty(), Text("x")},
		{Empty(), Empty()},
		{Text("y"), Text("z")},
	})

	got := MissingReport(table)

	assert.Equal(t, []MissingStat{
		{Column: "a", Count: 2, Percent: 66.67},
		{Column: "b", Count: 1, Percent: 33.33},
	}, got)
	assert.Nil(t, MissingReport(NewTable([]string{"a"}, nil)))
}
