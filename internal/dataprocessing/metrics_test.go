package dataprocessing

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fardash/pkg/contracts/domain"
)

func TestDepreciationRate(t *testing.T) {
	tests := []struct {
		name         string
		depreciation float64
		cost         float64
		want         float64
	}{
		{"typical", 4000, 5000, 80},
		{"rounded", 1, 3, 33.33},
		{"zero cost", 100, 0, 0},
		{"zero over zero", 0, 0, 0},
		{"above cost clamps", 150, 100, 100},
		{"negative cost clamps", 10, -5, 0},
		{"negative depreciation clamps", -10, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DepreciationRate(tt.depreciation, tt.cost)
			assert.Equal(t, tt.want, got)
			assert.False(t, math.IsNaN(got))
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 100.0)
		})
	}
}

func TestClassifyCondition(t *testing.T) {
	tests := []struct {
		rate float64
		want domain.Condition
	}{
		{100, domain.ConditionOld},
		{80, domain.ConditionOld},
		{79.9, domain.ConditionAverage},
		{50, domain.ConditionAverage},
		{49.99, domain.ConditionNew},
		{20, domain.ConditionNew},
		{19.99, domain.ConditionVeryNew},
		{0.01, domain.ConditionVeryNew},
		{0, domain.ConditionNotDepreciated},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyCondition(tt.rate), "rate %v", tt.rate)
	}
}

func TestClassifyValue(t *testing.T) {
	th := DefaultThresholds()

	assert.Equal(t, domain.ValueTierHigh, ClassifyValue(10000, th))
	assert.Equal(t, domain.ValueTierMedium, ClassifyValue(9999.99, th))
	assert.Equal(t, domain.ValueTierMedium, ClassifyValue(5000, th))
	assert.Equal(t, domain.ValueTierLow, ClassifyValue(1000, th))
	assert.Equal(t, domain.ValueTierVeryLow, ClassifyValue(999, th))
	assert.Equal(t, domain.ValueTierVeryLow, ClassifyValue(-5, th))

	custom := Thresholds{High: 100, Medium: 50, Low: 10}
	assert.Equal(t, domain.ValueTierHigh, ClassifyValue(150, custom))
}

func TestRemainingLife(t *testing.T) {
	assert.Equal(t, 1.0, RemainingLife(5, 4))
	assert.Equal(t, 0.0, RemainingLife(3, 7.5), "never negative")
	assert.Equal(t, 9.5, RemainingLife(10, 0.5))
}

func TestAgeYears(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 4.0, AgeYears(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, 0.5, AgeYears(time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC), now))
	// Partial days are floored before converting.
	assert.Equal(t, 0.0, AgeYears(now.Add(-23*time.Hour), now))
	assert.Less(t, AgeYears(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), now), 0.0)
}

func metricDataset(t *testing.T) *Dataset {
	t.Helper()
	table := NewTable(
		[]string{"Cost", "Depreciation_amount", "Useful_Life", "Date_Placed_in_Service"},
		[][]Cell{
			{Number(5000), Number(4000), Number(5), Date(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))},
			{Number(0), Number(0), Empty(), Empty()},
		},
	)
	return &Dataset{Table: table, Columns: DefaultSchema().Resolve(table.Columns)}
}

func TestMetricCalculator_Apply(t *testing.T) {
	clock := func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	calc := NewMetricCalculator(DefaultThresholds(), clock)
	ds := metricDataset(t)

	out, err := calc.Apply(context.Background(), ds, &Report{})
	require.NoError(t, err)
	assert.Equal(t, StageSucceeded, out.Status)

	tbl := ds.Table
	assert.Equal(t, Number(4), tbl.Cell(0, ColumnAge))
	assert.Equal(t, Number(80), tbl.Cell(0, ColumnDepreciationRate))
	assert.Equal(t, string(domain.ConditionOld), tbl.Cell(0, ColumnCondition).Text)
	assert.Equal(t, string(domain.ValueTierMedium), tbl.Cell(0, ColumnValueTier).Text)
	assert.Equal(t, Number(1), tbl.Cell(0, ColumnRemainingLife))
	assert.Equal(t, Number(2020), tbl.Cell(0, ColumnServiceYear))

	assert.Equal(t, Number(0), tbl.Cell(1, ColumnAge), "missing date gives age 0")
	assert.Equal(t, Number(0), tbl.Cell(1, ColumnDepreciationRate))
	assert.Equal(t, string(domain.ConditionNotDepreciated), tbl.Cell(1, ColumnCondition).Text)
	assert.True(t, tbl.Cell(1, ColumnRemainingLife).IsEmpty())
	assert.True(t, tbl.Cell(1, ColumnServiceYear).IsEmpty())

	// Running again overwrites rather than appending.
	width := len(tbl.Columns)
	_, err = calc.Apply(context.Background(), ds, &Report{})
	require.NoError(t, err)
	assert.Len(t, tbl.Columns, width)
}

func TestMetricCalculator_MissingColumns(t *testing.T) {
	table := NewTable([]string{"Asset_Description"}, [][]Cell{{Text("Chair")}})
	ds := &Dataset{Table: table, Columns: DefaultSchema().Resolve(table.Columns)}

	out, err := NewMetricCalculator(DefaultThresholds(), nil).Apply(context.Background(), ds, &Report{})

	require.NoError(t, err)
	assert.Equal(t, StagePartial, out.Status)
	assert.Len(t, out.Reasons, 4)
	assert.Equal(t, Number(0), table.Cell(0, ColumnAge))
	assert.False(t, table.HasColumn(ColumnDepreciationRate))
	assert.False(t, table.HasColumn(ColumnRemainingLife))
}
