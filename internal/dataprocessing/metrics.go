package dataprocessing

import (
	"context"
	"math"
	"time"

	"fardash/pkg/contracts/domain"
)

// DaysPerYear converts elapsed days to years.
const DaysPerYear = 365.25

// Thresholds are the lower cost bounds of the value tiers.
type Thresholds struct {
	High   float64 `yaml:"high" json:"high" validate:"gtfield=Medium"`
	Medium float64 `yaml:"medium" json:"medium" validate:"gtfield=Low"`
	Low    float64 `yaml:"low" json:"low" validate:"gte=0"`
}

// DefaultThresholds returns the standard 10000/5000/1000 tiers.
func DefaultThresholds() Thresholds {
	return Thresholds{High: 10000, Medium: 5000, Low: 1000}
}

// AgeYears returns the whole days elapsed since inService expressed in
// years, rounded to one decimal. Future dates give a negative age.
func AgeYears(inService, now time.Time) float64 {
	days := math.Floor(now.Sub(inService).Hours() / 24)
	return round(days/DaysPerYear, 1)
}

// DepreciationRate returns depreciation as a percentage of cost, clamped to
// [0, 100] and rounded to two decimals. Undefined ratios give 0.
func DepreciationRate(depreciation, cost float64) float64 {
	rate := depreciation / cost * 100
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0
	}
	rate = math.Max(0, math.Min(100, rate))
	return round(rate, 2)
}

// ClassifyCondition buckets a depreciation rate.
func ClassifyCondition(rate float64) domain.Condition {
	switch {
	case rate >= 80:
		return domain.ConditionOld
	case rate >= 50:
		return domain.ConditionAverage
	case rate >= 20:
		return domain.ConditionNew
	case rate > 0:
		return domain.ConditionVeryNew
	default:
		return domain.ConditionNotDepreciated
	}
}

// ClassifyValue buckets a cost against th.
func ClassifyValue(cost float64, th Thresholds) domain.ValueTier {
	switch {
	case cost >= th.High:
		return domain.ValueTierHigh
	case cost >= th.Medium:
		return domain.ValueTierMedium
	case cost >= th.Low:
		return domain.ValueTierLow
	default:
		return domain.ValueTierVeryLow
	}
}

// RemainingLife returns usefulLife minus age, rounded to one decimal and
// never negative.
func RemainingLife(usefulLife, age float64) float64 {
	return math.Max(0, round(usefulLife-age, 1))
}

// MetricCalculator derives age, depreciation rate, condition, value tier,
// remaining life and service year columns.
type MetricCalculator struct {
	thresholds Thresholds
	now        func() time.Time
}

// NewMetricCalculator creates a calculator. A nil clock uses time.Now.
func NewMetricCalculator(thresholds Thresholds, now func() time.Time) *MetricCalculator {
	if now == nil {
		now = time.Now
	}
	return &MetricCalculator{thresholds: thresholds, now: now}
}

func (*MetricCalculator) Name() string { return "derive_metrics" }
func (*MetricCalculator) Version() int { return 1 }

// Apply overwrites the derived columns, so running it twice is harmless.
func (m *MetricCalculator) Apply(_ context.Context, ds *Dataset, _ *Report) (Outcome, error) {
	t := ds.Table
	n := t.Len()
	now := m.now()
	var reasons []string

	dateCol, hasDate := ds.Columns.Column(FieldInService)
	costCol, hasCost := ds.Columns.Column(FieldCost)
	depCol, hasDep := ds.Columns.Column(FieldDepreciation)
	lifeCol, hasLife := ds.Columns.Column(FieldUsefulLife)

	ages := make([]float64, n)
	ageCells := make([]Cell, n)
	years := make([]Cell, n)
	for i := 0; i < n; i++ {
		if hasDate {
			if d := t.Cell(i, dateCol); d.Kind == CellDate {
				ages[i] = AgeYears(d.Date, now)
				years[i] = Number(float64(d.Date.Year()))
			}
		}
		ageCells[i] = Number(ages[i])
	}
	if err := t.SetColumn(ColumnAge, ageCells); err != nil {
		return Outcome{}, err
	}
	if hasDate {
		if err := t.SetColumn(ColumnServiceYear, years); err != nil {
			return Outcome{}, err
		}
	} else {
		reasons = append(reasons, "in-service date not found: age set to 0, service year skipped")
	}

	if hasCost && hasDep {
		rates := make([]Cell, n)
		conditions := make([]Cell, n)
		for i := 0; i < n; i++ {
			cost, _ := ParseNumber(t.Cell(i, costCol))
			dep, _ := ParseNumber(t.Cell(i, depCol))
			rate := DepreciationRate(dep, cost)
			rates[i] = Number(rate)
			conditions[i] = Text(string(ClassifyCondition(rate)))
		}
		if err := t.SetColumn(ColumnDepreciationRate, rates); err != nil {
			return Outcome{}, err
		}
		if err := t.SetColumn(ColumnCondition, conditions); err != nil {
			return Outcome{}, err
		}
	} else {
		reasons = append(reasons, "cost or depreciation not found: rate and condition skipped")
	}

	if hasCost {
		tiers := make([]Cell, n)
		for i := 0; i < n; i++ {
			cost, _ := ParseNumber(t.Cell(i, costCol))
			tiers[i] = Text(string(ClassifyValue(cost, m.thresholds)))
		}
		if err := t.SetColumn(ColumnValueTier, tiers); err != nil {
			return Outcome{}, err
		}
	} else {
		reasons = append(reasons, "cost not found: value tier skipped")
	}

	if hasLife {
		remaining := make([]Cell, n)
		for i := 0; i < n; i++ {
			if life, ok := ParseNumber(t.Cell(i, lifeCol)); ok {
				remaining[i] = Number(RemainingLife(life, ages[i]))
			}
		}
		if err := t.SetColumn(ColumnRemainingLife, remaining); err != nil {
			return Outcome{}, err
		}
	} else {
		reasons = append(reasons, "useful life not found: remaining life skipped")
	}

	if len(reasons) > 0 {
		return Partial(reasons...), nil
	}
	return Succeeded(), nil
}
