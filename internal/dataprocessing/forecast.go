package dataprocessing

import (
	"math"

	"fardash/pkg/contracts/domain"
)

const (
	// DefaultForecastMonths is the projection horizon when none is given.
	DefaultForecastMonths = 12
	// DefaultUsefulLife is assumed for assets without a usable useful life.
	DefaultUsefulLife = 3.0
)

// Forecast projects each asset's book value months ahead with straight-line
// depreciation over its useful life. A non-positive horizon uses
// DefaultForecastMonths.
func (a *Analyzer) Forecast(months int) []domain.ForecastEntry {
	if months <= 0 {
		months = DefaultForecastMonths
	}
	out := make([]domain.ForecastEntry, 0, len(a.records))
	for _, r := range a.records {
		out = append(out, ForecastAsset(r, months))
	}
	return out
}

// ForecastAsset projects one asset.
func ForecastAsset(r domain.AssetRecord, months int) domain.ForecastEntry {
	life := DefaultUsefulLife
	if r.UsefulLife != nil && *r.UsefulLife > 0 {
		life = *r.UsefulLife
	}
	monthly := r.Cost / (life * 12)
	increase := monthly * float64(months)
	future := math.Max(0, r.Cost-(r.Depreciation+increase))

	return domain.ForecastEntry{
		TagNumber:            r.TagNumber,
		Description:          r.Description,
		CurrentNetValue:      r.NetBookValue,
		FutureNetValue:       round(future, 2),
		DepreciationIncrease: round(increase, 2),
		Months:               months,
	}
}
