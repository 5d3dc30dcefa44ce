package domain

import (
	"time"
)

// AssetSummary holds the headline figures of a register.
type AssetSummary struct {
	TotalAssets       int     `json:"total_assets"`
	TotalCost         float64 `json:"total_cost"`
	TotalDepreciation float64 `json:"total_depreciation"`
	TotalNetValue     float64 `json:"total_net_value"`
	AverageCost       float64 `json:"average_cost"`
	DepreciationRate  float64 `json:"depreciation_rate"`
}

// GroupSummary aggregates the financial columns of every asset sharing a key
// (category, city, custodian, manufacturer or service year).
type GroupSummary struct {
	Key              string  `json:"key"`
	Count            int     `json:"count"`
	Cost             float64 `json:"cost"`
	Depreciation     float64 `json:"depreciation"`
	NetBookValue     float64 `json:"net_book_value"`
	DepreciationRate float64 `json:"depreciation_rate,omitempty"`
	CostShare        float64 `json:"cost_share,omitempty"`
	AverageCost      float64 `json:"average_cost,omitempty"`
}

// YearSummary aggregates assets placed in service in the same year.
type YearSummary struct {
	Year         int     `json:"year"`
	Count        int     `json:"count"`
	Cost         float64 `json:"cost"`
	Depreciation float64 `json:"depreciation"`
	NetBookValue float64 `json:"net_book_value"`
}

// DataSummary describes the shape of a processed register.
type DataSummary struct {
	TotalRecords int        `json:"total_records"`
	TotalColumns int        `json:"total_columns"`
	DateRange    *DateRange `json:"date_range,omitempty"`
	CostRange    *CostRange `json:"cost_range,omitempty"`
}

// DateRange is the earliest and latest in-service date.
type DateRange struct {
	Min time.Time `json:"min"`
	Max time.Time `json:"max"`
}

// CostRange is the spread and total of asset costs.
type CostRange struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Total float64 `json:"total"`
}

// Patterns holds value distributions over a register.
type Patterns struct {
	Yearly     map[int]int    `json:"yearly_distribution,omitempty"`
	Cities     map[string]int `json:"city_distribution,omitempty"`
	Categories map[string]int `json:"category_distribution,omitempty"`
}

// ForecastEntry projects the book value of one asset a number of months ahead
// using straight-line depreciation.
type ForecastEntry struct {
	TagNumber            string  `json:"tag_number"`
	Description          string  `json:"description"`
	CurrentNetValue      float64 `json:"current_net_value"`
	FutureNetValue       float64 `json:"future_net_value"`
	DepreciationIncrease float64 `json:"depreciation_increase"`
	Months               int     `json:"months"`
}

// ConditionSummary aggregates assets sharing a condition bucket.
type ConditionSummary struct {
	Condition    Condition `json:"condition"`
	Count        int       `json:"count"`
	Cost         float64   `json:"cost"`
	Depreciation float64   `json:"depreciation"`
	AverageRate  float64   `json:"average_rate"`
}

// DepreciationAnalysis breaks a register down by condition.
type DepreciationAnalysis struct {
	ByCondition      []ConditionSummary `json:"by_condition"`
	AverageRate      float64            `json:"average_rate"`
	FullyDepreciated int                `json:"fully_depreciated"`
}
