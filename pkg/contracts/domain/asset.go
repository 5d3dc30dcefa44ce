package domain

import (
	"time"
)

// AssetRecord is one row of the fixed-asset register after cleaning and
// metric derivation.
type AssetRecord struct {
	Row          int    `json:"row"`
	TagNumber    string `json:"tag_number"`
	Description  string `json:"description"`
	Custodian    string `json:"custodian"`
	City         string `json:"city"`
	Manufacturer string `json:"manufacturer,omitempty"`
	Category     string `json:"category,omitempty"`
	AssetCode    string `json:"asset_code,omitempty"`

	Cost         float64    `json:"cost"`
	Depreciation float64    `json:"depreciation"`
	NetBookValue float64    `json:"net_book_value"`
	UsefulLife   *float64   `json:"useful_life,omitempty"`
	InService    *time.Time `json:"in_service,omitempty"`

	// Derived
	Age              float64   `json:"age"`
	DepreciationRate float64   `json:"depreciation_rate"`
	Condition        Condition `json:"condition,omitempty"`
	ValueTier        ValueTier `json:"value_tier,omitempty"`
	RemainingLife    *float64  `json:"remaining_life,omitempty"`
	ServiceYear      int       `json:"service_year,omitempty"`
}

// Condition buckets an asset by how much of its cost has been depreciated.
type Condition string

const (
	ConditionOld            Condition = "old"
	ConditionAverage        Condition = "average"
	ConditionNew            Condition = "new"
	ConditionVeryNew        Condition = "very new"
	ConditionNotDepreciated Condition = "not yet depreciated"
)

// Conditions lists every condition label from most to least depreciated.
var Conditions = []Condition{
	ConditionOld,
	ConditionAverage,
	ConditionNew,
	ConditionVeryNew,
	ConditionNotDepreciated,
}

// ValueTier buckets an asset by acquisition cost.
type ValueTier string

const (
	ValueTierHigh    ValueTier = "high"
	ValueTierMedium  ValueTier = "medium"
	ValueTierLow     ValueTier = "low"
	ValueTierVeryLow ValueTier = "very low"
)

// Unspecified replaces a missing description or custodian.
const Unspecified = "unspecified"
