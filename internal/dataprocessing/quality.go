package dataprocessing

import (
	"context"
	"fmt"

	"fardash/pkg/contracts/domain"
)

// RequiredFields must be present for a register to be trusted for reporting.
var RequiredFields = []FieldKey{FieldCost, FieldDescription, FieldTag}

// ValidateQuality runs the read-only consistency checks over records. It
// never modifies or rejects rows.
func ValidateQuality(records []domain.AssetRecord) domain.QualityReport {
	var negCost, excessDep, negNBV, negAge int
	tags := make(map[string]int, len(records))
	for _, r := range records {
		if r.Cost < 0 {
			negCost++
		}
		if r.Depreciation > r.Cost {
			excessDep++
		}
		if r.NetBookValue < 0 {
			negNBV++
		}
		if r.Age < 0 {
			negAge++
		}
		if r.TagNumber != "" {
			tags[r.TagNumber]++
		}
	}

	dupes := 0
	for _, n := range tags {
		if n > 1 {
			dupes += n
		}
	}

	report := domain.QualityReport{Issues: []domain.QualityIssue{}}
	add := func(code domain.IssueCode, count int) {
		if count > 0 {
			report.Issues = append(report.Issues, domain.QualityIssue{Code: code, Count: count})
		}
	}
	add(domain.IssueNegativeCost, negCost)
	add(domain.IssueExcessDepreciation, excessDep)
	add(domain.IssueNegativeNetBookValue, negNBV)
	add(domain.IssueNegativeAge, negAge)
	add(domain.IssueDuplicateTag, dupes)
	return report
}

// CheckCompleteness verifies the structure of a processed register: required
// fields missing are errors, duplicate tags and empty or negative financial
// values are warnings.
func CheckCompleteness(columns Mapping, missing []MissingStat, records []domain.AssetRecord) domain.CompletenessResult {
	res := domain.CompletenessResult{Passed: []string{}, Warnings: []string{}, Errors: []string{}}

	var absent []FieldKey
	for _, key := range RequiredFields {
		if !columns.Has(key) {
			absent = append(absent, key)
		}
	}
	if len(absent) > 0 {
		res.Errors = append(res.Errors, fmt.Sprintf("missing required fields: %v", absent))
	} else {
		res.Passed = append(res.Passed, "all required fields present")
	}

	if columns.Has(FieldTag) {
		report := ValidateQuality(records)
		if n := report.Count(domain.IssueDuplicateTag); n > 0 {
			res.Warnings = append(res.Warnings, fmt.Sprintf("%d records share a tag number", n))
		} else {
			res.Passed = append(res.Passed, "tag numbers are unique")
		}
	}

	missingBy := make(map[string]int, len(missing))
	for _, m := range missing {
		missingBy[m.Column] = m.Count
	}
	for _, key := range zeroFilled {
		col, ok := columns.Column(key)
		if !ok {
			continue
		}
		if n := missingBy[col]; n > 0 {
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %d empty values", col, n))
		}

		negative := 0
		for _, r := range records {
			if financialValue(r, key) < 0 {
				negative++
			}
		}
		if negative > 0 {
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %d negative values", col, negative))
		}
		if missingBy[col] == 0 && negative == 0 {
			res.Passed = append(res.Passed, fmt.Sprintf("%s values are valid", col))
		}
	}
	return res
}

func financialValue(r domain.AssetRecord, key FieldKey) float64 {
	switch key {
	case FieldCost:
		return r.Cost
	case FieldDepreciation:
		return r.Depreciation
	case FieldNetBookValue:
		return r.NetBookValue
	default:
		return 0
	}
}

// qualityStage projects the table to records and reports violations.
type qualityStage struct{}

func (qualityStage) Name() string { return "quality_checks" }
func (qualityStage) Version() int { return 1 }

func (qualityStage) Apply(_ context.Context, ds *Dataset, rep *Report) (Outcome, error) {
	rep.Quality = ValidateQuality(Records(ds))
	return Succeeded(), nil
}
