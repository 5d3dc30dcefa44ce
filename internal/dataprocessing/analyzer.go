package dataprocessing

import (
	"sort"

	"golang.org/x/text/cases"

	"fardash/pkg/contracts/domain"
)

// DefaultCustodianLimit is the number of custodians ByCustodian returns when
// no limit is given.
const DefaultCustodianLimit = 10

// Analyzer answers reporting queries over a processed register. It is
// read-only and safe for concurrent use once built.
type Analyzer struct {
	ds      *Dataset
	records []domain.AssetRecord
}

// NewAnalyzer projects ds to asset records.
func NewAnalyzer(ds *Dataset) *Analyzer {
	return &Analyzer{
		ds:      ds,
		records: Records(ds),
	}
}

// Records returns every asset in row order.
func (a *Analyzer) Records() []domain.AssetRecord {
	return a.records
}

// Dataset returns the processed table and its bindings.
func (a *Analyzer) Dataset() *Dataset {
	return a.ds
}

// Summary returns the register totals.
func (a *Analyzer) Summary() domain.AssetSummary {
	var s domain.AssetSummary
	s.TotalAssets = len(a.records)
	for _, r := range a.records {
		s.TotalCost += r.Cost
		s.TotalDepreciation += r.Depreciation
		s.TotalNetValue += r.NetBookValue
	}
	if s.TotalAssets > 0 {
		s.AverageCost = round(s.TotalCost/float64(s.TotalAssets), 2)
	}
	if s.TotalCost > 0 {
		s.DepreciationRate = round(s.TotalDepreciation/s.TotalCost*100, 2)
	}
	s.TotalCost = round(s.TotalCost, 2)
	s.TotalDepreciation = round(s.TotalDepreciation, 2)
	s.TotalNetValue = round(s.TotalNetValue, 2)
	return s
}

// groupBy sums the financial fields of records sharing a non-empty key,
// ordered by descending cost.
func (a *Analyzer) groupBy(key func(domain.AssetRecord) string) []domain.GroupSummary {
	index := make(map[string]int)
	var groups []domain.GroupSummary
	for _, r := range a.records {
		k := key(r)
		if k == "" {
			continue
		}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, domain.GroupSummary{Key: k})
		}
		g := &groups[i]
		g.Count++
		g.Cost += r.Cost
		g.Depreciation += r.Depreciation
		g.NetBookValue += r.NetBookValue
	}
	for i := range groups {
		groups[i].Cost = round(groups[i].Cost, 2)
		groups[i].Depreciation = round(groups[i].Depreciation, 2)
		groups[i].NetBookValue = round(groups[i].NetBookValue, 2)
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Cost > groups[j].Cost })
	if groups == nil {
		groups = []domain.GroupSummary{}
	}
	return groups
}

// ByCategory groups assets by their level 1 category and adds each group's
// depreciation rate.
func (a *Analyzer) ByCategory() []domain.GroupSummary {
	groups := a.groupBy(func(r domain.AssetRecord) string { return r.Category })
	for i := range groups {
		if groups[i].Cost > 0 {
			groups[i].DepreciationRate = round(groups[i].Depreciation/groups[i].Cost*100, 2)
		}
	}
	return groups
}

// ByLocation groups assets by city and adds each city's share of total cost.
func (a *Analyzer) ByLocation() []domain.GroupSummary {
	groups := a.groupBy(func(r domain.AssetRecord) string { return r.City })
	var total float64
	for _, g := range groups {
		total += g.Cost
	}
	if total > 0 {
		for i := range groups {
			groups[i].CostShare = round(groups[i].Cost/total*100, 2)
		}
	}
	return groups
}

// ByCustodian returns the custodians holding the most cost. A non-positive
// limit uses DefaultCustodianLimit.
func (a *Analyzer) ByCustodian(limit int) []domain.GroupSummary {
	if limit <= 0 {
		limit = DefaultCustodianLimit
	}
	groups := a.groupBy(func(r domain.AssetRecord) string { return r.Custodian })
	if len(groups) > limit {
		groups = groups[:limit]
	}
	return groups
}

// ByManufacturer groups assets by manufacturer with the average cost per
// asset.
func (a *Analyzer) ByManufacturer() []domain.GroupSummary {
	groups := a.groupBy(func(r domain.AssetRecord) string { return r.Manufacturer })
	for i := range groups {
		groups[i].AverageCost = round(groups[i].Cost/float64(groups[i].Count), 2)
	}
	return groups
}

// ByServiceYear groups assets by the year they entered service, oldest
// first. Assets without a date are left out.
func (a *Analyzer) ByServiceYear() []domain.YearSummary {
	index := make(map[int]int)
	years := []domain.YearSummary{}
	for _, r := range a.records {
		if r.ServiceYear == 0 {
			continue
		}
		i, ok := index[r.ServiceYear]
		if !ok {
			i = len(years)
			index[r.ServiceYear] = i
			years = append(years, domain.YearSummary{Year: r.ServiceYear})
		}
		years[i].Count++
		years[i].Cost += r.Cost
		years[i].Depreciation += r.Depreciation
		years[i].NetBookValue += r.NetBookValue
	}
	for i := range years {
		years[i].Cost = round(years[i].Cost, 2)
		years[i].Depreciation = round(years[i].Depreciation, 2)
		years[i].NetBookValue = round(years[i].NetBookValue, 2)
	}
	sort.Slice(years, func(i, j int) bool { return years[i].Year < years[j].Year })
	return years
}

// HighValue returns assets costing at least threshold, most expensive first.
func (a *Analyzer) HighValue(threshold float64) []domain.AssetRecord {
	out := []domain.AssetRecord{}
	for _, r := range a.records {
		if r.Cost >= threshold {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Cost > out[j].Cost })
	return out
}

// FullyDepreciated returns assets with a positive cost whose depreciation has
// reached it.
func (a *Analyzer) FullyDepreciated() []domain.AssetRecord {
	out := []domain.AssetRecord{}
	for _, r := range a.records {
		if r.Cost > 0 && r.Depreciation >= r.Cost {
			out = append(out, r)
		}
	}
	return out
}

// Asset looks an asset up by tag number. When several rows share the tag the
// first is returned.
func (a *Analyzer) Asset(tag string) (domain.AssetRecord, bool) {
	for _, r := range a.records {
		if r.TagNumber == tag {
			return r, true
		}
	}
	return domain.AssetRecord{}, false
}

// Filter keeps the assets whose columns contain every given value, compared
// case-insensitively. Keys may be table column labels or canonical field
// names; unknown keys match nothing.
func (a *Analyzer) Filter(filters map[string]string) []domain.AssetRecord {
	type cond struct {
		col  string
		want string
	}
	fold := cases.Fold()
	conds := make([]cond, 0, len(filters))
	for key, value := range filters {
		col := key
		if mapped, ok := a.ds.Columns.Column(FieldKey(key)); ok {
			col = mapped
		}
		if !a.ds.Table.HasColumn(col) {
			return []domain.AssetRecord{}
		}
		conds = append(conds, cond{col: col, want: fold.String(value)})
	}

	out := []domain.AssetRecord{}
	for i, r := range a.records {
		match := true
		for _, c := range conds {
			if !containsFolded(fold.String(a.ds.Table.Cell(i, c.col).String()), c.want) {
				match = false
				break
			}
		}
		if match {
			out = append(out, r)
		}
	}
	return out
}

// DepreciationAnalysis summarizes assets per condition bucket.
func (a *Analyzer) DepreciationAnalysis() domain.DepreciationAnalysis {
	byCond := make(map[domain.Condition]*domain.ConditionSummary)
	var rateSum float64
	var rated int
	for _, r := range a.records {
		if r.Condition == "" {
			continue
		}
		s, ok := byCond[r.Condition]
		if !ok {
			s = &domain.ConditionSummary{Condition: r.Condition}
			byCond[r.Condition] = s
		}
		s.Count++
		s.Cost += r.Cost
		s.Depreciation += r.Depreciation
		s.AverageRate += r.DepreciationRate
		rateSum += r.DepreciationRate
		rated++
	}

	out := domain.DepreciationAnalysis{
		ByCondition:      []domain.ConditionSummary{},
		FullyDepreciated: len(a.FullyDepreciated()),
	}
	for _, c := range domain.Conditions {
		s, ok := byCond[c]
		if !ok {
			continue
		}
		s.Cost = round(s.Cost, 2)
		s.Depreciation = round(s.Depreciation, 2)
		s.AverageRate = round(s.AverageRate/float64(s.Count), 2)
		out.ByCondition = append(out.ByCondition, *s)
	}
	if rated > 0 {
		out.AverageRate = round(rateSum/float64(rated), 2)
	}
	return out
}

// Patterns returns value counts of service year, city and category.
func (a *Analyzer) Patterns() domain.Patterns {
	p := domain.Patterns{
		Yearly:     map[int]int{},
		Cities:     map[string]int{},
		Categories: map[string]int{},
	}
	for _, r := range a.records {
		if r.ServiceYear != 0 {
			p.Yearly[r.ServiceYear]++
		}
		if r.City != "" {
			p.Cities[r.City]++
		}
		if r.Category != "" {
			p.Categories[r.Category]++
		}
	}
	return p
}

// DataSummary describes the size and value ranges of the register.
func (a *Analyzer) DataSummary() domain.DataSummary {
	s := domain.DataSummary{
		TotalRecords: len(a.records),
		TotalColumns: len(a.ds.Table.Columns),
	}

	if a.ds.Columns.Has(FieldInService) {
		for _, r := range a.records {
			if r.InService == nil {
				continue
			}
			d := *r.InService
			if s.DateRange == nil {
				s.DateRange = &domain.DateRange{Min: d, Max: d}
				continue
			}
			if d.Before(s.DateRange.Min) {
				s.DateRange.Min = d
			}
			if d.After(s.DateRange.Max) {
				s.DateRange.Max = d
			}
		}
	}

	if a.ds.Columns.Has(FieldCost) && len(a.records) > 0 {
		cr := &domain.CostRange{Min: a.records[0].Cost, Max: a.records[0].Cost}
		for _, r := range a.records {
			if r.Cost < cr.Min {
				cr.Min = r.Cost
			}
			if r.Cost > cr.Max {
				cr.Max = r.Cost
			}
			cr.Total += r.Cost
		}
		cr.Total = round(cr.Total, 2)
		s.CostRange = cr
	}
	return s
}
