package exporter

import (
	"errors"
	"fmt"

	"fardash/internal/dataprocessing"
	"fardash/pkg/contracts/domain"
)

// ErrUnknownReport is returned by Build for names not in ReportNames.
var ErrUnknownReport = errors.New("unknown report")

// Report is a named table of string fields ready to be written.
type Report struct {
	Name    string
	Headers []string
	Records [][]string
}

// ReportNames lists the report names accepted by export URLs and the CLI.
var ReportNames = []string{
	"categories",
	"locations",
	"custodians",
	"manufacturers",
	"years",
	"search",
	"high-value",
	"fully-depreciated",
	"forecast",
	"quality",
	"missing",
}

// Params carries the inputs of the parameterized reports.
type Params struct {
	Term               string
	Limit              int
	HighValueThreshold float64
	CustodianLimit     int
	ForecastMonths     int
}

// Build renders the named report from an analyzed dataset and its pipeline
// report.
func Build(name string, a *dataprocessing.Analyzer, rep *dataprocessing.Report, p Params) (Report, error) {
	switch name {
	case "categories":
		return GroupReport(name, a.ByCategory()), nil
	case "locations":
		return GroupReport(name, a.ByLocation()), nil
	case "custodians":
		return GroupReport(name, a.ByCustodian(p.CustodianLimit)), nil
	case "manufacturers":
		return GroupReport(name, a.ByManufacturer()), nil
	case "years":
		return YearReport(a.ByServiceYear()), nil
	case "search":
		return AssetReport(name, a.Search(p.Term, p.Limit)), nil
	case "high-value":
		return AssetReport(name, a.HighValue(p.HighValueThreshold)), nil
	case "fully-depreciated":
		return AssetReport(name, a.FullyDepreciated()), nil
	case "forecast":
		return ForecastReport(a.Forecast(p.ForecastMonths)), nil
	case "quality":
		return QualityReport(rep.Quality), nil
	case "missing":
		return MissingReport(rep.Missing), nil
	}
	return Report{}, fmt.Errorf("%w: %q", ErrUnknownReport, name)
}

// GroupReport renders grouped totals. Optional columns are included only
// when at least one group carries a value for them.
func GroupReport(name string, groups []domain.GroupSummary) Report {
	var withRate, withShare, withAvg bool
	for _, g := range groups {
		withRate = withRate || g.DepreciationRate != 0
		withShare = withShare || g.CostShare != 0
		withAvg = withAvg || g.AverageCost != 0
	}

	headers := []string{"Key", "Count", "Cost", "Depreciation", "Net_Book_Value"}
	if withRate {
		headers = append(headers, "Depreciation_Rate")
	}
	if withShare {
		headers = append(headers, "Cost_Percentage")
	}
	if withAvg {
		headers = append(headers, "Average_Cost")
	}

	records := make([][]string, 0, len(groups))
	for _, g := range groups {
		row := []string{g.Key, formatInt(g.Count), formatFloat(g.Cost), formatFloat(g.Depreciation), formatFloat(g.NetBookValue)}
		if withRate {
			row = append(row, formatFloat(g.DepreciationRate))
		}
		if withShare {
			row = append(row, formatFloat(g.CostShare))
		}
		if withAvg {
			row = append(row, formatFloat(g.AverageCost))
		}
		records = append(records, row)
	}
	return Report{Name: name, Headers: headers, Records: records}
}

// YearReport renders per-year totals.
func YearReport(years []domain.YearSummary) Report {
	records := make([][]string, 0, len(years))
	for _, y := range years {
		records = append(records, []string{formatInt(y.Year), formatInt(y.Count), formatFloat(y.Cost), formatFloat(y.Depreciation), formatFloat(y.NetBookValue)})
	}
	return Report{
		Name:    "years",
		Headers: []string{"Service_Year", "Count", "Cost", "Depreciation", "Net_Book_Value"},
		Records: records,
	}
}

// AssetReport renders asset records with their derived metrics.
func AssetReport(name string, assets []domain.AssetRecord) Report {
	records := make([][]string, 0, len(assets))
	for _, a := range assets {
		year := ""
		if a.ServiceYear != 0 {
			year = formatInt(a.ServiceYear)
		}
		records = append(records, []string{
			a.TagNumber,
			a.Description,
			a.Custodian,
			a.City,
			a.Category,
			a.Manufacturer,
			formatFloat(a.Cost),
			formatFloat(a.Depreciation),
			formatFloat(a.NetBookValue),
			formatDate(a.InService),
			formatFloat(a.Age),
			formatFloat(a.DepreciationRate),
			string(a.Condition),
			string(a.ValueTier),
			formatOptionalFloat(a.RemainingLife),
			year,
		})
	}
	return Report{
		Name: name,
		Headers: []string{
			"Tag_number", "Asset_Description", "Custodian", "City", "Category", "Manufacturer",
			"Cost", "Depreciation_amount", "Net_Book_Value", "Date_Placed_in_Service",
			"Asset_Age", "Depreciation_Rate", "Asset_Condition", "Value_Category", "Remaining_Life", "Service_Year",
		},
		Records: records,
	}
}

// ForecastReport renders a depreciation projection.
func ForecastReport(entries []domain.ForecastEntry) Report {
	records := make([][]string, 0, len(entries))
	for _, e := range entries {
		records = append(records, []string{
			e.TagNumber,
			e.Description,
			formatFloat(e.CurrentNetValue),
			formatFloat(e.FutureNetValue),
			formatFloat(e.DepreciationIncrease),
			formatInt(e.Months),
		})
	}
	return Report{
		Name:    "forecast",
		Headers: []string{"Tag_number", "Asset_Description", "Current_Net_Value", "Future_Net_Value", "Depreciation_Increase", "Months"},
		Records: records,
	}
}

// QualityReport renders data-quality issues.
func QualityReport(q domain.QualityReport) Report {
	records := make([][]string, 0, len(q.Issues))
	for _, issue := range q.Issues {
		records = append(records, []string{string(issue.Code), formatInt(issue.Count), issue.Message()})
	}
	return Report{
		Name:    "quality",
		Headers: []string{"Code", "Count", "Message"},
		Records: records,
	}
}

// MissingReport renders per-column missing-value counts.
func MissingReport(stats []dataprocessing.MissingStat) Report {
	records := make([][]string, 0, len(stats))
	for _, m := range stats {
		records = append(records, []string{m.Column, formatInt(m.Count), formatFloat(m.Percent)})
	}
	return Report{
		Name:    "missing",
		Headers: []string{"Column", "Missing_Count", "Missing_Percentage"},
		Records: records,
	}
}
