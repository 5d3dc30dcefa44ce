package exporter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fardash/internal/dataprocessing"
	"fardash/internal/shared/testutil"
	"fardash/pkg/contracts/domain"
)

func TestGroupReport(t *testing.T) {
	tests := []struct {
		name     string
		groups   []domain.GroupSummary
		headers  []string
		firstRow []string
	}{
		{
			name:     "plain",
			groups:   []domain.GroupSummary{{Key: "IT", Count: 2, Cost: 30000, Depreciation: 9000, NetBookValue: 21000}},
			headers:  []string{"Key", "Count", "Cost", "Depreciation", "Net_Book_Value"},
			firstRow: []string{"IT", "2", "30000.00", "9000.00", "21000.00"},
		},
		{
			name:     "with rate",
			groups:   []domain.GroupSummary{{Key: "Computers", Count: 2, Cost: 30000, Depreciation: 9000, NetBookValue: 21000, DepreciationRate: 30}},
			headers:  []string{"Key", "Count", "Cost", "Depreciation", "Net_Book_Value", "Depreciation_Rate"},
			firstRow: []string{"Computers", "2", "30000.00", "9000.00", "21000.00", "30.00"},
		},
		{
			name:     "with share",
			groups:   []domain.GroupSummary{{Key: "Riyadh", Count: 1, Cost: 10, CostShare: 68.65}},
			headers:  []string{"Key", "Count", "Cost", "Depreciation", "Net_Book_Value", "Cost_Percentage"},
			firstRow: []string{"Riyadh", "1", "10.00", "0.00", "0.00", "68.65"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := GroupReport("groups", tt.groups)
			assert.Equal(t, tt.headers, r.Headers)
			require.Len(t, r.Records, 1)
			assert.Equal(t, tt.firstRow, r.Records[0])
		})
	}
}

func TestAssetReport(t *testing.T) {
	inService := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	remaining := 1.0

	r := AssetReport("search", []domain.AssetRecord{
		{
			TagNumber: "T-001", Description: "Dell Laptop", Custodian: "IT", City: "Riyadh",
			Category: "Computers", Manufacturer: "Dell", Cost: 5000, Depreciation: 4000, NetBookValue: 1000,
			InService: &inService, Age: 4, DepreciationRate: 80, Condition: domain.ConditionOld,
			ValueTier: domain.ValueTierMedium, RemainingLife: &remaining, ServiceYear: 2020,
		},
		{TagNumber: "T-004"},
	})

	assert.Equal(t, "search", r.Name)
	require.Len(t, r.Records, 2)
	assert.Len(t, r.Records[0], len(r.Headers))
	assert.Equal(t, []string{
		"T-001", "Dell Laptop", "IT", "Riyadh", "Computers", "Dell",
		"5000.00", "4000.00", "1000.00", "2020-01-01",
		"4.00", "80.00", "old", "medium", "1.00", "2020",
	}, r.Records[0])
	assert.Equal(t, "", r.Records[1][9], "missing date")
	assert.Equal(t, "", r.Records[1][14], "missing remaining life")
	assert.Equal(t, "", r.Records[1][15], "missing service year")
}

func TestQualityAndMissingReports(t *testing.T) {
	q := QualityReport(domain.QualityReport{Issues: []domain.QualityIssue{{Code: domain.IssueDuplicateTag, Count: 3}}})
	assert.Equal(t, [][]string{{"duplicate_tag", "3", "duplicate tag numbers: 3 records"}}, q.Records)

	m := MissingReport([]dataprocessing.MissingStat{{Column: "City", Count: 2, Percent: 66.67}})
	assert.Equal(t, [][]string{{"City", "2", "66.67"}}, m.Records)

	y := YearReport([]domain.YearSummary{{Year: 2020, Count: 1, Cost: 5000, Depreciation: 4000, NetBookValue: 1000}})
	assert.Equal(t, []string{"Service_Year", "Count", "Cost", "Depreciation", "Net_Book_Value"}, y.Headers)
	assert.Equal(t, [][]string{{"2020", "1", "5000.00", "4000.00", "1000.00"}}, y.Records)

	f := ForecastReport([]domain.ForecastEntry{{TagNumber: "T-002", Description: "Desk", CurrentNetValue: 1200, FutureNetValue: 1080, DepreciationIncrease: 120, Months: 12}})
	assert.Equal(t, [][]string{{"T-002", "Desk", "1200.00", "1080.00", "120.00", "12"}}, f.Records)
}

func TestBuild(t *testing.T) {
	p := dataprocessing.NewPipeline(dataprocessing.Options{Clock: func() time.Time { return testutil.RegisterClock }})
	ds, rep, err := p.Run(context.Background(), dataprocessing.Source{Path: testutil.WriteRegister(t), Sheet: testutil.RegisterSheet})
	require.NoError(t, err)
	a := dataprocessing.NewAnalyzer(ds)

	tests := []struct {
		name    string
		params  Params
		records int
	}{
		{"categories", Params{}, 3},
		{"custodians", Params{CustodianLimit: 1}, 1},
		{"years", Params{}, 3},
		{"search", Params{Term: "riyadh"}, 2},
		{"high-value", Params{HighValueThreshold: 10000}, 2},
		{"fully-depreciated", Params{}, 1},
		{"forecast", Params{ForecastMonths: 6}, 4},
		{"quality", Params{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Build(tt.name, a, rep, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.name, r.Name)
			assert.Len(t, r.Records, tt.records)
		})
	}

	_, err = Build("bogus", a, rep, Params{})
	assert.ErrorIs(t, err, ErrUnknownReport)
}
