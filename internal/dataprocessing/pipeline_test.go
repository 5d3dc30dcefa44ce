package dataprocessing

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fardash/internal/shared/testutil"
	"fardash/pkg/contracts/domain"
)

func fixturePipeline(t *testing.T) (*Pipeline, *testutil.BufferedSlogHandler) {
	t.Helper()
	logger, logs := testutil.NewTestLogger(t)
	return NewPipeline(Options{
		Logger: logger,
		Clock:  func() time.Time { return testutil.RegisterClock },
	}), logs
}

func TestPipeline_Run(t *testing.T) {
	p, logs := fixturePipeline(t)

	ds, rep, err := p.Run(context.Background(), Source{Path: testutil.WriteRegister(t), Sheet: testutil.RegisterSheet})
	require.NoError(t, err)

	assert.Equal(t, DefaultHeaderRow, rep.Source.HeaderRow)
	assert.Equal(t, 5, rep.RowsLoaded)
	assert.Equal(t, 1, rep.RowsDropped)
	assert.Equal(t, 4, rep.Rows)
	assert.True(t, rep.Quality.OK())

	stages := make(map[string]StageStatus)
	for _, s := range rep.Stages {
		stages[s.Stage] = s.Status
	}
	assert.Equal(t, map[string]StageStatus{
		"clean_columns":  StageSucceeded,
		"prune_rows":     StageSucceeded,
		"coerce_types":   StageSucceeded,
		"fill_missing":   StageSucceeded,
		"derive_metrics": StageSucceeded,
		"quality_checks": StageSucceeded,
	}, stages)

	assert.Equal(t, "Level_1_FA_Module_English_Description", rep.Mapping[FieldCategory])
	assert.Equal(t, "Date_Placed_in_Service", ds.Columns[FieldInService])

	records := Records(ds)
	require.Len(t, records, 4)

	laptop := records[0]
	assert.Equal(t, "T-001", laptop.TagNumber)
	assert.Equal(t, 4.0, laptop.Age)
	assert.Equal(t, 80.0, laptop.DepreciationRate)
	assert.Equal(t, domain.ConditionOld, laptop.Condition)
	assert.Equal(t, domain.ValueTierMedium, laptop.ValueTier)
	require.NotNil(t, laptop.RemainingLife)
	assert.Equal(t, 1.0, *laptop.RemainingLife)
	assert.Equal(t, 2020, laptop.ServiceYear)

	rack := records[2]
	assert.Nil(t, rack.UsefulLife, "N/A useful life is missing")
	assert.Nil(t, rack.RemainingLife)
	assert.Equal(t, 1.8, rack.Age)
	assert.Equal(t, domain.ConditionNew, rack.Condition)

	vehicle := records[3]
	assert.Equal(t, domain.Unspecified, vehicle.Description)
	assert.Equal(t, domain.Unspecified, vehicle.Custodian)
	assert.Equal(t, 12500.0, vehicle.Cost)
	assert.Equal(t, 0.0, vehicle.Age)
	assert.Equal(t, 0, vehicle.ServiceYear)
	assert.Nil(t, vehicle.InService)

	for _, r := range records {
		assert.GreaterOrEqual(t, r.DepreciationRate, 0.0)
		assert.LessOrEqual(t, r.DepreciationRate, 100.0)
		if r.RemainingLife != nil {
			assert.GreaterOrEqual(t, *r.RemainingLife, 0.0)
		}
	}

	testutil.AssertLogContains(t, logs, slog.LevelInfo, "Pipeline completed")
	testutil.AssertNoErrors(t, logs)
}

func TestPipeline_RunLoadFailure(t *testing.T) {
	p, _ := fixturePipeline(t)

	_, _, err := p.Run(context.Background(), Source{Path: "/nonexistent/assets.xlsx"})

	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestPipeline_ProcessLeavesInputUntouched(t *testing.T) {
	table := NewTable([]string{"Tag number", "Cost"}, [][]Cell{{Text("A"), Text("1,000")}})
	p := NewPipeline(Options{})

	_, _ = p.Process(context.Background(), table)

	assert.Equal(t, []string{"Tag number", "Cost"}, table.Columns)
	assert.Equal(t, Text("1,000"), table.Cell(0, "Cost"))
}

func TestPipeline_Idempotent(t *testing.T) {
	p, _ := fixturePipeline(t)
	ds, _, err := p.Run(context.Background(), Source{Path: testutil.WriteRegister(t)})
	require.NoError(t, err)

	again, _ := p.Process(context.Background(), ds.Table)

	assert.Equal(t, ds.Table.Columns, again.Table.Columns)
	assert.Equal(t, Records(ds), Records(again))
}

type mutatingStage struct {
	err    error
	panics bool
}

func (mutatingStage) Name() string { return "mutate" }
func (mutatingStage) Version() int { return 7 }

func (s mutatingStage) Apply(_ context.Context, ds *Dataset, rep *Report) (Outcome, error) {
	ds.Table.Rows = ds.Table.Rows[:0]
	ds.Columns[FieldCity] = "bogus"
	rep.RowsDropped = 99
	if s.panics {
		var m map[string]int
		m["boom"]++
	}
	return Succeeded(), s.err
}

func TestPipeline_FailedStageRollsBack(t *testing.T) {
	tests := []struct {
		name  string
		stage mutatingStage
	}{
		{"error", mutatingStage{err: errors.New("broken")}},
		{"panic", mutatingStage{panics: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			p := NewPipelineWithStages(nil, logger,
				columnStage{schema: DefaultSchema()},
				tt.stage,
				pruneStage{},
			)
			table := NewTable([]string{"Tag number", "City"}, [][]Cell{{Text("A"), Text("Riyadh")}})

			ds, rep := p.Process(context.Background(), table)

			require.Len(t, rep.Stages, 3)
			failed := rep.Stages[1]
			assert.Equal(t, "mutate", failed.Stage)
			assert.Equal(t, 7, failed.Version)
			assert.Equal(t, StageFailed, failed.Status)
			assert.NotEmpty(t, failed.Reasons)
			assert.Equal(t, StageSucceeded, rep.Stages[2].Status, "later stages still run")

			assert.Equal(t, 1, ds.Table.Len())
			assert.Equal(t, "City", ds.Columns[FieldCity])
			assert.Equal(t, 0, rep.RowsDropped)
			testutil.AssertLogContains(t, logs, slog.LevelWarn, "Stage completed with problems")
		})
	}
}
