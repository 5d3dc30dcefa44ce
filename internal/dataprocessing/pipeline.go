package dataprocessing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"fardash/pkg/contracts/domain"
)

// TracerName is used for pipeline spans and instruments.
const TracerName = "fardash/dataprocessing"

// StageStatus is the outcome class of one pipeline stage.
type StageStatus string

const (
	StageSucceeded StageStatus = "succeeded"
	StagePartial   StageStatus = "partial"
	StageSkipped   StageStatus = "skipped"
	StageFailed    StageStatus = "failed"
)

// Outcome is what a stage reports about its own run.
type Outcome struct {
	Status  StageStatus
	Reasons []string
}

// Succeeded reports a complete stage run.
func Succeeded() Outcome { return Outcome{Status: StageSucceeded} }

// Partial reports a stage that ran but could not derive everything.
func Partial(reasons ...string) Outcome { return Outcome{Status: StagePartial, Reasons: reasons} }

// Skipped reports a stage that had nothing it could do.
func Skipped(reasons ...string) Outcome { return Outcome{Status: StageSkipped, Reasons: reasons} }

// StageResult records one stage run in the pipeline report.
type StageResult struct {
	Stage    string        `json:"stage"`
	Version  int           `json:"version"`
	Status   StageStatus   `json:"status"`
	Reasons  []string      `json:"reasons,omitempty"`
	Rows     int           `json:"rows"`
	Duration time.Duration `json:"duration_ns"`
}

// Dataset is the table flowing through the pipeline together with its
// schema bindings.
type Dataset struct {
	Table   *Table
	Columns Mapping
}

func (d *Dataset) clone() *Dataset {
	cols := make(Mapping, len(d.Columns))
	for k, v := range d.Columns {
		cols[k] = v
	}
	return &Dataset{Table: d.Table.Clone(), Columns: cols}
}

// Report summarizes a pipeline run.
type Report struct {
	Source      Source               `json:"source"`
	RowsLoaded  int                  `json:"rows_loaded"`
	RowsDropped int                  `json:"rows_dropped"`
	Rows        int                  `json:"rows"`
	Columns     []string             `json:"columns"`
	Mapping     Mapping              `json:"mapping"`
	Stages      []StageResult        `json:"stages"`
	Missing     []MissingStat        `json:"missing"`
	Quality     domain.QualityReport `json:"quality"`
	StartedAt   time.Time            `json:"started_at"`
	Duration    time.Duration        `json:"duration_ns"`
}

// Stage is one versioned step of the pipeline. A stage works on a private
// copy of the dataset; if it returns an error or panics the copy is thrown
// away.
type Stage interface {
	Name() string
	Version() int
	Apply(ctx context.Context, ds *Dataset, rep *Report) (Outcome, error)
}

// Options configures a Pipeline.
type Options struct {
	Schema     *Schema
	Thresholds Thresholds
	Clock      func() time.Time
	Logger     *slog.Logger
}

// Pipeline loads a worksheet and runs the cleaning, derivation and quality
// stages over it.
type Pipeline struct {
	loader *Loader
	stages []Stage
	logger *slog.Logger
	tracer trace.Tracer

	stageRuns     metric.Int64Counter
	stageDuration metric.Float64Histogram
}

// NewPipeline builds the canonical stage sequence.
func NewPipeline(opts Options) *Pipeline {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Schema == nil {
		opts.Schema = DefaultSchema()
	}
	if opts.Thresholds == (Thresholds{}) {
		opts.Thresholds = DefaultThresholds()
	}
	logger := opts.Logger.With(slog.String("component", "pipeline"))

	return NewPipelineWithStages(NewLoader(opts.Logger), logger,
		columnStage{schema: opts.Schema},
		pruneStage{},
		coerceStage{schema: opts.Schema},
		fillStage{logger: logger},
		NewMetricCalculator(opts.Thresholds, opts.Clock),
		qualityStage{},
	)
}

// NewPipelineWithStages builds a pipeline running the given stages in order.
func NewPipelineWithStages(loader *Loader, logger *slog.Logger, stages ...Stage) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	meter := otel.Meter(TracerName)
	p := &Pipeline{
		loader: loader,
		stages: stages,
		logger: logger,
		tracer: otel.Tracer(TracerName),
	}

	var err error
	p.stageRuns, err = meter.Int64Counter("fardash.pipeline.stage.runs",
		metric.WithDescription("Pipeline stage runs by stage and status"))
	if err != nil {
		logger.Warn("Failed to create stage counter", slog.String("error", err.Error()))
	}
	p.stageDuration, err = meter.Float64Histogram("fardash.pipeline.stage.duration",
		metric.WithDescription("Pipeline stage duration"),
		metric.WithUnit("s"))
	if err != nil {
		logger.Warn("Failed to create stage histogram", slog.String("error", err.Error()))
	}
	return p
}

// Run loads src and processes it. Only loading errors are returned; stage
// failures are recorded in the report.
func (p *Pipeline) Run(ctx context.Context, src Source) (*Dataset, *Report, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.run",
		trace.WithAttributes(
			attribute.String("workbook.path", src.Path),
			attribute.String("workbook.sheet", src.Sheet),
		))
	defer span.End()

	table, err := p.loader.Load(ctx, src)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		return nil, nil, err
	}
	if src.HeaderRow <= 0 {
		src.HeaderRow = DefaultHeaderRow
	}

	ds, rep := p.Process(ctx, table)
	rep.Source = src
	span.SetAttributes(attribute.Int("rows", rep.Rows))
	return ds, rep, nil
}

// Process runs every stage over table. The input table is not modified.
func (p *Pipeline) Process(ctx context.Context, table *Table) (*Dataset, *Report) {
	rep := &Report{
		RowsLoaded: table.Len(),
		Columns:    append([]string(nil), table.Columns...),
		StartedAt:  time.Now(),
	}
	ds := &Dataset{Table: table.Clone(), Columns: Mapping{}}

	for _, stage := range p.stages {
		var res StageResult
		ds, res = p.runStage(ctx, stage, ds, rep)
		rep.Stages = append(rep.Stages, res)
	}

	rep.Rows = ds.Table.Len()
	rep.Mapping = ds.Columns
	rep.Duration = time.Since(rep.StartedAt)

	p.logger.InfoContext(ctx, "Pipeline completed",
		slog.Int("rows_loaded", rep.RowsLoaded),
		slog.Int("rows", rep.Rows),
		slog.Int("issues", len(rep.Quality.Issues)),
		slog.Duration("duration", rep.Duration))
	return ds, rep
}

func (p *Pipeline) runStage(ctx context.Context, stage Stage, in *Dataset, rep *Report) (*Dataset, StageResult) {
	ctx, span := p.tracer.Start(ctx, "pipeline.stage."+stage.Name(),
		trace.WithAttributes(attribute.Int("stage.version", stage.Version())))
	defer span.End()

	start := time.Now()
	work := in.clone()
	// Stages write into a scratch report so a failed stage leaves no trace.
	scratch := *rep
	outcome, err := applySafely(ctx, stage, work, &scratch)

	res := StageResult{
		Stage:   stage.Name(),
		Version: stage.Version(),
		Status:  outcome.Status,
		Reasons: outcome.Reasons,
	}
	out := work
	if err != nil {
		res.Status = StageFailed
		res.Reasons = append(res.Reasons, err.Error())
		out = in
		var sp *stagePanic
		if errors.As(err, &sp) {
			p.logger.ErrorContext(ctx, "Stage panicked",
				slog.String("stage", stage.Name()),
				slog.Any("panic", sp.value),
				slog.String("stack", string(sp.stack)))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		*rep = scratch
		if res.Status == "" {
			res.Status = StageSucceeded
		}
	}
	res.Rows = out.Table.Len()
	res.Duration = time.Since(start)

	attrs := []slog.Attr{
		slog.String("stage", res.Stage),
		slog.Int("version", res.Version),
		slog.String("status", string(res.Status)),
		slog.Int("rows", res.Rows),
		slog.Duration("duration", res.Duration),
	}
	switch res.Status {
	case StageSucceeded, StageSkipped:
		p.logger.LogAttrs(ctx, slog.LevelInfo, "Stage completed", attrs...)
	default:
		attrs = append(attrs, slog.Any("reasons", res.Reasons))
		p.logger.LogAttrs(ctx, slog.LevelWarn, "Stage completed with problems", attrs...)
	}

	metricAttrs := metric.WithAttributes(
		attribute.String("stage", res.Stage),
		attribute.String("status", string(res.Status)),
	)
	if p.stageRuns != nil {
		p.stageRuns.Add(ctx, 1, metricAttrs)
	}
	if p.stageDuration != nil {
		p.stageDuration.Record(ctx, res.Duration.Seconds(), metricAttrs)
	}
	span.SetAttributes(attribute.String("stage.status", string(res.Status)))

	return out, res
}

// stagePanic carries a recovered panic out of a stage.
type stagePanic struct {
	value interface{}
	stack []byte
}

func (p *stagePanic) Error() string { return fmt.Sprintf("panic: %v", p.value) }

func applySafely(ctx context.Context, stage Stage, ds *Dataset, rep *Report) (out Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &stagePanic{value: r, stack: debug.Stack()}
		}
	}()
	return stage.Apply(ctx, ds, rep)
}
