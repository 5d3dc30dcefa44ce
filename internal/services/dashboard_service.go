package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"fardash/internal/config"
	"fardash/internal/dataprocessing"
	apperrors "fardash/internal/errors"
	"fardash/internal/exporter"
	"fardash/internal/files"
	"fardash/internal/infrastructure"
	"fardash/internal/validation"
	api "fardash/pkg/contracts/api/v1"
	"fardash/pkg/contracts/domain"
)

// Session is one processed register held in memory. The dataset is written
// once by CreateSession and only read afterwards.
type Session struct {
	ID        string
	Source    dataprocessing.Source
	Report    *dataprocessing.Report
	Analyzer  *dataprocessing.Analyzer
	CreatedAt time.Time

	lastUsed atomic.Int64
}

// NewSession wraps a processed dataset.
func NewSession(id string, ds *dataprocessing.Dataset, rep *dataprocessing.Report, now time.Time) *Session {
	s := &Session{
		ID:        id,
		Report:    rep,
		Analyzer:  dataprocessing.NewAnalyzer(ds),
		CreatedAt: now,
	}
	if rep != nil {
		s.Source = rep.Source
	}
	s.touch(now)
	return s
}

// LastUsed returns the time of the last lookup.
func (s *Session) LastUsed() time.Time {
	return time.Unix(0, s.lastUsed.Load())
}

func (s *Session) touch(now time.Time) {
	s.lastUsed.Store(now.UnixNano())
}

func (s *Session) expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.LastUsed()) >= ttl
}

// Option configures a DashboardService.
type Option func(*DashboardService)

// WithClock replaces time.Now for session expiry and asset age.
func WithClock(now func() time.Time) Option {
	return func(s *DashboardService) { s.now = now }
}

// WithMetrics records session and export instruments.
func WithMetrics(m *infrastructure.DashboardMetrics) Option {
	return func(s *DashboardService) { s.metrics = m }
}

// DashboardService owns the session registry and turns processed registers
// into analytics and exports.
type DashboardService struct {
	cfg       *config.Config
	pipeline  *dataprocessing.Pipeline
	discovery *files.Discovery
	csv       *exporter.CSVWriter
	xlsx      *exporter.XLSXWriter
	outputs   *validation.FileValidator
	metrics   *infrastructure.DashboardMetrics
	logger    *slog.Logger
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewDashboardService creates the service from configuration.
func NewDashboardService(cfg *config.Config, logger *slog.Logger, opts ...Option) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &DashboardService{
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "dashboard_service")),
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.pipeline = dataprocessing.NewPipeline(dataprocessing.Options{
		Thresholds: cfg.Analysis.Thresholds,
		Clock:      s.now,
		Logger:     logger,
	})
	s.discovery = files.NewDiscovery(cfg.Data.Dir, logger)
	s.csv = exporter.NewCSVWriter(cfg.Data.ExportDir, logger)
	s.xlsx = exporter.NewXLSXWriter(logger)
	s.outputs = validation.NewFileValidator(logger)

	s.logger.Info("DashboardService initialized",
		slog.String("data_file", cfg.DataFile()),
		slog.String("sheet", cfg.Data.Sheet),
		slog.Duration("session_ttl", cfg.Sessions.TTL),
		slog.Int("max_sessions", cfg.Sessions.Max))
	return s
}

// CreateSession loads and processes a register. Fields left empty in req
// fall back to the configured data source.
func (s *DashboardService) CreateSession(ctx context.Context, req api.CreateSessionRequest) (*Session, error) {
	src := dataprocessing.Source{
		Path:      s.cfg.DataFile(),
		Sheet:     s.cfg.Data.Sheet,
		HeaderRow: s.cfg.Data.HeaderRow,
	}
	if req.File != "" {
		src.Path = s.cfg.ResolveDataPath(req.File)
	}
	if req.Sheet != "" {
		src.Sheet = req.Sheet
	}
	if req.HeaderRow > 0 {
		src.HeaderRow = req.HeaderRow
	}

	ds, rep, err := s.pipeline.Run(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("failed to process register: %w", err)
	}

	now := s.now()
	sess := NewSession(uuid.NewString(), ds, rep, now)

	s.mu.Lock()
	s.sweepLocked(ctx, now)
	for len(s.sessions) >= s.cfg.Sessions.Max {
		s.evictOldestLocked(ctx)
	}
	s.sessions[sess.ID] = sess
	count := len(s.sessions)
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.SessionsCreated.Add(ctx, 1)
		s.metrics.SessionsActive.Add(ctx, 1)
	}
	s.logger.InfoContext(ctx, "Session created",
		slog.String("session_id", sess.ID),
		slog.String("file", filepath.Base(src.Path)),
		slog.String("sheet", src.Sheet),
		slog.Int("rows", rep.Rows),
		slog.Int("sessions", count))
	return sess, nil
}

// Session returns a live session and marks it used.
func (s *DashboardService) Session(ctx context.Context, id string) (*Session, error) {
	now := s.now()

	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if sess.expired(now, s.cfg.Sessions.TTL) {
		s.mu.Lock()
		if s.sessions[id] == sess {
			s.removeLocked(ctx, id, "expired")
		}
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	sess.touch(now)
	return sess, nil
}

// CloseSession drops a session.
func (s *DashboardService) CloseSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(s.sessions, id)
	if s.metrics != nil {
		s.metrics.SessionsActive.Add(ctx, -1)
	}
	s.logger.InfoContext(ctx, "Session closed", slog.String("session_id", id))
	return nil
}

// ListSessions returns live sessions, oldest first.
func (s *DashboardService) ListSessions(ctx context.Context) []*Session {
	s.mu.Lock()
	s.sweepLocked(ctx, s.now())
	out := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// SessionCount returns the number of sessions held, expired or not.
func (s *DashboardService) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// ExpiresAt returns when sess lapses if left unused.
func (s *DashboardService) ExpiresAt(sess *Session) time.Time {
	return sess.LastUsed().Add(s.cfg.Sessions.TTL)
}

// Workbooks lists the workbooks in the data directory.
func (s *DashboardService) Workbooks(ctx context.Context) ([]files.Workbook, error) {
	workbooks, err := s.discovery.FindWorkbooks(s.cfg.Data.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list workbooks: %w", err)
	}
	s.logger.DebugContext(ctx, "Workbooks listed", slog.Int("count", len(workbooks)))
	return workbooks, nil
}

// Asset returns one asset record by tag.
func (s *DashboardService) Asset(ctx context.Context, id, tag string) (domain.AssetRecord, error) {
	sess, err := s.Session(ctx, id)
	if err != nil {
		return domain.AssetRecord{}, err
	}
	asset, ok := sess.Analyzer.Asset(tag)
	if !ok {
		return domain.AssetRecord{}, fmt.Errorf("%w: %s", ErrAssetNotFound, tag)
	}
	return asset, nil
}

// BuildReport renders a named report for a session. Zero params take the
// configured analysis defaults.
func (s *DashboardService) BuildReport(ctx context.Context, id, name string, p exporter.Params) (exporter.Report, error) {
	if p.Limit < 0 || p.HighValueThreshold < 0 || p.CustodianLimit < 0 || p.ForecastMonths < 0 {
		return exporter.Report{}, apperrors.NewAppValidationError("report parameters must not be negative")
	}
	sess, err := s.Session(ctx, id)
	if err != nil {
		return exporter.Report{}, err
	}
	report, err := exporter.Build(name, sess.Analyzer, sess.Report, s.ResolveParams(p))
	if errors.Is(err, exporter.ErrUnknownReport) {
		return exporter.Report{}, fmt.Errorf("%w: %s", ErrReportNotFound, name)
	}
	return report, err
}

// ExportCSV writes a named report as BOM-prefixed CSV.
func (s *DashboardService) ExportCSV(ctx context.Context, w io.Writer, id, name string, p exporter.Params) error {
	report, err := s.BuildReport(ctx, id, name, p)
	if err != nil {
		return err
	}
	if err := s.csv.Write(w, exporter.WriteOptions{
		Headers:   report.Headers,
		Records:   report.Records,
		BOMPrefix: true,
	}); err != nil {
		return fmt.Errorf("failed to export %s: %w", name, err)
	}
	s.recordExport(ctx, "csv", name)
	return nil
}

// ExportXLSX writes the processed table and the standard reports as one
// workbook.
func (s *DashboardService) ExportXLSX(ctx context.Context, w io.Writer, id string) error {
	sheets, err := s.workbookSheets(ctx, id)
	if err != nil {
		return err
	}
	if err := s.xlsx.Write(w, sheets...); err != nil {
		return fmt.Errorf("failed to export workbook: %w", err)
	}
	s.recordExport(ctx, "xlsx", "workbook")
	return nil
}

// SaveReport writes a named report under the export directory and returns
// the file path.
func (s *DashboardService) SaveReport(ctx context.Context, id, name string, p exporter.Params) (string, error) {
	report, err := s.BuildReport(ctx, id, name, p)
	if err != nil {
		return "", err
	}
	path, err := s.exportPath(name, "csv")
	if err != nil {
		return "", err
	}
	if err := s.csv.WriteReport(path, report); err != nil {
		return "", apperrors.NewStorageError("failed to save "+name, err)
	}
	s.recordExport(ctx, "csv", name)
	return path, nil
}

// SaveWorkbook writes the processed workbook under the export directory.
func (s *DashboardService) SaveWorkbook(ctx context.Context, id string) (string, error) {
	sheets, err := s.workbookSheets(ctx, id)
	if err != nil {
		return "", err
	}
	path, err := s.exportPath("processed_assets", "xlsx")
	if err != nil {
		return "", err
	}
	if err := s.xlsx.Save(path, sheets...); err != nil {
		return "", apperrors.NewStorageError("failed to save workbook", err)
	}
	s.recordExport(ctx, "xlsx", "workbook")
	return path, nil
}

// exportPath returns a timestamped file path in the export directory after
// checking the directory is writable.
func (s *DashboardService) exportPath(name, ext string) (string, error) {
	if err := s.outputs.ValidateOutputDirectory(s.cfg.Data.ExportDir); err != nil {
		return "", apperrors.NewStorageError("export directory unavailable", err)
	}
	return filepath.Join(s.cfg.Data.ExportDir, exportFileName(name, ext, s.now())), nil
}

// WorkbookReports are the report sheets added after the processed table.
var WorkbookReports = []string{"categories", "locations", "custodians", "years", "quality", "missing"}

func (s *DashboardService) workbookSheets(ctx context.Context, id string) ([]exporter.Sheet, error) {
	sess, err := s.Session(ctx, id)
	if err != nil {
		return nil, err
	}
	sheets := []exporter.Sheet{exporter.TableSheet("Processed", sess.Analyzer.Dataset().Table)}
	for _, name := range WorkbookReports {
		report, err := exporter.Build(name, sess.Analyzer, sess.Report, s.ResolveParams(exporter.Params{}))
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, exporter.ReportSheet(report))
	}
	return sheets, nil
}

// ResolveParams fills zero report parameters from the analysis configuration.
func (s *DashboardService) ResolveParams(p exporter.Params) exporter.Params {
	if p.Limit <= 0 {
		p.Limit = s.cfg.Analysis.SearchLimit
	}
	if p.HighValueThreshold <= 0 {
		p.HighValueThreshold = s.cfg.Analysis.HighValueThreshold
	}
	if p.CustodianLimit <= 0 {
		p.CustodianLimit = s.cfg.Analysis.CustodianLimit
	}
	if p.ForecastMonths <= 0 {
		p.ForecastMonths = s.cfg.Analysis.ForecastMonths
	}
	return p
}

func (s *DashboardService) recordExport(ctx context.Context, format, report string) {
	if s.metrics != nil {
		s.metrics.ExportsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("format", format),
			attribute.String("report", report)))
	}
	s.logger.InfoContext(ctx, "Export written",
		slog.String("format", format),
		slog.String("report", report))
}

func (s *DashboardService) sweepLocked(ctx context.Context, now time.Time) {
	for id, sess := range s.sessions {
		if sess.expired(now, s.cfg.Sessions.TTL) {
			s.removeLocked(ctx, id, "expired")
		}
	}
}

func (s *DashboardService) evictOldestLocked(ctx context.Context) {
	var oldest *Session
	for _, sess := range s.sessions {
		if oldest == nil || sess.LastUsed().Before(oldest.LastUsed()) {
			oldest = sess
		}
	}
	if oldest != nil {
		s.removeLocked(ctx, oldest.ID, "capacity")
	}
}

func (s *DashboardService) removeLocked(ctx context.Context, id, reason string) {
	delete(s.sessions, id)
	if s.metrics != nil {
		s.metrics.SessionsActive.Add(ctx, -1)
		s.metrics.SessionsEvicted.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	}
	s.logger.InfoContext(ctx, "Session evicted",
		slog.String("session_id", id),
		slog.String("reason", reason))
}

func exportFileName(name, ext string, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", name, now.Format("20060102_150405"), ext)
}
