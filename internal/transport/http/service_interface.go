package http

import (
	"context"
	"io"
	"time"

	"fardash/internal/exporter"
	"fardash/internal/files"
	"fardash/internal/services"
	api "fardash/pkg/contracts/api/v1"
	"fardash/pkg/contracts/domain"
)

// DashboardServiceInterface defines the session and export operations the
// handlers need.
type DashboardServiceInterface interface {
	CreateSession(ctx context.Context, req api.CreateSessionRequest) (*services.Session, error)
	Session(ctx context.Context, id string) (*services.Session, error)
	CloseSession(ctx context.Context, id string) error
	ListSessions(ctx context.Context) []*services.Session
	ExpiresAt(sess *services.Session) time.Time
	Workbooks(ctx context.Context) ([]files.Workbook, error)
	Asset(ctx context.Context, id, tag string) (domain.AssetRecord, error)
	ResolveParams(p exporter.Params) exporter.Params
	ExportCSV(ctx context.Context, w io.Writer, id, name string, p exporter.Params) error
	ExportXLSX(ctx context.Context, w io.Writer, id string) error
}
