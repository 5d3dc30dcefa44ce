package http

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"fardash/internal/dataprocessing"
	apierrors "fardash/internal/errors"
	"fardash/internal/exporter"
	"fardash/internal/infrastructure"
	"fardash/internal/middleware"
	"fardash/internal/services"
	api "fardash/pkg/contracts/api/v1"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	maxListLimit      = 10000
	maxForecastMonths = 600
)

type sessionCtxKey struct{}

// DashboardHandler serves the register sessions and their analytics.
type DashboardHandler struct {
	service      DashboardServiceInterface
	validator    *middleware.Validator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates the dashboard handler.
func NewDashboardHandler(service DashboardServiceInterface, validator *middleware.Validator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the session routes, mounted under /api/sessions.
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateSession)
	r.Get("/", h.ListSessions)

	r.Route("/{id}", func(r chi.Router) {
		r.Use(h.SessionCtx)

		r.Get("/", h.GetSession)
		r.Delete("/", h.CloseSession)

		r.Get("/summary", h.Summary)
		r.Get("/data-summary", h.DataSummary)
		r.Get("/categories", h.Categories)
		r.Get("/locations", h.Locations)
		r.Get("/custodians", h.Custodians)
		r.Get("/manufacturers", h.Manufacturers)
		r.Get("/years", h.Years)
		r.Get("/quality", h.Quality)
		r.Get("/completeness", h.Completeness)
		r.Get("/patterns", h.Patterns)
		r.Get("/depreciation", h.Depreciation)
		r.Get("/high-value", h.HighValue)
		r.Get("/fully-depreciated", h.FullyDepreciated)
		r.Get("/forecast", h.Forecast)
		r.Get("/search", h.Search)

		r.Get("/assets", h.FilterAssets)
		r.Get("/assets/{tag}", h.GetAsset)

		r.Get("/export.xlsx", h.ExportXLSX)
		r.Get("/export/{report}.csv", h.ExportCSV)
	})

	return r
}

// ListWorkbooks handles GET /api/workbooks
func (h *DashboardHandler) ListWorkbooks(w http.ResponseWriter, r *http.Request) {
	workbooks, err := h.service.Workbooks(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	out := make([]api.WorkbookInfo, 0, len(workbooks))
	for _, wb := range workbooks {
		sheets := wb.Sheets
		if sheets == nil {
			sheets = []string{}
		}
		out = append(out, api.WorkbookInfo{
			Name:     wb.Name,
			Size:     wb.Size,
			Modified: wb.ModTime,
			Sheets:   sheets,
		})
	}
	respondList(w, r, out, len(out))
}

// SessionCtx loads the session named in the URL into the request context.
func (h *DashboardHandler) SessionCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := h.service.Session(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		ctx := infrastructure.WithSessionID(r.Context(), sess.ID)
		ctx = context.WithValue(ctx, sessionCtxKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(r *http.Request) *services.Session {
	sess, _ := r.Context().Value(sessionCtxKey{}).(*services.Session)
	return sess
}

// CreateSession handles POST /api/sessions
func (h *DashboardHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req api.CreateSessionRequest
	if err := h.validator.DecodeJSON(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	sess, err := h.service.CreateSession(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "session created",
		slog.String("session_id", sess.ID),
		slog.String("request_id", middleware.GetRequestID(r.Context())))

	render.Status(r, http.StatusCreated)
	respond(w, r, h.sessionResponse(sess))
}

// ListSessions handles GET /api/sessions
func (h *DashboardHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions := h.service.ListSessions(r.Context())
	out := make([]api.SessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		resp := h.sessionResponse(sess)
		resp.Report = nil
		out = append(out, resp)
	}
	respondList(w, r, out, len(out))
}

// GetSession handles GET /api/sessions/{id}
func (h *DashboardHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	respond(w, r, h.sessionResponse(sessionFrom(r)))
}

// CloseSession handles DELETE /api/sessions/{id}
func (h *DashboardHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	if err := h.service.CloseSession(r.Context(), sessionFrom(r).ID); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DashboardHandler) sessionResponse(sess *services.Session) api.SessionResponse {
	return api.SessionResponse{
		ID:        sess.ID,
		CreatedAt: sess.CreatedAt,
		ExpiresAt: h.service.ExpiresAt(sess),
		Report:    sess.Report,
	}
}

// Summary handles GET /api/sessions/{id}/summary
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	respond(w, r, sessionFrom(r).Analyzer.Summary())
}

// DataSummary handles GET /api/sessions/{id}/data-summary
func (h *DashboardHandler) DataSummary(w http.ResponseWriter, r *http.Request) {
	respond(w, r, sessionFrom(r).Analyzer.DataSummary())
}

// Categories handles GET /api/sessions/{id}/categories
func (h *DashboardHandler) Categories(w http.ResponseWriter, r *http.Request) {
	groups := sessionFrom(r).Analyzer.ByCategory()
	respondList(w, r, groups, len(groups))
}

// Locations handles GET /api/sessions/{id}/locations
func (h *DashboardHandler) Locations(w http.ResponseWriter, r *http.Request) {
	groups := sessionFrom(r).Analyzer.ByLocation()
	respondList(w, r, groups, len(groups))
}

// Custodians handles GET /api/sessions/{id}/custodians?limit=
func (h *DashboardHandler) Custodians(w http.ResponseWriter, r *http.Request) {
	def := h.service.ResolveParams(exporter.Params{}).CustodianLimit
	limit, err := middleware.QueryInt(r, "limit", 1, maxListLimit, def)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	groups := sessionFrom(r).Analyzer.ByCustodian(limit)
	respondList(w, r, groups, len(groups))
}

// Manufacturers handles GET /api/sessions/{id}/manufacturers
func (h *DashboardHandler) Manufacturers(w http.ResponseWriter, r *http.Request) {
	groups := sessionFrom(r).Analyzer.ByManufacturer()
	respondList(w, r, groups, len(groups))
}

// Years handles GET /api/sessions/{id}/years
func (h *DashboardHandler) Years(w http.ResponseWriter, r *http.Request) {
	years := sessionFrom(r).Analyzer.ByServiceYear()
	respondList(w, r, years, len(years))
}

// Quality handles GET /api/sessions/{id}/quality
func (h *DashboardHandler) Quality(w http.ResponseWriter, r *http.Request) {
	respond(w, r, sessionFrom(r).Report.Quality)
}

// Completeness handles GET /api/sessions/{id}/completeness
func (h *DashboardHandler) Completeness(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	ds := sess.Analyzer.Dataset()
	respond(w, r, api.CompletenessResponse{
		Completeness: dataprocessing.CheckCompleteness(ds.Columns, sess.Report.Missing, sess.Analyzer.Records()),
		Issues:       sess.Report.Quality.Messages(),
	})
}

// Patterns handles GET /api/sessions/{id}/patterns
func (h *DashboardHandler) Patterns(w http.ResponseWriter, r *http.Request) {
	respond(w, r, sessionFrom(r).Analyzer.Patterns())
}

// Depreciation handles GET /api/sessions/{id}/depreciation
func (h *DashboardHandler) Depreciation(w http.ResponseWriter, r *http.Request) {
	respond(w, r, sessionFrom(r).Analyzer.DepreciationAnalysis())
}

// HighValue handles GET /api/sessions/{id}/high-value?threshold=
func (h *DashboardHandler) HighValue(w http.ResponseWriter, r *http.Request) {
	def := h.service.ResolveParams(exporter.Params{}).HighValueThreshold
	threshold, err := middleware.QueryFloat(r, "threshold", def)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	assets := sessionFrom(r).Analyzer.HighValue(threshold)
	respondList(w, r, assets, len(assets))
}

// FullyDepreciated handles GET /api/sessions/{id}/fully-depreciated
func (h *DashboardHandler) FullyDepreciated(w http.ResponseWriter, r *http.Request) {
	assets := sessionFrom(r).Analyzer.FullyDepreciated()
	respondList(w, r, assets, len(assets))
}

// Forecast handles GET /api/sessions/{id}/forecast?months=
func (h *DashboardHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	def := h.service.ResolveParams(exporter.Params{}).ForecastMonths
	months, err := middleware.QueryInt(r, "months", 1, maxForecastMonths, def)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	entries := sessionFrom(r).Analyzer.Forecast(months)
	respondList(w, r, entries, len(entries))
}

// Search handles GET /api/sessions/{id}/search?q=&limit=
func (h *DashboardHandler) Search(w http.ResponseWriter, r *http.Request) {
	req, err := h.searchRequest(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	assets := sessionFrom(r).Analyzer.Search(req.Q, req.Limit)
	respondList(w, r, assets, len(assets))
}

func (h *DashboardHandler) searchRequest(r *http.Request) (api.SearchRequest, error) {
	def := h.service.ResolveParams(exporter.Params{}).Limit
	limit, err := middleware.QueryInt(r, "limit", 1, maxListLimit, def)
	if err != nil {
		return api.SearchRequest{}, err
	}
	req := api.SearchRequest{Q: r.URL.Query().Get("q"), Limit: limit}
	if err := h.validator.ValidateStruct(req); err != nil {
		return api.SearchRequest{}, err
	}
	return req, nil
}

// FilterAssets handles GET /api/sessions/{id}/assets. Every query parameter
// is a column filter matched by case-folded containment.
func (h *DashboardHandler) FilterAssets(w http.ResponseWriter, r *http.Request) {
	filters := make(map[string]string)
	for column, values := range r.URL.Query() {
		if len(values) > 0 && strings.TrimSpace(values[0]) != "" {
			filters[column] = values[0]
		}
	}
	assets := sessionFrom(r).Analyzer.Filter(filters)
	respondList(w, r, assets, len(assets))
}

// GetAsset handles GET /api/sessions/{id}/assets/{tag}
func (h *DashboardHandler) GetAsset(w http.ResponseWriter, r *http.Request) {
	asset, err := h.service.Asset(r.Context(), sessionFrom(r).ID, chi.URLParam(r, "tag"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	respond(w, r, asset)
}

// ExportXLSX handles GET /api/sessions/{id}/export.xlsx
func (h *DashboardHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	var buf bytes.Buffer
	if err := h.service.ExportXLSX(r.Context(), &buf, sess.ID); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	writeAttachment(w, contentTypeXLSX, "processed_assets.xlsx", buf.Bytes())
}

// ExportCSV handles GET /api/sessions/{id}/export/{report}.csv. The search
// report takes q and limit; high-value takes threshold; forecast takes
// months.
func (h *DashboardHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	name := chi.URLParam(r, "report")

	params, err := h.exportParams(r, name)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.service.ExportCSV(r.Context(), &buf, sess.ID, name, params); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	writeAttachment(w, contentTypeCSV, name+".csv", buf.Bytes())
}

func (h *DashboardHandler) exportParams(r *http.Request, name string) (exporter.Params, error) {
	var p exporter.Params
	var err error
	switch name {
	case "search":
		req, err := h.searchRequest(r)
		if err != nil {
			return p, err
		}
		p.Term, p.Limit = req.Q, req.Limit
	case "high-value":
		p.HighValueThreshold, err = middleware.QueryFloat(r, "threshold", 0)
	case "custodians":
		p.CustodianLimit, err = middleware.QueryInt(r, "limit", 1, maxListLimit, 0)
	case "forecast":
		p.ForecastMonths, err = middleware.QueryInt(r, "months", 1, maxForecastMonths, 0)
	}
	return p, err
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprint(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func respond(w http.ResponseWriter, r *http.Request, data interface{}) {
	render.JSON(w, r, api.Response{Status: "success", Data: data})
}

func respondList(w http.ResponseWriter, r *http.Request, data interface{}, count int) {
	render.JSON(w, r, api.Response{Status: "success", Data: data, Count: &count})
}
