package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"fardash/internal/config"
	apierrors "fardash/internal/errors"
	"fardash/internal/infrastructure"
	customMiddleware "fardash/internal/middleware"
	"fardash/internal/services"
	handlers "fardash/internal/transport/http"
	"fardash/pkg/contracts"
)

// BuildTime is set at link time with -ldflags "-X fardash/internal/app.BuildTime=...".
var BuildTime string

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.DashboardMetrics
	ErrorHandler  *apierrors.ErrorHandler
	Dashboard     *services.DashboardService
	Health        *services.HealthService
}

// NewApplication loads configuration, initializes the global logger and
// builds the application.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(cfg, logger)
}

// New wires the application from an already loaded configuration.
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version))

	paths := cfg.Paths()
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	paths.LogPathResolution(logger)

	otelProviders, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.NewDashboardMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create dashboard metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		ErrorHandler:  apierrors.NewErrorHandler(logger, false),
	}
	app.initializeServices()
	app.setupRouter()
	app.createServer()

	return app, nil
}

func (a *Application) initializeServices() {
	a.Dashboard = services.NewDashboardService(a.Config, a.Logger, services.WithMetrics(a.Metrics))
	a.Health = services.NewHealthService(contracts.Version, BuildTime, a.Config.Data.Dir, a.Dashboard, a.Logger)
}

// setupRouter configures the HTTP router with all routes. Middleware order:
// RequestID, RealIP, OTel, Logger, Recoverer, then security and limits.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics).Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(apierrors.RecoveryMiddleware(a.ErrorHandler))
	r.Use(customMiddleware.SecurityHeaders)

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
		}))
	}
	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.ErrorHandler,
			a.Logger,
		).Handler)
	}
	r.Use(customMiddleware.Compress(5))

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	a.setupAPIRoutes(r)

	// Prometheus scrapes outside the API group.
	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

func (a *Application) setupAPIRoutes(r chi.Router) {
	validator := customMiddleware.NewValidator(a.Logger)
	healthHandler := handlers.NewHealthHandler(a.Health, a.Logger)
	dashboardHandler := handlers.NewDashboardHandler(a.Dashboard, validator, a.Logger, a.ErrorHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(middleware.Timeout(a.Config.Server.WriteTimeout))

		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/version", healthHandler.Version)

		r.Get("/workbooks", dashboardHandler.ListWorkbooks)
		r.Mount("/sessions", dashboardHandler.Routes())
	})
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Run serves HTTP until ctx is cancelled or SIGINT/SIGTERM arrives, then
// shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfoContext(gctx, "Server listening",
			slog.String("address", a.Server.Addr),
			slog.String("data_file", a.Config.DataFile()))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.Logger.Info("Shutdown requested")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
		defer cancel()
		return a.Stop(shutdownCtx)
	})

	return g.Wait()
}

// Stop gracefully stops the server and flushes telemetry.
func (a *Application) Stop(ctx context.Context) error {
	start := time.Now()
	var errs []error

	if err := a.Server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown: %w", err))
	}
	if err := a.OTelProviders.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}

	a.Logger.Info("Application stopped",
		slog.Duration("shutdown_duration", time.Since(start)),
		slog.Int("sessions_dropped", a.Dashboard.SessionCount()))

	if err := infrastructure.CloseLogFile(); err != nil {
		errs = append(errs, fmt.Errorf("close log file: %w", err))
	}
	return errors.Join(errs...)
}
