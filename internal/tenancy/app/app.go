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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	httpapi "github.com/abyford453/FleetGuard/internal/tenancy/http"
	"github.com/abyford453/FleetGuard/internal/tenancy/metrics"
	"github.com/abyford453/FleetGuard/internal/tenancy/service"
	"github.com/abyford453/FleetGuard/internal/tenancy/store/drivers/sqlite"
	"github.com/abyford453/FleetGuard/pkg/jwtx"
	"github.com/abyford453/FleetGuard/pkg/slogx"
	"github.com/abyford453/FleetGuard/pkg/validatex"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the tenancy service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       *sqlite.Store
	keys     *jwtx.KeySet
	verifier jwtx.Verifier
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	// Services
	identityService   *service.IdentityService
	resolver          *service.Resolver
	guard             *service.Guard
	tenantService     *service.TenantService
	membershipService *service.MembershipService
	inviteService     *service.InviteService
	recorder          *service.Recorder
	sweeper           *service.SessionSweeper

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// NewLogger builds the process logger from cfg.
func NewLogger(cfg Config) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: "fleetguard",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg:    cfg,
		logger: NewLogger(cfg),
	}

	keys, verifier, err := InitVerifier(app.cfg, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token verifier: %w", err)
	}
	app.keys = keys
	app.verifier = verifier

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initMetrics()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler exposes the fully wired HTTP handler.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the HTTP server and the session sweeper and blocks until ctx is
// cancelled, a shutdown signal arrives, or the server fails.
func (app *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.logger.Info("fleetguard starting", "port", app.cfg.Port, "version", BuildVersion)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return app.sweeper.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		app.logger.Info("shutdown requested")
		app.shutdownServer()
		return nil
	})

	err := g.Wait()

	// The sweeper has returned, so nothing else touches the database
	if closeErr := app.closeStore(); err == nil {
		err = closeErr
	}
	return err
}

// Shutdown gracefully shuts down an application that is not running Run
func (app *Application) Shutdown() error {
	app.shutdownServer()
	return app.closeStore()
}

func (app *Application) shutdownServer() {
	app.logger.Info("shutting down fleetguard...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}
}

func (app *Application) closeStore() error {
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("fleetguard stopped")
	return nil
}

// OpenStore opens the SQLite database at path and applies migrations.
func OpenStore(path string) (*sqlite.Store, error) {
	db, err := sqlite.NewStore(fmt.Sprintf("file:%s", path))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}

	return db, nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	db, err := OpenStore(app.cfg.DatabaseFile)
	if err != nil {
		return err
	}
	app.db = db

	app.logger.Info("database migrations applied successfully", "file", app.cfg.DatabaseFile)
	return nil
}

// initMetrics uses a private registry so every Application owns its collectors
func (app *Application) initMetrics() {
	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.metrics = metrics.New(app.registry)
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	v := validatex.New()

	app.recorder = &service.Recorder{
		Store:        app.db,
		Metrics:      app.metrics,
		WriteTimeout: 5 * time.Second,
	}
	app.identityService = &service.IdentityService{Store: app.db}
	app.resolver = &service.Resolver{Store: app.db, Metrics: app.metrics}
	app.guard = &service.Guard{Store: app.db, Metrics: app.metrics}
	app.tenantService = &service.TenantService{
		Store:     app.db,
		Audit:     app.recorder,
		Metrics:   app.metrics,
		Validator: v,
	}
	app.membershipService = &service.MembershipService{
		Store:   app.db,
		Audit:   app.recorder,
		Metrics: app.metrics,
	}
	app.inviteService = &service.InviteService{
		Store:             app.db,
		Audit:             app.recorder,
		Metrics:           app.metrics,
		Validator:         v,
		PublicURL:         app.cfg.PublicURL,
		DefaultExpiryDays: app.cfg.InviteDefaultDays,
	}

	app.sweeper = service.NewSessionSweeper(
		app.db,
		app.logger,
		app.metrics,
		app.cfg.SessionSweepInterval,
		app.cfg.SessionIdleTTL,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keys,
		app.verifier,
		BuildVersion,
		app.db,
		app.registry,
		app.cfg.RateLimits,
		app.logger,
	)

	// Wire services to router
	router.IdentityService = app.identityService
	router.Resolver = app.resolver
	router.Guard = app.guard
	router.TenantService = app.tenantService
	router.MembershipService = app.membershipService
	router.InviteService = app.inviteService
	router.Recorder = app.recorder
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
