// Package server wires configuration, storage, authentication and the HTTP
// API into a runnable application, and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/bookmarks/internal/dbx"
	"github.com/dmitrijs2005/bookmarks/internal/logging"
	"github.com/dmitrijs2005/bookmarks/internal/server/auth"
	"github.com/dmitrijs2005/bookmarks/internal/server/config"
	"github.com/dmitrijs2005/bookmarks/internal/server/httpapi"
	"github.com/dmitrijs2005/bookmarks/internal/server/metrics"
	"github.com/dmitrijs2005/bookmarks/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bookmarks/internal/server/revocation"
	"github.com/dmitrijs2005/bookmarks/internal/server/services"
	"github.com/dmitrijs2005/bookmarks/internal/tracing"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const serviceName = "bookmarks"

// seams for tests
var (
	openDB               = dbx.Open
	newRepositoryManager = repomanager.NewPostgresRepositoryManager
	initTracing          = tracing.Init
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager

	accounts  *services.AccountService
	bookmarks *services.BookmarkService
	exporter  *services.ExportService
	guard     *auth.Guard
	metrics   *metrics.Collector
	checks    []httpapi.HealthCheck

	closers []func()
}

// NewApp opens the database, applies migrations and builds the services.
// The caller must Close the returned App.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app := &App{config: c, logger: logger, db: db, metrics: metrics.NewCollector()}
	app.closers = append(app.closers, func() { _ = db.Close() })

	rm, err := newRepositoryManager(db)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("repository manager init error: %w", err)
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		app.Close()
		return nil, fmt.Errorf("migrations failed: %w", err)
	}
	app.repomanager = rm
	app.checks = append(app.checks, httpapi.HealthCheck{Name: "db", Check: db.PingContext})

	revoked, err := app.initRevocation(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	tokens := auth.NewTokenService(c)
	app.guard = auth.NewGuard(tokens, revoked)
	app.accounts = services.NewAccountService(db, rm, auth.NewPasswordHasher(c), tokens, logger)
	app.bookmarks = services.NewBookmarkService(db, rm, logger)
	app.exporter = services.NewExportService(db, rm, c, logger)

	return app, nil
}

// initRevocation builds the configured token revocation backend. A nil
// store disables logout.
func (app *App) initRevocation(ctx context.Context) (auth.RevocationStore, error) {
	c := app.config
	switch c.RevocationBackend {
	case config.RevocationMemory:
		return revocation.NewMemoryStore(c.RevocationCacheSize, c.AccessTokenValidityDuration), nil

	case config.RevocationRedis:
		store, err := revocation.NewRedisStore(ctx, c.RedisAddr)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, func() { _ = store.Close() })
		app.checks = append(app.checks, httpapi.HealthCheck{Name: "redis", Check: store.Ping})
		return store, nil

	case config.RevocationPostgres:
		store := revocation.NewPostgresStore(app.db, app.repomanager)
		purger := revocation.NewPurger(store, app.logger)
		if err := purger.Start(c.RevocationPurgeSchedule); err != nil {
			return nil, fmt.Errorf("revocation purge schedule: %w", err)
		}
		app.closers = append(app.closers, purger.Stop)
		return store, nil

	default:
		return nil, nil
	}
}

// Handler builds the HTTP handler with tracing around the router.
func (app *App) Handler() http.Handler {
	api := httpapi.New(httpapi.Deps{
		Accounts:               app.accounts,
		Bookmarks:              app.bookmarks,
		Exporter:               app.exporter,
		Guard:                  app.guard,
		Checks:                 app.checks,
		Metrics:                app.metrics,
		Logger:                 app.logger,
		AuthRateLimitPerMinute: app.config.AuthRateLimitPerMinute,
	})
	return otelhttp.NewHandler(api.Router(), serviceName)
}

// Cleanup deletes all bookmarks and users.
func (app *App) Cleanup(ctx context.Context) error {
	_, err := app.bookmarks.DeleteAllForCleanup(ctx)
	return err
}

// Close releases resources in reverse order of acquisition.
func (app *App) Close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		app.closers[i]()
	}
	app.closers = nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves HTTP until a termination signal arrives or ctx is cancelled.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	shutdownTracing, err := initTracing(ctx, app.config.OTLPEndpoint, serviceName)
	if err != nil {
		return fmt.Errorf("tracing init error: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			app.logger.Warn(ctx, "tracing shutdown failed", "error", err)
		}
	}()

	s := httpapi.NewServer(app.config.EndpointAddrHTTP, app.Handler(), app.logger)

	var (
		wg     sync.WaitGroup
		runErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := s.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			runErr = err
			cancelFunc()
		}
	}()
	wg.Wait()

	app.logger.Info(context.Background(), "App stopped")
	return runErr
}
