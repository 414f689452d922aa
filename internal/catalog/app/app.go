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

	httpapi "github.com/aussiebroadwan/bookworm/internal/catalog/http"
	"github.com/aussiebroadwan/bookworm/internal/catalog/media"
	"github.com/aussiebroadwan/bookworm/internal/catalog/service"
	"github.com/aussiebroadwan/bookworm/internal/catalog/store"
	"github.com/aussiebroadwan/bookworm/internal/catalog/store/drivers/mongo"
	"github.com/aussiebroadwan/bookworm/internal/catalog/store/drivers/postgres"
	"github.com/aussiebroadwan/bookworm/internal/catalog/store/drivers/sqlite"
	"github.com/aussiebroadwan/bookworm/pkg/cryptox"
	"github.com/aussiebroadwan/bookworm/pkg/httpx"
	"github.com/aussiebroadwan/bookworm/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the catalog service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db         store.Store
	uploader   media.Uploader
	mediaFiles http.Handler // nil unless media is stored on local disk

	// Services
	sessionService   *service.SessionService
	catalogService   *service.CatalogService
	bootstrapService *service.BootstrapService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "bookworm",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)
	if err := cryptox.LoadPepper(); err != nil {
		return nil, err
	}

	ctx := context.Background()

	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}

	if err := app.initMedia(ctx); err != nil {
		_ = app.db.Close(ctx)
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("bookworm starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"database", app.cfg.DatabaseDriver,
		"media", app.cfg.MediaDriver,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down bookworm...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(ctx); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("bookworm stopped")
	return nil
}

// openStore connects the configured database driver.
func openStore(ctx context.Context, cfg Config) (store.Store, error) {
	switch cfg.DatabaseDriver {
	case "mongo":
		if cfg.MongoURI == "" {
			return nil, errors.New("MONGO_URI is required for the mongo driver")
		}
		return mongo.NewStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, errors.New("POSTGRES_DSN is required for the postgres driver")
		}
		return postgres.NewStore(ctx, cfg.PostgresDSN)
	case "sqlite":
		dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", cfg.SQLiteFile)
		return sqlite.NewStore(dsn)
	default:
		return nil, fmt.Errorf("unknown DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}
}

// initDatabase opens the store and applies migrations
func (app *Application) initDatabase(ctx context.Context) error {
	db, err := openStore(ctx, app.cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(ctx); err != nil {
		_ = db.Close(ctx)
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DatabaseDriver)
	return nil
}

// initMedia selects where uploaded files are stored
func (app *Application) initMedia(ctx context.Context) error {
	switch app.cfg.MediaDriver {
	case "s3":
		if app.cfg.S3Bucket == "" {
			return errors.New("S3_BUCKET is required for the s3 media driver")
		}
		u, err := media.NewS3(ctx, media.S3Config{
			Bucket:          app.cfg.S3Bucket,
			Region:          app.cfg.S3Region,
			Endpoint:        app.cfg.S3Endpoint,
			AccessKeyID:     app.cfg.S3AccessKeyID,
			SecretAccessKey: app.cfg.S3SecretAccessKey,
			PublicBaseURL:   app.cfg.S3PublicBaseURL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize s3 media: %w", err)
		}
		app.uploader = u
	case "local":
		u, err := media.NewLocal(app.cfg.MediaDir, app.cfg.MediaBaseURL)
		if err != nil {
			return fmt.Errorf("failed to initialize local media: %w", err)
		}
		app.uploader = u
		app.mediaFiles = u.Handler()
	default:
		return fmt.Errorf("unknown MEDIA_DRIVER %q", app.cfg.MediaDriver)
	}
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.sessionService = &service.SessionService{
		Store:      app.db,
		Media:      app.uploader,
		AccessTTL:  app.cfg.AccessTokenTTL,
		RefreshTTL: app.cfg.RefreshTokenTTL,
	}
	app.catalogService = &service.CatalogService{
		Store: app.db,
		Media: app.uploader,
	}
	app.bootstrapService = &service.BootstrapService{
		Store: app.db,
		Token: app.cfg.BootstrapToken,
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	app.cfg.RateLimits.Apply()
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)

	cookies := httpx.CookiePolicyFor(app.cfg.Env, app.cfg.CookieSecure)
	cookies.Domain = app.cfg.CookieDomain
	router.Cookies = cookies
	router.CORSOrigins = httpx.ParseOrigins(app.cfg.CORSOrigins)
	if app.cfg.MaxUploadBytes > 0 {
		router.MaxUploadBytes = app.cfg.MaxUploadBytes
	}
	router.Media = app.mediaFiles

	// Wire services to router
	router.SessionService = app.sessionService
	router.CatalogService = app.catalogService
	router.BootstrapService = app.bootstrapService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
