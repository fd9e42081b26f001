package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/doorman/internal/auth/http"
	"github.com/aussiebroadwan/doorman/internal/auth/service"
	"github.com/aussiebroadwan/doorman/internal/auth/store"
	"github.com/aussiebroadwan/doorman/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/doorman/pkg/cryptox"
	"github.com/aussiebroadwan/doorman/pkg/jwtx"
	"github.com/aussiebroadwan/doorman/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the doorman service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db store.Store

	accessVerifier jwtx.Verifier

	tokenService        *service.TokenService
	userService         *service.UserService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "doorman",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(app.cfg.PepperFile)

	// Dev gets ephemeral secrets so the service starts out of the box;
	// tokens will not survive a restart, which is fine for dev.
	if app.cfg.DevMode() {
		if app.cfg.AccessSecret == "" {
			app.cfg.AccessSecret = cryptox.MustGenerateToken(cryptox.TokenSize256)
			app.logger.Warn("no access secret configured, generated an ephemeral one (dev only)")
		}
		if app.cfg.SessionSecret == "" {
			app.cfg.SessionSecret = cryptox.MustGenerateToken(cryptox.TokenSize256)
			app.logger.Warn("no session secret configured, generated an ephemeral one (dev only)")
		}
	}

	if err := app.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initServices(); err != nil {
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("doorman starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"rotate_sessions", app.cfg.RotateSessions,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
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

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down doorman...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("doorman stopped")
	return nil
}

func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initServices() error {
	accessSigner, err := jwtx.NewSignerHS256([]byte(app.cfg.AccessSecret))
	if err != nil {
		return fmt.Errorf("access signer: %w", err)
	}
	sessionSigner, err := jwtx.NewSignerHS256([]byte(app.cfg.SessionSecret))
	if err != nil {
		return fmt.Errorf("session signer: %w", err)
	}

	accessVerifier, err := jwtx.NewVerifierHS256([]byte(app.cfg.AccessSecret), jwtx.VerifyOptions{
		Issuer: app.cfg.Issuer,
	})
	if err != nil {
		return fmt.Errorf("access verifier: %w", err)
	}
	sessionVerifier, err := jwtx.NewVerifierHS256([]byte(app.cfg.SessionSecret), jwtx.VerifyOptions{
		Issuer: app.cfg.Issuer,
	})
	if err != nil {
		return fmt.Errorf("session verifier: %w", err)
	}
	app.accessVerifier = accessVerifier

	app.tokenService = &service.TokenService{
		AccessSigner:    accessSigner,
		SessionSigner:   sessionSigner,
		SessionVerifier: sessionVerifier,
		Store:           app.db,
		Issuer:          app.cfg.Issuer,
		AccessTTL:       app.cfg.AccessTTL,
		SessionTTL:      app.cfg.SessionTTL,
		RotateSessions:  app.cfg.RotateSessions,
	}

	app.userService = &service.UserService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)

	return nil
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.accessVerifier,
		BuildVersion,
		app.cfg.DevMode(),
		app.db,
		app.logger,
	)

	router.TokenService = app.tokenService
	router.UserService = app.userService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
