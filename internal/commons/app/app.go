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

	httpapi "github.com/commonsapp/commons/internal/commons/http"
	"github.com/commonsapp/commons/internal/commons/service"
	"github.com/commonsapp/commons/internal/commons/store"
	"github.com/commonsapp/commons/internal/commons/store/drivers/sqlite"
	"github.com/commonsapp/commons/pkg/cryptox"
	"github.com/commonsapp/commons/pkg/jwtx"
	"github.com/commonsapp/commons/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the commons service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db            store.Store
	signer        *jwtx.Signer
	encryptionKey []byte

	loginService        *service.LoginService
	twoFactorService    *service.TwoFactorService
	gateService         *service.GateService
	userService         *service.UserService
	communityService    *service.CommunityService
	bootstrapService    *service.BootstrapService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized. A missing or
// malformed encryption key is a fatal configuration error here, never a
// deferred one.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "commons",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	key, err := cryptox.ParseKey(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("COMMONS_ENCRYPTION_KEY: %w", err)
	}
	app.encryptionKey = key

	if cfg.SessionSecret == "" {
		return nil, errors.New("COMMONS_SESSION_SECRET is required")
	}
	app.signer = &jwtx.Signer{Key: []byte(cfg.SessionSecret), Issuer: cfg.Issuer}

	cryptox.SetPepperPath(cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("commons service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

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

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down commons service...")

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

	app.logger.Info("commons service stopped")
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

func (app *Application) initServices() {
	app.twoFactorService = &service.TwoFactorService{
		Store:         app.db,
		EncryptionKey: app.encryptionKey,
		Issuer:        app.cfg.Issuer,
	}
	app.loginService = &service.LoginService{
		Store:        app.db,
		Signer:       app.signer,
		TwoFactor:    app.twoFactorService,
		SessionTTL:   app.cfg.SessionTTL,
		ChallengeTTL: app.cfg.ChallengeTTL,
	}
	app.gateService = &service.GateService{Store: app.db}
	app.userService = &service.UserService{Store: app.db}
	app.communityService = &service.CommunityService{Store: app.db}
	app.bootstrapService = &service.BootstrapService{
		Users: app.userService,
		Token: app.cfg.BootstrapToken,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.PendingTOTPTTL,
	)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(app.signer, BuildVersion, app.db, app.logger)

	router.LoginService = app.loginService
	router.TwoFactorService = app.twoFactorService
	router.GateService = app.gateService
	router.UserService = app.userService
	router.CommunityService = app.communityService
	router.BootstrapService = app.bootstrapService

	router.ApplyRoutes()
	app.router = router

	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: app.router,
	}
}
