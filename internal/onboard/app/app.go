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

	httpapi "github.com/aussiebroadwan/onboard/internal/onboard/http"
	"github.com/aussiebroadwan/onboard/internal/onboard/identity"
	"github.com/aussiebroadwan/onboard/internal/onboard/identity/gotrue"
	"github.com/aussiebroadwan/onboard/internal/onboard/identity/local"
	"github.com/aussiebroadwan/onboard/internal/onboard/lock"
	"github.com/aussiebroadwan/onboard/internal/onboard/lock/pglock"
	"github.com/aussiebroadwan/onboard/internal/onboard/service"
	"github.com/aussiebroadwan/onboard/internal/onboard/store"
	"github.com/aussiebroadwan/onboard/internal/onboard/store/drivers/sqlite"
	"github.com/aussiebroadwan/onboard/pkg/cryptox"
	"github.com/aussiebroadwan/onboard/pkg/httpx"
	"github.com/aussiebroadwan/onboard/pkg/jwtx"
	"github.com/aussiebroadwan/onboard/pkg/slogx"
)

// BuildVersion is overridden at build time via -ldflags "-X ...BuildVersion=".
var BuildVersion = "v0.1.0"

// Application encapsulates the onboarding service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	pepper   cryptox.Pepper
	identity identity.Gateway
	lookup   identity.EmailLookup
	locker   *pglock.Locker // nil without ONBOARD_LOCK_POSTGRES_DSN

	// Services
	registrationService *service.RegistrationService
	accountService      *service.AccountService
	invitationService   *service.InvitationService
	membershipService   *service.MembershipService
	userService         *service.UserService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "onboard-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	pepper, err := cryptox.LoadOrCreatePepper(cfg.PepperFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}
	app.pepper = pepper

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	app.initIdentity()
	app.initLocker(context.Background())

	app.initServices()
	if err := app.initHTTP(); err != nil {
		app.closeBackends()
		return nil, err
	}

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("onboard service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"identity_driver", app.cfg.IdentityDriver,
		"self_service", app.cfg.SelfServiceEnabled,
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

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down onboard service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if app.locker != nil {
		app.locker.Close()
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("onboard service stopped")
	return nil
}

// closeBackends releases the lock pool and the store after a failed start.
func (app *Application) closeBackends() {
	if app.locker != nil {
		app.locker.Close()
	}
	_ = app.db.Close()
}

// initDatabase opens the store and applies migrations
func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(app.cfg.DatabaseFile)
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

func (app *Application) initIdentity() {
	switch app.cfg.IdentityDriver {
	case DriverGoTrue:
		gw := gotrue.New(app.cfg.GoTrueURL, app.cfg.GoTrueServiceKey)
		app.identity = gw
		app.lookup = identity.NewScanLookup(gw, app.cfg.IdentityPageSize)
	default:
		gw := local.New(app.pepper)
		app.identity = gw
		app.lookup = identity.LookupFor(gw)
		app.logger.Warn("using in-process identity driver; identities are lost on restart")
	}
}

// initLocker connects the optional advisory lock. Registration runs without
// one, relying on unique indexes, so a failed connection only warns.
func (app *Application) initLocker(ctx context.Context) {
	if app.cfg.LockPostgresDSN == "" {
		app.logger.Warn("no advisory lock configured; concurrent signups for one email are not serialised")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	l, err := pglock.New(ctx, app.cfg.LockPostgresDSN)
	if err != nil {
		app.logger.Warn("advisory lock unavailable; concurrent signups for one email are not serialised",
			slog.Any("error", err))
		return
	}
	app.locker = l
	app.logger.Info("advisory lock connected")
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	authz := &service.Authorizer{Store: app.db, OwnerEmail: app.cfg.OwnerEmail}
	resolver := &service.TargetResolver{Store: app.db, Identity: app.identity, Lookup: app.lookup}
	reaper := &service.GhostReaper{Store: app.db, Identity: app.identity}
	audit := &service.Auditor{Store: app.db}
	sender := &service.InviteSender{
		Identity:    app.identity,
		Resolver:    resolver,
		Reaper:      reaper,
		BaseBackoff: app.cfg.InviteBaseBackoff,
		MaxBackoff:  app.cfg.InviteMaxBackoff,
	}

	app.invitationService = &service.InvitationService{
		Store:             app.db,
		Authz:             authz,
		Resolver:          resolver,
		Reaper:            reaper,
		Sender:            sender,
		Audit:             audit,
		InviteRedirectURL: app.cfg.InviteRedirectURL,
		InviteTTL:         app.cfg.InviteTTL,
	}
	app.accountService = &service.AccountService{
		Store:       app.db,
		Authz:       authz,
		Resolver:    resolver,
		Invitations: app.invitationService,
		Audit:       audit,
		TrialLength: app.cfg.TrialLength,
	}
	app.registrationService = &service.RegistrationService{
		Store:       app.db,
		Resolver:    resolver,
		Reaper:      reaper,
		Invitations: app.invitationService,
		Audit:       audit,
		Locker:      app.lockerOrNil(),
		Pepper:      app.pepper,
		Enabled:     app.cfg.SelfServiceEnabled,
		IPLimit:     app.cfg.SignupIPLimit,
		EmailLimit:  app.cfg.SignupEmailLimit,
		Window:      app.cfg.SignupWindow,
		TrialLength: app.cfg.TrialLength,
	}
	app.membershipService = &service.MembershipService{Store: app.db, Authz: authz, Audit: audit}
	app.userService = &service.UserService{
		Store:            app.db,
		Authz:            authz,
		Identity:         app.identity,
		Audit:            audit,
		ResetRedirectURL: app.cfg.PasswordResetRedirectURL,
	}
}

// lockerOrNil keeps a nil *pglock.Locker from becoming a non-nil interface.
func (app *Application) lockerOrNil() lock.Locker {
	if app.locker == nil {
		return nil
	}
	return app.locker
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() error {
	proxies, err := httpx.ParseTrustedProxies(app.cfg.TrustedProxies)
	if err != nil {
		return fmt.Errorf("failed to parse trusted proxies: %w", err)
	}

	router := httpapi.NewRouter(
		jwtx.NewHS256Verifier([]byte(app.cfg.JWTSecret), app.cfg.JWTIssuer, app.cfg.JWTAudience),
		BuildVersion,
		app.db,
		app.logger,
	)

	router.PublicLimit = perMinute(app.cfg.PublicRateLimit)
	router.AdminLimit = perMinute(app.cfg.AdminRateLimit)
	router.Proxies = proxies

	router.RegistrationService = app.registrationService
	router.AccountService = app.accountService
	router.InvitationService = app.invitationService
	router.MembershipService = app.membershipService
	router.UserService = app.userService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}

func perMinute(n int) httpx.RateLimitConfig {
	return httpx.RateLimitConfig{RequestsPerWindow: n, Window: time.Minute, Burst: n}
}
