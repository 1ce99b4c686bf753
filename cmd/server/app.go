package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/taskfolio/taskfolio-api/internal/config"
	"github.com/taskfolio/taskfolio-api/internal/notify"
	"github.com/taskfolio/taskfolio-api/internal/platform/postgres"
	"github.com/taskfolio/taskfolio-api/internal/service"
	"github.com/taskfolio/taskfolio-api/internal/service/auth"
	"github.com/taskfolio/taskfolio-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore    store.UserStore
	sessionStore store.SessionStore
	taskStore    store.TaskStore

	// Service interfaces
	tokenService     auth.TokenService
	passwordHasher   auth.PasswordHasher
	passwordVerifier auth.PasswordVerifier
	sessionService   service.SessionService
	userService      service.UserService
	taskService      service.TaskService
	avatarProcessor  *service.AvatarProcessor

	// Background notification delivery
	dispatcher *notify.Dispatcher
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize token service
	var err error
	app.tokenService, err = auth.NewTokenService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	// Initialize password hashing
	app.passwordHasher = auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	app.passwordVerifier = auth.NewBcryptVerifier()

	// Initialize stores
	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.sessionStore = postgres.NewPostgresSessionStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)

	// Initialize notification delivery. Without mail credentials the
	// dispatcher still runs but deliveries are log-only.
	var notifier notify.Notifier
	if cfg.Mail.Enabled() {
		notifier = notify.NewMailgunNotifier(cfg.Mail)
		logger.Info("Mailgun notifier initialized", "domain", cfg.Mail.Domain)
	} else {
		notifier = notify.LogNotifier{}
		logger.Info("Outbound email not configured, notifications will be logged only")
	}
	app.dispatcher = notify.NewDispatcher(notifier, notify.DefaultDispatcherConfig(), logger)
	app.dispatcher.Start()

	// Initialize services
	app.sessionService = service.NewSessionService(
		app.tokenService,
		app.sessionStore,
		app.userStore,
		logger,
	)
	app.userService = service.NewUserService(
		app.userStore,
		app.sessionStore,
		app.taskStore,
		app.passwordHasher,
		app.passwordVerifier,
		app.dispatcher,
		db,
		logger,
	)
	app.taskService = service.NewTaskService(app.taskStore, logger)
	app.avatarProcessor = service.NewAvatarProcessor(cfg.Avatar)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	// Stop the notification dispatcher, draining queued messages
	if app.dispatcher != nil {
		app.dispatcher.Stop()
	}

	// Close database connection
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}
}
