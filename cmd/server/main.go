package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"
	"github.com/joho/godotenv"

	"fixtrack/application"
	"fixtrack/database"
	"fixtrack/domain/contracts"
	domainevents "fixtrack/domain/events"
	"fixtrack/domain/notify"
	"fixtrack/infrastructure/config"
	"fixtrack/infrastructure/repositories"
	"fixtrack/infrastructure/telemetry"
	"fixtrack/interfaces/web/handlers"
	"fixtrack/interfaces/web/presenters"
	"fixtrack/logging"
	"fixtrack/platform/events"
)

const version = "1.0.0"

func main() {
	// Create app-wide context for graceful shutdown
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// Initialize configuration
	loadEnvironment()
	cfg := config.LoadAppConfigFromEnv()

	// Initialize logging
	logger := initializeLogging(cfg)

	// Initialize telemetry
	telemetryShutdown, err := telemetry.Init(appCtx, version, logger)
	if err != nil {
		logger.Error("Failed to initialize telemetry", "error", err)
		os.Exit(1)
	}

	// Initialize database
	db := initializeDatabase(cfg, logger)
	defer db.Close()

	// Build dependencies with app context
	deps := buildDependencies(appCtx, db, cfg, logger)

	// Setup routes and start server
	router := setupRoutes(deps, cfg)
	startServer(router, cfg.HTTPAddr, logger, deps, appCancel, telemetryShutdown)
}

// ApplicationServices holds application services.
type ApplicationServices struct {
	JobService    application.JobService
	AuthService   *application.AuthService
	ExportService *application.ExportService
	Sessions      *application.SessionManager
	Composer      *notify.Composer
	EventBus      *events.JobEventBus
}

// PresentationLayer groups all presentation components
type PresentationLayer struct {
	// Presenters
	JobPresenter   *presenters.JobPresenter
	StaffPresenter *presenters.StaffPresenter

	// Handlers
	AuthHandlers      *handlers.AuthHandlers
	JobHandlers       *handlers.JobHandlers
	DashboardHandlers *handlers.DashboardHandlers
	SSEManager        *handlers.SSEManager
}

// Dependencies holds all application dependencies organized by layer
type Dependencies struct {
	// Infrastructure
	DB     *database.Database
	Logger *logging.Logger

	// Repositories
	JobRepo   contracts.JobRepository
	StaffRepo contracts.StaffRepository

	// Application Layer
	Services *ApplicationServices

	// Presentation Layer
	Presentation *PresentationLayer
}

func loadEnvironment() {
	if err := godotenv.Load(); err != nil {
		println("No .env file found, using environment variables")
	} else {
		println("Loaded configuration from .env file")
	}
}

func initializeLogging(cfg *config.AppConfig) *logging.Logger {
	logger := logging.NewLogger(cfg.Logging)
	logging.SetDefault(logger)

	logger.Info("Application starting",
		"version", version,
		"log_level", cfg.Logging.Level,
		"log_format", cfg.Logging.Format,
		"db_path", cfg.Database.Path,
		"job_prefix", cfg.JobPrefix,
	)

	return logger
}

func initializeDatabase(cfg *config.AppConfig, logger *logging.Logger) *database.Database {
	db, err := database.New(*cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	return db
}

// RepositoryBundle holds all repository implementations
type RepositoryBundle struct {
	JobRepo   contracts.JobRepository
	StaffRepo contracts.StaffRepository
}

// buildRepositories creates all repository implementations with read/write database separation
func buildRepositories(database *database.Database) *RepositoryBundle {
	return &RepositoryBundle{
		JobRepo:   repositories.NewSqliteJobRepository(database),
		StaffRepo: repositories.NewSqliteStaffRepository(database),
	}
}

// loadPolicy reads the optional per-shop workflow policy file.
func loadPolicy(cfg *config.AppConfig, logger *logging.Logger) *config.Policy {
	if cfg.PolicyPath == "" {
		return config.DefaultPolicy()
	}

	policy, err := config.LoadPolicy(cfg.PolicyPath)
	if err != nil {
		logger.Error("Failed to load policy file", "path", cfg.PolicyPath, "error", err)
		os.Exit(1)
	}

	logger.Info("Loaded workflow policy", "path", cfg.PolicyPath)
	return policy
}

// buildApplicationServices creates application services with dependency injection.
func buildApplicationServices(
	appCtx context.Context,
	cfg *config.AppConfig,
	repos *RepositoryBundle,
	logger *logging.Logger,
) *ApplicationServices {
	// Create event bus for job events
	eventBus := events.NewJobEventBus()

	policy := loadPolicy(cfg, logger)

	composer, err := notify.NewComposer(policy.ComposerConfig(cfg.WhatsApp))
	if err != nil {
		logger.Error("Failed to build notification composer", "error", err)
		os.Exit(1)
	}

	jobService := application.NewJobService(
		repos.JobRepo,
		composer,
		policy.TransitionPolicy(),
		eventBus,
		cfg.JobPrefix,
	)

	sessions := application.NewSessionManager(appCtx, cfg.SessionTTL)
	authService := application.NewAuthService(repos.StaffRepo, sessions)
	exportService := application.NewExportService(repos.JobRepo)

	return &ApplicationServices{
		JobService:    jobService,
		AuthService:   authService,
		ExportService: exportService,
		Sessions:      sessions,
		Composer:      composer,
		EventBus:      eventBus,
	}
}

// buildPresentationLayer creates all presenters and handlers
func buildPresentationLayer(appCtx context.Context, services *ApplicationServices) *PresentationLayer {
	// Build presenters (view logic)
	jobPresenter := presenters.NewJobPresenter()
	staffPresenter := presenters.NewStaffPresenter()

	// Build handlers - orchestrate services & presenters
	sseManager := handlers.NewSSEManager(appCtx)
	authHandlers := handlers.NewAuthHandlers(services.AuthService, staffPresenter)
	jobHandlers := handlers.NewJobHandlers(services.JobService, jobPresenter)
	dashboardHandlers := handlers.NewDashboardHandlers(services.JobService, services.ExportService, jobPresenter)

	// Setup event system for WhatsApp prompts and list refreshes
	setupEventHandlers(services, sseManager)

	return &PresentationLayer{
		JobPresenter:      jobPresenter,
		StaffPresenter:    staffPresenter,
		AuthHandlers:      authHandlers,
		JobHandlers:       jobHandlers,
		DashboardHandlers: dashboardHandlers,
		SSEManager:        sseManager,
	}
}

// buildDependencies creates all application dependencies
func buildDependencies(appCtx context.Context, db *database.Database, cfg *config.AppConfig, logger *logging.Logger) *Dependencies {
	// Build each layer
	repos := buildRepositories(db)
	services := buildApplicationServices(appCtx, cfg, repos, logger)
	presentation := buildPresentationLayer(appCtx, services)

	return &Dependencies{
		DB:           db,
		JobRepo:      repos.JobRepo,
		StaffRepo:    repos.StaffRepo,
		Services:     services,
		Presentation: presentation,
		Logger:       logger,
	}
}

func setupRoutes(deps *Dependencies, cfg *config.AppConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	setupHTTPLogging(r, deps, cfg)
	r.Use(middleware.Recoverer)

	// System endpoints
	setupSystemRoutes(r, deps)

	// Main application routes
	setupApplicationRoutes(r, deps)

	return r
}

func setupHTTPLogging(r *chi.Mux, deps *Dependencies, cfg *config.AppConfig) {
	if cfg.HTTPLogPath == "" {
		// No HTTP logging configured, skip
		return
	}

	logFile, err := os.OpenFile(cfg.HTTPLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		deps.Logger.Error("Failed to open HTTP log file", "error", err, "path", cfg.HTTPLogPath)
		return
	}
	// Note: logFile is not closed here as it needs to stay open for the server lifetime

	httpLogger := httplog.NewLogger("fixtrack", httplog.Options{
		Writer: logFile,
		JSON:   true,
	})
	r.Use(httplog.RequestLogger(httpLogger))

	deps.Logger.Info("HTTP request logging enabled", "path", cfg.HTTPLogPath)
}

func setupSystemRoutes(r *chi.Mux, deps *Dependencies) {
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		stats, err := deps.DB.Health()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		response := map[string]interface{}{
			"status":   "ok",
			"database": stats,
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	})
}

func setupApplicationRoutes(r *chi.Mux, deps *Dependencies) {
	auth := deps.Presentation.AuthHandlers
	jobs := deps.Presentation.JobHandlers
	dashboard := deps.Presentation.DashboardHandlers

	// Login is the only open application endpoint.
	r.Post("/api/login", auth.Login)

	// Everything else requires a live session.
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSession)

		r.Post("/api/logout", auth.Logout)
		r.Get("/api/me", auth.CurrentStaff)
		r.Get("/api/staff", auth.ListStaff)

		r.Get("/api/dashboard", dashboard.GetDashboard)
		r.Get("/api/jobs/export", dashboard.ExportCSV)

		r.Post("/api/jobs", jobs.CreateJob)
		r.Get("/api/jobs", jobs.ListJobs)
		r.Get("/api/jobs/{jobID}", jobs.GetJob)
		r.Put("/api/jobs/{jobID}", jobs.UpdateJob)
		r.Patch("/api/jobs/{jobID}/status", jobs.UpdateStatus)
		r.Get("/api/jobs/{jobID}/notification", jobs.NotificationLink)

		r.Get("/events", deps.Presentation.SSEManager.HandleSSEConnection)
	})
}

func startServer(
	router *chi.Mux,
	addr string,
	logger *logging.Logger,
	deps *Dependencies,
	appCancel context.CancelFunc,
	telemetryShutdown func(context.Context) error,
) {
	server := &http.Server{Addr: addr, Handler: router}

	serverCtx, serverStopCtx := context.WithCancel(context.Background())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sig
		logger.Info("Shutdown signal received")

		// Cancel app-wide context first to signal all services to shutdown
		logger.Info("Cancelling app context...")
		appCancel()

		// Close SSE connections immediately
		logger.Info("Closing SSE connections...")
		deps.Presentation.SSEManager.CloseAll()

		shutdownCtx, cancel := context.WithTimeout(serverCtx, 30*time.Second)
		defer cancel()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				logger.Error("Graceful shutdown timed out, forcing exit")
				os.Exit(1)
			}
		}()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
			os.Exit(1)
		}

		if err := telemetryShutdown(shutdownCtx); err != nil {
			logger.Error("Telemetry shutdown error", "error", err)
		}
		serverStopCtx()
	}()

	logger.Info("Server starting", "address", addr)
	err := server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}

	<-serverCtx.Done()
	logger.Info("Server stopped")
}

// setupEventHandlers wires up the event handlers for WhatsApp prompts
func setupEventHandlers(services *ApplicationServices, sseManager *handlers.SSEManager) {
	notificationHandlers := events.NewNotificationEventHandlers(services.Composer, sseManager)
	notificationHandlers.RegisterHandlers(services.EventBus)

	// Any job change refreshes every open dashboard.
	services.EventBus.OnJobCreated(func(domainevents.JobCreatedEvent) {
		sseManager.BroadcastJobListUpdate()
	})
	services.EventBus.OnJobStatusChanged(func(domainevents.JobStatusChangedEvent) {
		sseManager.BroadcastJobListUpdate()
	})
}
