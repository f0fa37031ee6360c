package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hospital-cms-portal/config"
	deliveryHttp "hospital-cms-portal/internal/delivery/http"
	"hospital-cms-portal/internal/delivery/http/handler"
	"hospital-cms-portal/internal/delivery/http/middleware"
	"hospital-cms-portal/internal/delivery/http/view"
	domainRepo "hospital-cms-portal/internal/domain/repository"
	"hospital-cms-portal/internal/infrastructure/apiclient"
	"hospital-cms-portal/internal/infrastructure/cache"
	"hospital-cms-portal/internal/repository"
	"hospital-cms-portal/internal/service"
	"hospital-cms-portal/internal/usecase"
	"hospital-cms-portal/pkg/jwt"
	"hospital-cms-portal/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	RedisClient *redis.Client
	Coordinator *service.FilterCoordinator
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger(os.Getenv("LOG_LEVEL"))

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	setupLogger(cfg.App.LogLevel)
	logrus.Info("Configuration loaded successfully")

	// Initialize Redis when sessions live there
	if cfg.Session.Store == config.SessionStoreRedis {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		app.RedisClient = redisClient
		logrus.Info("Redis connected successfully")
	} else {
		logrus.Warn("Using in-memory sessions, they are lost on restart")
	}

	// Initialize all layers
	server, coordinator, err := initializeServer(cfg, app.RedisClient)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Server = server
	app.Coordinator = coordinator

	return app, nil
}

// PingBackend lists doctors once against the configured backend.
func PingBackend(ctx context.Context) (int, error) {
	setupLogger(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		return 0, fmt.Errorf("failed to load config: %w", err)
	}

	log := logrus.StandardLogger()
	doctors, err := repository.NewDoctorRepository(apiclient.NewClient(cfg.API, log)).List(ctx)
	if err != nil {
		return 0, fmt.Errorf("backend at %s did not answer: %w", cfg.API.BaseURL, err)
	}
	return len(doctors), nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, redisClient *redis.Client) (*http.Server, *service.FilterCoordinator, error) {
	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.Session.Secret, cfg.Session.TTL)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize renderer
	renderer, err := view.NewRenderer(log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load templates: %w", err)
	}

	// Initialize repositories
	apiClient := apiclient.NewClient(cfg.API, log)
	adminRepo := repository.NewAdminRepository(apiClient)
	doctorRepo := repository.NewDoctorRepository(apiClient)
	patientRepo := repository.NewPatientRepository(apiClient)
	appointmentRepo := repository.NewAppointmentRepository(apiClient)
	prescriptionRepo := repository.NewPrescriptionRepository(apiClient)

	var sessionRepo domainRepo.SessionRepository
	if redisClient != nil {
		sessionRepo = repository.NewRedisSessionRepository(redisClient, cfg.Session.TTL)
	} else {
		sessionRepo = repository.NewMemorySessionRepository()
	}

	// Initialize services
	sessions := service.NewSessionStore(sessionRepo, log)
	auditService := service.NewAuditService(log)
	coordinator := service.NewFilterCoordinator(cfg.Filter.Debounce, log)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(log, sessions, auditService, adminRepo, doctorRepo, patientRepo)
	doctorUsecase := usecase.NewDoctorUsecase(log, doctorRepo, coordinator, auditService)
	appointmentUsecase := usecase.NewAppointmentUsecase(log, appointmentRepo, patientRepo, doctorRepo, coordinator, auditService)
	prescriptionUsecase := usecase.NewPrescriptionUsecase(log, prescriptionRepo, auditService)

	// Initialize handlers
	base := handler.NewBase(renderer, sessions, customValidator, log)
	authHandler := handler.NewAuthHandler(base, authUsecase)
	doctorHandler := handler.NewDoctorHandler(base, doctorUsecase)
	appointmentHandler := handler.NewAppointmentHandler(base, appointmentUsecase)
	prescriptionHandler := handler.NewPrescriptionHandler(base, prescriptionUsecase)

	// Initialize middleware
	sessionMiddleware := middleware.NewSessionMiddleware(jwtService, sessions, cfg.Session.CookieName, cfg.Session.Secure, log)
	roleMiddleware := middleware.NewRoleMiddleware(sessions)
	securityMiddleware := middleware.NewSecurityMiddleware()
	loggingMiddleware := middleware.NewLoggingMiddleware(log)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimit, redisClient, sessions, log)

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		doctorHandler,
		appointmentHandler,
		prescriptionHandler,
		sessionMiddleware,
		roleMiddleware,
		securityMiddleware,
		loggingMiddleware,
		rateLimitMiddleware,
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}, coordinator, nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		logrus.Infof("Clinic backend: %s", app.Config.API.BaseURL)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close stops background work and closes connections
func (app *App) Close() {
	if app.Coordinator != nil {
		app.Coordinator.Stop()
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
