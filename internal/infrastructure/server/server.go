package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpHandlers "github.com/lifebooster/core/internal/adapters/http"
	"github.com/lifebooster/core/internal/adapters/vision"
	"github.com/lifebooster/core/internal/application/scheduler"
	"github.com/lifebooster/core/internal/application/services"
	"github.com/lifebooster/core/internal/application/store"
	"github.com/lifebooster/core/internal/infrastructure/config"
	"github.com/lifebooster/core/internal/infrastructure/logger"
)

// Server represents the HTTP server
type Server struct {
	echo      *echo.Echo
	config    *config.Config
	logger    *logger.Logger
	store     *store.Store
	scheduler *scheduler.Scheduler
}

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates a new server instance wired to an opened document store.
func New(cfg *config.Config, st *store.Store, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()

	// Set custom validator
	e.Validator = &CustomValidator{validator: validator.New()}

	// Configure Echo
	e.HideBanner = true
	e.HidePort = true

	// Custom error handler
	e.HTTPErrorHandler = customErrorHandler(appLogger)

	// Reminder scheduling
	sink := scheduler.NewLogSink(appLogger, cfg.Notifications.Enabled)
	sched := scheduler.New(sink, appLogger, cfg.Notifications.Window, cfg.Notifications.Lead)

	// Receipt analysis
	analyzer := vision.New(cfg.Vision, appLogger)

	// Initialize services
	notificationService := services.NewNotificationService(st, appLogger)
	taskService := services.NewTaskService(st, notificationService, sched, appLogger)
	challengeService := services.NewChallengeService(st, appLogger)
	mistakeService := services.NewMistakeService(st, appLogger)
	walletService := services.NewWalletService(st, notificationService, appLogger)
	trashService := services.NewTrashService(st, appLogger)
	profileService := services.NewProfileService(st, notificationService, appLogger)
	reportService := services.NewReportService(st, appLogger)
	scanService := services.NewScanService(analyzer, walletService, notificationService, appLogger)

	// Initialize handlers
	profileHandler := httpHandlers.NewProfileHandler(profileService, appLogger)
	notificationHandler := httpHandlers.NewNotificationHandler(notificationService, appLogger)
	trashHandler := httpHandlers.NewTrashHandler(trashService, appLogger)
	taskHandler := httpHandlers.NewTaskHandler(taskService, appLogger)
	challengeHandler := httpHandlers.NewChallengeHandler(challengeService, appLogger)
	mistakeHandler := httpHandlers.NewMistakeHandler(mistakeService, appLogger)
	walletHandler := httpHandlers.NewWalletHandler(walletService, appLogger)
	scanHandler := httpHandlers.NewScanHandler(scanService, appLogger)
	reportHandler := httpHandlers.NewReportHandler(reportService, appLogger)

	server := &Server{
		echo:      e,
		config:    cfg,
		logger:    appLogger,
		store:     st,
		scheduler: sched,
	}

	// Setup middleware
	server.setupMiddleware()

	// Setup routes
	server.setupRoutes(
		profileHandler, notificationHandler, trashHandler,
		taskHandler, challengeHandler, mistakeHandler,
		walletHandler, scanHandler, reportHandler,
	)

	// Setup metrics
	if cfg.Metrics.Enabled {
		server.setupMetrics()
	}

	return server, nil
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(
	profileHandler *httpHandlers.ProfileHandler,
	notificationHandler *httpHandlers.NotificationHandler,
	trashHandler *httpHandlers.TrashHandler,
	taskHandler *httpHandlers.TaskHandler,
	challengeHandler *httpHandlers.ChallengeHandler,
	mistakeHandler *httpHandlers.MistakeHandler,
	walletHandler *httpHandlers.WalletHandler,
	scanHandler *httpHandlers.ScanHandler,
	reportHandler *httpHandlers.ReportHandler,
) {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/health/detailed", s.detailedHealthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	// API v1 routes
	v1 := s.echo.Group("/api/v1")

	// Profile routes
	profileGroup := v1.Group("/profile")
	profileGroup.GET("", profileHandler.GetProfile)
	profileGroup.POST("/onboard", profileHandler.Onboard)
	profileGroup.PUT("/settings", profileHandler.UpdateSettings)
	profileGroup.POST("/reset", profileHandler.ResetData)

	// Task routes
	taskGroup := v1.Group("/tasks")
	taskGroup.GET("", taskHandler.ListTasks)
	taskGroup.POST("", taskHandler.CreateTask)
	taskGroup.POST("/:id/toggle", taskHandler.ToggleTask)
	taskGroup.PUT("/:id/priority", taskHandler.SetTaskPriority)

	// Challenge routes
	challengeGroup := v1.Group("/challenges")
	challengeGroup.GET("", challengeHandler.ListChallenges)
	challengeGroup.POST("", challengeHandler.CreateChallenge)
	challengeGroup.POST("/:id/toggle", challengeHandler.ToggleChallenge)

	// Mistake routes
	mistakeGroup := v1.Group("/mistakes")
	mistakeGroup.GET("", mistakeHandler.ListMistakes)
	mistakeGroup.POST("", mistakeHandler.CreateMistake)

	// Wallet routes
	walletGroup := v1.Group("/wallet")
	walletGroup.GET("/transactions", walletHandler.ListTransactions)
	walletGroup.POST("/transactions", walletHandler.CreateTransaction)
	walletGroup.GET("/loans", walletHandler.ListLoans)
	walletGroup.POST("/loans/:id/toggle", walletHandler.ToggleLoanPaid)
	walletGroup.POST("/scan", scanHandler.ScanReceipt)

	// Report routes
	reportGroup := v1.Group("/reports")
	reportGroup.GET("/overview", reportHandler.GetOverview)
	reportGroup.GET("/balance", reportHandler.GetBalance)
	reportGroup.GET("/weekly", reportHandler.GetWeeklyActivity)

	// Notification routes
	notificationGroup := v1.Group("/notifications")
	notificationGroup.GET("", notificationHandler.ListNotifications)
	notificationGroup.POST("/read", notificationHandler.MarkAllRead)

	// Trash routes
	trashGroup := v1.Group("/trash")
	trashGroup.GET("", trashHandler.ListTrash)
	trashGroup.POST("/:kind/:id", trashHandler.MoveToTrash)
	trashGroup.POST("/:id/restore", trashHandler.RestoreFromTrash)
	trashGroup.DELETE("/:id", trashHandler.DeletePermanently)
}

// setupMetrics configures Prometheus metrics
func (s *Server) setupMetrics() {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	registry.MustRegister(requestsTotal, requestDuration, s.store.Collector())

	s.echo.Use(metricsMiddleware(requestsTotal, requestDuration))

	// Metrics endpoint
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	s.echo.GET("/metrics", echo.WrapHandler(metricsHandler))
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) detailedHealthCheck(c echo.Context) error {
	status := "ok"
	checks := make(map[string]interface{})

	// Backend health check
	if err := s.store.Ping(c.Request().Context()); err != nil {
		status = "error"
		checks["storage"] = map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		}
	} else {
		checks["storage"] = map[string]interface{}{
			"status":  "ok",
			"backend": s.config.Storage.Backend,
		}
	}

	// A failed persist leaves the document ahead of the backend until the
	// next successful save; report it even though the server keeps serving.
	if err := s.store.LastSaveError(); err != nil {
		status = "error"
		checks["last_save"] = map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		}
	}

	checks["reminders"] = map[string]interface{}{
		"status":  "ok",
		"pending": s.scheduler.Pending(),
	}

	response := map[string]interface{}{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
		"checks": checks,
		"version": map[string]string{
			"app": s.config.App.Version,
			"go":  "1.21",
		},
	}

	if status == "ok" {
		return c.JSON(http.StatusOK, response)
	}
	return c.JSON(http.StatusServiceUnavailable, response)
}

func (s *Server) readinessCheck(c echo.Context) error {
	if err := s.store.Ping(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"reason": "storage_not_ready",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.Info("Starting server", "address", address)
	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the server and cancels pending reminders.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	s.scheduler.Stop()
	return s.echo.Shutdown(ctx)
}
