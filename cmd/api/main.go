package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/sbci/institute-api/docs" // Swagger docs
	"github.com/sbci/institute-api/internal/config"
	"github.com/sbci/institute-api/internal/database"
	"github.com/sbci/institute-api/internal/handlers"
	"github.com/sbci/institute-api/internal/jobs"
	"github.com/sbci/institute-api/internal/middleware"
	"github.com/sbci/institute-api/internal/repository"
	"github.com/sbci/institute-api/internal/services"
	"github.com/sbci/institute-api/internal/storage"
	"github.com/sbci/institute-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title Institute API
// @version 1.0
// @description REST API for the SBCI Computer Institute fee management system

// @contact.name API Support

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("Database migrations applied")

	// Initialize storage
	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized local storage")

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, worker, store, cfg, db)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs)

	// Initialize handlers
	h := handlers.NewHandlers(svcs, store)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Shutdown background worker
	worker.Shutdown()
	logger.Info("Background worker stopped")

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Redirect root to swagger
		router.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
		})

		// Swagger documentation
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Authentication (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
		}

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			protected.GET("/auth/me", h.Auth.Me)

			// Admin-only routes
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				// User management
				admin.GET("/users", h.User.Index)
				admin.POST("/users", h.User.Create)
				admin.DELETE("/users/:user_id", h.User.Delete)
				admin.POST("/users/:user_id/suspend", h.User.Suspend)
				admin.POST("/users/:user_id/activate", h.User.Activate)

				// Catalog management
				admin.POST("/courses", h.Course.Create)
				admin.PUT("/courses/:course_id", h.Course.Update)
				admin.DELETE("/courses/:course_id", h.Course.Deactivate)
				admin.POST("/batches", h.Batch.Create)
				admin.PUT("/batches/:batch_id", h.Batch.Update)
				admin.DELETE("/batches/:batch_id", h.Batch.Deactivate)
				admin.POST("/fee_structures", h.FeeStructure.Create)
				admin.PUT("/fee_structures/:fee_structure_id", h.FeeStructure.Update)
				admin.DELETE("/fee_structures/:fee_structure_id", h.FeeStructure.Deactivate)
				admin.POST("/late_fee_rules", h.LateFeeRule.Create)
				admin.PUT("/late_fee_rules/:rule_id", h.LateFeeRule.Update)
				admin.DELETE("/late_fee_rules/:rule_id", h.LateFeeRule.Delete)

				// Destructive ledger operations
				admin.DELETE("/students/:student_id", h.Student.Delete)
				admin.DELETE("/admissions/:admission_id", h.Admission.Delete)

				// Audit logs and worker status
				admin.GET("/audits", h.Audit.Index)
				admin.GET("/jobs/status", h.Job.Status)
			}

			// Staff and admin routes
			staff := protected.Group("")
			staff.Use(middleware.RequireRole("admin", "staff"))
			{
				staff.GET("/users/:user_id", h.User.Show)
				staff.PATCH("/users/:user_id/change_password", h.User.ChangePassword)

				// Catalog viewing
				staff.GET("/courses", h.Course.Index)
				staff.GET("/courses/:course_id", h.Course.Show)
				staff.GET("/batches", h.Batch.Index)
				staff.GET("/batches/:batch_id", h.Batch.Show)
				staff.GET("/fee_structures", h.FeeStructure.Index)
				staff.GET("/fee_structures/:fee_structure_id", h.FeeStructure.Show)
				staff.GET("/late_fee_rules", h.LateFeeRule.Index)

				// Students
				staff.GET("/students", h.Student.Index)
				staff.POST("/students", h.Student.Create)
				staff.GET("/students/:student_id", h.Student.Show)
				staff.PUT("/students/:student_id", h.Student.Update)
				staff.POST("/students/:student_id/photo", h.Student.UploadPhoto)
				staff.GET("/students/:student_id/photo", h.Student.Photo)
				staff.GET("/students/:student_id/admissions", h.Student.Admissions)

				// Admissions
				staff.GET("/admissions", h.Admission.Index)
				staff.POST("/admissions", h.Admission.Create)
				staff.GET("/admissions/:admission_id", h.Admission.Show)
				staff.POST("/admissions/:admission_id/complete", h.Admission.Complete)
				staff.POST("/admissions/:admission_id/drop", h.Admission.Drop)
				staff.GET("/admissions/:admission_id/statement_pdf", h.Admission.StatementPDF)

				// Payments and receipts
				staff.GET("/payments", h.Payment.Index)
				staff.POST("/payments", h.Payment.Create)
				staff.GET("/payments/:payment_id", h.Payment.Show)
				staff.GET("/payments/:payment_id/receipt_pdf", h.Payment.ReceiptPDF)
				staff.GET("/installments/:installment_id/late_fee", h.Payment.QuoteLateFee)

				// Reports and exports
				staff.GET("/reports/dashboard", h.Report.Dashboard)
				staff.GET("/reports/dues", h.Report.Dues)
				staff.GET("/reports/dues_csv", h.Report.DuesCSV)
				staff.GET("/reports/revenue", h.Report.Revenue)
				staff.GET("/reports/students_xlsx", h.Report.StudentsXLSX)
				staff.GET("/reports/payments_xlsx", h.Report.PaymentsXLSX)
			}
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services) {
	// Log the overdue book once a day so collections follow up
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		entries, err := svcs.Report.DuesReport(ctx, 0)
		if err != nil {
			return err
		}
		var overdueTotal float64
		for _, e := range entries {
			overdueTotal += e.PendingAmount
		}
		logger.Info("[Job] Dues snapshot", "installments", len(entries), "pending_total", overdueTotal)
		return nil
	})

	logger.Info("Scheduled recurring jobs")
}
