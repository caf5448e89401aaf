package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sigortaci/acente-api/internal/application/service"
	"github.com/sigortaci/acente-api/internal/config"
	"github.com/sigortaci/acente-api/internal/infrastructure/database"
	"github.com/sigortaci/acente-api/internal/infrastructure/repository"
	"github.com/sigortaci/acente-api/internal/infrastructure/storage"
	"github.com/sigortaci/acente-api/internal/presentation/http/handler"
	"github.com/sigortaci/acente-api/internal/presentation/http/middleware"
	"github.com/sigortaci/acente-api/internal/presentation/http/routes"
	"github.com/sigortaci/acente-api/pkg/email"
	"github.com/sigortaci/acente-api/pkg/logger"
	"github.com/sigortaci/acente-api/pkg/utils"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Open(&cfg.Database, cfg.App.Debug, zlog)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db); err != nil {
			zlog.Warn("Failed to close database", zap.Error(err))
		}
	}()

	if err := database.Migrate(db, &cfg.Database, zlog); err != nil {
		zlog.Fatal("Failed to run migrations", zap.Error(err))
	}

	if err := database.SeedAdmin(db, &cfg.Admin, zlog); err != nil {
		zlog.Warn("Failed to seed admin user", zap.Error(err))
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	store := storage.NewLocalStorage(cfg.Storage.Path, cfg.Storage.PublicURL)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	policyRepo := repository.NewPolicyRepository(db)
	policyFileRepo := repository.NewPolicyFileRepository(db)
	accountingRepo := repository.NewAccountingRepository(db)
	reportRepo := repository.NewReportRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	userService := service.NewUserService(userRepo)
	customerService := service.NewCustomerService(customerRepo)
	policyService := service.NewPolicyService(policyRepo, customerRepo, store, zlog)
	fileService := service.NewFileService(policyRepo, policyFileRepo, store, cfg.Storage.UploadMaxSize, zlog)
	accountingService := service.NewAccountingService(accountingRepo, customerRepo, policyRepo)
	ledgerService := service.NewLedgerService(accountingRepo, customerRepo)
	reportService := service.NewReportService(reportRepo, ledgerService, cfg.Report.ExpiringDays)
	dashboardService := service.NewDashboardService(customerRepo, policyRepo, accountingRepo, reportRepo, cfg.Report.ExpiringDays)

	if cfg.Scheduler.Enabled {
		maintenance := service.NewMaintenanceService(idempotencyRepo, reportService, zlog)
		mailCfg := email.EmailConfig{
			SMTPHost:     cfg.SMTP.Host,
			SMTPPort:     cfg.SMTP.Port,
			SMTPUsername: cfg.SMTP.Username,
			SMTPPassword: cfg.SMTP.Password,
			FromName:     cfg.SMTP.FromName,
			FromEmail:    cfg.SMTP.FromEmail,
			Recipients:   cfg.SMTP.NotifyEmails,
		}
		if mailCfg.Enabled() {
			maintenance.WithNotifier(email.NewEmailService(mailCfg))
		}
		scheduler, err := maintenance.StartScheduler(cfg.Scheduler.Spec)
		if err != nil {
			zlog.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer func() { <-scheduler.Stop().Done() }()
	}

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		User:       handler.NewUserHandler(userService),
		Dashboard:  handler.NewDashboardHandler(dashboardService),
		Customer:   handler.NewCustomerHandler(customerService, ledgerService),
		Policy:     handler.NewPolicyHandler(policyService),
		File:       handler.NewFileHandler(fileService),
		Accounting: handler.NewAccountingHandler(accountingService),
		Report:     handler.NewReportHandler(reportService),
	}

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Requests: cfg.RateLimit.Requests,
		Window:   time.Duration(cfg.RateLimit.Duration) * time.Second,
	})
	defer rateLimiter.Stop()

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
		Log:             zlog,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("Starting server",
			zap.String("name", cfg.App.Name),
			zap.String("port", port),
			zap.String("env", cfg.App.Env),
			zap.String("db_driver", cfg.Database.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error("Server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("Error during shutdown", zap.Error(err))
	}
	zlog.Info("Server stopped")
}
