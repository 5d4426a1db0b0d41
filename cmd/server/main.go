package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lms_backend/internal/config"
	"lms_backend/internal/handler"
	"lms_backend/internal/mailer"
	"lms_backend/internal/metrics"
	"lms_backend/internal/repository"
	"lms_backend/internal/service"
	"lms_backend/internal/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := config.NewLogger(cfg.Env)
	slog.SetDefault(logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database Connection ---
	dbPool, err := config.ConnectDB(ctx, cfg.DB, logger)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// --- Auto Migration ---
	if err := config.AutoMigrate(ctx, dbPool); err != nil {
		logger.Error("Failed to auto-migrate database", "error", err)
		os.Exit(1)
	}

	// --- Initialize Utilities ---
	jwtUtil, err := utils.NewJWTUtil(cfg.JWT)
	if err != nil {
		logger.Error("Failed to initialize token signer", "error", err)
		os.Exit(1)
	}
	smtpMailer := mailer.NewSMTPMailer(cfg.SMTP, logger)

	// --- Initialize Repositories ---
	userRepo := repository.NewUserRepository(dbPool)
	complaintRepo := repository.NewComplaintRepository(dbPool)
	portfolioRepo := repository.NewPortfolioRepository(dbPool)
	transactor := repository.NewTransactor(dbPool)

	// --- Initialize Services ---
	router := handler.NewRouter(handler.RouterDeps{
		Logger:           logger,
		JWT:              jwtUtil,
		Registry:         metrics.NewRegistry(),
		DB:               dbPool,
		AuthService:      service.NewAuthService(userRepo, transactor, jwtUtil, logger),
		PasswordService:  service.NewPasswordResetService(userRepo, jwtUtil, smtpMailer, cfg.FrontendURL, logger),
		UserService:      service.NewUserService(userRepo, portfolioRepo, transactor),
		ComplaintService: service.NewComplaintService(complaintRepo),
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.ServerPort, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen failed", "error", err)
			stop()
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("Server exiting")
}
