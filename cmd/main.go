package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Davidshtp/chess-tournaments/config"
	"github.com/Davidshtp/chess-tournaments/db"
	"github.com/Davidshtp/chess-tournaments/handlers"
	"github.com/Davidshtp/chess-tournaments/repositories"
	"github.com/Davidshtp/chess-tournaments/routes"
	"github.com/Davidshtp/chess-tournaments/services"
	"github.com/Davidshtp/chess-tournaments/storage"
	_ "github.com/lib/pq"
)

// orphanSweepInterval — как часто подбираются платежи, оставшиеся без
// записи после сбоя между созданием платежа и линковкой.
const orphanSweepInterval = 5 * time.Minute

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// Инициализация загрузчика файлов (Cloudflare R2)
	cloudflareUploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Cloudflare R2 uploader initialized")

	// Инициализация репозиториев
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	organizerRepo := repositories.NewPostgresOrganizerRepository(dbConn)
	cityRepo := repositories.NewPostgresCityRepository(dbConn)
	addressRepo := repositories.NewPostgresAddressRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	instanceRepo := repositories.NewPostgresInstanceRepository(dbConn)
	enrollmentRepo := repositories.NewPostgresEnrollmentRepository(dbConn)
	paymentRepo := repositories.NewPostgresPaymentRepository(dbConn)
	logger.Info("repositories initialized")

	// Инициализация сервисов
	paymentRecorder := services.NewAutoConfirmRecorder(paymentRepo)
	authService := services.NewAuthService(dbConn, userRepo, playerRepo, organizerRepo, addressRepo)
	userService := services.NewUserService(userRepo, cloudflareUploader, logger)
	tournamentService := services.NewTournamentService(tournamentRepo)
	instanceService := services.NewInstanceService(instanceRepo, tournamentRepo, cityRepo, enrollmentRepo)
	enrollmentService := services.NewEnrollmentService(dbConn, enrollmentRepo, instanceRepo, playerRepo, paymentRecorder)
	rosterService := services.NewRosterService(instanceRepo, enrollmentRepo)
	paymentService := services.NewPaymentService(paymentRepo, enrollmentRepo)
	logger.Info("services initialized")

	// Фоновая уборка осиротевших платежей
	go func() {
		ticker := time.NewTicker(orphanSweepInterval)
		defer ticker.Stop()
		logger.Info("orphan payment sweeper started", slog.Duration("interval", orphanSweepInterval))

		sweep := func() {
			removed, err := paymentService.ReclaimOrphans(context.Background())
			if err != nil {
				logger.Error("orphan payment sweep failed", slog.Any("error", err))
				return
			}
			if removed > 0 {
				logger.Info("orphaned payments reclaimed", slog.Int64("count", removed))
			}
		}

		sweep()
		for range ticker.C {
			sweep()
		}
	}()

	// Инициализация обработчиков HTTP
	h := routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService, cfg.JWTSecretKey),
		User:       handlers.NewUserHandler(userService),
		Tournament: handlers.NewTournamentHandler(tournamentService),
		Instance:   handlers.NewInstanceHandler(instanceService, rosterService),
		Enrollment: handlers.NewEnrollmentHandler(enrollmentService),
		Payment:    handlers.NewPaymentHandler(paymentService),
	}
	router := routes.SetupRoutes(h, cfg.JWTSecretKey)
	logger.Info("routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
