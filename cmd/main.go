package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DaFrankort/nodejs-measurements/internal/config"
	apphttp "github.com/DaFrankort/nodejs-measurements/internal/http"
	applogger "github.com/DaFrankort/nodejs-measurements/internal/logger"
	"github.com/DaFrankort/nodejs-measurements/internal/repository/postgres"
	"github.com/DaFrankort/nodejs-measurements/internal/service"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Создаём отменяемый контекст для всего приложения
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// .env опционален, в контейнере окружение приходит снаружи
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	cfg := config.LoadConfig()

	logger, err := applogger.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			log.Printf("Error during logger sync: %v", err)
		}
	}()

	logger.Info("Starting Measurement Service", zap.String("version", "1.0.0"))

	// Инициализация репозитория
	repo, err := postgres.NewPostgresRepository(ctx, cfg.DBConfig, logger)
	if err != nil {
		logger.Error("Failed to connect to database", zap.Error(err))
		return
	}
	defer func() {
		repo.Close()
		logger.Info("Database connection closed")
	}()

	logger.Info("Database connection established")

	// Идемпотентное создание таблицы при старте
	if err := repo.InitSchema(ctx); err != nil {
		logger.Error("Failed to init schema", zap.Error(err))
		return
	}

	// Инициализация сервиса
	measurementService := service.NewMeasurementService(repo, logger)

	// Запуск HTTP сервера
	httpServer := apphttp.NewHTTPServer(cfg.RESTPort, measurementService, logger)
	go func() {
		if err := httpServer.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", zap.Error(err))
			return
		}
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Отменяем контекст для фоновых горутин (мониторинг пула)
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}

	logger.Info("Measurement Service stopped")
}
