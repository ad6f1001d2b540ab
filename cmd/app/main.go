package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"invoice30sec.app/internal/adapters/infrastructure"
	"invoice30sec.app/internal/app"
	"invoice30sec.app/internal/config"
	"invoice30sec.app/internal/ports"
	"invoice30sec.app/pkg/logger"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found or error loading it")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	level := logger.ParseLevel(cfg.Log.Level)
	logger.NewWithLevel(level).SetDefault()
	gin.SetMode(cfg.Server.GinMode)

	appLogger, closeLogs := buildLogger(cfg.Log.FilePath, level)
	defer closeLogs()

	slog.Info("Configuration loaded", cfg.Summary()...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApplication(ctx, cfg, appLogger)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- application.Start(ctx)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("HTTP server stopped", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		slog.Error("Error during graceful shutdown", "error", err)
	}
}

// buildLogger returns the slog adapter, teed into a JSON log file when path is set
func buildLogger(path string, level slog.Level) (ports.Logger, func()) {
	console := infrastructure.NewSlogLoggerAdapter(nil)
	if path == "" {
		return console, func() {}
	}

	fileLogger, err := infrastructure.NewFileLoggerAdapter(path, level)
	if err != nil {
		slog.Warn("Failed to create file logger, logging to stdout only", "error", err)
		return console, func() {}
	}

	slog.Info("File logging enabled", "path", path)
	return infrastructure.NewMultiLogger(console, fileLogger), func() {
		if err := fileLogger.Close(); err != nil {
			slog.Warn("Error closing log file", "error", err)
		}
	}
}
