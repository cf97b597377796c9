package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/vladimiradmaev/insulin-uploader/internal/config"
	"github.com/vladimiradmaev/insulin-uploader/internal/logger"
	"github.com/vladimiradmaev/insulin-uploader/internal/server"
	"github.com/vladimiradmaev/insulin-uploader/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.InitWithConfig(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	}); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	logger.Info("Configuration loaded", "provider", cfg.AIProvider, "timezone", cfg.TimezoneName, "auto_confirm", cfg.AutoConfirm)

	ctx := context.Background()

	aiService, err := services.NewAIService(ctx, cfg)
	if err != nil {
		logger.Fatalf("Failed to create AI service: %v", err)
	}
	nightscoutService := services.NewNightscoutService(cfg.NightscoutURL, cfg.NightscoutToken, cfg.RequestTimeout)
	treatmentService := services.NewTreatmentService(nightscoutService, cfg.Location)
	logger.Info("Services initialized")

	srv := server.New(cfg, aiService, treatmentService)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatalf("HTTP server failed: %v", err)
		}
	case sig := <-sigCh:
		logger.Info("Shutdown signal received", "signal", sig.String())
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Shutdown failed: %v", err)
		}
	}
}
