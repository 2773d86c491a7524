package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Freeeeeet/trip_planner/internal/app"
	"github.com/Freeeeeet/trip_planner/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	logger.Info("Starting trip planner",
		zap.String("environment", cfg.Environment),
		zap.String("db_driver", cfg.DBDriver),
		zap.Bool("window_cache", cfg.CacheEnabled()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize application", zap.Error(err))
	}

	if err := application.Run(ctx); err != nil {
		logger.Fatal("Application stopped with error", zap.Error(err))
	}

	logger.Info("Trip planner stopped")
}
