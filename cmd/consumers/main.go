package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kinoteka/cmd/consumers/jobs"
	"kinoteka/internal/config"
	"kinoteka/internal/consumers"
	"kinoteka/internal/logger"
)

func main() {
	cfg := config.Load()

	logger.Init(cfg.LogLevel, cfg.LogFormat)

	// Own client ID so the API and the consumers can connect side by side
	cfg.NATS.ClientID = "kinoteka-consumers"

	slog.Info("Starting consumers service...")

	consumerService, err := consumers.NewConsumerService(cfg)
	if err != nil {
		logger.Fatal("Failed to create consumer service", "error", err)
	}

	if err := consumerService.Start(); err != nil {
		logger.Fatal("Failed to start consumers", "error", err)
	}

	jobCtx, cancelJobs := context.WithCancel(context.Background())

	var reconciliation *jobs.CountReconciliationJob
	if valkey := consumerService.Valkey(); valkey != nil {
		reconciliation = jobs.NewCountReconciliationJob(consumerService.Repositories().Tickets, valkey)
		reconciliation.Start(jobCtx)
	} else {
		slog.Warn("Valkey unavailable, skipping count reconciliation job")
	}

	slog.Info("Consumers service started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down consumers service...")

	cancelJobs()
	if reconciliation != nil {
		reconciliation.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := consumerService.Shutdown(ctx); err != nil {
		slog.Error("Error during shutdown", "error", err)
	}

	slog.Info("Consumers service stopped")
}
