package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rifa/internal/config"
	"rifa/internal/consumers"
	"rifa/internal/database"
	"rifa/internal/logger"
	"rifa/internal/messaging"
	"rifa/internal/repository"
	"rifa/internal/search"
	"rifa/internal/validation"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	cfg := config.Load()
	cfg.NATS.ClientID = getClientID(cfg.NATS.ClientID)
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()

	repos := repository.NewRepositories(db)

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		logger.Fatal("Failed to connect to NATS Streaming", "error", err)
	}
	defer natsClient.Close()

	esClient, err := search.NewElasticsearchClient(cfg.Elasticsearch)
	if err != nil {
		logger.Fatal("Failed to connect to Elasticsearch", "error", err)
	}

	consumerService := consumers.NewService(natsClient, repos.Raffles, esClient)
	if err := consumerService.Start(); err != nil {
		logger.Fatal("Failed to start consumers", "error", err)
	}
	defer consumerService.Stop()

	// Periodic consistency check alongside the event consumers.
	validator := validation.NewValidator(repos.Raffles, repos.Ranking, cfg.LogsDir)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go runValidationJob(ctx, validator, cfg.ValidationInterval)

	slog.Info("Consumers running", "validation_interval", cfg.ValidationInterval)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down consumers...")
}

func runValidationJob(ctx context.Context, validator *validation.Validator, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
			report, err := validator.Run(runCtx)
			cancel()
			if err != nil {
				slog.Error("Scheduled validation failed", "error", err)
				continue
			}
			if !report.OK {
				slog.Warn("Scheduled validation found discrepancies",
					"count", len(report.Discrepancies))
			}
		}
	}
}

// getClientID keeps the NATS client id unique per process so the API and the
// consumers can share one config.
func getClientID(base string) string {
	host, err := os.Hostname()
	if err != nil {
		return base + "-consumers"
	}
	return base + "-consumers-" + host
}
