package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rifa/internal/api"
	"rifa/internal/cache"
	"rifa/internal/config"
	"rifa/internal/database"
	"rifa/internal/external"
	"rifa/internal/handlers"
	"rifa/internal/logger"
	"rifa/internal/messaging"
	"rifa/internal/repository"
	"rifa/internal/search"
	"rifa/internal/service"
	"rifa/internal/validation"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	repos := repository.NewRepositories(db)

	deps := service.Deps{
		Raffles:    repos.Raffles,
		Ranking:    repos.Ranking,
		Promotions: repos.Promotions,
		Settings:   repos.Settings,
		Mailer:     external.NewMailerClient(cfg.Mailer),
		Images:     external.NewImagesClient(cfg.Images),
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		slog.Warn("NATS unavailable, events disabled", "error", err)
	} else {
		defer natsClient.Close()
		deps.Publisher = natsClient
	}

	valkeyClient, err := cache.NewValkeyClient(cache.Config{
		Addr:     cfg.Valkey.Addr,
		Password: cfg.Valkey.Password,
		TTL:      cfg.Valkey.TTL,
	})
	if err != nil {
		slog.Warn("Valkey unavailable, list caching disabled", "error", err)
	} else {
		defer valkeyClient.Close()
		deps.Cache = valkeyClient
	}

	if cfg.Elasticsearch.Enabled {
		esClient, err := search.NewElasticsearchClient(cfg.Elasticsearch)
		if err != nil {
			slog.Warn("Elasticsearch unavailable, search falls back to Postgres", "error", err)
		} else {
			deps.Index = esClient
		}
	}

	services := service.NewServices(deps)
	validator := validation.NewValidator(repos.Raffles, repos.Ranking, cfg.LogsDir)
	server := api.NewServer(cfg, handlers.New(services, validator))

	go func() {
		slog.Info("Starting API server", "port", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Forced shutdown", "error", err)
	}
	slog.Info("Server stopped")
}
