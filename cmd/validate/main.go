// One-shot consistency check. Exits non-zero when discrepancies are found so
// it can gate cron alerts and deploy pipelines.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"rifa/internal/config"
	"rifa/internal/database"
	"rifa/internal/logger"
	"rifa/internal/repository"
	"rifa/internal/validation"

	"github.com/joho/godotenv"
)

func main() {
	logsDir := flag.String("logs-dir", "", "directory for validation reports (default from LOGS_DIR)")
	timeout := flag.Duration("timeout", 5*time.Minute, "validation timeout")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	cfg := config.Load()
	logger.Init(cfg.LogLevel, "text")

	if *logsDir != "" {
		cfg.LogsDir = *logsDir
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()

	repos := repository.NewRepositories(db)
	validator := validation.NewValidator(repos.Raffles, repos.Ranking, cfg.LogsDir)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	report, err := validator.Run(ctx)
	if err != nil {
		logger.Fatal("Validation failed", "error", err)
	}

	fmt.Printf("raffles checked: %d\n", report.RafflesChecked)
	fmt.Printf("buyers checked:  %d\n", report.UsersChecked)
	fmt.Printf("discrepancies:   %d\n", len(report.Discrepancies))
	for _, d := range report.Discrepancies {
		fmt.Printf("  [%s] %s %s\n", d.Type, d.RaffleName, d.Detail)
	}

	if !report.OK {
		os.Exit(1)
	}
}
