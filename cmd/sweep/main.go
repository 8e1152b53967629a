package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"

	"studyvault/internal/config"
	"studyvault/internal/repository/postgres"
	"studyvault/internal/service"
	"studyvault/internal/storage"

	"github.com/joho/godotenv"
)

// One-shot expiry sweep for running from cron or a scheduled job. The server
// also sweeps in-process; running both is safe because every sweep step is
// idempotent.
func main() {
	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Log to a file as well as stdout so scheduled runs leave a trail
	logOutput := io.Writer(os.Stdout)
	logFile, err := config.SetupLogFile(cfg.LogDir, cfg.LogMaxFiles)
	if err != nil {
		log.Printf("file logging disabled: %v", err)
	} else {
		defer logFile.Close()
		logOutput = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	logger.Info("sweep starting",
		"environment", cfg.Environment,
		"table_prefix", cfg.TablePrefix,
		"grace_window", cfg.GraceWindow,
	)

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create table names and repositories
	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	materialRepo := postgres.NewMaterialRepository(repoConfig)
	archiveRepo := postgres.NewArchiveRepository(repoConfig)
	categoryRepo := postgres.NewCategoryRepository(repoConfig)
	engagementRepo := postgres.NewEngagementRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Create Drive object store
	store := storage.NewDriveClient(storage.DriveConfig{
		ClientID:     cfg.DriveClientID,
		ClientSecret: cfg.DriveClientSecret,
		RefreshToken: cfg.DriveRefreshToken,
	}, logger)

	sweeper := service.NewSweeper(materialRepo, archiveRepo, engagementRepo, categoryRepo, store, txManager, cfg.GraceWindow, logger)

	purged, err := sweeper.Run(ctx)
	if err != nil {
		logger.Error("sweep failed", "error", err)
		os.Exit(1)
	}

	logger.Info("sweep finished", "purged", purged)
}
