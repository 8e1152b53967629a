package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"studyvault/internal/auth"
	"studyvault/internal/config"
	"studyvault/internal/handler"
	"studyvault/internal/middleware"
	"studyvault/internal/repository/postgres"
	"studyvault/internal/service"
	"studyvault/internal/storage"
	"studyvault/internal/uploadpolicy"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create JWT verifier
	jwtVerifier, err := auth.NewJWKSVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Ensure the schema for this environment's table prefix exists
	if err := postgres.EnsureSchema(ctx, pool, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}
	if err := postgres.SeedCategories(ctx, pool, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to seed categories: %v", err)
	}

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Create repositories
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

	// Initialize upload policy registry
	policy, err := uploadpolicy.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize upload policy registry: %v", err)
	}
	logger.Info("upload policy registry initialized")

	// Create services
	lifecycleService := service.NewLifecycleService(materialRepo, categoryRepo, cfg.GraceWindow, logger)
	uploadService := service.NewUploadService(store, policy, logger)
	engagementService := service.NewEngagementService(engagementRepo, materialRepo, logger)
	archiveService := service.NewArchiveService(archiveRepo, logger)
	sweeper := service.NewSweeper(materialRepo, archiveRepo, engagementRepo, categoryRepo, store, txManager, cfg.GraceWindow, logger)

	// Create handlers
	materialHandler := handler.NewMaterialHandler(lifecycleService, uploadService, logger)
	moderationHandler := handler.NewModerationHandler(lifecycleService, logger)
	uploadHandler := handler.NewUploadHandler(uploadService, logger)
	engagementHandler := handler.NewEngagementHandler(engagementService, logger)
	archiveHandler := handler.NewArchiveHandler(archiveService, logger)

	logger.Info("services initialized")

	// Run the expiry sweeper in-process alongside the server
	sweepCtx, cancelSweep := context.WithCancel(ctx)
	defer cancelSweep()
	go sweeper.Start(sweepCtx, cfg.SweepInterval)

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", materialHandler.HealthCheck)

	// Material routes
	mux.HandleFunc("POST /api/materials", materialHandler.Submit)
	mux.HandleFunc("GET /api/materials", materialHandler.ListPublished)
	mux.HandleFunc("GET /api/materials/mine", materialHandler.ListMine) // Must come before {id} route
	mux.HandleFunc("GET /api/materials/{id}", materialHandler.Get)
	mux.HandleFunc("POST /api/materials/{id}/download", materialHandler.Download)

	// Category routes
	mux.HandleFunc("GET /api/categories", materialHandler.ListCategories)

	// Engagement routes
	mux.HandleFunc("PUT /api/materials/{id}/like", engagementHandler.Like)
	mux.HandleFunc("DELETE /api/materials/{id}/like", engagementHandler.Unlike)
	mux.HandleFunc("GET /api/materials/{id}/likes", engagementHandler.CountLikes)
	mux.HandleFunc("GET /api/materials/{id}/comments", engagementHandler.ListComments)
	mux.HandleFunc("POST /api/materials/{id}/comments", engagementHandler.Comment)

	// Upload routes
	mux.HandleFunc("POST /api/uploads", uploadHandler.CreateSession)
	mux.HandleFunc("GET /api/uploads/types", uploadHandler.ListAcceptedTypes)

	// Moderation routes
	mux.HandleFunc("GET /api/moderation/pending", moderationHandler.ListPending)
	mux.HandleFunc("POST /api/moderation/{id}/approve", moderationHandler.Approve)
	mux.HandleFunc("POST /api/moderation/{id}/reject", moderationHandler.Reject)
	mux.HandleFunc("POST /api/moderation/{id}/restore", moderationHandler.Restore)
	mux.HandleFunc("POST /api/moderation/{id}/publish", moderationHandler.Publish)

	// Archive routes
	mux.HandleFunc("GET /api/archive", archiveHandler.List)
	mux.HandleFunc("GET /api/archive/{id}", archiveHandler.Get)

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	h = middleware.Auth(jwtVerifier, logger)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
