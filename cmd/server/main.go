// @title           Fieldsync API
// @version         1.0.0
// @description     Local API of the offline-first field data layer. Job edits, messages and photos are stored on the device and synchronized with Supabase when the network allows.

// @host      localhost:8787
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"fieldsync/docs"
	"fieldsync/internal/config"
	"fieldsync/internal/connectivity"
	"fieldsync/internal/database"
	"fieldsync/internal/handlers"
	"fieldsync/internal/middleware"
	"fieldsync/internal/observability"
	"fieldsync/internal/photostore"
	"fieldsync/internal/services"
	"fieldsync/internal/supabase"
	"fieldsync/internal/syncer"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := observability.NewLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	docs.SwaggerInfo.Host = "localhost:" + cfg.Port

	// The device acts for one worker: the one the access token was issued to
	workerID, err := middleware.WorkerIDFromToken(cfg.SupabaseAccessToken, cfg.SupabaseJWTSecret)
	if err != nil {
		return fmt.Errorf("invalid SUPABASE_ACCESS_TOKEN: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Local stores
	store := database.NewStore(cfg.DataDir, logger)
	if err := store.Initialize(ctx); err != nil {
		return err
	}
	defer store.Close()

	photos, err := photostore.Open(photostore.Options{Dir: filepath.Join(cfg.DataDir, "photos")}, logger)
	if err != nil {
		return err
	}
	defer photos.Close()

	// Supabase clients
	rows, closeRows, err := newRowStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeRows()

	storageClient := supabase.NewStorageClient(
		cfg.SupabaseURL,
		cfg.SupabasePublishableKey,
		cfg.SupabaseAccessToken,
		cfg.SupabaseStorageBucket,
	)
	backend := supabase.NewBackend(rows, storageClient, logger)

	// Sync
	orchestrator := syncer.New(store, photos, backend, syncer.Options{
		WorkerID: workerID,
		Interval: cfg.SyncInterval,
		Retry: syncer.RetryPolicy{
			MaxRetries: cfg.PhotoMaxRetries,
			BaseDelay:  cfg.PhotoRetryBaseDelay,
			MaxDelay:   cfg.PhotoRetryMaxDelay,
		},
		Metrics: observability.NewSyncMetrics(prometheus.DefaultRegisterer),
		Tracer:  observability.NewTracer(otel.GetTracerProvider()),
		Logger:  logger,
	})

	probe := connectivity.HTTPProbe(&http.Client{Timeout: 5 * time.Second}, cfg.SupabaseURL, cfg.SupabasePublishableKey)
	monitor := connectivity.NewMonitor(probe, cfg.ConnectivityCheckInterval, logger)
	monitor.Subscribe(orchestrator.SetOnline)

	orchestrator.Start(ctx)
	defer orchestrator.Stop()
	go monitor.Run(ctx)

	service := services.NewFieldService(store, photos, orchestrator, monitor, logger)

	// Setup router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", handlers.HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg))
	handlers.RegisterRoutes(api, service)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "worker_id", workerID, "data_dir", cfg.DataDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown incomplete", "error", err)
	}
	return nil
}

// newRowStore prefers a direct Postgres connection and falls back to the
// REST API.
func newRowStore(cfg *config.Config, logger *slog.Logger) (supabase.RowStore, func() error, error) {
	if cfg.DatabaseURL != "" {
		dbClient, err := supabase.NewDatabaseClient(cfg.DatabaseURL)
		if err == nil {
			return dbClient, dbClient.Close, nil
		}
		logger.Warn("failed to connect to DATABASE_URL, using the REST API", "error", err)
	}

	client, err := supabase.NewClient(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize Supabase client: %w", err)
	}
	return client, func() error { return nil }, nil
}
