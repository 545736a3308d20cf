package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ressKim-io/NewsMind/api-service/internal/adapter/http/router"
	"github.com/ressKim-io/NewsMind/api-service/internal/adapter/repository/postgres"
	"github.com/ressKim-io/NewsMind/api-service/internal/adapter/repository/redis"
	"github.com/ressKim-io/NewsMind/api-service/internal/app"
	"github.com/ressKim-io/NewsMind/api-service/internal/infrastructure/cache"
	"github.com/ressKim-io/NewsMind/api-service/internal/infrastructure/config"
	"github.com/ressKim-io/NewsMind/api-service/internal/infrastructure/database"
	"github.com/ressKim-io/NewsMind/api-service/internal/infrastructure/logger"
	"github.com/ressKim-io/NewsMind/api-service/internal/infrastructure/metrics"
	"github.com/ressKim-io/NewsMind/api-service/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&cfg.Log, logger.WithService("newsmind-api"))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	// Build tokenizer, model client and resolver
	startCtx, cancelStart := context.WithTimeout(context.Background(), cfg.Model.Timeout)
	pipeline, err := app.NewPipeline(startCtx, cfg, log)
	cancelStart()
	if err != nil {
		log.Error("Failed to build classification pipeline", zap.Error(err))
		return err
	}

	opts := usecase.Options{
		Feeds:            pipeline.Feeds,
		CacheTTL:         cfg.Redis.TTL,
		InferenceTimeout: cfg.Model.Timeout,
		Metrics:          metrics.New(prometheus.DefaultRegisterer),
		Logger:           log,
	}

	// Initialize database (optional prediction history)
	var db *gorm.DB
	if cfg.Database.Enabled {
		db, err = database.NewPostgresDB(&cfg.Database)
		if err != nil {
			log.Error("Failed to connect to database", zap.Error(err))
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		log.Info("Connected to database")

		if err := database.AutoMigrate(db); err != nil {
			log.Error("Failed to run migrations", zap.Error(err))
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info("Database migrations completed")

		opts.Predictions = postgres.NewPredictionRepository(db)
	}

	// Initialize Redis (optional, continue without it)
	var redisClient *goredis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Warn("Failed to connect to Redis, continuing without cache", zap.Error(err))
			redisClient = nil
		} else {
			log.Info("Connected to Redis", zap.String("model_key", pipeline.ModelKey()))
			opts.Cache = redis.NewLabelCache(redisClient, pipeline.ModelKey())
		}
	}

	classifyUC := usecase.NewClassifyUsecase(pipeline.Classifier, pipeline.Resolver, opts)

	// Setup router
	r := router.Setup(router.Dependencies{
		ClassifyUC: classifyUC,
		Model:      pipeline.Model,
		DB:         db,
		Redis:      redisClient,
		Metrics:    opts.Metrics,
		Logger:     log,

		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Resolver.Timeout + cfg.Model.Timeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("Starting server", zap.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// Close database connection
	if db != nil {
		if sqlDB, err := db.DB(); err == nil && sqlDB != nil {
			_ = sqlDB.Close()
		}
	}

	// Close Redis connection
	if redisClient != nil {
		_ = redisClient.Close()
	}

	log.Info("Server exited")
	return nil
}
