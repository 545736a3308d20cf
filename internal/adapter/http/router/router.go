package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ressKim-io/NewsMind/api-service/internal/adapter/http/handler"
	"github.com/ressKim-io/NewsMind/api-service/internal/adapter/http/middleware"
	"github.com/ressKim-io/NewsMind/api-service/internal/infrastructure/metrics"
	"github.com/ressKim-io/NewsMind/api-service/internal/usecase"
)

// Dependencies holds everything the router wires into handlers.
// DB, Redis, Model, Metrics and Gatherer may be nil.
type Dependencies struct {
	ClassifyUC usecase.ClassifyUsecase
	Model      handler.ModelChecker
	DB         *gorm.DB
	Redis      *redis.Client
	Metrics    *metrics.Metrics
	Gatherer   prometheus.Gatherer
	Logger     *zap.Logger

	// Classification rate limit; zero RateLimitRPS disables it
	RateLimitRPS   float64
	RateLimitBurst int
}

// Setup creates and configures the Gin router
func Setup(deps Dependencies) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())
	router.Use(middleware.Metrics(deps.Metrics))

	// Health endpoints
	healthHandler := handler.NewHealthHandler(deps.Model, deps.DB, deps.Redis)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(metricsHandler(deps.Gatherer)))

	classifyHandler := handler.NewClassifyHandler(deps.ClassifyUC)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Classification routes
		classify := v1.Group("/classify", middleware.RateLimit(deps.RateLimitRPS, deps.RateLimitBurst))
		{
			classify.POST("", classifyHandler.ClassifyText)
			classify.POST("/url", classifyHandler.ClassifyURL)
			classify.POST("/feed", classifyHandler.ClassifyFeed)
		}

		v1.GET("/labels", classifyHandler.Labels)
		v1.GET("/examples", classifyHandler.Examples)

		// Prediction history routes
		predictions := v1.Group("/predictions")
		{
			predictions.GET("", classifyHandler.ListPredictions)
			predictions.GET("/:id", classifyHandler.GetPrediction)
		}
	}

	return router
}

func metricsHandler(gatherer prometheus.Gatherer) http.Handler {
	if gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
