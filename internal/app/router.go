package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"carbontrack/internal/handler"
	"carbontrack/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	TripHandler         *handler.TripHandler
	ResourceHandler     *handler.ResourceHandler
	ReportHandler       *handler.ReportHandler
	DashboardHandler    *handler.DashboardHandler
	EmissionTypeHandler *handler.EmissionTypeHandler
	RedisClient         *redis.Client
	NewRelicApp         *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Trip routes.
		trips := v1.Group("/trips")
		{
			trips.POST("", deps.TripHandler.CreateTrip)
			trips.GET("", deps.TripHandler.GetAll)
			trips.GET("/:id", deps.TripHandler.GetTrip)
			trips.PUT("/:id", deps.TripHandler.UpdateTrip)
			trips.DELETE("/:id", deps.TripHandler.DeleteTrip)
		}

		// Resource record routes.
		resources := v1.Group("/resources")
		{
			resources.POST("", deps.ResourceHandler.CreateResource)
			resources.GET("", deps.ResourceHandler.GetAll)
			resources.GET("/:id", deps.ResourceHandler.GetResource)
			resources.DELETE("/:id", deps.ResourceHandler.DeleteResource)
		}

		// Emission type catalog routes.
		emissionTypes := v1.Group("/emission-types")
		{
			emissionTypes.POST("", deps.EmissionTypeHandler.Create)
			emissionTypes.GET("", deps.EmissionTypeHandler.GetAll)
		}

		// Report routes.
		reports := v1.Group("/reports")
		{
			reports.POST("", deps.ReportHandler.Generate)
			reports.GET("", deps.ReportHandler.GetByYearAndOwner)
			reports.GET("/:id", deps.ReportHandler.GetReport)
			reports.DELETE("/:id", deps.ReportHandler.DeleteReport)
			reports.DELETE("/key/:key", deps.ReportHandler.DeleteReportByKey)
		}

		// Dashboard routes.
		dashboard := v1.Group("/dashboard")
		{
			dashboard.GET("/over-time", deps.DashboardHandler.OverTime)
			dashboard.GET("/by-date", deps.DashboardHandler.ByDate)
			dashboard.GET("/by-category", deps.DashboardHandler.ByCategory)
			dashboard.GET("/trend", deps.DashboardHandler.Trend)
		}
	}

	return router
}
