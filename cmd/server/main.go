package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"carbontrack/internal/app"
	"carbontrack/internal/config"
	"carbontrack/internal/geocode"
	"carbontrack/internal/handler"
	internalRedis "carbontrack/internal/redis"
	"carbontrack/internal/repository/postgres"
	"carbontrack/internal/service"
)

func main() {
	// Load .env if present, then configuration from the environment.
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	// Initialize Redis stores.
	reportCache := internalRedis.NewReportCache(redisClient)
	geocodeCache := internalRedis.NewGeocodeCache(redisClient)
	lockStore := internalRedis.NewLockStore(redisClient)

	// Initialize repositories.
	tripRepo := postgres.NewTripRepository(db)
	resourceRepo := postgres.NewResourceRepository(db)
	reportRepo := postgres.NewReportRepository(db)
	emissionTypeRepo := postgres.NewEmissionTypeRepository(db)

	// Initialize the geocoding client; trips require explicit coordinates
	// when no provider is configured.
	var geocoder service.Geocoder
	if client := geocode.NewClient(cfg.Geocoder.BaseURL, cfg.Geocoder.APIKey, geocodeCache); client.IsConfigured() {
		geocoder = client
	}

	// Initialize services.
	factorService := service.NewEmissionFactorService(emissionTypeRepo)
	tripService := service.NewTripService(tripRepo, geocoder)
	resourceService := service.NewResourceService(resourceRepo, factorService)
	reportService := service.NewReportService(reportRepo, tripRepo, resourceRepo, reportCache, lockStore)
	dashboardService := service.NewDashboardService(tripRepo)

	// Initialize handlers.
	tripHandler := handler.NewTripHandler(tripService)
	resourceHandler := handler.NewResourceHandler(resourceService)
	reportHandler := handler.NewReportHandler(reportService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	emissionTypeHandler := handler.NewEmissionTypeHandler(factorService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		TripHandler:         tripHandler,
		ResourceHandler:     resourceHandler,
		ReportHandler:       reportHandler,
		DashboardHandler:    dashboardHandler,
		EmissionTypeHandler: emissionTypeHandler,
		RedisClient:         redisClient,
		NewRelicApp:         nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
