package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"gridstock/internal/analytics"
	"gridstock/internal/caching"
	"gridstock/internal/handlers"
	"gridstock/internal/jobs"
	"gridstock/internal/jobs/background"
	"gridstock/internal/middleware"
	"gridstock/internal/repositories"
	"gridstock/internal/services"
	"gridstock/pkg/database"
)

const version = "1.0.0"

func main() {
	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.ClosePool(pool)

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret")
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379" // Default Redis address
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDBStr := os.Getenv("REDIS_DB")
	redisDB := 0 // Default DB
	if redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000" // Default MinIO endpoint
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin" // Default for development
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin" // Default for development
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	// Initialize asset storage
	assetSvc, err := services.NewAssetService(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize asset service: %v", err)
	}
	if err := assetSvc.EnsureBucketExists(context.Background(), "floor-plans"); err != nil {
		log.Printf("WARNING: Failed to ensure floor-plans bucket: %v", err)
	}

	// Create repositories
	layoutRepo := repositories.NewLayoutRepo(pool)
	sectionRepo := repositories.NewSectionRepo(pool)
	lineRepo := repositories.NewInventoryLineRepo(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Create services
	layoutSvc := services.NewLayoutService(pool, layoutRepo, sectionRepo, lineRepo, cacheSvc)
	sectionSvc := services.NewSectionService(layoutRepo, sectionRepo, lineRepo, cacheSvc)
	moveSvc := services.NewMoveService(pool, sectionRepo, lineRepo, cacheSvc)
	analyticsSvc := analytics.NewAnalyticsService(layoutRepo, sectionRepo, lineRepo, cacheSvc)

	// Create handlers
	layoutHandlers := handlers.NewLayoutHandlers(layoutSvc, assetSvc, analyticsSvc)
	sectionHandlers := handlers.NewSectionHandlers(sectionSvc)
	moveHandlers := handlers.NewMoveHandlers(moveSvc, cacheSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	// Background jobs
	reconcilerSvc := jobs.NewUsageReconcilerService(layoutRepo, sectionRepo, lineRepo)
	alertSvc := jobs.NewCapacityAlertService(layoutRepo, sectionRepo)
	scheduler := background.NewJobScheduler(analyticsSvc, reconcilerSvc, alertSvc, layoutRepo)
	if err := scheduler.Start(); err != nil {
		log.Printf("Failed to start job scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)
	e.GET("/metrics", healthHandlers.GetMetrics)

	// API routes
	versionMiddleware := middleware.NewVersionMiddleware()
	v1 := e.Group("/v1")
	v1.Use(versionMiddleware.VersionHeader("v1"))

	// Protected routes (require JWT)
	protected := v1.Group("")
	protected.Use(echojwt.WithConfig(middleware.JWTConfig(jwtSecret)))

	// Layout routes
	protected.POST("/layouts", layoutHandlers.SaveLayout)
	protected.GET("/warehouses/:warehouseId/layout", layoutHandlers.GetWarehouseLayout)
	protected.POST("/layouts/:id/image", layoutHandlers.UploadFloorPlan)
	protected.GET("/layouts/:id/summary", layoutHandlers.GetLayoutSummary)
	protected.GET("/layouts/:id/sections", layoutHandlers.ListLayoutSections)

	// Section routes
	protected.PUT("/layouts/:id/sections", sectionHandlers.ConfigureSections)
	protected.GET("/sections/:id", sectionHandlers.GetSection)

	// Move routes
	protected.POST("/moves", moveHandlers.ExecuteMove)
	protected.POST("/transfers", moveHandlers.Transfer)

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("Gridstock server v%s starting on port %d", version, port)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
