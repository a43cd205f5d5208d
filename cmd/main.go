package main

import (
	"net/http"

	"warescan-service/internal/handler"
	mid "warescan-service/internal/middleware"
	"warescan-service/internal/model"
	"warescan-service/internal/replicate"
	"warescan-service/internal/store"
	"warescan-service/pkg/config"
	"warescan-service/pkg/database"
	"warescan-service/pkg/jwtutil"
	"warescan-service/pkg/logger"
	"warescan-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration (.env is handled inside Load)
	appConfig, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       appConfig.Log.Level,
		Environment: appConfig.Server.Env,
		ServiceName: appConfig.ServiceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting warescan-service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	if _, err := database.InitDB(&appConfig.DB); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := database.MigrateModels(&model.User{}, &model.Package{}); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database connection established")

	// Replication: local-first, remote is optional and eventually consistent
	var replicator replicate.Replicator = replicate.Nop{}
	if appConfig.Replication.RemoteURL != "" {
		queue := replicate.NewQueue(
			replicate.NewHTTPTarget(appConfig.Replication.RemoteURL),
			log,
			replicate.Options{
				QueueSize:    appConfig.Replication.QueueSize,
				MaxRetries:   appConfig.Replication.MaxRetries,
				RetryBackoff: appConfig.Replication.RetryBackoff,
			})
		queue.Start()
		defer queue.Stop()
		replicator = queue
		log.Info("Remote replication enabled",
			zap.String("remote_url", appConfig.Replication.RemoteURL))
	} else {
		log.Info("Remote replication disabled, running local-only")
	}

	handler.Init(store.NewGormStore(database.GetDB()), replicator, appConfig.Admin.ResetConfirmationCode)

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth routes
	e.POST("/auth/register", handler.Register)
	e.POST("/auth/login", handler.Login)
	e.GET("/auth/me", handler.Me, mid.AuthMiddleware)

	// Package API routes - auth middleware resolves the warehouse scope
	packageAPI := e.Group("/api/packages", mid.AuthMiddleware)
	packageAPI.GET("", handler.ListPackages)
	packageAPI.GET("/barcode/:barcode", handler.GetPackageByBarcode)
	packageAPI.POST("", handler.CreatePackage)
	packageAPI.POST("/import", handler.ImportManifest)
	packageAPI.POST("/validate/:barcode", handler.ValidatePackage)
	packageAPI.POST("/:id/release", handler.ReleasePackage)
	packageAPI.POST("/:id/transfer", handler.TransferPackage)
	packageAPI.POST("/:id/nevis-receive", handler.NevisReceivePackage)
	packageAPI.POST("/:id/revert", handler.RevertPackage)
	packageAPI.POST("/verify/:barcode", handler.VerifyPackage)
	packageAPI.PATCH("/:id", handler.UpdatePackage)
	packageAPI.DELETE("/:id", handler.DeletePackage)

	// Admin routes
	adminAPI := e.Group("/api/admin", mid.AuthMiddleware)
	adminAPI.POST("/reset", handler.ResetData)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
