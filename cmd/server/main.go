package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/auracast/dashboard-core/internal/api"
	"github.com/auracast/dashboard-core/internal/config"
	"github.com/auracast/dashboard-core/internal/scheduler"
	"github.com/auracast/dashboard-core/internal/services"
	"github.com/auracast/dashboard-core/pkg/client"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	zap.ReplaceGlobals(logger)
	logger.Info("Starting AuraCast Dashboard Core")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Backend API client
	clientConfig := client.ClientConfig{
		Timeout:        cfg.API.AnalysisTimeout,
		MaxRetries:     cfg.Retry.MaxRetries,
		RetryDelay:     cfg.Retry.Delay,
		Multiplier:     cfg.Retry.Multiplier,
		Threshold:      cfg.CircuitBreaker.Threshold,
		BreakerTimeout: cfg.CircuitBreaker.Timeout,
	}
	apiClient := client.NewAuraCastClient(cfg.API.BaseURL, clientConfig, logger)

	// Pipeline services
	generator := services.NewSyntheticSeriesGenerator(nil)
	mapper := services.NewAnalysisResultMapper(generator)

	defaultLocation := ""
	if len(cfg.Refresh.DefaultLocations) > 0 {
		defaultLocation = cfg.Refresh.DefaultLocations[0]
	}

	router := services.NewDataSourceRouter(apiClient, mapper, generator, services.RouterOptions{
		UseSyntheticData: cfg.Synthetic.Enabled,
		MockLatency:      cfg.Synthetic.MockLatency,
		AnalysisTimeout:  cfg.API.AnalysisTimeout,
		LookupTimeout:    cfg.API.LookupTimeout,
		DefaultLocation:  defaultLocation,
	}, logger)

	if cfg.Synthetic.Enabled {
		logger.Info("Synthetic data mode enabled",
			zap.Duration("mock_latency", cfg.Synthetic.MockLatency))
	}

	cache := services.NewDashboardCache(cfg.Cache.Duration, cfg.Cache.MaxSize, logger)

	// Cache refresher
	refresher := scheduler.NewRefresher(
		router,
		cache,
		cfg.Refresh.DefaultLocations,
		cfg.Refresh.Interval,
		logger,
	)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: errorHandler,
	})

	// Setup handlers and routes
	handler := api.NewHandler(router, mapper, cache, logger)
	api.SetupRoutes(app, handler, logger)

	// Start refresher
	if err := refresher.Start(); err != nil {
		logger.Fatal("Failed to start refresher", zap.Error(err))
	}

	// Start server in goroutine
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Info("Starting server", zap.String("address", addr))

		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Stop background work
	refresher.Stop()
	cache.Stop()

	// Shutdown Fiber app
	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}

	logger.Info("Server stopped")
}

func errorHandler(c *fiber.Ctx, err error) error {
	zap.L().Error("HTTP error",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err))

	// Default to 500 status code
	code := fiber.StatusInternalServerError

	// Check if it's a Fiber error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   err.Error(),
		"success": false,
	})
}
