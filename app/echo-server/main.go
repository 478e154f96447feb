package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"engagePulse/app/echo-server/metrics"
	"engagePulse/app/echo-server/router"
	"engagePulse/business/adtrack"
	"engagePulse/business/reactions"
	"engagePulse/internal/middleware"
	memoryRepo "engagePulse/internal/repository/memory"
	psqlRepo "engagePulse/internal/repository/postgres"
	redisRepo "engagePulse/internal/repository/redis"
	"engagePulse/internal/rest"
	"engagePulse/pkg/config"
	"engagePulse/pkg/database"
	"engagePulse/pkg/logger"
	"engagePulse/pkg/response"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// kvStore matches the store interface both business packages declare.
type kvStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting EngagePulse", "version", cfg.App.Version, "backend", cfg.Storage.Backend)

	metrics.Init()

	// Init storage backend
	var store kvStore
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		client, err := database.NewRedisClient(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to redis", "error", err)
		}
		defer database.CloseRedisClient(client)
		store = redisRepo.NewKVRepository(client)
	case config.BackendPostgres:
		db, err := database.InitPostgres(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to database", "error", err)
		}
		repo, err := psqlRepo.NewKVRepository(db)
		if err != nil {
			logger.Fatal("Failed to prepare kv table", "error", err)
		}
		store = repo
	default:
		store = memoryRepo.NewKVRepository()
	}

	logger.Info("Storage ready", "backend", cfg.Storage.Backend)

	// Init service
	reactionsService := reactions.NewService(store)
	adService := adtrack.NewService(store)

	// Init handler
	reactionsHandler := rest.NewReactionsHandler(reactionsService)
	adHandler := rest.NewAdAnalyticsHandler(adService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(metrics.Middleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowCredentials: true,
	}))

	identity := middleware.IdentityMiddleware(cfg.Identity)

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupReactionRoutes(api, reactionsHandler, identity)
	router.SetupAdAnalyticsRoutes(api, adHandler, identity)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, response.OK(map[string]string{
			"status":  "ok",
			"version": cfg.App.Version,
		}))
	})

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
