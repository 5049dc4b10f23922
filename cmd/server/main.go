package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/strategy-ledger/internal/cache"
	"github.com/strategy-ledger/internal/config"
	"github.com/strategy-ledger/internal/handler"
	"github.com/strategy-ledger/internal/middleware"
	"github.com/strategy-ledger/internal/repository"
	"github.com/strategy-ledger/internal/service"
	"github.com/strategy-ledger/internal/worker"
)

// Build info (injected at build time via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	configPath := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		configPath = v
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("Config %s not found, using defaults and environment", configPath)
		cfg, err = config.FromEnv(), nil
	}
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := middleware.InitLogger(cfg.Log.Dir); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	// Initialize database
	store, err := repository.OpenStore(cfg.Database, cfg.Server.Mode != gin.ReleaseMode)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize Redis result cache (optional)
	var rdb *redis.Client
	var resultCache cache.Cache
	if cfg.Cache.Enabled() && cfg.Redis.Host != "" {
		rdb = cache.NewClient(cfg.Redis)
		resultCache = cache.NewRedisCache(rdb, cfg.Cache.TTL())
		middleware.LogInfo("Result cache enabled, ttl=%v", cfg.Cache.TTL())
	}

	// Initialize repositories
	strategyRepo := repository.NewStrategyRepository(store)
	tradeRepo := repository.NewTradeRepository(store)

	// Initialize services
	authService := service.NewAuthService(cfg.JWT)
	strategyService := service.NewStrategyService(strategyRepo, tradeRepo)
	performanceService := service.NewPerformanceService(strategyRepo, tradeRepo, resultCache)
	portfolioService := service.NewPortfolioService(strategyRepo, strategyService, performanceService)

	// Keep idle pool connections honest
	keepalive := worker.NewKeepaliveWorker(store, time.Duration(cfg.Database.KeepaliveSeconds)*time.Second)

	// Initialize handlers
	var cachePinger handler.Pinger
	if rdb != nil {
		cachePinger = handler.PingerFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}
	healthHandler := handler.NewHealthHandler(handler.BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
	}, store, cachePinger).WithKeepalive(keepalive)
	strategyHandler := handler.NewStrategyHandler(strategyService, performanceService)
	portfolioHandler := handler.NewPortfolioHandler(portfolioService)
	tradeHandler := handler.NewTradeHandler(strategyService)
	streamHandler := handler.NewStreamHandler(strategyService, cfg.Stream.Interval())

	// Create Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RequestLoggerMiddleware())
	router.Use(corsMiddleware())

	healthHandler.RegisterRoutes(router)

	authMiddleware := middleware.AuthMiddleware(authService)
	if !authService.Enabled() {
		middleware.LogInfo("JWT secret not set, API is unauthenticated")
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		strategyHandler.RegisterRoutes(v1, authMiddleware)
		portfolioHandler.RegisterRoutes(v1, authMiddleware)
		tradeHandler.RegisterRoutes(v1, authMiddleware)
	}
	streamHandler.RegisterRoutes(router, authMiddleware)

	go keepalive.Start()

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		middleware.LogInfo("Starting server on %s (version %s)", addr, Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	middleware.LogInfo("Shutting down server...")

	keepalive.Stop()

	// Graceful shutdown with 10 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		middleware.LogError("Server forced to shutdown: %v", err)
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			middleware.LogError("Error closing Redis connection: %v", err)
		}
	}
	if err := store.Close(); err != nil {
		middleware.LogError("Error closing database: %v", err)
	}

	middleware.LogInfo("Server exited properly")
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, X-Request-ID")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
