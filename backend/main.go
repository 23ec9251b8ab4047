package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cursifynova/backend/cache"
	"cursifynova/backend/config"
	"cursifynova/backend/middleware"
	"cursifynova/backend/routes"
	"cursifynova/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

//go:generate swag init -g main.go -o docs

const shutdownTimeout = 10 * time.Second

// @title CursifyNova API
// @version 1.0
// @description Course catalog, progress tracking and certificates.
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(cfg.IsProduction())
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		logger.Error("database init failed", "error", err)
		os.Exit(1)
	}

	store := newCacheStore(cfg, logger)
	defer store.Close()
	responseCache := cache.New(store, logger.With("component", "cache"))

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "CursifyNova",
		ErrorHandler: utils.ErrorHandler(logger, cfg.IsProduction()),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	routes.SetupRoutes(app, db, cfg, responseCache, logger)

	go func() {
		if err := app.Listen(":" + cfg.ServerPort); err != nil {
			logger.Error("server stopped", "error", err)
		}
	}()
	logger.Info("server started", "port", cfg.ServerPort, "env", cfg.AppEnv)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}

// newCacheStore connects to Redis when REDIS_ADDR is set. Without it, or
// when Redis is unreachable at boot, responses are cached in process.
func newCacheStore(cfg *config.Config, logger *utils.Logger) cache.Store {
	if cfg.RedisAddr == "" {
		logger.Info("REDIS_ADDR not set, using in-memory response cache")
		return cache.NewMemoryStore()
	}

	store, err := cache.NewRedisStore(context.Background(), cache.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		logger.Warn("redis unavailable, using in-memory response cache", "addr", cfg.RedisAddr, "error", err)
		return cache.NewMemoryStore()
	}
	logger.Info("redis cache connected", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
	return store
}
