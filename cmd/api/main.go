package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"outlethub-api/internal/cache"
	"outlethub-api/internal/config"
	"outlethub-api/internal/event"
	"outlethub-api/internal/handler"
	"outlethub-api/internal/middleware"
	"outlethub-api/internal/repository"
	"outlethub-api/internal/router"
	"outlethub-api/internal/service"

	"github.com/redis/go-redis/v9"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting OutletHub API...")

	// Load configuration
	cfg := config.MustLoad()
	log.Printf("Environment: %s", cfg.App.Environment)

	// Initialize backing store based on config
	var store repository.Store
	var err error
	switch cfg.Store.Type {
	case "mongodb", "mongo":
		store, err = repository.NewMongoStore(cfg.Store.MongoURI, cfg.Store.MongoDatabase)
		if err != nil {
			log.Fatalf("Failed to initialize MongoDB: %v", err)
		}
		log.Println("MongoDB store initialized")
	case "mysql":
		store, err = repository.NewMySQLStore(cfg.Store.MySQLDSN())
		if err != nil {
			log.Fatalf("Failed to initialize MySQL: %v", err)
		}
		log.Println("MySQL store initialized")
	default: // sqlite
		store, err = repository.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite: %v", err)
		}
		log.Println("SQLite store initialized")
	}
	defer store.Close()

	// Initialize Redis for the stats snapshot cache (optional)
	var statsCache *cache.StatsCache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.RedisAddress(),
		Password: cfg.Cache.RedisPassword,
		DB:       cfg.Cache.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis connection failed, stats snapshot cache disabled: %v", err)
	} else {
		statsCache = cache.NewStatsCache(redisClient, cfg.Cache.SnapshotTTL)
		log.Println("Redis stats snapshot cache initialized")
	}
	cancel()

	// Initialize services
	tokenService := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	outletService := service.NewOutletService(store.Outlets(), tokenService)
	statsService := service.NewStatsService(store.Outlets(), store.Products(), statsCache)
	registrationService := service.NewRegistrationService(
		store.Users(), outletService, tokenService, cfg.Auth.AllowRegister)

	// Product lifecycle events feed the statistics aggregator
	events := event.NewDispatcher()
	events.Subscribe(statsService.HandleProductEvent)
	productService := service.NewProductService(store.Products(), store.Outlets(), events)

	// Create router
	r := router.New(router.Config{
		StatusHandler:   handler.NewStatusHandler(cfg.App.Name, cfg.App.Version, cfg.App.Environment),
		OutletHandler:   handler.NewOutletHandler(outletService),
		AuthHandler:     handler.NewAuthHandler(registrationService),
		StatsHandler:    handler.NewStatsHandler(statsService),
		ProductHandler:  handler.NewProductHandler(productService),
		MutationHandler: handler.NewMutationHandler(outletService, registrationService, tokenService),
		AdminHandler:    handler.NewAdminHandler(store, statsCache),
		AuthMiddleware:  middleware.NewAuthMiddleware(tokenService),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel = context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
