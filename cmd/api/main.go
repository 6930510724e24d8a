package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"plant-store/internal/config"
	"plant-store/internal/database"
	"plant-store/internal/logger"
	"plant-store/internal/server"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *server.Server, logger *zap.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The context is used to inform the server it has 30 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// Close server resources
	if err := apiServer.Close(); err != nil {
		logger.Error("Error closing server resources", zap.Error(err))
	}

	logger.Info("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

// newRateLimitClient connects to Redis when rate limiting is enabled. A
// failed ping disables limiting rather than blocking startup.
func newRateLimitClient(ctx context.Context, cfg config.RateLimitConfig, log *zap.Logger) *redis.Client {
	if !cfg.Enabled {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("Redis unreachable, rate limiting disabled", zap.Error(err), zap.String("addr", cfg.RedisAddr))
		client.Close()
		return nil
	}

	log.Info("Rate limiting enabled",
		zap.Int("requests_per_window", cfg.RequestsPerWindow),
		zap.Duration("window", cfg.Window),
	)
	return client
}

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		log = logger.NewWithDefaults()
		log.Warn("Invalid logger configuration, using defaults", zap.Error(err))
	}
	defer log.Sync()

	log.Info("Starting plant store API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("store_driver", cfg.Store.Driver),
	)

	// Open the plant store, running migrations for Postgres
	ctx := context.Background()
	store, err := database.Open(ctx, cfg, true, log)
	if err != nil {
		log.Fatal("Failed to open plant store", zap.Error(err))
	}
	log.Info("Store health check", zap.Any("health", store.Health(ctx)))

	// Create server
	srv := server.NewServer(cfg, log, store, newRateLimitClient(ctx, cfg.RateLimit, log))

	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(srv, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	// Wait for the graceful shutdown to complete
	<-done
	log.Info("Graceful shutdown complete")
}
