package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"plant-store/internal/config"
	"plant-store/internal/database"
	custommiddleware "plant-store/internal/middleware"
	"plant-store/internal/service"
	"plant-store/internal/storage"
	"plant-store/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	store  *database.Store
	redis  *redis.Client
}

// NewServer wires the catalog API on top of an opened store. redisClient
// may be nil, in which case write endpoints are not rate limited.
func NewServer(cfg *config.Config, logger *zap.Logger, store *database.Store, redisClient *redis.Client) *Server {
	router := chi.NewRouter()

	// Add basic middleware
	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, !cfg.Server.IsProduction()))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		health := store.Health(r.Context())
		health["driver"] = store.Driver

		status := http.StatusOK
		if health["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		custommiddleware.RespondWithJSON(w, status, health)
	})

	// Initialize storage and services
	imageStore := storage.NewLocalImageStore(cfg.Uploads.Dir, cfg.Uploads.PublicPath)
	uploadService := service.NewUploadService(imageStore, cfg.Uploads.MaxBytes, logger)
	catalogService := service.NewCatalogService(store.Plants, cfg.Store.QueryTimeout, logger)
	plantService := service.NewPlantService(store.Plants, uploadService, cfg.Store.QueryTimeout, logger)

	// Initialize handlers
	plantHandler := transport.NewPlantHandler(catalogService, plantService, cfg.Uploads.MaxBytes, logger)
	categoryHandler := transport.NewCategoryHandler(catalogService, logger)
	uploadHandler := transport.NewUploadHandler(uploadService, cfg.Uploads.MaxBytes, logger)

	var writeMiddleware []func(http.Handler) http.Handler
	if redisClient != nil {
		writeMiddleware = append(writeMiddleware, custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.RequestsPerWindow,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "plant_store_rate_limit",
		}, logger))
	}

	// Register routes
	plantHandler.RegisterRoutes(router, writeMiddleware...)
	categoryHandler.RegisterRoutes(router)
	uploadHandler.RegisterRoutes(router, writeMiddleware...)
	mountUploads(router, imageStore, cfg.Uploads.PublicPath)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		store:  store,
		redis:  redisClient,
	}

	return server
}

// mountUploads serves stored images under publicPath
func mountUploads(r chi.Router, store *storage.LocalImageStore, publicPath string) {
	prefix := "/" + strings.Trim(publicPath, "/")
	fileServer := http.StripPrefix(prefix, http.FileServer(http.Dir(store.Dir())))

	r.Get(prefix+"/*", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("X-Content-Type-Options", "nosniff")
		fileServer.ServeHTTP(w, r)
	})
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Close database connection
	if err := s.store.Close(ctx); err != nil {
		s.logger.Error("Failed to close database connection", zap.Error(err))
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
