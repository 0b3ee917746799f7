package server

import (
	"fmt"
	"net/http"
	"time"

	"shoppyglobe/internal/catalog"
	"shoppyglobe/internal/config"
	"shoppyglobe/internal/domain"
	custommiddleware "shoppyglobe/internal/middleware"
	"shoppyglobe/internal/service"
	"shoppyglobe/internal/store"
	"shoppyglobe/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config      *config.Config
	logger      *zap.Logger
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.Server.Env == "development"))

	// Optional Redis-backed rate limiting
	var redisClient *redis.Client
	if cfg.RateLimit.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		router.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.RequestsPerMinute,
			Window:            time.Minute,
			KeyPrefix:         "storefront_rate_limit",
		}, logger))
	}

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Initialize the catalog client
	catalogClient := catalog.NewClient(
		cfg.Catalog.BaseURL,
		cfg.Catalog.Limit,
		time.Duration(cfg.Catalog.TimeoutSeconds)*time.Second,
	)

	// Initialize the process-wide stores
	cartStore := store.NewCartStore()
	searchStore := store.NewSearchStore()

	// Observe store transitions the way the UI views would
	cartStore.Subscribe(func() {
		lines := cartStore.Lines()
		logger.Debug("Cart updated",
			zap.Int("lines", len(lines)),
			zap.Int("items", domain.ItemCount(lines)),
			zap.Float64("subtotal", domain.Subtotal(lines)),
		)
	})
	searchStore.Subscribe(func() {
		logger.Debug("Search query changed", zap.String("query", searchStore.Query()))
	})

	// Initialize services
	checkoutService := service.NewCheckoutService(cartStore)

	// Initialize handlers
	storefrontHandler := transport.NewStorefrontHandler(catalogClient, cartStore, searchStore, checkoutService, logger)
	storefrontHandler.RegisterRoutes(router)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:      cfg,
		logger:      logger,
		redisClient: redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
