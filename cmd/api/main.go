package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/qmenu/selforder-api/internal/application/service"
	"github.com/qmenu/selforder-api/internal/config"
	"github.com/qmenu/selforder-api/internal/infrastructure/cache"
	"github.com/qmenu/selforder-api/internal/infrastructure/database"
	"github.com/qmenu/selforder-api/internal/infrastructure/pubsub"
	"github.com/qmenu/selforder-api/internal/infrastructure/repository"
	"github.com/qmenu/selforder-api/internal/infrastructure/upstream"
	"github.com/qmenu/selforder-api/internal/presentation/http/handler"
	"github.com/qmenu/selforder-api/internal/presentation/http/routes"
	"github.com/qmenu/selforder-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Seed default data
	if err := database.SeedDefaultData(db, logger); err != nil {
		logger.Warn("Failed to seed default data", zap.Error(err))
	}

	// Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.SessionExpiry)

	// Initialize repositories and stores
	catalogRepo := repository.NewCatalogRepository(db)
	participantRepo := repository.NewParticipantRepository(db)
	deviceRepo := repository.NewDeviceRepository(db)
	cartStore := cache.NewRedisCartStore(redisClient, cfg.Redis.CartTTL, logger)
	idempotencyStore := cache.NewRedisIdempotencyStore(redisClient, 24*time.Hour)
	orderCache := cache.NewOrderCache(logger)

	// Upstream ordering platform client
	submitter := upstream.NewClient(&cfg.Upstream, logger)

	// Order push subscriber
	subscriber := pubsub.NewOrderSubscriber(redisClient, cfg.Redis.OrderChannelPrefix, orderCache, logger)
	defer subscriber.Close()

	// Initialize services
	cartService := service.NewCartService(cartStore, catalogRepo, logger)
	orderService := service.NewOrderService(cartService, catalogRepo, participantRepo, submitter, orderCache, logger)
	catalogService := service.NewCatalogService(catalogRepo, logger)
	sessionService := service.NewSessionService(deviceRepo, participantRepo, cartService, subscriber, orderCache, jwtManager, cfg.JWT.SessionExpiry)

	// Initialize handlers
	handlers := &routes.Handlers{
		Session: handler.NewSessionHandler(sessionService),
		Catalog: handler.NewCatalogHandler(catalogService),
		Cart:    handler.NewCartHandler(cartService),
		Order:   handler.NewOrderHandler(orderService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:       jwtManager,
		Cfg:              cfg,
		IdempotencyStore: idempotencyStore,
		Logger:           logger,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting server",
			zap.String("service", cfg.App.Name),
			zap.String("port", port),
			zap.String("environment", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt, then drain in-flight requests before closing the
	// push subscriber and Redis connection.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.App.Debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
