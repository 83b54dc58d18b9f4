package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/qmenu/selforder-api/internal/config"
	"github.com/qmenu/selforder-api/internal/infrastructure/cache"
	"github.com/qmenu/selforder-api/internal/presentation/http/handler"
	"github.com/qmenu/selforder-api/internal/presentation/http/middleware"
	"github.com/qmenu/selforder-api/pkg/utils"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Session *handler.SessionHandler
	Catalog *handler.CatalogHandler
	Cart    *handler.CartHandler
	Order   *handler.OrderHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager       *utils.JWTManager
	Cfg              *config.Config
	IdempotencyStore *cache.RedisIdempotencyStore
	Logger           *zap.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no session required)
		registerSessionRoutes(v1, h, deps)

		// Session routes (kiosk session token required)
		session := v1.Group("")
		session.Use(middleware.SessionMiddleware(deps.JWTManager))

		// Per-session rate limiter
		rateLimiter := middleware.NewSessionRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		session.Use(rateLimiter.Middleware())

		registerSessionScopedRoutes(session, h, deps)
	}

	return router
}

func registerSessionRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	sessions := v1.Group("/sessions")
	{
		sessions.POST("", h.Session.StartSession)
	}

	// Back-office endpoints, guarded by the admin key
	admin := v1.Group("/admin")
	admin.Use(middleware.AdminKeyMiddleware(deps.Cfg.App.AdminKey))
	{
		admin.POST("/devices", h.Session.RegisterDevice)
		admin.PUT("/catalog/:branchId", h.Catalog.Sync)
	}
}

func registerSessionScopedRoutes(session *gin.RouterGroup, h *Handlers, deps *Deps) {
	session.DELETE("/sessions/current", h.Session.EndSession)

	// Menu
	catalog := session.Group("/catalog")
	{
		catalog.GET("/categories", h.Catalog.ListCategories)
		catalog.GET("/products", h.Catalog.ListProducts)
		catalog.GET("/products/:id", h.Catalog.GetProduct)
	}

	// Draft cart
	cart := session.Group("/cart")
	{
		cart.GET("", h.Cart.Get)
		cart.POST("/items", h.Cart.AddVariant)
		cart.POST("/items/configured", h.Cart.AddItem)
		cart.POST("/items/remove", h.Cart.RemoveProduct)
		cart.PUT("/items/:uuid/increase", h.Cart.IncreaseItem)
		cart.PUT("/items/:uuid/decrease", h.Cart.DecreaseItem)
		cart.DELETE("/items/:uuid", h.Cart.RemoveItem)
		cart.PUT("/variants/:id/comment", h.Cart.SetItemComment)
		cart.DELETE("", h.Cart.Clear)
	}

	// Committed orders
	orders := session.Group("/orders")
	{
		orders.GET("", h.Order.List)
		// Order submission uses idempotency middleware to prevent duplicates
		orders.POST("", middleware.IdempotencyRequired(deps.IdempotencyStore), h.Order.Submit)
		orders.GET("/:id", h.Order.Get)
		orders.GET("/:id/wait", h.Order.Wait)
	}
}
