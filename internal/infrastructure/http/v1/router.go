// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"stockbook/internal/domain/auth"
	"stockbook/internal/domain/catalogs/variant"
	"stockbook/internal/domain/directory/location"
	"stockbook/internal/domain/directory/party"
	"stockbook/internal/domain/ledger"
	"stockbook/internal/domain/pricing"
	"stockbook/internal/domain/stock"
	"stockbook/internal/infrastructure/http/v1/handlers"
	"stockbook/internal/infrastructure/http/v1/middleware"
	"stockbook/internal/infrastructure/storage/postgres"
	"stockbook/pkg/logger"
)

// RouterConfig holds the wired services the router exposes.
type RouterConfig struct {
	Pool   *postgres.Pool
	Logger *logger.Logger

	TokenValidator middleware.TokenValidator

	AuthService     *auth.Service
	LocationService *location.Service
	PartyService    *party.Service
	VariantService  *variant.Service
	LedgerService   *ledger.Service
	PricingService  *pricing.Service
	StockService    *stock.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler(cfg.Logger))

	base := handlers.NewBaseHandler()

	// Health endpoints, no auth required
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	authHandler := handlers.NewAuthHandler(base, cfg.AuthService)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/register", authHandler.Register)
		v1.POST("/auth/login", authHandler.Login)

		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.TokenValidator))

		protected.GET("/auth/me", authHandler.Me)

		handlers.NewLocationHandler(base, cfg.LocationService).
			RegisterRoutes(protected.Group("/locations"))
		handlers.NewPartyHandler(base, cfg.PartyService).
			RegisterRoutes(protected.Group("/parties"))

		variantHandler := handlers.NewVariantHandler(base, cfg.VariantService)
		variants := protected.Group("/variants")
		variantHandler.RegisterRoutes(variants)

		pricingHandler := handlers.NewPricingHandler(base, cfg.PricingService)
		variants.POST("/:id/reprice", pricingHandler.Reprice)
		variants.GET("/:id/prices", pricingHandler.History)

		handlers.NewOperationHandler(base, cfg.LedgerService).
			RegisterRoutes(protected.Group("/operations"))

		stockHandler := handlers.NewStockHandler(base, cfg.StockService)
		stockGroup := protected.Group("/stock")
		{
			stockGroup.GET("/on-hand", stockHandler.OnHand)
			stockGroup.GET("/locations/:id", stockHandler.LocationBalances)
			stockGroup.GET("/variants/:id", stockHandler.VariantBalances)
			stockGroup.GET("/turnover", stockHandler.Turnover)
		}
	}

	return router
}
