package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"mandado/internal/domain"
	"mandado/internal/handler"
	"mandado/internal/middleware"
	"mandado/internal/service"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	AuthService         *service.AuthService
	AuthHandler         *handler.AuthHandler
	UserHandler         *handler.UserHandler
	RequestHandler      *handler.RequestHandler
	ProviderHandler     *handler.ProviderHandler
	WalletHandler       *handler.WalletHandler
	NotificationHandler *handler.NotificationHandler
	GeoHandler          *handler.GeoHandler
	RedisClient         *redis.Client
	NewRelicApp         *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authRequired := middleware.AuthMiddleware(deps.AuthService)
	prestadorOnly := middleware.RequireAccountType(string(domain.AccountTypePrestador))

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Auth routes.
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", deps.AuthHandler.Signup)
			auth.POST("/login", deps.AuthHandler.Login)
			auth.POST("/recover", deps.AuthHandler.Recover)
			auth.POST("/reset", deps.AuthHandler.Reset)
		}

		// User profile routes.
		users := v1.Group("/users", authRequired)
		{
			users.GET("/me", deps.UserHandler.Me)
			users.PUT("/me", deps.UserHandler.UpdateProfile)
			users.DELETE("/me", deps.UserHandler.Delete)
		}

		// Service category list.
		v1.GET("/categories", authRequired, deps.RequestHandler.Categories)

		// Service request routes.
		requests := v1.Group("/requests", authRequired)
		{
			requests.POST("", deps.RequestHandler.Create)
			requests.GET("", deps.RequestHandler.ListMine)
			requests.GET("/:id", deps.RequestHandler.Get)
			requests.POST("/:id/cancel", deps.RequestHandler.Cancel)
			requests.POST("/:id/complete", prestadorOnly, deps.RequestHandler.Complete)
		}

		// Provider routes.
		providers := v1.Group("/providers", authRequired)
		{
			providers.POST("", prestadorOnly, deps.ProviderHandler.Register)
			providers.GET("/:id", deps.ProviderHandler.Details)
			providers.PUT("/me/location", prestadorOnly, deps.ProviderHandler.UpdateLocation)
			providers.POST("/me/offline", prestadorOnly, deps.ProviderHandler.SetOffline)
			providers.POST("/me/accept/:request_id", prestadorOnly, deps.ProviderHandler.AcceptRequest)
		}

		// Wallet routes.
		wallet := v1.Group("/wallet", authRequired)
		{
			wallet.GET("", deps.WalletHandler.Get)
			wallet.POST("/recharge", deps.WalletHandler.Recharge)
			wallet.POST("/withdraw", deps.WalletHandler.Withdraw)
			wallet.POST("/pay/:request_id", deps.WalletHandler.Pay)
			wallet.GET("/transactions", deps.WalletHandler.Transactions)
		}

		// Payment gateway webhook. Authenticated by the gateway's
		// shared secret at the edge, not by a user token.
		v1.POST("/payments/webhook", deps.WalletHandler.Webhook)

		// Notification routes.
		notifications := v1.Group("/notifications", authRequired)
		{
			notifications.GET("", deps.NotificationHandler.List)
			notifications.POST("/:id/read", deps.NotificationHandler.MarkRead)
		}

		// Geocoding routes.
		geo := v1.Group("/geo", authRequired)
		{
			geo.GET("/search", deps.GeoHandler.Search)
			geo.GET("/reverse", deps.GeoHandler.Reverse)
			geo.GET("/nearby", deps.GeoHandler.Nearby)
			geo.GET("/cep/:cep", deps.GeoHandler.LookupCEP)
		}
	}

	return router
}
