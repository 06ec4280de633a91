package app

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"driveus/internal/handler"
	"driveus/internal/middleware"
	"driveus/internal/service"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	AuthHandler    *handler.AuthHandler
	QuoteHandler   *handler.QuoteHandler
	BookingHandler *handler.BookingHandler
	PaymentHandler *handler.PaymentHandler
	AuthService    *service.AuthService
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
	FrontendURL    string
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	corsCfg := cors.DefaultConfig()
	if deps.FrontendURL != "" {
		corsCfg.AllowOrigins = []string{deps.FrontendURL}
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "Idempotency-Key", "Stripe-Signature")
	router.Use(cors.New(corsCfg))

	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	if deps.RedisClient != nil {
		router.Use(middleware.Idempotency(deps.RedisClient))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", deps.AuthHandler.Register)
			auth.POST("/login", deps.AuthHandler.Login)
		}

		quotes := v1.Group("/quotes")
		{
			quotes.POST("", deps.QuoteHandler.Estimate)
			quotes.POST("/address", deps.QuoteHandler.EstimateAddress)
		}

		bookings := v1.Group("/bookings")
		{
			bookings.POST("/public", deps.BookingHandler.CreatePublic)

			authed := bookings.Group("", middleware.AuthRequired(deps.AuthService))
			{
				authed.POST("", deps.BookingHandler.Create)
				authed.GET("", deps.BookingHandler.GetAll)
				authed.GET("/:id", deps.BookingHandler.Get)
				authed.PATCH("/:id/status", deps.BookingHandler.SetStatus)
			}
		}

		payments := v1.Group("/payments")
		{
			payments.POST("/deposit-session", deps.PaymentHandler.CreateDepositSession)
			payments.POST("/webhook", deps.PaymentHandler.Webhook)
		}
	}

	return router
}
