package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"github.com/cvsper/junkos-backend/internal/auth"
	"github.com/cvsper/junkos-backend/internal/domain"
	"github.com/cvsper/junkos-backend/internal/handler"
	"github.com/cvsper/junkos-backend/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	UserHandler       *handler.UserHandler
	JobHandler        *handler.JobHandler
	ContractorHandler *handler.ContractorHandler
	PricingHandler    *handler.PricingHandler
	PaymentHandler    *handler.PaymentHandler
	RatingHandler     *handler.RatingHandler
	TokenIssuer       *auth.TokenIssuer
	RedisClient       *redis.Client
	NewRelicApp       *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Public auth routes.
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", deps.UserHandler.Register)
			authGroup.POST("/login", deps.UserHandler.Login)
		}

		// Everything below requires a valid token. Idempotency runs after
		// auth so keys are scoped per tenant.
		authed := v1.Group("")
		authed.Use(middleware.AuthMiddleware(deps.TokenIssuer))
		authed.Use(middleware.TransactionAttributes())
		authed.Use(middleware.IdempotencyMiddleware(deps.RedisClient))
		{
			authed.GET("/me", deps.UserHandler.Me)

			// Quotes and the public rule table.
			authed.POST("/quotes", deps.PricingHandler.Quote)
			authed.GET("/pricing/rules", deps.PricingHandler.ListRules)

			// Job routes.
			jobs := authed.Group("/jobs")
			{
				jobs.POST("", middleware.RequireRole(domain.RoleCustomer), deps.JobHandler.Book)
				jobs.GET("", deps.JobHandler.List)
				jobs.GET("/:id", deps.JobHandler.Get)
				jobs.POST("/:id/confirm", middleware.RequireRole(domain.RoleCustomer), deps.JobHandler.Confirm)
				jobs.POST("/:id/cancel", deps.JobHandler.Cancel)
				jobs.POST("/:id/progress", middleware.RequireRole(domain.RoleDriver), deps.JobHandler.Progress)
				jobs.POST("/:id/ratings", deps.RatingHandler.Rate)
				jobs.GET("/:id/payment", deps.PaymentHandler.GetByJob)
			}

			// Contractor self-service routes.
			contractors := authed.Group("/contractors")
			contractors.Use(middleware.RequireRole(domain.RoleDriver))
			{
				contractors.POST("", deps.ContractorHandler.Register)
				contractors.GET("/me", deps.ContractorHandler.Me)
				contractors.PUT("/me/presence", deps.ContractorHandler.SetPresence)
				contractors.PUT("/me/location", deps.ContractorHandler.ReportLocation)
			}

			// Ratings received by a user.
			authed.GET("/users/:id/ratings", deps.RatingHandler.ListForUser)

			// Admin routes.
			admin := authed.Group("/admin")
			admin.Use(middleware.RequireRole(domain.RoleAdmin))
			{
				admin.GET("/contractors", deps.ContractorHandler.List)
				admin.PUT("/contractors/:id/approval", deps.ContractorHandler.SetApproval)
				admin.PUT("/users/:id/status", deps.UserHandler.SetStatus)

				admin.POST("/jobs/:id/assign", deps.JobHandler.Assign)
				admin.POST("/jobs/:id/auto-assign", deps.JobHandler.AutoAssign)
				admin.POST("/jobs/:id/unassign", deps.JobHandler.Unassign)
				admin.GET("/jobs/:id/candidates", deps.JobHandler.Candidates)

				admin.POST("/pricing/rules", deps.PricingHandler.CreateRule)
				admin.PUT("/pricing/rules/:id", deps.PricingHandler.UpdateRule)
				admin.GET("/surge-zones", deps.PricingHandler.ListZones)
				admin.POST("/surge-zones", deps.PricingHandler.CreateZone)
				admin.PUT("/surge-zones/:id", deps.PricingHandler.UpdateZone)

				admin.GET("/payments/:id", deps.PaymentHandler.Get)
				admin.POST("/payments/:id/authorize", deps.PaymentHandler.Authorize)
				admin.POST("/payments/:id/capture", deps.PaymentHandler.Capture)
				admin.POST("/payments/:id/refund", deps.PaymentHandler.Refund)
				admin.POST("/payments/:id/fail", deps.PaymentHandler.Fail)
				admin.POST("/payments/:id/retry-payout", deps.PaymentHandler.RetryPayout)
			}
		}
	}

	return router
}
