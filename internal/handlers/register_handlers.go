package handlers

import (
	"github.com/creditleaf/credit_ledger_app/cmd/docs"
	portssvc "github.com/creditleaf/credit_ledger_app/internal/core/ports/services"
	"github.com/creditleaf/credit_ledger_app/internal/middleware"
	"github.com/creditleaf/credit_ledger_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Collaborator service tokens protect the whole v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))

	registerCreditRoutes(v1, services.Credit)
	registerReferralRoutes(v1, services.Reward)
}

// registerCreditRoutes wires the five ledger operations plus entry listing.
func registerCreditRoutes(v1 *gin.RouterGroup, creditSvc portssvc.CreditSvcFacade) {
	h := newCreditHandler(creditSvc)

	users := v1.Group("/users/:userID/credits")
	{
		users.GET("/balance", h.getBalance)
		users.GET("/entries", h.listEntries)
		users.POST("/grants", h.grantCredits)
		users.POST("/consumptions", h.consumeCredits)
		users.POST("/refunds", h.refundSimple)
	}

	// Exact reversal is addressed by the CONSUME entry, not the user.
	v1.POST("/credits/consumptions/:entryID/refund", h.refundExact)

	// Support lookup by transaction number.
	v1.GET("/credits/transactions/:transactionNo", h.getEntryByTransactionNo)
}

// registerReferralRoutes wires the reward distributor.
func registerReferralRoutes(v1 *gin.RouterGroup, rewardSvc portssvc.RewardSvcFacade) {
	h := newRewardHandler(rewardSvc)
	v1.POST("/referrals/accept", h.acceptReferral)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
