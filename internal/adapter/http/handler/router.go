package handler

import (
	"stablecoin-wallet-backend/internal/adapter/http/middleware"
	redisStore "stablecoin-wallet-backend/internal/adapter/storage/redis"
	"stablecoin-wallet-backend/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	WalletSvc      ports.WalletService
	SettlementSvc  ports.SettlementService
	TokenSvc       ports.TokenService
	TokenBlacklist ports.TokenBlacklist
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.TokenBlacklist, deps.Logger)
	walletHandler := NewWalletHandler(deps.WalletSvc, deps.SettlementSvc)
	transactionHandler := NewTransactionHandler(deps.SettlementSvc)

	v1 := r.Group("/api/v1")

	wallets := v1.Group("/wallets", jwtAuth)
	{
		wallets.POST("", rl("wallets"), walletHandler.Create)
		wallets.GET("/balance", rl("wallets"), walletHandler.GetBalance)
	}

	transactions := v1.Group("/transactions", jwtAuth)
	{
		transactions.POST("/send", rl("transactions_send"), transactionHandler.Send)
		transactions.GET("/history", rl("history"), transactionHandler.History)
	}

	return r
}
