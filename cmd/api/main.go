package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stablecoin-wallet-backend/config"
	"stablecoin-wallet-backend/internal/adapter/gateway"
	httpHandler "stablecoin-wallet-backend/internal/adapter/http/handler"
	pgStorage "stablecoin-wallet-backend/internal/adapter/storage/postgres"
	redisStorage "stablecoin-wallet-backend/internal/adapter/storage/redis"
	"stablecoin-wallet-backend/internal/core/ports"
	"stablecoin-wallet-backend/internal/service"
	"stablecoin-wallet-backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Stablecoin Wallet Backend")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// Initialize repositories
	walletRepo := pgStorage.NewWalletRepo(pool)
	txRepo := pgStorage.NewTransactionRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	tokenBlacklist := redisStorage.NewTokenBlacklist(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize core services
	encSvc, err := service.NewAESEncryptionService(cfg.AES.Key)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize encryption service")
	}
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	exchangeSvc, err := service.NewExchangeRateService(cfg.Exchange, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize exchange rate service")
	}

	// Select the transfer gateway implementation
	var transferGateway ports.TransferGateway
	switch cfg.Gateway.Mode {
	case "node":
		transferGateway = gateway.NewNodeGateway(cfg.Gateway.NodeBaseURL, cfg.Gateway.SendTimeout, log)
		log.Info().Str("base_url", cfg.Gateway.NodeBaseURL).Msg("Using node transfer gateway")
	default:
		transferGateway = gateway.NewSimulatedGateway(cfg.Gateway.SimLatency, log)
		log.Info().Dur("latency", cfg.Gateway.SimLatency).Msg("Using simulated transfer gateway")
	}

	// Initialize business services
	walletSvc := service.NewWalletService(walletRepo, transferGateway, exchangeSvc, encSvc, log)
	settlementSvc := service.NewSettlementService(
		walletRepo,
		txRepo,
		transactor,
		transferGateway,
		exchangeSvc,
		encSvc,
		cfg.Gateway.SendTimeout,
		log,
	)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		WalletSvc:      walletSvc,
		SettlementSvc:  settlementSvc,
		TokenSvc:       tokenSvc,
		TokenBlacklist: tokenBlacklist,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
