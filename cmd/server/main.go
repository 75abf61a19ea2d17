package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/cvsper/junkos-backend/internal/app"
	"github.com/cvsper/junkos-backend/internal/auth"
	"github.com/cvsper/junkos-backend/internal/config"
	"github.com/cvsper/junkos-backend/internal/handler"
	internalRedis "github.com/cvsper/junkos-backend/internal/redis"
	"github.com/cvsper/junkos-backend/internal/repository/postgres"
	"github.com/cvsper/junkos-backend/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic first so the database driver can be instrumented.
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			logger.WithError(err).Warn("failed to initialize New Relic")
		} else {
			logger.WithField("app", cfg.NewRelic.AppName).Info("New Relic enabled")
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()
	logger.Info("connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to redis")
	}
	defer redisClient.Close()
	logger.Info("connected to Redis")

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, cfg, logger)

	// Start server in goroutine.
	go func() {
		logger.WithField("port", cfg.Server.Port).Info("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server error")
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Fatal("server forced to shutdown")
	}

	logger.Info("server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config, logger *logrus.Logger) *http.Server {
	// Initialize Redis stores.
	locationStore := internalRedis.NewLocationStore(redisClient)
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Initialize repositories.
	userRepo := postgres.NewUserRepository(db)
	contractorRepo := postgres.NewContractorRepository(db)
	jobRepo := postgres.NewJobRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	ratingRepo := postgres.NewRatingRepository(db)
	ruleRepo := postgres.NewPricingRuleRepository(db)
	zoneRepo := postgres.NewSurgeZoneRepository(db)

	// Initialize auth.
	issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Initialize services.
	notificationService := service.NewNotificationService(logger)
	pricingEngine := service.NewPricingEngine(ruleRepo, service.PricingConfig{
		ServiceFeeRate:  cfg.Pricing.ServiceFeeRate,
		MinimumJobPrice: cfg.Pricing.MinimumJobPrice,
		Currency:        cfg.Pricing.Currency,
	})
	surgeResolver := service.NewSurgeResolver(zoneRepo)
	matcher := service.NewDispatchMatcher(locationStore, cacheStore, contractorRepo, jobRepo, service.DispatchConfig{
		DefaultRadiusKm: cfg.Dispatch.DefaultRadiusKm,
		MaxCandidates:   cfg.Dispatch.MaxCandidates,
	}, logger)
	settlementService := service.NewSettlementService(paymentRepo, service.NewLogPayoutGateway(logger), service.SettlementConfig{
		CommissionRate: cfg.Settlement.CommissionRate,
		AsyncPayouts:   cfg.Settlement.AsyncPayouts,
	}, logger)
	jobService := service.NewJobService(jobRepo, contractorRepo, lockStore, cacheStore, pricingEngine, surgeResolver, matcher, settlementService, notificationService, logger)
	contractorService := service.NewContractorService(contractorRepo, locationStore, cacheStore, logger)
	ratingService := service.NewRatingService(ratingRepo, jobRepo, contractorRepo, logger)
	userService := service.NewUserService(userRepo, issuer, logger)

	// Initialize handlers.
	userHandler := handler.NewUserHandler(userService)
	jobHandler := handler.NewJobHandler(jobService, contractorService, matcher)
	contractorHandler := handler.NewContractorHandler(contractorService)
	pricingHandler := handler.NewPricingHandler(pricingEngine, surgeResolver)
	paymentHandler := handler.NewPaymentHandler(settlementService)
	ratingHandler := handler.NewRatingHandler(ratingService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		UserHandler:       userHandler,
		JobHandler:        jobHandler,
		ContractorHandler: contractorHandler,
		PricingHandler:    pricingHandler,
		PaymentHandler:    paymentHandler,
		RatingHandler:     ratingHandler,
		TokenIssuer:       issuer,
		RedisClient:       redisClient,
		NewRelicApp:       nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
