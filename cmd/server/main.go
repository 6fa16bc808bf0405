package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"mandado/internal/app"
	"mandado/internal/config"
	"mandado/internal/geo"
	"mandado/internal/handler"
	internalRedis "mandado/internal/redis"
	"mandado/internal/repository/postgres"
	"mandado/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

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
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	// Initialize Redis stores.
	locationStore := internalRedis.NewLocationStore(redisClient)
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Initialize repositories.
	userRepo := postgres.NewUserRepository(db)
	providerRepo := postgres.NewProviderRepository(db)
	requestRepo := postgres.NewRequestRepository(db)
	walletRepo := postgres.NewWalletRepository(db)
	txRepo := postgres.NewTransactionRepository(db)
	chargeRepo := postgres.NewPixChargeRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)

	// Initialize services.
	notificationService := service.NewNotificationService(notificationRepo)
	matchingService := service.NewMatchingService(db, locationStore, lockStore, cacheStore, providerRepo, requestRepo)
	dispatcher := service.NewDispatcher(matchingService, providerRepo, notificationService, cfg.Dispatch.PollInterval, cfg.Dispatch.MaxAttempts)
	if _, err := dispatcher.Resume(context.Background(), requestRepo); err != nil {
		log.Printf("failed to resume pending searches: %v", err)
	}
	requestService := service.NewRequestService(requestRepo, providerRepo, matchingService, dispatcher, notificationService)
	providerService := service.NewProviderService(db, locationStore, lockStore, cacheStore, providerRepo, requestRepo, dispatcher, notificationService)
	walletService := service.NewWalletService(db, walletRepo, txRepo, chargeRepo, requestRepo, providerRepo, notificationService)
	authService := service.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	geoClient := geo.NewClient(cfg.Geo.NominatimBaseURL, cfg.Geo.ViaCEPBaseURL, cfg.Geo.OverpassBaseURL, cfg.Geo.RequestTimeout, cacheStore)

	// Initialize handlers.
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userRepo)
	requestHandler := handler.NewRequestHandler(requestService, providerRepo)
	providerHandler := handler.NewProviderHandler(providerService, providerRepo)
	walletHandler := handler.NewWalletHandler(walletService)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)
	geoHandler := handler.NewGeoHandler(geoClient)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		AuthService:         authService,
		AuthHandler:         authHandler,
		UserHandler:         userHandler,
		RequestHandler:      requestHandler,
		ProviderHandler:     providerHandler,
		WalletHandler:       walletHandler,
		NotificationHandler: notificationHandler,
		GeoHandler:          geoHandler,
		RedisClient:         redisClient,
		NewRelicApp:         nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
