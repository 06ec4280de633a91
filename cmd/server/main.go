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

	"github.com/joho/godotenv"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"driveus/internal/app"
	"driveus/internal/config"
	"driveus/internal/handler"
	"driveus/internal/mail"
	"driveus/internal/payment"
	internalRedis "driveus/internal/redis"
	"driveus/internal/repository/postgres"
	"driveus/internal/routing"
	"driveus/internal/service"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

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

	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	server := wireServer(db, redisClient, nrApp, cfg)

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
	// Repositories.
	bookingRepo := postgres.NewBookingRepository(db)
	userRepo := postgres.NewUserRepository(db)

	// Address resolution, cached through Redis.
	orsClient := routing.NewORSClient(routing.ORSConfig{
		BaseURL:        cfg.Routing.BaseURL,
		APIKey:         cfg.Routing.APIKey,
		GeocodeTimeout: cfg.Routing.GeocodeTimeout,
		RouteTimeout:   cfg.Routing.RouteTimeout,
	})
	cacheStore := internalRedis.NewCacheStore(redisClient)
	resolver := routing.NewCachedResolver(orsClient, cacheStore)

	// Notifications are optional: without an API key nothing is sent.
	var mailer mail.Mailer
	if cfg.Mail.BrevoAPIKey != "" {
		mailer = mail.NewBrevoClient(cfg.Mail.BrevoAPIKey, cfg.Mail.SenderName, cfg.Mail.SenderEmail)
	}
	notificationService := service.NewNotificationService(mailer, cfg.Mail.AdminEmail)

	// Pricing policy from configuration.
	loc, err := time.LoadLocation(cfg.Pricing.TimeZone)
	if err != nil {
		log.Printf("unknown pricing timezone %q, falling back to UTC", cfg.Pricing.TimeZone)
		loc = time.UTC
	}
	pricingCfg := service.DefaultPricingConfig()
	pricingCfg.PerKmRate = cfg.Pricing.PerKmRate
	pricingCfg.MinimumFare = cfg.Pricing.MinimumFare
	pricingCfg.SurchargeRate = cfg.Pricing.SurchargeRate
	pricingCfg.Location = loc
	pricingService := service.NewPricingService(pricingCfg)

	// Services.
	bookingService := service.NewBookingService(bookingRepo, resolver, pricingService, notificationService, cfg.Pricing.DepositAmount)
	stripeProvider := payment.NewStripeProvider(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret, cfg.Stripe.FrontendURL)
	paymentService := service.NewPaymentService(bookingRepo, stripeProvider)
	authService := service.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Handlers.
	authHandler := handler.NewAuthHandler(authService)
	quoteHandler := handler.NewQuoteHandler(bookingService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	paymentHandler := handler.NewPaymentHandler(paymentService, stripeProvider)

	router := app.NewRouter(app.RouterDeps{
		AuthHandler:    authHandler,
		QuoteHandler:   quoteHandler,
		BookingHandler: bookingHandler,
		PaymentHandler: paymentHandler,
		AuthService:    authService,
		RedisClient:    redisClient,
		NewRelicApp:    nrApp,
		FrontendURL:    cfg.Stripe.FrontendURL,
	})

	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
