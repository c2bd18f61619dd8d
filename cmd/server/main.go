package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/solesphere/storefront/internal"
	"github.com/solesphere/storefront/internal/billing"
	"github.com/solesphere/storefront/internal/cookie"
	"github.com/solesphere/storefront/internal/email"
	"github.com/solesphere/storefront/internal/handler/storefront"
	"github.com/solesphere/storefront/internal/handler/webhook"
	"github.com/solesphere/storefront/internal/middleware"
	"github.com/solesphere/storefront/internal/postgres"
	"github.com/solesphere/storefront/internal/router"
	"github.com/solesphere/storefront/internal/routes"
	"github.com/solesphere/storefront/internal/service"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	// Run migrations
	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize pgx connection pool for application
	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	store := service.NewStore(postgres.NewStore(pool))

	// Initialize Stripe billing provider
	stripeConfig := billing.StripeConfig{
		APIKey:        cfg.Stripe.SecretKey,
		WebhookSecret: cfg.Stripe.WebhookSecret,
	}
	billingProvider, err := billing.NewStripeProvider(stripeConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize Stripe provider: %w", err)
	}
	logger.Info("Stripe billing provider initialized", "test_mode", stripeConfig.IsTestMode())

	// Initialize email
	smtpSender := email.NewSMTPSender(&email.SMTPConfig{
		Host:     cfg.Email.Host,
		Port:     int(cfg.Email.Port),
		Username: cfg.Email.Username,
		Password: cfg.Email.Password,
		From:     cfg.Email.From,
		FromName: cfg.Email.FromName,
	}, logger)
	emailService, err := email.NewService(smtpSender, cfg.Email.From, cfg.Email.FromName)
	if err != nil {
		return fmt.Errorf("failed to initialize email service: %w", err)
	}

	// Initialize services
	guestService := service.NewGuestService(store)
	cartService := service.NewCartService(store)
	authService := service.NewAuthService(store, cartService)
	checkoutService := service.NewCheckoutService(store, billingProvider)
	fulfillmentService := service.NewFulfillmentService(store, billingProvider, logger)
	notificationService := service.NewNotificationService(store, emailService, logger)
	wishlistService := service.NewWishlistService(store)
	accountService := service.NewAccountService(store)

	// Cookie security follows the environment
	cookies := &cookie.Config{Secure: cfg.IsProduction()}

	// Build route dependencies
	storefrontDeps := routes.StorefrontDeps{
		CartHandler:              storefront.NewCartHandler(guestService, cartService, cookies),
		AuthHandler:              storefront.NewAuthHandler(authService, guestService, cookies),
		CheckoutHandler:          storefront.NewCheckoutHandler(checkoutService, cfg.BaseURL),
		OrderConfirmationHandler: storefront.NewOrderConfirmationHandler(fulfillmentService, notificationService),
		AccountHandler:           storefront.NewAccountHandler(accountService),
		WishlistHandler:          storefront.NewWishlistHandler(wishlistService),
	}
	webhookDeps := routes.WebhookDeps{
		StripeHandler: webhook.NewStripeHandler(billingProvider, fulfillmentService, notificationService, cfg.Stripe.WebhookSecret),
	}

	// Initialize Prometheus metrics
	metrics := middleware.NewMetrics("storefront")

	// Create router and register routes
	r := router.New(
		middleware.RequestID,
		metrics.Middleware,
		middleware.WithRequestLogger(logger),
		middleware.WithUser(authService),
	)

	// Metrics endpoint (protect via firewall in production)
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		metrics.Handler().ServeHTTP(w, req)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	routes.RegisterStorefrontRoutes(r, storefrontDeps)
	routes.RegisterWebhookRoutes(r, webhookDeps)

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	logger.Info("Starting storefront server", "address", addr, "env", cfg.Env)
	if err := server.ListenAndServe(); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
