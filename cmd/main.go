package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/Andriiy/slotroster-api/internal/billing"
	"github.com/Andriiy/slotroster-api/internal/config"
	"github.com/Andriiy/slotroster-api/internal/handler"
	"github.com/Andriiy/slotroster-api/internal/handler/middleware"
	"github.com/Andriiy/slotroster-api/internal/repository/postgres"
	"github.com/Andriiy/slotroster-api/internal/service"
	"github.com/Andriiy/slotroster-api/pkg/blacklist"
	"github.com/Andriiy/slotroster-api/pkg/email"
	"github.com/Andriiy/slotroster-api/pkg/jwt"
	"github.com/Andriiy/slotroster-api/pkg/validator"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database connection
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
		}
	}()
	log.Println("✓ Database connection established")

	// Initialize Redis client
	redisClient, err := initRedis(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing Redis connection: %v", err)
		}
	}()
	log.Println("✓ Redis connection established")

	// Load RSA keys for JWT
	privateKey, publicKey, err := loadRSAKeys(cfg)
	if err != nil {
		log.Fatalf("Failed to load RSA keys: %v", err)
	}
	log.Println("✓ RSA keys loaded successfully")

	// Initialize validator
	validate := validator.NewValidator()

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	clubRepo := postgres.NewAirClubRepository(db)
	aircraftRepo := postgres.NewAircraftRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	subscriptionRepo := postgres.NewSubscriptionRepository(db)

	// Initialize JWT token service
	tokenService, err := jwt.NewTokenService(
		privateKey,
		publicKey,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
		cfg.JWT.Issuer,
	)
	if err != nil {
		log.Fatalf("Failed to initialize token service: %v", err)
	}

	// Initialize token blacklist service
	tokenBlacklist := blacklist.NewTokenBlacklist(redisClient)
	log.Println("✓ Token blacklist service initialized")

	// Initialize email service
	var emailService email.EmailService = email.NewNoopEmailService()
	if cfg.Email.Enabled {
		resendService, err := email.NewResendEmailService(&email.EmailConfig{
			APIKey:    cfg.Email.APIKey,
			FromName:  cfg.Email.FromName,
			FromEmail: cfg.Email.FromEmail,
		})
		if err != nil {
			log.Printf("Warning: Failed to initialize email service: %v", err)
			log.Println("Email functionality will be disabled")
		} else {
			emailService = resendService
			log.Println("✓ Email service initialized (Resend)")
		}
	} else {
		log.Println("ℹ Email service disabled (set EMAIL_ENABLED=true to enable)")
	}

	// Initialize Stripe provider
	stripeProvider := billing.NewStripeProvider(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)
	log.Println("✓ Stripe provider initialized")

	// Initialize services
	trialService := service.NewTrialService(clubRepo, aircraftRepo, cfg.Trial)
	authService := service.NewAuthService(userRepo, sessionRepo, profileRepo, clubRepo, trialService, tokenService, tokenBlacklist, emailService, cfg)
	oauthService := service.NewGoogleOAuthService(cfg.OAuth, authService)
	clubService := service.NewAirClubService(clubRepo, profileRepo)
	aircraftService := service.NewAircraftService(aircraftRepo, clubRepo, profileRepo)
	bookingService := service.NewBookingService(bookingRepo, clubRepo, profileRepo)
	billingService := service.NewBillingService(stripeProvider, clubRepo, subscriptionRepo, userRepo, emailService, cfg.Server.BaseURL)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, validate)
	oauthHandler := handler.NewOAuthHandler(oauthService, cfg.Server.BaseURL)
	sessionHandler := handler.NewSessionHandler(authService)
	airClubHandler := handler.NewAirClubHandler(clubService, validate)
	aircraftHandler := handler.NewAircraftHandler(aircraftService, validate)
	memberHandler := handler.NewMemberHandler(clubService)
	bookingHandler := handler.NewBookingHandler(bookingService, validate)
	billingHandler := handler.NewBillingHandler(billingService, validate, cfg.Server.BaseURL)
	webhookHandler := handler.NewWebhookHandler(billingService)
	trialHandler := handler.NewTrialHandler(trialService, validate)
	jwksHandler := handler.NewJWKSHandler(tokenService.GetPublicKey(), "2026-01-01")
	healthHandler := handler.NewHealthHandler(db, redisClient)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:               "SlotRoster API v1.0",
		DisableStartupMessage: false,
		ErrorHandler:          customErrorHandler,
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
	})

	// Setup global middlewares
	app.Use(middleware.RecoveryMiddleware())
	app.Use(middleware.LoggerMiddleware())
	app.Use(middleware.CORSMiddleware(cfg.Server.BaseURL))

	authMiddleware := middleware.AuthMiddleware(tokenService, tokenBlacklist)

	// Setup routes
	handler.SetupRoutes(
		app,
		authHandler,
		oauthHandler,
		sessionHandler,
		airClubHandler,
		aircraftHandler,
		memberHandler,
		bookingHandler,
		billingHandler,
		webhookHandler,
		trialHandler,
		jwksHandler,
		healthHandler,
		authMiddleware,
	)

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Start server in goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		log.Printf("🚀 Server starting on http://localhost%s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		if err := app.Listen(addr); err != nil {
			log.Printf("❌ Server failed to start: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("⏳ Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✓ Server stopped")
}

// initDB initializes PostgreSQL database connection with retry logic
func initDB(cfg *config.Config) (*sqlx.DB, error) {
	dsn := cfg.Database.DSN()

	var db *sqlx.DB
	var err error

	maxRetries := 5
	retryInterval := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sqlx.Connect("postgres", dsn)
		if err == nil {
			break
		}

		log.Printf("Failed to connect to database (attempt %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			time.Sleep(retryInterval)
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Printf("Error closing database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// initRedis initializes Redis client and verifies connection
func initRedis(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		if closeErr := client.Close(); closeErr != nil {
			log.Printf("Error closing Redis after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}

// loadRSAKeys loads RSA private and public keys from files
func loadRSAKeys(cfg *config.Config) ([]byte, []byte, error) {
	privateKey, err := os.ReadFile(cfg.JWT.PrivateKeyPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read private key file: %w", err)
	}

	publicKey, err := os.ReadFile(cfg.JWT.PublicKeyPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read public key file: %w", err)
	}

	if len(privateKey) == 0 {
		return nil, nil, fmt.Errorf("private key file is empty")
	}
	if len(publicKey) == 0 {
		return nil, nil, fmt.Errorf("public key file is empty")
	}

	return privateKey, publicKey, nil
}

// customErrorHandler handles Fiber errors
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	log.Printf("Error handling request [%s %s]: %v", c.Method(), c.Path(), err)

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
