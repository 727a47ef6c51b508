package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/notify"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/repository"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Structured logging (JSON to stdout)
	logging.Setup(cfg.AppEnv)

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Prices and totals go out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()

	// Database
	if err := database.Connect(ctx, cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		logging.NewStdoutHandler(cfg.AppEnv),
		pgLogHandler,
	)))

	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetentionDays, cleanupDone)

	store, err := newStore(cfg)
	if err != nil {
		slog.Error("storage setup failed", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}

	var sender notify.Sender = notify.LogSender{}
	if cfg.BrevoAPIKey != "" {
		sender = notify.NewBrevoSender(cfg.BrevoAPIKey, cfg.EmailFrom, cfg.EmailFromName)
	} else {
		slog.Warn("BREVO_API_KEY not set, emails will only be logged")
	}
	dispatcher := notify.NewDispatcher(sender, cfg.NotifyQueueSize)

	// Redis backs the rate limiter when configured
	var rdb *redis.Client
	var limitStore fiber.Storage
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			slog.Warn("redis unreachable, rate limiting stays in memory", "addr", cfg.RedisAddr, "error", err)
			rdb.Close()
			rdb = nil
		} else {
			limitStore = middleware.NewRedisStorage(rdb, "storefront:limiter:")
		}
		cancel()
	}

	// Repositories
	userRepo := repository.NewUserRepository(database.DB)
	productRepo := repository.NewProductRepository(database.DB)
	orderRepo := repository.NewOrderRepository(database.DB)
	contactRepo := repository.NewContactRepository(database.DB)
	sliderRepo := repository.NewSliderRepository(database.DB)

	// Services
	tokens := services.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry)
	accountService := services.NewAccountService(userRepo, tokens, dispatcher, cfg)
	userService := services.NewUserService(userRepo)
	orderService := services.NewOrderService(orderRepo, productRepo)
	catalogService := services.NewCatalogService(productRepo, store)
	contactService := services.NewContactService(contactRepo, services.NewContentFilter(), dispatcher)
	sliderService := services.NewSliderService(sliderRepo, store)
	uploadService := services.NewUploadService(store)

	if err := userService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		slog.Error("admin bootstrap failed", "error", err)
	}

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		}
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.BodyLimitMB * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, routes.Handlers{
		Health:   handlers.NewHealthHandler(database.Ping, cfg.StorageDriver, rdb),
		Accounts: handlers.NewAccountHandler(accountService),
		Users:    handlers.NewUserHandler(userService),
		Orders:   handlers.NewOrderHandler(orderService),
		Products: handlers.NewProductHandler(catalogService),
		Contacts: handlers.NewContactHandler(contactService),
		Sliders:  handlers.NewSliderHandler(sliderService),
		Uploads:  handlers.NewUploadHandler(uploadService),
	}, limitStore)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "storage", cfg.StorageDriver)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	dispatcher.Stop()
	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if rdb != nil {
		rdb.Close()
	}
	database.Close()

	slog.Info("server stopped")
}

func newStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageDriver {
	case "", "local":
		return storage.NewLocalStore(cfg.UploadDir, cfg.UploadURLPrefix)
	case "cloudinary":
		return storage.NewCloudinaryStore(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	case "inline":
		return storage.NewInlineStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
