// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/storefront/internal/admin"
	"github.com/carterperez-dev/storefront/internal/auth"
	"github.com/carterperez-dev/storefront/internal/config"
	"github.com/carterperez-dev/storefront/internal/core"
	"github.com/carterperez-dev/storefront/internal/health"
	"github.com/carterperez-dev/storefront/internal/mail"
	"github.com/carterperez-dev/storefront/internal/media"
	"github.com/carterperez-dev/storefront/internal/middleware"
	"github.com/carterperez-dev/storefront/internal/order"
	"github.com/carterperez-dev/storefront/internal/product"
	"github.com/carterperez-dev/storefront/internal/server"
	"github.com/carterperez-dev/storefront/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	tokenManager, err := auth.NewTokenManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("token manager initialized",
		"algorithm", "HS256",
		"session_ttl", tokenManager.SessionTTL(),
	)

	validate := validator.New()

	imageStore := media.NewClient(cfg.Media)
	mailer := mail.NewClient(cfg.Mail, logger)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo, imageStore, cfg.Media.UserFolder, logger)
	userHandler := user.NewHandler(userSvc, validate)

	authSvc := auth.NewService(
		userSvc,
		userRepo,
		tokenManager,
		mailer,
		cfg.App.FrontendURL,
		logger,
	)
	authHandler := auth.NewHandler(authSvc, validate, cfg.JWT)

	productRepo := product.NewRepository(db)
	productSvc := product.NewService(
		productRepo,
		imageStore,
		cfg.Media.ShopFolder,
		logger,
	)
	productHandler := product.NewHandler(productSvc, validate)

	orderRepo := order.NewRepository(db.DB)
	orderSvc := order.NewService(orderRepo, productSvc, logger)
	orderHandler := order.NewHandler(orderSvc, validate)

	healthHandler := health.NewHandler()
	healthHandler.AddChecker("database", db)
	healthHandler.AddChecker("redis", redis)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
		DB:         db.DB,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	authenticator := middleware.Authenticator(
		tokenManager,
		userSvc,
		cfg.JWT.CookieName,
	)
	adminOnly := middleware.RequireAdmin
	managerOnly := middleware.RequireManager

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			authHandler.RegisterRoutes(r)

			r.Group(func(r chi.Router) {
				r.Use(authenticator)
				authHandler.RegisterProtectedRoutes(r)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(authenticator)
			userHandler.RegisterRoutes(r)
		})

		r.Route("/products", func(r chi.Router) {
			productHandler.RegisterPublicRoutes(r)

			r.Group(func(r chi.Router) {
				r.Use(authenticator)
				productHandler.RegisterProtectedRoutes(r)
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(authenticator)
			orderHandler.RegisterRoutes(r)
		})

		r.Route("/admin/users", func(r chi.Router) {
			r.Use(authenticator)
			r.Use(adminOnly)
			userHandler.RegisterAdminRoutes(r)
		})

		r.Route("/admin/products", func(r chi.Router) {
			r.Use(authenticator)
			r.Use(adminOnly)
			productHandler.RegisterAdminRoutes(r)
		})

		r.Route("/admin/orders", func(r chi.Router) {
			r.Use(authenticator)
			r.Use(adminOnly)
			orderHandler.RegisterAdminRoutes(r)
		})

		r.Route("/manager/users", func(r chi.Router) {
			r.Use(authenticator)
			r.Use(managerOnly)
			userHandler.RegisterManagerRoutes(r)
		})

		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
