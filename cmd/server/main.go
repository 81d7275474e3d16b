package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ecolife-backend/internal/auth"
	"ecolife-backend/internal/config"
	"ecolife-backend/internal/content"
	"ecolife-backend/internal/database"
	"ecolife-backend/internal/handlers"
	"ecolife-backend/internal/logger"
	"ecolife-backend/internal/notify"
	"ecolife-backend/internal/repository"
	"ecolife-backend/internal/server"
	"ecolife-backend/internal/store"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	zapLogger, err := logger.New(cfg.LogFormat, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync(zapLogger) }()

	zapLogger.Info("starting_server",
		zap.String("port", cfg.Port),
		zap.Bool("debug", cfg.Debug),
		zap.Bool("documents_enabled", cfg.DocumentsEnabled()),
	)

	library, err := content.Load()
	if err != nil {
		zapLogger.Fatal("failed_to_load_content", zap.Error(err))
	}

	checks := make(map[string]handlers.HealthCheck)

	// Email: Resend when configured, the log otherwise
	var (
		notifier notify.Notifier = notify.NewLogNotifier(zapLogger)
		mailer   notify.Mailer   = notify.NewLogNotifier(zapLogger)
	)
	if cfg.ResendAPIKey != "" {
		resendClient := notify.NewResend(cfg.ResendAPIKey, cfg.FromEmail, cfg.ContactInbox, zapLogger)
		mailer = resendClient
		if cfg.ContactInbox != "" {
			notifier = resendClient
		}
	} else {
		zapLogger.Warn("resend_api_key_not_set", zap.String("fallback", "log"))
	}

	// Redis is optional; without it the contact limiter counts in memory
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			zapLogger.Fatal("invalid_redis_url", zap.Error(err))
		}
		redisClient = redis.NewClient(opts)
		defer func() {
			if err := redisClient.Close(); err != nil {
				zapLogger.Warn("failed_to_close_redis_connection", zap.Error(err))
			}
		}()
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
		zapLogger.Info("redis_configured")
	}

	// MongoDB and the JWT secret are needed for sign-in and saved documents. Missing
	// either one leaves those routes answering 503.
	var accounts *server.Accounts
	if !cfg.DocumentsEnabled() {
		zapLogger.Warn("documents_disabled_missing_config", zap.Strings("missing", cfg.MissingForDocuments()))
	} else if mongo, err := database.Connect(context.Background(), cfg.MongoURI, cfg.DBName, zapLogger); err != nil {
		zapLogger.Error("documents_disabled_mongodb_unavailable", zap.Error(err))
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := mongo.Disconnect(ctx); err != nil {
				zapLogger.Warn("failed_to_disconnect_mongodb", zap.Error(err))
			}
		}()
		checks["mongo"] = mongo.Ping

		userRepo := repository.NewUserRepo(mongo)
		tokenRepo := repository.NewLoginTokenRepo(mongo)
		productivityRepo := repository.NewProductivityRepo(mongo)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := userRepo.EnsureIndexes(ctx); err != nil {
			zapLogger.Warn("failed_to_create_user_indexes", zap.Error(err))
		}
		if err := tokenRepo.EnsureIndexes(ctx); err != nil {
			zapLogger.Warn("failed_to_create_login_token_indexes", zap.Error(err))
		}
		cancel()

		accounts = &server.Accounts{
			Documents: productivityRepo,
			Tokens:    tokenRepo,
			Users:     userRepo,
			Sessions:  auth.NewSigner(cfg.JWTSecret),
			Mailer:    mailer,
			BaseURL:   cfg.BaseURL,
		}
	}

	router, err := server.NewRouter(server.Deps{
		Logger:           zapLogger,
		Store:            store.NewMemory(store.DefaultSeed()),
		Content:          library,
		Notifier:         notifier,
		Accounts:         accounts,
		Redis:            redisClient,
		ContactRateLimit: cfg.ContactRateLimit,
		TrustedProxies:   cfg.TrustedProxies,
		AllowedOrigins:   cfg.AllowedOrigins,
		HealthChecks:     checks,
	})
	if err != nil {
		zapLogger.Fatal("failed_to_build_router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		zapLogger.Info("server_listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("server_failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("server_forced_to_shutdown", zap.Error(err))
	}
	zapLogger.Info("server_stopped")
}
