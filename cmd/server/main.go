package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"biblioteca/internal/config"
	"biblioteca/internal/database"
	"biblioteca/internal/handler"
	"biblioteca/internal/mailer"
	"biblioteca/internal/middleware"
	"biblioteca/internal/repository"
	"biblioteca/internal/service"
	"biblioteca/internal/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := newLogger(cfg)

	db, err := database.Connect(cfg, logger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}
	if err := database.SeedAdmin(db, cfg, logger); err != nil {
		log.Fatalf("could not provision admin account: %v", err)
	}

	store, err := storage.NewLocal(cfg.UploadDir)
	if err != nil {
		log.Fatalf("could not prepare upload directory: %v", err)
	}

	var m mailer.Mailer
	if cfg.SendGridAPIKey != "" {
		m = mailer.NewSendGrid(cfg.SendGridAPIKey, "Biblioteca", cfg.MailFrom)
	} else {
		logger.Warn("SENDGRID_API_KEY not set, outbound mail will only be logged")
		m = mailer.NewLog(logger)
	}

	userRepo := repository.NewUserRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	svcs := handler.Services{
		Auth:     service.NewAuthService(userRepo),
		Catalog:  service.NewCatalogService(documentRepo, store, logger),
		Comments: service.NewCommentService(commentRepo, documentRepo),
		Notifier: service.NewNotifierService(m, cfg.MailTimeout, logger),
		Users:    userRepo,
	}

	r := handler.NewRouter(cfg, logger, db, svcs, loginLimiter(cfg, logger))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("HTTP server listening", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server stopped unexpectedly", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown did not complete cleanly", "error", err)
	}
}

// loginLimiter builds the rate limiter for the credential routes: Redis
// fixed-window when REDIS_URL is configured, in-memory token bucket
// otherwise.
func loginLimiter(cfg *config.Config, logger *slog.Logger) gin.HandlerFunc {
	if cfg.RedisURL == "" {
		return middleware.RateLimit(cfg.LoginRate, cfg.LoginBurst)
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Warn("invalid REDIS_URL, falling back to in-memory rate limiting", "error", err)
		return middleware.RateLimit(cfg.LoginRate, cfg.LoginBurst)
	}
	client := redis.NewClient(opts)
	return middleware.RedisRateLimit(client, cfg.LoginRate, cfg.LoginBurst, time.Minute)
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(h)
}
