package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"

	cache "github.com/eventdekho/eventdekho-api/cache"
	config "github.com/eventdekho/eventdekho-api/config"
	logging "github.com/eventdekho/eventdekho-api/logging"
	routes "github.com/eventdekho/eventdekho-api/routes"
	mongostore "github.com/eventdekho/eventdekho-api/store/mongostore"
	utils "github.com/eventdekho/eventdekho-api/utils"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}

	// MongoDB
	client, err := mongostore.Connect(context.Background(), cfg.MongoURI)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	db := client.Database(cfg.DBName)
	if err := mongostore.EnsureIndexes(context.Background(), db); err != nil {
		slog.Error("index creation failed", "error", err)
		os.Exit(1)
	}
	cfg.Store = mongostore.New(db)
	slog.Info("connected to MongoDB", "db", cfg.DBName)

	cfg.Mailer = utils.NewSMTPMailer(cfg.SMTP)

	if cfg.CloudinaryCloudName != "" {
		media, err := utils.NewCloudinaryStore(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			slog.Error("cloudinary init failed", "error", err)
			os.Exit(1)
		}
		cfg.Media = media
	} else {
		slog.Warn("cloudinary not configured, uploads disabled")
	}

	cfg.Cache = cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.Env,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
			cfg.SentryDSN = ""
		}
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	routes.SetupRoutes(r, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	sentry.Flush(2 * time.Second)
	if err := cfg.Cache.Close(); err != nil {
		slog.Error("cache close error", "error", err)
	}
	if err := client.Disconnect(ctx); err != nil {
		slog.Error("database close error", "error", err)
	}
	slog.Info("server stopped")
}
