package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trashcash_webapp/internal/bot"
	"trashcash_webapp/internal/config"
	"trashcash_webapp/internal/db"
	httpServer "trashcash_webapp/internal/http"
	"trashcash_webapp/internal/http/handlers"
	"trashcash_webapp/internal/http/middleware"
	"trashcash_webapp/internal/initdata"
	"trashcash_webapp/internal/logger"
	"trashcash_webapp/internal/repository"
	"trashcash_webapp/internal/service"
	"trashcash_webapp/internal/ws"

	"github.com/gin-gonic/gin"
)

// set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg := config.MustLoad()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	var (
		store  repository.AccountStore
		pinger handlers.Pinger
	)
	if cfg.DatabaseURL != "" {
		pool := db.MustConnect(cfg.DatabaseURL)
		defer pool.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := db.Migrate(ctx, pool); err != nil {
			cancel()
			logger.Fatal("migrations failed", "error", err)
		}
		cancel()

		store = repository.NewPostgresAccountStore(pool)
		pinger = pool
	} else {
		logger.Warn("DATABASE_URL not set, user records are kept in memory")
		store = repository.NewMemoryAccountStore()
	}

	if middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB) {
		logger.Info("redis rate limiter enabled", "addr", cfg.RedisAddr)
	}

	hub := ws.NewHub()

	var sessions *service.SessionIssuer
	if cfg.JWTSecret != "" {
		sessions = service.NewSessionIssuer(cfg.JWTSecret, cfg.SessionTTL)
	}

	botClient := bot.NewClient(cfg.PlatformAPIURL, cfg.BotToken, nil)
	if !botClient.Configured() {
		logger.Warn("BOT_TOKEN not set, webhook relay disabled")
	}

	h := &handlers.Handler{
		Rewards:       service.NewRewardsService(store, hub),
		Validator:     initdata.NewValidator(cfg.MaxSecretKey, cfg.DevMode),
		Sessions:      sessions,
		Relay:         bot.NewRelay(botClient, cfg.WebAppURL),
		Hub:           hub,
		WebhookURL:    cfg.WebhookURL,
		MapsAPIKey:    cfg.YandexMapsAPIKey,
		AllowedOrigin: cfg.AllowedOrigin,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	httpServer.RegisterRoutes(r, h, pinger, cfg, version)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
