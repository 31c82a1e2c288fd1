package http

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"trashcash_webapp/internal/config"
	"trashcash_webapp/internal/http/handlers"
	"trashcash_webapp/internal/http/middleware"
	"trashcash_webapp/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes mounts the mini-app API, the bot webhook, the live feed
// and the pages. db may be nil.
func RegisterRoutes(r *gin.Engine, h *handlers.Handler, db handlers.Pinger, cfg *config.Config, version string) {
	healthHandler := handlers.NewHealthHandler(db, version)

	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.AllowedOrigin))

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(middleware.RedisRateLimit("api", cfg.APIRateLimit, cfg.APIRateWindow()))
	registerAPIRoutes(api, h, cfg)

	// Bot relay
	r.GET("/webhook", h.WebhookStatus)
	r.POST("/webhook", h.Webhook)
	r.GET("/set-webhook", h.SetWebhook)
	r.POST("/set-webhook", h.SetWebhook)
	r.GET("/test-send", h.TestSend)

	// Live balance feed
	r.GET("/ws", middleware.RedisRateLimit("ws", cfg.AuthRateLimit, cfg.AuthRateWindow()), h.WS)

	// Frontend
	if dirExists(cfg.StaticDir) {
		r.Static("/static", cfg.StaticDir)
	}
	if loadTemplates(r, cfg.TemplateDir) {
		r.GET("/", h.Index)
		r.GET("/legal/agreement", h.Agreement)
		r.GET("/legal/privacy", h.Privacy)
	}
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, cfg *config.Config) {
	auth := middleware.Auth(h.Validator, h.Sessions)

	api.POST("/validate", middleware.RedisRateLimit("validate", cfg.AuthRateLimit, cfg.AuthRateWindow()), h.Validate)

	// Catalog (public)
	api.GET("/recycling-points", h.ListPoints)
	api.GET("/recycling-points/:id", h.GetPoint)
	api.GET("/rewards", h.ListRewards)

	// Account
	api.GET("/user/balance", auth, h.Balance)
	api.GET("/user/stats", auth, h.Stats)
	api.GET("/transactions", auth, h.Transactions)
	api.GET("/rewards/my", auth, h.MyRewards)

	// Balance-changing actions are limited per user, not per IP
	actionRL := middleware.UserRateLimit("action", cfg.ActionRateLimit, cfg.APIRateWindow())
	api.POST("/recycling/submit", auth, actionRL, h.Submit)
	api.POST("/rewards/:id/purchase", auth, actionRL, h.Purchase)
}

// loadTemplates parses every .html file under dir. Templates are addressed
// by base name, so legal/privacy.html is "privacy.html".
func loadTemplates(r *gin.Engine, dir string) bool {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".html") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil || len(files) == 0 {
		logger.Warn("no templates loaded, pages disabled", "dir", dir)
		return false
	}
	r.LoadHTMLFiles(files...)
	return true
}

func dirExists(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}
