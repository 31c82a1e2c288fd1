package handlers

import (
	"errors"
	"net/http"

	"trashcash_webapp/internal/bot"
	"trashcash_webapp/internal/http/middleware"
	"trashcash_webapp/internal/initdata"
	"trashcash_webapp/internal/logger"
	"trashcash_webapp/internal/service"
	"trashcash_webapp/internal/ws"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Rewards   *service.RewardsService
	Validator *initdata.Validator
	Relay     *bot.Relay
	Hub       *ws.Hub

	// Sessions is nil when JWT_SECRET is not set.
	Sessions *service.SessionIssuer

	WebhookURL    string
	MapsAPIKey    string
	AllowedOrigin string
}

// getUserID извлекает user_id, положенный middleware.Auth
func getUserID(c *gin.Context) (int64, bool) {
	return middleware.UserID(c)
}

// writeError maps service errors onto the status codes the mini-app expects.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidQRCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid QR code"})
	case errors.Is(err, service.ErrInvalidMethod):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid method"})
	case errors.Is(err, service.ErrInvalidWeight):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid weight"})
	case errors.Is(err, service.ErrInsufficientFunds):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Недостаточно средств"})
	case errors.Is(err, service.ErrPointNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Point not found"})
	case errors.Is(err, service.ErrRewardNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Reward not found"})
	default:
		logger.WithContext(c.Request.Context()).Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
