package handlers

import (
	"net/http"

	"trashcash_webapp/internal/http/middleware"
	"trashcash_webapp/internal/logger"

	"github.com/gin-gonic/gin"
)

type ValidateRequest struct {
	InitData string `json:"initData"`
}

// Validate checks init data once, creates the record on first sight and,
// when sessions are enabled, hands back a bearer token for later calls.
func (h *Handler) Validate(c *gin.Context) {
	var req ValidateRequest
	_ = c.ShouldBindJSON(&req)

	userID, payload, err := middleware.ValidateInitData(h.Validator, req.InitData)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Rewards.EnsureAccount(ctx, userID, payload.User.FirstName, payload.User.LastName); err != nil {
		writeError(c, err)
		return
	}

	resp := gin.H{
		"valid":  true,
		"userId": userID,
		"user":   payload.User,
	}
	if h.Sessions != nil {
		token, err := h.Sessions.Issue(userID)
		if err != nil {
			logger.WithContext(ctx).Error("issue session failed", "user_id", userID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
			return
		}
		resp["token"] = token
	}

	c.JSON(http.StatusOK, resp)
}
