package handlers

import (
	"net/http"
	"strconv"

	"trashcash_webapp/internal/catalog"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListRewards(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rewards": catalog.Rewards()})
}

func (h *Handler) Purchase(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rewardID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reward not found"})
		return
	}

	res, err := h.Rewards.PurchaseReward(c.Request.Context(), userID, rewardID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"balance":  res.Balance,
		"purchase": res.Purchase,
	})
}
