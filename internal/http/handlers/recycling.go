package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"trashcash_webapp/internal/catalog"
	"trashcash_webapp/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// ListPoints lists collection points, nearest first when lat and lng are given.
func (h *Handler) ListPoints(c *gin.Context) {
	lat := queryFloat(c, "lat")
	lng := queryFloat(c, "lng")
	if lat == nil || lng == nil {
		lat, lng = nil, nil
	}
	c.JSON(http.StatusOK, gin.H{"points": catalog.Points(lat, lng)})
}

func (h *Handler) GetPoint(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Point not found"})
		return
	}
	point, ok := catalog.PointByID(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Point not found"})
		return
	}
	c.JSON(http.StatusOK, point)
}

// Submit credits coins for handed-in material confirmed by QR code or receipt.
func (h *Handler) Submit(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	// Auth may already have read the body looking for initData.
	var req service.SubmitRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	res, err := h.Rewards.SubmitRecycling(c.Request.Context(), userID, req)
	if errors.Is(err, service.ErrMaterialNotAccepted) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Этот пункт не принимает " + req.MaterialType})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"coins":       res.Coins,
		"balance":     res.Balance,
		"transaction": res.Transaction,
	})
}

// queryFloat returns nil for absent, malformed, non-finite and zero values.
func queryFloat(c *gin.Context, key string) *float64 {
	v, err := strconv.ParseFloat(c.Query(key), 64)
	if err != nil || v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
