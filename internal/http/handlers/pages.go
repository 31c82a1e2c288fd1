package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{"yandex_maps_api_key": h.MapsAPIKey})
}

func (h *Handler) Agreement(c *gin.Context) {
	c.HTML(http.StatusOK, "agreement.html", nil)
}

func (h *Handler) Privacy(c *gin.Context) {
	c.HTML(http.StatusOK, "privacy.html", nil)
}
