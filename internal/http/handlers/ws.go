package handlers

import (
	"net/http"

	"trashcash_webapp/internal/http/middleware"
	"trashcash_webapp/internal/logger"
	"trashcash_webapp/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WS upgrades to the live balance feed. Browsers cannot set headers on a
// websocket handshake, so credentials come from ?token= or ?initData=.
func (h *Handler) WS(c *gin.Context) {
	userID, ok := h.wsUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	allowedOrigin := h.AllowedOrigin
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.WithContext(c.Request.Context()).Warn("ws upgrade failed", "error", err)
		return
	}

	client := ws.NewClient(userID, conn, h.Hub)
	go client.Run()
}

func (h *Handler) wsUser(c *gin.Context) (int64, bool) {
	if token := c.Query("token"); token != "" {
		if h.Sessions == nil {
			return 0, false
		}
		userID, err := h.Sessions.Parse(token)
		return userID, err == nil
	}

	userID, _, err := middleware.ValidateInitData(h.Validator, c.Query(middleware.QueryInitData))
	return userID, err == nil
}
