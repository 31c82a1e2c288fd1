package handlers

import (
	"net/http"
	"strconv"

	"trashcash_webapp/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (h *Handler) WebhookStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "status": "webhook is working"})
}

// Webhook answers platform updates. Delivery failures are logged by the
// relay and still acknowledged so the platform does not redeliver.
func (h *Handler) Webhook(c *gin.Context) {
	if !h.botConfigured() {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "BOT_TOKEN не настроен"})
		return
	}

	var upd tgbotapi.Update
	if err := c.ShouldBindWith(&upd, binding.JSON); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	_ = h.Relay.HandleUpdate(c.Request.Context(), upd)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// SetWebhook registers ?url= (or WEBHOOK_URL) with the platform and relays
// its answer.
func (h *Handler) SetWebhook(c *gin.Context) {
	if !h.botConfigured() {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "BOT_TOKEN не настроен"})
		return
	}

	url := c.Query("url")
	if url == "" {
		url = h.WebhookURL
	}
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "WEBHOOK_URL не указан"})
		return
	}

	result, err := h.Relay.Client().SetWebhook(c.Request.Context(), url)
	if err != nil {
		logger.WithContext(c.Request.Context()).Error("set webhook failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", result)
}

func (h *Handler) TestSend(c *gin.Context) {
	chatID, err := strconv.ParseInt(c.Query("chat_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Укажите chat_id в параметрах"})
		return
	}

	if err := h.Relay.TestSend(c.Request.Context(), chatID); err != nil {
		logger.WithContext(c.Request.Context()).Error("test send failed", "chat_id", chatID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Не удалось отправить сообщение. Проверьте логи."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "Сообщение отправлено"})
}

func (h *Handler) botConfigured() bool {
	return h.Relay != nil && h.Relay.Client().Configured()
}
