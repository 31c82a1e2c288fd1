package bot

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"trashcash_webapp/internal/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Relay answers bot updates with a link to the mini-app.
type Relay struct {
	client    *Client
	webAppURL string
	log       *slog.Logger
}

func NewRelay(client *Client, webAppURL string) *Relay {
	return &Relay{
		client:    client,
		webAppURL: webAppURL,
		log:       logger.With("component", "bot_relay"),
	}
}

func (r *Relay) Client() *Client {
	return r.client
}

// HandleUpdate replies to text messages. Updates without a message or
// chat are ignored.
func (r *Relay) HandleUpdate(ctx context.Context, upd tgbotapi.Update) error {
	msg := upd.Message
	if msg == nil || msg.Chat == nil {
		return nil
	}

	name := "друг"
	if msg.From != nil && msg.From.FirstName != "" {
		name = msg.From.FirstName
	}

	text, button := r.reply(command(msg.Text), name)
	_, err := r.client.SendMessage(ctx, msg.Chat.ID, text, NewKeyboard(button, r.webAppURL), r.webAppURL)
	if err != nil {
		r.log.Error("reply failed", "chat_id", msg.Chat.ID, "error", err)
		return err
	}
	return nil
}

// TestSend sends a probe message to chatID.
func (r *Relay) TestSend(ctx context.Context, chatID int64) error {
	text := "👋 Тестовое сообщение.\n\n🔗 <b>Открыть приложение:</b> " + r.webAppURL
	_, err := r.client.SendMessage(ctx, chatID, text, NewKeyboard("🚀 Открыть ТрешКеш", r.webAppURL), r.webAppURL)
	return err
}

// command extracts "/start" from "/start payload" or "/start@bot".
func command(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	cmd := strings.Fields(text)[0]
	if i := strings.IndexByte(cmd, '@'); i > 0 {
		cmd = cmd[:i]
	}
	return strings.ToLower(cmd)
}

func (r *Relay) reply(cmd, name string) (text, button string) {
	link := "🔗 <b>Открыть приложение:</b> " + r.webAppURL
	switch cmd {
	case "/start":
		return fmt.Sprintf("👋 Привет, %s!\n\n<b>ТрешКеш</b>: сдавайте вторсырьё, получайте трешкоины и обменивайте их на награды.\n\n%s",
			html.EscapeString(name), link), "🚀 Открыть ТрешКеш"
	case "/help":
		return "<b>Команды:</b>\n/start - начать\n/help - справка\n/app - открыть мини-приложение\n\n" + link,
			"🚀 Открыть приложение"
	case "/app":
		return "🔗 Откройте мини-приложение:\n\n" + r.webAppURL, "🚀 Открыть мини-приложение"
	default:
		return "Используйте /start для начала работы.\n\n" + link, "🚀 Открыть приложение"
	}
}
