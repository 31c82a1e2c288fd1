package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type webAppInfo struct {
	URL string `json:"url"`
}

type webAppButton struct {
	Text   string     `json:"text"`
	WebApp webAppInfo `json:"web_app"`
}

type webAppKeyboard struct {
	InlineKeyboard [][]webAppButton `json:"inline_keyboard"`
}

// Keyboard carries two renderings of the "open the mini-app" button: a
// web_app button and a plain url button for platforms that reject web_app.
type Keyboard struct {
	WebApp any
	URL    any
}

func NewKeyboard(text, url string) *Keyboard {
	return &Keyboard{
		WebApp: webAppKeyboard{
			InlineKeyboard: [][]webAppButton{{{Text: text, WebApp: webAppInfo{URL: url}}}},
		},
		URL: tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL(text, url)),
		),
	}
}
