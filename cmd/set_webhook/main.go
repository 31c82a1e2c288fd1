// Command set_webhook registers the webhook URL with the bot platform.
package main

import (
	"context"
	"flag"
	"fmt"

	"trashcash_webapp/internal/bot"
	"trashcash_webapp/internal/config"
	"trashcash_webapp/internal/logger"
)

func main() {
	cfg := config.MustLoad()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	url := flag.String("url", cfg.WebhookURL, "public webhook URL, e.g. https://example.org/webhook")
	flag.Parse()

	if *url == "" {
		logger.Fatal("webhook url is empty (set WEBHOOK_URL or -url)")
	}

	client := bot.NewClient(cfg.PlatformAPIURL, cfg.BotToken, nil)
	if !client.Configured() {
		logger.Fatal("BOT_TOKEN not set")
	}

	result, err := client.SetWebhook(context.Background(), *url)
	if err != nil {
		logger.Fatal("set webhook failed", "error", err)
	}
	fmt.Println(string(result))
}
