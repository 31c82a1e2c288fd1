// Command ws_smoke opens the live feed for a test user, submits one
// recycling entry and waits for the balance event.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"trashcash_webapp/internal/initdata"
	"trashcash_webapp/internal/logger"

	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	secret := os.Getenv("MAX_SECRET_KEY")
	if secret == "" {
		logger.Fatal("MAX_SECRET_KEY not set")
	}
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	envelope := initdata.Envelope(`{"user":{"id":3001,"first_name":"Smoke"}}`, secret)

	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	wsURL := fmt.Sprintf("ws://127.0.0.1:%s/ws?initData=%s", port, url.QueryEscape(envelope))
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		logger.Fatal("dial", "error", err)
	}
	defer conn.Close()

	// first frame is the ready message
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, msg, err := conn.ReadMessage(); err != nil {
		logger.Fatal("read ready", "error", err)
	} else {
		fmt.Println("<-", string(msg))
	}

	body, _ := json.Marshal(map[string]any{
		"method":       "qr",
		"qrCode":       "TRASH_001",
		"materialType": "пластик",
		"weight":       1.5,
	})
	req, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("http://127.0.0.1:%s/api/recycling/submit", port), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Init-Data", envelope)

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		logger.Fatal("submit", "error", err)
	}
	_ = res.Body.Close()
	fmt.Println("submit status:", res.StatusCode)

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		logger.Fatal("read balance event", "error", err)
	}
	fmt.Println("<-", string(msg))
}
