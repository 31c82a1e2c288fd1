package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"trashcash_webapp/internal/logger"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	ErrNoToken    = errors.New("BOT_TOKEN is not configured")
	ErrSendFailed = errors.New("message could not be delivered")
	ErrNoWebhook  = errors.New("webhook url is empty")
	ErrCallFailed = errors.New("platform call failed")
)

const requestTimeout = 10 * time.Second

var sendAttempts = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bot_send_attempts_total",
		Help: "Outbound bot API calls by attempt variant and result",
	},
	[]string{"attempt", "result"},
)

func init() {
	prometheus.MustRegister(sendAttempts)
}

// auth selects where the bot token travels.
type auth int

const (
	authPath auth = iota
	authBearer
)

func (a auth) String() string {
	if a == authBearer {
		return "bearer"
	}
	return "path"
}

// Client talks to the messaging platform's bot API. The platform accepts
// the token either in the URL path (/bot<token>/method) or as a bearer
// header (/bot/method); which one works differs between deployments, so
// every call tries the path form first.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *slog.Logger
}

func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    httpClient,
		log:     logger.With("component", "bot_client"),
	}
}

func (c *Client) Configured() bool {
	return c.token != ""
}

type sendMessageRequest struct {
	ChatID      int64  `json:"chat_id"`
	Text        string `json:"text"`
	ParseMode   string `json:"parse_mode"`
	ReplyMarkup any    `json:"reply_markup,omitempty"`
}

type attempt struct {
	name   string
	auth   auth
	markup any
	text   string
}

// SendMessage delivers text with kb, degrading step by step: web_app
// keyboard via path token, web_app keyboard via bearer, url keyboard via
// path token, and finally plain text with the link appended. The first
// successful response body is returned.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, kb *Keyboard, link string) (json.RawMessage, error) {
	if !c.Configured() {
		return nil, ErrNoToken
	}

	var attempts []attempt
	if kb != nil {
		attempts = append(attempts,
			attempt{name: "webapp_path", auth: authPath, markup: kb.WebApp, text: text},
			attempt{name: "webapp_bearer", auth: authBearer, markup: kb.WebApp, text: text},
			attempt{name: "url_path", auth: authPath, markup: kb.URL, text: text},
		)
	}
	plain := text
	if link != "" {
		plain += "\n\n🔗 " + link
	}
	attempts = append(attempts,
		attempt{name: "plain_path", auth: authPath, text: plain},
		attempt{name: "plain_bearer", auth: authBearer, text: plain},
	)

	for _, a := range attempts {
		body, err := c.call(ctx, a.auth, "sendMessage", sendMessageRequest{
			ChatID:      chatID,
			Text:        a.text,
			ParseMode:   "HTML",
			ReplyMarkup: a.markup,
		})
		if err == nil {
			sendAttempts.WithLabelValues(a.name, "ok").Inc()
			return body, nil
		}
		sendAttempts.WithLabelValues(a.name, "error").Inc()
		c.log.Warn("send attempt failed", "attempt", a.name, "chat_id", chatID, "error", err)

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, ErrSendFailed
}

// SetWebhook registers url as the update endpoint.
func (c *Client) SetWebhook(ctx context.Context, url string) (json.RawMessage, error) {
	if !c.Configured() {
		return nil, ErrNoToken
	}
	if url == "" {
		return nil, ErrNoWebhook
	}

	payload := map[string]string{"url": url}
	body, err := c.call(ctx, authPath, "setWebhook", payload)
	if err == nil {
		return body, nil
	}
	c.log.Warn("setWebhook via path token failed, retrying with bearer", "error", err)
	return c.call(ctx, authBearer, "setWebhook", payload)
}

func (c *Client) call(ctx context.Context, a auth, method string, payload any) (json.RawMessage, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/bot" + c.token + "/" + method
	if a == authBearer {
		endpoint = c.baseURL + "/bot/" + method
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if a == authBearer {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// the url embeds the token, so the transport error is not wrapped
		return nil, fmt.Errorf("%w: %s via %s: request error", ErrCallFailed, method, a)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", method, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s via %s: status %d", ErrCallFailed, method, a, resp.StatusCode)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: %s via %s: non-json response", ErrCallFailed, method, a)
	}
	return body, nil
}
