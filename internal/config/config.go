package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"trashcash_webapp/internal/logger"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	ErrSecretRequired  = errors.New("MAX_SECRET_KEY is not set (set DEV_MODE=true for local development)")
	ErrDevModeInProd   = errors.New("DEV_MODE cannot be enabled when APP_ENV=production")
	ErrInvalidInterval = errors.New("rate limit window must be positive")
)

type Config struct {
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort string `env:"APP_PORT" envDefault:"8080"`

	// Platform shared secret used to verify init data.
	MaxSecretKey string `env:"MAX_SECRET_KEY"`
	// DevMode skips init-data verification while MAX_SECRET_KEY is empty.
	// Local development only.
	DevMode bool `env:"DEV_MODE" envDefault:"false"`

	BotToken       string `env:"BOT_TOKEN"`
	PlatformAPIURL string `env:"PLATFORM_API_URL" envDefault:"https://platform-api.max.ru"`
	WebAppURL      string `env:"WEBAPP_URL"`
	WebhookURL     string `env:"WEBHOOK_URL"`

	YandexMapsAPIKey string `env:"YANDEX_MAPS_API_KEY"`

	// Empty keeps user records in memory.
	DatabaseURL string `env:"DATABASE_URL"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Empty disables session tokens; clients then send init data on every call.
	JWTSecret     string        `env:"JWT_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	AllowedOrigin string        `env:"ALLOWED_ORIGIN"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogJSON  bool   `env:"LOG_JSON" envDefault:"false"`

	APIRateLimit          int `env:"API_RATE_LIMIT" envDefault:"60"`
	APIRateWindowSeconds  int `env:"API_RATE_WINDOW_SECONDS" envDefault:"60"`
	AuthRateLimit         int `env:"AUTH_RATE_LIMIT" envDefault:"10"`
	AuthRateWindowSeconds int `env:"AUTH_RATE_WINDOW_SECONDS" envDefault:"60"`

	// Per user, shared by submit and purchase, over the API window.
	ActionRateLimit int `env:"ACTION_RATE_LIMIT" envDefault:"30"`

	StaticDir   string `env:"STATIC_DIR" envDefault:"static"`
	TemplateDir string `env:"TEMPLATE_DIR" envDefault:"templates"`
}

// IsProduction reports whether APP_ENV names a production deployment.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.AppEnv))
	return env == "production" || env == "prod"
}

func (c *Config) APIRateWindow() time.Duration {
	return time.Duration(c.APIRateWindowSeconds) * time.Second
}

func (c *Config) AuthRateWindow() time.Duration {
	return time.Duration(c.AuthRateWindowSeconds) * time.Second
}

// Validate enforces the rules Load applies after parsing.
func (c *Config) Validate() error {
	if c.DevMode && c.IsProduction() {
		return ErrDevModeInProd
	}
	if c.MaxSecretKey == "" && !c.DevMode {
		return ErrSecretRequired
	}
	if c.APIRateWindowSeconds <= 0 || c.AuthRateWindowSeconds <= 0 {
		return ErrInvalidInterval
	}
	return nil
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoad is Load that exits the process on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	if cfg.DevMode && cfg.MaxSecretKey == "" {
		logger.Warn("DEV_MODE is on: init data is NOT verified, every request is user 123456")
	}
	return cfg
}
