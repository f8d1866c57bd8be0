package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const defaultJWTSecret = "change-me-jwt-secret"

const (
	NotifierWebhook = "webhook"
	NotifierAMQP    = "amqp"
	NotifierNone    = "none"
)

type Config struct {
	AppEnv   string `envconfig:"APP_ENV" default:"dev"`
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	// DatabaseURL is the primary booking store.
	DatabaseURL string `envconfig:"DATABASE_URL" default:"catering.db"`
	// LocalStoreDSN holds session storage and the fallback cache. It must
	// not be the primary database.
	LocalStoreDSN string `envconfig:"LOCAL_STORE_DSN" default:"catering_local.db"`

	JWTSecret      string `envconfig:"JWT_SECRET" default:"change-me-jwt-secret"`
	JWTIssuer      string `envconfig:"JWT_ISSUER"`
	RequireAccount bool   `envconfig:"REQUIRE_ACCOUNT" default:"false"`

	NotifierKind  string        `envconfig:"NOTIFIER_KIND" default:"none"`
	WebhookURL    string        `envconfig:"WEBHOOK_URL"`
	AMQPURL       string        `envconfig:"AMQP_URL"`
	AMQPExchange  string        `envconfig:"AMQP_EXCHANGE" default:"catering.bookings"`
	NotifyTimeout time.Duration `envconfig:"NOTIFY_TIMEOUT" default:"10s"`
	// NotifyWait bounds how long a submit request waits for the notifier
	// before answering with the outcome so far.
	NotifyWait time.Duration `envconfig:"NOTIFY_WAIT" default:"2s"`

	// SessionIdleTTL is how long an untouched session stays in memory.
	// Evicted sessions are restored from local storage on demand.
	SessionIdleTTL       time.Duration `envconfig:"SESSION_IDLE_TTL" default:"30m"`
	SessionSweepInterval time.Duration `envconfig:"SESSION_SWEEP_INTERVAL" default:"1m"`

	CORSOrigins  []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`
	OTLPEndpoint string   `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load reads .env outside production, then the environment.
func Load() (*Config, error) {
	if !isProdLike(envOr("APP_ENV", "dev")) {
		if err := godotenv.Load(); err == nil {
			log.Println("loaded .env")
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.NotifierKind = strings.ToLower(strings.TrimSpace(cfg.NotifierKind))
	if cfg.NotifierKind == "" {
		cfg.NotifierKind = NotifierNone
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	log.Printf("config loaded: env=%s notifier=%s require_account=%t tracing=%t", cfg.AppEnv, cfg.NotifierKind, cfg.RequireAccount, cfg.OTLPEndpoint != "")
	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if strings.TrimSpace(cfg.LocalStoreDSN) == "" {
		return fmt.Errorf("LOCAL_STORE_DSN must not be empty")
	}
	if cfg.LocalStoreDSN == cfg.DatabaseURL {
		return fmt.Errorf("LOCAL_STORE_DSN must differ from DATABASE_URL")
	}
	if cfg.NotifyTimeout <= 0 {
		return fmt.Errorf("NOTIFY_TIMEOUT must be > 0")
	}
	if cfg.NotifyWait < 0 {
		return fmt.Errorf("NOTIFY_WAIT must be >= 0")
	}
	if cfg.SessionIdleTTL <= 0 {
		return fmt.Errorf("SESSION_IDLE_TTL must be > 0")
	}
	if cfg.SessionSweepInterval <= 0 {
		return fmt.Errorf("SESSION_SWEEP_INTERVAL must be > 0")
	}

	switch cfg.NotifierKind {
	case NotifierWebhook:
		if cfg.WebhookURL == "" {
			return fmt.Errorf("WEBHOOK_URL is required when NOTIFIER_KIND=webhook")
		}
	case NotifierAMQP:
		if cfg.AMQPURL == "" {
			return fmt.Errorf("AMQP_URL is required when NOTIFIER_KIND=amqp")
		}
		if cfg.AMQPExchange == "" {
			return fmt.Errorf("AMQP_EXCHANGE must not be empty")
		}
	case NotifierNone:
	default:
		return fmt.Errorf("NOTIFIER_KIND must be one of: webhook, amqp, none")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if cfg.NotifierKind == NotifierNone {
			return fmt.Errorf("in prod/release NOTIFIER_KIND must not be none")
		}
	}

	return nil
}

func (c *Config) IsProd() bool { return isProdLike(c.AppEnv) }

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
