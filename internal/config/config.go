package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string

	HTTPAddr    string
	DatabaseURL string

	JWTSecret string
	JWTIssuer string

	// Redis (sessions and one-time tokens); empty falls back to in-memory
	// stores in dev.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// SMTP
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	SMTPTLS      bool

	// RabbitMQ
	RabbitURL      string
	RabbitExchange string

	// Public link bases for mailed tokens
	ConfirmEmailURL  string
	ResetPasswordURL string

	// Lifecycle TTLs
	AccessTokenTTL  time.Duration
	SessionTTL      time.Duration
	RememberMeTTL   time.Duration
	ConfirmTokenTTL time.Duration
	ResetTokenTTL   time.Duration

	// Rate limiting
	RLEnabled bool
	RLLimit   int
	RLWindow  time.Duration

	// Cookies carry the Secure flag outside dev.
	CookieSecure bool

	SeedDev bool

	LogLevel  string
	LogFormat string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.AppEnv = getEnv("APP_ENV", "dev")
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")
	cfg.DatabaseURL = getEnv("DATABASE_URL", "")

	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.JWTIssuer = getEnv("JWT_ISSUER", "account-service")

	cfg.RedisAddr = getEnv("REDIS_ADDR", "")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.RedisDB = getIntEnv("REDIS_DB", 0)

	cfg.SMTPHost = getEnv("SMTP_HOST", "")
	cfg.SMTPPort = getIntEnv("SMTP_PORT", 587)
	cfg.SMTPUser = getEnv("SMTP_USER", "")
	cfg.SMTPPassword = getEnv("SMTP_PASSWORD", "")
	cfg.SMTPFrom = getEnv("SMTP_FROM", "no-reply@localhost")
	cfg.SMTPTLS = getEnv("SMTP_TLS", "true") == "true"

	cfg.RabbitURL = getEnv("RABBIT_URL", "")
	cfg.RabbitExchange = getEnv("RABBIT_EXCHANGE", "account.events")

	base := getEnv("PUBLIC_BASE_URL", "http://localhost:8080")
	cfg.ConfirmEmailURL = getEnv("CONFIRM_EMAIL_URL", base+"/account/v1/confirm-email")
	cfg.ResetPasswordURL = getEnv("RESET_PASSWORD_URL", base+"/account/v1/reset-password")

	cfg.AccessTokenTTL = getDuration("ACCESS_TOKEN_TTL", 15*time.Minute)
	cfg.SessionTTL = getDuration("SESSION_TTL", 12*time.Hour)
	cfg.RememberMeTTL = getDuration("REMEMBER_ME_TTL", 30*24*time.Hour)
	cfg.ConfirmTokenTTL = getDuration("CONFIRM_TOKEN_TTL", 24*time.Hour)
	cfg.ResetTokenTTL = getDuration("RESET_TOKEN_TTL", 30*time.Minute)

	// Rate limiting defaults: 100 reqs / 1 min
	cfg.RLEnabled = getEnv("RL_ENABLED", "true") == "true"
	cfg.RLLimit = getIntEnv("RL_IP_LIMIT", 100)
	cfg.RLWindow = getDuration("RL_IP_WINDOW", 1*time.Minute)

	cfg.CookieSecure = cfg.AppEnv != "dev"
	cfg.SeedDev = cfg.AppEnv == "dev" && getEnv("SEED_DEV", "false") == "true"

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "console")

	cfg.HTTPReadTimeout = getDuration("HTTP_READ_TIMEOUT", 10*time.Second)
	cfg.HTTPWriteTimeout = getDuration("HTTP_WRITE_TIMEOUT", 20*time.Second)
	cfg.HTTPIdleTimeout = getDuration("HTTP_IDLE_TIMEOUT", 60*time.Second)

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("missing DATABASE_URL")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing JWT_SECRET")
	}

	// Outside dev the external collaborators are mandatory.
	if cfg.AppEnv != "dev" {
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("missing REDIS_ADDR (required when APP_ENV != dev)")
		}
		if cfg.SMTPHost == "" {
			return nil, fmt.Errorf("missing SMTP_HOST (required when APP_ENV != dev)")
		}
		if cfg.RabbitURL == "" {
			return nil, fmt.Errorf("missing RABBIT_URL (required when APP_ENV != dev)")
		}
	}

	return cfg, nil
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getIntEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}
