package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerHost string

	APIBaseURL     string
	APITimeout     time.Duration
	APIInsecureTLS bool

	DBDriver string
	DBDSN    string

	JWTSecret  string
	SessionTTL time.Duration

	// How long the catalogs and each session's request list stay cached
	CacheTTL time.Duration

	// Value sent as accion when a request is approved. The original portal
	// used both "Atender" and "Aprobar" across revisions.
	ApproveAction string

	AllowedOrigins []string

	TelegramToken  string
	TelegramChatID int64
}

// Load reads the .env file (if present) and builds the configuration from the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg := &Config{
		ServerHost:     envOrDefault("SERVER_HOST", ":8080"),
		APIBaseURL:     strings.TrimRight(envOrDefault("API_BASE_URL", "https://localhost:7094/api"), "/"),
		APITimeout:     durationOrDefault("API_TIMEOUT", 8*time.Second),
		APIInsecureTLS: boolOrDefault("API_INSECURE_TLS", false),
		DBDriver:       envOrDefault("DB_DRIVER", "sqlite"),
		DBDSN:          envOrDefault("DB_DSN", "portal.db"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		SessionTTL:     durationOrDefault("SESSION_TTL", 12*time.Hour),
		CacheTTL:       durationOrDefault("CACHE_TTL", 5*time.Minute),
		ApproveAction:  envOrDefault("DECISION_APPROVE_ACTION", "Atender"),
		AllowedOrigins: splitList(envOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
	}

	if raw := os.Getenv("TELEGRAM_CHAT_ID"); raw != "" {
		chatID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.New("TELEGRAM_CHAT_ID debe ser numérico")
		}
		cfg.TelegramChatID = chatID
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET es obligatorio")
	}
	if cfg.DBDriver != "postgres" && cfg.DBDriver != "sqlite" {
		return nil, errors.New("DB_DRIVER debe ser postgres o sqlite")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func durationOrDefault(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("[CONFIG] %s inválido (%q), usando %s", key, raw, fallback)
		return fallback
	}
	return d
}

func boolOrDefault(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return b
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
