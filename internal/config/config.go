package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Telegram Bot
	TelegramToken string

	// Shared ledger: when set, every chat reads and writes this chat's
	// session instead of its own.
	GroupChatID int64

	// Database (empty means in-memory sessions)
	DatabaseURL string

	// Web Server
	WebBind    string
	WebhookURL string

	// API auth
	AdminToken string
	JWTSecret  string

	// Ledger
	GroupSize      int
	DefaultMembers []string
}

func Load() (*Config, error) {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		WebBind:       getEnvDefault("WEB_BIND", "0.0.0.0:3000"),
		WebhookURL:    os.Getenv("WEBHOOK_URL"),
		AdminToken:    os.Getenv("ADMIN_TOKEN"),
		JWTSecret:     getEnvDefault("JWT_SECRET", "dev-only-change-me"),
	}

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	if raw := os.Getenv("GROUP_CHAT_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("GROUP_CHAT_ID must be a numeric chat ID: %w", err)
		}
		cfg.GroupChatID = id
	}

	size, err := strconv.Atoi(getEnvDefault("GROUP_SIZE", "4"))
	if err != nil || size < 2 {
		return nil, fmt.Errorf("GROUP_SIZE must be an integer of at least 2")
	}
	cfg.GroupSize = size

	cfg.DefaultMembers = splitMembers(getEnvDefault("DEFAULT_MEMBERS", "loren,rei,jessi,thora"))
	if len(cfg.DefaultMembers) != cfg.GroupSize {
		return nil, fmt.Errorf("DEFAULT_MEMBERS must list exactly %d names", cfg.GroupSize)
	}

	return cfg, nil
}

// SharedLedger reports whether all chats share one communal session.
func (c *Config) SharedLedger() bool {
	return c.GroupChatID != 0
}

func getEnvDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitMembers(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
