package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// PlaceholderToken is the value shipped in .env.example. If BOT_TOKEN still
// holds it (or is empty), the chat component is disabled and only the page
// is served.
const PlaceholderToken = "YOUR_BOT_TOKEN"

type Config struct {
	AppEnv    string
	Port      string
	BotToken  string
	OwnerID   int64
	DataDir   string
	LogLevel  string
	LogFormat string
}

func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		Port:      getEnv("PORT", "8080"),
		BotToken:  getEnv("BOT_TOKEN", ""),
		DataDir:   getEnv("DATA_DIR", "data"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	if raw := os.Getenv("OWNER_ID"); raw != "" {
		ownerID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("OWNER_ID must be a numeric chat ID: %w", err)
		}
		cfg.OwnerID = ownerID
	}

	if cfg.ChatEnabled() && cfg.OwnerID == 0 {
		return nil, fmt.Errorf("OWNER_ID is required when BOT_TOKEN is set")
	}

	return cfg, nil
}

// ChatEnabled reports whether a usable bot credential was supplied.
func (c *Config) ChatEnabled() bool {
	return c.BotToken != "" && c.BotToken != PlaceholderToken
}

// ConfigPath is the fixed location of the persisted payment record.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.DataDir, "config.json")
}

// QRPath is the fixed location of the QR image asset.
func (c *Config) QRPath() string {
	return filepath.Join(c.DataDir, "qr.png")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
