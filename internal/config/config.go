// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	TelegramBotToken string
	DatabasePath     string
	LogLevel         string
	AdminUsers       []int64
	NotifyChatIDs    []int64
	PollInterval     time.Duration
	MetricsAddr      string
	ProxyURL         string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "./data/bot.db"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	admins, err := parseIDList(os.Getenv("ADMIN_USERS"), "ADMIN_USERS")
	if err != nil {
		return nil, err
	}

	recipients, err := parseIDList(os.Getenv("NOTIFY_CHAT_IDS"), "NOTIFY_CHAT_IDS")
	if err != nil {
		return nil, err
	}
	// Admins are also the push targets unless overridden.
	if len(recipients) == 0 {
		recipients = admins
	}

	interval := 60 * time.Second
	if raw := os.Getenv("POLL_INTERVAL"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs < 5 {
			return nil, fmt.Errorf("POLL_INTERVAL must be an integer >= 5 seconds, got %q", raw)
		}
		interval = time.Duration(secs) * time.Second
	}

	return &Config{
		TelegramBotToken: token,
		DatabasePath:     dbPath,
		LogLevel:         logLevel,
		AdminUsers:       admins,
		NotifyChatIDs:    recipients,
		PollInterval:     interval,
		MetricsAddr:      os.Getenv("METRICS_ADDR"),
		ProxyURL:         os.Getenv("PROXY_URL"),
	}, nil
}

// IsUserAllowed checks whether a user ID is in the admin list.
// Returns true if the list is empty (all users permitted).
func (c *Config) IsUserAllowed(userID int64) bool {
	if len(c.AdminUsers) == 0 {
		return true
	}
	for _, id := range c.AdminUsers {
		if id == userID {
			return true
		}
	}
	return false
}

func parseIDList(raw, name string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}
	var ids []int64
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ID %q in %s: %w", s, name, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
