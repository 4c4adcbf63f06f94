package config

import (
	"os"
	"strings"
	"time"
)

// Config keeps runtime settings for the server.
type Config struct {
	DatabaseURL     string
	ListenAddr      string
	TelegramToken   string
	SummaryTime     string
	SummaryInterval time.Duration
}

// Load reads configuration from environment variables with sane defaults.
// The Telegram token is optional; without it pushes go to the log.
func Load() (Config, error) {
	cfg := Config{
		DatabaseURL:     strings.TrimSpace(os.Getenv("DATABASE_URL")),
		ListenAddr:      strings.TrimSpace(os.Getenv("LISTEN_ADDR")),
		TelegramToken:   strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		SummaryTime:     strings.TrimSpace(os.Getenv("SUMMARY_TIME")),
		SummaryInterval: parseInterval(strings.TrimSpace(os.Getenv("SUMMARY_INTERVAL_HOURS"))),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "focus_planner.db"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":5000"
	}
	if cfg.SummaryTime == "" {
		cfg.SummaryTime = "20:00"
	}

	return cfg, nil
}

func parseInterval(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}
