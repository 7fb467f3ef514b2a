package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config keeps runtime settings for the bot.
type Config struct {
	TelegramToken  string
	DataFile       string
	Port           string
	BackupDir      string
	ReportInterval time.Duration
	BackupInterval time.Duration
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		TelegramToken:  strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		DataFile:       strings.TrimSpace(os.Getenv("DATA_FILE")),
		Port:           strings.TrimSpace(os.Getenv("PORT")),
		BackupDir:      strings.TrimSpace(os.Getenv("BACKUP_DIR")),
		ReportInterval: parseInterval(strings.TrimSpace(os.Getenv("REPORT_INTERVAL_HOURS"))),
		BackupInterval: parseInterval(strings.TrimSpace(os.Getenv("BACKUP_INTERVAL_HOURS"))),
	}

	if cfg.DataFile == "" {
		cfg.DataFile = "expense_data.json"
	}

	if cfg.Port == "" {
		cfg.Port = "3000"
	}

	if cfg.BackupDir == "" {
		cfg.BackupDir = "backups"
	}

	if cfg.TelegramToken == "" {
		return cfg, fmt.Errorf("TELEGRAM_TOKEN is required")
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
