// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	BotToken   string
	AdminID    int64
	DBPath     string
	Port       string
	QuizURL    string
	WebhookURL string // empty = long polling
	Sheets     SheetsConfig
	Delays     DelayConfig
}

// SheetsConfig controls the Google Sheets mirror.
type SheetsConfig struct {
	Enabled         bool
	SpreadsheetID   string
	CredentialsFile string
	CredentialsJSON string // inline service-account JSON, wins over the file
}

// DelayConfig holds the real-time gaps in the post-quiz message sequence and
// the courtesy delay between broadcast sends.
type DelayConfig struct {
	ResultImage   time.Duration
	AcademyFirst  time.Duration
	AcademySecond time.Duration
	Broadcast     time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		BotToken:   getEnv("BOT_TOKEN", ""),
		AdminID:    getEnvInt64("ADMIN_TELEGRAM_ID", 0),
		DBPath:     getEnv("DB_PATH", "./data/molfa_users.db"),
		Port:       getEnv("PORT", "8080"),
		QuizURL:    getEnv("QUIZ_URL", "https://molfartaro.github.io/molfa-webapp/"),
		WebhookURL: getEnv("WEBHOOK_URL", ""),
		Sheets: SheetsConfig{
			Enabled:         getEnvBool("GOOGLE_SHEETS_ENABLED", false),
			SpreadsheetID:   getEnv("GOOGLE_SHEET_ID", ""),
			CredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
			CredentialsJSON: getEnv("GOOGLE_CREDENTIALS_JSON", ""),
		},
		Delays: DelayConfig{
			ResultImage:   getEnvDuration("RESULT_IMAGE_DELAY", 3*time.Second),
			AcademyFirst:  getEnvDuration("ACADEMY_FIRST_DELAY", 30*time.Second),
			AcademySecond: getEnvDuration("ACADEMY_SECOND_DELAY", 10*time.Second),
			Broadcast:     getEnvDuration("BROADCAST_DELAY", 100*time.Millisecond),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN cannot be empty")
	}
	if c.AdminID == 0 {
		return fmt.Errorf("ADMIN_TELEGRAM_ID must be set")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.QuizURL == "" {
		return fmt.Errorf("QUIZ_URL cannot be empty")
	}
	if c.Sheets.Enabled && c.Sheets.SpreadsheetID == "" {
		return fmt.Errorf("GOOGLE_SHEET_ID must be set when GOOGLE_SHEETS_ENABLED is true")
	}
	for name, d := range map[string]time.Duration{
		"RESULT_IMAGE_DELAY":   c.Delays.ResultImage,
		"ACADEMY_FIRST_DELAY":  c.Delays.AcademyFirst,
		"ACADEMY_SECOND_DELAY": c.Delays.AcademySecond,
		"BROADCAST_DELAY":      c.Delays.Broadcast,
	} {
		if d < 0 {
			return fmt.Errorf("%s cannot be negative", name)
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt64(key string, fallback int64) int64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
