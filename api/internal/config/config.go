package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrConfigurationMissing is returned when API_BASE is not set.
var ErrConfigurationMissing = errors.New("API_BASE is not set")

type Config struct {
	Port string

	// APIBase is the document API root; /upload and /ask hang off it.
	APIBase string
	// SendDocumentHandle makes the session remember the "file" returned by
	// /upload and pass it back as "filename" on /ask.
	SendDocumentHandle bool
	Timeout            time.Duration

	TelegramBotToken string
	WebhookURL       string
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

// Load reads .env (if present) and the process environment. Only API_BASE is
// required here; each binary checks the settings it needs on top.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		APIBase:            strings.TrimRight(getEnv("API_BASE", ""), "/"),
		SendDocumentHandle: true,
		Timeout:            60 * time.Second,
		TelegramBotToken:   getEnv("TELEGRAM_BOT_TOKEN", ""),
		WebhookURL:         getEnv("WEBHOOK_URL", ""),
	}

	if cfg.APIBase == "" {
		return nil, ErrConfigurationMissing
	}
	if u, err := url.Parse(cfg.APIBase); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("API_BASE %q is not an absolute URL", cfg.APIBase)
	}

	if v := getEnv("SEND_DOCUMENT_HANDLE", ""); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("SEND_DOCUMENT_HANDLE: %w", err)
		}
		cfg.SendDocumentHandle = b
	}
	if v := getEnv("QA_TIMEOUT", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("QA_TIMEOUT %q: want a positive duration like 60s", v)
		}
		cfg.Timeout = d
	}
	return cfg, nil
}
