package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/park285/detailed-moves/internal/msgcat"
	"github.com/park285/detailed-moves/internal/openingbook"
)

type AppConfig struct {
	BridgeWSURL     string
	BridgeToken     string
	BridgeReconnect int

	EcoConfig
}

// EcoConfig is the part of the configuration that works without a bridge:
// the opening table source, its cache and the message catalog.
type EcoConfig struct {
	EcoURL      string
	EcoTimeout  time.Duration
	EcoCacheTTL time.Duration
	RedisURL    string

	Locale      string
	MessagesDir string
}

func Load() (*AppConfig, error) {
	eco, err := LoadEco()
	if err != nil {
		return nil, err
	}
	cfg := &AppConfig{
		BridgeReconnect: 5,
		EcoConfig:       *eco,
	}

	cfg.BridgeWSURL = strings.TrimSpace(os.Getenv("DM_BRIDGE_WS_URL"))
	cfg.BridgeToken = strings.TrimSpace(os.Getenv("DM_BRIDGE_TOKEN"))
	if v := strings.TrimSpace(os.Getenv("DM_BRIDGE_RECONNECT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.BridgeReconnect = n
		}
	}

	if cfg.BridgeWSURL == "" {
		return nil, errors.New("DM_BRIDGE_WS_URL is required")
	}
	if !strings.HasPrefix(cfg.BridgeWSURL, "ws://") && !strings.HasPrefix(cfg.BridgeWSURL, "wss://") {
		return nil, fmt.Errorf("DM_BRIDGE_WS_URL must be a ws:// or wss:// url: %q", cfg.BridgeWSURL)
	}
	return cfg, nil
}

// LoadEco reads the DM_ECO_*, REDIS_URL, DM_LOCALE and DM_MESSAGES_DIR
// settings. An empty DM_ECO_URL means openingbook.DefaultURL.
func LoadEco() (*EcoConfig, error) {
	cfg := &EcoConfig{
		EcoURL:      openingbook.DefaultURL,
		EcoTimeout:  10 * time.Second,
		EcoCacheTTL: 86400 * time.Second,
		Locale:      msgcat.DefaultLocale,
	}

	if v := strings.TrimSpace(os.Getenv("DM_ECO_URL")); v != "" {
		cfg.EcoURL = v
	}
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.MessagesDir = strings.TrimSpace(os.Getenv("DM_MESSAGES_DIR"))

	if v := strings.TrimSpace(os.Getenv("DM_ECO_TIMEOUT")); v != "" { // seconds
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.EcoTimeout = time.Duration(n) * time.Second
		}
	}
	if v := strings.TrimSpace(os.Getenv("DM_ECO_CACHE_TTL")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.EcoCacheTTL = time.Duration(n) * time.Second
		}
	}
	if v := strings.ToLower(strings.TrimSpace(os.Getenv("DM_LOCALE"))); v != "" {
		cfg.Locale = v
	}

	if !supportedLocale(cfg.Locale) {
		return nil, fmt.Errorf("DM_LOCALE %q not supported (have %s)", cfg.Locale, strings.Join(msgcat.Locales(), ", "))
	}
	return cfg, nil
}

func supportedLocale(l string) bool {
	for _, have := range msgcat.Locales() {
		if have == l {
			return true
		}
	}
	return false
}
