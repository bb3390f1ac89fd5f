package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"crypto-dashboard/internal/domain"

	"github.com/charmbracelet/log"
)

type Config struct {
	PriceAPIURL         string
	PollIntervalSecs    int
	UpdateFlashMillis   int
	PriceAPITimeoutSecs int
	PriceAPIRatePerMin  int

	DefaultAsset domain.Asset
	DefaultRange domain.Range

	PrefsPath        string
	RedisURL         string
	HistoryCacheSecs int

	SSHPort        int
	SSHHostKeyPath string
	StatusHTTPPort int
	StatusAPIKey   string

	LogLevel string
	LogFile  string
}

func Load() *Config {
	cfg := &Config{
		RedisURL: strings.TrimSpace(os.Getenv("REDIS_URL")),
	}

	cfg.PriceAPIURL = strings.TrimSpace(os.Getenv("PRICE_API_URL"))
	if cfg.PriceAPIURL == "" {
		log.Warn("PRICE_API_URL not set", "default", "http://127.0.0.1:8000")
		cfg.PriceAPIURL = "http://127.0.0.1:8000"
	}

	cfg.PollIntervalSecs = positiveInt("POLL_INTERVAL_SECS", 10)
	cfg.UpdateFlashMillis = positiveInt("UPDATE_FLASH_MS", 800)
	cfg.PriceAPITimeoutSecs = positiveInt("PRICE_API_TIMEOUT_SECS", 20)

	cfg.PriceAPIRatePerMin = 120
	if v := strings.TrimSpace(os.Getenv("PRICE_API_RATE_PER_MIN")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.PriceAPIRatePerMin = n
		}
	}

	cfg.HistoryCacheSecs = 5
	if v := strings.TrimSpace(os.Getenv("HISTORY_CACHE_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.HistoryCacheSecs = n
		}
	}

	cfg.DefaultAsset = domain.Bitcoin
	if v := strings.ToLower(strings.TrimSpace(os.Getenv("DEFAULT_ASSET"))); v != "" {
		if a, err := domain.ParseAsset(v); err == nil {
			cfg.DefaultAsset = a
		} else {
			log.Warn("ignoring DEFAULT_ASSET", "err", err, "default", cfg.DefaultAsset)
		}
	}

	cfg.DefaultRange = domain.Range24H
	if v := strings.ToLower(strings.TrimSpace(os.Getenv("DEFAULT_RANGE"))); v != "" {
		if r, err := domain.ParseRange(v); err == nil {
			cfg.DefaultRange = r
		} else {
			log.Warn("ignoring DEFAULT_RANGE", "err", err, "default", cfg.DefaultRange)
		}
	}

	cfg.PrefsPath = strings.TrimSpace(os.Getenv("PREFS_PATH"))
	if cfg.PrefsPath == "" {
		cfg.PrefsPath = defaultPrefsPath()
	}

	cfg.SSHPort = positiveInt("SSH_PORT", 2222)
	cfg.SSHHostKeyPath = strings.TrimSpace(os.Getenv("SSH_HOST_KEY_PATH"))
	if cfg.SSHHostKeyPath == "" {
		cfg.SSHHostKeyPath = ".ssh/id_ed25519"
	}
	cfg.StatusHTTPPort = positiveInt("STATUS_HTTP_PORT", 8080)
	cfg.StatusAPIKey = strings.TrimSpace(os.Getenv("STATUS_API_KEY"))

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	cfg.LogFile = strings.TrimSpace(os.Getenv("LOG_FILE"))
	if cfg.LogFile == "" {
		cfg.LogFile = "dashboard.log"
	}

	return cfg
}

func positiveInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func defaultPrefsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "prefs.yaml"
	}
	return filepath.Join(dir, "crypto-dashboard", "prefs.yaml")
}
