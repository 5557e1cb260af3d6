package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"nepremwatch/pkg/errors"
)

// Fetch strategies
const (
	StrategyPlain  = "plain"
	StrategyChrome = "chrome"
)

// Config holds all runtime settings, read from the environment
type Config struct {
	BaseURL       string
	FetchStrategy string
	FetchDelay    time.Duration
	DetailWorkers int
	AllPages      bool

	// selector overrides, each replacing a whole fallback chain
	CardSelector     string
	LinkSelector     string
	TitleSelector    string
	PriceSelector    string
	LocationSelector string
	SelectorsFile    string

	NotifyMode string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string
	SMTPTo   string

	RedisAddr   string
	RedisDB     int
	RedisStream string
	RedisMaxLen int64

	MemcacheAddr string

	DataPath     string
	PollInterval time.Duration
	HTTPAddr     string
	PostgresDSN  string

	Debug bool
}

// Load reads the configuration from the environment. Call godotenv.Load
// first if a .env file should participate.
func Load() Config {
	strategy := strings.ToLower(getEnv("FETCH_STRATEGY", ""))
	if strategy == "" && getEnv("USE_CHROME", "0") == "1" {
		strategy = StrategyChrome
	}
	if strategy == "" {
		strategy = StrategyPlain
	}

	return Config{
		BaseURL:       getEnv("BASE_URL", "https://www.nepremicnine.net/"),
		FetchStrategy: strategy,
		FetchDelay:    time.Duration(getIntEnv("FETCH_DELAY_MS", 1000)) * time.Millisecond,
		DetailWorkers: getIntEnv("DETAIL_WORKERS", 4),
		AllPages:      getEnv("ALL_PAGES", "0") == "1",

		CardSelector:     getEnv("LISTING_CARD_SELECTOR", ""),
		LinkSelector:     getEnv("LISTING_LINK_SELECTOR", ""),
		TitleSelector:    getEnv("LISTING_TITLE_SELECTOR", ""),
		PriceSelector:    getEnv("LISTING_PRICE_SELECTOR", ""),
		LocationSelector: getEnv("LISTING_LOCATION_SELECTOR", ""),
		SelectorsFile:    getEnv("SELECTORS_FILE", ""),

		NotifyMode: strings.ToLower(getEnv("NOTIFY_MODE", "stdout")),

		SMTPHost: getEnv("SMTP_HOST", ""),
		SMTPPort: getIntEnv("SMTP_PORT", 587),
		SMTPUser: getEnv("SMTP_USER", ""),
		SMTPPass: getEnv("SMTP_PASS", ""),
		SMTPFrom: getEnv("SMTP_FROM", ""),
		SMTPTo:   getEnv("SMTP_TO", ""),

		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:     getIntEnv("REDIS_DB", 0),
		RedisStream: getEnv("REDIS_STREAM", ""),
		RedisMaxLen: int64(getIntEnv("REDIS_STREAM_MAXLEN", 0)),

		MemcacheAddr: getEnv("MEMCACHE_ADDR", ""),

		DataPath:     getEnv("DATA_PATH", filepath.Join("data", "seen.json")),
		PollInterval: time.Duration(getIntEnv("POLL_INTERVAL_SECONDS", 300)) * time.Second,
		HTTPAddr:     getEnv("HTTP_ADDR", ":8080"),
		PostgresDSN:  getEnv("DATABASE_URL", ""),

		Debug: getEnv("DEBUG", "0") == "1" || strings.EqualFold(getEnv("LOG_LEVEL", ""), "debug"),
	}
}

// Validate rejects configurations that cannot work
func (c Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return errors.NewConfiguration("config", "BASE_URL must not be empty", nil)
	}
	switch c.FetchStrategy {
	case StrategyPlain, StrategyChrome:
	default:
		return errors.NewConfiguration("config",
			fmt.Sprintf("unknown fetch strategy %q", c.FetchStrategy), nil)
	}
	switch c.NotifyMode {
	case "stdout", "smtp", "redis":
	default:
		return errors.NewConfiguration("config",
			fmt.Sprintf("unknown notify mode %q", c.NotifyMode), nil)
	}
	if c.DetailWorkers < 1 {
		return errors.NewConfiguration("config", "DETAIL_WORKERS must be at least 1", nil)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntEnv(key string, defaultValue int) int {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
