package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string
	DBDSN         string
	Environment   string
	LogLevel      string
	HTTPAddr      string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CalendarCacheTTL      time.Duration
	CalendarFetchTimeout  time.Duration
	CalendarFailurePolicy string
	CalendarPrefetchCron  string
	BookingHorizon        time.Duration

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	MigrationsEnabled bool
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	} else {
		log.Println("Loaded configuration from .env file")
	}

	return FromEnv()
}

// FromEnv builds the configuration from environment variables only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		TelegramToken:         os.Getenv("TELEGRAM_TOKEN"),
		DBDSN:                 os.Getenv("DB_DSN"),
		Environment:           getString("ENV", "development"),
		LogLevel:              os.Getenv("LOG_LEVEL"),
		HTTPAddr:              getString("HTTP_ADDR", ":8080"),
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		RedisPassword:         os.Getenv("REDIS_PASSWORD"),
		CalendarFailurePolicy: strings.ToLower(getString("CALENDAR_FAILURE_POLICY", "open")),
		GoogleClientID:        os.Getenv("GOOGLE_OAUTH_CLIENT_ID"),
		GoogleClientSecret:    os.Getenv("GOOGLE_OAUTH_CLIENT_SECRET"),
		GoogleRedirectURL:     os.Getenv("GOOGLE_OAUTH_REDIRECT_URL"),
	}

	if v, ok := os.LookupEnv("CALENDAR_PREFETCH_CRON"); ok {
		cfg.CalendarPrefetchCron = strings.TrimSpace(v)
	} else {
		cfg.CalendarPrefetchCron = "*/15 * * * *"
	}

	var err error
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.CalendarCacheTTL, err = getDuration("CALENDAR_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.CalendarFetchTimeout, err = getDuration("CALENDAR_FETCH_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.MigrationsEnabled, err = getBool("MIGRATIONS_ENABLED", true); err != nil {
		return nil, err
	}

	days, err := getInt("BOOKING_HORIZON_DAYS", 14)
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		return nil, fmt.Errorf("BOOKING_HORIZON_DAYS must be positive, got %d", days)
	}
	cfg.BookingHorizon = time.Duration(days) * 24 * time.Hour

	if cfg.CalendarFailurePolicy != "open" && cfg.CalendarFailurePolicy != "closed" {
		return nil, fmt.Errorf("CALENDAR_FAILURE_POLICY must be open or closed, got %q", cfg.CalendarFailurePolicy)
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	return cfg, nil
}

// IsProduction reports ENV=production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func getBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return b, nil
}
