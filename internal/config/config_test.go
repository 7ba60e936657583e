package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"TELEGRAM_TOKEN", "DB_DSN", "ENV", "LOG_LEVEL", "HTTP_ADDR", "REDIS_ADDR", "REDIS_PASSWORD",
	"REDIS_DB", "CALENDAR_CACHE_TTL", "CALENDAR_FETCH_TIMEOUT", "CALENDAR_FAILURE_POLICY",
	"BOOKING_HORIZON_DAYS", "GOOGLE_OAUTH_CLIENT_ID", "GOOGLE_OAUTH_CLIENT_SECRET",
	"GOOGLE_OAUTH_REDIRECT_URL", "MIGRATIONS_ENABLED",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DSN", "postgres://localhost/availability")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 5*time.Minute, cfg.CalendarCacheTTL)
	assert.Equal(t, 10*time.Second, cfg.CalendarFetchTimeout)
	assert.Equal(t, "open", cfg.CalendarFailurePolicy)
	assert.Equal(t, 14*24*time.Hour, cfg.BookingHorizon)
	assert.True(t, cfg.MigrationsEnabled)
	assert.False(t, cfg.IsProduction())
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DSN", "postgres://db/x")
	t.Setenv("ENV", "production")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("CALENDAR_CACHE_TTL", "90s")
	t.Setenv("CALENDAR_FAILURE_POLICY", "CLOSED")
	t.Setenv("CALENDAR_PREFETCH_CRON", "")
	t.Setenv("BOOKING_HORIZON_DAYS", "30")
	t.Setenv("MIGRATIONS_ENABLED", "false")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 90*time.Second, cfg.CalendarCacheTTL)
	assert.Equal(t, "closed", cfg.CalendarFailurePolicy)
	assert.Empty(t, cfg.CalendarPrefetchCron)
	assert.Equal(t, 30*24*time.Hour, cfg.BookingHorizon)
	assert.False(t, cfg.MigrationsEnabled)
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing dsn", map[string]string{}},
		{"bad ttl", map[string]string{"DB_DSN": "x", "CALENDAR_CACHE_TTL": "soon"}},
		{"bad redis db", map[string]string{"DB_DSN": "x", "REDIS_DB": "one"}},
		{"bad policy", map[string]string{"DB_DSN": "x", "CALENDAR_FAILURE_POLICY": "maybe"}},
		{"zero horizon", map[string]string{"DB_DSN": "x", "BOOKING_HORIZON_DAYS": "0"}},
		{"bad bool", map[string]string{"DB_DSN": "x", "MIGRATIONS_ENABLED": "sometimes"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
