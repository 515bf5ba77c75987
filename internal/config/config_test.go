package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig(t *testing.T) {
	t.Run("uses defaults when environment is empty", func(t *testing.T) {
		t.Setenv("DB_URL", "")
		t.Setenv("DATABASE_PATH", "")

		cfg := NewConfig()

		assert.Equal(t, int32(8000), cfg.HTTP.Port)
		assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
		assert.Equal(t, "release", cfg.HTTP.GinMode)
		assert.Empty(t, cfg.HTTP.BaseURL)
		assert.Empty(t, cfg.HTTP.TrustedProxies)
		assert.Equal(t, 5, cfg.Global.ShutdownTimeoutInSeconds)
		assert.Equal(t, DefaultDatabaseURL, cfg.Database.URL)
		assert.Equal(t, 10, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
		assert.Equal(t, "warn", cfg.Database.LogLevel)
		assert.False(t, cfg.RateLimit.Enabled)
		assert.Equal(t, float64(10), cfg.RateLimit.RPS)
		assert.Equal(t, 20, cfg.RateLimit.Burst)
	})

	t.Run("reads overrides from environment", func(t *testing.T) {
		t.Setenv("DB_URL", "postgres://books:books@db:5432/books?sslmode=disable")
		t.Setenv("PORT", "9090")
		t.Setenv("BASE_URL", "https://books.example.com")
		t.Setenv("DB_CONN_MAX_LIFETIME", "30m")
		t.Setenv("RATE_LIMIT_ENABLED", "true")
		t.Setenv("RATE_LIMIT_RPS", "2.5")

		cfg := NewConfig()

		assert.Equal(t, "postgres://books:books@db:5432/books?sslmode=disable", cfg.Database.URL)
		assert.Equal(t, int32(9090), cfg.HTTP.Port)
		assert.Equal(t, "https://books.example.com", cfg.HTTP.BaseURL)
		assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
		assert.True(t, cfg.RateLimit.Enabled)
		assert.Equal(t, 2.5, cfg.RateLimit.RPS)
	})

	t.Run("splits trusted proxies", func(t *testing.T) {
		t.Setenv("TRUSTED_PROXIES", " 10.0.0.0/8, 192.168.1.10 ,,")

		cfg := NewConfig()

		assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.10"}, cfg.HTTP.TrustedProxies)
	})

	t.Run("falls back to DATABASE_PATH", func(t *testing.T) {
		t.Setenv("DB_URL", "")
		t.Setenv("DATABASE_PATH", "/var/lib/books/books.db")

		cfg := NewConfig()

		assert.Equal(t, "sqlite:///var/lib/books/books.db", cfg.Database.URL)
	})
}
