package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		RateLimit
	}

	HTTP struct {
		Port    int32
		Host    string
		BaseURL string // Prefix for the "url" field; derived from the request when empty
		GinMode string
		// Proxies whose X-Forwarded-For is believed when resolving the client IP.
		// Empty means the TCP peer is always the client.
		TrustedProxies []string
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}

	Database struct {
		URL             string
		MaxOpenConns    int
		MaxIdleConns    int
		ConnMaxLifetime time.Duration
		LogLevel        string // silent, error, warn, info
	}

	RateLimit struct {
		Enabled bool
		RPS     float64
		Burst   int
	}
)

// getDatabaseURL prefers DB_URL and falls back to the older DATABASE_PATH.
func getDatabaseURL(v *viper.Viper) string {
	if url := v.GetString("DB_URL"); url != "" {
		return url
	}
	if path := v.GetString("DATABASE_PATH"); path != "" {
		return "sqlite://" + path
	}
	return DefaultDatabaseURL
}

// getTrustedProxies splits the comma separated TRUSTED_PROXIES value.
func getTrustedProxies(v *viper.Viper) []string {
	var proxies []string
	for _, proxy := range strings.Split(v.GetString("TRUSTED_PROXIES"), ",") {
		if proxy = strings.TrimSpace(proxy); proxy != "" {
			proxies = append(proxies, proxy)
		}
	}
	return proxies
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("base_url", "")
	v.SetDefault("gin_mode", "release")
	v.SetDefault("trusted_proxies", "")
	v.SetDefault("shutdown_timeout_in_seconds", 5)

	// Database defaults
	v.SetDefault("db_url", "")
	v.SetDefault("database_path", "")
	v.SetDefault("db_max_open_conns", 10)
	v.SetDefault("db_max_idle_conns", 5)
	v.SetDefault("db_conn_max_lifetime", "1h")
	v.SetDefault("db_log_level", "warn")

	// Rate limiting is off unless asked for
	v.SetDefault("rate_limit_enabled", false)
	v.SetDefault("rate_limit_rps", 10)
	v.SetDefault("rate_limit_burst", 20)

	return &Config{
		HTTP: HTTP{
			Port:    v.GetInt32("PORT"),
			Host:    v.GetString("HOST"),
			BaseURL: v.GetString("BASE_URL"),
			GinMode: v.GetString("GIN_MODE"),

			TrustedProxies: getTrustedProxies(v),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			URL:             getDatabaseURL(v),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
			LogLevel:        v.GetString("DB_LOG_LEVEL"),
		},
		RateLimit: RateLimit{
			Enabled: v.GetBool("RATE_LIMIT_ENABLED"),
			RPS:     v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:   v.GetInt("RATE_LIMIT_BURST"),
		},
	}
}
