package config

import (
	"os"
	"strconv"
)

// Config hospverse-api (HTTP API) configuration
type Config struct {
	HTTP struct {
		Addr string
	}
	// Env toggles local-development behavior: when not "production" the
	// tenant resolver accepts a ?tenant= query override instead of
	// parsing the Host header.
	Env        string
	BaseDomain string
	// DBEnabled falls back to memory repositories when false, keeping
	// local development usable without Postgres.
	DBEnabled bool
	Database  DatabaseConfig
	Redis     struct {
		Addr     string
		Password string
		DB       int
	}
	Auth AuthConfig
	Log  struct {
		Level  string
		Format string
	}
}

// DatabaseConfig Postgres connection settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// AuthConfig external auth provider (token issuance/verification is not ours)
type AuthConfig struct {
	URL        string // provider base address
	ServiceKey string // service access key sent on every call
	// CacheTTL (seconds) for verified token -> identity lookups
	CacheTTL int
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.BaseDomain = getEnv("BASE_DOMAIN", "hospverse.com")

	cfg.DBEnabled = getEnv("DB_ENABLED", "true") == "true"
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "hospverse")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "20"), 20)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "5"), 5)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = 0

	// The external store/auth service is selected by these two.
	cfg.Auth.URL = getEnv("AUTH_URL", "http://localhost:9999")
	cfg.Auth.ServiceKey = getEnv("AUTH_SERVICE_KEY", "")
	cfg.Auth.CacheTTL = parseInt(getEnv("AUTH_CACHE_TTL", "60"), 60)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
