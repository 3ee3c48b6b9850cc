package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	neturl "net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config centralises runtime configuration.
type Config struct {
	DatabaseURL     string        `envconfig:"DATABASE_URL"`
	MaxConnLifetime time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `envconfig:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
	ContentRoot     string        `envconfig:"CONTENT_ROOT" default:"wwwroot"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LogMode         string        `envconfig:"LOG_MODE" default:"development"`
	LogFile         string        `envconfig:"LOG_FILE"`
	MetricsFile     string        `envconfig:"METRICS_FILE"`
}

// Load reads configuration from .env and environment variables.
func Load() (Config, error) {
	return LoadFrom(".env")
}

// LoadFrom is Load with an explicit dotenv path. A missing file is ignored;
// variables already set in the environment win over the file.
func LoadFrom(dotenv string) (Config, error) {
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading %s: %w", dotenv, err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("processing environment: %w", err)
	}

	cfg.DatabaseURL = databaseURL(cfg.DatabaseURL)
	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("database configuration missing: provide DATABASE_URL or PG* env vars")
	}
	if strings.TrimSpace(cfg.ContentRoot) == "" {
		return Config{}, fmt.Errorf("CONTENT_ROOT must not be empty")
	}
	return cfg, nil
}

// databaseURL accepts a postgres:// or postgresql:// URL as pgx expects it,
// and otherwise builds one from the libpq PG* variables.
func databaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if rest, ok := strings.CutPrefix(raw, "postgresql://"); ok {
		return "postgres://" + rest
	}
	if strings.HasPrefix(raw, "postgres://") {
		return raw
	}
	return urlFromPGEnv()
}

func urlFromPGEnv() string {
	host := env("", "PGHOST", "POSTGRES_HOST")
	user := env("", "PGUSER", "POSTGRES_USER")
	if host == "" || user == "" {
		return ""
	}

	u := &neturl.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(host, env("5432", "PGPORT", "POSTGRES_PORT")),
		Path:   "/" + env(user, "PGDATABASE", "POSTGRES_DB"),
		User:   neturl.User(user),
	}
	if password := env("", "PGPASSWORD", "POSTGRES_PASSWORD"); password != "" {
		u.User = neturl.UserPassword(user, password)
	}
	u.RawQuery = neturl.Values{"sslmode": {env("disable", "PGSSLMODE")}}.Encode()
	return u.String()
}

// env returns the first non-empty variable among keys, or fallback.
func env(fallback string, keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return fallback
}
