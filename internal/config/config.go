// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable.
type Config struct {
	Env             string        // application environment (e.g. "dev", "prod")
	Port            string        // HTTP port to listen on
	DBDriver        string        // "mysql" or "sqlite3"
	DBUser          string        // database username (mysql)
	DBPass          string        // database password (optional)
	DBHost          string        // database host address (mysql)
	DBPort          string        // database port number (mysql)
	DBName          string        // database name (mysql)
	DBPath          string        // database file (sqlite3)
	LogLevel        string        // logrus level name
	LogFile         string        // optional file receiving a copy of the log
	AMQPURL         string        // broker for domain events; empty disables publishing
	ShutdownTimeout time.Duration // grace period for in-flight requests
	RateLimit       RateLimitConfig
}

// Production reports whether the app runs with APP_ENV=prod.
func (c Config) Production() bool {
	return strings.EqualFold(c.Env, "prod") || strings.EqualFold(c.Env, "production")
}

// Load reads an optional .env file and then the environment. Required
// variables are enforced by must(); every missing one is reported in the
// returned error.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read .env: %w", err)
	}

	var missing []string
	must := func(key string) string {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg := Config{
		Env:             envStr("APP_ENV", "dev"),
		Port:            envStr("APP_PORT", "5000"),
		DBDriver:        envStr("DB_DRIVER", "mysql"),
		DBPass:          os.Getenv("DB_PASS"),
		LogLevel:        envStr("LOG_LEVEL", "info"),
		LogFile:         os.Getenv("LOG_FILE"),
		AMQPURL:         envStr("RABBITMQ_URL", os.Getenv("AMQP_URL")),
		ShutdownTimeout: envDur("SHUTDOWN_TIMEOUT", 10*time.Second),
		RateLimit:       LoadRateLimitConfig(),
	}

	switch cfg.DBDriver {
	case "mysql":
		cfg.DBUser = must("DB_USER")
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = envStr("DB_PORT", "3306")
		cfg.DBName = must("DB_NAME")
	case "sqlite3", "sqlite":
		cfg.DBPath = envStr("DB_PATH", "venues.db")
	default:
		return Config{}, fmt.Errorf("invalid DB_DRIVER %q", cfg.DBDriver)
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
