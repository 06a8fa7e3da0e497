// Package config provides application configuration management.
// Configuration is read from the environment, optionally seeded from a .env file,
// once at startup; the resulting Config is treated as immutable.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all server configuration.
type Config struct {
	// HTTP server
	AppPort         int           `env:"APP_PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	// Storage (SQLite)
	DatabasePath string `env:"DATABASE_PATH" envDefault:"gophnotes.db"`

	// Session token
	JWTAccessKey string        `env:"JWT_ACCESS_KEY,notEmpty"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"false"`

	// Note access control
	StrictNoteAccess bool          `env:"STRICT_NOTE_ACCESS" envDefault:"true"`
	RedisURL         string        `env:"REDIS_URL"`
	ACLCacheTTL      time.Duration `env:"ACL_CACHE_TTL" envDefault:"5m"`

	// Login/signup rate limiting per client IP
	LoginRateLimit  int           `env:"LOGIN_RATE_LIMIT" envDefault:"20"`
	LoginRateWindow time.Duration `env:"LOGIN_RATE_WINDOW" envDefault:"1m"`
	// TrustedProxy takes the client IP from X-Forwarded-For/X-Real-IP.
	// Enable only behind a reverse proxy that overwrites these headers.
	TrustedProxy bool `env:"TRUSTED_PROXY" envDefault:"false"`

	// Observability
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string `env:"LOG_FORMAT" envDefault:"json"`
	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
}

// Load reads the optional dotenv file and parses the environment.
// Variables already set in the environment win over the file.
func Load(dotenvPath string) (*Config, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to load %s: %w", dotenvPath, err)
			}
			slog.Debug("dotenv file not found, using environment variables", "path", dotenvPath)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that env tags cannot express
func (c *Config) Validate() error {
	if c.JWTAccessKey == "" {
		return fmt.Errorf("JWT_ACCESS_KEY is required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.AppPort <= 0 || c.AppPort > 65535 {
		return fmt.Errorf("APP_PORT out of range: %d", c.AppPort)
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	if c.LoginRateLimit <= 0 || c.LoginRateWindow <= 0 {
		return fmt.Errorf("LOGIN_RATE_LIMIT and LOGIN_RATE_WINDOW must be positive")
	}
	return nil
}

// ACLCacheEnabled reports whether a Redis URL was configured
func (c *Config) ACLCacheEnabled() bool {
	return c.RedisURL != ""
}

// SlogLevel maps LOG_LEVEL to a slog level; unknown values fall back to info
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
