// Package config loads server configuration from config/server.yaml with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the server configuration.
type Config struct {
	// Addr is the listen address, host:port.
	Addr string `yaml:"addr"`
	// Env selects deployment behavior; "production" enables secure
	// cookies.
	Env string `yaml:"env"`
	// DatabaseURL is the Postgres DSN. Empty falls back to the
	// in-memory stores.
	DatabaseURL string `yaml:"database_url"`
	// JWTSecret signs session tokens.
	JWTSecret string `yaml:"jwt_secret"`
	// SessionTTL bounds token and session lifetime.
	SessionTTL time.Duration `yaml:"session_ttl"`
	// CORSOrigins lists origins allowed to make credentialed requests.
	CORSOrigins []string `yaml:"cors_origins"`
	// AuthRateLimit throttles login and signup per client IP, requests
	// per second. Zero disables throttling.
	AuthRateLimit int `yaml:"auth_rate_limit"`
	// AuthRateBurst is the burst allowance for AuthRateLimit.
	AuthRateBurst int `yaml:"auth_rate_burst"`
	// LogLevel sets the logrus level for all components.
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Addr:          ":8080",
		Env:           "development",
		SessionTTL:    24 * time.Hour,
		AuthRateLimit: 5,
		AuthRateBurst: 10,
		LogLevel:      "info",
	}
}

// Load reads config/server.yaml relative to the working directory, applies
// environment overrides and validates the result.
func Load() (Config, error) {
	return LoadFromPath(filepath.Join("config", "server.yaml"))
}

// LoadFromPath loads the configuration from a specific path. A missing file
// is not an error; defaults plus environment overrides apply.
func LoadFromPath(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(&cfg)

	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return Config{}, fmt.Errorf("jwt secret is required (JWT_SECRET)")
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	return cfg, nil
}

// Production reports whether the config targets a production deployment.
func (c Config) Production() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "production")
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		if ttl, err := time.ParseDuration(v); err == nil {
			cfg.SessionTTL = ttl
		}
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				origins = append(origins, p)
			}
		}
		cfg.CORSOrigins = origins
	}
	if v := os.Getenv("AUTH_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.AuthRateLimit = n
		}
	}
	if v := os.Getenv("AUTH_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.AuthRateBurst = n
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
