package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port     string `envconfig:"PORT" default:"8081"`
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Backend (system of record for catalog, inventory, tables and orders)
	BackendURL     string        `envconfig:"BACKEND_URL" default:"http://localhost:5000"`
	BackendTimeout time.Duration `envconfig:"BACKEND_TIMEOUT" default:"15s"`

	JWTSecret string `envconfig:"JWT_SECRET" default:"dev-secret-change-in-production"`

	// Redis catalog cache; disabled when empty
	RedisURL        string        `envconfig:"REDIS_URL"`
	CatalogCacheTTL time.Duration `envconfig:"CATALOG_CACHE_TTL" default:"5m"`

	Timezone string `envconfig:"TIMEZONE" default:"Asia/Kolkata"`

	RevalidateOnIncrement bool          `envconfig:"REVALIDATE_ON_INCREMENT" default:"false"`
	SessionIdleTTL        time.Duration `envconfig:"SESSION_IDLE_TTL" default:"12h"`

	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Development() bool {
	return c.AppEnv == "development"
}

// Location resolves Timezone; receipts and delivery defaults use it.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
