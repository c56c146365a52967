package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dynamic-shelf-pricer/console/internal/core"
	"github.com/dynamic-shelf-pricer/console/internal/shelfapi"
	pkgredis "github.com/dynamic-shelf-pricer/console/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Session backends.
const (
	SessionMemory = "memory"
	SessionRedis  = "redis"
)

// AppConfig defines all configurable parameters of the console, sourced from
// environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment core.Environment `envconfig:"APP_ENV" default:"development"`
	LogLevel    string           `envconfig:"LOG_LEVEL"`

	// Pricing backend
	API shelfapi.Config

	// Web console
	HTTP    HTTPConfig
	Session SessionConfig

	// Infrastructure
	Redis pkgredis.Config
}

type HTTPConfig struct {
	Addr          string `envconfig:"HTTP_ADDR" default:":5173"`
	Title         string `envconfig:"PAGE_TITLE" default:"Dynamic Shelf Pricer"`
	CurrencyLabel string `envconfig:"CURRENCY_LABEL" default:"RM"`
}

type SessionConfig struct {
	Backend    string        `envconfig:"SESSION_BACKEND" default:"memory"`
	TTL        time.Duration `envconfig:"SESSION_TTL" default:"30m"`
	CookieName string        `envconfig:"SESSION_COOKIE" default:"dsp_session"`
}

// Load reads envFile when it exists, then processes the environment.
// Variables already set in the environment win over the file.
func Load(envFile string) (AppConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return AppConfig{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("process environment config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate checks combinations envconfig tags cannot express.
func (c *AppConfig) Validate() error {
	c.Session.Backend = strings.ToLower(strings.TrimSpace(c.Session.Backend))
	switch c.Session.Backend {
	case SessionMemory:
	case SessionRedis:
		if c.Redis.URL == "" {
			return errors.New("REDIS_URL is required when SESSION_BACKEND=redis")
		}
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q (want %q or %q)", c.Session.Backend, SessionMemory, SessionRedis)
	}
	if c.Session.CookieName == "" {
		return errors.New("SESSION_COOKIE must not be empty")
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("API_TIMEOUT must not be negative, got %s", c.API.Timeout)
	}
	return nil
}
