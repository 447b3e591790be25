package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken     string        `envconfig:"BOT_TOKEN" required:"true"`
	DBPath       string        `envconfig:"DB_PATH" default:"./data/tasks.db"`
	Timezone     string        `envconfig:"TIMEZONE" default:"Europe/Moscow"` // fixed TZ for all users
	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"1m"`       // scheduler scan cadence
	SweepPeriod  time.Duration `envconfig:"SWEEP_PERIOD" default:"1m"`        // retention sweeper cadence
	SecretKey    string        `envconfig:"SECRET_KEY"`                       // hex, 32 bytes; empty disables field encryption
	LogLevel     string        `envconfig:"LOG_LEVEL" default:"info"`         // debug|info|warn|error
	HTTPAddr     string        `envconfig:"HTTP_ADDR" default:":8080"`        // healthz
}

// Load reads environment variables into Config and validates them.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	if cfg.PollInterval <= 0 {
		return cfg, fmt.Errorf("POLL_INTERVAL must be positive, got %s", cfg.PollInterval)
	}
	if cfg.SweepPeriod <= 0 {
		return cfg, fmt.Errorf("SWEEP_PERIOD must be positive, got %s", cfg.SweepPeriod)
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return cfg, fmt.Errorf("TIMEZONE: %w", err)
	}
	return cfg, nil
}

// Location resolves the configured timezone. Load has already validated it.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
