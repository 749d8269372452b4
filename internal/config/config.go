// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/robfig/cron/v3"

	"github.com/dmitrymomot/filevault/internal/worker"
	"github.com/dmitrymomot/filevault/pkg/db"
	"github.com/dmitrymomot/filevault/pkg/logger"
	"github.com/dmitrymomot/filevault/pkg/redis"
	"github.com/dmitrymomot/filevault/pkg/storage"
)

// Session store backends.
const (
	SessionStoreRedis  = "redis"
	SessionStoreMemory = "memory"
)

// Config is the full process configuration.
type Config struct {
	HTTP    HTTPConfig
	Log     logger.Config
	DB      db.Config
	Redis   redis.Config
	Session SessionConfig
	Storage storage.Config
	Worker  worker.Config
}

// HTTPConfig holds the API server settings.
type HTTPConfig struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":5000" validate:"required"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s" validate:"gt=0"`
	MetricsPath     string        `env:"HTTP_METRICS_PATH" envDefault:"/metrics" validate:"startswith=/"`
}

// SessionConfig selects where session tokens live.
type SessionConfig struct {
	Store  string        `env:"SESSION_STORE" envDefault:"redis" validate:"oneof=redis memory"`
	TTL    time.Duration `env:"SESSION_TTL" envDefault:"24h" validate:"gt=0"`
	Header string        `env:"SESSION_HEADER" envDefault:"X-Token" validate:"required"`

	// MaxEntries bounds the memory store.
	MaxEntries int `env:"SESSION_MAX_ENTRIES" envDefault:"10000" validate:"gte=1"`
}

// Load reads the process environment and validates the result.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, errors.Join(ErrParse, err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFrom reads vars instead of the process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return nil, errors.Join(ErrParse, err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validateCustomRules(cfg *Config) error {
	if cfg.Storage.Backend == storage.BackendS3 && cfg.Storage.S3.Bucket == "" {
		return fmt.Errorf("storage: S3_BUCKET is required for the s3 backend")
	}
	if cfg.Worker.SweepSchedule != "" {
		if _, err := cron.ParseStandard(cfg.Worker.SweepSchedule); err != nil {
			return fmt.Errorf("worker: invalid SWEEP_SCHEDULE %q: %w", cfg.Worker.SweepSchedule, err)
		}
	}
	return nil
}
