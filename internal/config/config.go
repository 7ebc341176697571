package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds server configuration, loaded from the environment.
type Config struct {
	Host string `env:"DUBAI_HOST" envDefault:""`
	Port int    `env:"DUBAI_PORT" envDefault:"8080"`

	// StorageType selects the storage backend ("memory" or "redis")
	StorageType string `env:"DUBAI_STORAGE" envDefault:"memory"`
	RedisURL    string `env:"DUBAI_REDIS_URL" envDefault:"redis://localhost:6379"`

	// SnapshotDir is where cached player snapshots are written for
	// offline session resume. Empty keeps snapshots in memory only.
	SnapshotDir string `env:"DUBAI_SNAPSHOT_DIR" envDefault:""`

	SessionDuration time.Duration `env:"DUBAI_SESSION_DURATION" envDefault:"24h"`

	LogLevel string `env:"DUBAI_LOG_LEVEL" envDefault:"info"`

	// SeedRoster controls whether the initial player roster is written
	// to storage at startup.
	SeedRoster bool `env:"DUBAI_SEED_ROSTER" envDefault:"true"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config from environment: %w", err)
	}

	if cfg.StorageType != "memory" && cfg.StorageType != "redis" {
		return nil, fmt.Errorf("invalid DUBAI_STORAGE %q: must be 'memory' or 'redis'", cfg.StorageType)
	}

	return cfg, nil
}
