package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/MrJamesThe3rd/mechanico/internal/collection"
)

type Backend string

const (
	BackendFile   Backend = "file"
	BackendMemory Backend = "memory"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Mechanico"`
	}

	Storage struct {
		Backend    Backend `envconfig:"STORAGE_BACKEND" default:"file"`
		Dir        string  `envconfig:"STORAGE_DIR" default:".mechanico"`
		KeyPrefix  string  `envconfig:"STORAGE_KEY_PREFIX" default:"mechanico_"`
		QuotaBytes int64   `envconfig:"STORAGE_QUOTA_BYTES" default:"5242880"`
	}

	Booking struct {
		StrictTransitions bool `envconfig:"BOOKING_STRICT_TRANSITIONS" default:"true"`
	}

	Sync struct {
		MinInterval time.Duration `envconfig:"SYNC_MIN_INTERVAL" default:"250ms"`
	}

	Invoice struct {
		// Empty leaves overdue marking to the invoices screen.
		OverdueSchedule string `envconfig:"INVOICE_OVERDUE_SCHEDULE"`
	}

	Log struct {
		Env   string `envconfig:"LOG_ENV" default:"development"`
		Level string `envconfig:"LOG_LEVEL" default:"info"`
		File  string `envconfig:"LOG_FILE" default:"mechanico.log"`
	}
}

// StorageKeys derives the persisted key layout from the configured prefix.
func (c *Config) StorageKeys() collection.Keys {
	return collection.PrefixedKeys(c.Storage.KeyPrefix)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	switch cfg.Storage.Backend {
	case BackendFile, BackendMemory:
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	if cfg.Storage.QuotaBytes < 0 {
		return nil, fmt.Errorf("storage quota must not be negative, got %d", cfg.Storage.QuotaBytes)
	}

	if cfg.Sync.MinInterval < 0 {
		return nil, fmt.Errorf("sync interval must not be negative, got %s", cfg.Sync.MinInterval)
	}

	return &cfg, nil
}
