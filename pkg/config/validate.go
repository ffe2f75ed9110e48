package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate analyze config values and returns an error if some problem found
func (cfg *Config) Validate() error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	interval, err := time.ParseDuration(cfg.Feed.CheckInterval)
	if err != nil {
		return fmt.Errorf("invalid --check-interval flag value: %w", err)
	}
	if interval < time.Second {
		return fmt.Errorf("invalid --check-interval flag value (min=1s)")
	}

	if cfg.Feed.Enabled && cfg.Settings.API.Token == "" {
		return fmt.Errorf("api token is required. Use --api-token flag or API_TOKEN env var")
	}

	return nil
}
