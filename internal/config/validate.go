package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.API.KeyID == "" {
		return errors.New("api.key_id is required")
	}
	if c.API.PrivateKeyPath == "" && c.API.PrivateKeyB64 == "" {
		return errors.New("one of api.private_key_path or api.private_key_b64 is required")
	}
	if c.API.PrivateKeyPath != "" && c.API.PrivateKeyB64 != "" {
		return errors.New("api.private_key_path and api.private_key_b64 are mutually exclusive")
	}

	if c.Fetch.MaxAttempts < 1 {
		return errors.New("fetch.max_attempts must be >= 1")
	}
	if c.Fetch.BaseDelay < 0 {
		return errors.New("fetch.base_delay must be >= 0")
	}
	if c.Fetch.Concurrency < 1 {
		return errors.New("fetch.concurrency must be >= 1")
	}

	if c.Telemetry.Port < 0 || c.Telemetry.Port > 65535 {
		return fmt.Errorf("telemetry.port must be between 0 and 65535, got %d", c.Telemetry.Port)
	}

	return nil
}
