package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL          = "https://api.elections.kalshi.com/trade-api/v2"
	DefaultWSURL            = "wss://api.elections.kalshi.com/trade-api/ws/v2"
	DefaultAPITimeout       = 30 * time.Second
	DefaultMaxAttempts      = 3
	DefaultBaseDelay        = 1 * time.Second
	DefaultConcurrency      = 10
	DefaultEstimatorTimeout = 120 * time.Second
	DefaultTelemetryPath    = "/metrics"
)

func (c *Config) applyDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.WSURL == "" {
		c.API.WSURL = DefaultWSURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}

	if c.Fetch.MaxAttempts == 0 {
		c.Fetch.MaxAttempts = DefaultMaxAttempts
	}
	if c.Fetch.BaseDelay == 0 {
		c.Fetch.BaseDelay = DefaultBaseDelay
	}
	if c.Fetch.Concurrency == 0 {
		c.Fetch.Concurrency = DefaultConcurrency
	}

	if c.Estimator.Timeout == 0 {
		c.Estimator.Timeout = DefaultEstimatorTimeout
	}

	if c.Telemetry.Path == "" {
		c.Telemetry.Path = DefaultTelemetryPath
	}
}
