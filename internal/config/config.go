package config

import "time"

// Config is the root configuration for the analyzer.
type Config struct {
	API       APIConfig       `yaml:"api"`
	Fetch     FetchConfig     `yaml:"fetch"`
	Estimator EstimatorConfig `yaml:"estimator"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// APIConfig holds exchange API settings. Exactly one of PrivateKeyPath or
// PrivateKeyB64 supplies the signing key.
type APIConfig struct {
	BaseURL        string        `yaml:"base_url"`
	WSURL          string        `yaml:"ws_url"`
	KeyID          string        `yaml:"key_id"`           // API key ID (KALSHI-ACCESS-KEY header)
	PrivateKeyPath string        `yaml:"private_key_path"` // Path to RSA private key PEM file
	PrivateKeyB64  string        `yaml:"private_key_b64"`  // Base64-encoded PEM, typically via ${VAR}
	Timeout        time.Duration `yaml:"timeout"`
}

// FetchConfig holds retry and batch settings.
type FetchConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay"`
	Concurrency int           `yaml:"concurrency"`
}

// EstimatorConfig holds the probability-estimation service settings.
// An empty URL disables the estimator.
type EstimatorConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// TelemetryConfig holds Prometheus metrics settings. Port 0 disables the
// endpoint.
type TelemetryConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}
