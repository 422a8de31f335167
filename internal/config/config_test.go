package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
api:
  key_id: my-key
  private_key_path: /keys/kalshi.pem
  timeout: 10s
fetch:
  max_attempts: 5
  base_delay: 2s
  concurrency: 4
telemetry:
  port: 9090
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.API.KeyID != "my-key" {
		t.Errorf("KeyID = %q, want my-key", cfg.API.KeyID)
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.API.Timeout)
	}
	if cfg.Fetch.MaxAttempts != 5 || cfg.Fetch.BaseDelay != 2*time.Second || cfg.Fetch.Concurrency != 4 {
		t.Errorf("fetch config wrong: %+v", cfg.Fetch)
	}
	if cfg.Telemetry.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Telemetry.Port)
	}
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_KALSHI_KEY_ID", "env-key-id")
	t.Setenv("TEST_KALSHI_PK_B64", "ZmFrZQ==")

	path := writeConfig(t, `
api:
  key_id: ${TEST_KALSHI_KEY_ID}
  private_key_b64: ${TEST_KALSHI_PK_B64}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.API.KeyID != "env-key-id" {
		t.Errorf("KeyID = %q, want env-key-id", cfg.API.KeyID)
	}
	if cfg.API.PrivateKeyB64 != "ZmFrZQ==" {
		t.Errorf("PrivateKeyB64 = %q, want expanded value", cfg.API.PrivateKeyB64)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "api: [not: valid")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid yaml")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	path := writeConfig(t, `
api:
  key_id: my-key
  private_key_path: /keys/kalshi.pem
`)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want default", cfg.API.BaseURL)
	}
	if cfg.API.WSURL != DefaultWSURL {
		t.Errorf("WSURL = %q, want default", cfg.API.WSURL)
	}
	if cfg.API.Timeout != DefaultAPITimeout {
		t.Errorf("Timeout = %v, want default", cfg.API.Timeout)
	}
	if cfg.Fetch.MaxAttempts != DefaultMaxAttempts {
		t.Errorf("MaxAttempts = %d, want default", cfg.Fetch.MaxAttempts)
	}
	if cfg.Fetch.BaseDelay != DefaultBaseDelay {
		t.Errorf("BaseDelay = %v, want default", cfg.Fetch.BaseDelay)
	}
	if cfg.Fetch.Concurrency != DefaultConcurrency {
		t.Errorf("Concurrency = %d, want default", cfg.Fetch.Concurrency)
	}
	if cfg.Estimator.Timeout != DefaultEstimatorTimeout {
		t.Errorf("Estimator.Timeout = %v, want default", cfg.Estimator.Timeout)
	}
	if cfg.Telemetry.Path != DefaultTelemetryPath {
		t.Errorf("Telemetry.Path = %q, want default", cfg.Telemetry.Path)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := &Config{}
		c.API.KeyID = "k"
		c.API.PrivateKeyPath = "/keys/k.pem"
		c.applyDefaults()
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing key id", func(c *Config) { c.API.KeyID = "" }, "key_id"},
		{"missing key material", func(c *Config) { c.API.PrivateKeyPath = "" }, "private_key"},
		{"both key sources", func(c *Config) { c.API.PrivateKeyB64 = "abc" }, "mutually exclusive"},
		{"zero attempts", func(c *Config) { c.Fetch.MaxAttempts = 0 }, "max_attempts"},
		{"negative delay", func(c *Config) { c.Fetch.BaseDelay = -time.Second }, "base_delay"},
		{"zero concurrency", func(c *Config) { c.Fetch.Concurrency = 0 }, "concurrency"},
		{"port out of range", func(c *Config) { c.Telemetry.Port = 70000 }, "port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate failed: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadAndValidate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		path := writeConfig(t, `
api:
  key_id: my-key
  private_key_path: /keys/kalshi.pem
`)
		cfg, err := LoadAndValidate(path)
		if err != nil {
			t.Fatalf("LoadAndValidate failed: %v", err)
		}
		if cfg.API.BaseURL == "" {
			t.Error("defaults not applied")
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		path := writeConfig(t, `
api:
  base_url: https://example.com
`)
		if _, err := LoadAndValidate(path); err == nil {
			t.Fatal("expected validation error for missing credentials")
		}
	})
}
