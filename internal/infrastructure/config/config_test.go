package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}

	if cfg.Broker.Host != "test.mosquitto.org" {
		t.Errorf("Broker.Host = %q, want test.mosquitto.org", cfg.Broker.Host)
	}
	if cfg.Broker.Port != 1883 {
		t.Errorf("Broker.Port = %d, want 1883", cfg.Broker.Port)
	}
	if cfg.Feed.DrainIntervalMS != 150 {
		t.Errorf("Feed.DrainIntervalMS = %d, want 150", cfg.Feed.DrainIntervalMS)
	}
	if cfg.Telemetry.Enabled {
		t.Error("Telemetry.Enabled = true, want false by default")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v, want defaults for missing file", err)
	}

	if cfg.Broker.Host != "test.mosquitto.org" {
		t.Errorf("Broker.Host = %q, want default", cfg.Broker.Host)
	}
}

func TestLoad_FromFile(t *testing.T) {
	content := `
broker:
  host: broker.local
  port: 8883
  tls: true
  client_id: tagcast-test
feed:
  drain_interval_ms: 100
  username: alice
logging:
  level: debug
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing test config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Broker.Host != "broker.local" {
		t.Errorf("Broker.Host = %q, want broker.local", cfg.Broker.Host)
	}
	if cfg.Broker.Port != 8883 {
		t.Errorf("Broker.Port = %d, want 8883", cfg.Broker.Port)
	}
	if !cfg.Broker.TLS {
		t.Error("Broker.TLS = false, want true")
	}
	if cfg.Feed.Username != "alice" {
		t.Errorf("Feed.Username = %q, want alice", cfg.Feed.Username)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	// Unset sections keep defaults
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format = %q, want default text", cfg.Logging.Format)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("broker: [not a map"), 0o600); err != nil {
		t.Fatalf("writing test config: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() expected error for invalid YAML")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TAGCAST_BROKER_HOST", "env.broker")
	t.Setenv("TAGCAST_FEED_USERNAME", "bob")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Broker.Host != "env.broker" {
		t.Errorf("Broker.Host = %q, want env.broker", cfg.Broker.Host)
	}
	if cfg.Feed.Username != "bob" {
		t.Errorf("Feed.Username = %q, want bob", cfg.Feed.Username)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "empty host",
			mutate:  func(c *Config) { c.Broker.Host = "" },
			wantErr: "broker.host",
		},
		{
			name:    "port too low",
			mutate:  func(c *Config) { c.Broker.Port = 0 },
			wantErr: "broker.port",
		},
		{
			name:    "port too high",
			mutate:  func(c *Config) { c.Broker.Port = 70000 },
			wantErr: "broker.port",
		},
		{
			name:    "empty client id",
			mutate:  func(c *Config) { c.Broker.ClientID = "" },
			wantErr: "broker.client_id",
		},
		{
			name:    "zero drain interval",
			mutate:  func(c *Config) { c.Feed.DrainIntervalMS = 0 },
			wantErr: "feed.drain_interval_ms",
		},
		{
			name:    "telemetry enabled without url",
			mutate:  func(c *Config) { c.Telemetry.Enabled = true },
			wantErr: "telemetry.url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestDrainInterval(t *testing.T) {
	cfg := defaultConfig()
	cfg.Feed.DrainIntervalMS = 120

	if got := cfg.DrainInterval(); got != 120*time.Millisecond {
		t.Errorf("DrainInterval() = %v, want 120ms", got)
	}
}
