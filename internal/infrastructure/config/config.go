package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure shared by tagpub and tagsub.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Broker    BrokerConfig    `yaml:"broker"`
	Auth      AuthConfig      `yaml:"auth"`
	Feed      FeedConfig      `yaml:"feed"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// BrokerConfig contains MQTT broker connection settings.
// Host and Port are only defaults; both apps accept a different address
// at the connect prompt.
type BrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// AuthConfig contains MQTT authentication credentials.
// Both fields are empty for anonymous access (the public test broker).
type AuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// FeedConfig contains settings for the interactive feed loop.
type FeedConfig struct {
	// DrainIntervalMS is the cadence, in milliseconds, at which the feed
	// loop drains pending events from the bridge.
	DrainIntervalMS int `yaml:"drain_interval_ms"`

	// Username is the default author name attached to published posts.
	// Empty means posts go out as "anonymous".
	Username string `yaml:"username"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// TelemetryConfig contains optional InfluxDB counter settings.
type TelemetryConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded, point at the public test broker)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// A missing config file is not an error: both apps are expected to run with
// no file at all, falling back to defaults. An empty path skips the file
// step entirely.
//
// Environment variables follow the pattern: TAGCAST_SECTION_KEY
// For example: TAGCAST_BROKER_HOST, TAGCAST_FEED_USERNAME
//
// Parameters:
//   - path: Path to the YAML configuration file (may be empty)
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If the file exists but cannot be parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// No file: defaults plus env overrides
		case err != nil:
			return nil, fmt.Errorf("reading config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
// The broker defaults target test.mosquitto.org, the well-known public
// test broker, so both apps work out of the box.
func defaultConfig() *Config {
	return &Config{
		Broker: BrokerConfig{
			Host:     "test.mosquitto.org",
			Port:     1883,
			ClientID: "tagcast",
		},
		Feed: FeedConfig{
			DrainIntervalMS: 150,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Telemetry: TelemetryConfig{
			Enabled:       false,
			BatchSize:     100,
			FlushInterval: 10,
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: TAGCAST_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Broker
	if v := os.Getenv("TAGCAST_BROKER_HOST"); v != "" {
		cfg.Broker.Host = v
	}
	if v := os.Getenv("TAGCAST_BROKER_CLIENT_ID"); v != "" {
		cfg.Broker.ClientID = v
	}

	// Auth
	if v := os.Getenv("TAGCAST_AUTH_USERNAME"); v != "" {
		cfg.Auth.Username = v
	}
	if v := os.Getenv("TAGCAST_AUTH_PASSWORD"); v != "" {
		cfg.Auth.Password = v
	}

	// Feed
	if v := os.Getenv("TAGCAST_FEED_USERNAME"); v != "" {
		cfg.Feed.Username = v
	}

	// Telemetry
	if v := os.Getenv("TAGCAST_TELEMETRY_TOKEN"); v != "" {
		cfg.Telemetry.Token = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Broker.Host == "" {
		errs = append(errs, "broker.host is required")
	}
	if c.Broker.Port < 1 || c.Broker.Port > 65535 {
		errs = append(errs, "broker.port must be between 1 and 65535")
	}
	if c.Broker.ClientID == "" {
		errs = append(errs, "broker.client_id is required")
	}

	if c.Feed.DrainIntervalMS < 1 {
		errs = append(errs, "feed.drain_interval_ms must be positive")
	}

	if c.Telemetry.Enabled && c.Telemetry.URL == "" {
		errs = append(errs, "telemetry.url is required when telemetry is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// DrainInterval returns the feed drain cadence as a Duration.
func (c *Config) DrainInterval() time.Duration {
	return time.Duration(c.Feed.DrainIntervalMS) * time.Millisecond
}
