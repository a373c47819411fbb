// Tagcast Publisher
//
// tagpub is the posting side of tagcast: an interactive terminal loop for
// publishing short hashtag-addressed messages to an MQTT broker.
//
// Usage:
//
//	tagpub                  # uses configs/config.yaml (or TAGCAST_CONFIG)
//
// Then at the prompt: connect, user alice, post #iot hello world, quit.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nwillis/tagcast/internal/bridge"
	"github.com/nwillis/tagcast/internal/broker"
	"github.com/nwillis/tagcast/internal/feed"
	"github.com/nwillis/tagcast/internal/infrastructure/config"
	"github.com/nwillis/tagcast/internal/infrastructure/logging"
	"github.com/nwillis/tagcast/internal/infrastructure/telemetry"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Cancel on interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting tagpub",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("configuration loaded",
		"path", configPath,
		"broker", fmt.Sprintf("%s:%d", cfg.Broker.Host, cfg.Broker.Port),
	)

	// Connect telemetry (optional)
	var tel *telemetry.Client
	if cfg.Telemetry.Enabled {
		tel, err = telemetry.Connect(cfg.Telemetry)
		if err != nil {
			return fmt.Errorf("connecting telemetry: %w", err)
		}
		defer func() {
			log.Info("closing telemetry connection")
			if closeErr := tel.Close(); closeErr != nil {
				log.Error("error closing telemetry", "error", closeErr)
			}
		}()
		tel.SetOnError(func(err error) {
			log.Error("telemetry write error", "error", err)
		})
		log.Info("telemetry connected", "url", cfg.Telemetry.URL, "bucket", cfg.Telemetry.Bucket)
	} else {
		log.Info("telemetry disabled")
	}

	// Wire the event bridge and broker session. The session pushes connection
	// and message events onto the bridge; the feed loop drains them.
	events := bridge.New()
	session := broker.NewSession(cfg.Broker, cfg.Auth, events)
	session.SetLogger(log.With("component", "broker"))

	app := feed.NewPublisher(feed.Options{
		Session:       session,
		Events:        events,
		Logger:        log,
		Telemetry:     tel,
		DrainInterval: cfg.DrainInterval(),
		DefaultHost:   cfg.Broker.Host,
		DefaultPort:   cfg.Broker.Port,
		Username:      cfg.Feed.Username,
	})

	err = app.Run(ctx, os.Stdin)
	log.Info("tagpub stopped")
	return err
}

// getConfigPath returns the configuration file path.
// Uses TAGCAST_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("TAGCAST_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
