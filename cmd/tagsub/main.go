// Tagcast Subscriber
//
// tagsub is the reading side of tagcast: an interactive terminal loop that
// follows hashtags and renders arriving messages as a live feed.
//
// At the prompt: connect, sub #iot, tags, unsub #iot, quit.
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
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting tagsub",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log = logging.New(cfg.Logging, version)
	log.Info("configuration loaded",
		"path", configPath,
		"broker", fmt.Sprintf("%s:%d", cfg.Broker.Host, cfg.Broker.Port),
	)

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

	events := bridge.New()
	session := broker.NewSession(cfg.Broker, cfg.Auth, events)
	session.SetLogger(log.With("component", "broker"))

	app := feed.NewSubscriber(feed.Options{
		Session:       session,
		Events:        events,
		Logger:        log,
		Telemetry:     tel,
		DrainInterval: cfg.DrainInterval(),
		DefaultHost:   cfg.Broker.Host,
		DefaultPort:   cfg.Broker.Port,
	})

	err = app.Run(ctx, os.Stdin)
	log.Info("tagsub stopped")
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
