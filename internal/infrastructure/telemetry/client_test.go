package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/nwillis/tagcast/internal/infrastructure/config"
)

func TestConnect_Disabled(t *testing.T) {
	cfg := config.TelemetryConfig{Enabled: false}

	_, err := Connect(cfg)
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestNilClient_NoOps(t *testing.T) {
	var c *Client

	// Every helper must be callable on a nil client without panicking.
	c.WriteSessionEvent("publisher", "connected")
	c.WriteFeedMetric("subscriber", "drain_batch", 3)
	c.Flush()

	if c.IsConnected() {
		t.Error("IsConnected() on nil client = true, want false")
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() on nil client error = %v, want nil", err)
	}
}

func TestZeroClient_WritesAreNoOps(t *testing.T) {
	c := &Client{}

	c.WriteSessionEvent("publisher", "connected")
	c.WriteFeedMetric("publisher", "publishes", 1)
	c.Flush()

	if err := c.Close(); err != nil {
		t.Errorf("Close() on zero client error = %v, want nil", err)
	}
}

func TestHealthCheck_NotConnected(t *testing.T) {
	c := &Client{}

	err := c.HealthCheck(context.Background())
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}
}
