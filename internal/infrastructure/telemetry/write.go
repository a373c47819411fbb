package telemetry

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteSessionEvent records one broker-session lifecycle event.
//
// The write is non-blocking; data is batched and sent asynchronously.
// No-op when disconnected or on a nil receiver.
//
// Parameters:
//   - role: Which app produced the event ("publisher" or "subscriber")
//   - kind: The event kind ("connected", "disconnected", "connection_error")
//
// Example:
//
//	client.WriteSessionEvent("subscriber", "connected")
func (c *Client) WriteSessionEvent(role, kind string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"session_events",
		map[string]string{
			"role": role,
			"kind": kind,
		},
		map[string]interface{}{
			"count": 1,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteFeedMetric records one feed-loop measurement.
//
// Used for counters like publishes, messages received, and drain batch sizes.
// No-op when disconnected or on a nil receiver.
//
// Parameters:
//   - role: Which app produced the metric ("publisher" or "subscriber")
//   - metric: The metric name (e.g., "publishes", "messages_received", "drain_batch")
//   - value: The value to record
//
// Example:
//
//	client.WriteFeedMetric("subscriber", "drain_batch", float64(len(events)))
func (c *Client) WriteFeedMetric(role, metric string, value float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"feed_metrics",
		map[string]string{
			"role":   role,
			"metric": metric,
		},
		map[string]interface{}{
			"value": value,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}
