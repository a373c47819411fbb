// Package telemetry records optional usage counters to InfluxDB.
//
// When enabled in config, the apps record broker-session lifecycle events
// and feed-loop counters (publishes, messages received, drain batch sizes).
// Writes are batched and non-blocking, so the feed loop never waits on the
// telemetry backend. When disabled, a nil *Client makes every write helper
// a no-op and the apps behave identically.
//
// Messages themselves are never recorded — only counts.
package telemetry
