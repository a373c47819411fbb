// Package bridge carries connection-status and inbound-message events from
// the goroutines running MQTT callbacks to the single goroutine allowed to
// mutate application state.
//
// The broker session pushes tagged Event values; the feed loop drains them
// on a fixed timer. This is the only channel of communication between the
// two concurrency domains: callbacks never touch consumer-owned state, and
// the consumer never blocks on network I/O.
//
// Guarantees:
//   - Push never blocks and never fails (effectively unbounded buffer)
//   - Drain returns all events enqueued since the previous drain, in order
//   - no event is delivered twice or silently dropped
package bridge
