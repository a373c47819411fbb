package bridge

import (
	"sync"
	"time"
)

// Kind discriminates the Event union.
type Kind int

// Event kinds produced by the broker session.
const (
	KindConnected Kind = iota
	KindDisconnected
	KindConnectionError
	KindMessageArrived
)

// String returns a human-readable name for the event kind.
func (k Kind) String() string {
	switch k {
	case KindConnected:
		return "connected"
	case KindDisconnected:
		return "disconnected"
	case KindConnectionError:
		return "connection_error"
	case KindMessageArrived:
		return "message_arrived"
	default:
		return "unknown"
	}
}

// InboundMessage is a message received from the broker. It is ephemeral:
// rendered once by the consumer, never persisted.
type InboundMessage struct {
	Topic      string
	Payload    string
	ReceivedAt time.Time
}

// Event is the tagged union carried across the thread boundary.
// Exactly one of the optional fields is meaningful, selected by Kind:
// Reason for KindConnectionError, Message for KindMessageArrived.
type Event struct {
	Kind    Kind
	Reason  string
	Message InboundMessage
}

// Connected builds a connection-established event.
func Connected() Event {
	return Event{Kind: KindConnected}
}

// Disconnected builds a connection-closed event.
func Disconnected() Event {
	return Event{Kind: KindDisconnected}
}

// ConnectionError builds a failed-connection event with a reason for display.
func ConnectionError(reason string) Event {
	return Event{Kind: KindConnectionError, Reason: reason}
}

// MessageArrived builds an inbound-message event.
func MessageArrived(topic, payload string, at time.Time) Event {
	return Event{
		Kind: KindMessageArrived,
		Message: InboundMessage{
			Topic:      topic,
			Payload:    payload,
			ReceivedAt: at,
		},
	}
}

// Bridge is the hand-off between the goroutines driving network I/O and the
// single consumer goroutine that owns visible state.
//
// Multiple producers may Push concurrently; exactly one consumer calls Drain.
// Push never blocks and never fails. Events are delivered in enqueue order,
// exactly once.
type Bridge struct {
	mu     sync.Mutex
	events []Event
}

// New creates an empty Bridge.
func New() *Bridge {
	return &Bridge{}
}

// Push appends an event to the bridge. Safe for concurrent use; never blocks
// beyond the internal mutex.
func (b *Bridge) Push(e Event) {
	b.mu.Lock()
	b.events = append(b.events, e)
	b.mu.Unlock()
}

// Drain removes and returns all pending events in enqueue order.
// Returns nil when nothing is pending. Intended to be called periodically
// by the single consumer.
func (b *Bridge) Drain() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.events) == 0 {
		return nil
	}
	out := b.events
	b.events = nil
	return out
}

// Len returns the number of pending events.
func (b *Bridge) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}
