package broker

import (
	"fmt"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nwillis/tagcast/internal/bridge"
	"github.com/nwillis/tagcast/internal/infrastructure/config"
)

// ConnectionState is the session's view of the broker connection.
// Exactly one state holds at a time; the session owns it, consumers read
// copies via State or mirror it from bridge events.
type ConnectionState int

// Connection states.
const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateConnected
	StateError
)

// String returns a human-readable name for the state.
func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Session wraps paho.mqtt.golang with the lifecycle the feed apps need.
//
// All asynchronous outcomes — connect success/failure, connection loss,
// message arrival — are pushed into the bridge as events; the session never
// mutates consumer state directly.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Session struct {
	cfg    config.BrokerConfig
	auth   config.AuthConfig
	events *bridge.Bridge

	// mu guards client, state and gen.
	mu     sync.Mutex
	client pahomqtt.Client
	state  ConnectionState

	// gen identifies the current connect cycle. Every Connect and Disconnect
	// bumps it, so a late result or connection-lost callback from a
	// superseded attempt is recognised and dropped instead of producing a
	// spurious event against a later live connection.
	gen uint64

	// connectTimeout bounds one connect attempt. Zero means
	// defaultConnectTimeout; tests shorten it.
	connectTimeout time.Duration

	// logger for connection diagnostics (optional, set via SetLogger).
	logger   Logger
	loggerMu sync.RWMutex
}

// Logger interface for optional logging support.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Warn(msg string, args ...any)
	Debug(msg string, args ...any)
}

// NewSession creates a disconnected session that reports into the given bridge.
//
// Parameters:
//   - cfg: Broker settings (TLS, client ID base)
//   - auth: Optional credentials, passed through to the client library
//   - events: Bridge receiving all session events
func NewSession(cfg config.BrokerConfig, auth config.AuthConfig, events *bridge.Bridge) *Session {
	return &Session{
		cfg:    cfg,
		auth:   auth,
		events: events,
	}
}

// Connect starts an asynchronous connection attempt to host:port.
//
// It returns immediately; completion is reported through the bridge as
// exactly one of Connected or ConnectionError per attempt. Only one attempt
// may be outstanding at a time.
//
// Returns:
//   - error: ErrConnectInFlight if an attempt is outstanding,
//     ErrAlreadyConnected if the session is connected, nil otherwise
func (s *Session) Connect(host string, port int) error {
	s.mu.Lock()
	switch s.state {
	case StateConnecting:
		s.mu.Unlock()
		return ErrConnectInFlight
	case StateConnected:
		s.mu.Unlock()
		return ErrAlreadyConnected
	case StateDisconnected, StateError:
	}

	// New attempt, new generation: anything still pending from an earlier
	// cycle (a timed-out handshake, a stale lost callback) no longer matches.
	s.gen++
	gen := s.gen
	opts := buildClientOptions(s.cfg, s.auth, host, port)
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		s.handleConnectionLost(gen, err)
	})

	client := pahomqtt.NewClient(opts)
	s.client = client
	s.state = StateConnecting
	s.mu.Unlock()

	go s.runConnect(client, gen, host, port)
	return nil
}

// runConnect drives one connection attempt to completion on its own goroutine.
func (s *Session) runConnect(client pahomqtt.Client, gen uint64, host string, port int) {
	token := client.Connect()

	timeout := s.connectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	var err error
	if !token.WaitTimeout(timeout) {
		err = fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, timeout)
	} else if tokenErr := token.Error(); tokenErr != nil {
		err = fmt.Errorf("%w: %w", ErrConnectionFailed, tokenErr)
	}

	s.mu.Lock()
	if s.gen != gen {
		// Disconnect or a newer Connect superseded this attempt while it
		// was in flight.
		s.mu.Unlock()
		client.Disconnect(0)
		return
	}

	if err != nil {
		s.state = StateError
		s.mu.Unlock()
		// Reap the client: a handshake that outlives the timeout must not
		// survive as a live connection behind the session's back.
		client.Disconnect(0)
		s.logWarn("connection attempt failed", "host", host, "port", port, "error", err)
		s.events.Push(bridge.ConnectionError(err.Error()))
		return
	}

	s.state = StateConnected
	s.mu.Unlock()
	s.logDebug("connected", "host", host, "port", port)
	s.events.Push(bridge.Connected())
}

// handleConnectionLost is invoked by paho when an established connection drops.
func (s *Session) handleConnectionLost(gen uint64, err error) {
	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return
	}
	s.state = StateDisconnected
	s.client = nil
	s.mu.Unlock()

	s.logWarn("connection lost", "error", err)
	s.events.Push(bridge.Disconnected())
}

// Disconnect tears down the connection, or aborts an in-flight attempt.
//
// Always safe to call; a no-op when already disconnected. Pushes Disconnected
// at most once per connect cycle. Abort of an in-flight attempt is
// best-effort — the client library determines actual teardown latency.
func (s *Session) Disconnect() {
	s.mu.Lock()
	client := s.client
	prev := s.state
	if prev == StateDisconnected || prev == StateError {
		s.mu.Unlock()
		return
	}
	s.state = StateDisconnected
	s.client = nil
	s.gen++
	s.mu.Unlock()

	if client != nil && client.IsConnectionOpen() {
		client.Disconnect(defaultDisconnectQuiesce)
	}

	s.logDebug("disconnected", "previous_state", prev.String())
	s.events.Push(bridge.Disconnected())
}

// Publish sends a payload to the given topic at QoS 0, not retained.
//
// Valid only while connected; fire-and-forget with respect to broker
// acknowledgment beyond the client library's return code.
//
// Returns:
//   - error: ErrInvalidTopic for an empty topic, ErrNotConnected when
//     disconnected, or a wrapped ErrPublishFailed
func (s *Session) Publish(topic, payload string) error {
	if topic == "" {
		return ErrInvalidTopic
	}

	client, err := s.connectedClient()
	if err != nil {
		return err
	}

	token := client.Publish(topic, qosAtMostOnce, false, payload)
	if !token.WaitTimeout(defaultTokenTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultTokenTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	return nil
}

// Subscribe registers for messages on the given topic at QoS 0.
//
// Each inbound message on a subscribed topic is pushed into the bridge as
// exactly one MessageArrived event, preserving per-topic arrival order.
// The session does not remember subscriptions across connect cycles; the
// consumer re-applies its set after observing Connected.
//
// Returns:
//   - error: ErrInvalidTopic for an empty topic, ErrNotConnected when
//     disconnected, or a wrapped ErrSubscribeFailed
func (s *Session) Subscribe(topic string) error {
	if topic == "" {
		return ErrInvalidTopic
	}

	client, err := s.connectedClient()
	if err != nil {
		return err
	}

	token := client.Subscribe(topic, qosAtMostOnce, s.onMessage)
	if !token.WaitTimeout(defaultTokenTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrSubscribeFailed, defaultTokenTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrSubscribeFailed, err)
	}

	return nil
}

// Unsubscribe stops delivery for the given topic.
//
// Returns:
//   - error: ErrInvalidTopic for an empty topic, ErrNotConnected when
//     disconnected, or a wrapped ErrUnsubscribeFailed
func (s *Session) Unsubscribe(topic string) error {
	if topic == "" {
		return ErrInvalidTopic
	}

	client, err := s.connectedClient()
	if err != nil {
		return err
	}

	token := client.Unsubscribe(topic)
	if !token.WaitTimeout(defaultTokenTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrUnsubscribeFailed, defaultTokenTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnsubscribeFailed, err)
	}

	return nil
}

// onMessage relays one inbound message into the bridge. It runs on paho's
// delivery goroutine; Push never blocks, so ordered delivery is preserved.
func (s *Session) onMessage(_ pahomqtt.Client, msg pahomqtt.Message) {
	s.events.Push(bridge.MessageArrived(msg.Topic(), string(msg.Payload()), time.Now()))
}

// State returns a copy of the current connection state.
func (s *Session) State() ConnectionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsConnected reports whether the session is currently connected.
func (s *Session) IsConnected() bool {
	return s.State() == StateConnected
}

// SetLogger sets a logger for connection diagnostics.
// If not set, the session is silent.
func (s *Session) SetLogger(logger Logger) {
	s.loggerMu.Lock()
	s.logger = logger
	s.loggerMu.Unlock()
}

// connectedClient returns the active client, or ErrNotConnected.
func (s *Session) connectedClient() (pahomqtt.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateConnected || s.client == nil {
		return nil, ErrNotConnected
	}
	return s.client, nil
}

func (s *Session) logWarn(msg string, args ...any) {
	s.loggerMu.RLock()
	logger := s.logger
	s.loggerMu.RUnlock()
	if logger != nil {
		logger.Warn(msg, args...)
	}
}

func (s *Session) logDebug(msg string, args ...any) {
	s.loggerMu.RLock()
	logger := s.logger
	s.loggerMu.RUnlock()
	if logger != nil {
		logger.Debug(msg, args...)
	}
}
