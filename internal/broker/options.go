package broker

import (
	"crypto/tls"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/nwillis/tagcast/internal/infrastructure/config"
)

// Connection constants.
const (
	// defaultConnectTimeout is the maximum time to wait for a connection attempt.
	defaultConnectTimeout = 10 * time.Second

	// defaultTokenTimeout is the maximum time to wait for publish/subscribe
	// acknowledgment from the client library.
	defaultTokenTimeout = 5 * time.Second

	// defaultDisconnectQuiesce is the time to wait for pending operations on disconnect.
	defaultDisconnectQuiesce = 250 // milliseconds

	// defaultKeepAlive is the keepalive interval for the connection.
	defaultKeepAlive = 60 * time.Second

	// qosAtMostOnce is the only QoS tier the feed uses: fire-and-forget,
	// no acknowledgment tracking.
	qosAtMostOnce byte = 0

	// clientIDSuffixLen is the number of random characters appended to the
	// configured client ID.
	clientIDSuffixLen = 8

	// tlsMinVersion is the minimum TLS version for secure connections.
	tlsMinVersion = tls.VersionTLS12
)

// buildClientOptions creates paho MQTT options for one connect attempt.
//
// This configures:
//   - Broker URL (tcp:// or ssl:// based on TLS setting)
//   - A unique client ID per session so tagpub and tagsub can share a config
//   - Authentication credentials (if provided)
//   - Clean session mode
//   - Ordered in-flight delivery, preserving per-topic arrival order
//
// Auto-reconnect and connect-retry are deliberately left off: every
// reconnection is an explicit user action.
func buildClientOptions(cfg config.BrokerConfig, auth config.AuthConfig, host string, port int) *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions()

	// Broker URL
	scheme := "tcp"
	if cfg.TLS {
		scheme = "ssl"
	}
	brokerURL := fmt.Sprintf("%s://%s:%d", scheme, host, port)
	opts.AddBroker(brokerURL)

	// Client identification. Public brokers disconnect the older of two
	// clients sharing an ID, so each session gets a random suffix.
	opts.SetClientID(sessionClientID(cfg.ClientID))

	// Authentication (if credentials provided)
	if auth.Username != "" {
		opts.SetUsername(auth.Username)
		opts.SetPassword(auth.Password)
	}

	// Clean session - start fresh on connect (no persistent session on broker)
	opts.SetCleanSession(true)

	// Reconnection is manual; a lost connection surfaces as a Disconnected
	// event and waits for the user.
	opts.SetAutoReconnect(false)
	opts.SetConnectRetry(false)

	// Connection timeout
	opts.SetConnectTimeout(defaultConnectTimeout)

	// Keepalive - detects dead connections between client and broker
	opts.SetKeepAlive(defaultKeepAlive)

	// Handlers run inline in delivery order, so per-topic arrival order is
	// preserved through to the bridge.
	opts.SetOrderMatters(true)

	// TLS configuration if enabled
	if cfg.TLS {
		tlsConfig := &tls.Config{
			MinVersion: tlsMinVersion,
		}
		opts.SetTLSConfig(tlsConfig)
	}

	return opts
}

// sessionClientID derives a per-session client ID from the configured base.
func sessionClientID(base string) string {
	return fmt.Sprintf("%s-%s", base, uuid.NewString()[:clientIDSuffixLen])
}
