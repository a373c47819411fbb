// Package broker owns the lifecycle of one connection to an MQTT broker.
//
// A Session wraps paho.mqtt.golang and reports everything asynchronous —
// connection established, connection lost, connect failure, message arrival —
// as events pushed into a bridge.Bridge. The session never calls back into
// application code and never blocks the caller on network I/O: Connect issues
// the attempt on its own goroutine and returns immediately.
//
// Unlike long-running service deployments, there is no automatic reconnect:
// reconnection is always an explicit user action, so paho's auto-reconnect
// and connect-retry are disabled. Subscriptions are not tracked across
// connect cycles either; the consumer owns the subscription set and
// re-applies it when it observes a Connected event.
//
// All publishes and subscriptions use QoS 0 (at-most-once, no retry, no
// persistence) with retain disabled, matching the feed's fire-and-forget
// delivery expectations.
//
// # Usage
//
//	events := bridge.New()
//	session := broker.NewSession(cfg.Broker, cfg.Auth, events)
//	if err := session.Connect("test.mosquitto.org", 1883); err != nil {
//	    // a connect attempt is already in flight, or we are connected
//	}
//	// ... later, after draining a Connected event:
//	session.Subscribe("twitter/iot")
package broker
