package broker

import "errors"

// Domain-specific errors for broker session operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNotConnected is returned when attempting operations on a disconnected session.
	ErrNotConnected = errors.New("broker: not connected")

	// ErrConnectionFailed wraps failures of a connection attempt. It is
	// carried in ConnectionError events rather than returned, since
	// Connect reports completion asynchronously.
	ErrConnectionFailed = errors.New("broker: connection failed")

	// ErrConnectInFlight is returned when Connect is called while a
	// previous attempt is still outstanding.
	ErrConnectInFlight = errors.New("broker: connection attempt already in flight")

	// ErrAlreadyConnected is returned when Connect is called on a
	// connected session.
	ErrAlreadyConnected = errors.New("broker: already connected")

	// ErrPublishFailed is returned when a publish operation fails.
	ErrPublishFailed = errors.New("broker: publish failed")

	// ErrSubscribeFailed is returned when a subscribe operation fails.
	ErrSubscribeFailed = errors.New("broker: subscribe failed")

	// ErrUnsubscribeFailed is returned when an unsubscribe operation fails.
	ErrUnsubscribeFailed = errors.New("broker: unsubscribe failed")

	// ErrInvalidTopic is returned when an empty topic is provided.
	ErrInvalidTopic = errors.New("broker: topic cannot be empty")
)
