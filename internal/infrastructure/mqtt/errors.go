package mqtt

import "errors"

var (
	// ErrConnectionFailed indicates the initial broker connection did
	// not come up within the timeout.
	ErrConnectionFailed = errors.New("mqtt connection failed")

	// ErrNotConnected indicates a publish while the broker is away.
	ErrNotConnected = errors.New("mqtt not connected")

	// ErrPublishFailed indicates the broker rejected or timed out a
	// publish.
	ErrPublishFailed = errors.New("mqtt publish failed")

	// ErrInvalidTopic indicates an empty topic.
	ErrInvalidTopic = errors.New("invalid mqtt topic")
)
