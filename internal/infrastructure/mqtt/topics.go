package mqtt

import "fmt"

// Topic prefixes for everything the bridge publishes.
const (
	topicPrefix       = "lifx-emulator"
	topicPrefixDevice = topicPrefix + "/device"
	topicPrefixEvent  = topicPrefix + "/event"

	// TopicSystemStatus carries the retained online/offline payload,
	// set as the connection's Last Will.
	TopicSystemStatus = topicPrefix + "/system/status"
)

// Topics builds the bridge's topic names. Using the helpers keeps the
// hierarchy consistent between the publisher and subscribers.
type Topics struct{}

// DeviceState returns the retained state topic for one device.
//
// Example: lifx-emulator/device/d073d5000001/state
func (Topics) DeviceState(serial string) string {
	return fmt.Sprintf("%s/%s/state", topicPrefixDevice, serial)
}

// Event returns the topic for one event type.
//
// Example: lifx-emulator/event/device_added
func (Topics) Event(eventType string) string {
	return fmt.Sprintf("%s/%s", topicPrefixEvent, eventType)
}
