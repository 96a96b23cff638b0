// Package events provides the bounded event bus that decouples the
// dispatch pipeline from its consumers.
//
// The server and device manager publish events (packet activity,
// device lifecycle, scenario edits, periodic stats); the WebSocket
// hub, the activity recorder, the MQTT bridge and the telemetry
// writer subscribe. Subscriber channels are bounded and lossy: a slow
// consumer drops events rather than stalling the request pipeline.
package events
