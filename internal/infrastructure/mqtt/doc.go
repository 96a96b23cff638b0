// Package mqtt publishes emulator events to an MQTT broker.
//
// The bridge is optional: when enabled it mirrors the internal event
// stream (device lifecycle, state changes, stats ticks) onto a topic
// hierarchy so external tooling can follow the emulator without
// holding a WebSocket open. Commands are not accepted over MQTT; the
// wire protocol and the HTTP API remain the only control surfaces.
//
// Topic scheme:
//
//	lifx-emulator/event/<event_type>      lifecycle and stats events
//	lifx-emulator/device/<serial>/state   retained state snapshots
//	lifx-emulator/system/status           retained online/offline (LWT)
package mqtt
