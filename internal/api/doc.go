// Package api is the HTTP management plane: device CRUD, state
// snapshots, scenario editing, stats, recent activity and a WebSocket
// event stream.
//
// The API is a developer tool bound to loopback by default; it has no
// authentication by design (the emulator impersonates devices, it
// does not guard them). Invalid input is rejected at this boundary
// with a structured JSON error and never reaches the dispatch
// pipeline.
//
// Routes live under /api/v1; the WebSocket endpoint is /ws and
// streams the internal event bus (stats_tick, device_*, packet_rx/tx,
// scenario_changed) with per-channel subscriptions.
package api
