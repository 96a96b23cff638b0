// Package handlers maps packet types to the device-side behaviour
// they trigger.
//
// A handler takes the device state, the decoded request and the
// res_required flag and returns the response payloads (not framed
// headers; the transport wraps them). Handlers run with the device
// lock held, so state access needs no further synchronisation.
//
// Capability gating happens before dispatch: Unhandled decides
// whether a device answers a packet type with StateUnhandled instead
// of running the handler, both for switches (which reject the whole
// Light, MultiZone and Tile namespaces) and for capability mismatches
// such as an infrared packet sent to a plain colour bulb. Handlers
// can therefore assume the capability their namespace needs.
package handlers
