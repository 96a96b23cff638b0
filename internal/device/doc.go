// Package device holds the state model for emulated LIFX devices.
//
// A device is a composed record: an always-present core (identity,
// label, power, colour, firmware) plus optional sub-states enabled by
// the product's capability flags (infrared, HEV, multizone, matrix,
// relays). Reads of a disabled sub-state return documented defaults
// and writes are silently ignored, so packet handlers get a uniform
// interface without violating capability gating.
//
// Mutations go through setter methods that mark the state dirty; the
// owning Device flushes the dirty flag into StateChanged notifications
// after each dispatch, which is how the persistence engine and the
// management plane observe changes.
//
// Devices are created by the factory from a product ID plus optional
// overrides; capability flags are fixed at creation and never change
// while the device is live.
package device
