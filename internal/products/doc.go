// Package products holds the static registry of LIFX products and
// their capabilities.
//
// The table mirrors the upstream public products registry. Each entry
// maps a product ID to its name, capability flags, colour temperature
// range and default physical layout (zone count, tile geometry). The
// emulator consults it at device-creation time; capabilities never
// change while a device is live.
//
// Extended multizone support is firmware-gated on some products:
// strips shipped before the extended encoding gained it through a
// firmware update, so SupportsExtendedMultizone takes the reported
// firmware build timestamp into account.
package products
