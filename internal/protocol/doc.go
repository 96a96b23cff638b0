// Package protocol implements the LIFX LAN wire protocol.
//
// The protocol is a binary datagram format carried over UDP. Every
// packet starts with a fixed 36-byte header followed by a typed
// payload. All multi-byte integers are little-endian.
//
// # Header
//
// The header is three fixed sections:
//
//	Frame:           size(2) | flags(2: origin:2 tagged:1 addressable:1 protocol:12) | source(4)
//	Frame address:   target(8) | reserved(6) | flags(1: res_required:1 ack_required:1) | sequence(1)
//	Protocol header: reserved(8) | pkt_type(2) | reserved(2)
//
// The first six bytes of target carry the device serial; the last two
// are always zero. An all-zero target or tagged=1 addresses every
// device (broadcast).
//
// # Payloads
//
// Each packet type has a typed payload implementing Message. Decoding
// is driven by the packet registry: Decode looks up the packet type
// and dispatches to the matching payload codec. Unknown enum values
// inside payloads decode to their numeric value rather than failing,
// because the emulator must tolerate client noise.
//
// The payload codecs live in one file per protocol namespace
// (device, light, multizone, tile, relay) so each can be regenerated
// from the upstream protocol definition independently.
package protocol
