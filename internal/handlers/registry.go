package handlers

import (
	"github.com/Djelibeybi/lifx-emulator/internal/device"
	"github.com/Djelibeybi/lifx-emulator/internal/protocol"
	"github.com/Djelibeybi/lifx-emulator/internal/scenario"
)

// Handler implements the device-side behaviour of one packet type.
// It runs with the device lock held and returns response payloads in
// send order.
type Handler func(s *device.State, req protocol.Message, rules *scenario.Merged, resRequired bool) []protocol.Message

// Registry maps packet types to handlers across all protocol
// namespaces.
type Registry struct {
	handlers map[uint16]Handler
}

// NewRegistry builds the full handler table.
func NewRegistry() *Registry {
	r := &Registry{handlers: make(map[uint16]Handler)}

	// Device namespace.
	r.register(protocol.TypeGetService, handleGetService)
	r.register(protocol.TypeGetHostInfo, handleGetHostInfo)
	r.register(protocol.TypeGetHostFirmware, handleGetHostFirmware)
	r.register(protocol.TypeGetWifiInfo, handleGetWifiInfo)
	r.register(protocol.TypeGetWifiFirmware, handleGetWifiFirmware)
	r.register(protocol.TypeGetPower, handleGetPower)
	r.register(protocol.TypeSetPower, handleSetPower)
	r.register(protocol.TypeGetLabel, handleGetLabel)
	r.register(protocol.TypeSetLabel, handleSetLabel)
	r.register(protocol.TypeGetVersion, handleGetVersion)
	r.register(protocol.TypeGetInfo, handleGetInfo)
	r.register(protocol.TypeGetLocation, handleGetLocation)
	r.register(protocol.TypeSetLocation, handleSetLocation)
	r.register(protocol.TypeGetGroup, handleGetGroup)
	r.register(protocol.TypeSetGroup, handleSetGroup)
	r.register(protocol.TypeEchoRequest, handleEchoRequest)

	// Light namespace.
	r.register(protocol.TypeLightGet, handleLightGet)
	r.register(protocol.TypeLightSetColor, handleLightSetColor)
	r.register(protocol.TypeSetWaveform, handleSetWaveform)
	r.register(protocol.TypeSetWaveformOptional, handleSetWaveformOptional)
	r.register(protocol.TypeLightGetPower, handleLightGetPower)
	r.register(protocol.TypeLightSetPower, handleLightSetPower)
	r.register(protocol.TypeGetInfrared, handleGetInfrared)
	r.register(protocol.TypeSetInfrared, handleSetInfrared)
	r.register(protocol.TypeGetHevCycle, handleGetHevCycle)
	r.register(protocol.TypeSetHevCycle, handleSetHevCycle)
	r.register(protocol.TypeGetHevCycleConfiguration, handleGetHevCycleConfiguration)
	r.register(protocol.TypeSetHevCycleConfiguration, handleSetHevCycleConfiguration)
	r.register(protocol.TypeGetLastHevCycleResult, handleGetLastHevCycleResult)

	// MultiZone namespace.
	r.register(protocol.TypeSetColorZones, handleSetColorZones)
	r.register(protocol.TypeGetColorZones, handleGetColorZones)
	r.register(protocol.TypeGetMultiZoneEffect, handleGetMultiZoneEffect)
	r.register(protocol.TypeSetMultiZoneEffect, handleSetMultiZoneEffect)
	r.register(protocol.TypeSetExtendedColorZones, handleSetExtendedColorZones)
	r.register(protocol.TypeGetExtendedColorZones, handleGetExtendedColorZones)

	// Tile namespace.
	r.register(protocol.TypeGetDeviceChain, handleGetDeviceChain)
	r.register(protocol.TypeSetUserPosition, handleSetUserPosition)
	r.register(protocol.TypeGet64, handleGet64)
	r.register(protocol.TypeSet64, handleSet64)
	r.register(protocol.TypeCopyFrameBuffer, handleCopyFrameBuffer)
	r.register(protocol.TypeGetTileEffect, handleGetTileEffect)
	r.register(protocol.TypeSetTileEffect, handleSetTileEffect)

	// Relay namespace.
	r.register(protocol.TypeGetRelayPower, handleGetRelayPower)
	r.register(protocol.TypeSetRelayPower, handleSetRelayPower)

	return r
}

func (r *Registry) register(pktType uint16, h Handler) {
	r.handlers[pktType] = h
}

// Lookup returns the handler for a packet type.
func (r *Registry) Lookup(pktType uint16) (Handler, bool) {
	h, ok := r.handlers[pktType]
	return h, ok
}

// Unhandled reports whether a device answers a packet type with
// StateUnhandled instead of dispatching it.
//
// Switch devices reject the entire Light, MultiZone and Tile
// namespaces; other devices reject only the capability-gated subsets
// they lack. Device-namespace packets are never rejected here.
func Unhandled(caps device.Capabilities, pktType uint16) bool {
	inLight := pktType >= protocol.LightRangeStart && pktType <= protocol.LightRangeEnd
	inMultiZone := pktType >= protocol.MultiZoneRangeStart && pktType <= protocol.MultiZoneRangeEnd
	inTile := pktType >= protocol.TileRangeStart && pktType <= protocol.TileRangeEnd
	inRelay := pktType >= protocol.RelayRangeStart && pktType <= protocol.RelayRangeEnd

	if caps.IsSwitch() {
		if inLight || inMultiZone || inTile {
			return true
		}
	}

	switch {
	case pktType >= protocol.TypeGetInfrared && pktType <= protocol.TypeSetInfrared:
		return !caps.HasInfrared
	case pktType >= protocol.TypeGetHevCycle && pktType <= protocol.TypeStateLastHevCycleResult:
		return !caps.HasHev
	case pktType >= protocol.TypeSetExtendedColorZones && pktType <= protocol.TypeStateExtendedColorZones:
		return !caps.HasExtendedMultizone
	case inMultiZone:
		return !caps.HasMultizone
	case inTile:
		return !caps.HasMatrix
	case inRelay:
		return !caps.HasRelays
	}
	return false
}
