package protocol

import "fmt"

// Packet type numbers, grouped by protocol namespace.
const (
	// Device namespace (2–59, plus StateUnhandled).
	TypeGetService        uint16 = 2
	TypeStateService      uint16 = 3
	TypeGetHostInfo       uint16 = 12
	TypeStateHostInfo     uint16 = 13
	TypeGetHostFirmware   uint16 = 14
	TypeStateHostFirmware uint16 = 15
	TypeGetWifiInfo       uint16 = 16
	TypeStateWifiInfo     uint16 = 17
	TypeGetWifiFirmware   uint16 = 18
	TypeStateWifiFirmware uint16 = 19
	TypeGetPower          uint16 = 20
	TypeSetPower          uint16 = 21
	TypeStatePower        uint16 = 22
	TypeGetLabel          uint16 = 23
	TypeSetLabel          uint16 = 24
	TypeStateLabel        uint16 = 25
	TypeGetVersion        uint16 = 32
	TypeStateVersion      uint16 = 33
	TypeGetInfo           uint16 = 34
	TypeStateInfo         uint16 = 35
	TypeAcknowledgement   uint16 = 45
	TypeGetLocation       uint16 = 48
	TypeSetLocation       uint16 = 49
	TypeStateLocation     uint16 = 50
	TypeGetGroup          uint16 = 51
	TypeSetGroup          uint16 = 52
	TypeStateGroup        uint16 = 53
	TypeEchoRequest       uint16 = 58
	TypeEchoResponse      uint16 = 59
	TypeStateUnhandled    uint16 = 223

	// Light namespace (101–149).
	TypeLightGet                   uint16 = 101
	TypeLightSetColor              uint16 = 102
	TypeSetWaveform                uint16 = 103
	TypeLightState                 uint16 = 107
	TypeLightGetPower              uint16 = 116
	TypeLightSetPower              uint16 = 117
	TypeLightStatePower            uint16 = 118
	TypeSetWaveformOptional        uint16 = 119
	TypeGetInfrared                uint16 = 120
	TypeStateInfrared              uint16 = 121
	TypeSetInfrared                uint16 = 122
	TypeGetHevCycle                uint16 = 142
	TypeSetHevCycle                uint16 = 143
	TypeStateHevCycle              uint16 = 144
	TypeGetHevCycleConfiguration   uint16 = 145
	TypeSetHevCycleConfiguration   uint16 = 146
	TypeStateHevCycleConfiguration uint16 = 147
	TypeGetLastHevCycleResult      uint16 = 148
	TypeStateLastHevCycleResult    uint16 = 149

	// MultiZone namespace (501–512).
	TypeSetColorZones           uint16 = 501
	TypeGetColorZones           uint16 = 502
	TypeStateZone               uint16 = 503
	TypeStateMultiZone          uint16 = 506
	TypeGetMultiZoneEffect      uint16 = 507
	TypeSetMultiZoneEffect      uint16 = 508
	TypeStateMultiZoneEffect    uint16 = 509
	TypeSetExtendedColorZones   uint16 = 510
	TypeGetExtendedColorZones   uint16 = 511
	TypeStateExtendedColorZones uint16 = 512

	// Tile namespace (701–720).
	TypeGetDeviceChain   uint16 = 701
	TypeStateDeviceChain uint16 = 702
	TypeSetUserPosition  uint16 = 703
	TypeGet64            uint16 = 707
	TypeState64          uint16 = 711
	TypeSet64            uint16 = 715
	TypeCopyFrameBuffer  uint16 = 716
	TypeGetTileEffect    uint16 = 718
	TypeSetTileEffect    uint16 = 719
	TypeStateTileEffect  uint16 = 720

	// Relay namespace (816–818).
	TypeGetRelayPower   uint16 = 816
	TypeSetRelayPower   uint16 = 817
	TypeStateRelayPower uint16 = 818
)

// Namespace boundaries used for capability-based dispatch gating.
const (
	LightRangeStart     uint16 = 101
	LightRangeEnd       uint16 = 149
	MultiZoneRangeStart uint16 = 501
	MultiZoneRangeEnd   uint16 = 512
	TileRangeStart      uint16 = 701
	TileRangeEnd        uint16 = 720
	RelayRangeStart     uint16 = 816
	RelayRangeEnd       uint16 = 818
)

// Message is a typed packet payload. Implementations encode to their
// fixed wire layout; encoding cannot fail once a value is constructed.
type Message interface {
	// Type returns the packet type number carried in the header.
	Type() uint16

	// MarshalPayload serializes the payload to its wire form.
	MarshalPayload() []byte
}

// packetCodec is one registry entry: a display name and the payload
// decoder for a packet type.
type packetCodec struct {
	name   string
	decode func([]byte) (Message, error)
}

// packetTable maps packet type numbers to codecs. One entry per packet
// type; regenerated alongside the payload files when the upstream
// protocol definition changes.
var packetTable map[uint16]packetCodec

func init() {
	packetTable = map[uint16]packetCodec{
		TypeGetService:        {"GetService", decodeEmpty(func() Message { return &GetService{} })},
		TypeStateService:      {"StateService", decodeStateService},
		TypeGetHostInfo:       {"GetHostInfo", decodeEmpty(func() Message { return &GetHostInfo{} })},
		TypeStateHostInfo:     {"StateHostInfo", decodeStateHostInfo},
		TypeGetHostFirmware:   {"GetHostFirmware", decodeEmpty(func() Message { return &GetHostFirmware{} })},
		TypeStateHostFirmware: {"StateHostFirmware", decodeStateHostFirmware},
		TypeGetWifiInfo:       {"GetWifiInfo", decodeEmpty(func() Message { return &GetWifiInfo{} })},
		TypeStateWifiInfo:     {"StateWifiInfo", decodeStateWifiInfo},
		TypeGetWifiFirmware:   {"GetWifiFirmware", decodeEmpty(func() Message { return &GetWifiFirmware{} })},
		TypeStateWifiFirmware: {"StateWifiFirmware", decodeStateWifiFirmware},
		TypeGetPower:          {"GetPower", decodeEmpty(func() Message { return &GetPower{} })},
		TypeSetPower:          {"SetPower", decodeSetPower},
		TypeStatePower:        {"StatePower", decodeStatePower},
		TypeGetLabel:          {"GetLabel", decodeEmpty(func() Message { return &GetLabel{} })},
		TypeSetLabel:          {"SetLabel", decodeSetLabel},
		TypeStateLabel:        {"StateLabel", decodeStateLabel},
		TypeGetVersion:        {"GetVersion", decodeEmpty(func() Message { return &GetVersion{} })},
		TypeStateVersion:      {"StateVersion", decodeStateVersion},
		TypeGetInfo:           {"GetInfo", decodeEmpty(func() Message { return &GetInfo{} })},
		TypeStateInfo:         {"StateInfo", decodeStateInfo},
		TypeAcknowledgement:   {"Acknowledgement", decodeEmpty(func() Message { return &Acknowledgement{} })},
		TypeGetLocation:       {"GetLocation", decodeEmpty(func() Message { return &GetLocation{} })},
		TypeSetLocation:       {"SetLocation", decodeSetLocation},
		TypeStateLocation:     {"StateLocation", decodeStateLocation},
		TypeGetGroup:          {"GetGroup", decodeEmpty(func() Message { return &GetGroup{} })},
		TypeSetGroup:          {"SetGroup", decodeSetGroup},
		TypeStateGroup:        {"StateGroup", decodeStateGroup},
		TypeEchoRequest:       {"EchoRequest", decodeEchoRequest},
		TypeEchoResponse:      {"EchoResponse", decodeEchoResponse},
		TypeStateUnhandled:    {"StateUnhandled", decodeStateUnhandled},

		TypeLightGet:                   {"Light.Get", decodeEmpty(func() Message { return &LightGet{} })},
		TypeLightSetColor:              {"Light.SetColor", decodeLightSetColor},
		TypeSetWaveform:                {"Light.SetWaveform", decodeSetWaveform},
		TypeLightState:                 {"Light.State", decodeLightState},
		TypeLightGetPower:              {"Light.GetPower", decodeEmpty(func() Message { return &LightGetPower{} })},
		TypeLightSetPower:              {"Light.SetPower", decodeLightSetPower},
		TypeLightStatePower:            {"Light.StatePower", decodeLightStatePower},
		TypeSetWaveformOptional:        {"Light.SetWaveformOptional", decodeSetWaveformOptional},
		TypeGetInfrared:                {"Light.GetInfrared", decodeEmpty(func() Message { return &GetInfrared{} })},
		TypeStateInfrared:              {"Light.StateInfrared", decodeStateInfrared},
		TypeSetInfrared:                {"Light.SetInfrared", decodeSetInfrared},
		TypeGetHevCycle:                {"Light.GetHevCycle", decodeEmpty(func() Message { return &GetHevCycle{} })},
		TypeSetHevCycle:                {"Light.SetHevCycle", decodeSetHevCycle},
		TypeStateHevCycle:              {"Light.StateHevCycle", decodeStateHevCycle},
		TypeGetHevCycleConfiguration:   {"Light.GetHevCycleConfiguration", decodeEmpty(func() Message { return &GetHevCycleConfiguration{} })},
		TypeSetHevCycleConfiguration:   {"Light.SetHevCycleConfiguration", decodeSetHevCycleConfiguration},
		TypeStateHevCycleConfiguration: {"Light.StateHevCycleConfiguration", decodeStateHevCycleConfiguration},
		TypeGetLastHevCycleResult:      {"Light.GetLastHevCycleResult", decodeEmpty(func() Message { return &GetLastHevCycleResult{} })},
		TypeStateLastHevCycleResult:    {"Light.StateLastHevCycleResult", decodeStateLastHevCycleResult},

		TypeSetColorZones:           {"MultiZone.SetColorZones", decodeSetColorZones},
		TypeGetColorZones:           {"MultiZone.GetColorZones", decodeGetColorZones},
		TypeStateZone:               {"MultiZone.StateZone", decodeStateZone},
		TypeStateMultiZone:          {"MultiZone.StateMultiZone", decodeStateMultiZone},
		TypeGetMultiZoneEffect:      {"MultiZone.GetEffect", decodeEmpty(func() Message { return &GetMultiZoneEffect{} })},
		TypeSetMultiZoneEffect:      {"MultiZone.SetEffect", decodeSetMultiZoneEffect},
		TypeStateMultiZoneEffect:    {"MultiZone.StateEffect", decodeStateMultiZoneEffect},
		TypeSetExtendedColorZones:   {"MultiZone.SetExtendedColorZones", decodeSetExtendedColorZones},
		TypeGetExtendedColorZones:   {"MultiZone.GetExtendedColorZones", decodeEmpty(func() Message { return &GetExtendedColorZones{} })},
		TypeStateExtendedColorZones: {"MultiZone.StateExtendedColorZones", decodeStateExtendedColorZones},

		TypeGetDeviceChain:   {"Tile.GetDeviceChain", decodeEmpty(func() Message { return &GetDeviceChain{} })},
		TypeStateDeviceChain: {"Tile.StateDeviceChain", decodeStateDeviceChain},
		TypeSetUserPosition:  {"Tile.SetUserPosition", decodeSetUserPosition},
		TypeGet64:            {"Tile.Get64", decodeGet64},
		TypeState64:          {"Tile.State64", decodeState64},
		TypeSet64:            {"Tile.Set64", decodeSet64},
		TypeCopyFrameBuffer:  {"Tile.CopyFrameBuffer", decodeCopyFrameBuffer},
		TypeGetTileEffect:    {"Tile.GetEffect", decodeGetTileEffect},
		TypeSetTileEffect:    {"Tile.SetEffect", decodeSetTileEffect},
		TypeStateTileEffect:  {"Tile.StateEffect", decodeStateTileEffect},

		TypeGetRelayPower:   {"Relay.GetPower", decodeGetRelayPower},
		TypeSetRelayPower:   {"Relay.SetPower", decodeSetRelayPower},
		TypeStateRelayPower: {"Relay.StatePower", decodeStateRelayPower},
	}
}

// Registered reports whether a packet type has a codec.
func Registered(pktType uint16) bool {
	_, ok := packetTable[pktType]
	return ok
}

// Name returns the display name of a packet type, or "Unknown(N)" for
// unregistered types.
func Name(pktType uint16) string {
	if c, ok := packetTable[pktType]; ok {
		return c.name
	}
	return fmt.Sprintf("Unknown(%d)", pktType)
}

// Decode decodes a payload for the given packet type.
//
// It returns ErrUnknownType for unregistered types and ErrShortPayload
// when the payload is shorter than the type's fixed layout. Extra
// trailing bytes are tolerated.
func Decode(pktType uint16, payload []byte) (Message, error) {
	c, ok := packetTable[pktType]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, pktType)
	}
	return c.decode(payload)
}

// decodeEmpty builds a decoder for payload-less packet types.
func decodeEmpty(newMsg func() Message) func([]byte) (Message, error) {
	return func([]byte) (Message, error) {
		return newMsg(), nil
	}
}

// need returns ErrShortPayload when b is shorter than n bytes.
func need(b []byte, n int, pktType uint16) error {
	if len(b) < n {
		return fmt.Errorf("%w: %s: %d bytes, need %d", ErrShortPayload, Name(pktType), len(b), n)
	}
	return nil
}
