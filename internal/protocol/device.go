package protocol

import (
	"encoding/binary"
	"math"
)

// Device namespace payloads (packet types 2–59 and StateUnhandled).
// Layouts follow the upstream protocol definition; every field is
// little-endian at a fixed offset.

// GetService asks a device to advertise its transport. Broadcast with
// tagged=1 for discovery.
type GetService struct{}

func (*GetService) Type() uint16           { return TypeGetService }
func (*GetService) MarshalPayload() []byte { return nil }

// StateService advertises the service a device speaks and the port it
// listens on.
type StateService struct {
	Service ServiceType
	Port    uint32
}

func (*StateService) Type() uint16 { return TypeStateService }

func (m *StateService) MarshalPayload() []byte {
	buf := make([]byte, 5)
	buf[0] = uint8(m.Service)
	binary.LittleEndian.PutUint32(buf[1:], m.Port)
	return buf
}

func decodeStateService(b []byte) (Message, error) {
	if err := need(b, 5, TypeStateService); err != nil {
		return nil, err
	}
	return &StateService{
		Service: ServiceType(b[0]),
		Port:    binary.LittleEndian.Uint32(b[1:]),
	}, nil
}

// GetHostInfo requests host MCU information.
type GetHostInfo struct{}

func (*GetHostInfo) Type() uint16           { return TypeGetHostInfo }
func (*GetHostInfo) MarshalPayload() []byte { return nil }

// StateHostInfo reports host MCU signal and traffic counters.
type StateHostInfo struct {
	Signal float32
	TX     uint32
	RX     uint32
}

func (*StateHostInfo) Type() uint16 { return TypeStateHostInfo }

func (m *StateHostInfo) MarshalPayload() []byte {
	buf := make([]byte, 14)
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(m.Signal))
	binary.LittleEndian.PutUint32(buf[4:], m.TX)
	binary.LittleEndian.PutUint32(buf[8:], m.RX)
	// buf[12:14] reserved
	return buf
}

func decodeStateHostInfo(b []byte) (Message, error) {
	if err := need(b, 14, TypeStateHostInfo); err != nil {
		return nil, err
	}
	return &StateHostInfo{
		Signal: math.Float32frombits(binary.LittleEndian.Uint32(b[0:])),
		TX:     binary.LittleEndian.Uint32(b[4:]),
		RX:     binary.LittleEndian.Uint32(b[8:]),
	}, nil
}

// GetHostFirmware requests host MCU firmware identity.
type GetHostFirmware struct{}

func (*GetHostFirmware) Type() uint16           { return TypeGetHostFirmware }
func (*GetHostFirmware) MarshalPayload() []byte { return nil }

// StateHostFirmware reports the host firmware build timestamp and
// version.
type StateHostFirmware struct {
	Build        uint64
	VersionMinor uint16
	VersionMajor uint16
}

func (*StateHostFirmware) Type() uint16 { return TypeStateHostFirmware }

func (m *StateHostFirmware) MarshalPayload() []byte {
	buf := make([]byte, 20)
	binary.LittleEndian.PutUint64(buf[0:], m.Build)
	// buf[8:16] reserved
	binary.LittleEndian.PutUint16(buf[16:], m.VersionMinor)
	binary.LittleEndian.PutUint16(buf[18:], m.VersionMajor)
	return buf
}

func decodeStateHostFirmware(b []byte) (Message, error) {
	if err := need(b, 20, TypeStateHostFirmware); err != nil {
		return nil, err
	}
	return &StateHostFirmware{
		Build:        binary.LittleEndian.Uint64(b[0:]),
		VersionMinor: binary.LittleEndian.Uint16(b[16:]),
		VersionMajor: binary.LittleEndian.Uint16(b[18:]),
	}, nil
}

// GetWifiInfo requests radio signal information.
type GetWifiInfo struct{}

func (*GetWifiInfo) Type() uint16           { return TypeGetWifiInfo }
func (*GetWifiInfo) MarshalPayload() []byte { return nil }

// StateWifiInfo reports the radio signal strength.
type StateWifiInfo struct {
	Signal float32
}

func (*StateWifiInfo) Type() uint16 { return TypeStateWifiInfo }

func (m *StateWifiInfo) MarshalPayload() []byte {
	buf := make([]byte, 14)
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(m.Signal))
	// buf[4:14] reserved
	return buf
}

func decodeStateWifiInfo(b []byte) (Message, error) {
	if err := need(b, 14, TypeStateWifiInfo); err != nil {
		return nil, err
	}
	return &StateWifiInfo{
		Signal: math.Float32frombits(binary.LittleEndian.Uint32(b[0:])),
	}, nil
}

// GetWifiFirmware requests radio firmware identity.
type GetWifiFirmware struct{}

func (*GetWifiFirmware) Type() uint16           { return TypeGetWifiFirmware }
func (*GetWifiFirmware) MarshalPayload() []byte { return nil }

// StateWifiFirmware reports the radio firmware build and version.
type StateWifiFirmware struct {
	Build        uint64
	VersionMinor uint16
	VersionMajor uint16
}

func (*StateWifiFirmware) Type() uint16 { return TypeStateWifiFirmware }

func (m *StateWifiFirmware) MarshalPayload() []byte {
	buf := make([]byte, 20)
	binary.LittleEndian.PutUint64(buf[0:], m.Build)
	binary.LittleEndian.PutUint16(buf[16:], m.VersionMinor)
	binary.LittleEndian.PutUint16(buf[18:], m.VersionMajor)
	return buf
}

func decodeStateWifiFirmware(b []byte) (Message, error) {
	if err := need(b, 20, TypeStateWifiFirmware); err != nil {
		return nil, err
	}
	return &StateWifiFirmware{
		Build:        binary.LittleEndian.Uint64(b[0:]),
		VersionMinor: binary.LittleEndian.Uint16(b[16:]),
		VersionMajor: binary.LittleEndian.Uint16(b[18:]),
	}, nil
}

// GetPower requests the device power level.
type GetPower struct{}

func (*GetPower) Type() uint16           { return TypeGetPower }
func (*GetPower) MarshalPayload() []byte { return nil }

// SetPower sets the device power level. Devices clamp the level to
// 0 or 65535.
type SetPower struct {
	Level uint16
}

func (*SetPower) Type() uint16 { return TypeSetPower }

func (m *SetPower) MarshalPayload() []byte {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, m.Level)
	return buf
}

func decodeSetPower(b []byte) (Message, error) {
	if err := need(b, 2, TypeSetPower); err != nil {
		return nil, err
	}
	return &SetPower{Level: binary.LittleEndian.Uint16(b)}, nil
}

// StatePower reports the device power level.
type StatePower struct {
	Level uint16
}

func (*StatePower) Type() uint16 { return TypeStatePower }

func (m *StatePower) MarshalPayload() []byte {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, m.Level)
	return buf
}

func decodeStatePower(b []byte) (Message, error) {
	if err := need(b, 2, TypeStatePower); err != nil {
		return nil, err
	}
	return &StatePower{Level: binary.LittleEndian.Uint16(b)}, nil
}

// GetLabel requests the device label.
type GetLabel struct{}

func (*GetLabel) Type() uint16           { return TypeGetLabel }
func (*GetLabel) MarshalPayload() []byte { return nil }

// SetLabel sets the device label, truncated to 32 bytes on the wire.
type SetLabel struct {
	Label string
}

func (*SetLabel) Type() uint16 { return TypeSetLabel }

func (m *SetLabel) MarshalPayload() []byte {
	buf := make([]byte, 32)
	putLabel(buf, m.Label)
	return buf
}

func decodeSetLabel(b []byte) (Message, error) {
	if err := need(b, 32, TypeSetLabel); err != nil {
		return nil, err
	}
	return &SetLabel{Label: getLabel(b)}, nil
}

// StateLabel reports the device label.
type StateLabel struct {
	Label string
}

func (*StateLabel) Type() uint16 { return TypeStateLabel }

func (m *StateLabel) MarshalPayload() []byte {
	buf := make([]byte, 32)
	putLabel(buf, m.Label)
	return buf
}

func decodeStateLabel(b []byte) (Message, error) {
	if err := need(b, 32, TypeStateLabel); err != nil {
		return nil, err
	}
	return &StateLabel{Label: getLabel(b)}, nil
}

// GetVersion requests the device hardware identity.
type GetVersion struct{}

func (*GetVersion) Type() uint16           { return TypeGetVersion }
func (*GetVersion) MarshalPayload() []byte { return nil }

// StateVersion reports the vendor and product identifiers.
type StateVersion struct {
	Vendor  uint32
	Product uint32
}

func (*StateVersion) Type() uint16 { return TypeStateVersion }

func (m *StateVersion) MarshalPayload() []byte {
	buf := make([]byte, 12)
	binary.LittleEndian.PutUint32(buf[0:], m.Vendor)
	binary.LittleEndian.PutUint32(buf[4:], m.Product)
	// buf[8:12] reserved (legacy hardware version)
	return buf
}

func decodeStateVersion(b []byte) (Message, error) {
	if err := need(b, 12, TypeStateVersion); err != nil {
		return nil, err
	}
	return &StateVersion{
		Vendor:  binary.LittleEndian.Uint32(b[0:]),
		Product: binary.LittleEndian.Uint32(b[4:]),
	}, nil
}

// GetInfo requests runtime information.
type GetInfo struct{}

func (*GetInfo) Type() uint16           { return TypeGetInfo }
func (*GetInfo) MarshalPayload() []byte { return nil }

// StateInfo reports the device clock and uptime, all in nanoseconds.
type StateInfo struct {
	Time     uint64
	Uptime   uint64
	Downtime uint64
}

func (*StateInfo) Type() uint16 { return TypeStateInfo }

func (m *StateInfo) MarshalPayload() []byte {
	buf := make([]byte, 24)
	binary.LittleEndian.PutUint64(buf[0:], m.Time)
	binary.LittleEndian.PutUint64(buf[8:], m.Uptime)
	binary.LittleEndian.PutUint64(buf[16:], m.Downtime)
	return buf
}

func decodeStateInfo(b []byte) (Message, error) {
	if err := need(b, 24, TypeStateInfo); err != nil {
		return nil, err
	}
	return &StateInfo{
		Time:     binary.LittleEndian.Uint64(b[0:]),
		Uptime:   binary.LittleEndian.Uint64(b[8:]),
		Downtime: binary.LittleEndian.Uint64(b[16:]),
	}, nil
}

// Acknowledgement confirms receipt of a request with ack_required=1.
// The payload is empty.
type Acknowledgement struct{}

func (*Acknowledgement) Type() uint16           { return TypeAcknowledgement }
func (*Acknowledgement) MarshalPayload() []byte { return nil }

// GetLocation requests the device location record.
type GetLocation struct{}

func (*GetLocation) Type() uint16           { return TypeGetLocation }
func (*GetLocation) MarshalPayload() []byte { return nil }

// SetLocation assigns the device to a location.
type SetLocation struct {
	Location  [16]byte
	Label     string
	UpdatedAt uint64
}

func (*SetLocation) Type() uint16 { return TypeSetLocation }

func (m *SetLocation) MarshalPayload() []byte {
	return marshalCollection(m.Location, m.Label, m.UpdatedAt)
}

func decodeSetLocation(b []byte) (Message, error) {
	if err := need(b, 56, TypeSetLocation); err != nil {
		return nil, err
	}
	id, label, updated := unmarshalCollection(b)
	return &SetLocation{Location: id, Label: label, UpdatedAt: updated}, nil
}

// StateLocation reports the device location record.
type StateLocation struct {
	Location  [16]byte
	Label     string
	UpdatedAt uint64
}

func (*StateLocation) Type() uint16 { return TypeStateLocation }

func (m *StateLocation) MarshalPayload() []byte {
	return marshalCollection(m.Location, m.Label, m.UpdatedAt)
}

func decodeStateLocation(b []byte) (Message, error) {
	if err := need(b, 56, TypeStateLocation); err != nil {
		return nil, err
	}
	id, label, updated := unmarshalCollection(b)
	return &StateLocation{Location: id, Label: label, UpdatedAt: updated}, nil
}

// GetGroup requests the device group record.
type GetGroup struct{}

func (*GetGroup) Type() uint16           { return TypeGetGroup }
func (*GetGroup) MarshalPayload() []byte { return nil }

// SetGroup assigns the device to a group.
type SetGroup struct {
	Group     [16]byte
	Label     string
	UpdatedAt uint64
}

func (*SetGroup) Type() uint16 { return TypeSetGroup }

func (m *SetGroup) MarshalPayload() []byte {
	return marshalCollection(m.Group, m.Label, m.UpdatedAt)
}

func decodeSetGroup(b []byte) (Message, error) {
	if err := need(b, 56, TypeSetGroup); err != nil {
		return nil, err
	}
	id, label, updated := unmarshalCollection(b)
	return &SetGroup{Group: id, Label: label, UpdatedAt: updated}, nil
}

// StateGroup reports the device group record.
type StateGroup struct {
	Group     [16]byte
	Label     string
	UpdatedAt uint64
}

func (*StateGroup) Type() uint16 { return TypeStateGroup }

func (m *StateGroup) MarshalPayload() []byte {
	return marshalCollection(m.Group, m.Label, m.UpdatedAt)
}

func decodeStateGroup(b []byte) (Message, error) {
	if err := need(b, 56, TypeStateGroup); err != nil {
		return nil, err
	}
	id, label, updated := unmarshalCollection(b)
	return &StateGroup{Group: id, Label: label, UpdatedAt: updated}, nil
}

// marshalCollection encodes the shared location/group record layout:
// id(16) + label(32) + updated_at(8).
func marshalCollection(id [16]byte, label string, updatedAt uint64) []byte {
	buf := make([]byte, 56)
	copy(buf[0:16], id[:])
	putLabel(buf[16:48], label)
	binary.LittleEndian.PutUint64(buf[48:], updatedAt)
	return buf
}

func unmarshalCollection(b []byte) (id [16]byte, label string, updatedAt uint64) {
	copy(id[:], b[0:16])
	label = getLabel(b[16:48])
	updatedAt = binary.LittleEndian.Uint64(b[48:])
	return id, label, updatedAt
}

// EchoRequest carries an arbitrary 64-byte payload the device echoes
// back verbatim.
type EchoRequest struct {
	Payload [64]byte
}

func (*EchoRequest) Type() uint16 { return TypeEchoRequest }

func (m *EchoRequest) MarshalPayload() []byte {
	buf := make([]byte, 64)
	copy(buf, m.Payload[:])
	return buf
}

func decodeEchoRequest(b []byte) (Message, error) {
	if err := need(b, 64, TypeEchoRequest); err != nil {
		return nil, err
	}
	m := &EchoRequest{}
	copy(m.Payload[:], b)
	return m, nil
}

// EchoResponse returns an EchoRequest payload verbatim.
type EchoResponse struct {
	Payload [64]byte
}

func (*EchoResponse) Type() uint16 { return TypeEchoResponse }

func (m *EchoResponse) MarshalPayload() []byte {
	buf := make([]byte, 64)
	copy(buf, m.Payload[:])
	return buf
}

func decodeEchoResponse(b []byte) (Message, error) {
	if err := need(b, 64, TypeEchoResponse); err != nil {
		return nil, err
	}
	m := &EchoResponse{}
	copy(m.Payload[:], b)
	return m, nil
}

// StateUnhandled tells the client a device received a packet type it
// does not implement. The payload carries the rejected type.
type StateUnhandled struct {
	UnhandledType uint16
}

func (*StateUnhandled) Type() uint16 { return TypeStateUnhandled }

func (m *StateUnhandled) MarshalPayload() []byte {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, m.UnhandledType)
	return buf
}

func decodeStateUnhandled(b []byte) (Message, error) {
	if err := need(b, 2, TypeStateUnhandled); err != nil {
		return nil, err
	}
	return &StateUnhandled{UnhandledType: binary.LittleEndian.Uint16(b)}, nil
}
