package protocol

import "encoding/binary"

// Relay namespace payloads (packet types 816–818), implemented by
// switch products.

// GetRelayPower requests the power level of one relay.
type GetRelayPower struct {
	RelayIndex uint8
}

func (*GetRelayPower) Type() uint16 { return TypeGetRelayPower }

func (m *GetRelayPower) MarshalPayload() []byte {
	return []byte{m.RelayIndex}
}

func decodeGetRelayPower(b []byte) (Message, error) {
	if err := need(b, 1, TypeGetRelayPower); err != nil {
		return nil, err
	}
	return &GetRelayPower{RelayIndex: b[0]}, nil
}

// SetRelayPower sets the power level of one relay. Levels clamp to
// 0 or 65535.
type SetRelayPower struct {
	RelayIndex uint8
	Level      uint16
}

func (*SetRelayPower) Type() uint16 { return TypeSetRelayPower }

func (m *SetRelayPower) MarshalPayload() []byte {
	buf := make([]byte, 3)
	buf[0] = m.RelayIndex
	binary.LittleEndian.PutUint16(buf[1:], m.Level)
	return buf
}

func decodeSetRelayPower(b []byte) (Message, error) {
	if err := need(b, 3, TypeSetRelayPower); err != nil {
		return nil, err
	}
	return &SetRelayPower{
		RelayIndex: b[0],
		Level:      binary.LittleEndian.Uint16(b[1:]),
	}, nil
}

// StateRelayPower reports the power level of one relay.
type StateRelayPower struct {
	RelayIndex uint8
	Level      uint16
}

func (*StateRelayPower) Type() uint16 { return TypeStateRelayPower }

func (m *StateRelayPower) MarshalPayload() []byte {
	buf := make([]byte, 3)
	buf[0] = m.RelayIndex
	binary.LittleEndian.PutUint16(buf[1:], m.Level)
	return buf
}

func decodeStateRelayPower(b []byte) (Message, error) {
	if err := need(b, 3, TypeStateRelayPower); err != nil {
		return nil, err
	}
	return &StateRelayPower{
		RelayIndex: b[0],
		Level:      binary.LittleEndian.Uint16(b[1:]),
	}, nil
}
