package protocol

import "encoding/binary"

// MultiZone namespace payloads (packet types 501–512).

// Zones carried per response packet.
const (
	// StateMultiZoneZones is the fixed zone count in a StateMultiZone.
	StateMultiZoneZones = 8

	// ExtendedZones is the fixed zone slot count in the extended
	// multizone packets.
	ExtendedZones = 82
)

// SetColorZones sets a contiguous zone range to one colour. Apply
// controls whether queued changes take effect.
type SetColorZones struct {
	StartIndex uint8
	EndIndex   uint8
	Color      Hsbk
	Duration   uint32
	Apply      ApplicationRequest
}

func (*SetColorZones) Type() uint16 { return TypeSetColorZones }

func (m *SetColorZones) MarshalPayload() []byte {
	buf := make([]byte, 15)
	buf[0] = m.StartIndex
	buf[1] = m.EndIndex
	putHsbk(buf[2:], m.Color)
	binary.LittleEndian.PutUint32(buf[10:], m.Duration)
	buf[14] = uint8(m.Apply)
	return buf
}

func decodeSetColorZones(b []byte) (Message, error) {
	if err := need(b, 15, TypeSetColorZones); err != nil {
		return nil, err
	}
	return &SetColorZones{
		StartIndex: b[0],
		EndIndex:   b[1],
		Color:      getHsbk(b[2:]),
		Duration:   binary.LittleEndian.Uint32(b[10:]),
		Apply:      ApplicationRequest(b[14]),
	}, nil
}

// GetColorZones requests the colours of a zone range. Devices answer
// with one StateZone or a run of StateMultiZone packets.
type GetColorZones struct {
	StartIndex uint8
	EndIndex   uint8
}

func (*GetColorZones) Type() uint16 { return TypeGetColorZones }

func (m *GetColorZones) MarshalPayload() []byte {
	return []byte{m.StartIndex, m.EndIndex}
}

func decodeGetColorZones(b []byte) (Message, error) {
	if err := need(b, 2, TypeGetColorZones); err != nil {
		return nil, err
	}
	return &GetColorZones{StartIndex: b[0], EndIndex: b[1]}, nil
}

// StateZone reports a single zone colour.
type StateZone struct {
	Count uint8
	Index uint8
	Color Hsbk
}

func (*StateZone) Type() uint16 { return TypeStateZone }

func (m *StateZone) MarshalPayload() []byte {
	buf := make([]byte, 10)
	buf[0] = m.Count
	buf[1] = m.Index
	putHsbk(buf[2:], m.Color)
	return buf
}

func decodeStateZone(b []byte) (Message, error) {
	if err := need(b, 10, TypeStateZone); err != nil {
		return nil, err
	}
	return &StateZone{Count: b[0], Index: b[1], Color: getHsbk(b[2:])}, nil
}

// StateMultiZone reports eight consecutive zone colours starting at
// Index. The final packet of a run may carry fewer meaningful zones;
// the slots are still encoded, zero-padded.
type StateMultiZone struct {
	Count  uint8
	Index  uint8
	Colors [StateMultiZoneZones]Hsbk
}

func (*StateMultiZone) Type() uint16 { return TypeStateMultiZone }

func (m *StateMultiZone) MarshalPayload() []byte {
	buf := make([]byte, 2+StateMultiZoneZones*hsbkSize)
	buf[0] = m.Count
	buf[1] = m.Index
	for i, c := range m.Colors {
		putHsbk(buf[2+i*hsbkSize:], c)
	}
	return buf
}

func decodeStateMultiZone(b []byte) (Message, error) {
	if err := need(b, 2+StateMultiZoneZones*hsbkSize, TypeStateMultiZone); err != nil {
		return nil, err
	}
	m := &StateMultiZone{Count: b[0], Index: b[1]}
	for i := range m.Colors {
		m.Colors[i] = getHsbk(b[2+i*hsbkSize:])
	}
	return m, nil
}

// GetMultiZoneEffect requests the running multizone effect.
type GetMultiZoneEffect struct{}

func (*GetMultiZoneEffect) Type() uint16           { return TypeGetMultiZoneEffect }
func (*GetMultiZoneEffect) MarshalPayload() []byte { return nil }

// MultiZoneEffectSettings describes a multizone firmware effect.
// Encoded size is 59 bytes.
type MultiZoneEffectSettings struct {
	InstanceID uint32
	EffectType MultiZoneEffectType
	Speed      uint32
	Duration   uint64
	Parameters [32]byte
}

const multiZoneEffectSize = 59

func putMultiZoneEffect(buf []byte, s MultiZoneEffectSettings) {
	binary.LittleEndian.PutUint32(buf[0:], s.InstanceID)
	buf[4] = uint8(s.EffectType)
	// buf[5:7] reserved
	binary.LittleEndian.PutUint32(buf[7:], s.Speed)
	binary.LittleEndian.PutUint64(buf[11:], s.Duration)
	// buf[19:27] reserved
	copy(buf[27:59], s.Parameters[:])
}

func getMultiZoneEffect(buf []byte) MultiZoneEffectSettings {
	s := MultiZoneEffectSettings{
		InstanceID: binary.LittleEndian.Uint32(buf[0:]),
		EffectType: MultiZoneEffectType(buf[4]),
		Speed:      binary.LittleEndian.Uint32(buf[7:]),
		Duration:   binary.LittleEndian.Uint64(buf[11:]),
	}
	copy(s.Parameters[:], buf[27:59])
	return s
}

// SetMultiZoneEffect starts or stops a multizone firmware effect.
type SetMultiZoneEffect struct {
	Settings MultiZoneEffectSettings
}

func (*SetMultiZoneEffect) Type() uint16 { return TypeSetMultiZoneEffect }

func (m *SetMultiZoneEffect) MarshalPayload() []byte {
	buf := make([]byte, multiZoneEffectSize)
	putMultiZoneEffect(buf, m.Settings)
	return buf
}

func decodeSetMultiZoneEffect(b []byte) (Message, error) {
	if err := need(b, multiZoneEffectSize, TypeSetMultiZoneEffect); err != nil {
		return nil, err
	}
	return &SetMultiZoneEffect{Settings: getMultiZoneEffect(b)}, nil
}

// StateMultiZoneEffect reports the running multizone effect.
type StateMultiZoneEffect struct {
	Settings MultiZoneEffectSettings
}

func (*StateMultiZoneEffect) Type() uint16 { return TypeStateMultiZoneEffect }

func (m *StateMultiZoneEffect) MarshalPayload() []byte {
	buf := make([]byte, multiZoneEffectSize)
	putMultiZoneEffect(buf, m.Settings)
	return buf
}

func decodeStateMultiZoneEffect(b []byte) (Message, error) {
	if err := need(b, multiZoneEffectSize, TypeStateMultiZoneEffect); err != nil {
		return nil, err
	}
	return &StateMultiZoneEffect{Settings: getMultiZoneEffect(b)}, nil
}

// SetExtendedColorZones sets up to 82 zone colours in one packet,
// starting at Index.
type SetExtendedColorZones struct {
	Duration    uint32
	Apply       ApplicationRequest
	Index       uint16
	ColorsCount uint8
	Colors      [ExtendedZones]Hsbk
}

func (*SetExtendedColorZones) Type() uint16 { return TypeSetExtendedColorZones }

func (m *SetExtendedColorZones) MarshalPayload() []byte {
	buf := make([]byte, 8+ExtendedZones*hsbkSize)
	binary.LittleEndian.PutUint32(buf[0:], m.Duration)
	buf[4] = uint8(m.Apply)
	binary.LittleEndian.PutUint16(buf[5:], m.Index)
	buf[7] = m.ColorsCount
	for i, c := range m.Colors {
		putHsbk(buf[8+i*hsbkSize:], c)
	}
	return buf
}

func decodeSetExtendedColorZones(b []byte) (Message, error) {
	if err := need(b, 8+ExtendedZones*hsbkSize, TypeSetExtendedColorZones); err != nil {
		return nil, err
	}
	m := &SetExtendedColorZones{
		Duration:    binary.LittleEndian.Uint32(b[0:]),
		Apply:       ApplicationRequest(b[4]),
		Index:       binary.LittleEndian.Uint16(b[5:]),
		ColorsCount: b[7],
	}
	for i := range m.Colors {
		m.Colors[i] = getHsbk(b[8+i*hsbkSize:])
	}
	return m, nil
}

// GetExtendedColorZones requests all zone colours in extended form.
type GetExtendedColorZones struct{}

func (*GetExtendedColorZones) Type() uint16           { return TypeGetExtendedColorZones }
func (*GetExtendedColorZones) MarshalPayload() []byte { return nil }

// StateExtendedColorZones reports up to 82 zone colours starting at
// Index. Count is the device's total zone count.
type StateExtendedColorZones struct {
	Count       uint16
	Index       uint16
	ColorsCount uint8
	Colors      [ExtendedZones]Hsbk
}

func (*StateExtendedColorZones) Type() uint16 { return TypeStateExtendedColorZones }

func (m *StateExtendedColorZones) MarshalPayload() []byte {
	buf := make([]byte, 5+ExtendedZones*hsbkSize)
	binary.LittleEndian.PutUint16(buf[0:], m.Count)
	binary.LittleEndian.PutUint16(buf[2:], m.Index)
	buf[4] = m.ColorsCount
	for i, c := range m.Colors {
		putHsbk(buf[5+i*hsbkSize:], c)
	}
	return buf
}

func decodeStateExtendedColorZones(b []byte) (Message, error) {
	if err := need(b, 5+ExtendedZones*hsbkSize, TypeStateExtendedColorZones); err != nil {
		return nil, err
	}
	m := &StateExtendedColorZones{
		Count:       binary.LittleEndian.Uint16(b[0:]),
		Index:       binary.LittleEndian.Uint16(b[2:]),
		ColorsCount: b[4],
	}
	for i := range m.Colors {
		m.Colors[i] = getHsbk(b[5+i*hsbkSize:])
	}
	return m, nil
}
