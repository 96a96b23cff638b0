package protocol

import (
	"encoding/binary"
	"math"
)

// Light namespace payloads (packet types 101–149).

// LightGet requests the light state.
type LightGet struct{}

func (*LightGet) Type() uint16           { return TypeLightGet }
func (*LightGet) MarshalPayload() []byte { return nil }

// LightSetColor sets the light colour over an optional transition
// duration in milliseconds.
type LightSetColor struct {
	Color    Hsbk
	Duration uint32
}

func (*LightSetColor) Type() uint16 { return TypeLightSetColor }

func (m *LightSetColor) MarshalPayload() []byte {
	buf := make([]byte, 13)
	// buf[0] reserved
	putHsbk(buf[1:], m.Color)
	binary.LittleEndian.PutUint32(buf[9:], m.Duration)
	return buf
}

func decodeLightSetColor(b []byte) (Message, error) {
	if err := need(b, 13, TypeLightSetColor); err != nil {
		return nil, err
	}
	return &LightSetColor{
		Color:    getHsbk(b[1:]),
		Duration: binary.LittleEndian.Uint32(b[9:]),
	}, nil
}

// SetWaveform runs a colour waveform effect.
type SetWaveform struct {
	Transient bool
	Color     Hsbk
	Period    uint32
	Cycles    float32
	SkewRatio int16
	Waveform  Waveform
}

func (*SetWaveform) Type() uint16 { return TypeSetWaveform }

func (m *SetWaveform) MarshalPayload() []byte {
	buf := make([]byte, 21)
	// buf[0] reserved
	if m.Transient {
		buf[1] = 1
	}
	putHsbk(buf[2:], m.Color)
	binary.LittleEndian.PutUint32(buf[10:], m.Period)
	binary.LittleEndian.PutUint32(buf[14:], math.Float32bits(m.Cycles))
	binary.LittleEndian.PutUint16(buf[18:], uint16(m.SkewRatio))
	buf[20] = uint8(m.Waveform)
	return buf
}

func decodeSetWaveform(b []byte) (Message, error) {
	if err := need(b, 21, TypeSetWaveform); err != nil {
		return nil, err
	}
	return &SetWaveform{
		Transient: b[1] != 0,
		Color:     getHsbk(b[2:]),
		Period:    binary.LittleEndian.Uint32(b[10:]),
		Cycles:    math.Float32frombits(binary.LittleEndian.Uint32(b[14:])),
		SkewRatio: int16(binary.LittleEndian.Uint16(b[18:])),
		Waveform:  Waveform(b[20]),
	}, nil
}

// SetWaveformOptional runs a waveform that can leave individual Hsbk
// components untouched.
type SetWaveformOptional struct {
	Transient     bool
	Color         Hsbk
	Period        uint32
	Cycles        float32
	SkewRatio     int16
	Waveform      Waveform
	SetHue        bool
	SetSaturation bool
	SetBrightness bool
	SetKelvin     bool
}

func (*SetWaveformOptional) Type() uint16 { return TypeSetWaveformOptional }

func (m *SetWaveformOptional) MarshalPayload() []byte {
	buf := make([]byte, 25)
	if m.Transient {
		buf[1] = 1
	}
	putHsbk(buf[2:], m.Color)
	binary.LittleEndian.PutUint32(buf[10:], m.Period)
	binary.LittleEndian.PutUint32(buf[14:], math.Float32bits(m.Cycles))
	binary.LittleEndian.PutUint16(buf[18:], uint16(m.SkewRatio))
	buf[20] = uint8(m.Waveform)
	putBool(buf, 21, m.SetHue)
	putBool(buf, 22, m.SetSaturation)
	putBool(buf, 23, m.SetBrightness)
	putBool(buf, 24, m.SetKelvin)
	return buf
}

func putBool(buf []byte, i int, v bool) {
	if v {
		buf[i] = 1
	}
}

func decodeSetWaveformOptional(b []byte) (Message, error) {
	if err := need(b, 25, TypeSetWaveformOptional); err != nil {
		return nil, err
	}
	return &SetWaveformOptional{
		Transient:     b[1] != 0,
		Color:         getHsbk(b[2:]),
		Period:        binary.LittleEndian.Uint32(b[10:]),
		Cycles:        math.Float32frombits(binary.LittleEndian.Uint32(b[14:])),
		SkewRatio:     int16(binary.LittleEndian.Uint16(b[18:])),
		Waveform:      Waveform(b[20]),
		SetHue:        b[21] != 0,
		SetSaturation: b[22] != 0,
		SetBrightness: b[23] != 0,
		SetKelvin:     b[24] != 0,
	}, nil
}

// LightState reports the light colour, power and label.
type LightState struct {
	Color Hsbk
	Power uint16
	Label string
}

func (*LightState) Type() uint16 { return TypeLightState }

func (m *LightState) MarshalPayload() []byte {
	buf := make([]byte, 52)
	putHsbk(buf[0:], m.Color)
	// buf[8:10] reserved
	binary.LittleEndian.PutUint16(buf[10:], m.Power)
	putLabel(buf[12:44], m.Label)
	// buf[44:52] reserved
	return buf
}

func decodeLightState(b []byte) (Message, error) {
	if err := need(b, 52, TypeLightState); err != nil {
		return nil, err
	}
	return &LightState{
		Color: getHsbk(b[0:]),
		Power: binary.LittleEndian.Uint16(b[10:]),
		Label: getLabel(b[12:44]),
	}, nil
}

// LightGetPower requests the light power level.
type LightGetPower struct{}

func (*LightGetPower) Type() uint16           { return TypeLightGetPower }
func (*LightGetPower) MarshalPayload() []byte { return nil }

// LightSetPower sets the light power level over a transition duration
// in milliseconds.
type LightSetPower struct {
	Level    uint16
	Duration uint32
}

func (*LightSetPower) Type() uint16 { return TypeLightSetPower }

func (m *LightSetPower) MarshalPayload() []byte {
	buf := make([]byte, 6)
	binary.LittleEndian.PutUint16(buf[0:], m.Level)
	binary.LittleEndian.PutUint32(buf[2:], m.Duration)
	return buf
}

func decodeLightSetPower(b []byte) (Message, error) {
	if err := need(b, 6, TypeLightSetPower); err != nil {
		return nil, err
	}
	return &LightSetPower{
		Level:    binary.LittleEndian.Uint16(b[0:]),
		Duration: binary.LittleEndian.Uint32(b[2:]),
	}, nil
}

// LightStatePower reports the light power level.
type LightStatePower struct {
	Level uint16
}

func (*LightStatePower) Type() uint16 { return TypeLightStatePower }

func (m *LightStatePower) MarshalPayload() []byte {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, m.Level)
	return buf
}

func decodeLightStatePower(b []byte) (Message, error) {
	if err := need(b, 2, TypeLightStatePower); err != nil {
		return nil, err
	}
	return &LightStatePower{Level: binary.LittleEndian.Uint16(b)}, nil
}

// GetInfrared requests the infrared brightness.
type GetInfrared struct{}

func (*GetInfrared) Type() uint16           { return TypeGetInfrared }
func (*GetInfrared) MarshalPayload() []byte { return nil }

// StateInfrared reports the infrared brightness.
type StateInfrared struct {
	Brightness uint16
}

func (*StateInfrared) Type() uint16 { return TypeStateInfrared }

func (m *StateInfrared) MarshalPayload() []byte {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, m.Brightness)
	return buf
}

func decodeStateInfrared(b []byte) (Message, error) {
	if err := need(b, 2, TypeStateInfrared); err != nil {
		return nil, err
	}
	return &StateInfrared{Brightness: binary.LittleEndian.Uint16(b)}, nil
}

// SetInfrared sets the infrared brightness.
type SetInfrared struct {
	Brightness uint16
}

func (*SetInfrared) Type() uint16 { return TypeSetInfrared }

func (m *SetInfrared) MarshalPayload() []byte {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, m.Brightness)
	return buf
}

func decodeSetInfrared(b []byte) (Message, error) {
	if err := need(b, 2, TypeSetInfrared); err != nil {
		return nil, err
	}
	return &SetInfrared{Brightness: binary.LittleEndian.Uint16(b)}, nil
}

// GetHevCycle requests the HEV cleaning cycle state.
type GetHevCycle struct{}

func (*GetHevCycle) Type() uint16           { return TypeGetHevCycle }
func (*GetHevCycle) MarshalPayload() []byte { return nil }

// SetHevCycle starts or stops a HEV cleaning cycle.
type SetHevCycle struct {
	Enable   bool
	Duration uint32 // seconds; 0 selects the configured default
}

func (*SetHevCycle) Type() uint16 { return TypeSetHevCycle }

func (m *SetHevCycle) MarshalPayload() []byte {
	buf := make([]byte, 5)
	if m.Enable {
		buf[0] = 1
	}
	binary.LittleEndian.PutUint32(buf[1:], m.Duration)
	return buf
}

func decodeSetHevCycle(b []byte) (Message, error) {
	if err := need(b, 5, TypeSetHevCycle); err != nil {
		return nil, err
	}
	return &SetHevCycle{
		Enable:   b[0] != 0,
		Duration: binary.LittleEndian.Uint32(b[1:]),
	}, nil
}

// StateHevCycle reports the HEV cycle duration, time remaining and the
// power level to restore afterwards.
type StateHevCycle struct {
	Duration  uint32
	Remaining uint32
	LastPower bool
}

func (*StateHevCycle) Type() uint16 { return TypeStateHevCycle }

func (m *StateHevCycle) MarshalPayload() []byte {
	buf := make([]byte, 9)
	binary.LittleEndian.PutUint32(buf[0:], m.Duration)
	binary.LittleEndian.PutUint32(buf[4:], m.Remaining)
	if m.LastPower {
		buf[8] = 1
	}
	return buf
}

func decodeStateHevCycle(b []byte) (Message, error) {
	if err := need(b, 9, TypeStateHevCycle); err != nil {
		return nil, err
	}
	return &StateHevCycle{
		Duration:  binary.LittleEndian.Uint32(b[0:]),
		Remaining: binary.LittleEndian.Uint32(b[4:]),
		LastPower: b[8] != 0,
	}, nil
}

// GetHevCycleConfiguration requests the default HEV cycle settings.
type GetHevCycleConfiguration struct{}

func (*GetHevCycleConfiguration) Type() uint16           { return TypeGetHevCycleConfiguration }
func (*GetHevCycleConfiguration) MarshalPayload() []byte { return nil }

// SetHevCycleConfiguration sets the default HEV cycle settings.
type SetHevCycleConfiguration struct {
	Indication bool
	Duration   uint32
}

func (*SetHevCycleConfiguration) Type() uint16 { return TypeSetHevCycleConfiguration }

func (m *SetHevCycleConfiguration) MarshalPayload() []byte {
	buf := make([]byte, 5)
	if m.Indication {
		buf[0] = 1
	}
	binary.LittleEndian.PutUint32(buf[1:], m.Duration)
	return buf
}

func decodeSetHevCycleConfiguration(b []byte) (Message, error) {
	if err := need(b, 5, TypeSetHevCycleConfiguration); err != nil {
		return nil, err
	}
	return &SetHevCycleConfiguration{
		Indication: b[0] != 0,
		Duration:   binary.LittleEndian.Uint32(b[1:]),
	}, nil
}

// StateHevCycleConfiguration reports the default HEV cycle settings.
type StateHevCycleConfiguration struct {
	Indication bool
	Duration   uint32
}

func (*StateHevCycleConfiguration) Type() uint16 { return TypeStateHevCycleConfiguration }

func (m *StateHevCycleConfiguration) MarshalPayload() []byte {
	buf := make([]byte, 5)
	if m.Indication {
		buf[0] = 1
	}
	binary.LittleEndian.PutUint32(buf[1:], m.Duration)
	return buf
}

func decodeStateHevCycleConfiguration(b []byte) (Message, error) {
	if err := need(b, 5, TypeStateHevCycleConfiguration); err != nil {
		return nil, err
	}
	return &StateHevCycleConfiguration{
		Indication: b[0] != 0,
		Duration:   binary.LittleEndian.Uint32(b[1:]),
	}, nil
}

// GetLastHevCycleResult requests the outcome of the last HEV cycle.
type GetLastHevCycleResult struct{}

func (*GetLastHevCycleResult) Type() uint16           { return TypeGetLastHevCycleResult }
func (*GetLastHevCycleResult) MarshalPayload() []byte { return nil }

// StateLastHevCycleResult reports the outcome of the last HEV cycle.
type StateLastHevCycleResult struct {
	Result HevCycleResult
}

func (*StateLastHevCycleResult) Type() uint16 { return TypeStateLastHevCycleResult }

func (m *StateLastHevCycleResult) MarshalPayload() []byte {
	return []byte{uint8(m.Result)}
}

func decodeStateLastHevCycleResult(b []byte) (Message, error) {
	if err := need(b, 1, TypeStateLastHevCycleResult); err != nil {
		return nil, err
	}
	return &StateLastHevCycleResult{Result: HevCycleResult(b[0])}, nil
}
