package protocol

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Hsbk is the LIFX colour representation: hue, saturation and
// brightness span the full uint16 range; kelvin is meaningful between
// 1500 and 9000.
type Hsbk struct {
	Hue        uint16 `json:"hue"`
	Saturation uint16 `json:"saturation"`
	Brightness uint16 `json:"brightness"`
	Kelvin     uint16 `json:"kelvin"`
}

// Colour temperature bounds enforced on writes.
const (
	MinKelvin uint16 = 1500
	MaxKelvin uint16 = 9000
)

// hsbkSize is the encoded size of one Hsbk value.
const hsbkSize = 8

// ClampKelvin bounds a kelvin value to the supported [1500, 9000] range.
func ClampKelvin(k uint16) uint16 {
	if k < MinKelvin {
		return MinKelvin
	}
	if k > MaxKelvin {
		return MaxKelvin
	}
	return k
}

func putHsbk(buf []byte, c Hsbk) {
	binary.LittleEndian.PutUint16(buf[0:], c.Hue)
	binary.LittleEndian.PutUint16(buf[2:], c.Saturation)
	binary.LittleEndian.PutUint16(buf[4:], c.Brightness)
	binary.LittleEndian.PutUint16(buf[6:], c.Kelvin)
}

func getHsbk(buf []byte) Hsbk {
	return Hsbk{
		Hue:        binary.LittleEndian.Uint16(buf[0:]),
		Saturation: binary.LittleEndian.Uint16(buf[2:]),
		Brightness: binary.LittleEndian.Uint16(buf[4:]),
		Kelvin:     binary.LittleEndian.Uint16(buf[6:]),
	}
}

// ServiceType identifies the transport a StateService advertises.
// Unknown values are preserved numerically.
type ServiceType uint8

// ServiceUDP is the only service physical devices advertise.
const ServiceUDP ServiceType = 1

func (s ServiceType) String() string {
	if s == ServiceUDP {
		return "UDP"
	}
	return fmt.Sprintf("Unknown(%d)", uint8(s))
}

// Waveform selects the effect shape for SetWaveform.
type Waveform uint8

// Waveform shapes.
const (
	WaveformSaw Waveform = iota
	WaveformSine
	WaveformHalfSine
	WaveformTriangle
	WaveformPulse
)

func (w Waveform) String() string {
	switch w {
	case WaveformSaw:
		return "SAW"
	case WaveformSine:
		return "SINE"
	case WaveformHalfSine:
		return "HALF_SINE"
	case WaveformTriangle:
		return "TRIANGLE"
	case WaveformPulse:
		return "PULSE"
	}
	return fmt.Sprintf("Unknown(%d)", uint8(w))
}

// ApplicationRequest controls when SetColorZones changes take effect.
type ApplicationRequest uint8

// Application requests.
const (
	ApplyNo    ApplicationRequest = 0
	ApplyNow   ApplicationRequest = 1
	ApplyQueue ApplicationRequest = 2
)

func (a ApplicationRequest) String() string {
	switch a {
	case ApplyNo:
		return "NO_APPLY"
	case ApplyNow:
		return "APPLY"
	case ApplyQueue:
		return "APPLY_ONLY"
	}
	return fmt.Sprintf("Unknown(%d)", uint8(a))
}

// MultiZoneEffectType identifies a running multizone effect.
type MultiZoneEffectType uint8

// Multizone effect types.
const (
	MultiZoneEffectOff  MultiZoneEffectType = 0
	MultiZoneEffectMove MultiZoneEffectType = 1
)

func (e MultiZoneEffectType) String() string {
	switch e {
	case MultiZoneEffectOff:
		return "OFF"
	case MultiZoneEffectMove:
		return "MOVE"
	}
	return fmt.Sprintf("Unknown(%d)", uint8(e))
}

// TileEffectType identifies a running matrix effect.
type TileEffectType uint8

// Tile effect types.
const (
	TileEffectOff   TileEffectType = 0
	TileEffectMorph TileEffectType = 2
	TileEffectFlame TileEffectType = 3
	TileEffectSky   TileEffectType = 5
)

func (e TileEffectType) String() string {
	switch e {
	case TileEffectOff:
		return "OFF"
	case TileEffectMorph:
		return "MORPH"
	case TileEffectFlame:
		return "FLAME"
	case TileEffectSky:
		return "SKY"
	}
	return fmt.Sprintf("Unknown(%d)", uint8(e))
}

// HevCycleResult reports how the last HEV cleaning cycle ended.
type HevCycleResult uint8

// HEV cycle results.
const (
	HevResultSuccess              HevCycleResult = 0
	HevResultBusy                 HevCycleResult = 1
	HevResultInterruptedByReset   HevCycleResult = 2
	HevResultInterruptedByHomekit HevCycleResult = 3
	HevResultInterruptedByLAN     HevCycleResult = 4
	HevResultInterruptedByCloud   HevCycleResult = 5
	HevResultNone                 HevCycleResult = 255
)

// TileStateDevice describes one tile in a device chain: accelerometer
// reading, user position, pixel dimensions and firmware identity.
// Encoded size is 55 bytes at fixed offsets.
type TileStateDevice struct {
	AccelMeasX      int16   `json:"accel_meas_x"`
	AccelMeasY      int16   `json:"accel_meas_y"`
	AccelMeasZ      int16   `json:"accel_meas_z"`
	UserX           float32 `json:"user_x"`
	UserY           float32 `json:"user_y"`
	Width           uint8   `json:"width"`
	Height          uint8   `json:"height"`
	DeviceVendor    uint32  `json:"device_version_vendor"`
	DeviceProduct   uint32  `json:"device_version_product"`
	FirmwareBuild   uint64  `json:"firmware_build"`
	FirmwareMinor   uint16  `json:"firmware_version_minor"`
	FirmwareMajor   uint16  `json:"firmware_version_major"`
}

// tileStateDeviceSize is the encoded size of one TileStateDevice.
const tileStateDeviceSize = 55

func putTileStateDevice(buf []byte, t TileStateDevice) {
	binary.LittleEndian.PutUint16(buf[0:], uint16(t.AccelMeasX))
	binary.LittleEndian.PutUint16(buf[2:], uint16(t.AccelMeasY))
	binary.LittleEndian.PutUint16(buf[4:], uint16(t.AccelMeasZ))
	// buf[6:8] reserved
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(t.UserX))
	binary.LittleEndian.PutUint32(buf[12:], math.Float32bits(t.UserY))
	buf[16] = t.Width
	buf[17] = t.Height
	// buf[18] reserved
	binary.LittleEndian.PutUint32(buf[19:], t.DeviceVendor)
	binary.LittleEndian.PutUint32(buf[23:], t.DeviceProduct)
	// buf[27:31] reserved (device version)
	binary.LittleEndian.PutUint64(buf[31:], t.FirmwareBuild)
	// buf[39:47] reserved
	binary.LittleEndian.PutUint16(buf[47:], t.FirmwareMinor)
	binary.LittleEndian.PutUint16(buf[49:], t.FirmwareMajor)
	// buf[51:55] reserved
}

func getTileStateDevice(buf []byte) TileStateDevice {
	return TileStateDevice{
		AccelMeasX:    int16(binary.LittleEndian.Uint16(buf[0:])),
		AccelMeasY:    int16(binary.LittleEndian.Uint16(buf[2:])),
		AccelMeasZ:    int16(binary.LittleEndian.Uint16(buf[4:])),
		UserX:         math.Float32frombits(binary.LittleEndian.Uint32(buf[8:])),
		UserY:         math.Float32frombits(binary.LittleEndian.Uint32(buf[12:])),
		Width:         buf[16],
		Height:        buf[17],
		DeviceVendor:  binary.LittleEndian.Uint32(buf[19:]),
		DeviceProduct: binary.LittleEndian.Uint32(buf[23:]),
		FirmwareBuild: binary.LittleEndian.Uint64(buf[31:]),
		FirmwareMinor: binary.LittleEndian.Uint16(buf[47:]),
		FirmwareMajor: binary.LittleEndian.Uint16(buf[49:]),
	}
}

// TileBufferRect addresses a rectangle inside one of a tile's eight
// framebuffers. FBIndex 0 is the visible buffer; 1..7 are scratch
// buffers allocated on first write.
type TileBufferRect struct {
	FBIndex uint8 `json:"fb_index"`
	X       uint8 `json:"x"`
	Y       uint8 `json:"y"`
	Width   uint8 `json:"width"`
}

// tileBufferRectSize is the encoded size of one TileBufferRect.
const tileBufferRectSize = 4

func putTileBufferRect(buf []byte, r TileBufferRect) {
	buf[0] = r.FBIndex
	buf[1] = r.X
	buf[2] = r.Y
	buf[3] = r.Width
}

func getTileBufferRect(buf []byte) TileBufferRect {
	return TileBufferRect{FBIndex: buf[0], X: buf[1], Y: buf[2], Width: buf[3]}
}

// putLabel writes a label into a fixed 32-byte field, truncating to
// the field size. Shorter labels are zero-padded.
func putLabel(buf []byte, label string) {
	copy(buf[:32], label)
}

// getLabel reads a fixed 32-byte label field, trimming trailing NULs.
func getLabel(buf []byte) string {
	b := buf[:32]
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
