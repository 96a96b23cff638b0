package device

import (
	"time"

	"github.com/Djelibeybi/lifx-emulator/internal/protocol"
)

// Defaults reported for sub-state reads on devices without the
// matching capability.
const (
	DefaultTileWidth  = 8
	DefaultTileHeight = 8

	// DefaultRelayCount is the relay count of switch products.
	DefaultRelayCount = 4
)

// Capabilities are the product-derived feature flags and colour
// temperature bounds. They are fixed at creation time.
type Capabilities struct {
	HasColor             bool `json:"has_color"`
	HasInfrared          bool `json:"has_infrared"`
	HasMultizone         bool `json:"has_multizone"`
	HasExtendedMultizone bool `json:"has_extended_multizone"`
	HasMatrix            bool `json:"has_matrix"`
	HasChain             bool `json:"has_chain"`
	HasHev               bool `json:"has_hev"`
	HasRelays            bool `json:"has_relays"`
	HasButtons           bool `json:"has_buttons"`

	MinKelvin uint16 `json:"min_kelvin"`
	MaxKelvin uint16 `json:"max_kelvin"`
}

// IsSwitch reports whether the device is a relay switch: relays and
// buttons but no light engine. Switches reject every Light, MultiZone
// and Tile packet with StateUnhandled.
func (c Capabilities) IsSwitch() bool {
	return c.HasRelays && c.HasButtons && !c.HasColor
}

// Collection is the shared shape of the location and group records.
type Collection struct {
	ID        [16]byte `json:"id"`
	Label     string   `json:"label"`
	UpdatedAt uint64   `json:"updated_at"`
}

// WaveformState remembers the parameters of the last waveform request.
type WaveformState struct {
	Transient bool              `json:"transient"`
	Color     protocol.Hsbk     `json:"color"`
	Period    uint32            `json:"period"`
	Cycles    float32           `json:"cycles"`
	SkewRatio int16             `json:"skew_ratio"`
	Waveform  protocol.Waveform `json:"waveform"`
}

// InfraredState is present when the product has an infrared channel.
type InfraredState struct {
	Brightness uint16 `json:"brightness"`
}

// HevState is present on HEV (germicidal UV) products.
type HevState struct {
	CycleDuration   uint32                  `json:"cycle_duration_s"`
	CycleRemaining  uint32                  `json:"cycle_remaining_s"`
	LastPower       bool                    `json:"last_power"`
	Indication      bool                    `json:"indication"`
	DefaultDuration uint32                  `json:"default_duration_s"`
	LastResult      protocol.HevCycleResult `json:"last_result"`
}

// MultizoneState is present on linear multizone products.
type MultizoneState struct {
	Colors []protocol.Hsbk                  `json:"zone_colors"`
	Effect protocol.MultiZoneEffectSettings `json:"effect"`
}

// Tile is one matrix tile: its chain metadata and up to eight
// framebuffers. Buffer 0 is the visible pixels and is always
// allocated; buffers 1..7 are allocated on first write.
type Tile struct {
	Meta    protocol.TileStateDevice                       `json:"meta"`
	Buffers [protocol.TileFramebuffers][]protocol.Hsbk `json:"buffers"`
}

// MatrixState is present on 2D matrix products. All tiles in one
// device share identical width and height.
type MatrixState struct {
	TileWidth  int    `json:"tile_width"`
	TileHeight int    `json:"tile_height"`
	Tiles      []Tile `json:"tiles"`
	Effect     protocol.TileEffectSettings `json:"effect"`
}

// RelayState is present on switch products.
type RelayState struct {
	Powers []uint16 `json:"powers"`
}

// State is the full device record. Mutations must go through the
// setter methods so the dirty flag tracks committed changes.
type State struct {
	Serial string `json:"serial"`
	Label  string `json:"label"`

	PowerLevel uint16        `json:"power_level"`
	Color      protocol.Hsbk `json:"color"`

	Vendor        uint32 `json:"vendor"`
	Product       uint32 `json:"product"`
	FirmwareMajor uint16 `json:"firmware_major"`
	FirmwareMinor uint16 `json:"firmware_minor"`
	FirmwareBuild uint64 `json:"firmware_build"`

	Port       uint32  `json:"port"`
	MAC        string  `json:"mac"`
	WifiSignal float32 `json:"wifi_signal_dbm"`

	Location Collection    `json:"location"`
	Group    Collection    `json:"group"`
	Waveform WaveformState `json:"waveform"`

	Infrared  *InfraredState  `json:"infrared,omitempty"`
	Hev       *HevState       `json:"hev,omitempty"`
	Multizone *MultizoneState `json:"multizone,omitempty"`
	Matrix    *MatrixState    `json:"matrix,omitempty"`
	Relays    *RelayState     `json:"relays,omitempty"`

	Caps Capabilities `json:"caps"`

	// StartedAt anchors the uptime reported by StateInfo. Not
	// persisted; reset on every process start.
	StartedAt time.Time `json:"-"`

	dirty bool
}

// Target returns the 8-byte wire target for this device.
func (s *State) Target() [8]byte {
	target, _ := protocol.TargetFromSerial(s.Serial)
	return target
}

// Uptime returns nanoseconds since the device was created.
func (s *State) Uptime() uint64 {
	return uint64(time.Since(s.StartedAt))
}

// ConsumeDirty returns whether the state changed since the last call
// and clears the flag.
func (s *State) ConsumeDirty() bool {
	d := s.dirty
	s.dirty = false
	return d
}

// markDirty records a committed mutation.
func (s *State) markDirty() { s.dirty = true }

// SetLabel sets the device label, truncated to 32 bytes as on the
// wire.
func (s *State) SetLabel(label string) {
	if len(label) > 32 {
		label = label[:32]
	}
	s.Label = label
	s.markDirty()
}

// SetPowerLevel clamps the level to 0 or 65535 and stores it.
func (s *State) SetPowerLevel(level uint16) {
	if level != 0 {
		level = 65535
	}
	s.PowerLevel = level
	s.markDirty()
}

// SetColor stores the device colour, clamping kelvin to the supported
// range. On multizone devices it also fills every zone; on matrix
// devices it fills every visible pixel.
func (s *State) SetColor(c protocol.Hsbk) {
	c.Kelvin = protocol.ClampKelvin(c.Kelvin)
	s.Color = c
	if s.Multizone != nil {
		for i := range s.Multizone.Colors {
			s.Multizone.Colors[i] = c
		}
	}
	if s.Matrix != nil {
		for t := range s.Matrix.Tiles {
			visible := s.Matrix.Tiles[t].Buffers[0]
			for i := range visible {
				visible[i] = c
			}
		}
	}
	s.markDirty()
}

// SetWaveform records waveform parameters. For a non-transient
// waveform the target colour also becomes the current colour; a
// transient waveform leaves the current colour unchanged.
func (s *State) SetWaveform(w WaveformState) {
	w.Color.Kelvin = protocol.ClampKelvin(w.Color.Kelvin)
	s.Waveform = w
	if !w.Transient {
		s.Color = w.Color
	}
	s.markDirty()
}

// SetLocation replaces the location record.
func (s *State) SetLocation(c Collection) {
	s.Location = c
	s.markDirty()
}

// SetGroup replaces the group record.
func (s *State) SetGroup(c Collection) {
	s.Group = c
	s.markDirty()
}

// InfraredBrightness returns the infrared brightness, or 0 without
// the capability.
func (s *State) InfraredBrightness() uint16 {
	if s.Infrared == nil {
		return 0
	}
	return s.Infrared.Brightness
}

// SetInfraredBrightness stores the infrared brightness. No-op without
// the capability.
func (s *State) SetInfraredBrightness(v uint16) {
	if s.Infrared == nil {
		return
	}
	s.Infrared.Brightness = v
	s.markDirty()
}

// ZoneCount returns the multizone zone count, or 0 without the
// capability.
func (s *State) ZoneCount() int {
	if s.Multizone == nil {
		return 0
	}
	return len(s.Multizone.Colors)
}

// ZoneColors returns the live zone colour slice, or nil without the
// capability. Callers must not grow the slice.
func (s *State) ZoneColors() []protocol.Hsbk {
	if s.Multizone == nil {
		return nil
	}
	return s.Multizone.Colors
}

// SetZoneRange sets zones [start, end] (inclusive, clamped to the
// zone array) to one colour. No-op without the capability.
func (s *State) SetZoneRange(start, end int, c protocol.Hsbk) {
	if s.Multizone == nil {
		return
	}
	c.Kelvin = protocol.ClampKelvin(c.Kelvin)
	last := len(s.Multizone.Colors) - 1
	start = max(start, 0)
	end = min(end, last)
	for i := start; i <= end; i++ {
		s.Multizone.Colors[i] = c
	}
	s.markDirty()
}

// SetZones copies colours into the zone array starting at index.
// No-op without the capability.
func (s *State) SetZones(index int, colors []protocol.Hsbk) {
	if s.Multizone == nil {
		return
	}
	for i, c := range colors {
		zi := index + i
		if zi < 0 || zi >= len(s.Multizone.Colors) {
			continue
		}
		c.Kelvin = protocol.ClampKelvin(c.Kelvin)
		s.Multizone.Colors[zi] = c
	}
	s.markDirty()
}

// SetMultizoneEffect stores the running multizone effect settings.
// No-op without the capability.
func (s *State) SetMultizoneEffect(e protocol.MultiZoneEffectSettings) {
	if s.Multizone == nil {
		return
	}
	s.Multizone.Effect = e
	s.markDirty()
}

// TileCount returns the matrix tile count, or 0 without the
// capability.
func (s *State) TileCount() int {
	if s.Matrix == nil {
		return 0
	}
	return len(s.Matrix.Tiles)
}

// TileWidth returns the shared tile width, or the default without the
// capability.
func (s *State) TileWidth() int {
	if s.Matrix == nil {
		return DefaultTileWidth
	}
	return s.Matrix.TileWidth
}

// TileHeight returns the shared tile height, or the default without
// the capability.
func (s *State) TileHeight() int {
	if s.Matrix == nil {
		return DefaultTileHeight
	}
	return s.Matrix.TileHeight
}

// Framebuffer returns the pixel buffer for one tile framebuffer.
// Buffer 0 always exists; buffers 1..7 are allocated on first access
// when allocate is true, otherwise nil is returned for unallocated
// buffers. Returns nil for out-of-range indices or without the
// capability.
func (s *State) Framebuffer(tile, fb int, allocate bool) []protocol.Hsbk {
	if s.Matrix == nil || tile < 0 || tile >= len(s.Matrix.Tiles) {
		return nil
	}
	if fb < 0 || fb >= protocol.TileFramebuffers {
		return nil
	}
	t := &s.Matrix.Tiles[tile]
	if t.Buffers[fb] == nil && allocate {
		t.Buffers[fb] = make([]protocol.Hsbk, s.Matrix.TileWidth*s.Matrix.TileHeight)
	}
	return t.Buffers[fb]
}

// SetTileRect writes colours into a rectangle of one tile's
// framebuffer, allocating non-visible buffers on first write. Pixels
// outside the tile are ignored. No-op without the capability.
func (s *State) SetTileRect(tile int, rect protocol.TileBufferRect, colors []protocol.Hsbk) {
	buf := s.Framebuffer(tile, int(rect.FBIndex), true)
	if buf == nil {
		return
	}
	width := s.Matrix.TileWidth
	height := s.Matrix.TileHeight
	rw := int(rect.Width)
	if rw == 0 {
		rw = width
	}
	for i, c := range colors {
		x := int(rect.X) + i%rw
		y := int(rect.Y) + i/rw
		if x >= width || y >= height {
			continue
		}
		c.Kelvin = protocol.ClampKelvin(c.Kelvin)
		buf[y*width+x] = c
	}
	s.markDirty()
}

// TileRect reads up to n colours from a rectangle of one tile's
// framebuffer. Unallocated buffers read as all-zero pixels.
func (s *State) TileRect(tile int, rect protocol.TileBufferRect, n int) []protocol.Hsbk {
	out := make([]protocol.Hsbk, 0, n)
	if s.Matrix == nil || tile < 0 || tile >= len(s.Matrix.Tiles) {
		return out
	}
	buf := s.Framebuffer(tile, int(rect.FBIndex), false)
	width := s.Matrix.TileWidth
	height := s.Matrix.TileHeight
	rw := int(rect.Width)
	if rw == 0 {
		rw = width
	}
	for i := 0; i < n; i++ {
		x := int(rect.X) + i%rw
		y := int(rect.Y) + i/rw
		if x >= width || y >= height {
			break
		}
		if buf == nil {
			out = append(out, protocol.Hsbk{})
			continue
		}
		out = append(out, buf[y*width+x])
	}
	return out
}

// CopyFramebufferRect copies a rectangle between two framebuffers of
// one tile, allocating the destination on first write. No-op without
// the capability.
func (s *State) CopyFramebufferRect(tile int, srcFB, dstFB int, x, y, width uint8) {
	src := s.Framebuffer(tile, srcFB, false)
	dst := s.Framebuffer(tile, dstFB, true)
	if dst == nil {
		return
	}
	w := s.Matrix.TileWidth
	h := s.Matrix.TileHeight
	rw := int(width)
	if rw == 0 {
		rw = w
	}
	for py := int(y); py < h; py++ {
		for px := int(x); px < min(int(x)+rw, w); px++ {
			var c protocol.Hsbk
			if src != nil {
				c = src[py*w+px]
			}
			dst[py*w+px] = c
		}
	}
	s.markDirty()
}

// SetTileEffect stores the running matrix effect settings. No-op
// without the capability.
func (s *State) SetTileEffect(e protocol.TileEffectSettings) {
	if s.Matrix == nil {
		return
	}
	s.Matrix.Effect = e
	s.markDirty()
}

// SetUserPosition stores a tile's user position. No-op without the
// capability or for out-of-range tiles.
func (s *State) SetUserPosition(tile int, x, y float32) {
	if s.Matrix == nil || tile < 0 || tile >= len(s.Matrix.Tiles) {
		return
	}
	s.Matrix.Tiles[tile].Meta.UserX = x
	s.Matrix.Tiles[tile].Meta.UserY = y
	s.markDirty()
}

// RelayPower returns one relay's power level, or 0 without the
// capability.
func (s *State) RelayPower(index int) uint16 {
	if s.Relays == nil || index < 0 || index >= len(s.Relays.Powers) {
		return 0
	}
	return s.Relays.Powers[index]
}

// SetRelayPower clamps the level to 0 or 65535 and stores it. No-op
// without the capability.
func (s *State) SetRelayPower(index int, level uint16) {
	if s.Relays == nil || index < 0 || index >= len(s.Relays.Powers) {
		return
	}
	if level != 0 {
		level = 65535
	}
	s.Relays.Powers[index] = level
	s.markDirty()
}

// SetHevCycle starts or stops a HEV cycle. No-op without the
// capability.
func (s *State) SetHevCycle(enable bool, duration uint32) {
	if s.Hev == nil {
		return
	}
	if enable {
		if duration == 0 {
			duration = s.Hev.DefaultDuration
		}
		s.Hev.CycleDuration = duration
		s.Hev.CycleRemaining = duration
		s.Hev.LastPower = s.PowerLevel != 0
		s.Hev.LastResult = protocol.HevResultBusy
	} else {
		s.Hev.CycleRemaining = 0
		s.Hev.LastResult = protocol.HevResultInterruptedByLAN
	}
	s.markDirty()
}

// SetHevConfiguration stores the default HEV cycle settings. No-op
// without the capability.
func (s *State) SetHevConfiguration(indication bool, duration uint32) {
	if s.Hev == nil {
		return
	}
	s.Hev.Indication = indication
	s.Hev.DefaultDuration = duration
	s.markDirty()
}
