package device

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Djelibeybi/lifx-emulator/internal/products"
	"github.com/Djelibeybi/lifx-emulator/internal/protocol"
)

// Factory defaults. Firmware identity matches a recent production
// release so upgrade-gated features resolve sensibly.
const (
	defaultFirmwareMajor = 3
	defaultFirmwareMinor = 70
	defaultFirmwareBuild = 1657600000

	defaultWifiSignal = -45.0
)

// Option customises a device under construction.
type Option func(*State)

// WithLabel overrides the default label (the product name).
func WithLabel(label string) Option {
	return func(s *State) { s.Label = label }
}

// WithPort overrides the advertised UDP port.
func WithPort(port uint32) Option {
	return func(s *State) { s.Port = port }
}

// WithFirmware overrides the reported firmware identity. It affects
// upgrade-gated capabilities such as extended multizone, so it runs
// before capability resolution.
func WithFirmware(major, minor uint16, build uint64) Option {
	return func(s *State) {
		s.FirmwareMajor = major
		s.FirmwareMinor = minor
		s.FirmwareBuild = build
	}
}

// WithZoneCount overrides the product's default zone count. Ignored
// on products without multizone.
func WithZoneCount(n int) Option {
	return func(s *State) {
		if s.Multizone == nil || n < 1 {
			return
		}
		s.Multizone.Colors = defaultZones(n)
	}
}

// WithTileCount overrides the product's default tile count. Ignored
// on products without a matrix.
func WithTileCount(n int) Option {
	return func(s *State) {
		if s.Matrix == nil || n < 1 {
			return
		}
		s.Matrix.Tiles = defaultTiles(n, s.Matrix.TileWidth, s.Matrix.TileHeight)
	}
}

// WithLocation sets the location label.
func WithLocation(label string) Option {
	return func(s *State) {
		s.Location.Label = label
	}
}

// WithGroup sets the group label.
func WithGroup(label string) Option {
	return func(s *State) {
		s.Group.Label = label
	}
}

// NewFromProduct builds a device for a product ID with sub-states
// matching the product's capabilities.
//
// The serial must be twelve hexadecimal characters and unique within
// the running server (uniqueness is the device manager's concern).
func NewFromProduct(productID uint32, serial string, opts ...Option) (*Device, error) {
	if _, err := protocol.TargetFromSerial(serial); err != nil {
		return nil, err
	}
	p, ok := products.Get(productID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownProduct, productID)
	}

	now := uint64(time.Now().UnixNano())
	s := &State{
		Serial:        serial,
		Label:         p.Name,
		Color:         protocol.Hsbk{Hue: 0, Saturation: 0, Brightness: 65535, Kelvin: 3500},
		Vendor:        p.Vendor,
		Product:       p.ID,
		FirmwareMajor: defaultFirmwareMajor,
		FirmwareMinor: defaultFirmwareMinor,
		FirmwareBuild: defaultFirmwareBuild,
		Port:          protocol.DefaultPort,
		MAC:           macFromSerial(serial),
		WifiSignal:    defaultWifiSignal,
		Location:      Collection{ID: [16]byte(uuid.New()), Label: "My Home", UpdatedAt: now},
		Group:         Collection{ID: [16]byte(uuid.New()), Label: "Lights", UpdatedAt: now},
		StartedAt:     time.Now(),
	}

	if p.Features.Infrared {
		s.Infrared = &InfraredState{}
	}
	if p.Features.Hev {
		s.Hev = &HevState{
			DefaultDuration: 7200,
			LastResult:      protocol.HevResultNone,
		}
	}
	if p.Features.Multizone {
		zones := p.DefaultZoneCount
		if zones < 1 {
			zones = 8
		}
		s.Multizone = &MultizoneState{Colors: defaultZones(zones)}
	}
	if p.Features.Matrix {
		width := p.DefaultTileWidth
		if width < 1 {
			width = DefaultTileWidth
		}
		height := p.DefaultTileHeight
		if height < 1 {
			height = DefaultTileHeight
		}
		tiles := p.DefaultTileCount
		if tiles < 1 {
			tiles = 1
		}
		s.Matrix = &MatrixState{TileWidth: width, TileHeight: height}
		s.Matrix.Tiles = defaultTiles(tiles, width, height)
	}
	if p.Features.Relays {
		s.Relays = &RelayState{Powers: make([]uint16, DefaultRelayCount)}
	}

	for _, opt := range opts {
		opt(s)
	}

	// Capability resolution runs after options because WithFirmware
	// can change the extended multizone outcome.
	s.Caps = Capabilities{
		HasColor:             p.Features.Color,
		HasInfrared:          p.Features.Infrared,
		HasMultizone:         p.Features.Multizone,
		HasExtendedMultizone: products.SupportsExtendedMultizone(p.ID, s.FirmwareBuild),
		HasMatrix:            p.Features.Matrix,
		HasChain:             p.Features.Chain,
		HasHev:               p.Features.Hev,
		HasRelays:            p.Features.Relays,
		HasButtons:           p.Features.Buttons,
		MinKelvin:            p.MinKelvin,
		MaxKelvin:            p.MaxKelvin,
	}

	// Tile metadata mirrors the device identity.
	if s.Matrix != nil {
		for i := range s.Matrix.Tiles {
			meta := &s.Matrix.Tiles[i].Meta
			meta.DeviceVendor = s.Vendor
			meta.DeviceProduct = s.Product
			meta.FirmwareBuild = s.FirmwareBuild
			meta.FirmwareMajor = s.FirmwareMajor
			meta.FirmwareMinor = s.FirmwareMinor
		}
	}

	return New(s), nil
}

// NewColorLight builds a colour bulb (product 27).
func NewColorLight(serial string, opts ...Option) (*Device, error) {
	return NewFromProduct(27, serial, opts...)
}

// NewInfraredLight builds a night-vision bulb (product 29).
func NewInfraredLight(serial string, opts ...Option) (*Device, error) {
	return NewFromProduct(29, serial, opts...)
}

// NewMultizoneLight builds a Z strip (product 32).
func NewMultizoneLight(serial string, opts ...Option) (*Device, error) {
	return NewFromProduct(32, serial, opts...)
}

// NewTileDevice builds a Tile chain (product 55).
func NewTileDevice(serial string, opts ...Option) (*Device, error) {
	return NewFromProduct(55, serial, opts...)
}

// NewHevLight builds a Clean bulb (product 90).
func NewHevLight(serial string, opts ...Option) (*Device, error) {
	return NewFromProduct(90, serial, opts...)
}

// NewSwitch builds a relay switch (product 70).
func NewSwitch(serial string, opts ...Option) (*Device, error) {
	return NewFromProduct(70, serial, opts...)
}

// defaultZones returns n zones of warm white.
func defaultZones(n int) []protocol.Hsbk {
	zones := make([]protocol.Hsbk, n)
	for i := range zones {
		zones[i] = protocol.Hsbk{Brightness: 65535, Kelvin: 3500}
	}
	return zones
}

// defaultTiles returns n tiles with allocated visible buffers and
// user positions laid out left to right.
func defaultTiles(n, width, height int) []Tile {
	tiles := make([]Tile, n)
	for i := range tiles {
		tiles[i].Meta = protocol.TileStateDevice{
			UserX:  float32(i),
			Width:  uint8(width),
			Height: uint8(height),
		}
		tiles[i].Buffers[0] = make([]protocol.Hsbk, width*height)
		for px := range tiles[i].Buffers[0] {
			tiles[i].Buffers[0][px] = protocol.Hsbk{Brightness: 65535, Kelvin: 3500}
		}
	}
	return tiles
}

// macFromSerial formats a serial as a colon-separated MAC address.
func macFromSerial(serial string) string {
	mac := ""
	for i := 0; i < len(serial); i += 2 {
		if i > 0 {
			mac += ":"
		}
		mac += serial[i : i+2]
	}
	return mac
}
