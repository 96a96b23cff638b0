package products

// VendorLifx is the only vendor ID the registry covers.
const VendorLifx uint32 = 1

// Features describes what a product's hardware can do.
type Features struct {
	Color              bool `json:"color"`
	Infrared           bool `json:"infrared"`
	Multizone          bool `json:"multizone"`
	ExtendedMultizone  bool `json:"extended_multizone"`
	Matrix             bool `json:"matrix"`
	Chain              bool `json:"chain"`
	Hev                bool `json:"hev"`
	Relays             bool `json:"relays"`
	Buttons            bool `json:"buttons"`

	// MinExtMultizoneFirmware is the firmware build timestamp from
	// which a non-native product supports the extended multizone
	// encoding. Zero means no upgrade path exists.
	MinExtMultizoneFirmware uint64 `json:"min_ext_mz_firmware,omitempty"`
}

// Product is one registry entry.
type Product struct {
	ID       uint32   `json:"pid"`
	Name     string   `json:"name"`
	Vendor   uint32   `json:"vendor"`
	Features Features `json:"features"`

	// Colour temperature bounds in kelvin.
	MinKelvin uint16 `json:"min_kelvin"`
	MaxKelvin uint16 `json:"max_kelvin"`

	// Defaults for capability-gated state. Zero when not applicable.
	DefaultZoneCount  int `json:"default_zone_count,omitempty"`
	DefaultTileCount  int `json:"default_tile_count,omitempty"`
	DefaultTileWidth  int `json:"default_tile_width,omitempty"`
	DefaultTileHeight int `json:"default_tile_height,omitempty"`
}

// Get returns the product entry for an ID.
func Get(id uint32) (Product, bool) {
	p, ok := registry[id]
	return p, ok
}

// All returns every registered product, in ascending ID order.
func All() []Product {
	out := make([]Product, 0, len(registry))
	for _, id := range registryOrder {
		out = append(out, registry[id])
	}
	return out
}

// SupportsExtendedMultizone reports whether a product accepts the
// extended multizone packets given the firmware build it reports.
//
// Products whose feature table carries extended_multizone natively
// need no firmware check. Products with an upgrade bound support the
// encoding only when the reported build reaches the bound.
func SupportsExtendedMultizone(id uint32, firmwareBuild uint64) bool {
	p, ok := registry[id]
	if !ok || !p.Features.Multizone {
		return false
	}
	if p.Features.ExtendedMultizone {
		return true
	}
	if p.Features.MinExtMultizoneFirmware == 0 {
		return false
	}
	return firmwareBuild >= p.Features.MinExtMultizoneFirmware
}

// IsSwitch reports whether a product is a relay switch: it has relays
// and buttons but no light engine, so Light/MultiZone/Tile packets
// answer StateUnhandled.
func IsSwitch(id uint32) bool {
	p, ok := registry[id]
	return ok && p.Features.Relays && p.Features.Buttons && !p.Features.Color
}
