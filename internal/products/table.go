package products

// The registry below mirrors the upstream LIFX products definition.
// Keep entries in ascending ID order; regenerate this file when the
// upstream registry changes rather than editing entries piecemeal.

var registryOrder = []uint32{
	1, 3, 10, 11, 18, 20, 22, 27, 28, 29, 30, 31, 32, 36, 37, 38,
	43, 44, 49, 50, 51, 52, 55, 57, 59, 63, 64, 66, 68, 70, 71, 81,
	82, 89, 90, 99, 109, 115, 116, 117, 119, 176,
}

var registry = map[uint32]Product{
	1:  colorBulb(1, "LIFX Original 1000", 2500, 9000),
	3:  colorBulb(3, "LIFX Color 650", 2500, 9000),
	10: whiteBulb(10, "LIFX White 800 (Low Voltage)", 2700, 6500),
	11: whiteBulb(11, "LIFX White 800 (High Voltage)", 2700, 6500),
	18: whiteBulb(18, "LIFX White 900 BR30 (Low Voltage)", 2500, 9000),
	20: colorBulb(20, "LIFX Color 1000 BR30", 2500, 9000),
	22: colorBulb(22, "LIFX Color 1000", 2500, 9000),
	27: colorBulb(27, "LIFX A19", 2500, 9000),
	28: colorBulb(28, "LIFX BR30", 2500, 9000),
	29: infraredBulb(29, "LIFX A19 Night Vision", 2500, 9000),
	30: infraredBulb(30, "LIFX BR30 Night Vision", 2500, 9000),
	31: {
		ID: 31, Name: "LIFX Z", Vendor: VendorLifx,
		Features:  Features{Color: true, Multizone: true},
		MinKelvin: 2500, MaxKelvin: 9000,
		DefaultZoneCount: 8,
	},
	32: {
		ID: 32, Name: "LIFX Z", Vendor: VendorLifx,
		Features: Features{
			Color: true, Multizone: true,
			MinExtMultizoneFirmware: 1532997580,
		},
		MinKelvin: 2500, MaxKelvin: 9000,
		DefaultZoneCount: 8,
	},
	36: colorBulb(36, "LIFX Downlight", 2500, 9000),
	37: colorBulb(37, "LIFX Downlight", 2500, 9000),
	38: {
		ID: 38, Name: "LIFX Beam", Vendor: VendorLifx,
		Features: Features{
			Color: true, Multizone: true,
			MinExtMultizoneFirmware: 1532997580,
		},
		MinKelvin: 2500, MaxKelvin: 9000,
		DefaultZoneCount: 10,
	},
	43: colorBulb(43, "LIFX A19", 2500, 9000),
	44: colorBulb(44, "LIFX BR30", 2500, 9000),
	49: colorBulb(49, "LIFX Mini Color", 1500, 9000),
	50: whiteBulb(50, "LIFX Mini White to Warm", 1500, 4000),
	51: whiteBulb(51, "LIFX Mini White", 2700, 2700),
	52: colorBulb(52, "LIFX GU10", 1500, 9000),
	55: {
		ID: 55, Name: "LIFX Tile", Vendor: VendorLifx,
		Features:  Features{Color: true, Matrix: true, Chain: true},
		MinKelvin: 2500, MaxKelvin: 9000,
		DefaultTileCount: 5, DefaultTileWidth: 8, DefaultTileHeight: 8,
	},
	57: {
		ID: 57, Name: "LIFX Candle", Vendor: VendorLifx,
		Features:  Features{Color: true, Matrix: true},
		MinKelvin: 1500, MaxKelvin: 9000,
		DefaultTileCount: 1, DefaultTileWidth: 5, DefaultTileHeight: 6,
	},
	59: colorBulb(59, "LIFX Mini Color", 1500, 9000),
	63: colorBulb(63, "LIFX A19", 1500, 9000),
	64: colorBulb(64, "LIFX BR30", 1500, 9000),
	66: whiteBulb(66, "LIFX Mini White", 2700, 2700),
	68: {
		ID: 68, Name: "LIFX Candle", Vendor: VendorLifx,
		Features:  Features{Color: true, Matrix: true},
		MinKelvin: 1500, MaxKelvin: 9000,
		DefaultTileCount: 1, DefaultTileWidth: 5, DefaultTileHeight: 6,
	},
	70:  switchProduct(70, "LIFX Switch"),
	71:  switchProduct(71, "LIFX Switch"),
	81:  whiteBulb(81, "LIFX Candle White to Warm", 2200, 6500),
	82:  whiteBulb(82, "LIFX Filament Clear", 2100, 2100),
	89:  switchProduct(89, "LIFX Switch"),
	90: {
		ID: 90, Name: "LIFX Clean", Vendor: VendorLifx,
		Features:  Features{Color: true, Hev: true},
		MinKelvin: 1500, MaxKelvin: 9000,
	},
	99: {
		ID: 99, Name: "LIFX Clean", Vendor: VendorLifx,
		Features:  Features{Color: true, Hev: true},
		MinKelvin: 1500, MaxKelvin: 9000,
	},
	109: infraredBulb(109, "LIFX A19 Night Vision", 1500, 9000),
	115: switchProduct(115, "LIFX Switch"),
	116: switchProduct(116, "LIFX Switch"),
	117: {
		ID: 117, Name: "LIFX Z", Vendor: VendorLifx,
		Features:  Features{Color: true, Multizone: true, ExtendedMultizone: true},
		MinKelvin: 1500, MaxKelvin: 9000,
		DefaultZoneCount: 8,
	},
	119: {
		ID: 119, Name: "LIFX Beam", Vendor: VendorLifx,
		Features:  Features{Color: true, Multizone: true, ExtendedMultizone: true},
		MinKelvin: 1500, MaxKelvin: 9000,
		DefaultZoneCount: 10,
	},
	176: {
		ID: 176, Name: "LIFX Ceiling", Vendor: VendorLifx,
		Features:  Features{Color: true, Matrix: true},
		MinKelvin: 1500, MaxKelvin: 9000,
		DefaultTileCount: 1, DefaultTileWidth: 8, DefaultTileHeight: 8,
	},
}

func colorBulb(id uint32, name string, minK, maxK uint16) Product {
	return Product{
		ID: id, Name: name, Vendor: VendorLifx,
		Features:  Features{Color: true},
		MinKelvin: minK, MaxKelvin: maxK,
	}
}

func whiteBulb(id uint32, name string, minK, maxK uint16) Product {
	return Product{
		ID: id, Name: name, Vendor: VendorLifx,
		MinKelvin: minK, MaxKelvin: maxK,
	}
}

func infraredBulb(id uint32, name string, minK, maxK uint16) Product {
	return Product{
		ID: id, Name: name, Vendor: VendorLifx,
		Features:  Features{Color: true, Infrared: true},
		MinKelvin: minK, MaxKelvin: maxK,
	}
}

func switchProduct(id uint32, name string) Product {
	return Product{
		ID: id, Name: name, Vendor: VendorLifx,
		Features: Features{Relays: true, Buttons: true},
	}
}
