package products

import "testing"

func TestGet(t *testing.T) {
	p, ok := Get(27)
	if !ok {
		t.Fatal("Get(27) not found")
	}
	if p.Name != "LIFX A19" {
		t.Errorf("Name = %q, want LIFX A19", p.Name)
	}
	if !p.Features.Color {
		t.Error("A19 should have colour")
	}
	if p.Vendor != VendorLifx {
		t.Errorf("Vendor = %d, want %d", p.Vendor, VendorLifx)
	}

	if _, ok := Get(9999); ok {
		t.Error("Get(9999) should not be found")
	}
}

func TestAllOrdered(t *testing.T) {
	all := All()
	if len(all) != len(registry) {
		t.Fatalf("All() length = %d, want %d", len(all), len(registry))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].ID >= all[i].ID {
			t.Fatalf("All() not in ascending ID order at index %d: %d >= %d", i, all[i-1].ID, all[i].ID)
		}
	}
}

func TestSupportsExtendedMultizone(t *testing.T) {
	tests := []struct {
		name  string
		id    uint32
		build uint64
		want  bool
	}{
		{"native support ignores firmware", 117, 0, true},
		{"upgradeable below bound", 32, 1500000000, false},
		{"upgradeable at bound", 32, 1532997580, true},
		{"upgradeable above bound", 32, 1600000000, true},
		{"no upgrade path", 31, 1600000000, false},
		{"not multizone", 27, 1600000000, false},
		{"unknown product", 9999, 1600000000, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SupportsExtendedMultizone(tt.id, tt.build); got != tt.want {
				t.Errorf("SupportsExtendedMultizone(%d, %d) = %v, want %v", tt.id, tt.build, got, tt.want)
			}
		})
	}
}

func TestIsSwitch(t *testing.T) {
	for _, id := range []uint32{70, 71, 89, 115, 116} {
		if !IsSwitch(id) {
			t.Errorf("IsSwitch(%d) = false, want true", id)
		}
		p, _ := Get(id)
		if p.Features.Color || p.Features.Multizone || p.Features.Matrix {
			t.Errorf("switch %d should carry no light capabilities", id)
		}
	}
	if IsSwitch(27) {
		t.Error("IsSwitch(27) = true, want false")
	}
}

func TestSwitchAndStripDefaults(t *testing.T) {
	z, _ := Get(32)
	if z.DefaultZoneCount != 8 {
		t.Errorf("Z default zones = %d, want 8", z.DefaultZoneCount)
	}
	tile, _ := Get(55)
	if tile.DefaultTileCount != 5 || tile.DefaultTileWidth != 8 || tile.DefaultTileHeight != 8 {
		t.Errorf("Tile defaults = %d %dx%d, want 5 8x8", tile.DefaultTileCount, tile.DefaultTileWidth, tile.DefaultTileHeight)
	}
	if !tile.Features.Chain {
		t.Error("Tile should support chaining")
	}
}
