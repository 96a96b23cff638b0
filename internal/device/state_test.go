package device

import (
	"testing"

	"github.com/Djelibeybi/lifx-emulator/internal/protocol"
)

func mustDevice(t *testing.T, productID uint32, serial string, opts ...Option) *Device {
	t.Helper()
	d, err := NewFromProduct(productID, serial, opts...)
	if err != nil {
		t.Fatalf("NewFromProduct(%d, %q) unexpected error: %v", productID, serial, err)
	}
	return d
}

func TestSetPowerLevelClamps(t *testing.T) {
	d := mustDevice(t, 27, "d073d5000001")
	tests := []struct {
		in, want uint16
	}{
		{0, 0},
		{1, 65535},
		{30000, 65535},
		{65535, 65535},
	}
	for _, tt := range tests {
		d.WithState(func(s *State) { s.SetPowerLevel(tt.in) })
		d.WithState(func(s *State) {
			if s.PowerLevel != tt.want {
				t.Errorf("SetPowerLevel(%d): PowerLevel = %d, want %d", tt.in, s.PowerLevel, tt.want)
			}
		})
	}
}

func TestSetColorClampsKelvin(t *testing.T) {
	d := mustDevice(t, 27, "d073d5000001")
	d.WithState(func(s *State) {
		s.SetColor(protocol.Hsbk{Hue: 100, Saturation: 200, Brightness: 300, Kelvin: 12000})
		if s.Color.Kelvin != 9000 {
			t.Errorf("Kelvin = %d, want 9000", s.Color.Kelvin)
		}
		s.SetColor(protocol.Hsbk{Kelvin: 100})
		if s.Color.Kelvin != 1500 {
			t.Errorf("Kelvin = %d, want 1500", s.Color.Kelvin)
		}
	})
}

func TestSetColorFillsZonesAndPixels(t *testing.T) {
	c := protocol.Hsbk{Hue: 5000, Saturation: 65535, Brightness: 65535, Kelvin: 3500}

	strip := mustDevice(t, 32, "d073d5000002", WithZoneCount(16))
	strip.WithState(func(s *State) {
		s.SetColor(c)
		for i, z := range s.ZoneColors() {
			if z != c {
				t.Fatalf("zone %d = %+v, want %+v", i, z, c)
			}
		}
	})

	tile := mustDevice(t, 55, "d073d5000003")
	tile.WithState(func(s *State) {
		s.SetColor(c)
		for px, got := range s.Framebuffer(0, 0, false) {
			if got != c {
				t.Fatalf("pixel %d = %+v, want %+v", px, got, c)
			}
		}
	})
}

func TestCapabilityGatedDefaults(t *testing.T) {
	bulb := mustDevice(t, 27, "d073d5000001")
	bulb.WithState(func(s *State) {
		if got := s.ZoneCount(); got != 0 {
			t.Errorf("ZoneCount() on bulb = %d, want 0", got)
		}
		if got := s.TileWidth(); got != DefaultTileWidth {
			t.Errorf("TileWidth() on bulb = %d, want %d", got, DefaultTileWidth)
		}
		if got := s.InfraredBrightness(); got != 0 {
			t.Errorf("InfraredBrightness() on bulb = %d, want 0", got)
		}

		// Writes to disabled sub-states are silently ignored.
		s.SetZoneRange(0, 7, protocol.Hsbk{Hue: 1})
		s.SetInfraredBrightness(100)
		s.SetRelayPower(0, 65535)
		if got := s.RelayPower(0); got != 0 {
			t.Errorf("RelayPower() after ignored write = %d, want 0", got)
		}
	})
}

func TestDirtyTracking(t *testing.T) {
	d := mustDevice(t, 27, "d073d5000001")
	rec := &recordingObserver{}
	d.Observe(rec)

	// Read-only access does not notify.
	d.WithState(func(s *State) { _ = s.Label })
	if rec.count != 0 {
		t.Fatalf("observer fired %d times after read, want 0", rec.count)
	}

	d.WithState(func(s *State) { s.SetLabel("Bench") })
	if rec.count != 1 {
		t.Fatalf("observer fired %d times after write, want 1", rec.count)
	}
	if rec.lastSerial != "d073d5000001" {
		t.Errorf("observer serial = %q", rec.lastSerial)
	}
}

type recordingObserver struct {
	count      int
	lastSerial string
}

func (r *recordingObserver) OnStateChanged(serial string) {
	r.count++
	r.lastSerial = serial
}

func TestFramebufferLazyAllocation(t *testing.T) {
	d := mustDevice(t, 55, "d073d5000004")
	d.WithState(func(s *State) {
		if buf := s.Framebuffer(0, 3, false); buf != nil {
			t.Error("scratch buffer allocated before first write")
		}
		colors := []protocol.Hsbk{{Hue: 1, Kelvin: 3500}, {Hue: 2, Kelvin: 3500}}
		s.SetTileRect(0, protocol.TileBufferRect{FBIndex: 3, Width: 8}, colors)
		buf := s.Framebuffer(0, 3, false)
		if buf == nil {
			t.Fatal("scratch buffer not allocated on write")
		}
		if buf[0].Hue != 1 || buf[1].Hue != 2 {
			t.Errorf("pixels = %+v %+v", buf[0], buf[1])
		}
	})
}

func TestCopyFramebufferRect(t *testing.T) {
	d := mustDevice(t, 55, "d073d5000005")
	d.WithState(func(s *State) {
		c := protocol.Hsbk{Hue: 777, Kelvin: 3500}
		s.SetTileRect(0, protocol.TileBufferRect{FBIndex: 1, Width: 8}, []protocol.Hsbk{c})
		s.CopyFramebufferRect(0, 1, 0, 0, 0, 8)
		visible := s.Framebuffer(0, 0, false)
		if visible[0] != c {
			t.Errorf("visible[0] = %+v, want %+v", visible[0], c)
		}
	})
}

func TestSwitchCapabilities(t *testing.T) {
	d := mustDevice(t, 70, "d073d7000001")
	caps := d.Caps()
	if !caps.IsSwitch() {
		t.Fatal("product 70 should be a switch")
	}
	if !caps.HasRelays || !caps.HasButtons || caps.HasColor {
		t.Errorf("switch caps = %+v", caps)
	}
	d.WithState(func(s *State) {
		s.SetRelayPower(2, 1)
		if got := s.RelayPower(2); got != 65535 {
			t.Errorf("RelayPower(2) = %d, want 65535", got)
		}
	})
}

func TestExtendedMultizoneFirmwareGate(t *testing.T) {
	old := mustDevice(t, 32, "d073d5000006", WithFirmware(2, 60, 1500000000))
	if old.Caps().HasExtendedMultizone {
		t.Error("old firmware should not support extended multizone")
	}

	current := mustDevice(t, 32, "d073d5000007")
	if !current.Caps().HasExtendedMultizone {
		t.Error("current firmware should support extended multizone")
	}

	native := mustDevice(t, 117, "d073d5000008", WithFirmware(2, 0, 1))
	if !native.Caps().HasExtendedMultizone {
		t.Error("native product should support extended multizone regardless of firmware")
	}
}

func TestSnapshotRestore(t *testing.T) {
	d := mustDevice(t, 32, "d073d5000009", WithZoneCount(12))
	d.WithState(func(s *State) {
		s.SetLabel("Before restart")
		s.SetPowerLevel(65535)
		s.SetZoneRange(0, 3, protocol.Hsbk{Hue: 4242, Saturation: 65535, Brightness: 65535, Kelvin: 4000})
	})
	snapshot := d.Snapshot()

	fresh := mustDevice(t, 32, "d073d5000009", WithZoneCount(12))
	if err := fresh.Restore(snapshot); err != nil {
		t.Fatalf("Restore() unexpected error: %v", err)
	}
	fresh.WithState(func(s *State) {
		if s.Label != "Before restart" {
			t.Errorf("Label = %q", s.Label)
		}
		if s.PowerLevel != 65535 {
			t.Errorf("PowerLevel = %d", s.PowerLevel)
		}
		if s.ZoneColors()[3].Hue != 4242 {
			t.Errorf("zone 3 = %+v", s.ZoneColors()[3])
		}
	})

	if err := fresh.Restore([]byte("{not json")); err == nil {
		t.Error("Restore() of corrupt data should fail")
	}
}

func TestFactoryValidation(t *testing.T) {
	if _, err := NewFromProduct(27, "bogus"); err == nil {
		t.Error("invalid serial should fail")
	}
	if _, err := NewFromProduct(9999, "d073d5000001"); err == nil {
		t.Error("unknown product should fail")
	}
}
