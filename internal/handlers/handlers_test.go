package handlers

import (
	"testing"

	"github.com/Djelibeybi/lifx-emulator/internal/device"
	"github.com/Djelibeybi/lifx-emulator/internal/protocol"
	"github.com/Djelibeybi/lifx-emulator/internal/scenario"
)

var registry = NewRegistry()

// dispatch runs one request through the registry against a device.
func dispatch(t *testing.T, d *device.Device, req protocol.Message, resRequired bool) []protocol.Message {
	t.Helper()
	h, ok := registry.Lookup(req.Type())
	if !ok {
		t.Fatalf("no handler registered for type %d", req.Type())
	}
	var out []protocol.Message
	d.WithState(func(s *device.State) {
		out = h(s, req, &scenario.Merged{SendUnhandled: true}, resRequired)
	})
	return out
}

func mustDevice(t *testing.T, productID uint32, serial string, opts ...device.Option) *device.Device {
	t.Helper()
	d, err := device.NewFromProduct(productID, serial, opts...)
	if err != nil {
		t.Fatalf("NewFromProduct: %v", err)
	}
	return d
}

func TestGetServiceReportsPort(t *testing.T) {
	d := mustDevice(t, 27, "d073d5000001", device.WithPort(56700))
	out := dispatch(t, d, &protocol.GetService{}, true)
	if len(out) != 1 {
		t.Fatalf("responses = %d, want 1", len(out))
	}
	ss := out[0].(*protocol.StateService)
	if ss.Service != protocol.ServiceUDP || ss.Port != 56700 {
		t.Errorf("StateService = %+v", ss)
	}
}

func TestSetColorThenGet(t *testing.T) {
	d := mustDevice(t, 27, "d073d5000001")
	want := protocol.Hsbk{Hue: 21845, Saturation: 65535, Brightness: 32768, Kelvin: 3500}

	out := dispatch(t, d, &protocol.LightSetColor{Color: want}, true)
	if len(out) != 1 {
		t.Fatalf("SetColor responses = %d, want 1", len(out))
	}
	if got := out[0].(*protocol.LightState); got.Color != want {
		t.Errorf("SetColor state colour = %+v, want %+v", got.Color, want)
	}

	out = dispatch(t, d, &protocol.LightGet{}, true)
	ls := out[0].(*protocol.LightState)
	if ls.Color != want {
		t.Errorf("Get colour = %+v, want %+v", ls.Color, want)
	}
	if ls.Power != 0 {
		t.Errorf("Get power = %d, want device's power level 0", ls.Power)
	}
}

func TestSetColorClampsKelvin(t *testing.T) {
	d := mustDevice(t, 27, "d073d5000001")
	out := dispatch(t, d, &protocol.LightSetColor{Color: protocol.Hsbk{Kelvin: 60000}}, true)
	if got := out[0].(*protocol.LightState).Color.Kelvin; got != 9000 {
		t.Errorf("Kelvin = %d, want 9000", got)
	}
}

func TestSettersWithoutResRequired(t *testing.T) {
	d := mustDevice(t, 27, "d073d5000001")
	if out := dispatch(t, d, &protocol.SetLabel{Label: "Silent"}, false); len(out) != 0 {
		t.Errorf("SetLabel without res_required produced %d responses", len(out))
	}
	out := dispatch(t, d, &protocol.GetLabel{}, true)
	if got := out[0].(*protocol.StateLabel).Label; got != "Silent" {
		t.Errorf("Label = %q, want Silent", got)
	}
}

func TestMultizonePartition(t *testing.T) {
	d := mustDevice(t, 32, "d073d5000002", device.WithZoneCount(20))
	d.WithState(func(s *device.State) {
		zones := s.ZoneColors()
		for i := range zones {
			zones[i] = protocol.Hsbk{Hue: uint16(i * 100), Saturation: 65535, Brightness: 65535, Kelvin: 3500}
		}
	})

	out := dispatch(t, d, &protocol.GetColorZones{StartIndex: 0, EndIndex: 19}, true)
	if len(out) != 3 {
		t.Fatalf("responses = %d, want ceil(20/8) = 3", len(out))
	}

	wantIndices := []uint8{0, 8, 16}
	var reconstructed []protocol.Hsbk
	for i, msg := range out {
		mz := msg.(*protocol.StateMultiZone)
		if mz.Index != wantIndices[i] {
			t.Errorf("packet %d index = %d, want %d", i, mz.Index, wantIndices[i])
		}
		if mz.Count != 20 {
			t.Errorf("packet %d count = %d, want 20", i, mz.Count)
		}
		reconstructed = append(reconstructed, mz.Colors[:]...)
	}

	for i := 0; i < 20; i++ {
		if reconstructed[i].Hue != uint16(i*100) {
			t.Errorf("zone %d hue = %d, want %d", i, reconstructed[i].Hue, i*100)
		}
	}
}

func TestGetColorZonesClampsRange(t *testing.T) {
	d := mustDevice(t, 32, "d073d5000002", device.WithZoneCount(8))
	out := dispatch(t, d, &protocol.GetColorZones{StartIndex: 0, EndIndex: 200}, true)
	if len(out) != 1 {
		t.Errorf("responses = %d, want 1 after clamping", len(out))
	}
}

func TestExtendedMultizonePagination(t *testing.T) {
	d := mustDevice(t, 117, "d073d5100001", device.WithZoneCount(120))

	out := dispatch(t, d, &protocol.GetExtendedColorZones{}, true)
	if len(out) != 2 {
		t.Fatalf("responses = %d, want ceil(120/82) = 2", len(out))
	}

	p0 := out[0].(*protocol.StateExtendedColorZones)
	if p0.Index != 0 || p0.ColorsCount != 82 || p0.Count != 120 {
		t.Errorf("page 0 = index %d colors %d count %d", p0.Index, p0.ColorsCount, p0.Count)
	}
	p1 := out[1].(*protocol.StateExtendedColorZones)
	if p1.Index != 82 || p1.ColorsCount != 38 || p1.Count != 120 {
		t.Errorf("page 1 = index %d colors %d count %d", p1.Index, p1.ColorsCount, p1.Count)
	}
}

func TestSetExtendedColorZones(t *testing.T) {
	d := mustDevice(t, 117, "d073d5100001", device.WithZoneCount(16))

	req := &protocol.SetExtendedColorZones{Apply: protocol.ApplyNow, Index: 4, ColorsCount: 2}
	req.Colors[0] = protocol.Hsbk{Hue: 111, Kelvin: 3500}
	req.Colors[1] = protocol.Hsbk{Hue: 222, Kelvin: 3500}

	dispatch(t, d, req, false)
	d.WithState(func(s *device.State) {
		zones := s.ZoneColors()
		if zones[4].Hue != 111 || zones[5].Hue != 222 {
			t.Errorf("zones 4,5 = %+v %+v", zones[4], zones[5])
		}
	})
}

func TestGet64Length(t *testing.T) {
	rect := protocol.TileBufferRect{FBIndex: 0, X: 0, Y: 0, Width: 8}
	tests := []struct {
		name       string
		tileIndex  uint8
		length     uint8
		wantCount  int
		wantFirst  uint8
	}{
		{"single tile", 0, 1, 1, 0},
		{"three tiles", 0, 3, 3, 0},
		{"full chain", 0, 5, 5, 0},
		{"clamped past end", 3, 5, 2, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := mustDevice(t, 55, "d073d5200001")
			out := dispatch(t, d, &protocol.Get64{TileIndex: tt.tileIndex, Length: tt.length, Rect: rect}, true)
			if len(out) != tt.wantCount {
				t.Fatalf("responses = %d, want %d", len(out), tt.wantCount)
			}
			for i, msg := range out {
				s64 := msg.(*protocol.State64)
				if s64.TileIndex != tt.wantFirst+uint8(i) {
					t.Errorf("response %d tile = %d, want %d", i, s64.TileIndex, tt.wantFirst+uint8(i))
				}
			}
		})
	}
}

func TestSet64WritesScratchBuffer(t *testing.T) {
	d := mustDevice(t, 55, "d073d5200002")
	req := &protocol.Set64{TileIndex: 0, Length: 1, Rect: protocol.TileBufferRect{FBIndex: 2, Width: 8}}
	req.Colors[0] = protocol.Hsbk{Hue: 999, Kelvin: 3500}

	dispatch(t, d, req, false)
	d.WithState(func(s *device.State) {
		buf := s.Framebuffer(0, 2, false)
		if buf == nil {
			t.Fatal("framebuffer 2 not allocated")
		}
		if buf[0].Hue != 999 {
			t.Errorf("pixel 0 = %+v", buf[0])
		}
		// Visible buffer untouched.
		if got := s.Framebuffer(0, 0, false)[0].Hue; got != 0 {
			t.Errorf("visible pixel hue = %d, want 0", got)
		}
	})
}

func TestCopyFrameBuffer(t *testing.T) {
	d := mustDevice(t, 55, "d073d5200003")

	set := &protocol.Set64{TileIndex: 0, Length: 1, Rect: protocol.TileBufferRect{FBIndex: 1, Width: 8}}
	for i := range set.Colors {
		set.Colors[i] = protocol.Hsbk{Hue: 4321, Kelvin: 3500}
	}
	dispatch(t, d, set, false)

	dispatch(t, d, &protocol.CopyFrameBuffer{TileIndex: 0, Length: 1, SrcFBIndex: 1, DstFBIndex: 0, Width: 8}, false)

	d.WithState(func(s *device.State) {
		visible := s.Framebuffer(0, 0, false)
		if visible[0].Hue != 4321 {
			t.Errorf("visible pixel after copy = %+v", visible[0])
		}
	})
}

func TestDeviceChainMetadata(t *testing.T) {
	d := mustDevice(t, 55, "d073d5200004")
	out := dispatch(t, d, &protocol.GetDeviceChain{}, true)
	chain := out[0].(*protocol.StateDeviceChain)
	if chain.TotalCount != 5 {
		t.Fatalf("TotalCount = %d, want 5", chain.TotalCount)
	}
	for i := 0; i < 5; i++ {
		if chain.Tiles[i].Width != 8 || chain.Tiles[i].Height != 8 {
			t.Errorf("tile %d = %dx%d, want 8x8", i, chain.Tiles[i].Width, chain.Tiles[i].Height)
		}
	}
}

func TestFirmwareVersionOverride(t *testing.T) {
	d := mustDevice(t, 27, "d073d5000001")
	h, _ := registry.Lookup(protocol.TypeGetHostFirmware)

	rules := &scenario.Merged{FirmwareVersion: &scenario.FirmwareVersion{Major: 9, Minor: 42}}
	var out []protocol.Message
	d.WithState(func(s *device.State) {
		out = h(s, &protocol.GetHostFirmware{}, rules, true)
	})
	fw := out[0].(*protocol.StateHostFirmware)
	if fw.VersionMajor != 9 || fw.VersionMinor != 42 {
		t.Errorf("firmware = %d.%d, want 9.42", fw.VersionMajor, fw.VersionMinor)
	}
}

func TestEchoRoundTrip(t *testing.T) {
	d := mustDevice(t, 27, "d073d5000001")
	req := &protocol.EchoRequest{}
	copy(req.Payload[:], "hello there")

	out := dispatch(t, d, req, true)
	resp := out[0].(*protocol.EchoResponse)
	if resp.Payload != req.Payload {
		t.Error("echo payload not returned verbatim")
	}
}

func TestRelayPower(t *testing.T) {
	d := mustDevice(t, 70, "d073d7000001")

	out := dispatch(t, d, &protocol.SetRelayPower{RelayIndex: 1, Level: 1}, true)
	sr := out[0].(*protocol.StateRelayPower)
	if sr.RelayIndex != 1 || sr.Level != 65535 {
		t.Errorf("StateRelayPower = %+v, want index 1 level 65535", sr)
	}

	out = dispatch(t, d, &protocol.GetRelayPower{RelayIndex: 1}, true)
	if got := out[0].(*protocol.StateRelayPower).Level; got != 65535 {
		t.Errorf("Level = %d, want 65535", got)
	}
}

func TestUnhandledGating(t *testing.T) {
	switchCaps := mustDevice(t, 70, "d073d7000001").Caps()
	bulbCaps := mustDevice(t, 27, "d073d5000001").Caps()
	stripCaps := mustDevice(t, 31, "d073d5000002").Caps() // no extended multizone
	tileCaps := mustDevice(t, 55, "d073d5000003").Caps()

	tests := []struct {
		name    string
		caps    device.Capabilities
		pktType uint16
		want    bool
	}{
		{"switch rejects Light.SetColor", switchCaps, 102, true},
		{"switch rejects GetColorZones", switchCaps, 502, true},
		{"switch rejects Get64", switchCaps, 707, true},
		{"switch handles GetLabel", switchCaps, 23, false},
		{"switch handles relay packets", switchCaps, 817, false},
		{"bulb handles Light.Get", bulbCaps, 101, false},
		{"bulb rejects infrared", bulbCaps, 120, true},
		{"bulb rejects HEV", bulbCaps, 143, true},
		{"bulb rejects multizone", bulbCaps, 502, true},
		{"bulb rejects relay", bulbCaps, 816, true},
		{"strip handles multizone", stripCaps, 502, false},
		{"strip rejects extended multizone", stripCaps, 511, true},
		{"tile handles Get64", tileCaps, 707, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Unhandled(tt.caps, tt.pktType); got != tt.want {
				t.Errorf("Unhandled(%d) = %v, want %v", tt.pktType, got, tt.want)
			}
		})
	}
}

func TestSwitchFullNamespaceRejection(t *testing.T) {
	caps := mustDevice(t, 70, "d073d7000001").Caps()
	for pktType := uint16(101); pktType <= 149; pktType++ {
		if !Unhandled(caps, pktType) {
			t.Errorf("switch should reject Light packet %d", pktType)
		}
	}
	for pktType := uint16(501); pktType <= 512; pktType++ {
		if !Unhandled(caps, pktType) {
			t.Errorf("switch should reject MultiZone packet %d", pktType)
		}
	}
	for pktType := uint16(701); pktType <= 720; pktType++ {
		if !Unhandled(caps, pktType) {
			t.Errorf("switch should reject Tile packet %d", pktType)
		}
	}
}
