package handlers

import (
	"github.com/Djelibeybi/lifx-emulator/internal/device"
	"github.com/Djelibeybi/lifx-emulator/internal/protocol"
	"github.com/Djelibeybi/lifx-emulator/internal/scenario"
)

// MultiZone-namespace handlers (packet types 501–512). The capability
// gate guarantees HasMultizone, and HasExtendedMultizone for the
// extended packets.

// stateMultiZoneAt builds one StateMultiZone covering up to eight
// zones starting at index. Slots past the zone array are zero-padded.
func stateMultiZoneAt(s *device.State, index int) *protocol.StateMultiZone {
	zones := s.ZoneColors()
	m := &protocol.StateMultiZone{
		Count: uint8(s.ZoneCount()),
		Index: uint8(index),
	}
	for i := 0; i < protocol.StateMultiZoneZones; i++ {
		zi := index + i
		if zi >= len(zones) {
			break
		}
		m.Colors[i] = zones[zi]
	}
	return m
}

func handleGetColorZones(s *device.State, req protocol.Message, _ *scenario.Merged, _ bool) []protocol.Message {
	gz := req.(*protocol.GetColorZones)

	last := s.ZoneCount() - 1
	if last < 0 {
		return nil
	}
	start := min(int(gz.StartIndex), last)
	end := min(int(gz.EndIndex), last)
	if end < start {
		end = start
	}

	var out []protocol.Message
	for i := start; i <= end; i += protocol.StateMultiZoneZones {
		out = append(out, stateMultiZoneAt(s, i))
	}
	return out
}

func handleSetColorZones(s *device.State, req protocol.Message, _ *scenario.Merged, resRequired bool) []protocol.Message {
	sz := req.(*protocol.SetColorZones)
	s.SetZoneRange(int(sz.StartIndex), int(sz.EndIndex), sz.Color)
	if !resRequired || sz.Apply == protocol.ApplyNo {
		return nil
	}
	return []protocol.Message{stateMultiZoneAt(s, 0)}
}

func handleGetMultiZoneEffect(s *device.State, _ protocol.Message, _ *scenario.Merged, _ bool) []protocol.Message {
	return []protocol.Message{&protocol.StateMultiZoneEffect{Settings: s.Multizone.Effect}}
}

func handleSetMultiZoneEffect(s *device.State, req protocol.Message, _ *scenario.Merged, resRequired bool) []protocol.Message {
	se := req.(*protocol.SetMultiZoneEffect)
	s.SetMultizoneEffect(se.Settings)
	if !resRequired {
		return nil
	}
	return []protocol.Message{&protocol.StateMultiZoneEffect{Settings: s.Multizone.Effect}}
}

// stateExtendedAt builds one StateExtendedColorZones page starting at
// index.
func stateExtendedAt(s *device.State, index int) *protocol.StateExtendedColorZones {
	zones := s.ZoneColors()
	m := &protocol.StateExtendedColorZones{
		Count: uint16(s.ZoneCount()),
		Index: uint16(index),
	}
	n := min(protocol.ExtendedZones, len(zones)-index)
	for i := 0; i < n; i++ {
		m.Colors[i] = zones[index+i]
	}
	m.ColorsCount = uint8(n)
	return m
}

func handleGetExtendedColorZones(s *device.State, _ protocol.Message, _ *scenario.Merged, _ bool) []protocol.Message {
	count := s.ZoneCount()
	if count == 0 {
		return nil
	}
	var out []protocol.Message
	for i := 0; i < count; i += protocol.ExtendedZones {
		out = append(out, stateExtendedAt(s, i))
	}
	return out
}

func handleSetExtendedColorZones(s *device.State, req protocol.Message, _ *scenario.Merged, resRequired bool) []protocol.Message {
	sz := req.(*protocol.SetExtendedColorZones)
	n := min(int(sz.ColorsCount), protocol.ExtendedZones)
	s.SetZones(int(sz.Index), sz.Colors[:n])
	if !resRequired || sz.Apply == protocol.ApplyNo {
		return nil
	}
	return []protocol.Message{stateExtendedAt(s, 0)}
}
