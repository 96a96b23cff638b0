package handlers

import (
	"github.com/Djelibeybi/lifx-emulator/internal/device"
	"github.com/Djelibeybi/lifx-emulator/internal/protocol"
	"github.com/Djelibeybi/lifx-emulator/internal/scenario"
)

// Tile-namespace handlers (packet types 701–720). The capability gate
// guarantees HasMatrix.

func handleGetDeviceChain(s *device.State, _ protocol.Message, rules *scenario.Merged, _ bool) []protocol.Message {
	major, minor := firmwareVersion(s, rules)

	chain := &protocol.StateDeviceChain{TotalCount: uint8(s.TileCount())}
	for i := 0; i < s.TileCount() && i < protocol.MaxTilesPerChain; i++ {
		meta := s.Matrix.Tiles[i].Meta
		meta.FirmwareMajor = major
		meta.FirmwareMinor = minor
		chain.Tiles[i] = meta
	}
	return []protocol.Message{chain}
}

func handleSetUserPosition(s *device.State, req protocol.Message, _ *scenario.Merged, _ bool) []protocol.Message {
	up := req.(*protocol.SetUserPosition)
	s.SetUserPosition(int(up.TileIndex), up.UserX, up.UserY)
	return nil
}

// tileRange clamps [start, start+length) to the chain.
func tileRange(s *device.State, start, length uint8) (int, int) {
	first := int(start)
	count := s.TileCount()
	if first >= count {
		return 0, 0
	}
	last := min(first+int(length), count)
	return first, last
}

func state64At(s *device.State, tile int, rect protocol.TileBufferRect) *protocol.State64 {
	m := &protocol.State64{TileIndex: uint8(tile), Rect: rect}
	pixels := s.TileRect(tile, rect, protocol.TilePixels)
	copy(m.Colors[:], pixels)
	return m
}

func handleGet64(s *device.State, req protocol.Message, _ *scenario.Merged, _ bool) []protocol.Message {
	g := req.(*protocol.Get64)
	first, last := tileRange(s, g.TileIndex, g.Length)

	var out []protocol.Message
	for t := first; t < last; t++ {
		out = append(out, state64At(s, t, g.Rect))
	}
	return out
}

func handleSet64(s *device.State, req protocol.Message, _ *scenario.Merged, resRequired bool) []protocol.Message {
	set := req.(*protocol.Set64)
	first, last := tileRange(s, set.TileIndex, set.Length)

	for t := first; t < last; t++ {
		s.SetTileRect(t, set.Rect, set.Colors[:])
	}

	if !resRequired || first >= last {
		return nil
	}
	return []protocol.Message{state64At(s, first, set.Rect)}
}

func handleCopyFrameBuffer(s *device.State, req protocol.Message, _ *scenario.Merged, _ bool) []protocol.Message {
	cp := req.(*protocol.CopyFrameBuffer)
	first, last := tileRange(s, cp.TileIndex, cp.Length)

	for t := first; t < last; t++ {
		s.CopyFramebufferRect(t, int(cp.SrcFBIndex), int(cp.DstFBIndex), cp.X, cp.Y, cp.Width)
	}
	return nil
}

func handleGetTileEffect(s *device.State, _ protocol.Message, _ *scenario.Merged, _ bool) []protocol.Message {
	return []protocol.Message{&protocol.StateTileEffect{Settings: s.Matrix.Effect}}
}

func handleSetTileEffect(s *device.State, req protocol.Message, _ *scenario.Merged, resRequired bool) []protocol.Message {
	se := req.(*protocol.SetTileEffect)
	s.SetTileEffect(se.Settings)
	if !resRequired {
		return nil
	}
	return []protocol.Message{&protocol.StateTileEffect{Settings: s.Matrix.Effect}}
}
