package protocol

import (
	"encoding/binary"
	"math"
)

// Tile namespace payloads (packet types 701–720).

// Tile chain constants.
const (
	// MaxTilesPerChain is the number of tile slots a StateDeviceChain
	// carries regardless of how many are populated.
	MaxTilesPerChain = 16

	// TilePixels is the pixel slot count in State64/Set64 packets.
	TilePixels = 64

	// TileFramebuffers is the number of framebuffers per tile device.
	// Buffer 0 is visible; 1..7 are scratch.
	TileFramebuffers = 8
)

// GetDeviceChain requests the tile chain layout.
type GetDeviceChain struct{}

func (*GetDeviceChain) Type() uint16           { return TypeGetDeviceChain }
func (*GetDeviceChain) MarshalPayload() []byte { return nil }

// StateDeviceChain reports the chain layout: sixteen tile slots, of
// which TotalCount are populated.
type StateDeviceChain struct {
	StartIndex uint8
	Tiles      [MaxTilesPerChain]TileStateDevice
	TotalCount uint8
}

func (*StateDeviceChain) Type() uint16 { return TypeStateDeviceChain }

func (m *StateDeviceChain) MarshalPayload() []byte {
	buf := make([]byte, 2+MaxTilesPerChain*tileStateDeviceSize)
	buf[0] = m.StartIndex
	for i, t := range m.Tiles {
		putTileStateDevice(buf[1+i*tileStateDeviceSize:], t)
	}
	buf[len(buf)-1] = m.TotalCount
	return buf
}

func decodeStateDeviceChain(b []byte) (Message, error) {
	if err := need(b, 2+MaxTilesPerChain*tileStateDeviceSize, TypeStateDeviceChain); err != nil {
		return nil, err
	}
	m := &StateDeviceChain{StartIndex: b[0]}
	for i := range m.Tiles {
		m.Tiles[i] = getTileStateDevice(b[1+i*tileStateDeviceSize:])
	}
	m.TotalCount = b[1+MaxTilesPerChain*tileStateDeviceSize]
	return m, nil
}

// SetUserPosition records a tile's user-assigned position in the
// chain layout.
type SetUserPosition struct {
	TileIndex uint8
	UserX     float32
	UserY     float32
}

func (*SetUserPosition) Type() uint16 { return TypeSetUserPosition }

func (m *SetUserPosition) MarshalPayload() []byte {
	buf := make([]byte, 11)
	buf[0] = m.TileIndex
	// buf[1:3] reserved
	binary.LittleEndian.PutUint32(buf[3:], math.Float32bits(m.UserX))
	binary.LittleEndian.PutUint32(buf[7:], math.Float32bits(m.UserY))
	return buf
}

func decodeSetUserPosition(b []byte) (Message, error) {
	if err := need(b, 11, TypeSetUserPosition); err != nil {
		return nil, err
	}
	return &SetUserPosition{
		TileIndex: b[0],
		UserX:     math.Float32frombits(binary.LittleEndian.Uint32(b[3:])),
		UserY:     math.Float32frombits(binary.LittleEndian.Uint32(b[7:])),
	}, nil
}

// Get64 requests up to 64 pixels from a rectangle on Length tiles
// starting at TileIndex.
type Get64 struct {
	TileIndex uint8
	Length    uint8
	Rect      TileBufferRect
}

func (*Get64) Type() uint16 { return TypeGet64 }

func (m *Get64) MarshalPayload() []byte {
	buf := make([]byte, 2+tileBufferRectSize)
	buf[0] = m.TileIndex
	buf[1] = m.Length
	putTileBufferRect(buf[2:], m.Rect)
	return buf
}

func decodeGet64(b []byte) (Message, error) {
	if err := need(b, 2+tileBufferRectSize, TypeGet64); err != nil {
		return nil, err
	}
	return &Get64{
		TileIndex: b[0],
		Length:    b[1],
		Rect:      getTileBufferRect(b[2:]),
	}, nil
}

// State64 reports up to 64 pixels from one tile's framebuffer.
type State64 struct {
	TileIndex uint8
	Rect      TileBufferRect
	Colors    [TilePixels]Hsbk
}

func (*State64) Type() uint16 { return TypeState64 }

func (m *State64) MarshalPayload() []byte {
	buf := make([]byte, 1+tileBufferRectSize+TilePixels*hsbkSize)
	buf[0] = m.TileIndex
	putTileBufferRect(buf[1:], m.Rect)
	for i, c := range m.Colors {
		putHsbk(buf[5+i*hsbkSize:], c)
	}
	return buf
}

func decodeState64(b []byte) (Message, error) {
	if err := need(b, 1+tileBufferRectSize+TilePixels*hsbkSize, TypeState64); err != nil {
		return nil, err
	}
	m := &State64{TileIndex: b[0], Rect: getTileBufferRect(b[1:])}
	for i := range m.Colors {
		m.Colors[i] = getHsbk(b[5+i*hsbkSize:])
	}
	return m, nil
}

// Set64 writes up to 64 pixels into a rectangle on Length tiles
// starting at TileIndex. Rect.FBIndex selects the framebuffer;
// non-visible buffers are allocated on first write.
type Set64 struct {
	TileIndex uint8
	Length    uint8
	Rect      TileBufferRect
	Duration  uint32
	Colors    [TilePixels]Hsbk
}

func (*Set64) Type() uint16 { return TypeSet64 }

func (m *Set64) MarshalPayload() []byte {
	buf := make([]byte, 2+tileBufferRectSize+4+TilePixels*hsbkSize)
	buf[0] = m.TileIndex
	buf[1] = m.Length
	putTileBufferRect(buf[2:], m.Rect)
	binary.LittleEndian.PutUint32(buf[6:], m.Duration)
	for i, c := range m.Colors {
		putHsbk(buf[10+i*hsbkSize:], c)
	}
	return buf
}

func decodeSet64(b []byte) (Message, error) {
	if err := need(b, 2+tileBufferRectSize+4+TilePixels*hsbkSize, TypeSet64); err != nil {
		return nil, err
	}
	m := &Set64{
		TileIndex: b[0],
		Length:    b[1],
		Rect:      getTileBufferRect(b[2:]),
		Duration:  binary.LittleEndian.Uint32(b[6:]),
	}
	for i := range m.Colors {
		m.Colors[i] = getHsbk(b[10+i*hsbkSize:])
	}
	return m, nil
}

// CopyFrameBuffer copies a rectangle between two framebuffers on
// Length tiles starting at TileIndex.
type CopyFrameBuffer struct {
	TileIndex  uint8
	Length     uint8
	SrcFBIndex uint8
	DstFBIndex uint8
	X          uint8
	Y          uint8
	Width      uint8
}

func (*CopyFrameBuffer) Type() uint16 { return TypeCopyFrameBuffer }

func (m *CopyFrameBuffer) MarshalPayload() []byte {
	return []byte{m.TileIndex, m.Length, m.SrcFBIndex, m.DstFBIndex, m.X, m.Y, m.Width}
}

func decodeCopyFrameBuffer(b []byte) (Message, error) {
	if err := need(b, 7, TypeCopyFrameBuffer); err != nil {
		return nil, err
	}
	return &CopyFrameBuffer{
		TileIndex:  b[0],
		Length:     b[1],
		SrcFBIndex: b[2],
		DstFBIndex: b[3],
		X:          b[4],
		Y:          b[5],
		Width:      b[6],
	}, nil
}

// TileEffectSettings describes a matrix firmware effect, including
// its colour palette. Encoded size is 186 bytes.
type TileEffectSettings struct {
	InstanceID   uint32
	EffectType   TileEffectType
	Speed        uint32
	Duration     uint64
	Parameters   [32]byte
	PaletteCount uint8
	Palette      [16]Hsbk
}

const tileEffectSize = 186

func putTileEffect(buf []byte, s TileEffectSettings) {
	binary.LittleEndian.PutUint32(buf[0:], s.InstanceID)
	buf[4] = uint8(s.EffectType)
	binary.LittleEndian.PutUint32(buf[5:], s.Speed)
	binary.LittleEndian.PutUint64(buf[9:], s.Duration)
	// buf[17:25] reserved
	copy(buf[25:57], s.Parameters[:])
	buf[57] = s.PaletteCount
	for i, c := range s.Palette {
		putHsbk(buf[58+i*hsbkSize:], c)
	}
}

func getTileEffect(buf []byte) TileEffectSettings {
	s := TileEffectSettings{
		InstanceID: binary.LittleEndian.Uint32(buf[0:]),
		EffectType: TileEffectType(buf[4]),
		Speed:      binary.LittleEndian.Uint32(buf[5:]),
		Duration:   binary.LittleEndian.Uint64(buf[9:]),
	}
	copy(s.Parameters[:], buf[25:57])
	s.PaletteCount = buf[57]
	for i := range s.Palette {
		s.Palette[i] = getHsbk(buf[58+i*hsbkSize:])
	}
	return s
}

// GetTileEffect requests the running matrix effect.
type GetTileEffect struct{}

func (*GetTileEffect) Type() uint16 { return TypeGetTileEffect }

func (m *GetTileEffect) MarshalPayload() []byte {
	return make([]byte, 2) // two reserved bytes
}

func decodeGetTileEffect(b []byte) (Message, error) {
	if err := need(b, 2, TypeGetTileEffect); err != nil {
		return nil, err
	}
	return &GetTileEffect{}, nil
}

// SetTileEffect starts or stops a matrix firmware effect.
type SetTileEffect struct {
	Settings TileEffectSettings
}

func (*SetTileEffect) Type() uint16 { return TypeSetTileEffect }

func (m *SetTileEffect) MarshalPayload() []byte {
	buf := make([]byte, 2+tileEffectSize)
	// buf[0:2] reserved
	putTileEffect(buf[2:], m.Settings)
	return buf
}

func decodeSetTileEffect(b []byte) (Message, error) {
	if err := need(b, 2+tileEffectSize, TypeSetTileEffect); err != nil {
		return nil, err
	}
	return &SetTileEffect{Settings: getTileEffect(b[2:])}, nil
}

// StateTileEffect reports the running matrix effect.
type StateTileEffect struct {
	Settings TileEffectSettings
}

func (*StateTileEffect) Type() uint16 { return TypeStateTileEffect }

func (m *StateTileEffect) MarshalPayload() []byte {
	buf := make([]byte, 1+tileEffectSize)
	// buf[0] reserved
	putTileEffect(buf[1:], m.Settings)
	return buf
}

func decodeStateTileEffect(b []byte) (Message, error) {
	if err := need(b, 1+tileEffectSize, TypeStateTileEffect); err != nil {
		return nil, err
	}
	return &StateTileEffect{Settings: getTileEffect(b[1:])}, nil
}
