package protocol

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// Wire-level constants.
const (
	// HeaderSize is the fixed size of the LIFX packet header in bytes.
	HeaderSize = 36

	// ProtocolNumber is the only protocol value the LAN protocol uses.
	ProtocolNumber = 1024

	// DefaultPort is the UDP port LIFX devices listen on.
	DefaultPort = 56700

	// SerialLength is the length of a device serial in bytes
	// (12 hex characters on the wire configuration side).
	SerialLength = 6
)

// Header is the decoded 36-byte LIFX packet header.
//
// Size is the total packet length including the header itself.
// Target carries the device serial in its first six bytes; the last
// two bytes are always zero. Source and Sequence are client-chosen
// correlation values echoed verbatim in every response.
type Header struct {
	Size        uint16
	Tagged      bool
	Source      uint32
	Target      [8]byte
	ResRequired bool
	AckRequired bool
	Sequence    uint8
	Type        uint16
}

// Header field offsets and masks.
const (
	offsetSize     = 0
	offsetFlags    = 2
	offsetSource   = 4
	offsetTarget   = 8
	offsetResFlags = 22
	offsetSequence = 23
	offsetType     = 32

	flagTagged      = 1 << 13
	flagAddressable = 1 << 12
	maskProtocol    = 0x0FFF

	flagResRequired = 1 << 0
	flagAckRequired = 1 << 1
)

// ParseHeader decodes the first 36 bytes of a datagram.
//
// It returns ErrMalformedHeader when the input is shorter than
// HeaderSize or when the protocol field is not 1024. Physical devices
// silently drop such datagrams; callers are expected to do the same.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes, need %d", ErrMalformedHeader, len(data), HeaderSize)
	}

	flags := binary.LittleEndian.Uint16(data[offsetFlags:])
	if flags&maskProtocol != ProtocolNumber {
		return Header{}, fmt.Errorf("%w: protocol %d", ErrMalformedHeader, flags&maskProtocol)
	}
	if flags&flagAddressable == 0 {
		return Header{}, fmt.Errorf("%w: addressable bit clear", ErrMalformedHeader)
	}

	h := Header{
		Size:     binary.LittleEndian.Uint16(data[offsetSize:]),
		Tagged:   flags&flagTagged != 0,
		Source:   binary.LittleEndian.Uint32(data[offsetSource:]),
		Sequence: data[offsetSequence],
		Type:     binary.LittleEndian.Uint16(data[offsetType:]),
	}
	copy(h.Target[:], data[offsetTarget:offsetTarget+8])

	resFlags := data[offsetResFlags]
	h.ResRequired = resFlags&flagResRequired != 0
	h.AckRequired = resFlags&flagAckRequired != 0

	return h, nil
}

// Encode serializes the header to its 36-byte wire form.
//
// The origin bits are always zero, addressable is always set and the
// protocol field is always 1024. Size must already account for the
// payload; callers compute it as HeaderSize + len(payload).
func (h Header) Encode() []byte {
	buf := make([]byte, HeaderSize)

	binary.LittleEndian.PutUint16(buf[offsetSize:], h.Size)

	flags := uint16(ProtocolNumber) | flagAddressable
	if h.Tagged {
		flags |= flagTagged
	}
	binary.LittleEndian.PutUint16(buf[offsetFlags:], flags)
	binary.LittleEndian.PutUint32(buf[offsetSource:], h.Source)
	copy(buf[offsetTarget:], h.Target[:])

	var resFlags byte
	if h.ResRequired {
		resFlags |= flagResRequired
	}
	if h.AckRequired {
		resFlags |= flagAckRequired
	}
	buf[offsetResFlags] = resFlags
	buf[offsetSequence] = h.Sequence

	binary.LittleEndian.PutUint16(buf[offsetType:], h.Type)

	return buf
}

// IsBroadcast reports whether the header addresses every device,
// either via the tagged bit or an all-zero target.
func (h Header) IsBroadcast() bool {
	return h.Tagged || h.Target == [8]byte{}
}

// TargetSerial returns the 12-hex-character serial encoded in the
// first six bytes of the target field.
func (h Header) TargetSerial() string {
	return hex.EncodeToString(h.Target[:SerialLength])
}

// TargetFromSerial converts a 12-hex-character device serial into the
// 8-byte wire target (serial bytes followed by two zero bytes).
func TargetFromSerial(serial string) ([8]byte, error) {
	var target [8]byte
	raw, err := hex.DecodeString(serial)
	if err != nil {
		return target, fmt.Errorf("%w: %q: %w", ErrInvalidSerial, serial, err)
	}
	if len(raw) != SerialLength {
		return target, fmt.Errorf("%w: %q: need %d bytes, got %d", ErrInvalidSerial, serial, SerialLength, len(raw))
	}
	copy(target[:], raw)
	return target, nil
}
