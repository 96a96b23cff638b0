package protocol

import "errors"

var (
	// ErrMalformedHeader indicates a datagram too short to carry a
	// header or with out-of-range header fields. Datagrams that fail
	// this way are dropped without a response.
	ErrMalformedHeader = errors.New("malformed header")

	// ErrShortPayload indicates a payload shorter than the fixed size
	// its packet type requires.
	ErrShortPayload = errors.New("short payload")

	// ErrUnknownType indicates a packet type with no registered codec.
	ErrUnknownType = errors.New("unknown packet type")

	// ErrInvalidSerial indicates a device serial that is not exactly
	// twelve hexadecimal characters.
	ErrInvalidSerial = errors.New("invalid serial")
)
