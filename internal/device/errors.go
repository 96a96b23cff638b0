package device

import "errors"

var (
	// ErrUnknownProduct indicates a product ID with no registry entry.
	ErrUnknownProduct = errors.New("unknown product")
)
