package manager

import "errors"

var (
	// ErrDuplicateSerial indicates an Add with a serial already live.
	ErrDuplicateSerial = errors.New("duplicate device serial")

	// ErrDeviceNotFound indicates a serial with no live device.
	ErrDeviceNotFound = errors.New("device not found")
)
