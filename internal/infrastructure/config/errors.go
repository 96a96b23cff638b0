package config

import "errors"

// ErrInvalidConfig indicates a configuration the emulator cannot
// start with.
var ErrInvalidConfig = errors.New("invalid configuration")
