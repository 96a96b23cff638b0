package scenario

import "errors"

var (
	// ErrInvalidScope indicates a scope name outside the hierarchy.
	ErrInvalidScope = errors.New("invalid scenario scope")

	// ErrInvalidScopeKey indicates a missing, unexpected or unknown
	// scope key.
	ErrInvalidScopeKey = errors.New("invalid scenario scope key")
)
