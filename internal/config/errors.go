package config

import "github.com/pkg/errors"

// Common errors.
var (
	// ErrInconsistentAttr is returned when a uniform attribute is requested
	// but entries disagree on its value or none of them has it.
	ErrInconsistentAttr = errors.New("inconsistent or non-existent attribute")

	// ErrInvalidOverride is returned when an override names an entry but does
	// not carry a mapping, or carries a mapping for an entry that does not exist.
	ErrInvalidOverride = errors.New("invalid configuration override")

	// ErrUnknownEntry is returned when a parameter-specific lookup names an
	// entry that is not present.
	ErrUnknownEntry = errors.New("unknown configuration entry")

	// ErrWrongType is returned by the typed getters.
	ErrWrongType = errors.New("configuration value has wrong type")

	// ErrMissingKey is returned by the typed getters when the key is absent.
	ErrMissingKey = errors.New("configuration key not set")
)
