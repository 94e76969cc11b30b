package catalog

import "errors"

// Domain errors for the catalog package.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(err, catalog.ErrPackNotFound) {
//	    // handle not found case
//	}
var (
	// ErrPackNotFound is returned when a pack name does not exist.
	ErrPackNotFound = errors.New("catalog: pack not found")

	// ErrDeviceNotFound is returned when a device name does not exist
	// within a pack.
	ErrDeviceNotFound = errors.New("catalog: device not found")

	// ErrInvalidPack is returned when a pack cannot be stored.
	ErrInvalidPack = errors.New("catalog: invalid pack")
)
