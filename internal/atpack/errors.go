package atpack

import "errors"

// Sentinel errors for AtPack load operations.
var (
	// ErrFetch indicates the archive could not be retrieved from its URL.
	ErrFetch = errors.New("archive fetch failed")

	// ErrArchiveFormat indicates the byte stream is not a valid ZIP container.
	ErrArchiveFormat = errors.New("not a valid atpack archive")

	// ErrXMLParse indicates an XML fragment is not well-formed.
	ErrXMLParse = errors.New("malformed xml")

	// ErrMetadataMissing indicates the pack name could not be determined
	// from the package descriptor.
	ErrMetadataMissing = errors.New("pack name missing from descriptor")

	// ErrDeviceParse indicates a single device fragment is structurally
	// unparsable. The device is skipped; the load continues.
	ErrDeviceParse = errors.New("device fragment unparsable")

	// ErrNoDescriptor indicates the archive contains no package descriptor.
	ErrNoDescriptor = errors.New("no package descriptor in archive")

	// ErrFileTooLarge indicates the archive exceeds the size limit.
	ErrFileTooLarge = errors.New("archive exceeds maximum size limit")
)

// Warning codes for non-fatal issues recorded during a load.
const (
	WarnDeviceSkipped    = "DEVICE_SKIPPED"
	WarnFragmentMissing  = "FRAGMENT_MISSING"
	WarnBitfieldOverlap  = "BITFIELD_OVERLAP"
	WarnDuplicateDevice  = "DUPLICATE_DEVICE"
	WarnSegmentUnclassed = "SEGMENT_UNCLASSIFIED"
)
