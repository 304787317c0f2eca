package packtype

import "errors"

// Sentinel errors shared across the packset engine.
var (
	// ErrChecksumMismatch is returned when extracted content does not match
	// its catalog checksum.
	ErrChecksumMismatch = errors.New("packset: checksum verification failed")

	// ErrLengthMismatch is returned when a payload does not decode to the
	// length its record declares.
	ErrLengthMismatch = errors.New("packset: decoded length mismatch")

	// ErrDecompression is returned when decompression fails.
	ErrDecompression = errors.New("packset: decompression failed")

	// ErrUnsupportedKind is returned when a record declares a compression
	// kind the engine cannot decode.
	ErrUnsupportedKind = errors.New("packset: unsupported compression kind")

	// ErrContainerMissing is returned when a referenced container file does
	// not exist on disk.
	ErrContainerMissing = errors.New("packset: container missing")

	// ErrRangeOutOfBounds is returned when a record's byte range extends
	// past the end of its container.
	ErrRangeOutOfBounds = errors.New("packset: range out of bounds")

	// ErrSizeOverflow is returned when byte counts exceed supported limits.
	ErrSizeOverflow = errors.New("packset: size overflow")
)
