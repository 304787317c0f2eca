package catalog

import "errors"

// Sentinel errors for catalog decoding.
var (
	// ErrBadMagic is returned when input does not start with a known
	// catalog magic.
	ErrBadMagic = errors.New("packset: bad catalog magic")

	// ErrTruncated is returned when a catalog ends before its declared
	// structure does.
	ErrTruncated = errors.New("packset: truncated catalog")

	// ErrBadPath marks a skipped record whose path failed validation.
	ErrBadPath = errors.New("packset: bad record path")

	// ErrBadContainerRef marks a skipped record that references a container
	// outside the catalog's container table.
	ErrBadContainerRef = errors.New("packset: bad container reference")
)
