package packset

import (
	"errors"

	"github.com/seriate/packset/internal/catalog"
	"github.com/seriate/packset/internal/packtype"
)

// Catalog format errors re-exported from internal/catalog.
var (
	// ErrBadMagic is returned when input does not start with a known
	// catalog magic.
	ErrBadMagic = catalog.ErrBadMagic

	// ErrTruncated is returned when a catalog ends before its declared
	// structure does.
	ErrTruncated = catalog.ErrTruncated

	// ErrBadPath marks a skipped record whose path failed validation.
	ErrBadPath = catalog.ErrBadPath

	// ErrBadContainerRef marks a skipped record that references a container
	// outside the catalog's container table.
	ErrBadContainerRef = catalog.ErrBadContainerRef
)

// I/O and integrity errors re-exported from internal/packtype.
var (
	// ErrContainerMissing is returned when a referenced container file does
	// not exist on disk.
	ErrContainerMissing = packtype.ErrContainerMissing

	// ErrRangeOutOfBounds is returned when a record's byte range extends
	// past the end of its container.
	ErrRangeOutOfBounds = packtype.ErrRangeOutOfBounds

	// ErrChecksumMismatch is returned when extracted content does not match
	// its catalog checksum.
	ErrChecksumMismatch = packtype.ErrChecksumMismatch

	// ErrLengthMismatch is returned when a payload does not decode to the
	// length its record declares.
	ErrLengthMismatch = packtype.ErrLengthMismatch

	// ErrDecompression is returned when decompression fails.
	ErrDecompression = packtype.ErrDecompression

	// ErrUnsupportedKind is returned when a record declares a compression
	// kind the engine cannot decode.
	ErrUnsupportedKind = packtype.ErrUnsupportedKind

	// ErrSizeOverflow is returned when byte counts exceed supported limits.
	ErrSizeOverflow = packtype.ErrSizeOverflow
)

// Resolution errors specific to the packset package.
var (
	// ErrMissingCatalog is returned when a generation directory exists but
	// holds no catalog file.
	ErrMissingCatalog = errors.New("packset: missing catalog")

	// ErrNoGenerations is returned when a root yields nothing to resolve:
	// no generation directories, or none with a decodable catalog.
	ErrNoGenerations = errors.New("packset: no usable generations")
)
