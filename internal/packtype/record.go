// Package packtype defines shared types used across the packset package and its
// internal packages. This avoids circular imports between packset and internal/extract.
package packtype

// FileRecord describes one file payload stored inside a generation's containers.
type FileRecord struct {
	// Path is the logical file path, forward-slash separated and relative
	// to the extraction root (e.g., "res/maps/world.dat").
	Path string

	// Container is the container file path relative to the generation
	// directory that holds this record's payload.
	Container string

	// Offset is the byte offset in the container where the payload begins.
	Offset uint64

	// CompressedSize is the payload's stored size in bytes.
	CompressedSize uint64

	// UncompressedSize is the payload's size after decompression.
	// Equal to CompressedSize for stored payloads.
	UncompressedSize uint64

	// Kind is the compression applied to the payload.
	Kind Compression

	// Checksum is the expected digest of the uncompressed payload.
	Checksum Checksum
}

// ResolvedFile pairs a FileRecord with the generation that won resolution
// for its path.
type ResolvedFile struct {
	// Record is the winning catalog record.
	Record FileRecord

	// Generation is the name of the winning generation ("client" or a
	// directory name under versions/).
	Generation string

	// Rank is the generation's precedence rank. Higher ranks override
	// lower ones, with the client base at rank 0.
	Rank int

	// Dir is the absolute generation directory. Container paths in Record
	// are resolved against it.
	Dir string
}

// Path returns the logical path of the resolved record.
func (rf ResolvedFile) Path() string {
	return rf.Record.Path
}
