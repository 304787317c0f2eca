package packset

import "github.com/seriate/packset/internal/packtype"

// Re-export types from internal/packtype for the public API.
type (
	// FileRecord describes one file payload stored inside a generation's
	// containers.
	FileRecord = packtype.FileRecord

	// ResolvedFile pairs a FileRecord with the generation that won
	// resolution for its path.
	ResolvedFile = packtype.ResolvedFile

	// Compression identifies the compression algorithm applied to a payload.
	Compression = packtype.Compression

	// ChecksumAlgo identifies the digest algorithm a catalog uses.
	ChecksumAlgo = packtype.ChecksumAlgo

	// Checksum is an expected digest of a payload's uncompressed content.
	Checksum = packtype.Checksum

	// Status classifies the result of processing one resolved file.
	Status = packtype.Status

	// Outcome reports the result of processing a single resolved file.
	Outcome = packtype.Outcome

	// Summary aggregates the outcomes of one run.
	Summary = packtype.Summary
)

// Compression constants.
const (
	CompressionStored = packtype.CompressionStored
	CompressionZlib   = packtype.CompressionZlib
	CompressionZstd   = packtype.CompressionZstd
	CompressionLZ4    = packtype.CompressionLZ4
)

// Checksum algorithm constants.
const (
	ChecksumMD5    = packtype.ChecksumMD5
	ChecksumBLAKE3 = packtype.ChecksumBLAKE3
)

// Outcome status constants.
const (
	StatusWritten  = packtype.StatusWritten
	StatusListed   = packtype.StatusListed
	StatusVerified = packtype.StatusVerified
	StatusFailed   = packtype.StatusFailed
)

// GenerationInfo reports how one discovered generation fared during Open.
type GenerationInfo struct {
	// Name is "client" or the directory name under versions/.
	Name string

	// Rank is the generation's precedence rank. Higher ranks override
	// lower ones.
	Rank int

	// Dir is the generation directory.
	Dir string

	// Records counts the records decoded from this generation's catalog.
	Records int

	// Skipped counts the records its decoder dropped.
	Skipped int

	// Err is non-nil when the whole generation was skipped, and explains
	// why (for example a missing or truncated catalog).
	Err error
}
