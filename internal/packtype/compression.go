package packtype

import "fmt"

// Compression identifies the compression algorithm applied to a payload.
type Compression uint8

const (
	CompressionStored Compression = iota
	CompressionZlib
	CompressionZstd
	CompressionLZ4
)

func (c Compression) String() string {
	switch c {
	case CompressionStored:
		return "stored"
	case CompressionZlib:
		return "zlib"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}
