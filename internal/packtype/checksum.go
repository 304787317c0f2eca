package packtype

import (
	"bytes"
	"crypto/md5" //nolint:gosec // integrity check for a legacy format, not authentication
	"encoding/hex"
	"fmt"
	"hash"

	"github.com/zeebo/blake3"
)

// ChecksumAlgo identifies the digest algorithm a catalog uses for its records.
type ChecksumAlgo uint8

const (
	// ChecksumMD5 is used by version 1 catalogs.
	ChecksumMD5 ChecksumAlgo = iota + 1

	// ChecksumBLAKE3 is used by version 2 catalogs.
	ChecksumBLAKE3
)

// Size returns the digest length in bytes, or 0 for an unknown algorithm.
func (a ChecksumAlgo) Size() int {
	switch a {
	case ChecksumMD5:
		return md5.Size
	case ChecksumBLAKE3:
		return 32
	default:
		return 0
	}
}

// New returns a fresh hasher for the algorithm.
// It panics on an unknown algorithm; callers validate the algo first.
func (a ChecksumAlgo) New() hash.Hash {
	switch a {
	case ChecksumMD5:
		return md5.New() //nolint:gosec // integrity check for a legacy format
	case ChecksumBLAKE3:
		return blake3.New()
	default:
		panic(fmt.Sprintf("packset: invalid checksum algorithm %d", a))
	}
}

func (a ChecksumAlgo) String() string {
	switch a {
	case ChecksumMD5:
		return "md5"
	case ChecksumBLAKE3:
		return "blake3"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(a))
	}
}

// Checksum is an expected digest of a payload's uncompressed content.
type Checksum struct {
	// Algo identifies the digest algorithm.
	Algo ChecksumAlgo

	// Sum is the expected digest. Its length matches Algo.Size().
	Sum []byte
}

// Matches reports whether sum equals the expected digest.
func (c Checksum) Matches(sum []byte) bool {
	return bytes.Equal(c.Sum, sum)
}

func (c Checksum) String() string {
	return c.Algo.String() + ":" + hex.EncodeToString(c.Sum)
}
