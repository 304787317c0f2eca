// Package catalog decodes the binary catalog format that indexes a
// generation's containers.
//
// Two wire versions exist behind one entry point. Version 1 ("PSC1") carries
// MD5 record checksums; version 2 ("PSC2") widens them to BLAKE3, reserves
// room for future per-record flags, and adds the zstd and lz4 kinds. Both
// share the same shape: magic, container path table, then a run of file
// records. Decoding is a pure transform over bytes; no file I/O happens here.
package catalog

import (
	"errors"
	"fmt"

	"github.com/seriate/packset/internal/packtype"
)

// Catalog magics. The trailing digit is the format version.
const (
	MagicV1 = "PSC1"
	MagicV2 = "PSC2"
)

// fixedRecordBytes counts the record fields every version shares: container
// ref (4), offset (8), compressed and uncompressed sizes (8+8), kind (1),
// and the path length prefix (2).
const fixedRecordBytes = 31

// format captures what differs between catalog versions.
type format struct {
	version  int
	algo     packtype.ChecksumAlgo
	reserved int // reserved bytes between kind and checksum
}

func (f format) minRecordSize() int {
	return fixedRecordBytes + f.reserved + f.algo.Size()
}

var formats = map[string]format{
	MagicV1: {version: 1, algo: packtype.ChecksumMD5},
	MagicV2: {version: 2, algo: packtype.ChecksumBLAKE3, reserved: 3},
}

// Catalog is the decoded form of one generation's index.
type Catalog struct {
	// Version is the wire format version, 1 or 2.
	Version int

	// Containers is the container path table. Paths are relative to the
	// generation directory. A slot that failed validation holds "".
	Containers []string

	// Records holds the decoded file records in catalog order. Duplicate
	// paths are preserved; resolution applies last-wins.
	Records []packtype.FileRecord

	// Skipped lists records dropped during decoding, with reasons.
	Skipped []SkippedRecord
}

// SkippedRecord identifies a record the decoder dropped rather than failing
// the whole catalog.
type SkippedRecord struct {
	// Index is the record's position in the catalog.
	Index int

	// Err wraps ErrBadPath or ErrBadContainerRef.
	Err error
}

// Decode parses a catalog from raw bytes.
//
// Structural damage (unknown magic, counts or fields running past the end of
// the input) fails the whole catalog. A structurally complete record with an
// invalid path or a dangling container reference is skipped and reported in
// Catalog.Skipped instead. Bytes after the last declared record are ignored.
func Decode(data []byte) (*Catalog, error) {
	if len(data) < len(MagicV1) {
		return nil, fmt.Errorf("%w: %d bytes is too short for a catalog", ErrBadMagic, len(data))
	}
	f, ok := formats[string(data[:len(MagicV1)])]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBadMagic, data[:len(MagicV1)])
	}
	c := &cursor{data: data, off: len(MagicV1)}

	containers, err := decodeContainerTable(c)
	if err != nil {
		return nil, err
	}

	recordCount, err := c.u32("record count")
	if err != nil {
		return nil, err
	}
	if need := uint64(recordCount) * uint64(f.minRecordSize()); need > uint64(c.remaining()) {
		return nil, fmt.Errorf("%w: %d records declared but only %d bytes remain",
			ErrTruncated, recordCount, c.remaining())
	}

	cat := &Catalog{
		Version:    f.version,
		Containers: containers,
		Records:    make([]packtype.FileRecord, 0, recordCount),
	}
	for i := 0; i < int(recordCount); i++ {
		rec, err := decodeRecord(c, f, containers)
		if err != nil {
			if errors.Is(err, ErrBadPath) || errors.Is(err, ErrBadContainerRef) {
				cat.Skipped = append(cat.Skipped, SkippedRecord{Index: i, Err: err})
				continue
			}
			return nil, err
		}
		cat.Records = append(cat.Records, rec)
	}
	return cat, nil
}

func decodeContainerTable(c *cursor) ([]string, error) {
	count, err := c.u32("container count")
	if err != nil {
		return nil, err
	}
	// Every table entry takes at least its two length bytes.
	if uint64(count)*2 > uint64(c.remaining()) {
		return nil, fmt.Errorf("%w: %d container paths declared but only %d bytes remain",
			ErrTruncated, count, c.remaining())
	}
	table := make([]string, 0, count)
	for i := 0; i < int(count); i++ {
		n, err := c.u16("container path length")
		if err != nil {
			return nil, err
		}
		raw, err := c.take(int(n), "container path")
		if err != nil {
			return nil, err
		}
		p := string(raw)
		if !validPath(p) {
			// Keep the slot so later refs stay aligned. Records pointing
			// here are skipped with ErrBadContainerRef.
			p = ""
		}
		table = append(table, p)
	}
	return table, nil
}
