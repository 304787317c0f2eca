package catalog

import (
	"bytes"
	"fmt"
	"io/fs"
	"strings"
	"unicode/utf8"

	"github.com/seriate/packset/internal/packtype"
)

// decodeRecord reads one record and advances the cursor past it. An error
// wrapping ErrBadPath or ErrBadContainerRef marks a skippable record; any
// other error is structural and fails the whole catalog.
func decodeRecord(c *cursor, f format, containers []string) (packtype.FileRecord, error) {
	var zero packtype.FileRecord

	ref, err := c.u32("container ref")
	if err != nil {
		return zero, err
	}
	offset, err := c.u64("data offset")
	if err != nil {
		return zero, err
	}
	csize, err := c.u64("compressed size")
	if err != nil {
		return zero, err
	}
	usize, err := c.u64("uncompressed size")
	if err != nil {
		return zero, err
	}
	kind, err := c.u8("compression kind")
	if err != nil {
		return zero, err
	}
	if f.reserved > 0 {
		// Reserved for future per-record flags; content is not validated.
		if _, err := c.take(f.reserved, "reserved bytes"); err != nil {
			return zero, err
		}
	}
	sum, err := c.take(f.algo.Size(), "checksum")
	if err != nil {
		return zero, err
	}
	nameLen, err := c.u16("path length")
	if err != nil {
		return zero, err
	}
	raw, err := c.take(int(nameLen), "path")
	if err != nil {
		return zero, err
	}
	path := string(raw)

	// The record is structurally complete from here on; failures below
	// skip it rather than fail the catalog.
	if !validPath(path) {
		return zero, fmt.Errorf("%w: %q", ErrBadPath, path)
	}
	if uint64(ref) >= uint64(len(containers)) {
		return zero, fmt.Errorf("%w: %q references container %d but the table has %d entries",
			ErrBadContainerRef, path, ref, len(containers))
	}
	container := containers[ref]
	if container == "" {
		return zero, fmt.Errorf("%w: %q references container %d whose path is invalid",
			ErrBadContainerRef, path, ref)
	}

	return packtype.FileRecord{
		Path:             path,
		Container:        container,
		Offset:           offset,
		CompressedSize:   csize,
		UncompressedSize: usize,
		Kind:             packtype.Compression(kind),
		Checksum: packtype.Checksum{
			Algo: f.algo,
			// Clone so records do not pin the whole catalog buffer.
			Sum: bytes.Clone(sum),
		},
	}, nil
}

// validPath reports whether p is a normalized forward-slash relative path
// that stays inside the extraction root. Backslashes and NUL bytes are
// rejected; catalogs store normalized paths only.
func validPath(p string) bool {
	if p == "" || p == "." || !utf8.ValidString(p) {
		return false
	}
	if strings.ContainsRune(p, '\\') || strings.IndexByte(p, 0) >= 0 {
		return false
	}
	return fs.ValidPath(p)
}
