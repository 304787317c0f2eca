// Package testpack builds synthetic pack sets for tests: containers with
// compressed payloads and the catalogs that index them.
package testpack

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/require"

	"github.com/seriate/packset/internal/packtype"
)

// Catalog magics, mirrored here so the builder stays import-light.
const (
	magicV1 = "PSC1"
	magicV2 = "PSC2"
)

// Record is the mutable form of one catalog record. Builder methods fill it
// from real payloads; tests may corrupt any field before Write or
// CatalogBytes encodes it.
type Record struct {
	Ref              uint32
	Offset           uint64
	CompressedSize   uint64
	UncompressedSize uint64
	Kind             uint8
	Sum              []byte
	Path             string
}

// Gen assembles one generation: payloads appended to containers plus the
// records describing them.
type Gen struct {
	tb      testing.TB
	version int
	names   []string
	bufs    []*bytes.Buffer

	// Records holds the catalog records in order. Tests may mutate them
	// freely before encoding.
	Records []*Record
}

// NewGen starts a generation whose catalog uses the given wire version.
func NewGen(tb testing.TB, version int) *Gen {
	tb.Helper()
	require.Contains(tb, []int{1, 2}, version, "catalog version")
	return &Gen{tb: tb, version: version}
}

// Container declares a container file and returns its table index.
func (g *Gen) Container(name string) int {
	g.names = append(g.names, name)
	g.bufs = append(g.bufs, &bytes.Buffer{})
	return len(g.names) - 1
}

// Add stores data under path in the first container (creating "data.pack"
// if none exists yet), compressed with kind, and returns the record for
// further tweaking.
func (g *Gen) Add(path string, data []byte, kind packtype.Compression) *Record {
	g.tb.Helper()
	if len(g.names) == 0 {
		g.Container("data.pack")
	}
	return g.AddTo(0, path, data, kind)
}

// AddTo is Add targeting a specific container table index.
func (g *Gen) AddTo(ref int, path string, data []byte, kind packtype.Compression) *Record {
	g.tb.Helper()
	require.Less(g.tb, ref, len(g.bufs), "container ref")

	payload := Compress(g.tb, kind, data)
	buf := g.bufs[ref]
	rec := &Record{
		Ref:              uint32(ref),
		Offset:           uint64(buf.Len()),
		CompressedSize:   uint64(len(payload)),
		UncompressedSize: uint64(len(data)),
		Kind:             uint8(kind),
		Sum:              Sum(g.tb, g.algo(), data),
		Path:             path,
	}
	buf.Write(payload)
	g.Records = append(g.Records, rec)
	return rec
}

// Pad appends n filler bytes to a container so later payloads start at a
// nonzero offset.
func (g *Gen) Pad(ref, n int) {
	g.tb.Helper()
	require.Less(g.tb, ref, len(g.bufs), "container ref")
	g.bufs[ref].Write(bytes.Repeat([]byte{0xAA}, n))
}

func (g *Gen) algo() packtype.ChecksumAlgo {
	if g.version == 1 {
		return packtype.ChecksumMD5
	}
	return packtype.ChecksumBLAKE3
}

// CatalogBytes encodes the catalog for the generation's wire version.
func (g *Gen) CatalogBytes() []byte {
	g.tb.Helper()
	var b bytes.Buffer
	if g.version == 1 {
		b.WriteString(magicV1)
	} else {
		b.WriteString(magicV2)
	}

	writeU32(&b, uint32(len(g.names)))
	for _, name := range g.names {
		writeU16(&b, uint16(len(name)))
		b.WriteString(name)
	}

	writeU32(&b, uint32(len(g.Records)))
	for _, rec := range g.Records {
		writeU32(&b, rec.Ref)
		writeU64(&b, rec.Offset)
		writeU64(&b, rec.CompressedSize)
		writeU64(&b, rec.UncompressedSize)
		b.WriteByte(rec.Kind)
		if g.version == 2 {
			b.Write([]byte{0, 0, 0})
		}
		b.Write(fitSum(rec.Sum, g.algo().Size()))
		writeU16(&b, uint16(len(rec.Path)))
		b.WriteString(rec.Path)
	}
	return b.Bytes()
}

// Write lays the generation out under dir: every container plus index.pcat.
func (g *Gen) Write(dir string) {
	g.tb.Helper()
	require.NoError(g.tb, os.MkdirAll(dir, 0o755))
	for i, name := range g.names {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(g.tb, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(g.tb, os.WriteFile(path, g.bufs[i].Bytes(), 0o644))
	}
	require.NoError(g.tb, os.WriteFile(filepath.Join(dir, "index.pcat"), g.CatalogBytes(), 0o644))
}

// ContainerBytes returns the raw content of a container, for corruption
// tests that rewrite it.
func (g *Gen) ContainerBytes(ref int) []byte {
	g.tb.Helper()
	require.Less(g.tb, ref, len(g.bufs), "container ref")
	return g.bufs[ref].Bytes()
}

// Compress encodes data with the given kind. Stored returns the data as is.
func Compress(tb testing.TB, kind packtype.Compression, data []byte) []byte {
	tb.Helper()
	var b bytes.Buffer
	switch kind {
	case packtype.CompressionStored:
		return bytes.Clone(data)
	case packtype.CompressionZlib:
		w := zlib.NewWriter(&b)
		_, err := w.Write(data)
		require.NoError(tb, err)
		require.NoError(tb, w.Close())
	case packtype.CompressionZstd:
		w, err := zstd.NewWriter(&b)
		require.NoError(tb, err)
		_, err = w.Write(data)
		require.NoError(tb, err)
		require.NoError(tb, w.Close())
	case packtype.CompressionLZ4:
		w := lz4.NewWriter(&b)
		_, err := w.Write(data)
		require.NoError(tb, err)
		require.NoError(tb, w.Close())
	default:
		tb.Fatalf("cannot compress kind %d", kind)
	}
	return b.Bytes()
}

// Sum digests data with the given algorithm.
func Sum(tb testing.TB, algo packtype.ChecksumAlgo, data []byte) []byte {
	tb.Helper()
	h := algo.New()
	_, err := h.Write(data)
	require.NoError(tb, err)
	return h.Sum(nil)
}

func fitSum(sum []byte, size int) []byte {
	out := make([]byte, size)
	copy(out, sum)
	return out
}

func writeU16(b *bytes.Buffer, v uint16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	b.Write(buf[:])
}

func writeU32(b *bytes.Buffer, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	b.Write(buf[:])
}

func writeU64(b *bytes.Buffer, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	b.Write(buf[:])
}
