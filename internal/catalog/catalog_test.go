package catalog

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seriate/packset/internal/packtype"
	"github.com/seriate/packset/internal/testpack"
)

func TestDecode_Versions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		version int
		algo    packtype.ChecksumAlgo
	}{
		{name: "v1 md5", version: 1, algo: packtype.ChecksumMD5},
		{name: "v2 blake3", version: 2, algo: packtype.ChecksumBLAKE3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			gen := testpack.NewGen(t, tc.version)
			gen.Container("packs/data.pack")
			gen.Pad(0, 16)
			data := []byte("the quick brown fox jumps over the lazy dog")
			gen.AddTo(0, "assets/fox.txt", data, packtype.CompressionZlib)

			cat, err := Decode(gen.CatalogBytes())
			require.NoError(t, err)

			assert.Equal(t, tc.version, cat.Version)
			assert.Equal(t, []string{"packs/data.pack"}, cat.Containers)
			assert.Empty(t, cat.Skipped)
			require.Len(t, cat.Records, 1)

			rec := cat.Records[0]
			assert.Equal(t, "assets/fox.txt", rec.Path)
			assert.Equal(t, "packs/data.pack", rec.Container)
			assert.Equal(t, uint64(16), rec.Offset)
			assert.Equal(t, uint64(len(data)), rec.UncompressedSize)
			assert.Equal(t, packtype.CompressionZlib, rec.Kind)
			assert.Equal(t, tc.algo, rec.Checksum.Algo)
			assert.Equal(t, testpack.Sum(t, tc.algo, data), rec.Checksum.Sum)
		})
	}
}

func TestDecode_EmptyCatalog(t *testing.T) {
	t.Parallel()

	gen := testpack.NewGen(t, 2)
	cat, err := Decode(gen.CatalogBytes())
	require.NoError(t, err)
	assert.Empty(t, cat.Containers)
	assert.Empty(t, cat.Records)
	assert.Empty(t, cat.Skipped)
}

func TestDecode_BadMagic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "shorter than magic", data: []byte("PS")},
		{name: "unknown magic", data: []byte("NOPE\x00\x00\x00\x00")},
		{name: "future version", data: []byte("PSC9\x00\x00\x00\x00\x00\x00\x00\x00")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decode(tc.data)
			require.ErrorIs(t, err, ErrBadMagic)
		})
	}
}

func TestDecode_Truncated(t *testing.T) {
	t.Parallel()

	gen := testpack.NewGen(t, 1)
	gen.Add("assets/long-enough-name.txt", []byte("payload"), packtype.CompressionStored)
	full := gen.CatalogBytes()

	t.Run("record overruns input", func(t *testing.T) {
		t.Parallel()

		// Chop into the final record's path so the fixed fields still fit.
		_, err := Decode(full[:len(full)-3])
		require.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("record count lies", func(t *testing.T) {
		t.Parallel()

		// The record count sits after the magic, the container count, and
		// the single table entry.
		doctored := append([]byte(nil), full...)
		countOff := 4 + 4 + 2 + len("data.pack")
		binary.LittleEndian.PutUint32(doctored[countOff:], 1<<30)
		_, err := Decode(doctored)
		require.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("container count lies", func(t *testing.T) {
		t.Parallel()

		data := append([]byte(MagicV1), 0xFF, 0xFF, 0xFF, 0xFF)
		_, err := Decode(data)
		require.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("container path overruns input", func(t *testing.T) {
		t.Parallel()

		var data []byte
		data = append(data, MagicV1...)
		data = binary.LittleEndian.AppendUint32(data, 1)
		data = binary.LittleEndian.AppendUint16(data, 500)
		data = append(data, "short"...)
		_, err := Decode(data)
		require.ErrorIs(t, err, ErrTruncated)
	})
}

func TestDecode_SkipsInvalidPaths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
	}{
		{name: "empty", path: ""},
		{name: "dot", path: "."},
		{name: "dot dot", path: ".."},
		{name: "traversal", path: "../escape"},
		{name: "absolute", path: "/absolute"},
		{name: "double slash", path: "a//b"},
		{name: "backslash", path: "a\\b"},
		{name: "nul byte", path: "a\x00b"},
		{name: "trailing slash", path: "trailing/"},
		{name: "invalid utf8", path: "bad\xff\xfeutf8"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			gen := testpack.NewGen(t, 2)
			gen.Add("good.txt", []byte("keep"), packtype.CompressionStored)
			gen.Add("mutated.txt", []byte("drop"), packtype.CompressionStored).Path = tc.path

			cat, err := Decode(gen.CatalogBytes())
			require.NoError(t, err)
			require.Len(t, cat.Records, 1)
			assert.Equal(t, "good.txt", cat.Records[0].Path)

			require.Len(t, cat.Skipped, 1)
			assert.Equal(t, 1, cat.Skipped[0].Index)
			assert.ErrorIs(t, cat.Skipped[0].Err, ErrBadPath)
		})
	}
}

func TestDecode_ContainerRefs(t *testing.T) {
	t.Parallel()

	gen := testpack.NewGen(t, 2)
	bad := gen.Container("bad\\table\\entry")
	good := gen.Container("good.pack")
	gen.AddTo(bad, "dangling.txt", []byte("a"), packtype.CompressionStored)
	gen.AddTo(good, "kept.txt", []byte("b"), packtype.CompressionStored)
	gen.AddTo(good, "out-of-range.txt", []byte("c"), packtype.CompressionStored).Ref = 7

	cat, err := Decode(gen.CatalogBytes())
	require.NoError(t, err)

	// The invalid table path keeps its slot so ref 1 still lines up.
	assert.Equal(t, []string{"", "good.pack"}, cat.Containers)
	require.Len(t, cat.Records, 1)
	assert.Equal(t, "kept.txt", cat.Records[0].Path)
	assert.Equal(t, "good.pack", cat.Records[0].Container)

	require.Len(t, cat.Skipped, 2)
	assert.Equal(t, 0, cat.Skipped[0].Index)
	assert.ErrorIs(t, cat.Skipped[0].Err, ErrBadContainerRef)
	assert.Equal(t, 2, cat.Skipped[1].Index)
	assert.ErrorIs(t, cat.Skipped[1].Err, ErrBadContainerRef)
}

func TestDecode_UnknownKindSurvives(t *testing.T) {
	t.Parallel()

	gen := testpack.NewGen(t, 2)
	gen.Add("weird.bin", []byte("data"), packtype.CompressionStored).Kind = 9

	cat, err := Decode(gen.CatalogBytes())
	require.NoError(t, err)
	require.Len(t, cat.Records, 1)
	assert.Equal(t, packtype.Compression(9), cat.Records[0].Kind)
}

func TestDecode_DuplicatePathsPreserved(t *testing.T) {
	t.Parallel()

	gen := testpack.NewGen(t, 1)
	gen.Add("same.txt", []byte("first"), packtype.CompressionStored)
	gen.Add("same.txt", []byte("second"), packtype.CompressionStored)

	cat, err := Decode(gen.CatalogBytes())
	require.NoError(t, err)
	require.Len(t, cat.Records, 2)
	assert.Equal(t, "same.txt", cat.Records[0].Path)
	assert.Equal(t, "same.txt", cat.Records[1].Path)
	assert.NotEqual(t, cat.Records[0].Offset, cat.Records[1].Offset)
}

func TestDecode_TrailingBytesIgnored(t *testing.T) {
	t.Parallel()

	gen := testpack.NewGen(t, 2)
	gen.Add("a.txt", []byte("payload"), packtype.CompressionZstd)

	data := append(gen.CatalogBytes(), 0xDE, 0xAD, 0xBE, 0xEF)
	cat, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, cat.Records, 1)
	assert.Empty(t, cat.Skipped)
}
