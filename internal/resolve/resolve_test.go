package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seriate/packset/internal/catalog"
	"github.com/seriate/packset/internal/packtype"
)

// mkdirs creates the named directories under root.
func mkdirs(tb testing.TB, root string, dirs ...string) {
	tb.Helper()
	for _, d := range dirs {
		require.NoError(tb, os.MkdirAll(filepath.Join(root, d), 0o755))
	}
}

func TestDiscover_ClientAndVersions(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mkdirs(t, root, "client", "versions/2", "versions/10", "versions/hotfix")

	gens, err := Discover(root)
	require.NoError(t, err)
	require.Len(t, gens, 4)

	assert.Equal(t, "client", gens[0].Name)
	assert.Equal(t, 0, gens[0].Rank)
	assert.Equal(t, filepath.Join(root, "client"), gens[0].Dir)
	assert.Equal(t, filepath.Join(root, "client", "index.pcat"), gens[0].CatalogPath)

	// Numeric names sort numerically and ahead of non-numeric ones.
	assert.Equal(t, "2", gens[1].Name)
	assert.Equal(t, "10", gens[2].Name)
	assert.Equal(t, "hotfix", gens[3].Name)
	for i, g := range gens {
		assert.Equal(t, i, g.Rank, "generation %s", g.Name)
	}
}

func TestDiscover_ClientOnly(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mkdirs(t, root, "client")

	gens, err := Discover(root)
	require.NoError(t, err)
	require.Len(t, gens, 1)
	assert.Equal(t, "client", gens[0].Name)
}

func TestDiscover_VersionsOnly(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mkdirs(t, root, "versions/1")

	gens, err := Discover(root)
	require.NoError(t, err)
	require.Len(t, gens, 1)
	assert.Equal(t, "1", gens[0].Name)
	assert.Equal(t, 1, gens[0].Rank)
}

func TestDiscover_Empty(t *testing.T) {
	t.Parallel()

	gens, err := Discover(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, gens)
}

func TestDiscover_IgnoresNonDirectories(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mkdirs(t, root, "versions/1")
	require.NoError(t, os.WriteFile(filepath.Join(root, "versions", "notes.txt"), []byte("x"), 0o644))
	// A file named client is not a generation.
	require.NoError(t, os.WriteFile(filepath.Join(root, "client"), []byte("x"), 0o644))

	gens, err := Discover(root)
	require.NoError(t, err)
	require.Len(t, gens, 1)
	assert.Equal(t, "1", gens[0].Name)
}

func TestCompareVersionNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b string
		want int
	}{
		{name: "numeric order", a: "2", b: "10", want: -1},
		{name: "numeric equal", a: "3", b: "3", want: 0},
		{name: "leading zero tie", a: "07", b: "7", want: -1},
		{name: "numeric before alpha", a: "100", b: "alpha", want: -1},
		{name: "alpha after numeric", a: "beta", b: "1", want: 1},
		{name: "alpha bytewise", a: "alpha", b: "beta", want: -1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, compareVersionNames(tc.a, tc.b))
		})
	}
}

// record builds a minimal catalog record for merge tests.
func record(path, container string, offset uint64) packtype.FileRecord {
	return packtype.FileRecord{
		Path:      path,
		Container: container,
		Offset:    offset,
		Kind:      packtype.CompressionStored,
	}
}

func TestMerge_HigherRankWins(t *testing.T) {
	t.Parallel()

	inputs := []Input{
		{
			Generation: Generation{Name: "client", Rank: 0, Dir: "/set/client"},
			Catalog: &catalog.Catalog{Records: []packtype.FileRecord{
				record("base.txt", "c0.pack", 0),
				record("patched.txt", "c0.pack", 100),
			}},
		},
		{
			Generation: Generation{Name: "1", Rank: 1, Dir: "/set/versions/1"},
			Catalog: &catalog.Catalog{Records: []packtype.FileRecord{
				record("patched.txt", "c1.pack", 200),
				record("added.txt", "c1.pack", 300),
			}},
		},
	}

	res := Merge(inputs)
	assert.Equal(t, 3, res.Len())
	assert.Equal(t, []string{"added.txt", "base.txt", "patched.txt"}, res.Paths())

	base, ok := res.Get("base.txt")
	require.True(t, ok)
	assert.Equal(t, "client", base.Generation)
	assert.Equal(t, 0, base.Rank)
	assert.Equal(t, "/set/client", base.Dir)

	patched, ok := res.Get("patched.txt")
	require.True(t, ok)
	assert.Equal(t, "1", patched.Generation)
	assert.Equal(t, uint64(200), patched.Record.Offset)

	added, ok := res.Get("added.txt")
	require.True(t, ok)
	assert.Equal(t, "1", added.Generation)
}

func TestMerge_RankOrderNotInputOrder(t *testing.T) {
	t.Parallel()

	// Inputs arrive highest rank first; rank still decides the winner.
	inputs := []Input{
		{
			Generation: Generation{Name: "2", Rank: 2},
			Catalog: &catalog.Catalog{Records: []packtype.FileRecord{
				record("f.txt", "new.pack", 0),
			}},
		},
		{
			Generation: Generation{Name: "client", Rank: 0},
			Catalog: &catalog.Catalog{Records: []packtype.FileRecord{
				record("f.txt", "old.pack", 0),
			}},
		},
	}

	rf, ok := Merge(inputs).Get("f.txt")
	require.True(t, ok)
	assert.Equal(t, "2", rf.Generation)
	assert.Equal(t, "new.pack", rf.Record.Container)
}

func TestMerge_LastRecordWinsWithinCatalog(t *testing.T) {
	t.Parallel()

	inputs := []Input{
		{
			Generation: Generation{Name: "client", Rank: 0},
			Catalog: &catalog.Catalog{Records: []packtype.FileRecord{
				record("dup.txt", "c.pack", 0),
				record("dup.txt", "c.pack", 100),
			}},
		},
	}

	res := Merge(inputs)
	assert.Equal(t, 1, res.Len())
	rf, ok := res.Get("dup.txt")
	require.True(t, ok)
	assert.Equal(t, uint64(100), rf.Record.Offset)
}

func TestMerge_All(t *testing.T) {
	t.Parallel()

	inputs := []Input{
		{
			Generation: Generation{Name: "client", Rank: 0},
			Catalog: &catalog.Catalog{Records: []packtype.FileRecord{
				record("b.txt", "c.pack", 0),
				record("a.txt", "c.pack", 10),
				record("c/d.txt", "c.pack", 20),
			}},
		},
	}

	all := Merge(inputs).All()
	require.Len(t, all, 3)
	assert.Equal(t, "a.txt", all[0].Path())
	assert.Equal(t, "b.txt", all[1].Path())
	assert.Equal(t, "c/d.txt", all[2].Path())
}

func TestMerge_Empty(t *testing.T) {
	t.Parallel()

	res := Merge(nil)
	assert.Equal(t, 0, res.Len())
	assert.Empty(t, res.Paths())
	assert.Empty(t, res.All())

	_, ok := res.Get("anything")
	assert.False(t, ok)
}
