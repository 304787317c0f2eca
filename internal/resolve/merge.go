package resolve

import (
	"cmp"
	"maps"
	"slices"

	"github.com/seriate/packset/internal/catalog"
	"github.com/seriate/packset/internal/packtype"
)

// Input pairs a discovered generation with its decoded catalog.
type Input struct {
	Generation Generation
	Catalog    *catalog.Catalog
}

// Resolution is the merged view of every decodable generation: one winning
// record per logical path.
type Resolution struct {
	files map[string]packtype.ResolvedFile
	paths []string
}

// Merge folds catalogs together in ascending rank order. A later upsert
// replaces an earlier one, so within a rank the last input wins, within a
// catalog the last record wins, and across ranks the highest rank wins.
func Merge(inputs []Input) *Resolution {
	ordered := slices.Clone(inputs)
	slices.SortStableFunc(ordered, func(a, b Input) int {
		return cmp.Compare(a.Generation.Rank, b.Generation.Rank)
	})

	files := make(map[string]packtype.ResolvedFile)
	for _, in := range ordered {
		for _, rec := range in.Catalog.Records {
			files[rec.Path] = packtype.ResolvedFile{
				Record:     rec,
				Generation: in.Generation.Name,
				Rank:       in.Generation.Rank,
				Dir:        in.Generation.Dir,
			}
		}
	}

	return &Resolution{
		files: files,
		paths: slices.Sorted(maps.Keys(files)),
	}
}

// Len returns the number of distinct logical paths.
func (r *Resolution) Len() int {
	return len(r.paths)
}

// Paths returns every resolved path in lexicographic order. The slice is
// shared; callers must not modify it.
func (r *Resolution) Paths() []string {
	return r.paths
}

// Get returns the winning record for path.
func (r *Resolution) Get(path string) (packtype.ResolvedFile, bool) {
	rf, ok := r.files[path]
	return rf, ok
}

// All returns every resolved file in lexicographic path order.
func (r *Resolution) All() []packtype.ResolvedFile {
	out := make([]packtype.ResolvedFile, 0, len(r.paths))
	for _, p := range r.paths {
		out = append(out, r.files[p])
	}
	return out
}
