// Package resolve discovers a pack set's generations on disk and merges
// their catalogs into one authoritative view of the newest content.
package resolve

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
)

// Well-known names inside a pack set root.
const (
	ClientDirName   = "client"
	VersionsDirName = "versions"
	CatalogFileName = "index.pcat"
)

// Generation locates one generation's catalog on disk.
type Generation struct {
	// Name is "client" or the directory name under versions/.
	Name string

	// Rank is the precedence rank. Higher ranks override lower ones;
	// the client base is rank 0.
	Rank int

	// Dir is the generation directory. Container paths from its catalog
	// are resolved against it.
	Dir string

	// CatalogPath is the location of the generation's catalog file.
	CatalogPath string
}

// Discover enumerates the generations under root in ascending rank order:
// the client base at rank 0, then each versions/ subdirectory at ranks 1..n
// ordered by a numeric-aware name sort. Discovery is purely structural; no
// catalog files are opened. Entries under versions/ that are not plain
// directories are ignored.
//
// An empty result means root holds no pack set at all.
func Discover(root string) ([]Generation, error) {
	var gens []Generation

	clientDir := filepath.Join(root, ClientDirName)
	info, err := os.Stat(clientDir)
	switch {
	case err == nil && info.IsDir():
		gens = append(gens, Generation{
			Name:        ClientDirName,
			Rank:        0,
			Dir:         clientDir,
			CatalogPath: filepath.Join(clientDir, CatalogFileName),
		})
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("stat client directory: %w", err)
	}

	versionsDir := filepath.Join(root, VersionsDirName)
	entries, err := os.ReadDir(versionsDir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read versions directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	slices.SortFunc(names, compareVersionNames)

	for i, name := range names {
		dir := filepath.Join(versionsDir, name)
		gens = append(gens, Generation{
			Name:        name,
			Rank:        i + 1,
			Dir:         dir,
			CatalogPath: filepath.Join(dir, CatalogFileName),
		})
	}
	return gens, nil
}

// compareVersionNames orders generation names so that version directories
// sort the way release numbering intends: names that parse as unsigned
// integers compare numerically ("2" before "10") and sort ahead of
// non-numeric names, which compare bytewise.
func compareVersionNames(a, b string) int {
	na, aok := parseVersionNumber(a)
	nb, bok := parseVersionNumber(b)
	switch {
	case aok && bok:
		if na != nb {
			return cmp.Compare(na, nb)
		}
		// "07" and "7" carry the same number; break the tie bytewise.
		return cmp.Compare(a, b)
	case aok:
		return -1
	case bok:
		return 1
	default:
		return cmp.Compare(a, b)
	}
}

func parseVersionNumber(s string) (uint64, bool) {
	n, err := strconv.ParseUint(s, 10, 64)
	return n, err == nil
}
