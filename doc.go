// Package packset resolves and extracts versioned pack archives.
//
// A pack set is a directory tree holding a base generation under client/
// and any number of update generations under versions/. Each generation
// carries a binary catalog (index.pcat) that indexes file payloads stored
// inside opaque container files. Opening a set decodes every catalog and
// merges them by generation rank, newest wins, into one authoritative view
// of the content.
//
// Catalogs come in two wire versions behind a single decoder: version 1
// with MD5 record checksums, and version 2 with BLAKE3 checksums and the
// zstd and lz4 payload kinds.
//
// # Quick Start
//
// Extract the newest view of every file:
//
//	set, err := packset.Open(packset.Config{Root: "/data/game"})
//	if err != nil {
//	    return err
//	}
//	defer set.Close()
//
//	summary, err := set.Run(ctx)
//	if err != nil {
//	    return err
//	}
//	if !summary.Ok() {
//	    log.Printf("%d files failed", summary.Failed)
//	}
//
// # Selection
//
// Config.Filter narrows a run to the paths a PathFilter accepts. Selection
// is deterministic: files are always processed from the lexicographically
// sorted resolved view, so two runs over the same set select the same files
// in the same order.
//
// # Failure Model
//
// Open fails only when no generation can be used at all, or when the client
// base catalog exists but cannot be decoded. Everything else degrades: a
// version generation with a missing or damaged catalog is skipped and
// reported through Generations, and a file that cannot be extracted becomes
// a failed Outcome while the rest of the run continues.
package packset
