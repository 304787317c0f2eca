package packset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/seriate/packset/internal/catalog"
	"github.com/seriate/packset/internal/container"
	"github.com/seriate/packset/internal/extract"
	"github.com/seriate/packset/internal/packtype"
	"github.com/seriate/packset/internal/resolve"
	"github.com/seriate/packset/internal/sizing"
)

// maxCatalogBytes caps how much of a single catalog file Open will read.
const maxCatalogBytes = 256 << 20

// Set is an opened pack set: every decodable generation resolved into one
// view, plus the shared container handles used to serve reads from it.
//
// A Set is safe for concurrent use. Close must be called to release
// container handles.
type Set struct {
	cfg        Config
	gens       []GenerationInfo
	res        *resolve.Resolution
	containers *container.Reader
}

// log returns the configured logger, falling back to a discard logger.
func (s *Set) log() *slog.Logger {
	if s.cfg.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.cfg.Logger
}

// Open discovers the generations under cfg.Root, decodes their catalogs,
// and merges them into a resolved view.
//
// Open fails with ErrNoGenerations when the root holds no generation at
// all, or none with a decodable catalog. A damaged client base catalog is
// also fatal: updates patch the base, so extraction on top of an unreadable
// base would be wrong. Any other generation that cannot be loaded is
// skipped and reported through Generations.
func Open(cfg Config) (*Set, error) {
	if cfg.Root == "" {
		return nil, errors.New("packset: Config.Root is required")
	}
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	cfg.Root = root
	if cfg.OutputRoot == "" {
		cfg.OutputRoot = cfg.Root
	} else if cfg.OutputRoot, err = filepath.Abs(cfg.OutputRoot); err != nil {
		return nil, fmt.Errorf("resolve output root: %w", err)
	}

	s := &Set{cfg: cfg, containers: container.NewReader()}

	gens, err := resolve.Discover(cfg.Root)
	if err != nil {
		return nil, err
	}
	if len(gens) == 0 {
		return nil, fmt.Errorf("%w: %s has neither %s/ nor %s/",
			ErrNoGenerations, cfg.Root, resolve.ClientDirName, resolve.VersionsDirName)
	}

	var inputs []resolve.Input
	for _, gen := range gens {
		info := GenerationInfo{Name: gen.Name, Rank: gen.Rank, Dir: gen.Dir}
		cat, err := loadCatalog(gen.CatalogPath)
		switch {
		case err == nil:
			info.Records = len(cat.Records)
			info.Skipped = len(cat.Skipped)
			for _, skip := range cat.Skipped {
				s.log().Warn("record skipped",
					"generation", gen.Name,
					"record", skip.Index,
					"error", skip.Err)
			}
			inputs = append(inputs, resolve.Input{Generation: gen, Catalog: cat})
		case gen.Rank == 0 && !errors.Is(err, ErrMissingCatalog):
			return nil, fmt.Errorf("client catalog %s: %w", gen.CatalogPath, err)
		default:
			info.Err = err
			s.log().Warn("generation skipped", "generation", gen.Name, "error", err)
		}
		s.gens = append(s.gens, info)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: no catalog under %s could be decoded", ErrNoGenerations, cfg.Root)
	}

	s.res = resolve.Merge(inputs)
	s.log().Debug("pack set opened",
		"root", cfg.Root,
		"generations", len(inputs),
		"files", s.res.Len())
	return s, nil
}

// loadCatalog reads and decodes one generation's catalog file.
func loadCatalog(path string) (*catalog.Catalog, error) {
	f, err := os.Open(path) //nolint:gosec // user-provided root is intentional
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingCatalog, path)
	}
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	data, err := sizing.ReadAllWithLimit(f, maxCatalogBytes, packtype.ErrSizeOverflow)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return catalog.Decode(data)
}

// Generations reports every discovered generation in rank order, including
// ones Open skipped.
func (s *Set) Generations() []GenerationInfo {
	return slices.Clone(s.gens)
}

// Resolved returns the merged view: the winning record for every logical
// path, in lexicographic path order.
func (s *Set) Resolved() []ResolvedFile {
	return s.res.All()
}

// Lookup returns the winning record for one logical path.
func (s *Set) Lookup(path string) (ResolvedFile, bool) {
	return s.res.Get(path)
}

// Select returns the resolved files whose paths f accepts, in lexicographic
// path order. A nil filter selects everything.
func (s *Set) Select(f PathFilter) []ResolvedFile {
	all := s.res.All()
	if f == nil {
		return all
	}
	out := make([]ResolvedFile, 0, len(all))
	for _, rf := range all {
		if f.Matches(rf.Record.Path) {
			out = append(out, rf)
		}
	}
	return out
}

// Run processes the files selected by Config.Filter: extraction by default,
// listing when Config.DryRun is set.
func (s *Set) Run(ctx context.Context) (*Summary, error) {
	files := s.Select(s.cfg.Filter)
	if s.cfg.DryRun {
		return s.List(ctx, files)
	}
	return s.Extract(ctx, files)
}

// Extract decodes, verifies, and writes files under Config.OutputRoot.
// Existing files are replaced atomically. Per-file failures are reported in
// the summary; the returned error is only non-nil when the run itself could
// not proceed or ctx was canceled.
func (s *Set) Extract(ctx context.Context, files []ResolvedFile) (*Summary, error) {
	return s.process(ctx, extract.ModeExtract, files)
}

// List validates each file's container range without reading payload bytes
// or writing anything. It reports what Extract would attempt.
func (s *Set) List(ctx context.Context, files []ResolvedFile) (*Summary, error) {
	return s.process(ctx, extract.ModeList, files)
}

// Verify decodes every selected file and confirms its checksum without
// writing anything.
func (s *Set) Verify(ctx context.Context, files []ResolvedFile) (*Summary, error) {
	return s.process(ctx, extract.ModeVerify, files)
}

func (s *Set) process(ctx context.Context, mode extract.Mode, files []ResolvedFile) (*Summary, error) {
	d := extract.NewDriver(s.containers, s.cfg.OutputRoot,
		extract.WithMode(mode),
		extract.WithWorkers(s.cfg.Workers),
		extract.WithMaxDecoderMemory(s.cfg.MaxDecoderMemory),
		extract.WithLogger(s.cfg.Logger),
	)
	return d.Process(ctx, files)
}

// Close releases every cached container handle. The Set must not be used
// afterwards.
func (s *Set) Close() error {
	return s.containers.Close()
}
