package packset

import "log/slog"

// Config controls how a pack set is opened and processed.
//
// The zero value is not usable; Root is required. Everything else has a
// working default.
type Config struct {
	// Root is the pack set directory holding client/ and versions/.
	// Required.
	Root string

	// OutputRoot is the directory extracted files are written under.
	// Empty means Root.
	OutputRoot string

	// DryRun makes Run list what it would extract instead of writing.
	DryRun bool

	// Filter narrows processing to the paths it accepts.
	// Nil selects every resolved path.
	Filter PathFilter

	// Workers bounds the number of concurrent extraction workers.
	// Zero picks a count from GOMAXPROCS; negative forces serial
	// processing.
	Workers int

	// MaxDecoderMemory caps the memory a single zstd decoder may use.
	// Zero applies no limit.
	MaxDecoderMemory uint64

	// Logger receives structured diagnostics. Nil disables logging.
	Logger *slog.Logger
}
