// Package extract drives the per-file pipeline of a pack set run: read the
// payload range out of its container, decode it, verify its checksum, and
// hand the bytes to a sink. Failures are collected per file so one damaged
// record never aborts the rest of the run.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/seriate/packset/internal/packtype"
	"github.com/seriate/packset/internal/sizing"
)

// Mode selects what Process does with each resolved file.
type Mode uint8

const (
	// ModeExtract decodes, verifies, and writes each file.
	ModeExtract Mode = iota

	// ModeList validates each file's container range without reading
	// payload bytes or writing anything.
	ModeList

	// ModeVerify decodes and checksums each file, discarding the content.
	ModeVerify
)

func (m Mode) String() string {
	switch m {
	case ModeExtract:
		return "extract"
	case ModeList:
		return "list"
	case ModeVerify:
		return "verify"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(m))
	}
}

// Containers is the byte-range view of a pack set's container files.
type Containers interface {
	// ReadRange returns a reader over length bytes starting at off.
	ReadRange(absPath string, off, length uint64) (io.Reader, error)

	// Size returns the container's size in bytes, opening it if needed.
	Size(absPath string) (int64, error)
}

// Driver processes resolved files through a bounded worker pool.
type Driver struct {
	containers Containers
	outputRoot string
	mode       Mode
	workers    int // 0 = auto, <0 = serial, >0 = fixed count
	maxMemory  uint64
	logger     *slog.Logger
	pool       *ZstdPool
}

// log returns the logger, falling back to a discard logger if nil.
func (d *Driver) log() *slog.Logger {
	if d.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.logger
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithMode selects the processing mode. The default is ModeExtract.
func WithMode(m Mode) DriverOption {
	return func(d *Driver) {
		d.mode = m
	}
}

// WithWorkers sets the number of concurrent workers. Values < 0 force
// serial processing. Zero picks a count from GOMAXPROCS.
func WithWorkers(n int) DriverOption {
	return func(d *Driver) {
		d.workers = n
	}
}

// WithMaxDecoderMemory caps the memory a single zstd decoder may use.
// Zero applies no limit.
func WithMaxDecoderMemory(limit uint64) DriverOption {
	return func(d *Driver) {
		d.maxMemory = limit
	}
}

// WithLogger sets the logger for driver operations.
// If not set, logging is disabled.
func WithLogger(logger *slog.Logger) DriverOption {
	return func(d *Driver) {
		d.logger = logger
	}
}

// NewDriver creates a driver that reads payload ranges from containers and,
// in ModeExtract, writes files under outputRoot.
func NewDriver(containers Containers, outputRoot string, opts ...DriverOption) *Driver {
	d := &Driver{
		containers: containers,
		outputRoot: outputRoot,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.pool = NewZstdPool(d.maxMemory)
	return d
}

// Process runs every file through the driver's mode and returns one outcome
// per attempted file, in input order. Per-file failures become failed
// outcomes, never errors. Process itself only fails when the output root
// cannot be prepared or when ctx is canceled; a canceled run returns the
// outcomes of the files it finished alongside ctx's error.
//
// Cancellation is cooperative between files: work in flight completes and
// no new files start.
func (d *Driver) Process(ctx context.Context, files []packtype.ResolvedFile) (*packtype.Summary, error) {
	summary := &packtype.Summary{}
	if len(files) == 0 {
		return summary, nil
	}

	var root *os.Root
	if d.mode == ModeExtract {
		if err := os.MkdirAll(d.outputRoot, 0o750); err != nil {
			return nil, fmt.Errorf("create output root: %w", err)
		}
		var err error
		root, err = os.OpenRoot(d.outputRoot)
		if err != nil {
			return nil, fmt.Errorf("open output root: %w", err)
		}
		defer root.Close()
	}

	workers := d.workerCount(len(files))
	d.log().Debug("processing files", "mode", d.mode, "files", len(files), "workers", workers)

	outcomes := make([]packtype.Outcome, len(files))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, rf := range files {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			// The slot may have been granted after cancellation.
			if ctx.Err() != nil {
				return nil
			}
			outcomes[i] = d.processFile(root, rf)
			if o := outcomes[i]; o.Status != packtype.StatusFailed {
				d.log().Debug("file processed", "path", o.Path, "status", o.Status, "bytes", o.Bytes)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, o := range outcomes {
		if o.Status != 0 {
			summary.Add(o)
		}
	}
	d.log().Debug("processing complete",
		"mode", d.mode,
		"written", summary.Written,
		"listed", summary.Listed,
		"verified", summary.Verified,
		"failed", summary.Failed)

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

// workerCount resolves the configured worker setting against the number of
// files to process.
func (d *Driver) workerCount(files int) int {
	switch {
	case d.workers < 0:
		return 1
	case d.workers > 0:
		return d.workers
	default:
		return max(1, min(files, runtime.GOMAXPROCS(0)))
	}
}

// processFile runs one resolved file through the driver's mode and reports
// the outcome. It never writes a partial file: extraction stages content in
// a temp file and only renames it after the checksum holds.
func (d *Driver) processFile(root *os.Root, rf packtype.ResolvedFile) packtype.Outcome {
	rec := rf.Record
	out := packtype.Outcome{Path: rec.Path, Bytes: rec.UncompressedSize}
	fail := func(err error) packtype.Outcome {
		d.log().Warn("file failed",
			"path", rec.Path,
			"generation", rf.Generation,
			"container", rec.Container,
			"error", err)
		out.Status = packtype.StatusFailed
		out.Err = fmt.Errorf("%s: %w", rec.Path, err)
		return out
	}

	if err := validateRecord(rec); err != nil {
		return fail(err)
	}
	absContainer := filepath.Join(rf.Dir, filepath.FromSlash(rec.Container))

	switch d.mode {
	case ModeList:
		size, err := d.containers.Size(absContainer)
		if err != nil {
			return fail(err)
		}
		// Overflow was ruled out by validateRecord.
		end, _ := sizing.AddUint64(rec.Offset, rec.CompressedSize)
		if end > uint64(size) {
			return fail(fmt.Errorf("%w: range [%d, %d) but %s holds %d bytes",
				packtype.ErrRangeOutOfBounds, rec.Offset, end, rec.Container, size))
		}
		out.Status = packtype.StatusListed
		return out

	case ModeVerify:
		if err := d.decodeVerify(rec, absContainer, io.Discard); err != nil {
			return fail(err)
		}
		out.Status = packtype.StatusVerified
		return out

	default: // ModeExtract
		c, err := newFileCommitter(root, rec.Path)
		if err != nil {
			return fail(err)
		}
		if err := d.decodeVerify(rec, absContainer, c); err != nil {
			_ = c.Discard() //nolint:errcheck // best-effort cleanup
			return fail(err)
		}
		if err := c.Commit(); err != nil {
			return fail(err)
		}
		out.Status = packtype.StatusWritten
		return out
	}
}

// decodeVerify streams the record's payload from its container through
// decompression and the checksum hasher into w, enforcing the declared
// uncompressed length exactly.
func (d *Driver) decodeVerify(rec packtype.FileRecord, absContainer string, w io.Writer) error {
	src, err := d.containers.ReadRange(absContainer, rec.Offset, rec.CompressedSize)
	if err != nil {
		return err
	}
	reader, release, err := d.newKindReader(rec.Kind, src)
	if err != nil {
		return err
	}
	defer release()

	hasher := rec.Checksum.Algo.New()
	tee := io.TeeReader(reader, hasher)

	expected, err := sizing.ToInt64(rec.UncompressedSize, packtype.ErrSizeOverflow)
	if err != nil {
		return err
	}
	n, err := io.CopyN(w, tee, expected)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: decoded %d of %d bytes", packtype.ErrLengthMismatch, n, expected)
		}
		return err
	}
	if err := ensureDrained(tee); err != nil {
		return err
	}

	if sum := hasher.Sum(nil); !rec.Checksum.Matches(sum) {
		return fmt.Errorf("%w: expected %s, computed %x", packtype.ErrChecksumMismatch, rec.Checksum, sum)
	}
	return nil
}

// ensureDrained confirms the payload ended exactly at its declared length.
func ensureDrained(r io.Reader) error {
	var scratch [1]byte
	n, err := r.Read(scratch[:])
	if n > 0 {
		return fmt.Errorf("%w: payload longer than declared", packtype.ErrLengthMismatch)
	}
	if err == io.EOF || err == nil {
		return nil
	}
	return err
}

// validateRecord rejects records whose declared geometry cannot be decoded:
// unknown kinds, checksum widths that disagree with the algorithm, stored
// payloads whose sizes differ, and ranges that overflow.
func validateRecord(rec packtype.FileRecord) error {
	switch rec.Kind {
	case packtype.CompressionStored:
		if rec.CompressedSize != rec.UncompressedSize {
			return fmt.Errorf("%w: stored payload declares %d stored but %d decoded bytes",
				packtype.ErrLengthMismatch, rec.CompressedSize, rec.UncompressedSize)
		}
	case packtype.CompressionZlib, packtype.CompressionZstd, packtype.CompressionLZ4:
	default:
		return fmt.Errorf("%w: %s", packtype.ErrUnsupportedKind, rec.Kind)
	}
	want := rec.Checksum.Algo.Size()
	if want == 0 || len(rec.Checksum.Sum) != want {
		return fmt.Errorf("%w: checksum is %d bytes, want %d",
			packtype.ErrChecksumMismatch, len(rec.Checksum.Sum), want)
	}
	if _, ok := sizing.AddUint64(rec.Offset, rec.CompressedSize); !ok {
		return fmt.Errorf("%w: range %d+%d", packtype.ErrSizeOverflow, rec.Offset, rec.CompressedSize)
	}
	return nil
}
