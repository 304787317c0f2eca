// Package container reads byte ranges out of a generation's container files.
//
// Containers are opaque payload stores; all structure lives in the catalog.
// A Reader opens each container lazily on first use and caches the handle,
// so concurrent extraction of many records from one container shares a
// single descriptor. Opens for the same path are collapsed with
// singleflight.
package container

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/seriate/packset/internal/packtype"
	"github.com/seriate/packset/internal/sizing"
)

type handle struct {
	file *os.File
	size int64
}

// Reader hands out byte ranges from container files, opening each file at
// most once. Methods are safe for concurrent use. Close releases every
// cached handle; the Reader must not be used afterwards.
type Reader struct {
	mu      sync.RWMutex
	handles map[string]*handle
	group   singleflight.Group

	// open is swapped in tests to observe open calls.
	open func(string) (*os.File, error)
}

// NewReader returns an empty Reader. No files are opened until a range or
// size is requested.
func NewReader() *Reader {
	return &Reader{
		handles: make(map[string]*handle),
		open:    os.Open,
	}
}

// ReadRange returns a reader over length bytes of the container at absPath,
// starting at off. The returned reader stays valid until Close and is safe
// to use concurrently with other ranges from the same container.
func (r *Reader) ReadRange(absPath string, off, length uint64) (io.Reader, error) {
	h, err := r.handle(absPath)
	if err != nil {
		return nil, err
	}
	end, ok := sizing.AddUint64(off, length)
	if !ok {
		return nil, fmt.Errorf("%w: range %d+%d in %s", packtype.ErrSizeOverflow, off, length, absPath)
	}
	if end > uint64(h.size) {
		return nil, fmt.Errorf("%w: range [%d, %d) but %s holds %d bytes",
			packtype.ErrRangeOutOfBounds, off, end, absPath, h.size)
	}
	start, err := sizing.ToInt64(off, packtype.ErrSizeOverflow)
	if err != nil {
		return nil, err
	}
	n, err := sizing.ToInt64(length, packtype.ErrSizeOverflow)
	if err != nil {
		return nil, err
	}
	return io.NewSectionReader(h.file, start, n), nil
}

// Size returns the byte size of the container at absPath, opening it if
// needed.
func (r *Reader) Size(absPath string) (int64, error) {
	h, err := r.handle(absPath)
	if err != nil {
		return 0, err
	}
	return h.size, nil
}

func (r *Reader) handle(absPath string) (*handle, error) {
	r.mu.RLock()
	h, ok := r.handles[absPath]
	r.mu.RUnlock()
	if ok {
		return h, nil
	}

	v, err, _ := r.group.Do(absPath, func() (any, error) {
		// Double-check after winning the flight.
		r.mu.RLock()
		h, ok := r.handles[absPath]
		r.mu.RUnlock()
		if ok {
			return h, nil
		}

		f, err := r.open(absPath)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", packtype.ErrContainerMissing, absPath)
		}
		if err != nil {
			return nil, fmt.Errorf("open container: %w", err)
		}
		info, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("stat container: %w", err)
		}
		if info.IsDir() {
			f.Close()
			return nil, fmt.Errorf("%w: %s is a directory", packtype.ErrContainerMissing, absPath)
		}

		h = &handle{file: f, size: info.Size()}
		r.mu.Lock()
		r.handles[absPath] = h
		r.mu.Unlock()
		return h, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*handle), nil //nolint:errcheck // type assertion always succeeds when err is nil
}

// Close closes every cached handle and forgets them.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var firstErr error
	for path, h := range r.handles {
		if err := h.file.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close container %s: %w", path, err)
		}
	}
	clear(r.handles)
	return firstErr
}
