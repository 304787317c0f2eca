package extract

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/pierrec/lz4/v4"

	"github.com/seriate/packset/internal/packtype"
)

// newKindReader wraps src with the decoder for kind. The caller must call
// the returned release function when done. Decoder read failures surface
// wrapping ErrDecompression; plain source I/O errors from stored payloads
// pass through untouched.
func (d *Driver) newKindReader(kind packtype.Compression, src io.Reader) (io.Reader, func(), error) {
	switch kind {
	case packtype.CompressionStored:
		return src, func() {}, nil
	case packtype.CompressionZlib:
		zr, err := zlib.NewReader(src)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", packtype.ErrDecompression, err)
		}
		return &decodeErrorReader{r: zr}, func() { _ = zr.Close() }, nil //nolint:errcheck // stream already drained
	case packtype.CompressionZstd:
		dec, release, err := d.pool.Get(src)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", packtype.ErrDecompression, err)
		}
		return &decodeErrorReader{r: dec}, release, nil
	case packtype.CompressionLZ4:
		return &decodeErrorReader{r: lz4.NewReader(src)}, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("%w: %s", packtype.ErrUnsupportedKind, kind)
	}
}

// decodeErrorReader classifies decoder failures as ErrDecompression while
// letting io.EOF through, so length accounting still sees a clean end of
// stream.
type decodeErrorReader struct {
	r io.Reader
}

func (d *decodeErrorReader) Read(p []byte) (int, error) {
	n, err := d.r.Read(p)
	if err != nil && err != io.EOF {
		err = fmt.Errorf("%w: %v", packtype.ErrDecompression, err)
	}
	return n, err
}
