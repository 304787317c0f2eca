package extract

import (
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// ZstdPool manages reusable zstd decoders to reduce allocation overhead
// when many payloads share the same kind.
type ZstdPool struct {
	pool      *sync.Pool
	maxMemory uint64
}

// NewZstdPool creates a pool of single-goroutine zstd decoders.
// If maxMemory is 0, no memory limit is applied to decoders.
func NewZstdPool(maxMemory uint64) *ZstdPool {
	p := &ZstdPool{maxMemory: maxMemory}
	p.pool = &sync.Pool{
		New: func() any {
			dec, err := p.newDecoder(nil)
			if err != nil {
				return nil
			}
			return dec
		},
	}
	return p
}

// Get returns a decoder configured to read from r.
// The caller must call the returned release function when done.
// If an error is returned, no release function needs to be called.
func (p *ZstdPool) Get(r io.Reader) (*zstd.Decoder, func(), error) {
	value := p.pool.Get()
	dec, ok := value.(*zstd.Decoder)
	if !ok {
		// Pool's New function failed; try directly so the caller sees the
		// real error.
		newDec, err := p.newDecoder(r)
		if err != nil {
			return nil, nil, err
		}
		return newDec, newDec.Close, nil
	}

	if err := dec.Reset(r); err != nil {
		dec.Close()
		newDec, err := p.newDecoder(r)
		if err != nil {
			return nil, nil, err
		}
		return newDec, newDec.Close, nil
	}

	return dec, func() {
		_ = dec.Reset(nil) //nolint:errcheck // clearing state before pool return
		p.pool.Put(dec)
	}, nil
}

func (p *ZstdPool) newDecoder(r io.Reader) (*zstd.Decoder, error) {
	opts := []zstd.DOption{zstd.WithDecoderConcurrency(1)}
	if p.maxMemory != 0 {
		opts = append(opts, zstd.WithDecoderMaxMemory(p.maxMemory))
	}
	return zstd.NewReader(r, opts...)
}
