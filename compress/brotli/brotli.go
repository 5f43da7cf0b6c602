// Package brotli implements the BROTLI parquet compression codec.
package brotli

import (
	"bytes"
	"io"
	"sync"

	"github.com/andybalholm/brotli"
	"github.com/segmentio/parquet-chunk/format"
)

const (
	DefaultQuality = 0
	DefaultLGWin   = 0
)

type Codec struct {
	// Quality controls the compression-speed vs compression-density
	// trade-offs. The higher the quality, the slower the compression.
	Quality int
	// The sliding window size. 0 lets the library pick a value.
	LGWin int

	writers sync.Pool // *brotli.Writer
	readers sync.Pool // *brotli.Reader
}

func (c *Codec) String() string {
	return "BROTLI"
}

func (c *Codec) CompressionCodec() format.CompressionCodec {
	return format.Brotli
}

func (c *Codec) Encode(dst, src []byte) ([]byte, error) {
	output := bytes.NewBuffer(dst[:0])

	w, _ := c.writers.Get().(*brotli.Writer)
	if w != nil {
		w.Reset(output)
	} else {
		w = brotli.NewWriterOptions(output, brotli.WriterOptions{
			Quality: c.Quality,
			LGWin:   c.LGWin,
		})
	}
	defer c.writers.Put(w)
	defer w.Reset(io.Discard)

	if _, err := w.Write(src); err != nil {
		return output.Bytes(), err
	}
	if err := w.Close(); err != nil {
		return output.Bytes(), err
	}
	return output.Bytes(), nil
}

func (c *Codec) Decode(dst, src []byte) ([]byte, error) {
	input := bytes.NewReader(src)

	r, _ := c.readers.Get().(*brotli.Reader)
	if r != nil {
		if err := r.Reset(input); err != nil {
			return dst, err
		}
	} else {
		r = brotli.NewReader(input)
	}
	defer c.readers.Put(r)

	output := bytes.NewBuffer(dst[:0])
	_, err := output.ReadFrom(r)
	return output.Bytes(), err
}
