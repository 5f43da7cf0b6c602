// Package lz4 implements the LZ4_RAW parquet compression codec.
//
// LZ4_RAW is the lz4 block format without framing, which replaced the
// ill-specified hadoop-framed LZ4 codec.
package lz4

import (
	"fmt"

	"github.com/pierrec/lz4/v4"
	"github.com/segmentio/parquet-chunk/format"
)

type Codec struct {
	Level lz4.CompressionLevel
}

func (c *Codec) String() string {
	return "LZ4_RAW"
}

func (c *Codec) CompressionCodec() format.CompressionCodec {
	return format.Lz4Raw
}

func (c *Codec) Encode(dst, src []byte) ([]byte, error) {
	if bound := lz4.CompressBlockBound(len(src)); cap(dst) < bound {
		dst = make([]byte, bound)
	} else {
		dst = dst[:bound]
	}

	var n int
	var err error
	if c.Level == lz4.Fast {
		var compressor lz4.Compressor
		n, err = compressor.CompressBlock(src, dst)
	} else {
		compressor := lz4.CompressorHC{Level: c.Level}
		n, err = compressor.CompressBlock(src, dst)
	}
	if err != nil {
		return dst[:0], err
	}
	if n == 0 && len(src) > 0 {
		// CompressBlock returns zero for incompressible input; emit a
		// literal-only block, which the bound above guarantees fits.
		n = literalBlock(dst, src)
	}
	return dst[:n], nil
}

func (c *Codec) Decode(dst, src []byte) ([]byte, error) {
	// The uncompressed size is not carried by the block format; grow the
	// output buffer until the block fits, up to the maximum lz4 expansion
	// ratio of 255 to tell corrupt input apart from a short buffer.
	for {
		n, err := lz4.UncompressBlock(src, dst)
		if err == nil {
			return dst[:n], nil
		}
		if len(dst) >= 255*len(src)+64 {
			return dst[:0], fmt.Errorf("decompressing lz4 block: %w", err)
		}
		size := 2 * len(dst)
		if size == 0 {
			size = 4*len(src) + 64
		}
		dst = make([]byte, size)
	}
}

// literalBlock encodes src as a single literal run with no matches, the
// canonical representation of an incompressible lz4 block.
func literalBlock(dst, src []byte) int {
	n := 0
	length := len(src)
	if length < 15 {
		dst[n] = byte(length) << 4
		n++
	} else {
		dst[n] = 15 << 4
		n++
		for r := length - 15; ; r -= 255 {
			if r < 255 {
				dst[n] = byte(r)
				n++
				break
			}
			dst[n] = 255
			n++
		}
	}
	n += copy(dst[n:], src)
	return n
}
