// Package snappy implements the SNAPPY parquet compression codec.
//
// Parquet uses the snappy block format, not the framed stream format.
package snappy

import (
	"github.com/klauspost/compress/snappy"
	"github.com/segmentio/parquet-chunk/format"
)

type Codec struct{}

func (c *Codec) String() string {
	return "SNAPPY"
}

func (c *Codec) CompressionCodec() format.CompressionCodec {
	return format.Snappy
}

func (c *Codec) Encode(dst, src []byte) ([]byte, error) {
	return snappy.Encode(dst, src), nil
}

func (c *Codec) Decode(dst, src []byte) ([]byte, error) {
	return snappy.Decode(dst, src)
}
