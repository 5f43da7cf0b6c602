// Package compress defines the interface of the compression codecs applied
// to parquet page bodies, implemented by the compress sub-packages.
//
// https://github.com/apache/parquet-format/blob/master/Compression.md
package compress

import (
	"github.com/segmentio/parquet-chunk/format"
)

// Codec is the compression collaborator of the page buffering engine: page
// bodies and dictionary pages are passed through Encode on the emit path,
// and the length of the returned buffer is what lands in the page header
// immediately ahead of the body.
//
// Codec instances must be safe to use concurrently from multiple goroutines;
// codecs built on streaming formats keep reusable writers and readers in
// internal pools.
type Codec interface {
	// Returns a human-readable name for the codec.
	String() string

	// Returns the code of the compression codec in the parquet format.
	CompressionCodec() format.CompressionCodec

	// Writes the compressed version of src to dst and returns it, growing
	// dst as needed.
	Encode(dst, src []byte) ([]byte, error)

	// Writes the uncompressed version of src to dst and returns it, growing
	// dst as needed.
	Decode(dst, src []byte) ([]byte, error)
}
