// Package encoding groups the value encodings shared by the page buffering
// engine: plain encoding in the plain sub-package and the RLE/bit-packed
// hybrid in the rle sub-package.
package encoding

import (
	"errors"

	"github.com/segmentio/parquet-chunk/format"
)

var (
	// ErrBufferTooShort is returned when decoding a value section that ends
	// before the expected number of values was read.
	ErrBufferTooShort = errors.New("buffer is too short to contain all encoded values")

	// ErrInvalidBitWidth is returned when a bit width is outside of the
	// 0..32 range supported by the hybrid encoding.
	ErrInvalidBitWidth = errors.New("bit width out of range")
)

// UsesDictionary reports whether values encoded with e are indexes into a
// dictionary page.
func UsesDictionary(e format.Encoding) bool {
	return e == format.PlainDictionary || e == format.RLEDictionary
}
