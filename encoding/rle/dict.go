package rle

import (
	"fmt"

	"github.com/segmentio/parquet-chunk/encoding"
)

// AppendIndexes appends the dictionary-index framing to dst: a single byte
// carrying the bit width followed by the hybrid runs.
//
// The bit width is derived from the dictionary size, not from the indexes,
// so that pages of the same column agree on the width.
func AppendIndexes(dst []byte, bitWidth int, indexes []int32) []byte {
	dst = append(dst, byte(bitWidth))
	return AppendRuns(dst, bitWidth, indexes)
}

// DecodeIndexes reads count dictionary indexes from a dictionary-encoded
// values section.
func DecodeIndexes(dst []int32, src []byte, count int) ([]int32, error) {
	if count == 0 {
		return dst, nil
	}
	if len(src) == 0 {
		return dst, fmt.Errorf("decoding dictionary index bit width: %w", encoding.ErrBufferTooShort)
	}
	bitWidth := int(src[0])
	dst, _, err := DecodeRuns(dst, src[1:], bitWidth, count)
	return dst, err
}
