package rle

import (
	"encoding/binary"
	"fmt"

	"github.com/segmentio/parquet-chunk/encoding"
)

// AppendLevelsV1 appends the v1 framing of a level section: a 4-byte little
// endian length followed by the hybrid runs.
func AppendLevelsV1(dst []byte, bitWidth int, levels []int32) []byte {
	n := len(dst)
	dst = append(dst, 0, 0, 0, 0)
	dst = AppendRuns(dst, bitWidth, levels)
	binary.LittleEndian.PutUint32(dst[n:], uint32(len(dst)-n-4))
	return dst
}

// DecodeLevelsV1 reads count levels from a v1 level section and returns the
// decoded levels and the total number of bytes the section occupies in src.
func DecodeLevelsV1(dst []int32, src []byte, bitWidth, count int) ([]int32, int, error) {
	if len(src) < 4 {
		return dst, 0, fmt.Errorf("decoding v1 level section length: %w", encoding.ErrBufferTooShort)
	}
	length := int(binary.LittleEndian.Uint32(src))
	if len(src)-4 < length {
		return dst, 0, fmt.Errorf("v1 level section of length %d in %d bytes: %w", length, len(src)-4, encoding.ErrBufferTooShort)
	}
	dst, _, err := DecodeRuns(dst, src[4:4+length], bitWidth, count)
	return dst, 4 + length, err
}

// LevelsV1SectionSize returns the number of bytes a v1 level section occupies
// in src without decoding it.
func LevelsV1SectionSize(src []byte) (int, error) {
	if len(src) < 4 {
		return 0, fmt.Errorf("reading v1 level section length: %w", encoding.ErrBufferTooShort)
	}
	length := int(binary.LittleEndian.Uint32(src))
	if len(src)-4 < length {
		return 0, fmt.Errorf("v1 level section of length %d in %d bytes: %w", length, len(src)-4, encoding.ErrBufferTooShort)
	}
	return 4 + length, nil
}

// AppendLevelsV2 appends the v2 framing of a level section, which is the raw
// hybrid runs; the byte length is carried by the page header instead.
func AppendLevelsV2(dst []byte, bitWidth int, levels []int32) []byte {
	return AppendRuns(dst, bitWidth, levels)
}

// DecodeLevelsV2 reads count levels from a v2 level section.
func DecodeLevelsV2(dst []int32, src []byte, bitWidth, count int) ([]int32, error) {
	dst, _, err := DecodeRuns(dst, src, bitWidth, count)
	return dst, err
}
