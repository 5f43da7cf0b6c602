// Package rle implements the RLE/bit-packed hybrid encoding used by parquet
// for repetition levels, definition levels, and dictionary indexes.
//
// https://github.com/apache/parquet-format/blob/master/Encodings.md#run-length-encoding--bit-packing-hybrid-rle--3
package rle

import (
	"encoding/binary"
	"fmt"

	"github.com/segmentio/parquet-chunk/encoding"
	"github.com/segmentio/parquet-chunk/internal/bits"
)

// Values are bit-packed in groups of 8; a run of identical values is emitted
// as an RLE run instead when at least this many of its values remain after
// the pending bit-packed set has been completed to a multiple of 8.
const minRunLength = 8

// AppendRuns appends the hybrid representation of values at the given bit
// width to dst, without any framing.
func AppendRuns(dst []byte, bitWidth int, values []int32) []byte {
	if bitWidth == 0 || len(values) == 0 {
		// A zero bit width carries no value bytes; a single run header is
		// enough for readers which consume the section eagerly.
		if len(values) > 0 {
			dst = binary.AppendUvarint(dst, uint64(len(values))<<1)
		}
		return dst
	}

	byteWidth := bits.ByteCount(uint(bitWidth))
	pending := 0 // start of the values not yet flushed as a bit-packed set

	i := 0
	for i < len(values) {
		j := i + 1
		for j < len(values) && values[j] == values[i] {
			j++
		}
		// Bit-packed sets hold exact multiples of 8 values; padding is only
		// valid in the last set of the section. A run may therefore donate
		// its leading values to complete the pending set, and is emitted as
		// an RLE run only if at least 8 values remain past that boundary.
		pad := (8 - (i-pending)%8) % 8
		if j-i-pad >= minRunLength {
			dst = appendBitPacked(dst, bitWidth, values[pending:i+pad])
			dst = binary.AppendUvarint(dst, uint64(j-i-pad)<<1)
			dst = appendLittleEndian(dst, values[i], byteWidth)
			pending = j
		}
		i = j
	}
	return appendBitPacked(dst, bitWidth, values[pending:])
}

// DecodeRuns reads count values from the hybrid representation in src and
// appends them to dst. It returns the extended slice and the number of bytes
// consumed from src.
func DecodeRuns(dst []int32, src []byte, bitWidth, count int) ([]int32, int, error) {
	if bitWidth < 0 || bitWidth > 32 {
		return dst, 0, fmt.Errorf("decoding %d hybrid values: bit width %d: %w", count, bitWidth, encoding.ErrInvalidBitWidth)
	}
	if count == 0 {
		return dst, 0, nil
	}
	if bitWidth == 0 {
		for i := 0; i < count; i++ {
			dst = append(dst, 0)
		}
		return dst, 0, nil
	}

	byteWidth := bits.ByteCount(uint(bitWidth))
	offset := 0
	remain := count

	for remain > 0 {
		u, n := binary.Uvarint(src[offset:])
		if n <= 0 {
			return dst, offset, fmt.Errorf("decoding hybrid run header with %d values remaining: %w", remain, encoding.ErrBufferTooShort)
		}
		offset += n

		if u&1 != 0 {
			// Bit-packed set of 8*(u>>1) values; the tail of the last group
			// is padding when it exceeds the value count.
			groups := int(u >> 1)
			length := groups * bitWidth
			if len(src)-offset < length {
				return dst, offset, fmt.Errorf("decoding bit-packed set of %d groups: %w", groups, encoding.ErrBufferTooShort)
			}
			packed := 8 * groups
			if packed > remain {
				packed = remain
			}
			dst = unpackLittleEndian(dst, src[offset:offset+length], bitWidth, packed)
			offset += length
			remain -= packed
		} else {
			runLength := int(u >> 1)
			if len(src)-offset < byteWidth {
				return dst, offset, fmt.Errorf("decoding RLE run of length %d: %w", runLength, encoding.ErrBufferTooShort)
			}
			value := littleEndian(src[offset:], byteWidth)
			offset += byteWidth
			if runLength > remain {
				runLength = remain
			}
			for i := 0; i < runLength; i++ {
				dst = append(dst, value)
			}
			remain -= runLength
		}
	}
	return dst, offset, nil
}

func appendBitPacked(dst []byte, bitWidth int, values []int32) []byte {
	if len(values) == 0 {
		return dst
	}
	groups := (len(values) + 7) / 8
	dst = binary.AppendUvarint(dst, uint64(groups)<<1|1)

	acc := uint64(0)
	nbits := uint(0)
	for i := 0; i < 8*groups; i++ {
		v := uint64(0)
		if i < len(values) {
			v = uint64(uint32(values[i])) & (1<<uint(bitWidth) - 1)
		}
		acc |= v << nbits
		nbits += uint(bitWidth)
		for nbits >= 8 {
			dst = append(dst, byte(acc))
			acc >>= 8
			nbits -= 8
		}
	}
	if nbits > 0 {
		dst = append(dst, byte(acc))
	}
	return dst
}

func unpackLittleEndian(dst []int32, src []byte, bitWidth, count int) []int32 {
	acc := uint64(0)
	nbits := uint(0)
	offset := 0
	mask := uint64(1)<<uint(bitWidth) - 1

	for i := 0; i < count; i++ {
		for nbits < uint(bitWidth) {
			acc |= uint64(src[offset]) << nbits
			nbits += 8
			offset++
		}
		dst = append(dst, int32(acc&mask))
		acc >>= uint(bitWidth)
		nbits -= uint(bitWidth)
	}
	return dst
}

func appendLittleEndian(dst []byte, v int32, byteWidth int) []byte {
	for i := 0; i < byteWidth; i++ {
		dst = append(dst, byte(uint32(v)>>uint(8*i)))
	}
	return dst
}

func littleEndian(src []byte, byteWidth int) int32 {
	v := uint32(0)
	for i := 0; i < byteWidth; i++ {
		v |= uint32(src[i]) << uint(8*i)
	}
	return int32(v)
}
