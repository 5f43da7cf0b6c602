// Package plain implements the PLAIN parquet encoding.
//
// https://github.com/apache/parquet-format/blob/master/Encodings.md#plain-plain--0
package plain

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/segmentio/parquet-chunk/encoding"
)

// ByteArrayLengthSize is the size of the length prefix of byte array values.
const ByteArrayLengthSize = 4

func AppendBoolean(dst []byte, src []bool) []byte {
	n := len(dst)
	dst = append(dst, make([]byte, (len(src)+7)/8)...)
	for i, v := range src {
		if v {
			dst[n+i/8] |= 1 << uint(i%8)
		}
	}
	return dst
}

func AppendInt32(dst []byte, src []int32) []byte {
	var b [4]byte
	for _, v := range src {
		binary.LittleEndian.PutUint32(b[:], uint32(v))
		dst = append(dst, b[:]...)
	}
	return dst
}

func AppendInt64(dst []byte, src []int64) []byte {
	var b [8]byte
	for _, v := range src {
		binary.LittleEndian.PutUint64(b[:], uint64(v))
		dst = append(dst, b[:]...)
	}
	return dst
}

func AppendFloat(dst []byte, src []float32) []byte {
	var b [4]byte
	for _, v := range src {
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
		dst = append(dst, b[:]...)
	}
	return dst
}

func AppendDouble(dst []byte, src []float64) []byte {
	var b [8]byte
	for _, v := range src {
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
		dst = append(dst, b[:]...)
	}
	return dst
}

// AppendByteArray appends the 4-bytes length prefixed representation of v.
func AppendByteArray(dst, v []byte) []byte {
	var b [ByteArrayLengthSize]byte
	binary.LittleEndian.PutUint32(b[:], uint32(len(v)))
	dst = append(dst, b[:]...)
	return append(dst, v...)
}

// AppendFixedLenByteArray appends v without a length prefix.
func AppendFixedLenByteArray(dst, v []byte) []byte {
	return append(dst, v...)
}

func DecodeBoolean(dst []bool, src []byte, count int) ([]bool, error) {
	if len(src) < (count+7)/8 {
		return dst, fmt.Errorf("decoding %d PLAIN booleans from %d bytes: %w", count, len(src), encoding.ErrBufferTooShort)
	}
	for i := 0; i < count; i++ {
		dst = append(dst, src[i/8]&(1<<uint(i%8)) != 0)
	}
	return dst, nil
}

func DecodeInt32(dst []int32, src []byte, count int) ([]int32, error) {
	if len(src) < 4*count {
		return dst, fmt.Errorf("decoding %d PLAIN int32 values from %d bytes: %w", count, len(src), encoding.ErrBufferTooShort)
	}
	for i := 0; i < count; i++ {
		dst = append(dst, int32(binary.LittleEndian.Uint32(src[4*i:])))
	}
	return dst, nil
}

func DecodeInt64(dst []int64, src []byte, count int) ([]int64, error) {
	if len(src) < 8*count {
		return dst, fmt.Errorf("decoding %d PLAIN int64 values from %d bytes: %w", count, len(src), encoding.ErrBufferTooShort)
	}
	for i := 0; i < count; i++ {
		dst = append(dst, int64(binary.LittleEndian.Uint64(src[8*i:])))
	}
	return dst, nil
}

func DecodeFloat(dst []float32, src []byte, count int) ([]float32, error) {
	if len(src) < 4*count {
		return dst, fmt.Errorf("decoding %d PLAIN float values from %d bytes: %w", count, len(src), encoding.ErrBufferTooShort)
	}
	for i := 0; i < count; i++ {
		dst = append(dst, math.Float32frombits(binary.LittleEndian.Uint32(src[4*i:])))
	}
	return dst, nil
}

func DecodeDouble(dst []float64, src []byte, count int) ([]float64, error) {
	if len(src) < 8*count {
		return dst, fmt.Errorf("decoding %d PLAIN double values from %d bytes: %w", count, len(src), encoding.ErrBufferTooShort)
	}
	for i := 0; i < count; i++ {
		dst = append(dst, math.Float64frombits(binary.LittleEndian.Uint64(src[8*i:])))
	}
	return dst, nil
}

// DecodeByteArray appends count length-prefixed values read from src to dst.
// The returned slices alias src.
func DecodeByteArray(dst [][]byte, src []byte, count int) ([][]byte, error) {
	for i := 0; i < count; i++ {
		if len(src) < ByteArrayLengthSize {
			return dst, fmt.Errorf("decoding PLAIN byte array %d/%d: %w", i, count, encoding.ErrBufferTooShort)
		}
		n := int(binary.LittleEndian.Uint32(src))
		src = src[ByteArrayLengthSize:]
		if n < 0 || len(src) < n {
			return dst, fmt.Errorf("decoding PLAIN byte array %d/%d of length %d: %w", i, count, n, encoding.ErrBufferTooShort)
		}
		dst = append(dst, src[:n:n])
		src = src[n:]
	}
	return dst, nil
}

// DecodeFixedLenByteArray appends count values of the given size read from
// src to dst. The returned slices alias src.
func DecodeFixedLenByteArray(dst [][]byte, src []byte, size, count int) ([][]byte, error) {
	if size <= 0 {
		return dst, fmt.Errorf("decoding PLAIN fixed length byte arrays of size %d", size)
	}
	if len(src) < size*count {
		return dst, fmt.Errorf("decoding %d PLAIN fixed length byte arrays of size %d from %d bytes: %w", count, size, len(src), encoding.ErrBufferTooShort)
	}
	for i := 0; i < count; i++ {
		dst = append(dst, src[i*size:(i+1)*size:(i+1)*size])
	}
	return dst, nil
}
