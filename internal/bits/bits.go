// Package bits implements the small bit manipulation helpers shared by the
// encoding layers.
package bits

import "math/bits"

// ByteCount returns the number of bytes needed to hold count bits.
func ByteCount(count uint) int {
	return int((count + 7) / 8)
}

// Len32 returns the minimum number of bits required to represent i.
func Len32(i int32) int {
	return bits.Len32(uint32(i))
}

// Len64 returns the minimum number of bits required to represent i.
func Len64(i int64) int {
	return bits.Len64(uint64(i))
}
