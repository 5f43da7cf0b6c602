package rle_test

import (
	"math/rand"
	"testing"

	"github.com/segmentio/parquet-chunk/encoding/rle"
)

func TestRunsRoundTrip(t *testing.T) {
	tests := []struct {
		scenario string
		bitWidth int
		values   []int32
	}{
		{
			scenario: "empty",
			bitWidth: 3,
			values:   []int32{},
		},
		{
			scenario: "one value",
			bitWidth: 1,
			values:   []int32{1},
		},
		{
			scenario: "short bit-packed set",
			bitWidth: 3,
			values:   []int32{0, 1, 2, 3, 4, 5, 6},
		},
		{
			scenario: "single long run",
			bitWidth: 2,
			values:   []int32{3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3},
		},
		{
			scenario: "run between bit-packed sets",
			bitWidth: 4,
			values:   []int32{1, 2, 3, 7, 7, 7, 7, 7, 7, 7, 7, 7, 4, 5, 6},
		},
		{
			scenario: "runs only",
			bitWidth: 5,
			values:   append(repeat(21, 100), repeat(9, 50)...),
		},
		{
			scenario: "width 32",
			bitWidth: 32,
			values:   []int32{-1, 0, 1<<31 - 1, -1 << 31, 42},
		},
	}

	for _, test := range tests {
		t.Run(test.scenario, func(t *testing.T) {
			buffer := rle.AppendRuns(nil, test.bitWidth, test.values)

			values, n, err := rle.DecodeRuns(nil, buffer, test.bitWidth, len(test.values))
			if err != nil {
				t.Fatal(err)
			}
			if n != len(buffer) {
				t.Errorf("decoded %d bytes out of %d", n, len(buffer))
			}
			assertInt32sEqual(t, test.values, values)
		})
	}
}

func TestRunsRoundTripRandom(t *testing.T) {
	prng := rand.New(rand.NewSource(0))

	for _, bitWidth := range []int{1, 2, 3, 7, 8, 11, 16, 21, 32} {
		values := make([]int32, 1000)
		mask := int32(1)<<uint(bitWidth) - 1
		for i := range values {
			if prng.Intn(3) == 0 && i > 0 {
				values[i] = values[i-1]
			} else {
				values[i] = prng.Int31() & mask
			}
		}

		buffer := rle.AppendRuns(nil, bitWidth, values)
		decoded, _, err := rle.DecodeRuns(nil, buffer, bitWidth, len(values))
		if err != nil {
			t.Fatalf("bit width %d: %v", bitWidth, err)
		}
		assertInt32sEqual(t, values, decoded)
	}
}

func TestIndexesRoundTrip(t *testing.T) {
	tests := []struct {
		scenario string
		bitWidth int
		indexes  []int32
	}{
		{
			scenario: "single entry dictionary",
			bitWidth: 0,
			indexes:  []int32{0, 0, 0, 0, 0},
		},
		{
			scenario: "two entries",
			bitWidth: 1,
			indexes:  []int32{0, 1, 1, 0, 1},
		},
		{
			scenario: "mixed runs",
			bitWidth: 6,
			indexes:  append([]int32{5, 1, 33, 12}, repeat(33, 64)...),
		},
	}

	for _, test := range tests {
		t.Run(test.scenario, func(t *testing.T) {
			buffer := rle.AppendIndexes(nil, test.bitWidth, test.indexes)
			if buffer[0] != byte(test.bitWidth) {
				t.Errorf("bit width prefix: got %d, want %d", buffer[0], test.bitWidth)
			}

			indexes, err := rle.DecodeIndexes(nil, buffer, len(test.indexes))
			if err != nil {
				t.Fatal(err)
			}
			assertInt32sEqual(t, test.indexes, indexes)
		})
	}
}

func TestLevelsV1RoundTrip(t *testing.T) {
	levels := []int32{1, 1, 0, 1, 0, 0, 1, 1, 1, 1, 1, 1, 1, 1, 0}

	buffer := rle.AppendLevelsV1(nil, 1, levels)
	trailer := []byte{0xFF, 0xFE}
	buffer = append(buffer, trailer...)

	size, err := rle.LevelsV1SectionSize(buffer)
	if err != nil {
		t.Fatal(err)
	}
	if size != len(buffer)-len(trailer) {
		t.Errorf("section size: got %d, want %d", size, len(buffer)-len(trailer))
	}

	decoded, n, err := rle.DecodeLevelsV1(nil, buffer, 1, len(levels))
	if err != nil {
		t.Fatal(err)
	}
	if n != size {
		t.Errorf("consumed %d bytes, want %d", n, size)
	}
	assertInt32sEqual(t, levels, decoded)
}

func TestLevelsV2RoundTrip(t *testing.T) {
	levels := []int32{2, 0, 1, 2, 2, 2, 2, 2, 2, 2, 0}

	buffer := rle.AppendLevelsV2(nil, 2, levels)
	decoded, err := rle.DecodeLevelsV2(nil, buffer, 2, len(levels))
	if err != nil {
		t.Fatal(err)
	}
	assertInt32sEqual(t, levels, decoded)
}

func TestDecodeRunsTruncated(t *testing.T) {
	buffer := rle.AppendRuns(nil, 8, repeat(42, 100))
	if _, _, err := rle.DecodeRuns(nil, buffer[:1], 8, 100); err == nil {
		t.Error("expected an error decoding a truncated buffer")
	}
}

func repeat(v int32, n int) []int32 {
	values := make([]int32, n)
	for i := range values {
		values[i] = v
	}
	return values
}

func assertInt32sEqual(t *testing.T, want, got []int32) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("value count mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if want[i] != got[i] {
			t.Fatalf("value %d mismatch: got %d, want %d", i, got[i], want[i])
		}
	}
}
