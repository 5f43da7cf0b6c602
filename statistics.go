package chunk

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/segmentio/parquet-chunk/format"
)

// statistics accumulates the column-level min/max/null-count summary from the
// per-page statistics submitted with each page.
type statistics struct {
	typ       format.Type
	nullCount int64
	hasBounds bool
	min       []byte
	max       []byte
}

func newStatistics(typ format.Type) *statistics {
	return &statistics{typ: typ}
}

func (s *statistics) merge(page format.Statistics) {
	s.nullCount += page.NullCount

	min, max := statisticsBounds(page)
	if min == nil || max == nil {
		return
	}
	if !s.hasBounds {
		s.hasBounds = true
		s.min = append(s.min[:0], min...)
		s.max = append(s.max[:0], max...)
		return
	}
	if compareValues(s.typ, min, s.min) < 0 {
		s.min = append(s.min[:0], min...)
	}
	if compareValues(s.typ, max, s.max) > 0 {
		s.max = append(s.max[:0], max...)
	}
}

func (s *statistics) format() format.Statistics {
	stats := format.Statistics{NullCount: s.nullCount}
	if s.hasBounds {
		stats.Min = s.min
		stats.Max = s.max
		stats.MinValue = s.min
		stats.MaxValue = s.max
	}
	return stats
}

func (s *statistics) reset() {
	s.nullCount = 0
	s.hasBounds = false
	s.min = s.min[:0]
	s.max = s.max[:0]
}

// statisticsBounds returns the min and max values of page statistics,
// falling back to the deprecated fields when the newer ones are absent.
func statisticsBounds(page format.Statistics) (min, max []byte) {
	min, max = page.MinValue, page.MaxValue
	if min == nil {
		min = page.Min
	}
	if max == nil {
		max = page.Max
	}
	return min, max
}

// compareValues compares two plain-encoded values of the given type using
// the sort order of the type: signed numeric order for the numeric types,
// false before true for booleans, unsigned lexicographic order for the
// binary types.
func compareValues(typ format.Type, a, b []byte) int {
	switch typ {
	case format.Boolean:
		return compareBool(a[0] != 0, b[0] != 0)
	case format.Int32:
		return compareInt64(int64(int32(binary.LittleEndian.Uint32(a))), int64(int32(binary.LittleEndian.Uint32(b))))
	case format.Int64:
		return compareInt64(int64(binary.LittleEndian.Uint64(a)), int64(binary.LittleEndian.Uint64(b)))
	case format.Float:
		return compareFloat64(float64(math.Float32frombits(binary.LittleEndian.Uint32(a))), float64(math.Float32frombits(binary.LittleEndian.Uint32(b))))
	case format.Double:
		return compareFloat64(math.Float64frombits(binary.LittleEndian.Uint64(a)), math.Float64frombits(binary.LittleEndian.Uint64(b)))
	default:
		return bytes.Compare(a, b)
	}
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case b:
		return -1
	default:
		return +1
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return +1
	default:
		return 0
	}
}

func compareFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return +1
	default:
		return 0
	}
}
