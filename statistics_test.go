package chunk

import (
	"bytes"
	"testing"

	"github.com/segmentio/parquet-chunk/encoding/plain"
	"github.com/segmentio/parquet-chunk/format"
)

func TestStatisticsMerge(t *testing.T) {
	s := newStatistics(format.Int32)

	s.merge(format.Statistics{
		MinValue:  plain.AppendInt32(nil, []int32{10}),
		MaxValue:  plain.AppendInt32(nil, []int32{20}),
		NullCount: 1,
	})
	s.merge(format.Statistics{
		MinValue:  plain.AppendInt32(nil, []int32{-5}),
		MaxValue:  plain.AppendInt32(nil, []int32{15}),
		NullCount: 2,
	})

	total := s.format()
	if total.NullCount != 3 {
		t.Errorf("null count: got %d, want 3", total.NullCount)
	}
	min, _ := plain.DecodeInt32(nil, total.MinValue, 1)
	max, _ := plain.DecodeInt32(nil, total.MaxValue, 1)
	if min[0] != -5 || max[0] != 20 {
		t.Errorf("bounds: got [%d, %d], want [-5, 20]", min[0], max[0])
	}
}

func TestStatisticsMergeEmptyPages(t *testing.T) {
	s := newStatistics(format.Int64)

	// Pages without bounds only contribute their null counts.
	s.merge(format.Statistics{NullCount: 4})
	s.merge(format.Statistics{NullCount: 1})

	total := s.format()
	if total.NullCount != 5 {
		t.Errorf("null count: got %d, want 5", total.NullCount)
	}
	if total.MinValue != nil || total.MaxValue != nil {
		t.Error("bounds appeared from pages without any")
	}
}

func TestStatisticsMergeDeprecatedBounds(t *testing.T) {
	s := newStatistics(format.Int32)

	s.merge(format.Statistics{
		Min: plain.AppendInt32(nil, []int32{3}),
		Max: plain.AppendInt32(nil, []int32{8}),
	})

	total := s.format()
	min, _ := plain.DecodeInt32(nil, total.MinValue, 1)
	max, _ := plain.DecodeInt32(nil, total.MaxValue, 1)
	if min[0] != 3 || max[0] != 8 {
		t.Errorf("bounds: got [%d, %d], want [3, 8]", min[0], max[0])
	}
}

func TestStatisticsByteArrayOrder(t *testing.T) {
	s := newStatistics(format.ByteArray)

	s.merge(format.Statistics{MinValue: []byte("melon"), MaxValue: []byte("melon")})
	s.merge(format.Statistics{MinValue: []byte("apple"), MaxValue: []byte("zucchini")})

	total := s.format()
	if !bytes.Equal(total.MinValue, []byte("apple")) || !bytes.Equal(total.MaxValue, []byte("zucchini")) {
		t.Errorf("bounds: got [%q, %q]", total.MinValue, total.MaxValue)
	}
}

func TestStatisticsSignedIntegerOrder(t *testing.T) {
	s := newStatistics(format.Int32)

	// -1 encodes to 0xFFFFFFFF; a bytewise comparison would order it above
	// any positive value.
	s.merge(format.Statistics{
		MinValue: plain.AppendInt32(nil, []int32{-1}),
		MaxValue: plain.AppendInt32(nil, []int32{-1}),
	})
	s.merge(format.Statistics{
		MinValue: plain.AppendInt32(nil, []int32{7}),
		MaxValue: plain.AppendInt32(nil, []int32{7}),
	})

	total := s.format()
	min, _ := plain.DecodeInt32(nil, total.MinValue, 1)
	max, _ := plain.DecodeInt32(nil, total.MaxValue, 1)
	if min[0] != -1 || max[0] != 7 {
		t.Errorf("bounds: got [%d, %d], want [-1, 7]", min[0], max[0])
	}
}

func TestStatisticsBooleanOrder(t *testing.T) {
	s := newStatistics(format.Boolean)

	s.merge(format.Statistics{MinValue: []byte{1}, MaxValue: []byte{1}})
	s.merge(format.Statistics{MinValue: []byte{0}, MaxValue: []byte{0}})

	total := s.format()
	if total.MinValue[0] != 0 || total.MaxValue[0] != 1 {
		t.Errorf("bounds: got [%d, %d], want [0, 1]", total.MinValue[0], total.MaxValue[0])
	}
}
