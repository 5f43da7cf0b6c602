package chunk

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/segmentio/parquet-chunk/encoding/plain"
	"github.com/segmentio/parquet-chunk/format"
)

// dictionary is the in-memory form of a buffered dictionary page, decoded to
// typed entries so they can be sorted and written back out.
type dictionary interface {
	size() int

	// less orders entries in the natural order of the column type.
	less(i, j int) bool

	// appendPlain appends the plain representation of the entries with the
	// given ids to dst.
	appendPlain(dst []byte, ids []int32) ([]byte, error)
}

// readDictionary decodes the plain payload of a dictionary page into typed
// entries.
func readDictionary(page *DictionaryPage, column *ColumnDescriptor) (dictionary, error) {
	count := int(page.NumValues)

	switch column.Type {
	case format.Boolean:
		values, err := plain.DecodeBoolean(nil, page.Data, count)
		return booleanDict(values), dictError(column, err)
	case format.Int32:
		values, err := plain.DecodeInt32(nil, page.Data, count)
		return int32Dict(values), dictError(column, err)
	case format.Int64:
		values, err := plain.DecodeInt64(nil, page.Data, count)
		return int64Dict(values), dictError(column, err)
	case format.Int96:
		values, err := plain.DecodeFixedLenByteArray(nil, page.Data, 12, count)
		return fixedLenByteArrayDict{typeLength: 12, values: values}, dictError(column, err)
	case format.Float:
		values, err := plain.DecodeFloat(nil, page.Data, count)
		return floatDict(values), dictError(column, err)
	case format.Double:
		values, err := plain.DecodeDouble(nil, page.Data, count)
		return doubleDict(values), dictError(column, err)
	case format.ByteArray:
		values, err := plain.DecodeByteArray(nil, page.Data, count)
		return byteArrayDict(values), dictError(column, err)
	case format.FixedLenByteArray:
		values, err := plain.DecodeFixedLenByteArray(nil, page.Data, column.TypeLength, count)
		return fixedLenByteArrayDict{typeLength: column.TypeLength, values: values}, dictError(column, err)
	default:
		return nil, fmt.Errorf("column %q has unsupported dictionary type %s", column, column.Type)
	}
}

func dictError(column *ColumnDescriptor, err error) error {
	if err != nil {
		return fmt.Errorf("decoding dictionary page of column %q: %w", column, err)
	}
	return nil
}

// sortedMapping returns the permutation of dictionary entries in sorted
// order (perm[k] is the old id of the entry at sorted position k) and the
// old-id to new-id mapping derived from it.
func sortedMapping(d dictionary) (perm, newIDs []int32) {
	n := d.size()
	perm = make([]int32, n)
	for i := range perm {
		perm[i] = int32(i)
	}
	sort.SliceStable(perm, func(i, j int) bool {
		return d.less(int(perm[i]), int(perm[j]))
	})
	newIDs = make([]int32, n)
	for k, old := range perm {
		newIDs[old] = int32(k)
	}
	return perm, newIDs
}

type booleanDict []bool

func (d booleanDict) size() int { return len(d) }

func (d booleanDict) less(i, j int) bool { return !d[i] && d[j] }

func (d booleanDict) appendPlain(dst []byte, ids []int32) ([]byte, error) {
	values := make([]bool, len(ids))
	for i, id := range ids {
		if err := checkID(id, len(d)); err != nil {
			return dst, err
		}
		values[i] = d[id]
	}
	return plain.AppendBoolean(dst, values), nil
}

type int32Dict []int32

func (d int32Dict) size() int { return len(d) }

func (d int32Dict) less(i, j int) bool { return d[i] < d[j] }

func (d int32Dict) appendPlain(dst []byte, ids []int32) ([]byte, error) {
	values := make([]int32, len(ids))
	for i, id := range ids {
		if err := checkID(id, len(d)); err != nil {
			return dst, err
		}
		values[i] = d[id]
	}
	return plain.AppendInt32(dst, values), nil
}

type int64Dict []int64

func (d int64Dict) size() int { return len(d) }

func (d int64Dict) less(i, j int) bool { return d[i] < d[j] }

func (d int64Dict) appendPlain(dst []byte, ids []int32) ([]byte, error) {
	values := make([]int64, len(ids))
	for i, id := range ids {
		if err := checkID(id, len(d)); err != nil {
			return dst, err
		}
		values[i] = d[id]
	}
	return plain.AppendInt64(dst, values), nil
}

type floatDict []float32

func (d floatDict) size() int { return len(d) }

func (d floatDict) less(i, j int) bool { return d[i] < d[j] }

func (d floatDict) appendPlain(dst []byte, ids []int32) ([]byte, error) {
	values := make([]float32, len(ids))
	for i, id := range ids {
		if err := checkID(id, len(d)); err != nil {
			return dst, err
		}
		values[i] = d[id]
	}
	return plain.AppendFloat(dst, values), nil
}

type doubleDict []float64

func (d doubleDict) size() int { return len(d) }

func (d doubleDict) less(i, j int) bool { return d[i] < d[j] }

func (d doubleDict) appendPlain(dst []byte, ids []int32) ([]byte, error) {
	values := make([]float64, len(ids))
	for i, id := range ids {
		if err := checkID(id, len(d)); err != nil {
			return dst, err
		}
		values[i] = d[id]
	}
	return plain.AppendDouble(dst, values), nil
}

type byteArrayDict [][]byte

func (d byteArrayDict) size() int { return len(d) }

func (d byteArrayDict) less(i, j int) bool { return bytes.Compare(d[i], d[j]) < 0 }

func (d byteArrayDict) appendPlain(dst []byte, ids []int32) ([]byte, error) {
	for _, id := range ids {
		if err := checkID(id, len(d)); err != nil {
			return dst, err
		}
		dst = plain.AppendByteArray(dst, d[id])
	}
	return dst, nil
}

type fixedLenByteArrayDict struct {
	typeLength int
	values     [][]byte
}

func (d fixedLenByteArrayDict) size() int { return len(d.values) }

func (d fixedLenByteArrayDict) less(i, j int) bool {
	return bytes.Compare(d.values[i], d.values[j]) < 0
}

func (d fixedLenByteArrayDict) appendPlain(dst []byte, ids []int32) ([]byte, error) {
	for _, id := range ids {
		if err := checkID(id, len(d.values)); err != nil {
			return dst, err
		}
		dst = plain.AppendFixedLenByteArray(dst, d.values[id])
	}
	return dst, nil
}

func checkID(id int32, size int) error {
	if id < 0 || int(id) >= size {
		return fmt.Errorf("dictionary id %d out of range for dictionary of %d entries", id, size)
	}
	return nil
}
