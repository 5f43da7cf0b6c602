package chunk

import (
	"fmt"

	"github.com/segmentio/parquet-chunk/encoding"
	"github.com/segmentio/parquet-chunk/encoding/rle"
	"github.com/segmentio/parquet-chunk/format"
	"github.com/segmentio/parquet-chunk/internal/bits"
)

// checkDictionaryEncoding undoes the speculative dictionary encoding when it
// was not used all the way: pages still encoded against the dictionary are
// decoded and rewritten with the plain encoding, then the dictionary is
// discarded. Pages which already fell back are left untouched.
func (w *ColumnChunkWriter) checkDictionaryEncoding() error {
	if w.dictionary == nil || w.dictionaryEncodingUsedForAllPages {
		return nil
	}

	dict, err := readDictionary(w.dictionary, w.column)
	if err != nil {
		return err
	}

	for _, page := range w.pages {
		if !encoding.UsesDictionary(page.valuesEncoding()) {
			continue
		}
		indexes, err := w.readPageIndexes(page)
		if err != nil {
			return err
		}
		values, err := dict.appendPlain(nil, indexes)
		if err != nil {
			return fmt.Errorf("rewriting page of column %q without dictionary: %w", w.column, err)
		}
		if err := page.updateValues(values, format.Plain); err != nil {
			return err
		}
	}

	// The dictionary buffer stays registered with the allocator and is
	// released with the rest at the end of the chunk.
	w.dictionary = nil
	return nil
}

// sortDictionary reorders the dictionary entries in the natural order of the
// column type and rewrites the indexes of every buffered page from old ids
// to new ids. All buffered pages are dictionary encoded at this point.
func (w *ColumnChunkWriter) sortDictionary() (*DictionaryPage, error) {
	dict, err := readDictionary(w.dictionary, w.column)
	if err != nil {
		return nil, err
	}
	perm, newIDs := sortedMapping(dict)

	sortedData, err := dict.appendPlain(nil, perm)
	if err != nil {
		return nil, fmt.Errorf("sorting dictionary page of column %q: %w", w.column, err)
	}
	uncompressedSize, err := toInt32(int64(len(sortedData)))
	if err != nil {
		return nil, fmt.Errorf("dictionary page of column %q: %w", w.column, err)
	}

	bitWidth := indexBitWidth(dict.size())
	for _, page := range w.pages {
		indexes, err := w.readPageIndexes(page)
		if err != nil {
			return nil, err
		}
		for i, id := range indexes {
			if err := checkID(id, dict.size()); err != nil {
				return nil, fmt.Errorf("remapping page of column %q: %w", w.column, err)
			}
			indexes[i] = newIDs[id]
		}
		if err := page.updateValues(rle.AppendIndexes(nil, bitWidth, indexes), page.valuesEncoding()); err != nil {
			return nil, err
		}
	}

	return &DictionaryPage{
		Data:             sortedData,
		UncompressedSize: uncompressedSize,
		NumValues:        w.dictionary.NumValues,
		Encoding:         w.dictionary.Encoding,
	}, nil
}

// readPageIndexes decodes the dictionary indexes of the non-null values of a
// buffered page.
func (w *ColumnChunkWriter) readPageIndexes(page pageHolder) ([]int32, error) {
	nonNull, err := page.nonNullValueCount()
	if err != nil {
		return nil, err
	}
	data, offset, err := page.valuesSection()
	if err != nil {
		return nil, err
	}
	indexes, err := rle.DecodeIndexes(nil, data[offset:], nonNull)
	if err != nil {
		return nil, fmt.Errorf("decoding dictionary indexes of column %q: %w", w.column, err)
	}
	return indexes, nil
}

// indexBitWidth returns the width of the dictionary indexes of a dictionary
// with n entries.
func indexBitWidth(n int) int {
	if n <= 1 {
		return 0
	}
	return bits.Len32(int32(n - 1))
}
