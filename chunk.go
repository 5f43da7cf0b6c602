// Package chunk implements the per-column page buffering and finalization
// engine of a parquet writer.
//
// A PageWriteStore owns one ColumnChunkWriter per column of a schema. Encoded
// data pages are buffered in memory as they are submitted; when a column is
// flushed, its pages are written as a single contiguous column chunk.
//
// Pages may arrive dictionary-encoded speculatively: if every data page of a
// column ended up dictionary-encoded the dictionary is kept and sorted for
// better compression, otherwise the dictionary is abandoned and the
// dictionary-encoded pages are rewritten with the plain encoding before
// anything reaches the file.
package chunk

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrDuplicateDictionary is returned when more than one dictionary page
	// is submitted for a column chunk.
	ErrDuplicateDictionary = errors.New("only one dictionary page is allowed per column chunk")

	// ErrPageTooLarge is returned when a page size overflows the 32-bit size
	// fields of the page header.
	ErrPageTooLarge = errors.New("page is larger than the maximum size of 2 GiB")

	// ErrInvalidPageType is returned when a buffered page is of an unknown
	// type; it indicates a bug in the page buffering layer.
	ErrInvalidPageType = errors.New("invalid buffered page type")
)

func toInt32(size int64) (int32, error) {
	if size > math.MaxInt32 {
		return 0, fmt.Errorf("cannot write page of %d bytes: %w", size, ErrPageTooLarge)
	}
	return int32(size), nil
}
