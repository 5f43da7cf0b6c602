package chunk

import (
	"testing"

	"github.com/segmentio/parquet-chunk/compress/uncompressed"
	"github.com/segmentio/parquet-chunk/encoding/plain"
	"github.com/segmentio/parquet-chunk/encoding/rle"
	"github.com/segmentio/parquet-chunk/format"
)

func TestArenaAllocate(t *testing.T) {
	a := new(arena)

	b1 := a.Allocate(10)
	b2 := a.Allocate(20)
	if len(b1) != 10 || len(b2) != 20 {
		t.Fatalf("allocated %d and %d bytes", len(b1), len(b2))
	}

	b1[0] = 1
	b2[0] = 2
	if b1[0] != 1 || b2[0] != 2 {
		t.Error("buffers overlap")
	}

	a.reset()
	if b := a.Allocate(5); len(b) != 5 {
		t.Errorf("allocated %d bytes after reset", len(b))
	}
}

// countingAllocator verifies that every buffer acquired during a column
// chunk's lifetime is released exactly once at the end of the chunk.
type countingAllocator struct {
	allocated int
	released  int
}

func (a *countingAllocator) Allocate(size int) []byte {
	a.allocated++
	return make([]byte, size)
}

func (a *countingAllocator) Release(buf []byte) { a.released++ }

func TestAllBuffersReleasedAfterFlush(t *testing.T) {
	alloc := new(countingAllocator)
	column := ColumnDescriptor{Path: []string{"x"}, Type: format.Int32}
	schema := Schema{Columns: []ColumnDescriptor{column}}
	store := NewPageWriteStore(new(uncompressed.Codec), schema, WithAllocator(alloc))
	writer := store.GetPageWriter(column)

	err := writer.WriteDictionaryPage(DictionaryPage{
		Data:      plain.AppendInt32(nil, []int32{9, 4}),
		NumValues: 2,
		Encoding:  format.PlainDictionary,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := writer.WritePage(rle.AppendIndexes(nil, 1, []int32{0, 1}), 2, format.Statistics{}, format.RLE, format.RLE, format.PlainDictionary); err != nil {
		t.Fatal(err)
	}
	// The plain page forces the fallback path, which rewrites the first page
	// while the original dictionary buffer is still alive.
	if err := writer.WritePage(plain.AppendInt32(nil, []int32{5}), 1, format.Statistics{}, format.RLE, format.RLE, format.Plain); err != nil {
		t.Fatal(err)
	}

	if err := store.FlushToFileWriter(new(nullFileWriter)); err != nil {
		t.Fatal(err)
	}

	if alloc.allocated == 0 {
		t.Fatal("no buffer went through the allocator")
	}
	if alloc.released != alloc.allocated {
		t.Errorf("released %d of %d allocated buffers", alloc.released, alloc.allocated)
	}
}
