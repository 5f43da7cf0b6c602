package chunk

import (
	"github.com/segmentio/parquet-chunk/compress"
)

// PageWriteStore maps each column of a schema to the writer buffering its
// pages. All columns share the codec and the allocator.
type PageWriteStore struct {
	codec   compress.Codec
	schema  Schema
	config  *Config
	writers map[string]*ColumnChunkWriter
}

// NewPageWriteStore constructs a store with one column chunk writer per
// column of the schema.
func NewPageWriteStore(codec compress.Codec, schema Schema, options ...Option) *PageWriteStore {
	config := DefaultConfig()
	config.Apply(options...)
	if err := config.Validate(); err != nil {
		panic(err)
	}

	store := &PageWriteStore{
		codec:   codec,
		schema:  schema,
		config:  config,
		writers: make(map[string]*ColumnChunkWriter, len(schema.Columns)),
	}
	for i := range store.schema.Columns {
		column := &store.schema.Columns[i]
		store.writers[columnKey(column.Path)] = newColumnChunkWriter(column, codec, config)
	}
	return store
}

// GetPageWriter returns the page writer of the given column, or nil if the
// column is not part of the schema the store was built for.
func (s *PageWriteStore) GetPageWriter(column ColumnDescriptor) PageWriter {
	if w, ok := s.writers[columnKey(column.Path)]; ok {
		return w
	}
	return nil
}

// FlushToFileWriter writes every column chunk to the file writer, in schema
// order. Columns are written strictly sequentially to preserve the on-disk
// ordering; the method must be driven by a single goroutine.
//
// On error the file writer may be left mid-column and buffered resources
// unreleased; the store must be discarded.
func (s *PageWriteStore) FlushToFileWriter(fw FileWriter) error {
	for i := range s.schema.Columns {
		w := s.writers[columnKey(s.schema.Columns[i].Path)]
		if err := w.writeToFileWriter(fw); err != nil {
			return err
		}
	}
	return nil
}
