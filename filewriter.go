package chunk

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/segmentio/encoding/thrift"
	"github.com/segmentio/parquet-chunk/format"
)

// FileWriter is the downstream collaborator receiving finalized column
// chunks. All operations are synchronous; implementations track the absolute
// write position, which the page buffering engine reads through Pos to
// compute the on-disk offsets of page bodies.
type FileWriter interface {
	// Pos returns the absolute byte position of the next write.
	Pos() int64

	// StartColumn begins a column chunk.
	StartColumn(column ColumnDescriptor, valueCount int64, codec format.CompressionCodec) error

	// WriteDictionaryPage writes the dictionary page of the current column;
	// the page data is compressed.
	WriteDictionaryPage(page DictionaryPage, sorted bool) error

	// WriteDataPages writes the concatenated header and body bytes of every
	// data page of the current column, along with the column aggregates.
	WriteDataPages(data []byte, uncompressedLength, compressedLength int64, stats format.Statistics, rlEncodings, dlEncodings, dataEncodings []format.Encoding, headers []PageHeaderWithOffset) error

	// EndColumn completes the current column chunk.
	EndColumn() error
}

var magic = []byte("PAR1")

// ChunkFileWriter is a FileWriter producing a single row group parquet file:
// the magic bytes, the column chunks in the order they are flushed, and a
// footer carrying the file metadata.
type ChunkFileWriter struct {
	writer io.Writer
	pos    int64
	schema Schema

	rowGroup format.RowGroup
	layout   []ColumnLayout

	current struct {
		column               ColumnDescriptor
		valueCount           int64
		codec                format.CompressionCodec
		startPos             int64
		dictionaryPageOffset int64
		dataPageOffset       int64
		uncompressedLength   int64
		stats                format.Statistics
		encodings            []format.Encoding
		pages                []PageHeaderWithOffset
		started              bool
	}

	header struct {
		buffer   bytes.Buffer
		protocol thrift.CompactProtocol
		encoder  *thrift.Encoder
	}
}

// ColumnLayout records where the pages of a written column chunk landed;
// it feeds the layout printer and the chunkdump tool.
type ColumnLayout struct {
	Column ColumnDescriptor
	Pages  []PageHeaderWithOffset
}

// NewFileWriter writes the leading magic bytes and returns a file writer
// ready to receive column chunks.
func NewFileWriter(w io.Writer, schema Schema) (*ChunkFileWriter, error) {
	fw := &ChunkFileWriter{writer: w, schema: schema}
	fw.header.encoder = thrift.NewEncoder(fw.header.protocol.NewWriter(&fw.header.buffer))
	if err := fw.write(magic); err != nil {
		return nil, err
	}
	return fw, nil
}

func (fw *ChunkFileWriter) write(b []byte) error {
	n, err := fw.writer.Write(b)
	fw.pos += int64(n)
	if err != nil {
		return fmt.Errorf("writing %d bytes at offset %d: %w", len(b), fw.pos, err)
	}
	return nil
}

func (fw *ChunkFileWriter) Pos() int64 { return fw.pos }

func (fw *ChunkFileWriter) StartColumn(column ColumnDescriptor, valueCount int64, codec format.CompressionCodec) error {
	if fw.current.started {
		return fmt.Errorf("column %q started before column %q ended", column.String(), fw.current.column.String())
	}
	fw.current.column = column
	fw.current.valueCount = valueCount
	fw.current.codec = codec
	fw.current.startPos = fw.pos
	fw.current.dictionaryPageOffset = 0
	fw.current.dataPageOffset = 0
	fw.current.uncompressedLength = 0
	fw.current.stats = format.Statistics{}
	fw.current.encodings = fw.current.encodings[:0]
	fw.current.pages = fw.current.pages[:0]
	fw.current.started = true
	return nil
}

func (fw *ChunkFileWriter) WriteDictionaryPage(page DictionaryPage, sorted bool) error {
	compressedSize, err := toInt32(int64(len(page.Data)))
	if err != nil {
		return fmt.Errorf("dictionary page of column %q: %w", fw.current.column.String(), err)
	}

	fw.header.buffer.Reset()
	fw.header.encoder.Reset(fw.header.protocol.NewWriter(&fw.header.buffer))
	header := format.PageHeader{
		Type:                 format.DictionaryPage,
		UncompressedPageSize: page.UncompressedSize,
		CompressedPageSize:   compressedSize,
		DictionaryPageHeader: &format.DictionaryPageHeader{
			NumValues: page.NumValues,
			Encoding:  page.Encoding,
			IsSorted:  sorted,
		},
	}
	err = fw.header.encoder.Encode(&header)
	if err != nil {
		return fmt.Errorf("encoding dictionary page header of column %q: %w", fw.current.column.String(), err)
	}

	fw.current.dictionaryPageOffset = fw.pos
	fw.current.encodings = addEncoding(fw.current.encodings, page.Encoding)
	fw.current.uncompressedLength += int64(fw.header.buffer.Len()) + int64(page.UncompressedSize)
	if err := fw.write(fw.header.buffer.Bytes()); err != nil {
		return err
	}
	fw.current.pages = append(fw.current.pages, PageHeaderWithOffset{Header: header, Offset: fw.pos})
	return fw.write(page.Data)
}

func (fw *ChunkFileWriter) WriteDataPages(data []byte, uncompressedLength, compressedLength int64, stats format.Statistics, rlEncodings, dlEncodings, dataEncodings []format.Encoding, headers []PageHeaderWithOffset) error {
	fw.current.dataPageOffset = fw.pos
	fw.current.uncompressedLength += uncompressedLength + (int64(len(data)) - compressedLength)
	fw.current.stats = stats
	for _, enc := range rlEncodings {
		fw.current.encodings = addEncoding(fw.current.encodings, enc)
	}
	for _, enc := range dlEncodings {
		fw.current.encodings = addEncoding(fw.current.encodings, enc)
	}
	for _, enc := range dataEncodings {
		fw.current.encodings = addEncoding(fw.current.encodings, enc)
	}
	fw.current.pages = append(fw.current.pages, headers...)
	return fw.write(data)
}

func (fw *ChunkFileWriter) EndColumn() error {
	if !fw.current.started {
		return fmt.Errorf("ending a column that was never started")
	}
	fw.current.started = false

	totalCompressedSize := fw.pos - fw.current.startPos
	fw.rowGroup.Columns = append(fw.rowGroup.Columns, format.ColumnChunk{
		FileOffset: fw.current.startPos,
		MetaData: format.ColumnMetaData{
			Type:                  fw.current.column.Type,
			Encoding:              fw.current.encodings[:len(fw.current.encodings):len(fw.current.encodings)],
			PathInSchema:          fw.current.column.Path,
			Codec:                 fw.current.codec,
			NumValues:             fw.current.valueCount,
			TotalUncompressedSize: fw.current.uncompressedLength,
			TotalCompressedSize:   totalCompressedSize,
			DataPageOffset:        fw.current.dataPageOffset,
			DictionaryPageOffset:  fw.current.dictionaryPageOffset,
			Statistics:            fw.current.stats,
		},
	})
	fw.rowGroup.TotalByteSize += fw.current.uncompressedLength
	fw.layout = append(fw.layout, ColumnLayout{
		Column: fw.current.column,
		Pages:  append([]PageHeaderWithOffset(nil), fw.current.pages...),
	})
	fw.current.encodings = nil
	return nil
}

// Layout returns the page layout of every column chunk written so far.
func (fw *ChunkFileWriter) Layout() []ColumnLayout { return fw.layout }

// Close writes the footer: the file metadata, its length, and the trailing
// magic bytes. numRows is the number of rows shared by the columns of the
// row group.
func (fw *ChunkFileWriter) Close(numRows int64) error {
	fw.rowGroup.NumRows = numRows
	footer, err := thrift.Marshal(new(thrift.CompactProtocol), &format.FileMetaData{
		Version:   1,
		Schema:    fw.schemaElements(),
		NumRows:   numRows,
		RowGroups: []format.RowGroup{fw.rowGroup},
		CreatedBy: "parquet-chunk",
	})
	if err != nil {
		return fmt.Errorf("encoding file metadata: %w", err)
	}
	if err := fw.write(footer); err != nil {
		return err
	}
	length := [4]byte{}
	binary.LittleEndian.PutUint32(length[:], uint32(len(footer)))
	if err := fw.write(length[:]); err != nil {
		return err
	}
	return fw.write(magic)
}

func (fw *ChunkFileWriter) schemaElements() []format.SchemaElement {
	name := fw.schema.Name
	if name == "" {
		name = "schema"
	}
	elements := make([]format.SchemaElement, 0, len(fw.schema.Columns)+1)
	elements = append(elements, format.SchemaElement{
		Name:        name,
		NumChildren: int32(len(fw.schema.Columns)),
	})
	for i := range fw.schema.Columns {
		column := &fw.schema.Columns[i]
		typ := column.Type
		repetition := format.Required
		switch {
		case column.MaxRepetitionLevel > 0:
			repetition = format.Repeated
		case column.MaxDefinitionLevel > 0:
			repetition = format.Optional
		}
		element := format.SchemaElement{
			Type:           &typ,
			RepetitionType: &repetition,
			Name:           column.Name(),
		}
		if column.Type == format.FixedLenByteArray {
			typeLength := int32(column.TypeLength)
			element.TypeLength = &typeLength
		}
		elements = append(elements, element)
	}
	return elements
}
