package chunk

import (
	"bytes"
	"fmt"

	"github.com/segmentio/encoding/thrift"
	"github.com/segmentio/parquet-chunk/compress"
	"github.com/segmentio/parquet-chunk/encoding"
	"github.com/segmentio/parquet-chunk/format"
)

// PageWriter is the interface to submit encoded pages for one column.
//
// Pages are buffered in memory in submission order until the page write
// store flushes the column to a file writer.
type PageWriter interface {
	// WriteDictionaryPage buffers the dictionary page of the column chunk.
	// At most one dictionary page is accepted.
	WriteDictionaryPage(page DictionaryPage) error

	// WritePage buffers a page of the original data page format. The body
	// carries the repetition levels, definition levels and values sections
	// concatenated, uncompressed.
	WritePage(data []byte, valueCount int32, stats format.Statistics, rlEncoding, dlEncoding, valuesEncoding format.Encoding) error

	// WritePageV2 buffers a page of the v2 data page format. The level
	// sections are carried separately from the values and are written to the
	// file uncompressed and verbatim.
	WritePageV2(rowCount, nullCount, valueCount int32, repetitionLevels, definitionLevels []byte, valuesEncoding format.Encoding, data []byte, stats format.Statistics) error

	// MemSize returns the number of bytes currently buffered.
	MemSize() int64
}

// DictionaryPage carries the payload and metadata of a dictionary page.
//
// The Data bytes are uncompressed while the page is buffered; the copy
// handed to the file writer at emit time is compressed.
type DictionaryPage struct {
	Data             []byte
	UncompressedSize int32
	NumValues        int32
	Encoding         format.Encoding
}

// PageHeaderWithOffset pairs the header of an emitted page with the absolute
// position at which the page body begins in the file.
type PageHeaderWithOffset struct {
	Header format.PageHeader
	Offset int64
}

// ColumnChunkWriter buffers the pages of one column and writes them as a
// contiguous column chunk when the column is flushed.
//
// A ColumnChunkWriter is exclusively owned by its caller and performs no
// internal locking.
type ColumnChunkWriter struct {
	column *ColumnDescriptor
	codec  compress.Codec
	config *Config

	dictionary *DictionaryPage

	uncompressedLength int64
	compressedLength   int64
	totalValueCount    int64
	bufferedSize       int64
	pageCount          int32

	// Monotonic: only ever transitions true to false; the dictionary commit
	// decision is made once at finalization.
	dictionaryEncodingUsedForAllPages bool

	// Repetition and definition level encodings are used only for v1 pages
	// and don't change across pages.
	rlEncodings   []format.Encoding
	dlEncodings   []format.Encoding
	dataEncodings []format.Encoding

	pages     []pageHolder
	allocated [][]byte

	totalStatistics *statistics

	header struct {
		buffer   bytes.Buffer
		protocol thrift.CompactProtocol
		encoder  *thrift.Encoder
	}
}

func newColumnChunkWriter(column *ColumnDescriptor, codec compress.Codec, config *Config) *ColumnChunkWriter {
	w := &ColumnChunkWriter{
		column:                            column,
		codec:                             codec,
		config:                            config,
		dictionaryEncodingUsedForAllPages: true,
		totalStatistics:                   newStatistics(column.Type),
	}
	w.header.encoder = thrift.NewEncoder(w.header.protocol.NewWriter(&w.header.buffer))
	return w
}

// copy stores data in a buffer obtained from the allocator; the buffer is
// registered for release at the end of the chunk. Allocations are rounded up
// to the configured page buffer size so small pages do not produce many tiny
// buffers.
func (w *ColumnChunkWriter) copy(data []byte) []byte {
	size := len(data)
	if size < w.config.PageBufferSize {
		size = w.config.PageBufferSize
	}
	buf := w.config.Allocator.Allocate(size)
	copy(buf, data)
	w.allocated = append(w.allocated, buf)
	return buf[:len(data):len(data)]
}

func (w *ColumnChunkWriter) WriteDictionaryPage(page DictionaryPage) error {
	if w.dictionary != nil {
		return fmt.Errorf("column %q: %w", w.column, ErrDuplicateDictionary)
	}
	uncompressedSize, err := toInt32(int64(len(page.Data)))
	if err != nil {
		return fmt.Errorf("dictionary page of column %q: %w", w.column, err)
	}
	// Compression of the dictionary bytes is deferred to emit time so that
	// an abandoned dictionary costs no compression work.
	w.dictionary = &DictionaryPage{
		Data:             w.copy(page.Data),
		UncompressedSize: uncompressedSize,
		NumValues:        page.NumValues,
		Encoding:         page.Encoding,
	}
	return nil
}

func (w *ColumnChunkWriter) WritePage(data []byte, valueCount int32, stats format.Statistics, rlEncoding, dlEncoding, valuesEncoding format.Encoding) error {
	w.totalValueCount += int64(valueCount)
	w.pageCount++
	w.totalStatistics.merge(stats)

	uncompressedSize := int64(len(data))
	usesDictionary := encoding.UsesDictionary(valuesEncoding)
	w.dictionaryEncodingUsedForAllPages = w.dictionaryEncodingUsedForAllPages && usesDictionary

	// If the page is dictionary encoded do not compress it yet: it may have
	// to be rewritten, and dictionary indexes leave little for the codec to
	// gain anyway.
	var body []byte
	if usesDictionary {
		body = w.copy(data)
	} else {
		var err error
		if body, err = w.codec.Encode(nil, data); err != nil {
			return fmt.Errorf("compressing page of column %q: %w", w.column, err)
		}
	}
	w.bufferedSize += int64(len(body))

	w.pages = append(w.pages, &pageV1{
		column:           w.column,
		codec:            w.codec,
		data:             body,
		valueCount:       valueCount,
		stats:            stats,
		rlEncoding:       rlEncoding,
		dlEncoding:       dlEncoding,
		encoding:         valuesEncoding,
		uncompressedSize: uncompressedSize,
		compressed:       !usesDictionary,
	})
	return nil
}

func (w *ColumnChunkWriter) WritePageV2(rowCount, nullCount, valueCount int32, repetitionLevels, definitionLevels []byte, valuesEncoding format.Encoding, data []byte, stats format.Statistics) error {
	w.totalValueCount += int64(valueCount)
	w.pageCount++
	w.totalStatistics.merge(stats)

	totalSize, err := toInt32(int64(len(data)) + int64(len(repetitionLevels)) + int64(len(definitionLevels)))
	if err != nil {
		return fmt.Errorf("column %q: %w", w.column, err)
	}
	w.bufferedSize += int64(totalSize)

	usesDictionary := encoding.UsesDictionary(valuesEncoding)
	w.dictionaryEncodingUsedForAllPages = w.dictionaryEncodingUsedForAllPages && usesDictionary

	var body []byte
	if usesDictionary {
		body = w.copy(data)
	} else {
		if body, err = w.codec.Encode(nil, data); err != nil {
			return fmt.Errorf("compressing page of column %q: %w", w.column, err)
		}
	}

	w.pages = append(w.pages, &pageV2{
		column:                 w.column,
		codec:                  w.codec,
		repetitionLevels:       w.copy(repetitionLevels),
		definitionLevels:       w.copy(definitionLevels),
		data:                   body,
		rowCount:               rowCount,
		nullCount:              nullCount,
		valueCount:             valueCount,
		encoding:               valuesEncoding,
		stats:                  stats,
		uncompressedValuesSize: int64(len(data)),
		compressed:             !usesDictionary,
	})
	return nil
}

// MemSize returns the number of bytes buffered for the column.
func (w *ColumnChunkWriter) MemSize() int64 {
	return w.bufferedSize
}

// writeToFileWriter finalizes the column chunk: the dictionary is abandoned
// if any page fell back to a non-dictionary encoding, a kept dictionary is
// sorted and the buffered pages remapped, and everything is framed and
// handed to the file writer.
//
// An error leaves the file writer in a partially written column and the
// buffered resources unreleased; the writer must be treated as terminal.
func (w *ColumnChunkWriter) writeToFileWriter(fw FileWriter) error {
	if err := w.checkDictionaryEncoding(); err != nil {
		return err
	}

	var sortedDictionaryPage *DictionaryPage
	if w.dictionary != nil {
		var err error
		if sortedDictionaryPage, err = w.sortDictionary(); err != nil {
			return err
		}
	}

	return w.writeBufferedPages(fw, sortedDictionaryPage)
}

func (w *ColumnChunkWriter) writeBufferedPages(fw FileWriter, dictionaryPage *DictionaryPage) error {
	if err := fw.StartColumn(*w.column, w.totalValueCount, w.codec.CompressionCodec()); err != nil {
		return err
	}

	if dictionaryPage != nil {
		// The dictionary page is compressed only now that it is committed.
		compressed, err := w.codec.Encode(nil, dictionaryPage.Data)
		if err != nil {
			return fmt.Errorf("compressing dictionary page of column %q: %w", w.column, err)
		}
		err = fw.WriteDictionaryPage(DictionaryPage{
			Data:             compressed,
			UncompressedSize: dictionaryPage.UncompressedSize,
			NumValues:        dictionaryPage.NumValues,
			Encoding:         dictionaryPage.Encoding,
		}, true)
		if err != nil {
			return err
		}
		w.dataEncodings = append(w.dataEncodings, dictionaryPage.Encoding)
	}

	headers := make([]PageHeaderWithOffset, 0, len(w.pages))
	buffers := make([][]byte, 0, 2*len(w.pages))

	// Until now page holders only know sizes; page positions start from the
	// current offset in the output file.
	pageOffset := fw.Pos()
	for _, page := range w.pages {
		if err := page.compressIfNeeded(); err != nil {
			return err
		}

		var pageHeader PageHeaderWithOffset
		var err error
		switch p := page.(type) {
		case *pageV1:
			pageHeader, err = w.prepareV1(p, pageOffset, &buffers)
		case *pageV2:
			pageHeader, err = w.prepareV2(p, pageOffset, &buffers)
		default:
			err = fmt.Errorf("column %q: %w", w.column, ErrInvalidPageType)
		}
		if err != nil {
			return err
		}
		headers = append(headers, pageHeader)

		// The compressed size of this page added to its body offset is the
		// starting offset of the next page header.
		pageOffset = pageHeader.Offset + int64(pageHeader.Header.CompressedPageSize)
	}

	// Concatenating before collecting instead of collecting twice allocates
	// a single output buffer.
	output := concat(buffers)
	if err := fw.WriteDataPages(output, w.uncompressedLength, w.compressedLength, w.totalStatistics.format(), w.rlEncodings, w.dlEncodings, w.dataEncodings, headers); err != nil {
		return err
	}
	if err := fw.EndColumn(); err != nil {
		return err
	}

	w.config.Logger.Log(
		"msg", "column chunk written",
		"column", w.column.String(),
		"bytes", len(output),
		"values", w.totalValueCount,
		"raw", w.uncompressedLength,
		"compressed", w.compressedLength,
		"pages", w.pageCount,
		"encodings", fmt.Sprint(w.dataEncodings),
	)

	for _, page := range w.pages {
		page.release()
	}
	for _, buf := range w.allocated {
		w.config.Allocator.Release(buf)
	}
	w.pages = w.pages[:0]
	w.allocated = w.allocated[:0]
	w.rlEncodings = w.rlEncodings[:0]
	w.dlEncodings = w.dlEncodings[:0]
	w.dataEncodings = w.dataEncodings[:0]
	w.pageCount = 0
	w.totalValueCount = 0
	w.bufferedSize = 0
	w.uncompressedLength = 0
	w.compressedLength = 0
	w.totalStatistics.reset()
	w.dictionary = nil
	return nil
}

func (w *ColumnChunkWriter) prepareV1(p *pageV1, pageOffset int64, out *[][]byte) (PageHeaderWithOffset, error) {
	uncompressedSize, err := toInt32(p.uncompressedSize)
	if err != nil {
		return PageHeaderWithOffset{}, fmt.Errorf("column %q: %w", w.column, err)
	}
	compressedSize, err := toInt32(int64(len(p.data)))
	if err != nil {
		return PageHeaderWithOffset{}, fmt.Errorf("column %q: %w", w.column, err)
	}

	header := format.PageHeader{
		Type:                 format.DataPage,
		UncompressedPageSize: uncompressedSize,
		CompressedPageSize:   compressedSize,
		DataPageHeader: &format.DataPageHeader{
			NumValues:               p.valueCount,
			Encoding:                p.encoding,
			DefinitionLevelEncoding: p.dlEncoding,
			RepetitionLevelEncoding: p.rlEncoding,
			Statistics:              w.pageStatistics(p.stats),
		},
	}
	headerBytes, err := w.encodeHeader(&header)
	if err != nil {
		return PageHeaderWithOffset{}, err
	}

	w.uncompressedLength += int64(uncompressedSize)
	w.compressedLength += int64(compressedSize)
	*out = append(*out, headerBytes, p.data)
	w.rlEncodings = addEncoding(w.rlEncodings, p.rlEncoding)
	w.dlEncodings = addEncoding(w.dlEncodings, p.dlEncoding)
	w.dataEncodings = append(w.dataEncodings, p.encoding)

	return PageHeaderWithOffset{Header: header, Offset: pageOffset + int64(len(headerBytes))}, nil
}

func (w *ColumnChunkWriter) prepareV2(p *pageV2, pageOffset int64, out *[][]byte) (PageHeaderWithOffset, error) {
	rlByteLength, err := toInt32(int64(len(p.repetitionLevels)))
	if err != nil {
		return PageHeaderWithOffset{}, fmt.Errorf("column %q: %w", w.column, err)
	}
	dlByteLength, err := toInt32(int64(len(p.definitionLevels)))
	if err != nil {
		return PageHeaderWithOffset{}, fmt.Errorf("column %q: %w", w.column, err)
	}
	uncompressedSize, err := toInt32(p.uncompressedValuesSize + int64(rlByteLength) + int64(dlByteLength))
	if err != nil {
		return PageHeaderWithOffset{}, fmt.Errorf("column %q: %w", w.column, err)
	}
	compressedSize, err := toInt32(int64(len(p.data)) + int64(rlByteLength) + int64(dlByteLength))
	if err != nil {
		return PageHeaderWithOffset{}, fmt.Errorf("column %q: %w", w.column, err)
	}

	header := format.PageHeader{
		Type:                 format.DataPageV2,
		UncompressedPageSize: uncompressedSize,
		CompressedPageSize:   compressedSize,
		DataPageHeaderV2: &format.DataPageHeaderV2{
			NumValues:                  p.valueCount,
			NumNulls:                   p.nullCount,
			NumRows:                    p.rowCount,
			Encoding:                   p.encoding,
			DefinitionLevelsByteLength: dlByteLength,
			RepetitionLevelsByteLength: rlByteLength,
			Statistics:                 w.pageStatistics(p.stats),
		},
	}
	headerBytes, err := w.encodeHeader(&header)
	if err != nil {
		return PageHeaderWithOffset{}, err
	}

	w.uncompressedLength += int64(uncompressedSize)
	w.compressedLength += int64(compressedSize)
	*out = append(*out, headerBytes, p.repetitionLevels, p.definitionLevels, p.data)
	w.dataEncodings = append(w.dataEncodings, p.encoding)

	return PageHeaderWithOffset{Header: header, Offset: pageOffset + int64(len(headerBytes))}, nil
}

// pageStatistics returns the statistics written to a data page header;
// empty when per-page statistics are disabled.
func (w *ColumnChunkWriter) pageStatistics(stats format.Statistics) format.Statistics {
	if !w.config.DataPageStats {
		return format.Statistics{}
	}
	return stats
}

func (w *ColumnChunkWriter) encodeHeader(header *format.PageHeader) ([]byte, error) {
	w.header.buffer.Reset()
	w.header.encoder.Reset(w.header.protocol.NewWriter(&w.header.buffer))
	if err := w.header.encoder.Encode(header); err != nil {
		return nil, fmt.Errorf("encoding page header of column %q: %w", w.column, err)
	}
	return append([]byte(nil), w.header.buffer.Bytes()...), nil
}

func addEncoding(encodings []format.Encoding, add format.Encoding) []format.Encoding {
	for _, enc := range encodings {
		if enc == add {
			return encodings
		}
	}
	return append(encodings, add)
}

func concat(buffers [][]byte) []byte {
	size := 0
	for _, b := range buffers {
		size += len(b)
	}
	out := make([]byte, 0, size)
	for _, b := range buffers {
		out = append(out, b...)
	}
	return out
}
