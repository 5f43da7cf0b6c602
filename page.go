package chunk

import (
	"fmt"

	"github.com/segmentio/parquet-chunk/compress"
	"github.com/segmentio/parquet-chunk/encoding/rle"
	"github.com/segmentio/parquet-chunk/format"
	"github.com/segmentio/parquet-chunk/internal/bits"
)

// pageHolder is the interface shared by the two buffered page variants.
//
// A holder owns the bytes of one buffered page. Pages holding
// dictionary-encoded values stay uncompressed until the column chunk is
// emitted so they can be rewritten if the dictionary is sorted or abandoned;
// compressIfNeeded settles the final representation on the emit path.
type pageHolder interface {
	pageType() format.PageType
	valuesEncoding() format.Encoding
	numValues() int32

	// Number of values of the page which are dictionary-encoded, which are
	// the non-null positions.
	nonNullValueCount() (int, error)

	// The uncompressed bytes holding the values section, and the offset at
	// which the section starts.
	valuesSection() (data []byte, offset int, err error)

	// Replaces the values section with freshly encoded bytes; resets the
	// compressed flag, the emit path compresses the result.
	updateValues(values []byte, valuesEncoding format.Encoding) error

	compressIfNeeded() error

	release()
}

// pageV1 buffers one page of the original data page format: the body is the
// concatenation of the repetition levels, definition levels and values
// sections, compressed as a whole.
type pageV1 struct {
	column *ColumnDescriptor
	codec  compress.Codec

	data             []byte
	valueCount       int32
	stats            format.Statistics
	rlEncoding       format.Encoding
	dlEncoding       format.Encoding
	encoding         format.Encoding
	uncompressedSize int64
	compressed       bool
}

func (p *pageV1) pageType() format.PageType { return format.DataPage }

func (p *pageV1) valuesEncoding() format.Encoding { return p.encoding }

func (p *pageV1) numValues() int32 { return p.valueCount }

func (p *pageV1) nonNullValueCount() (int, error) {
	if p.column.MaxDefinitionLevel == 0 {
		return int(p.valueCount), nil
	}
	offset := 0
	if p.column.MaxRepetitionLevel > 0 {
		n, err := rle.LevelsV1SectionSize(p.data)
		if err != nil {
			return 0, fmt.Errorf("locating definition levels of column %q: %w", p.column, err)
		}
		offset = n
	}
	levels, _, err := rle.DecodeLevelsV1(nil, p.data[offset:], bits.Len32(int32(p.column.MaxDefinitionLevel)), int(p.valueCount))
	if err != nil {
		return 0, fmt.Errorf("decoding definition levels of column %q: %w", p.column, err)
	}
	nonNull := 0
	for _, level := range levels {
		if int(level) == p.column.MaxDefinitionLevel {
			nonNull++
		}
	}
	return nonNull, nil
}

// dataOffset returns the offset of the values section in the page body, past
// the repetition and definition level sections.
func (p *pageV1) dataOffset() (int, error) {
	offset := 0
	if p.column.MaxRepetitionLevel > 0 {
		n, err := rle.LevelsV1SectionSize(p.data)
		if err != nil {
			return 0, fmt.Errorf("skipping repetition levels of column %q: %w", p.column, err)
		}
		offset += n
	}
	if p.column.MaxDefinitionLevel > 0 {
		n, err := rle.LevelsV1SectionSize(p.data[offset:])
		if err != nil {
			return 0, fmt.Errorf("skipping definition levels of column %q: %w", p.column, err)
		}
		offset += n
	}
	return offset, nil
}

func (p *pageV1) valuesSection() ([]byte, int, error) {
	if p.compressed {
		return nil, 0, fmt.Errorf("page of column %q was already compressed: %w", p.column, ErrInvalidPageType)
	}
	offset, err := p.dataOffset()
	if err != nil {
		return nil, 0, err
	}
	return p.data, offset, nil
}

func (p *pageV1) updateValues(values []byte, valuesEncoding format.Encoding) error {
	offset, err := p.dataOffset()
	if err != nil {
		return err
	}
	p.data = append(p.data[:offset:offset], values...)
	p.uncompressedSize = int64(len(p.data))
	p.encoding = valuesEncoding
	p.compressed = false
	return nil
}

func (p *pageV1) compressIfNeeded() error {
	if p.compressed {
		return nil
	}
	data, err := p.codec.Encode(nil, p.data)
	if err != nil {
		return fmt.Errorf("compressing page of column %q: %w", p.column, err)
	}
	p.data = data
	p.compressed = true
	return nil
}

func (p *pageV1) release() {
	p.data = nil
}

// pageV2 buffers one page of the v2 data page format: the level sections are
// held separately from the values and are never compressed.
type pageV2 struct {
	column *ColumnDescriptor
	codec  compress.Codec

	repetitionLevels []byte
	definitionLevels []byte
	data             []byte

	rowCount   int32
	nullCount  int32
	valueCount int32

	encoding               format.Encoding
	stats                  format.Statistics
	uncompressedValuesSize int64
	compressed             bool
}

func (p *pageV2) pageType() format.PageType { return format.DataPageV2 }

func (p *pageV2) valuesEncoding() format.Encoding { return p.encoding }

func (p *pageV2) numValues() int32 { return p.valueCount }

func (p *pageV2) nonNullValueCount() (int, error) {
	return int(p.valueCount - p.nullCount), nil
}

func (p *pageV2) valuesSection() ([]byte, int, error) {
	if p.compressed {
		return nil, 0, fmt.Errorf("page of column %q was already compressed: %w", p.column, ErrInvalidPageType)
	}
	return p.data, 0, nil
}

func (p *pageV2) updateValues(values []byte, valuesEncoding format.Encoding) error {
	p.data = values
	p.uncompressedValuesSize = int64(len(values))
	p.encoding = valuesEncoding
	p.compressed = false
	return nil
}

func (p *pageV2) compressIfNeeded() error {
	if p.compressed {
		return nil
	}
	data, err := p.codec.Encode(nil, p.data)
	if err != nil {
		return fmt.Errorf("compressing page of column %q: %w", p.column, err)
	}
	p.data = data
	p.compressed = true
	return nil
}

func (p *pageV2) release() {
	p.repetitionLevels = nil
	p.definitionLevels = nil
	p.data = nil
}
