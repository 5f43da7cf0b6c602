// Package format defines the data structures of the parquet metadata, as
// serialized to the thrift compact protocol in page headers and file footers.
//
// https://github.com/apache/parquet-format/blob/master/src/main/thrift/parquet.thrift
package format

import "fmt"

// Types supported by Parquet. These types are intended to be used in
// combination with the encodings to control the on-disk storage format.
type Type int32

const (
	Boolean           Type = 0
	Int32             Type = 1
	Int64             Type = 2
	Int96             Type = 3
	Float             Type = 4
	Double            Type = 5
	ByteArray         Type = 6
	FixedLenByteArray Type = 7
)

func (t Type) String() string {
	switch t {
	case Boolean:
		return "BOOLEAN"
	case Int32:
		return "INT32"
	case Int64:
		return "INT64"
	case Int96:
		return "INT96"
	case Float:
		return "FLOAT"
	case Double:
		return "DOUBLE"
	case ByteArray:
		return "BYTE_ARRAY"
	case FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "Type(?)"
	}
}

// Encodings supported by Parquet. Not all encodings are valid for all types.
type Encoding int32

const (
	// Default encoding: the raw bytes of the values.
	Plain Encoding = 0

	// Deprecated dictionary encoding; the values in the dictionary page are
	// stored in the plain encoding, data pages hold dictionary indexes in the
	// RLE/bit-packed hybrid encoding.
	PlainDictionary Encoding = 2

	// Group packed run length encoding, usable for definition/repetition
	// levels and booleans.
	RLE Encoding = 3

	// Bit packed encoding for levels. Deprecated in favor of RLE.
	BitPacked Encoding = 4

	DeltaBinaryPacked Encoding = 5

	DeltaLengthByteArray Encoding = 6

	DeltaByteArray Encoding = 7

	// Dictionary encoding: the ids are encoded using the RLE encoding, the
	// dictionary page itself is plain encoded.
	RLEDictionary Encoding = 8

	ByteStreamSplit Encoding = 9
)

func (e Encoding) String() string {
	switch e {
	case Plain:
		return "PLAIN"
	case PlainDictionary:
		return "PLAIN_DICTIONARY"
	case RLE:
		return "RLE"
	case BitPacked:
		return "BIT_PACKED"
	case DeltaBinaryPacked:
		return "DELTA_BINARY_PACKED"
	case DeltaLengthByteArray:
		return "DELTA_LENGTH_BYTE_ARRAY"
	case DeltaByteArray:
		return "DELTA_BYTE_ARRAY"
	case RLEDictionary:
		return "RLE_DICTIONARY"
	case ByteStreamSplit:
		return "BYTE_STREAM_SPLIT"
	default:
		return "Encoding(?)"
	}
}

// Supported compression algorithms. Codecs added in format version X.Y can be
// read by readers based on X.Y and later.
type CompressionCodec int32

const (
	Uncompressed CompressionCodec = 0
	Snappy       CompressionCodec = 1
	Gzip         CompressionCodec = 2
	Brotli       CompressionCodec = 4
	Zstd         CompressionCodec = 6
	Lz4Raw       CompressionCodec = 7
)

func (c CompressionCodec) String() string {
	switch c {
	case Uncompressed:
		return "UNCOMPRESSED"
	case Snappy:
		return "SNAPPY"
	case Gzip:
		return "GZIP"
	case Brotli:
		return "BROTLI"
	case Zstd:
		return "ZSTD"
	case Lz4Raw:
		return "LZ4_RAW"
	default:
		return "CompressionCodec(?)"
	}
}

type PageType int32

const (
	DataPage       PageType = 0
	IndexPage      PageType = 1
	DictionaryPage PageType = 2
	// Data page format version 2: repetition and definition levels are
	// stored uncompressed ahead of the (optionally compressed) values.
	DataPageV2 PageType = 3
)

func (p PageType) String() string {
	switch p {
	case DataPage:
		return "DATA_PAGE"
	case IndexPage:
		return "INDEX_PAGE"
	case DictionaryPage:
		return "DICTIONARY_PAGE"
	case DataPageV2:
		return "DATA_PAGE_V2"
	default:
		return "PageType(?)"
	}
}

type FieldRepetitionType int32

const (
	Required FieldRepetitionType = 0
	Optional FieldRepetitionType = 1
	Repeated FieldRepetitionType = 2
)

// Statistics per row group and per page. All fields are optional.
type Statistics struct {
	// Deprecated min/max retained for backward compatibility with older
	// readers; identical to MinValue/MaxValue for the types this module
	// writes.
	Max       []byte `thrift:"1,optional"`
	Min       []byte `thrift:"2,optional"`
	NullCount int64  `thrift:"3,optional"`
	// Count of distinct values occurring.
	DistinctCount int64 `thrift:"4,optional"`
	// Min and max values of the column, determined by the sort order of the
	// type.
	MaxValue []byte `thrift:"5,optional"`
	MinValue []byte `thrift:"6,optional"`
}

// Data page header for the original page format.
type DataPageHeader struct {
	NumValues               int32      `thrift:"1,required"`
	Encoding                Encoding   `thrift:"2,required"`
	DefinitionLevelEncoding Encoding   `thrift:"3,required"`
	RepetitionLevelEncoding Encoding   `thrift:"4,required"`
	Statistics              Statistics `thrift:"5,optional"`
}

type IndexPageHeader struct{}

// The dictionary page must be placed at the first position of the column
// chunk if it is partly or completely dictionary encoded.
type DictionaryPageHeader struct {
	NumValues int32    `thrift:"1,required"`
	Encoding  Encoding `thrift:"2,required"`
	IsSorted  bool     `thrift:"3,optional"`
}

// New page format allowing reading levels without decompressing the data,
// and without a complicated offset to the values.
type DataPageHeaderV2 struct {
	NumValues int32 `thrift:"1,required"`
	NumNulls  int32 `thrift:"2,required"`
	NumRows   int32 `thrift:"3,required"`

	Encoding Encoding `thrift:"4,required"`

	// Byte lengths of the repetition and definition levels sections; the
	// levels are stored ahead of the values and never compressed.
	DefinitionLevelsByteLength int32 `thrift:"5,required"`
	RepetitionLevelsByteLength int32 `thrift:"6,required"`

	// Whether the values are compressed; defaults to true.
	IsCompressed *bool `thrift:"7,optional"`

	Statistics Statistics `thrift:"8,optional"`
}

type PageHeader struct {
	Type                 PageType `thrift:"1,required"`
	UncompressedPageSize int32    `thrift:"2,required"`
	CompressedPageSize   int32    `thrift:"3,required"`

	// The 32-bit CRC checksum of the page, not written by this module.
	CRC int32 `thrift:"4,optional"`

	// One of the following is set, matching Type.
	DataPageHeader       *DataPageHeader       `thrift:"5,optional"`
	IndexPageHeader      *IndexPageHeader      `thrift:"6,optional"`
	DictionaryPageHeader *DictionaryPageHeader `thrift:"7,optional"`
	DataPageHeaderV2     *DataPageHeaderV2     `thrift:"8,optional"`
}

func (h *PageHeader) String() string {
	return fmt.Sprintf("PageHeader{Type=%s,UncompressedPageSize=%d,CompressedPageSize=%d}",
		h.Type, h.UncompressedPageSize, h.CompressedPageSize)
}

type KeyValue struct {
	Key   string `thrift:"1,required"`
	Value string `thrift:"2,optional"`
}

// Represents an element of the schema tree flattened in depth first order.
type SchemaElement struct {
	Type           *Type                `thrift:"1,optional"`
	TypeLength     *int32               `thrift:"2,optional"`
	RepetitionType *FieldRepetitionType `thrift:"3,optional"`
	Name           string               `thrift:"4,required"`
	NumChildren    int32                `thrift:"5,optional"`
}

// Description for column metadata.
type ColumnMetaData struct {
	Type                  Type             `thrift:"1,required"`
	Encoding              []Encoding       `thrift:"2,required"`
	PathInSchema          []string         `thrift:"3,required"`
	Codec                 CompressionCodec `thrift:"4,required"`
	NumValues             int64            `thrift:"5,required"`
	TotalUncompressedSize int64            `thrift:"6,required"`
	TotalCompressedSize   int64            `thrift:"7,required"`
	KeyValueMetadata      []KeyValue       `thrift:"8,optional"`
	DataPageOffset        int64            `thrift:"9,required"`
	IndexPageOffset       int64            `thrift:"10,optional"`
	DictionaryPageOffset  int64            `thrift:"11,optional"`
	Statistics            Statistics       `thrift:"12,optional"`
}

type ColumnChunk struct {
	FilePath   string         `thrift:"1,optional"`
	FileOffset int64          `thrift:"2,required"`
	MetaData   ColumnMetaData `thrift:"3,optional"`
}

type RowGroup struct {
	Columns       []ColumnChunk `thrift:"1,required"`
	TotalByteSize int64         `thrift:"2,required"`
	NumRows       int64         `thrift:"3,required"`
}

// Description for file metadata.
type FileMetaData struct {
	Version          int32           `thrift:"1,required"`
	Schema           []SchemaElement `thrift:"2,required"`
	NumRows          int64           `thrift:"3,required"`
	RowGroups        []RowGroup      `thrift:"4,required"`
	KeyValueMetadata []KeyValue      `thrift:"5,optional"`
	CreatedBy        string          `thrift:"6,optional"`
}
