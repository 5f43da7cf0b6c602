// chunkdump prints the page layout of parquet files: one row per page with
// its offset, sizes, value count and encoding.
//
//	usage: chunkdump file.parquet ...
package main

import (
	"bytes"
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/segmentio/encoding/thrift"
	chunk "github.com/segmentio/parquet-chunk"
	"github.com/segmentio/parquet-chunk/format"
)

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: chunkdump file.parquet ...")
		os.Exit(2)
	}
	for _, path := range flag.Args() {
		if err := dump(os.Stdout, path); err != nil {
			fmt.Fprintf(os.Stderr, "chunkdump: %s: %v\n", path, err)
			os.Exit(1)
		}
	}
}

func dump(w io.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	metadata, err := readFooter(data)
	if err != nil {
		return err
	}

	var layout []chunk.ColumnLayout
	for _, rowGroup := range metadata.RowGroups {
		for _, column := range rowGroup.Columns {
			pages, err := readPages(data, column.MetaData)
			if err != nil {
				return err
			}
			layout = append(layout, chunk.ColumnLayout{
				Column: chunk.ColumnDescriptor{
					Path: column.MetaData.PathInSchema,
					Type: column.MetaData.Type,
				},
				Pages: pages,
			})
		}
	}

	chunk.PrintLayout(w, layout)
	return nil
}

func readFooter(data []byte) (*format.FileMetaData, error) {
	if len(data) < 12 || !bytes.Equal(data[:4], []byte("PAR1")) || !bytes.Equal(data[len(data)-4:], []byte("PAR1")) {
		return nil, fmt.Errorf("not a parquet file")
	}
	length := int(binary.LittleEndian.Uint32(data[len(data)-8:]))
	if length > len(data)-12 {
		return nil, fmt.Errorf("footer of %d bytes in a file of %d bytes", length, len(data))
	}
	footer := data[len(data)-8-length : len(data)-8]
	metadata := new(format.FileMetaData)
	if err := thrift.Unmarshal(new(thrift.CompactProtocol), footer, metadata); err != nil {
		return nil, fmt.Errorf("decoding file metadata: %w", err)
	}
	return metadata, nil
}

func readPages(data []byte, column format.ColumnMetaData) ([]chunk.PageHeaderWithOffset, error) {
	start := column.DataPageOffset
	if column.DictionaryPageOffset > 0 && column.DictionaryPageOffset < start {
		start = column.DictionaryPageOffset
	}
	end := start + column.TotalCompressedSize
	if start < 0 || end > int64(len(data)) {
		return nil, fmt.Errorf("column chunk at offsets %d..%d in a file of %d bytes", start, end, len(data))
	}

	section := bytes.NewReader(data[start:end])
	protocol := new(thrift.CompactProtocol)
	decoder := thrift.NewDecoder(protocol.NewReader(section))

	var pages []chunk.PageHeaderWithOffset
	values := int64(0)

	for values < column.NumValues {
		header := format.PageHeader{}
		if err := decoder.Decode(&header); err != nil {
			return nil, fmt.Errorf("decoding page header of column %v: %w", column.PathInSchema, err)
		}
		bodyOffset := start + section.Size() - int64(section.Len())
		pages = append(pages, chunk.PageHeaderWithOffset{
			Header: header,
			Offset: bodyOffset,
		})
		if _, err := section.Seek(int64(header.CompressedPageSize), io.SeekCurrent); err != nil {
			return nil, fmt.Errorf("skipping page body of column %v: %w", column.PathInSchema, err)
		}

		switch {
		case header.DataPageHeader != nil:
			values += int64(header.DataPageHeader.NumValues)
		case header.DataPageHeaderV2 != nil:
			values += int64(header.DataPageHeaderV2.NumValues)
		}
	}
	return pages, nil
}
