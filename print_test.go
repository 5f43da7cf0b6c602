package chunk_test

import (
	"bytes"
	"strings"
	"testing"

	chunk "github.com/segmentio/parquet-chunk"
	"github.com/segmentio/parquet-chunk/format"
)

func TestPrintLayout(t *testing.T) {
	layout := []chunk.ColumnLayout{
		{
			Column: chunk.ColumnDescriptor{Path: []string{"x"}, Type: format.Int32},
			Pages: []chunk.PageHeaderWithOffset{
				{
					Header: format.PageHeader{
						Type:                 format.DictionaryPage,
						UncompressedPageSize: 40,
						CompressedPageSize:   40,
						DictionaryPageHeader: &format.DictionaryPageHeader{
							NumValues: 3,
							Encoding:  format.PlainDictionary,
							IsSorted:  true,
						},
					},
					Offset: 1012,
				},
				{
					Header: format.PageHeader{
						Type:                 format.DataPage,
						UncompressedPageSize: 128,
						CompressedPageSize:   128,
						DataPageHeader: &format.DataPageHeader{
							NumValues: 5,
							Encoding:  format.PlainDictionary,
						},
					},
					Offset: 1068,
				},
				{
					Header: format.PageHeader{
						Type:                 format.DataPageV2,
						UncompressedPageSize: 256,
						CompressedPageSize:   200,
						DataPageHeaderV2: &format.DataPageHeaderV2{
							NumValues: 7,
							NumNulls:  2,
							NumRows:   7,
							Encoding:  format.Plain,
						},
					},
					Offset: 1212,
				},
			},
		},
	}

	output := new(bytes.Buffer)
	chunk.PrintLayout(output, layout)
	rendered := output.String()

	for _, want := range []string{
		"COLUMN", "PAGE", "TYPE", "OFFSET", "ENCODING",
		"DICTIONARY_PAGE", "DATA_PAGE", "DATA_PAGE_V2",
		"PLAIN_DICTIONARY", "PLAIN",
		"1012", "1068", "1212",
		"128", "256", "200",
	} {
		if !strings.Contains(rendered, want) {
			t.Errorf("rendered layout does not mention %q:\n%s", want, rendered)
		}
	}

	// One line per page plus the header and frame lines.
	if lines := strings.Count(rendered, "\n"); lines < 4 {
		t.Errorf("rendered layout has only %d lines:\n%s", lines, rendered)
	}
}
