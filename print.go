package chunk

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// PrintLayout renders the page layout of written column chunks as a table:
// one row per page with its type, body offset, sizes, value count and
// encoding.
func PrintLayout(w io.Writer, layout []ColumnLayout) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"COLUMN", "PAGE", "TYPE", "OFFSET", "COMPRESSED", "UNCOMPRESSED", "VALUES", "ENCODING"})
	table.SetAutoFormatHeaders(false)

	for _, column := range layout {
		for i, page := range column.Pages {
			h := page.Header
			numValues := ""
			encoding := ""
			switch {
			case h.DataPageHeader != nil:
				numValues = fmt.Sprintf("%d", h.DataPageHeader.NumValues)
				encoding = h.DataPageHeader.Encoding.String()
			case h.DataPageHeaderV2 != nil:
				numValues = fmt.Sprintf("%d", h.DataPageHeaderV2.NumValues)
				encoding = h.DataPageHeaderV2.Encoding.String()
			case h.DictionaryPageHeader != nil:
				numValues = fmt.Sprintf("%d", h.DictionaryPageHeader.NumValues)
				encoding = h.DictionaryPageHeader.Encoding.String()
			}
			table.Append([]string{
				column.Column.String(),
				fmt.Sprintf("%d", i),
				h.Type.String(),
				fmt.Sprintf("%d", page.Offset),
				fmt.Sprintf("%d", h.CompressedPageSize),
				fmt.Sprintf("%d", h.UncompressedPageSize),
				numValues,
				encoding,
			})
		}
	}
	table.Render()
}
