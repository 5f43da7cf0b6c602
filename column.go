package chunk

import (
	"strings"

	"github.com/segmentio/parquet-chunk/format"
)

// ColumnDescriptor identifies a leaf column of a schema and carries the
// properties the page buffering engine needs: the primitive type used to
// decode and re-encode values, and the maximum repetition and definition
// levels which drive the layout of v1 page bodies.
type ColumnDescriptor struct {
	// Path of the column in the schema, from the root to the leaf.
	Path []string

	// Primitive type of the column values.
	Type format.Type

	// Size of the values for FIXED_LEN_BYTE_ARRAY columns, zero otherwise.
	TypeLength int

	MaxRepetitionLevel int
	MaxDefinitionLevel int
}

// Name returns the leaf name of the column.
func (c *ColumnDescriptor) Name() string {
	if len(c.Path) == 0 {
		return ""
	}
	return c.Path[len(c.Path)-1]
}

func (c *ColumnDescriptor) String() string {
	return strings.Join(c.Path, ".")
}

// Schema is the flat list of leaf columns a page write store is constructed
// for. The order of the columns is the order in which column chunks appear on
// disk.
type Schema struct {
	Name    string
	Columns []ColumnDescriptor
}

// Lookup returns the descriptor of the column at the given path, or nil if
// the schema has no such column.
func (s *Schema) Lookup(path ...string) *ColumnDescriptor {
	for i := range s.Columns {
		if pathEqual(s.Columns[i].Path, path) {
			return &s.Columns[i]
		}
	}
	return nil
}

func pathEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func columnKey(path []string) string {
	return strings.Join(path, ".")
}
