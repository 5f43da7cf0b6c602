package chunk

import (
	"bytes"
	"testing"

	"github.com/segmentio/parquet-chunk/encoding/plain"
	"github.com/segmentio/parquet-chunk/format"
)

func TestSortedMapping(t *testing.T) {
	tests := []struct {
		scenario string
		dict     dictionary
		wantPerm []int32
		wantNew  []int32
	}{
		{
			scenario: "int32",
			dict:     int32Dict{7, 3, 5},
			wantPerm: []int32{1, 2, 0},
			wantNew:  []int32{2, 0, 1},
		},
		{
			scenario: "int64 already sorted",
			dict:     int64Dict{1, 2, 3},
			wantPerm: []int32{0, 1, 2},
			wantNew:  []int32{0, 1, 2},
		},
		{
			scenario: "byte array",
			dict:     byteArrayDict{[]byte("pear"), []byte("apple"), []byte("orange")},
			wantPerm: []int32{1, 2, 0},
			wantNew:  []int32{2, 0, 1},
		},
		{
			scenario: "boolean",
			dict:     booleanDict{true, false},
			wantPerm: []int32{1, 0},
			wantNew:  []int32{1, 0},
		},
		{
			scenario: "double",
			dict:     doubleDict{0.5, -1.25, 100},
			wantPerm: []int32{1, 0, 2},
			wantNew:  []int32{1, 0, 2},
		},
		{
			scenario: "empty",
			dict:     int32Dict{},
			wantPerm: []int32{},
			wantNew:  []int32{},
		},
	}

	for _, test := range tests {
		t.Run(test.scenario, func(t *testing.T) {
			perm, newIDs := sortedMapping(test.dict)
			assertIDsEqual(t, "perm", test.wantPerm, perm)
			assertIDsEqual(t, "new ids", test.wantNew, newIDs)
		})
	}
}

func TestReadDictionaryRoundTrip(t *testing.T) {
	column := &ColumnDescriptor{Path: []string{"s"}, Type: format.ByteArray}
	data := plain.AppendByteArray(nil, []byte("banana"))
	data = plain.AppendByteArray(data, []byte("apple"))

	dict, err := readDictionary(&DictionaryPage{Data: data, NumValues: 2, Encoding: format.PlainDictionary}, column)
	if err != nil {
		t.Fatal(err)
	}
	if dict.size() != 2 {
		t.Fatalf("dictionary size: got %d, want 2", dict.size())
	}

	perm, _ := sortedMapping(dict)
	sorted, err := dict.appendPlain(nil, perm)
	if err != nil {
		t.Fatal(err)
	}
	entries, err := plain.DecodeByteArray(nil, sorted, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(entries[0], []byte("apple")) || !bytes.Equal(entries[1], []byte("banana")) {
		t.Errorf("sorted entries: got [%q, %q]", entries[0], entries[1])
	}
}

func TestReadDictionaryFixedLenByteArray(t *testing.T) {
	column := &ColumnDescriptor{Path: []string{"f"}, Type: format.FixedLenByteArray, TypeLength: 2}
	data := []byte("bbaacc")

	dict, err := readDictionary(&DictionaryPage{Data: data, NumValues: 3, Encoding: format.Plain}, column)
	if err != nil {
		t.Fatal(err)
	}
	perm, newIDs := sortedMapping(dict)
	assertIDsEqual(t, "perm", []int32{1, 0, 2}, perm)
	assertIDsEqual(t, "new ids", []int32{1, 0, 2}, newIDs)
}

func TestAppendPlainRejectsOutOfRangeIDs(t *testing.T) {
	dict := int32Dict{1, 2}
	if _, err := dict.appendPlain(nil, []int32{0, 2}); err == nil {
		t.Error("expected an error for id 2 in a dictionary of 2 entries")
	}
	if _, err := dict.appendPlain(nil, []int32{-1}); err == nil {
		t.Error("expected an error for a negative id")
	}
}

func TestIndexBitWidth(t *testing.T) {
	for _, test := range []struct{ size, width int }{
		{0, 0}, {1, 0}, {2, 1}, {3, 2}, {4, 2}, {5, 3}, {256, 8}, {257, 9},
	} {
		if width := indexBitWidth(test.size); width != test.width {
			t.Errorf("indexBitWidth(%d): got %d, want %d", test.size, width, test.width)
		}
	}
}

func assertIDsEqual(t *testing.T, name string, want, got []int32) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("%s: got %v, want %v", name, got, want)
	}
	for i := range want {
		if want[i] != got[i] {
			t.Fatalf("%s: got %v, want %v", name, got, want)
		}
	}
}
