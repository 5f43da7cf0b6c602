package plain_test

import (
	"bytes"
	"testing"

	"github.com/segmentio/parquet-chunk/encoding/plain"
)

func TestBooleanRoundTrip(t *testing.T) {
	values := []bool{true, false, false, true, true, true, false, true, false, true}

	buffer := plain.AppendBoolean(nil, values)
	if len(buffer) != 2 {
		t.Errorf("10 booleans encoded to %d bytes, want 2", len(buffer))
	}

	decoded, err := plain.DecodeBoolean(nil, buffer, len(values))
	if err != nil {
		t.Fatal(err)
	}
	for i := range values {
		if values[i] != decoded[i] {
			t.Errorf("value %d: got %t, want %t", i, decoded[i], values[i])
		}
	}
}

func TestInt32RoundTrip(t *testing.T) {
	values := []int32{0, -1, 1<<31 - 1, -1 << 31, 42}

	decoded, err := plain.DecodeInt32(nil, plain.AppendInt32(nil, values), len(values))
	if err != nil {
		t.Fatal(err)
	}
	for i := range values {
		if values[i] != decoded[i] {
			t.Errorf("value %d: got %d, want %d", i, decoded[i], values[i])
		}
	}
}

func TestInt64RoundTrip(t *testing.T) {
	values := []int64{0, -1, 1<<63 - 1, -1 << 63}

	decoded, err := plain.DecodeInt64(nil, plain.AppendInt64(nil, values), len(values))
	if err != nil {
		t.Fatal(err)
	}
	for i := range values {
		if values[i] != decoded[i] {
			t.Errorf("value %d: got %d, want %d", i, decoded[i], values[i])
		}
	}
}

func TestDoubleRoundTrip(t *testing.T) {
	values := []float64{0, -0.5, 3.14159, -1e300}

	decoded, err := plain.DecodeDouble(nil, plain.AppendDouble(nil, values), len(values))
	if err != nil {
		t.Fatal(err)
	}
	for i := range values {
		if values[i] != decoded[i] {
			t.Errorf("value %d: got %g, want %g", i, decoded[i], values[i])
		}
	}
}

func TestByteArrayRoundTrip(t *testing.T) {
	values := [][]byte{
		[]byte("hello"),
		{},
		[]byte("world"),
		bytes.Repeat([]byte("x"), 300),
	}

	buffer := []byte(nil)
	for _, v := range values {
		buffer = plain.AppendByteArray(buffer, v)
	}

	decoded, err := plain.DecodeByteArray(nil, buffer, len(values))
	if err != nil {
		t.Fatal(err)
	}
	for i := range values {
		if !bytes.Equal(values[i], decoded[i]) {
			t.Errorf("value %d: got %q, want %q", i, decoded[i], values[i])
		}
	}
}

func TestFixedLenByteArrayRoundTrip(t *testing.T) {
	values := [][]byte{
		[]byte("0123"),
		[]byte("4567"),
		[]byte("89ab"),
	}

	buffer := []byte(nil)
	for _, v := range values {
		buffer = plain.AppendFixedLenByteArray(buffer, v)
	}

	decoded, err := plain.DecodeFixedLenByteArray(nil, buffer, 4, len(values))
	if err != nil {
		t.Fatal(err)
	}
	for i := range values {
		if !bytes.Equal(values[i], decoded[i]) {
			t.Errorf("value %d: got %q, want %q", i, decoded[i], values[i])
		}
	}
}

func TestDecodeTruncated(t *testing.T) {
	if _, err := plain.DecodeInt32(nil, []byte{1, 2, 3}, 1); err == nil {
		t.Error("expected an error decoding 1 int32 from 3 bytes")
	}
	if _, err := plain.DecodeByteArray(nil, []byte{10, 0, 0, 0, 'x'}, 1); err == nil {
		t.Error("expected an error decoding a byte array longer than its buffer")
	}
}
