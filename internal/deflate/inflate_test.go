package deflate

import (
	"bytes"
	"compress/zlib"
	"io"
	"testing"
)

// compressZlib produces a real zlib stream via the standard library, so
// tests exercise Inflate against encoder output this package never wrote
// itself (spec.md §8 invariant 4: inflate(zlib-compress(bytes)) = bytes).
func compressZlib(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatalf("zlib.Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zlib.Close: %v", err)
	}
	return buf.Bytes()
}

func TestDecompressZlibRoundTrip(t *testing.T) {
	cases := [][]byte{
		[]byte(""),
		[]byte("a"),
		[]byte("hello, world"),
		bytes.Repeat([]byte("abcabcabcabc"), 50), // exercises LZ77 back-references
		make([]byte, 1<<16),                      // exercises multiple deflate blocks
	}
	for i, want := range cases {
		compressed := compressZlib(t, want)
		got, err := DecompressZlib(compressed)
		if err != nil {
			t.Fatalf("case %d: DecompressZlib: %v", i, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("case %d: got %d bytes, want %d bytes (mismatch)", i, len(got), len(want))
		}
	}
}

func TestDecompressZlibStoredBlock(t *testing.T) {
	// zlib.NoCompression forces stored (type 0) Deflate blocks.
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.NoCompression)
	if err != nil {
		t.Fatalf("NewWriterLevel: %v", err)
	}
	want := []byte("stored block payload")
	if _, err := io.WriteString(w, string(want)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	w.Close()

	got, err := DecompressZlib(buf.Bytes())
	if err != nil {
		t.Fatalf("DecompressZlib: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDecompressZlibTooShort(t *testing.T) {
	if _, err := DecompressZlib([]byte{0x78}); err == nil {
		t.Error("expected error for truncated zlib header")
	}
}
