package pngfmt

import (
	"bytes"
	"testing"
)

// TestPaethZeroNeighboursIsIdentity is spec.md §8 invariant 6: on the
// first scanline (above=0) and within the first pixel (left=0), Paeth's
// predictor is zero, so the unfiltered byte equals the filtered byte.
func TestPaethZeroNeighboursIsIdentity(t *testing.T) {
	bpp := 3
	stride := 6
	row := []byte{10, 20, 30, 40, 50, 60}
	decompressed := append([]byte{4}, row...) // filter byte 4 = Paeth

	out, err := unfilter(decompressed, stride, bpp, 1)
	if err != nil {
		t.Fatalf("unfilter: %v", err)
	}
	if !bytes.Equal(out[:bpp], row[:bpp]) {
		t.Errorf("first pixel: got %v, want %v (identity)", out[:bpp], row[:bpp])
	}
}

func TestUnfilterNoneIsIdentity(t *testing.T) {
	stride := 4
	row := []byte{1, 2, 3, 4}
	decompressed := append([]byte{0}, row...)
	out, err := unfilter(decompressed, stride, 3, 1)
	if err != nil {
		t.Fatalf("unfilter: %v", err)
	}
	if !bytes.Equal(out, row) {
		t.Errorf("got %v, want %v", out, row)
	}
}

func TestUnfilterSub(t *testing.T) {
	// bpp=1, encoded Sub row [10, 5, 5] decodes to running sum [10, 15, 20].
	decompressed := []byte{1, 10, 5, 5}
	out, err := unfilter(decompressed, 3, 1, 1)
	if err != nil {
		t.Fatalf("unfilter: %v", err)
	}
	want := []byte{10, 15, 20}
	if !bytes.Equal(out, want) {
		t.Errorf("got %v, want %v", out, want)
	}
}

func TestUnfilterShortScanlineErrors(t *testing.T) {
	if _, err := unfilter([]byte{0, 1, 2}, 4, 3, 1); err == nil {
		t.Error("expected error for short scanline")
	}
}

func TestUnfilterUnknownFilterType(t *testing.T) {
	if _, err := unfilter([]byte{9, 1, 2, 3}, 3, 3, 1); err == nil {
		t.Error("expected error for unknown filter byte")
	}
}
