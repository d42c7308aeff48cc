package huffman

import (
	"testing"

	"github.com/nrasterio/imgraster/internal/bitio"
)

// bitWriter packs bits LSB-first per byte, matching bitio.Reader's layout,
// while each Huffman code itself is written most-significant-bit first
// (RFC 1951 §3.2.2's canonical packing convention).
type bitWriter struct {
	bytes []byte
	nbits uint
}

func (w *bitWriter) writeBit(b uint32) {
	idx := int(w.nbits / 8)
	for idx >= len(w.bytes) {
		w.bytes = append(w.bytes, 0)
	}
	if b != 0 {
		w.bytes[idx] |= 1 << (w.nbits % 8)
	}
	w.nbits++
}

func (w *bitWriter) writeCode(code uint32, length int) {
	for i := length - 1; i >= 0; i-- {
		w.writeBit((code >> uint(i)) & 1)
	}
}

// canonicalCodes assigns the RFC 1951 canonical code to every symbol with
// a non-zero length, given a Kraft-satisfying length vector.
func canonicalCodes(lengths []uint8) map[int]uint32 {
	var count [maxBits + 1]int
	for _, l := range lengths {
		if l > 0 {
			count[l]++
		}
	}
	var first [maxBits + 1]int
	code := 0
	for l := 1; l <= maxBits; l++ {
		code = (code + count[l-1]) << 1
		first[l] = code
	}
	codes := make(map[int]uint32)
	next := first
	for s, l := range lengths {
		if l == 0 {
			continue
		}
		codes[s] = uint32(next[l])
		next[l]++
	}
	return codes
}

func TestRoundTripCompleteCode(t *testing.T) {
	// 4 symbols, all length 2: a complete, Kraft-satisfying code.
	lengths := []uint8{2, 2, 2, 2}
	tree, err := New(lengths)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	codes := canonicalCodes(lengths)

	for sym := 0; sym < len(lengths); sym++ {
		w := &bitWriter{}
		w.writeCode(codes[sym], int(lengths[sym]))
		r := bitio.NewReader(w.bytes)
		got, err := tree.Decode(r)
		if err != nil {
			t.Fatalf("symbol %d: Decode: %v", sym, err)
		}
		if int(got) != sym {
			t.Errorf("symbol %d: decoded %d", sym, got)
		}
	}
}

func TestRoundTripUnbalancedLengths(t *testing.T) {
	// Kraft equality: 1/2 + 1/4 + 1/8 + 1/8 = 1.
	lengths := []uint8{1, 2, 3, 3}
	tree, err := New(lengths)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	codes := canonicalCodes(lengths)

	for sym, l := range lengths {
		w := &bitWriter{}
		w.writeCode(codes[sym], int(l))
		r := bitio.NewReader(w.bytes)
		got, err := tree.Decode(r)
		if err != nil {
			t.Fatalf("symbol %d: Decode: %v", sym, err)
		}
		if int(got) != sym {
			t.Errorf("symbol %d: decoded %d", sym, got)
		}
	}
}

func TestFixedTreesDecode(t *testing.T) {
	lit := FixedLiteral()
	codes := canonicalCodes(fixedLiteralLengths())
	w := &bitWriter{}
	w.writeCode(codes[65], 8) // symbol 65 ('A') uses an 8-bit code
	r := bitio.NewReader(w.bytes)
	got, err := lit.Decode(r)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != 65 {
		t.Errorf("got symbol %d, want 65", got)
	}

	dist := FixedDistance()
	if dist == nil {
		t.Fatal("FixedDistance returned nil")
	}
}

func fixedLiteralLengths() []uint8 {
	lengths := make([]uint8, 288)
	for i := 0; i <= 143; i++ {
		lengths[i] = 8
	}
	for i := 144; i <= 255; i++ {
		lengths[i] = 9
	}
	for i := 256; i <= 279; i++ {
		lengths[i] = 7
	}
	for i := 280; i <= 287; i++ {
		lengths[i] = 8
	}
	return lengths
}
