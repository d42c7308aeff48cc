// Package huffman builds and decodes canonical Huffman codes from a vector
// of per-symbol code lengths, the scheme Deflate uses for its literal/length
// and distance alphabets (RFC 1951 §3.2.2).
package huffman

import (
	"fmt"

	"github.com/nrasterio/imgraster/internal/bitio"
)

const maxBits = 15

// Tree is a canonical Huffman decode table built from a code-length vector.
type Tree struct {
	count  [maxBits + 1]int // number of codes of each length
	first  [maxBits + 1]int // first canonical code value of each length
	start  [maxBits + 1]int // index into symbols of the first code of each length
	symbols []uint16        // symbols grouped by ascending length, symbol order within a length
}

// New builds a canonical Huffman tree from lengths, where lengths[s] is the
// code length in bits for symbol s (0 means the symbol is unused).
func New(lengths []uint8) (*Tree, error) {
	t := &Tree{symbols: make([]uint16, 0, len(lengths))}

	for _, l := range lengths {
		if int(l) > maxBits {
			return nil, fmt.Errorf("huffman: code length %d exceeds %d bits", l, maxBits)
		}
		if l > 0 {
			t.count[l]++
		}
	}

	// first[l] = (first[l-1] + count[l-1]) << 1, the canonical first-code
	// recurrence from RFC 1951.
	code := 0
	for l := 1; l <= maxBits; l++ {
		code = (code + t.count[l-1]) << 1
		t.first[l] = code
	}

	// Bucket symbols by length, preserving ascending symbol order within
	// each bucket; start[l] records where length l's bucket begins.
	offsets := [maxBits + 2]int{}
	for l := 1; l <= maxBits; l++ {
		offsets[l+1] = offsets[l] + t.count[l]
	}
	copy(t.start[:], offsets[:maxBits+1])

	t.symbols = make([]uint16, offsets[maxBits+1])
	cursor := offsets
	for s, l := range lengths {
		if l == 0 {
			continue
		}
		t.symbols[cursor[l]] = uint16(s)
		cursor[l]++
	}

	return t, nil
}

// Decode reads one symbol from r using this tree: one bit at a time,
// lengthening the candidate code until it falls within the canonical
// range for its length.
func (t *Tree) Decode(r *bitio.Reader) (uint16, error) {
	code := 0
	for l := 1; l <= maxBits; l++ {
		code = (code << 1) | int(r.ReadBit())
		count := t.count[l]
		offset := code - t.first[l]
		if offset >= 0 && offset < count {
			return t.symbols[t.start[l]+offset], nil
		}
	}
	return 0, fmt.Errorf("huffman: no valid code found (stream corrupt or truncated)")
}

// FixedLiteral returns the fixed literal/length tree defined by RFC 1951
// §3.2.6, used for Deflate "fixed" (type 1) blocks.
func FixedLiteral() *Tree {
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
	t, _ := New(lengths)
	return t
}

// FixedDistance returns the fixed distance tree (all codes 5 bits) for
// Deflate "fixed" blocks.
func FixedDistance() *Tree {
	lengths := make([]uint8, 32)
	for i := range lengths {
		lengths[i] = 5
	}
	t, _ := New(lengths)
	return t
}
