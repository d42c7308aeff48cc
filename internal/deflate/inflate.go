// Package deflate implements RFC 1951 Deflate decompression (stored, fixed,
// and dynamic Huffman blocks) plus the two-byte zlib wrapper used by PNG
// IDAT streams. It is used exclusively by internal/pngfmt; nothing else in
// this module needs general-purpose decompression.
package deflate

import (
	"github.com/nrasterio/imgraster/internal/bitio"
	"github.com/nrasterio/imgraster/internal/huffman"
)

// codeLengthOrder is the order in which HCLEN code-length-code lengths are
// transmitted for dynamic blocks (RFC 1951 §3.2.7).
var codeLengthOrder = [19]int{16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15}

// lengthBase and lengthExtra give, for length symbols 257..285, the base
// length and number of extra bits to read and add.
var lengthBase = [29]int{3, 4, 5, 6, 7, 8, 9, 10, 11, 13, 15, 17, 19, 23, 27, 31, 35, 43, 51, 59, 67, 83, 99, 115, 131, 163, 195, 227, 258}
var lengthExtra = [29]uint{0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5, 0}

// distBase and distExtra give, for distance symbols 0..29, the base
// distance and number of extra bits.
var distBase = [30]int{1, 2, 3, 4, 5, 7, 9, 13, 17, 25, 33, 49, 65, 97, 129, 193, 257, 385, 513, 769, 1025, 1537, 2049, 3073, 4097, 6145, 8193, 12289, 16385, 24577}
var distExtra = [30]uint{0, 0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6, 7, 7, 8, 8, 9, 9, 10, 10, 11, 11, 12, 12, 13, 13}

// DecompressZlib strips the two-byte zlib header (and trailing 4-byte
// Adler-32, which is read past but not verified, matching the teacher's
// stance on PNG CRCs) and inflates the Deflate stream inside.
func DecompressZlib(data []byte) ([]byte, error) {
	if len(data) < 2 {
		return nil, newError("input shorter than zlib header")
	}
	return Inflate(data[2:])
}

// Inflate decompresses a raw Deflate bit stream (no zlib/gzip wrapper).
func Inflate(data []byte) ([]byte, error) {
	r := bitio.NewReader(data)
	out := make([]byte, 0, len(data)*3)

	fixedLit := huffman.FixedLiteral()
	fixedDist := huffman.FixedDistance()

	for {
		final := r.ReadBit()
		btype := r.Read(2)

		var err error
		switch btype {
		case 0:
			out, err = inflateStored(r, out)
		case 1:
			out, err = inflateBlock(r, out, fixedLit, fixedDist)
		case 2:
			litTree, distTree, derr := readDynamicTrees(r)
			if derr != nil {
				err = derr
				break
			}
			out, err = inflateBlock(r, out, litTree, distTree)
		default:
			return nil, newError("invalid block type 3")
		}
		if err != nil {
			if !IsDeflateError(err) {
				err = newError(err.Error())
			}
			return nil, err
		}

		if final == 1 {
			break
		}
		if r.Exhausted() {
			return nil, newError("stream ended before final block")
		}
	}

	return out, nil
}

// inflateStored copies a type-0 (stored) block verbatim.
func inflateStored(r *bitio.Reader, out []byte) ([]byte, error) {
	r.AlignByte()

	lenLo, ok := r.ReadAlignedByte()
	if !ok {
		return nil, newError("truncated stored-block length")
	}
	lenHi, ok := r.ReadAlignedByte()
	if !ok {
		return nil, newError("truncated stored-block length")
	}
	nlenLo, ok := r.ReadAlignedByte()
	if !ok {
		return nil, newError("truncated stored-block length complement")
	}
	nlenHi, ok := r.ReadAlignedByte()
	if !ok {
		return nil, newError("truncated stored-block length complement")
	}

	length := uint16(lenLo) | uint16(lenHi)<<8
	nlength := uint16(nlenLo) | uint16(nlenHi)<<8
	if length != ^nlength {
		return nil, newError("stored block LEN/NLEN mismatch")
	}

	for i := uint16(0); i < length; i++ {
		b, ok := r.ReadAlignedByte()
		if !ok {
			return nil, newError("truncated stored block body")
		}
		out = append(out, b)
	}
	return out, nil
}

// inflateBlock decodes a Huffman-coded (fixed or dynamic) block's symbol
// stream until the end-of-block symbol (256) is seen.
func inflateBlock(r *bitio.Reader, out []byte, lit, dist *huffman.Tree) ([]byte, error) {
	for {
		sym, err := lit.Decode(r)
		if err != nil {
			return nil, err
		}

		switch {
		case sym < 256:
			out = append(out, byte(sym))

		case sym == 256:
			return out, nil

		case sym <= 285:
			idx := sym - 257
			length := lengthBase[idx] + int(r.Read(lengthExtra[idx]))

			dsym, err := dist.Decode(r)
			if err != nil {
				return nil, err
			}
			if int(dsym) >= len(distBase) {
				return nil, newError("invalid distance symbol")
			}
			distance := distBase[dsym] + int(r.Read(distExtra[dsym]))

			if distance > len(out) {
				return nil, newError("back-reference distance exceeds decoded output")
			}

			// Byte-at-a-time copy: length may exceed distance, in which
			// case the copy reads bytes it has itself just produced
			// (the standard Deflate LZ77 self-overlap case).
			start := len(out) - distance
			for i := 0; i < length; i++ {
				out = append(out, out[start+i])
			}

		default:
			return nil, newError("unknown literal/length symbol")
		}
	}
}

// readDynamicTrees decodes a type-2 block header: the HLIT/HDIST/HCLEN
// counts, the code-length alphabet, and finally the literal/length and
// distance code-length vectors (with 16/17/18 repeat expansion).
func readDynamicTrees(r *bitio.Reader) (lit, dist *huffman.Tree, err error) {
	hlit := int(r.Read(5)) + 257
	hdist := int(r.Read(5)) + 1
	hclen := int(r.Read(4)) + 4

	var clLengths [19]uint8
	for i := 0; i < hclen; i++ {
		clLengths[codeLengthOrder[i]] = uint8(r.Read(3))
	}

	clTree, err := huffman.New(clLengths[:])
	if err != nil {
		return nil, nil, err
	}

	total := hlit + hdist
	lengths := make([]uint8, 0, total)
	for len(lengths) < total {
		sym, derr := clTree.Decode(r)
		if derr != nil {
			return nil, nil, derr
		}

		switch {
		case sym <= 15:
			lengths = append(lengths, uint8(sym))

		case sym == 16:
			if len(lengths) == 0 {
				return nil, nil, newError("repeat code 16 with no previous length")
			}
			prev := lengths[len(lengths)-1]
			n := 3 + int(r.Read(2))
			for i := 0; i < n; i++ {
				lengths = append(lengths, prev)
			}

		case sym == 17:
			n := 3 + int(r.Read(3))
			for i := 0; i < n; i++ {
				lengths = append(lengths, 0)
			}

		case sym == 18:
			n := 11 + int(r.Read(7))
			for i := 0; i < n; i++ {
				lengths = append(lengths, 0)
			}

		default:
			return nil, nil, newError("invalid code-length symbol")
		}
	}
	if len(lengths) != total {
		return nil, nil, newError("code-length expansion overran HLIT+HDIST")
	}

	lit, err = huffman.New(lengths[:hlit])
	if err != nil {
		return nil, nil, err
	}
	dist, err = huffman.New(lengths[hlit:])
	if err != nil {
		return nil, nil, err
	}
	return lit, dist, nil
}
