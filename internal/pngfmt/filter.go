package pngfmt

// unfilter inverts PNG's per-scanline adaptive prediction, turning the
// concatenated (filter-byte, row-bytes) stream produced by the Deflate
// decoder back into raw pixel bytes, one stride-sized row per scanline.
//
// bytesPerPixel is the filter unit (ceil(channels*bitDepth/8), floored at
// 1); stride is the encoded row width in bytes (spec.md §4.2).
func unfilter(decompressed []byte, stride, bytesPerPixel, height int) ([]byte, error) {
	out := make([]byte, stride*height)
	prior := make([]byte, stride)
	cur := make([]byte, stride)

	pos := 0
	for y := 0; y < height; y++ {
		if pos >= len(decompressed) {
			return nil, filterErrorf("truncated input at row %d", y)
		}
		ftype := decompressed[pos]
		pos++

		if pos+stride > len(decompressed) {
			return nil, filterErrorf("short scanline %d: need %d bytes, have %d", y, stride, len(decompressed)-pos)
		}
		copy(cur, decompressed[pos:pos+stride])
		pos += stride

		switch ftype {
		case 0: // None
			// no-op

		case 1: // Sub
			for i := bytesPerPixel; i < stride; i++ {
				cur[i] += cur[i-bytesPerPixel]
			}

		case 2: // Up
			unfilterUp(cur, prior)

		case 3: // Average
			for i := 0; i < stride; i++ {
				var a uint16
				if i >= bytesPerPixel {
					a = uint16(cur[i-bytesPerPixel])
				}
				b := uint16(prior[i])
				cur[i] += uint8((a + b) / 2)
			}

		case 4: // Paeth
			for i := 0; i < stride; i++ {
				var a, c uint8
				if i >= bytesPerPixel {
					a = cur[i-bytesPerPixel]
					c = prior[i-bytesPerPixel]
				}
				b := prior[i]
				cur[i] += paeth(a, b, c)
			}

		default:
			return nil, filterErrorf("unknown filter type %d at row %d", ftype, y)
		}

		copy(out[y*stride:(y+1)*stride], cur)
		prior, cur = cur, prior
	}

	return out, nil
}

// unfilterUp has no intra-row dependency chain (each byte only needs the
// byte directly above it), making it the one filter that is safe to
// process in fixed-width lanes; it is processed here in 16-byte chunks
// with a scalar tail, the shape a SIMD backend would vectorise without
// changing the result (spec.md §4.2).
func unfilterUp(cur, prior []byte) {
	n := len(cur)
	i := 0
	for ; i+16 <= n; i += 16 {
		lane := cur[i : i+16]
		above := prior[i : i+16]
		for j := 0; j < 16; j++ {
			lane[j] += above[j]
		}
	}
	for ; i < n; i++ {
		cur[i] += prior[i]
	}
}

// paeth implements the PNG Paeth predictor: pick whichever neighbour
// (a=left, b=above, c=upper-left) is closest to p = a+b-c, tie-breaking
// a over b over c.
func paeth(a, b, c uint8) uint8 {
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))

	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// strideFor returns bytes-per-row and the filter byte-per-pixel unit for
// an IHDR descriptor, per spec.md §4.2.
func strideFor(h IHDR) (stride, bpp int) {
	bitsPerPixel := h.Channels() * int(h.BitDepth)
	stride = (h.Width*bitsPerPixel + 7) / 8
	bpp = (bitsPerPixel + 7) / 8
	if bpp < 1 {
		bpp = 1
	}
	return stride, bpp
}
