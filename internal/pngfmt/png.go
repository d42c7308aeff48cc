// Package pngfmt decodes a PNG byte stream into a native ARGB pixel
// buffer: chunk reader, Deflate inflation (internal/deflate), row
// unfiltering, and colour-type expansion (spec.md §4.11).
package pngfmt

import "github.com/nrasterio/imgraster/internal/deflate"

// Image is a decoded PNG at its native resolution, ARGB row-major.
type Image struct {
	Width, Height int
	Pixels        []uint32
}

// Decode parses data as a PNG file and returns its native-resolution ARGB
// buffer. Interlaced (Adam7) images are rejected as UnsupportedFeatureError
// per spec.md §6: core support is limited to non-interlaced images.
func Decode(data []byte) (*Image, error) {
	chunks, err := readChunks(data)
	if err != nil {
		return nil, err
	}

	var ihdr *IHDR
	var palette []RGB
	var idat []byte

	for _, c := range chunks {
		switch string(c.typ[:]) {
		case "IHDR":
			h, err := parseIHDR(c.data)
			if err != nil {
				return nil, err
			}
			ihdr = &h
		case "PLTE":
			p, err := parsePLTE(c.data)
			if err != nil {
				return nil, err
			}
			palette = p
		case "IDAT":
			idat = append(idat, c.data...)
		case "IEND":
			// handled by readChunks loop termination
		default:
			// all other chunks are skipped per spec.md §6
		}
	}

	if ihdr == nil {
		return nil, formatErrorf("missing IHDR chunk")
	}
	if ihdr.Interlace == InterlaceAdam7 {
		return nil, unsupportedf("Adam7 interlacing")
	}
	if ihdr.BitDepth != 8 {
		return nil, unsupportedf("bit depth %d (only 8-bit is implemented)", ihdr.BitDepth)
	}
	if ihdr.ColorType == ColorIndexed && palette == nil {
		return nil, formatErrorf("indexed colour image missing PLTE chunk")
	}

	raw, err := deflate.DecompressZlib(idat)
	if err != nil {
		return nil, err
	}

	stride, bpp := strideFor(*ihdr)
	rows, err := unfilter(raw, stride, bpp, ihdr.Height)
	if err != nil {
		return nil, err
	}

	pixels, err := expandToARGB(rows, *ihdr, palette)
	if err != nil {
		return nil, err
	}

	return &Image{Width: ihdr.Width, Height: ihdr.Height, Pixels: pixels}, nil
}

// expandToARGB converts unfiltered raw row bytes to a native 0xAARRGGBB
// buffer according to the PNG colour type.
func expandToARGB(rows []byte, h IHDR, palette []RGB) ([]uint32, error) {
	w, ht := h.Width, h.Height
	out := make([]uint32, w*ht)
	stride, _ := strideFor(h)

	switch h.ColorType {
	case ColorRGB:
		for y := 0; y < ht; y++ {
			row := rows[y*stride:]
			for x := 0; x < w; x++ {
				i := x * 3
				r, g, b := row[i], row[i+1], row[i+2]
				out[y*w+x] = 0xFF000000 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
			}
		}

	case ColorRGBA:
		for y := 0; y < ht; y++ {
			row := rows[y*stride:]
			for x := 0; x < w; x++ {
				i := x * 4
				r, g, b, a := row[i], row[i+1], row[i+2], row[i+3]
				out[y*w+x] = uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
			}
		}

	case ColorGrayscale:
		for y := 0; y < ht; y++ {
			row := rows[y*stride:]
			for x := 0; x < w; x++ {
				l := row[x]
				out[y*w+x] = 0xFF000000 | uint32(l)<<16 | uint32(l)<<8 | uint32(l)
			}
		}

	case ColorGrayAlpha:
		for y := 0; y < ht; y++ {
			row := rows[y*stride:]
			for x := 0; x < w; x++ {
				i := x * 2
				l, a := row[i], row[i+1]
				out[y*w+x] = uint32(a)<<24 | uint32(l)<<16 | uint32(l)<<8 | uint32(l)
			}
		}

	case ColorIndexed:
		for y := 0; y < ht; y++ {
			row := rows[y*stride:]
			for x := 0; x < w; x++ {
				idx := int(row[x])
				if idx >= len(palette) {
					return nil, formatErrorf("palette index %d out of range (%d entries)", idx, len(palette))
				}
				c := palette[idx]
				out[y*w+x] = 0xFF000000 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
			}
		}

	default:
		return nil, unsupportedf("colour type %d", h.ColorType)
	}

	return out, nil
}
