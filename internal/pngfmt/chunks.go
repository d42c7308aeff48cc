package pngfmt

import "encoding/binary"

// ColorType enumerates the PNG IHDR colour-type byte values this decoder
// recognises; greyscale-alpha (4) and truecolour-alpha-16 are accepted
// structurally but only 8-bit depths are decoded (spec.md §4.11).
type ColorType uint8

const (
	ColorGrayscale    ColorType = 0
	ColorRGB          ColorType = 2
	ColorIndexed      ColorType = 3
	ColorGrayAlpha    ColorType = 4
	ColorRGBA         ColorType = 6
)

// Interlace enumerates the IHDR interlace-method byte.
type Interlace uint8

const (
	InterlaceNone  Interlace = 0
	InterlaceAdam7 Interlace = 1
)

// IHDR is the parsed image header chunk.
type IHDR struct {
	Width, Height int
	BitDepth      uint8
	ColorType     ColorType
	Interlace     Interlace
}

// Channels returns the number of colour/alpha channels implied by ColorType.
func (h IHDR) Channels() int {
	switch h.ColorType {
	case ColorGrayscale:
		return 1
	case ColorRGB:
		return 3
	case ColorIndexed:
		return 1
	case ColorGrayAlpha:
		return 2
	case ColorRGBA:
		return 4
	default:
		return 0
	}
}

// RGB is one PLTE palette entry.
type RGB struct{ R, G, B uint8 }

var pngSignature = [8]byte{137, 80, 78, 71, 13, 10, 26, 10}

// chunk is one raw chunk as read from the stream, with its CRC skipped
// (spec.md §6: "CRC bytes are read past but not verified").
type chunk struct {
	typ  [4]byte
	data []byte
}

// readChunks verifies the 8-byte signature and walks
// length:u32BE / type:[4]byte / data / crc:u32BE records until IEND.
func readChunks(data []byte) ([]chunk, error) {
	if len(data) < 8 {
		return nil, formatErrorf("file shorter than PNG signature")
	}
	if [8]byte(data[:8]) != pngSignature {
		return nil, formatErrorf("bad PNG signature")
	}

	var chunks []chunk
	pos := 8
	for {
		if pos+8 > len(data) {
			return nil, formatErrorf("truncated chunk header at offset %d", pos)
		}
		length := int(binary.BigEndian.Uint32(data[pos:]))
		var typ [4]byte
		copy(typ[:], data[pos+4:pos+8])
		pos += 8

		if length < 0 || pos+length > len(data) {
			return nil, formatErrorf("chunk %q overruns file", typ)
		}
		body := data[pos : pos+length]
		pos += length

		if pos+4 > len(data) {
			return nil, formatErrorf("truncated CRC for chunk %q", typ)
		}
		pos += 4 // CRC, read past but not verified

		chunks = append(chunks, chunk{typ: typ, data: body})
		if string(typ[:]) == "IEND" {
			break
		}
	}
	return chunks, nil
}

func parseIHDR(data []byte) (IHDR, error) {
	if len(data) != 13 {
		return IHDR{}, formatErrorf("IHDR length %d, want 13", len(data))
	}
	h := IHDR{
		Width:     int(binary.BigEndian.Uint32(data[0:4])),
		Height:    int(binary.BigEndian.Uint32(data[4:8])),
		BitDepth:  data[8],
		ColorType: ColorType(data[9]),
		Interlace: Interlace(data[12]),
	}
	compression := data[10]
	filter := data[11]
	if compression != 0 {
		return IHDR{}, unsupportedf("compression method %d", compression)
	}
	if filter != 0 {
		return IHDR{}, unsupportedf("filter method %d", filter)
	}
	if h.Width <= 0 || h.Height <= 0 {
		return IHDR{}, formatErrorf("non-positive dimensions %dx%d", h.Width, h.Height)
	}
	return h, nil
}

func parsePLTE(data []byte) ([]RGB, error) {
	if len(data)%3 != 0 {
		return nil, formatErrorf("PLTE length %d not a multiple of 3", len(data))
	}
	palette := make([]RGB, len(data)/3)
	for i := range palette {
		palette[i] = RGB{R: data[i*3], G: data[i*3+1], B: data[i*3+2]}
	}
	return palette, nil
}
