// Package tgafmt decodes uncompressed and RLE-compressed true-colour TGA
// images into a native ARGB buffer (spec.md §4.11, §6).
package tgafmt

import (
	"encoding/binary"
	"fmt"
)

// ImageType is the TGA header's image-type byte.
type ImageType uint8

const (
	TypeNoData        ImageType = 0
	TypeColorMapped    ImageType = 1
	TypeTrueColor      ImageType = 2
	TypeGrayscale      ImageType = 3
	TypeRLEColorMapped ImageType = 9
	TypeRLETrueColor   ImageType = 10
	TypeRLEGrayscale   ImageType = 11
)

// FormatError reports a malformed or truncated TGA header/payload.
type FormatError struct{ msg string }

func (e *FormatError) Error() string { return "tga: " + e.msg }

// UnsupportedFeatureError reports an image type or pixel depth outside
// the supported set (true-colour 24/32bpp, plain or RLE).
type UnsupportedFeatureError struct{ msg string }

func (e *UnsupportedFeatureError) Error() string { return "tga: unsupported: " + e.msg }

// header is the 18-byte TGA header.
type header struct {
	idLength      uint8
	colorMapType  uint8
	imageType     ImageType
	colorMapLen   uint16
	colorMapDepth uint8
	width, height int
	pixelDepth    uint8
	descriptor    uint8
}

func (h header) topLeftOrigin() bool { return h.descriptor&0x20 != 0 }

func parseHeader(data []byte) (header, error) {
	if len(data) < 18 {
		return header{}, &FormatError{msg: "file shorter than 18-byte header"}
	}
	h := header{
		idLength:      data[0],
		colorMapType:  data[1],
		imageType:     ImageType(data[2]),
		colorMapLen:   binary.LittleEndian.Uint16(data[5:7]),
		colorMapDepth: data[7],
		width:         int(binary.LittleEndian.Uint16(data[12:14])),
		height:        int(binary.LittleEndian.Uint16(data[14:16])),
		pixelDepth:    data[16],
		descriptor:    data[17],
	}
	return h, nil
}

// Image is a decoded TGA at its native resolution, ARGB row-major,
// top-left origin (re-oriented during decode per the descriptor bit).
type Image struct {
	Width, Height int
	Pixels        []uint32
}

// Decode parses data as a TGA (v1 header or v2-with-footer) file.
func Decode(data []byte) (*Image, error) {
	h, err := parseHeader(data)
	if err != nil {
		return nil, err
	}

	offset := 18 + int(h.idLength)
	if h.colorMapType == 1 {
		entrySize := (int(h.colorMapDepth) + 7) / 8
		offset += int(h.colorMapLen) * entrySize
	}
	if offset > len(data) {
		return nil, &FormatError{msg: "id/colormap fields overrun file"}
	}
	pixelData := data[offset:]

	bpp := int(h.pixelDepth) / 8
	if bpp != 3 && bpp != 4 {
		return nil, &UnsupportedFeatureError{msg: fmt.Sprintf("pixel depth %d", h.pixelDepth)}
	}

	var pixels []uint32
	switch h.imageType {
	case TypeTrueColor:
		pixels, err = decodeUncompressed(pixelData, h, bpp)
	case TypeRLETrueColor:
		pixels, err = decodeRLE(pixelData, h, bpp)
	default:
		return nil, &UnsupportedFeatureError{msg: fmt.Sprintf("image type %d", h.imageType)}
	}
	if err != nil {
		return nil, err
	}

	return &Image{Width: h.width, Height: h.height, Pixels: pixels}, nil
}

func decodeUncompressed(data []byte, h header, bpp int) ([]uint32, error) {
	w, ht := h.width, h.height
	need := w * ht * bpp
	if len(data) < need {
		return nil, &FormatError{msg: "not enough pixel data"}
	}
	topLeft := h.topLeftOrigin()
	out := make([]uint32, w*ht)

	for y := 0; y < ht; y++ {
		targetY := y
		if !topLeft {
			targetY = ht - 1 - y
		}
		for x := 0; x < w; x++ {
			i := (y*w + x) * bpp
			out[targetY*w+x] = decodePixel(data[i:], bpp)
		}
	}
	return out, nil
}

func decodeRLE(data []byte, h header, bpp int) ([]uint32, error) {
	w, ht := h.width, h.height
	topLeft := h.topLeftOrigin()
	out := make([]uint32, w*ht)
	total := w * ht

	pos := 0
	idx := 0
	for idx < total {
		if pos >= len(data) {
			return nil, &FormatError{msg: "unexpected EOF in RLE stream"}
		}
		packet := data[pos]
		pos++
		count := int(packet&0x7f) + 1
		isRLE := packet&0x80 != 0

		if isRLE {
			if pos+bpp > len(data) {
				return nil, &FormatError{msg: "EOF reading RLE pixel"}
			}
			color := decodePixel(data[pos:], bpp)
			pos += bpp
			for i := 0; i < count && idx < total; i++ {
				x, y := idx%w, idx/w
				targetY := y
				if !topLeft {
					targetY = ht - 1 - y
				}
				out[targetY*w+x] = color
				idx++
			}
		} else {
			if pos+count*bpp > len(data) {
				return nil, &FormatError{msg: "EOF reading raw RLE packet"}
			}
			for i := 0; i < count && idx < total; i++ {
				color := decodePixel(data[pos:], bpp)
				pos += bpp
				x, y := idx%w, idx/w
				targetY := y
				if !topLeft {
					targetY = ht - 1 - y
				}
				out[targetY*w+x] = color
				idx++
			}
		}
	}
	return out, nil
}

// decodePixel converts a BGR or BGRA disk pixel to native ARGB.
func decodePixel(data []byte, bpp int) uint32 {
	switch bpp {
	case 3:
		b, g, r := data[0], data[1], data[2]
		return 0xFF000000 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
	case 4:
		b, g, r, a := data[0], data[1], data[2], data[3]
		return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
	default:
		return 0xFF000000
	}
}
