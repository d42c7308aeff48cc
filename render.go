// Package imgraster is a self-contained 2D raster image engine: given a
// byte stream whose format is auto-detected (SVG, PNG, or TGA), it
// produces an ARGB pixel buffer at a requested output resolution
// (spec.md §1/§6).
package imgraster

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/nrasterio/imgraster/internal/pngfmt"
	"github.com/nrasterio/imgraster/internal/resample"
	"github.com/nrasterio/imgraster/internal/svgtree"
	"github.com/nrasterio/imgraster/internal/tgafmt"
	"github.com/nrasterio/imgraster/internal/xmltree"
)

// Format identifies the auto-detected input container (spec.md §6).
type Format int

const (
	Unknown Format = iota
	Svg
	Png
	Tga
)

var pngSignature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

const tgaV2Footer = "TRUEVISION-XFILE"

// Detect classifies data by magic bytes / XML heuristic (spec.md §6). It
// never fails: unrecognised input classifies as Unknown.
func Detect(data []byte) Format {
	if len(data) >= 8 && bytes.Equal(data[:8], pngSignature) {
		return Png
	}
	if len(data) >= 26 {
		footer := data[len(data)-26:]
		if bytes.HasPrefix(footer, []byte(tgaV2Footer)) {
			return Tga
		}
	}
	if len(data) >= 3 && isTgaV1Header(data) {
		return Tga
	}
	if looksLikeSVG(data) {
		return Svg
	}
	return Unknown
}

func isTgaV1Header(data []byte) bool {
	switch data[1] {
	case 0, 1:
	default:
		return false
	}
	switch data[2] {
	case 2, 3, 10, 11:
		return true
	default:
		return false
	}
}

func looksLikeSVG(data []byte) bool {
	n := len(data)
	if n > 4096 {
		n = 4096
	}
	head := data[:n]
	if !isValidUTF8Prefix(head) {
		return false
	}
	trimmed := bytes.TrimLeft(head, " \t\r\n")
	if bytes.HasPrefix(trimmed, []byte("<?xml")) {
		return true
	}
	return bytes.Contains(head, []byte("<svg"))
}

// isValidUTF8Prefix tolerates a multi-byte sequence truncated at the very
// end of the 4 KiB peek window, which is not malformed input.
func isValidUTF8Prefix(b []byte) bool {
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size <= 1 && len(b) >= utf8.UTFMax {
			return false
		}
		if r == utf8.RuneError && size <= 1 {
			break
		}
		b = b[size:]
	}
	return true
}

// Render detects data's format, decodes it, and resamples the result to
// width x height, returning a row-major ARGB buffer (spec.md §6).
// Decode failures are reported; rasterization itself never fails
// (spec.md §7) so an SVG with malformed elements still produces output.
func Render(data []byte, width, height int) ([]uint32, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("imgraster: invalid output size %dx%d", width, height)
	}

	switch Detect(data) {
	case Png:
		img, err := pngfmt.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("imgraster: png: %w", err)
		}
		return resample.Bilinear(img.Pixels, img.Width, img.Height, width, height), nil

	case Tga:
		img, err := tgafmt.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("imgraster: tga: %w", err)
		}
		return resample.Bilinear(img.Pixels, img.Width, img.Height, width, height), nil

	case Svg:
		return renderSVG(data, width, height)

	default:
		return nil, fmt.Errorf("imgraster: unrecognised input format")
	}
}

func renderSVG(data []byte, width, height int) ([]uint32, error) {
	root, err := xmltree.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("imgraster: svg: %w", err)
	}

	ctx := svgtree.NewContext(root, width, height)
	ctm := svgtree.RootTransform(root, width, height)

	ctx.Draw(root, ctm, nil, nil)

	return ctx.Canvas.Pixels, nil
}
