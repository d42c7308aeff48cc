// seehuhn.de/go/raster - a 2D rendering library
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package imgraster

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// makePNG encodes an image.Image with the standard library encoder, so
// the fixture is a byte-for-byte realistic PNG rather than a hand-rolled
// approximation -- exercising the same chunk/Deflate/filter pipeline a
// PNG written by any real encoder would.
func makePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding fixture PNG: %v", err)
	}
	return buf.Bytes()
}

func TestRenderS1PNGRGBA2x2(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 0xFF, A: 0xFF})
	img.Set(1, 0, color.NRGBA{G: 0xFF, A: 0xFF})
	img.Set(0, 1, color.NRGBA{B: 0xFF, A: 0xFF})
	img.Set(1, 1, color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})

	got, err := Render(makePNG(t, img), 2, 2)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := []uint32{0xFFFF0000, 0xFF00FF00, 0xFF0000FF, 0xFFFFFFFF}
	if !equalPixels(got, want) {
		t.Errorf("got %#08x, want %#08x", got, want)
	}
}

func TestRenderS2SolidFillRect(t *testing.T) {
	svg := []byte(`<svg viewBox="0 0 10 10"><rect width="10" height="10" fill="#0000ff"/></svg>`)
	got, err := Render(svg, 4, 4)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(got) != 16 {
		t.Fatalf("got %d pixels, want 16", len(got))
	}
	for i, px := range got {
		if px != 0xFF0000FF {
			t.Errorf("pixel %d: got %#08x, want 0xFF0000FF", i, px)
		}
	}
}

func TestRenderS3PathFill(t *testing.T) {
	svg := []byte(`<svg viewBox="0 0 2 2"><path d="M0 0 L2 0 L2 2 L0 2 Z" fill="red"/></svg>`)
	got, err := Render(svg, 2, 2)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := []uint32{0xFFFF0000, 0xFFFF0000, 0xFFFF0000, 0xFFFF0000}
	if !equalPixels(got, want) {
		t.Errorf("got %#08x, want %#08x", got, want)
	}
}

func TestRenderS4TGARLE(t *testing.T) {
	header := make([]byte, 18)
	header[2] = 10 // RLE true-colour
	header[12], header[13] = 2, 0 // width = 2
	header[14], header[15] = 1, 0 // height = 1
	header[16] = 24               // bpp
	header[17] = 1 << 5           // top-left origin

	data := append(header, 0x81, 0xFF, 0x00, 0x00) // run of 2 blue pixels (BGR)

	got, err := Render(data, 2, 1)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := []uint32{0xFF0000FF, 0xFF0000FF}
	if !equalPixels(got, want) {
		t.Errorf("got %#08x, want %#08x", got, want)
	}
}

func TestRenderS5LinearGradientMonotone(t *testing.T) {
	svg := []byte(`<svg viewBox="0 0 10 10"><defs><linearGradient id="g" x1="0" y1="0" x2="1" y2="0">` +
		`<stop offset="0" stop-color="black"/><stop offset="1" stop-color="white"/></linearGradient></defs>` +
		`<rect width="10" height="10" fill="url(#g)"/></svg>`)
	got, err := Render(svg, 10, 1)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("got %d pixels, want 10", len(got))
	}
	// Endpoints are sampled at pixel centres (0.5 and 9.5 of a 0..10
	// gradient span), so they approach but needn't exactly hit the
	// stop colours; require them to be within one tenth of full scale.
	const tol = 0x19
	if a := got[0] >> 24; a != 0xFF {
		t.Errorf("leftmost pixel: alpha = %#02x, want fully opaque", a)
	}
	if r, g, b := channels(got[0]); r > tol || g > tol || b > tol {
		t.Errorf("leftmost pixel: got %#08x, want near black", got[0])
	}
	if r, g, b := channels(got[9]); r < 0xFF-tol || g < 0xFF-tol || b < 0xFF-tol {
		t.Errorf("rightmost pixel: got %#08x, want near white", got[9])
	}
	for i := 1; i < len(got); i++ {
		prevR, prevG, prevB := channels(got[i-1])
		curR, curG, curB := channels(got[i])
		if curR < prevR || curG < prevG || curB < prevB {
			t.Errorf("pixel %d is not monotonically non-decreasing from pixel %d: %#08x -> %#08x", i, i-1, got[i-1], got[i])
		}
	}
}

func TestRenderS6SingleFilterByte(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.NRGBA{R: 0xAA, G: 0xBB, B: 0xCC, A: 0xFF})

	got, err := Render(makePNG(t, img), 1, 1)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := []uint32{0xFFAABBCC}
	if !equalPixels(got, want) {
		t.Errorf("got %#08x, want %#08x", got, want)
	}
}

func TestRenderOutputLength(t *testing.T) {
	svg := []byte(`<svg viewBox="0 0 2 2"><rect width="2" height="2" fill="red"/></svg>`)
	for _, size := range []struct{ w, h int }{{1, 1}, {3, 5}, {7, 2}} {
		got, err := Render(svg, size.w, size.h)
		if err != nil {
			t.Fatalf("Render(%dx%d): %v", size.w, size.h, err)
		}
		if len(got) != size.w*size.h {
			t.Errorf("Render(%dx%d): got %d pixels, want %d", size.w, size.h, len(got), size.w*size.h)
		}
	}
}

func TestRenderInvalidOutputSize(t *testing.T) {
	svg := []byte(`<svg viewBox="0 0 2 2"><rect width="2" height="2" fill="red"/></svg>`)
	for _, size := range []struct{ w, h int }{{0, 1}, {1, 0}, {-1, 1}} {
		if _, err := Render(svg, size.w, size.h); err == nil {
			t.Errorf("Render(%d,%d): expected error, got nil", size.w, size.h)
		}
	}
}

func TestRenderMalformedSVGDoesNotFail(t *testing.T) {
	// Unknown element and an unresolved gradient reference: recovered
	// locally per spec.md §7, never surfaced as an error.
	svg := []byte(`<svg viewBox="0 0 2 2"><bogus/><rect width="2" height="2" fill="url(#missing)"/></svg>`)
	got, err := Render(svg, 2, 2)
	if err != nil {
		t.Fatalf("Render: unexpected error %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("got %d pixels, want 4", len(got))
	}
}

func TestRenderDegenerateRectDrawsNothing(t *testing.T) {
	svg := []byte(`<svg viewBox="0 0 2 2"><rect width="0" height="2" fill="red"/></svg>`)
	got, err := Render(svg, 2, 2)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for i, px := range got {
		if px != 0 {
			t.Errorf("pixel %d: got %#08x, want transparent (0)", i, px)
		}
	}
}

// TestRenderGroupFillInherits is spec.md §4.2's inheritance requirement:
// a fill set on a <g> ancestor applies to a child that sets no fill of
// its own, the same way a real SVG renderer's CSS-style cascade would.
func TestRenderGroupFillInherits(t *testing.T) {
	svg := []byte(`<svg viewBox="0 0 2 2"><g fill="#0000ff"><rect width="2" height="2"/></g></svg>`)
	got, err := Render(svg, 2, 2)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := []uint32{0xFF0000FF, 0xFF0000FF, 0xFF0000FF, 0xFF0000FF}
	if !equalPixels(got, want) {
		t.Errorf("got %#08x, want %#08x", got, want)
	}
}

// TestRenderChildOverridesInheritedFill checks that a child's own fill
// still wins over an inherited ancestor value.
func TestRenderChildOverridesInheritedFill(t *testing.T) {
	svg := []byte(`<svg viewBox="0 0 2 2"><g fill="#0000ff"><rect width="2" height="2" fill="#ff0000"/></g></svg>`)
	got, err := Render(svg, 2, 2)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := []uint32{0xFFFF0000, 0xFFFF0000, 0xFFFF0000, 0xFFFF0000}
	if !equalPixels(got, want) {
		t.Errorf("got %#08x, want %#08x", got, want)
	}
}

// TestRenderNestedGroupInheritsThroughTwoLevels checks that inheritance
// propagates past an intermediate <g> that sets no style of its own.
func TestRenderNestedGroupInheritsThroughTwoLevels(t *testing.T) {
	svg := []byte(`<svg viewBox="0 0 2 2"><g fill="#00ff00"><g><rect width="2" height="2"/></g></g></svg>`)
	got, err := Render(svg, 2, 2)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := []uint32{0xFF00FF00, 0xFF00FF00, 0xFF00FF00, 0xFF00FF00}
	if !equalPixels(got, want) {
		t.Errorf("got %#08x, want %#08x", got, want)
	}
}

func TestDetect(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	pngBytes := makePNG(t, img)

	tgaHeader := make([]byte, 18)
	tgaHeader[2] = 2 // uncompressed true-colour
	tgaHeader[12], tgaHeader[13] = 1, 0
	tgaHeader[14], tgaHeader[15] = 1, 0
	tgaHeader[16] = 24
	tga := append(tgaHeader, 0, 0, 0)

	cases := []struct {
		name string
		data []byte
		want Format
	}{
		{"png", pngBytes, Png},
		{"tga-v1", tga, Tga},
		{"svg-tag", []byte(`<svg viewBox="0 0 1 1"></svg>`), Svg},
		{"svg-prolog", []byte("<?xml version=\"1.0\"?><svg></svg>"), Svg},
		{"unknown", []byte{0x01, 0x02, 0x03, 0x04}, Unknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Detect(tc.data); got != tc.want {
				t.Errorf("Detect(%s): got %v, want %v", tc.name, got, tc.want)
			}
		})
	}
}

func equalPixels(got, want []uint32) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func channels(px uint32) (r, g, b uint32) {
	return (px >> 16) & 0xFF, (px >> 8) & 0xFF, px & 0xFF
}
