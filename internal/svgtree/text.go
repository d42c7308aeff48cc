package svgtree

import (
	"image"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"seehuhn.de/go/geom/matrix"

	"github.com/nrasterio/imgraster/internal/canvas"
	"github.com/nrasterio/imgraster/internal/paint"
	"github.com/nrasterio/imgraster/internal/xform"
	"github.com/nrasterio/imgraster/internal/xmltree"
)

// drawText renders <text>/<tspan> content as a coverage mask produced by
// golang.org/x/image/font's fixed-width bitmap face, rather than the
// TrueType-parser-and-vector-outline approach of the reference
// implementation (whose embedded font and Rust TTF parser have no
// in-corpus Go equivalent -- see DESIGN.md). The rendered glyph alpha
// buffer stands in for the reference's per-glyph fill/stroke line lists.
func (ctx *Context) drawText(el *xmltree.Element, ctm matrix.Matrix, mask []float32, style map[string]string) {
	text := strings.TrimSpace(el.Text)
	if text == "" {
		return
	}

	x := parseFloatAttr(el.AttrOr("x", "0"), 0)
	y := parseFloatAttr(el.AttrOr("y", "0"), 0)
	fontSize := parseFloatAttr(el.AttrOr("font-size", "16"), 16)

	face := basicfont.Face7x13
	nativeSize := 13.0
	glyphScale := fontSize / nativeSize

	w, h := ctx.Canvas.Width, ctx.Canvas.Height
	img := image.NewAlpha(image.Rect(0, 0, w, h))

	dx, dy := xform.Apply(ctm, x, y)
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(int(dx/glyphScale), int(dy/glyphScale)),
	}
	drawer.DrawString(text)

	alpha := img.Pix
	if glyphScale != 1 {
		alpha = resampleAlpha(alpha, w, h, glyphScale)
	}

	opacity := parseFloatAttr(styleVal(style, "opacity", "1"), 1)

	if _, hasStroke := style["stroke"]; hasStroke {
		strokeWidth := parseFloatAttr(styleVal(style, "stroke-width", "1"), 1)
		if strokeWidth > 0 {
			strokePaint := ctx.resolvePaint(style, "stroke", "none")
			strokeOpacity := parseFloatAttr(styleVal(style, "stroke-opacity", "1"), 1)
			dilated := dilateAlpha(alpha, w, h, int(strokeWidth/2+0.5))
			blendAlphaMask(ctx.Canvas, dilated, w, h, strokePaint, opacity*strokeOpacity, mask)
		}
	}

	fillPaint := ctx.resolvePaint(style, "fill", "#000000")
	fillOpacity := parseFloatAttr(styleVal(style, "fill-opacity", "1"), 1)
	blendAlphaMask(ctx.Canvas, alpha, w, h, fillPaint, opacity*fillOpacity, mask)
}

// resampleAlpha nearest-neighbour scales a fixed-size bitmap-font alpha
// buffer by factor, good enough for a coverage mask that is already a
// discrete approximation of a real glyph outline.
func resampleAlpha(src []byte, w, h int, factor float64) []byte {
	if factor <= 0 {
		return src
	}
	out := make([]byte, w*h)
	for y := 0; y < h; y++ {
		sy := int(float64(y) / factor)
		if sy < 0 || sy >= h {
			continue
		}
		for x := 0; x < w; x++ {
			sx := int(float64(x) / factor)
			if sx < 0 || sx >= w {
				continue
			}
			out[y*w+x] = src[sy*w+sx]
		}
	}
	return out
}

func dilateAlpha(src []byte, w, h, radius int) []byte {
	if radius <= 0 {
		out := make([]byte, len(src))
		copy(out, src)
		return out
	}
	out := make([]byte, len(src))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var best byte
			for dy := -radius; dy <= radius; dy++ {
				ny := y + dy
				if ny < 0 || ny >= h {
					continue
				}
				for dx := -radius; dx <= radius; dx++ {
					nx := x + dx
					if nx < 0 || nx >= w {
						continue
					}
					if v := src[ny*w+nx]; v > best {
						best = v
					}
				}
			}
			out[y*w+x] = best
		}
	}
	return out
}

func blendAlphaMask(cv *canvas.Canvas, alpha []byte, w, h int, p paint.Paint, opacity float64, mask []float32) {
	if p.IsNone() {
		return
	}
	bb := paint.BBox{X: 0, Y: 0, W: float64(w), H: float64(h)}
	srcs := make([]uint32, w)
	covs := make([]float32, w)
	for y := 0; y < h; y++ {
		rowStart := y * w
		any := false
		for x := 0; x < w; x++ {
			covs[x] = 0
			a := alpha[rowStart+x]
			if a == 0 {
				continue
			}
			cov := float64(a) / 255 * opacity
			if mask != nil {
				cov *= float64(mask[rowStart+x])
			}
			if cov <= 0 {
				continue
			}
			srcs[x] = p.At(float64(x)+0.5, float64(y)+0.5, bb)
			covs[x] = float32(cov)
			any = true
		}
		if any {
			cv.BlendRow(0, y, srcs, covs)
		}
	}
}
