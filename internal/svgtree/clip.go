package svgtree

import (
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"

	"github.com/nrasterio/imgraster/internal/raster"
	"github.com/nrasterio/imgraster/internal/svgpath"
	"github.com/nrasterio/imgraster/internal/xmltree"
)

// intersectClipMask resolves a clip-path reference to a canvas-resolution
// coverage mask (the union of the clipPath's child shapes' fill coverage,
// spec.md §4.11), intersecting it with any mask already in effect from an
// enclosing clip-path. Returns parent unchanged if the reference does not
// resolve to a usable <clipPath>.
func (ctx *Context) intersectClipMask(parent []float32, clipID string, ctm matrix.Matrix) []float32 {
	def, ok := ctx.Defs[clipID]
	if !ok || def.Name != "clipPath" {
		return parent
	}

	w, h := ctx.Canvas.Width, ctx.Canvas.Height
	own := make([]float32, w*h)

	r := raster.New(rect.Rect{LLx: 0, LLy: 0, URx: float64(w), URy: float64(h)})
	r.CTM = ctm

	for _, child := range def.Children {
		p := clipChildPath(child)
		if p == nil {
			continue
		}
		r.Fill(p, raster.NonZero, func(y, xMin int, coverage []float32) {
			if y < 0 || y >= h {
				return
			}
			row := y * w
			for i, cov := range coverage {
				x := xMin + i
				if x < 0 || x >= w {
					continue
				}
				idx := row + x
				if cov > own[idx] {
					own[idx] = cov
				}
			}
		})
	}

	if parent == nil {
		return own
	}
	combined := make([]float32, w*h)
	for i := range combined {
		combined[i] = own[i] * parent[i]
	}
	return combined
}

func clipChildPath(el *xmltree.Element) *path.Data {
	switch el.Name {
	case "path":
		if d, ok := el.Attr("d"); ok {
			return svgpath.BuildFromData(d)
		}
	case "rect":
		x := parseFloatAttr(el.AttrOr("x", "0"), 0)
		y := parseFloatAttr(el.AttrOr("y", "0"), 0)
		w := parseFloatAttr(el.AttrOr("width", "0"), 0)
		h := parseFloatAttr(el.AttrOr("height", "0"), 0)
		_, hasRx := el.Attr("rx")
		_, hasRy := el.Attr("ry")
		rx := parseFloatAttr(el.AttrOr("rx", "0"), 0)
		ry := parseFloatAttr(el.AttrOr("ry", "0"), 0)
		if d := rectPath(x, y, w, h, rx, ry, hasRx, hasRy); d != "" {
			return svgpath.BuildFromData(d)
		}
	case "circle":
		cx := parseFloatAttr(el.AttrOr("cx", "0"), 0)
		cy := parseFloatAttr(el.AttrOr("cy", "0"), 0)
		rv := parseFloatAttr(el.AttrOr("r", "0"), 0)
		if d := ellipsePath(cx, cy, rv, rv); d != "" {
			return svgpath.BuildFromData(d)
		}
	}
	return nil
}
