package svgtree

import (
	"sort"
	"strings"

	"github.com/nrasterio/imgraster/internal/paint"
	"github.com/nrasterio/imgraster/internal/xmltree"
)

// resolvePaint resolves a fill/stroke style value: "none", a solid
// colour, or a url(#id) reference to a gradient def (spec.md §4.7). attr
// is looked up in style, which already reflects inheritance from any
// ancestor element (walk.go's inheritStyle).
func (ctx *Context) resolvePaint(style map[string]string, attr, def string) paint.Paint {
	v := styleVal(style, attr, def)
	v = strings.TrimSpace(v)
	if v == "" || v == "none" {
		return paint.None()
	}
	if id, ok := urlID(v); ok {
		return ctx.resolvePaintRef(id)
	}
	return paint.Solid(paint.ParseColor(v))
}

func (ctx *Context) resolvePaintRef(id string) paint.Paint {
	def, ok := ctx.Defs[id]
	if !ok {
		return paint.None()
	}
	switch def.Name {
	case "linearGradient":
		return paint.Linear(buildLinearGradient(def))
	case "radialGradient":
		return paint.Radial(buildRadialGradient(def))
	default:
		return paint.None()
	}
}

func gradientUnits(el *xmltree.Element) paint.Units {
	if el.AttrOr("gradientUnits", "objectBoundingBox") == "userSpaceOnUse" {
		return paint.UserSpaceOnUse
	}
	return paint.ObjectBoundingBox
}

func buildLinearGradient(el *xmltree.Element) *paint.LinearGradient {
	return &paint.LinearGradient{
		X1:    parseLength(el.AttrOr("x1", "0"), 0, 1),
		Y1:    parseLength(el.AttrOr("y1", "0"), 0, 1),
		X2:    parseLength(el.AttrOr("x2", "1"), 1, 1),
		Y2:    parseLength(el.AttrOr("y2", "0"), 0, 1),
		Stops: collectStops(el),
		Units: gradientUnits(el),
	}
}

func buildRadialGradient(el *xmltree.Element) *paint.RadialGradient {
	cx := parseLength(el.AttrOr("cx", "0.5"), 0.5, 1)
	cy := parseLength(el.AttrOr("cy", "0.5"), 0.5, 1)
	r := parseLength(el.AttrOr("r", "0.5"), 0.5, 1)
	fx := cx
	fy := cy
	if v, ok := el.Attr("fx"); ok {
		fx = parseLength(v, cx, 1)
	}
	if v, ok := el.Attr("fy"); ok {
		fy = parseLength(v, cy, 1)
	}
	return &paint.RadialGradient{
		CX: cx, CY: cy, R: r, FX: fx, FY: fy,
		Stops: collectStops(el),
		Units: gradientUnits(el),
	}
}

func collectStops(el *xmltree.Element) []paint.Stop {
	var stops []paint.Stop
	for _, child := range el.Children {
		if child.Name != "stop" {
			continue
		}
		offset := parseLength(child.AttrOr("offset", "0"), 0, 1)
		color := uint32(0xFF000000)
		if c, ok := child.Attr("stop-color"); ok {
			color = paint.ParseColor(c)
		}
		if op, ok := child.Attr("stop-opacity"); ok {
			opacity := parseFloatAttr(op, 1)
			a := float64(color>>24&0xFF) * opacity
			color = (color &^ 0xFF000000) | uint32(clamp255(a))<<24
		}
		stops = append(stops, paint.Stop{Offset: offset, Color: color})
	}
	sort.Slice(stops, func(i, j int) bool { return stops[i].Offset < stops[j].Offset })
	return stops
}

func clamp255(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
