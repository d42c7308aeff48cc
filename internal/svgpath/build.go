package svgpath

import (
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// Build expands any ArcTo commands to cubics and assembles the result
// into a seehuhn.de/go/geom/path.Data value, the type the ported
// rasterizer (internal/raster) consumes directly. Curve flattening
// itself happens later, inside the rasterizer's CTM-aware edge collector
// (spec.md §4.3's flattener and §4.5's scan converter share one pass).
func Build(cmds []Command) *path.Data {
	data := &path.Data{}
	var cur point

	for _, c := range cmds {
		switch c.Kind {
		case MoveTo:
			data = data.MoveTo(vec.Vec2{X: c.X, Y: c.Y})
			cur = point{c.X, c.Y}

		case LineTo:
			data = data.LineTo(vec.Vec2{X: c.X, Y: c.Y})
			cur = point{c.X, c.Y}

		case QuadTo:
			data = data.QuadTo(vec.Vec2{X: c.CX, Y: c.CY}, vec.Vec2{X: c.X, Y: c.Y})
			cur = point{c.X, c.Y}

		case CubicTo:
			data = data.CubeTo(vec.Vec2{X: c.C1X, Y: c.C1Y}, vec.Vec2{X: c.C2X, Y: c.C2Y}, vec.Vec2{X: c.X, Y: c.Y})
			cur = point{c.X, c.Y}

		case ArcTo:
			for _, piece := range ExpandArc(cur.x, cur.y, c) {
				switch piece.Kind {
				case LineTo:
					data = data.LineTo(vec.Vec2{X: piece.X, Y: piece.Y})
				case CubicTo:
					data = data.CubeTo(vec.Vec2{X: piece.C1X, Y: piece.C1Y}, vec.Vec2{X: piece.C2X, Y: piece.C2Y}, vec.Vec2{X: piece.X, Y: piece.Y})
				}
				cur = point{piece.X, piece.Y}
			}

		case Close:
			data = data.Close()
		}
	}

	return data
}

// BuildFromData is a convenience wrapper tokenizing and building in one
// step, as used by the rect/circle/ellipse shape renderers which
// construct their "d" strings programmatically (spec.md §4.10).
func BuildFromData(d string) *path.Data {
	return Build(Tokenize(d))
}
