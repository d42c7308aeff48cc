package paint

import "math"

// Units selects the coordinate space gradient geometry is expressed in.
type Units int

const (
	ObjectBoundingBox Units = iota
	UserSpaceOnUse
)

// Stop is one <stop> offset/colour pair, already sorted by offset.
type Stop struct {
	Offset float64
	Color  uint32
}

// BBox is the geometric bounding box a paint's ObjectBoundingBox
// coordinates are resolved against.
type BBox struct {
	X, Y, W, H float64
}

// Paint is a resolved fill or stroke paint: a solid colour, a gradient, or
// none. The zero value is None.
type Paint struct {
	kind     paintKind
	solid    uint32
	linear   *LinearGradient
	radial   *RadialGradient
}

type paintKind int

const (
	kindNone paintKind = iota
	kindSolid
	kindLinear
	kindRadial
)

func Solid(c uint32) Paint                 { return Paint{kind: kindSolid, solid: c} }
func Linear(g *LinearGradient) Paint       { return Paint{kind: kindLinear, linear: g} }
func Radial(g *RadialGradient) Paint       { return Paint{kind: kindRadial, radial: g} }
func None() Paint                          { return Paint{kind: kindNone} }
func (p Paint) IsNone() bool               { return p.kind == kindNone }

// At samples the paint at a user-space point, given the shape's bounding
// box for ObjectBoundingBox-relative gradients (spec.md §4.7).
func (p Paint) At(x, y float64, bb BBox) uint32 {
	switch p.kind {
	case kindSolid:
		return p.solid
	case kindLinear:
		return p.linear.Interpolate(x, y, bb)
	case kindRadial:
		return p.radial.Interpolate(x, y, bb)
	default:
		return 0x00000000
	}
}

// LinearGradient samples colour along the line (X1,Y1)-(X2,Y2), gradient
// spread clamped to the endpoints (pad only — Open Question resolved in
// DESIGN.md).
type LinearGradient struct {
	X1, Y1, X2, Y2 float64
	Stops          []Stop
	Units          Units
}

func (g *LinearGradient) Interpolate(x, y float64, bb BBox) uint32 {
	if len(g.Stops) == 0 {
		return 0x00000000
	}
	if len(g.Stops) == 1 {
		return g.Stops[0].Color
	}

	gx1, gy1, gx2, gy2 := g.X1, g.Y1, g.X2, g.Y2
	if g.Units == ObjectBoundingBox {
		gx1 = bb.X + g.X1*bb.W
		gy1 = bb.Y + g.Y1*bb.H
		gx2 = bb.X + g.X2*bb.W
		gy2 = bb.Y + g.Y2*bb.H
	}

	dx := gx2 - gx1
	dy := gy2 - gy1
	lenSq := dx*dx + dy*dy
	if lenSq < 1e-6 {
		return g.Stops[0].Color
	}

	px := x - gx1
	py := y - gy1
	t := (px*dx + py*dy) / lenSq
	t = clamp01(t)

	return sampleStops(g.Stops, t)
}

// RadialGradient samples colour by projecting the query point onto the
// line from the focal point through the centre circle.
type RadialGradient struct {
	CX, CY, R float64
	FX, FY    float64
	Stops     []Stop
	Units     Units
}

func (g *RadialGradient) Interpolate(x, y float64, bb BBox) uint32 {
	if len(g.Stops) == 0 {
		return 0x00000000
	}
	if len(g.Stops) == 1 {
		return g.Stops[0].Color
	}

	var t float64
	if g.Units == ObjectBoundingBox {
		nx, ny := x, y
		if bb.W > 1e-6 {
			nx = (x - bb.X) / bb.W
		}
		if bb.H > 1e-6 {
			ny = (y - bb.Y) / bb.H
		}
		t = radialT(nx, ny, g.CX, g.CY, g.R, g.FX, g.FY)
	} else {
		t = radialT(x, y, g.CX, g.CY, g.R, g.FX, g.FY)
	}

	t = clamp01(t)
	return sampleStops(g.Stops, t)
}

// radialT solves for the scaling factor t such that F + t*(C-F) describes
// a circle of radius R around C passing through the query point, per the
// standard two-point radial-gradient parameterisation.
func radialT(x, y, cx, cy, r, fx, fy float64) float64 {
	vx := cx - fx
	vy := cy - fy
	dx := x - fx
	dy := y - fy

	r2 := r * r
	vDotV := vx*vx + vy*vy
	dDotV := dx*vx + dy*vy
	dDotD := dx*dx + dy*dy

	a := vDotV - r2
	b := -2 * dDotV
	c := dDotD

	if math.Abs(a) < 1e-6 {
		if math.Abs(b) < 1e-6 {
			return 0
		}
		return -c / b
	}

	disc := b*b - 4*a*c
	if disc < 0 {
		return 0
	}
	sq := math.Sqrt(disc)
	t1 := (-b + sq) / (2 * a)
	t2 := (-b - sq) / (2 * a)
	return math.Max(t1, t2)
}

func sampleStops(stops []Stop, t float64) uint32 {
	if t <= stops[0].Offset {
		return stops[0].Color
	}
	last := stops[len(stops)-1]
	if t >= last.Offset {
		return last.Color
	}
	for i := 0; i < len(stops)-1; i++ {
		s1, s2 := stops[i], stops[i+1]
		if t >= s1.Offset && t <= s2.Offset {
			rng := s2.Offset - s1.Offset
			localT := 0.0
			if rng > 1e-6 {
				localT = (t - s1.Offset) / rng
			}
			return BlendColors(s1.Color, s2.Color, localT)
		}
	}
	return last.Color
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
