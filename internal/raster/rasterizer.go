// Package raster is the vector rasterization core: DDA scan conversion of
// flattened line segments into per-pixel coverage (spec.md §4.5), plus the
// stroke outliner (§4.6). It is a direct generalization of the teacher
// repo's edge-list + dual-buffer-strategy Rasterizer: the accumulation
// math (cover/area prefix sum, nonzero/even-odd integration, the small-vs-
// large path buffer split) is unchanged, retargeted from PDF content
// streams onto SVG shapes.
package raster

import (
	"cmp"
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// edge is a line segment in device coordinates, with its x-per-y slope
// precomputed for scanline intersection.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dxdy   float64
}

// FillRule selects how the accumulated signed coverage is folded into
// [0,1] (spec.md §4.5, §8 GLOSSARY "Non-zero winding rule").
type FillRule int

const (
	NonZero FillRule = iota
	EvenOdd
)

// Rasterizer converts flattened path geometry to per-pixel coverage
// values in [0,1]. Create one and reuse it across paths — its internal buffers grow
// but never shrink, so steady-state rendering allocates nothing.
//
// Not safe for concurrent use (spec.md §5: the engine is single-threaded).
type Rasterizer struct {
	// CTM maps user space to device space. Must be non-singular.
	CTM matrix.Matrix

	// Clip bounds emitted coverage to this device-coordinate rectangle.
	Clip rect.Rect

	// Flatness is the curve-flattening tolerance, in device pixels.
	Flatness float64

	smallPathThreshold int

	cover       []float32
	area        []float32
	edges       []edge
	activeIdx   []int
	rowHasEdges []bool

	edgeBBoxFirst bool
	edgeDevXMin   float64
	edgeDevXMax   float64
	edgeDevYMin   float64
	edgeDevYMax   float64
}

const (
	defaultFlatness         = 0.25
	horizontalEdgeThreshold = 1e-10
	smallPathThreshold      = 65536
)

// New returns a Rasterizer clipped to clip with the identity CTM and the
// default flattening tolerance.
func New(clip rect.Rect) *Rasterizer {
	return &Rasterizer{
		CTM:                matrix.Identity,
		Clip:               clip,
		Flatness:           defaultFlatness,
		smallPathThreshold: smallPathThreshold,
	}
}

func (r *Rasterizer) transformLinear(v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: r.CTM[0]*v.X + r.CTM[2]*v.Y,
		Y: r.CTM[1]*v.X + r.CTM[3]*v.Y,
	}
}

// flattenQuadratic flattens a quadratic Bézier in user space, emitting
// line segments via emit(from, to). The segment count is derived from the
// device-space deviation of the curve from its chord (spec.md §4.3).
func (r *Rasterizer) flattenQuadratic(p0, p1, p2 vec.Vec2, emit func(from, to vec.Vec2)) {
	e := p0.Sub(p1.Mul(2)).Add(p2).Mul(0.25)
	eDev := r.transformLinear(e)

	n := 1
	errDev := eDev.Length()
	if errDev > r.Flatness {
		n = int(math.Ceil(math.Sqrt(errDev / r.Flatness)))
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		omt := 1 - t
		pt := p0.Mul(omt * omt).Add(p1.Mul(2 * omt * t)).Add(p2.Mul(t * t))
		emit(prev, pt)
		prev = pt
	}
}

// flattenCubic flattens a cubic Bézier using Wang's formula for segment
// count, the same approach as flattenQuadratic generalized to two
// deviation vectors (spec.md §4.3).
func (r *Rasterizer) flattenCubic(p0, p1, p2, p3 vec.Vec2, emit func(from, to vec.Vec2)) {
	d1 := p0.Sub(p1.Mul(2)).Add(p2)
	d2 := p1.Sub(p2.Mul(2)).Add(p3)

	d1Dev := r.transformLinear(d1)
	d2Dev := r.transformLinear(d2)

	mDev := max(d1Dev.Length(), d2Dev.Length())
	n := 1
	if mDev > 0 {
		nFloat := math.Sqrt(3 * mDev / (4 * r.Flatness))
		if nFloat > 1 {
			n = int(math.Ceil(nFloat))
		}
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		omt := 1 - t
		omt2 := omt * omt
		omt3 := omt2 * omt
		t2 := t * t
		t3 := t2 * t
		pt := p0.Mul(omt3).Add(p1.Mul(3 * omt2 * t)).Add(p2.Mul(3 * omt * t2)).Add(p3.Mul(t3))
		emit(prev, pt)
		prev = pt
	}
}

// Fill scan-converts p and calls emit once per non-empty output row.
// emit's coverage slice is only valid during the call.
func (r *Rasterizer) Fill(p *path.Data, rule FillRule, emit func(y, xMin int, coverage []float32)) {
	xMin, xMax, yMin, yMax, ok := r.collectPathEdges(p)
	if !ok {
		return
	}
	r.dispatchFill(xMin, xMax, yMin, yMax, rule, emit)
}

// dispatchFill picks the small-vs-large path strategy once r.edges and its
// bounding box (already clamped to Clip) have been populated by either
// collectPathEdges (fill) or collectStrokeEdges (stroke).
func (r *Rasterizer) dispatchFill(xMin, xMax, yMin, yMax int, rule FillRule, emit func(y, xMin int, coverage []float32)) {
	width := xMax - xMin
	height := yMax - yMin
	if width*height < r.smallPathThreshold {
		r.fillSmallPath(xMin, xMax, yMin, yMax, rule, emit)
	} else {
		r.fillLargePath(xMin, xMax, yMin, yMax, rule, emit)
	}
}

// finishEdgeBBox clamps the accumulated device-space edge bounding box to
// Clip, returning ok=false when there is nothing to rasterize. Shared by
// collectPathEdges and collectStrokeEdges.
func (r *Rasterizer) finishEdgeBBox() (xMin, xMax, yMin, yMax int, ok bool) {
	if len(r.edges) == 0 {
		return 0, 0, 0, 0, false
	}

	clipXMin := int(r.Clip.LLx)
	clipXMax := int(r.Clip.URx)
	clipYMin := int(r.Clip.LLy)
	clipYMax := int(r.Clip.URy)

	xMin = max(int(math.Floor(r.edgeDevXMin)), clipXMin)
	xMax = min(int(math.Floor(r.edgeDevXMax))+1, clipXMax)
	yMin = max(int(math.Floor(r.edgeDevYMin)), clipYMin)
	yMax = min(int(math.Floor(r.edgeDevYMax))+1, clipYMax)

	if xMin >= xMax || yMin >= yMax {
		return 0, 0, 0, 0, false
	}
	return xMin, xMax, yMin, yMax, true
}

// collectPathEdges walks p, transforms each segment to device space
// (flattening curves on the way), and records the device-space bounding
// box clamped to Clip.
func (r *Rasterizer) collectPathEdges(p *path.Data) (xMin, xMax, yMin, yMax int, ok bool) {
	r.edges = r.edges[:0]
	r.edgeBBoxFirst = true

	var current, subpath vec.Vec2
	coordIdx := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			current = p.Coords[coordIdx]
			subpath = current
			coordIdx++

		case path.CmdLineTo:
			r.addEdge(current, p.Coords[coordIdx])
			current = p.Coords[coordIdx]
			coordIdx++

		case path.CmdQuadTo:
			r.flattenQuadratic(current, p.Coords[coordIdx], p.Coords[coordIdx+1], r.addEdge)
			current = p.Coords[coordIdx+1]
			coordIdx += 2

		case path.CmdCubeTo:
			r.flattenCubic(current, p.Coords[coordIdx], p.Coords[coordIdx+1], p.Coords[coordIdx+2], r.addEdge)
			current = p.Coords[coordIdx+2]
			coordIdx += 3

		case path.CmdClose:
			if current != subpath {
				r.addEdge(current, subpath)
			}
			current = subpath
		}
	}

	return r.finishEdgeBBox()
}

func (r *Rasterizer) addEdge(p0, p1 vec.Vec2) {
	dx0 := r.CTM[0]*p0.X + r.CTM[2]*p0.Y + r.CTM[4]
	dy0 := r.CTM[1]*p0.X + r.CTM[3]*p0.Y + r.CTM[5]
	dx1 := r.CTM[0]*p1.X + r.CTM[2]*p1.Y + r.CTM[4]
	dy1 := r.CTM[1]*p1.X + r.CTM[3]*p1.Y + r.CTM[5]

	dy := dy1 - dy0
	if dy > -horizontalEdgeThreshold && dy < horizontalEdgeThreshold {
		return // horizontal edges contribute no dy (spec.md §4.5)
	}

	r.edges = append(r.edges, edge{x0: dx0, y0: dy0, x1: dx1, y1: dy1, dxdy: (dx1 - dx0) / dy})

	if r.edgeBBoxFirst {
		r.edgeDevXMin, r.edgeDevXMax = min(dx0, dx1), max(dx0, dx1)
		r.edgeDevYMin, r.edgeDevYMax = min(dy0, dy1), max(dy0, dy1)
		r.edgeBBoxFirst = false
	} else {
		r.edgeDevXMin = min(r.edgeDevXMin, min(dx0, dx1))
		r.edgeDevXMax = max(r.edgeDevXMax, max(dx0, dx1))
		r.edgeDevYMin = min(r.edgeDevYMin, min(dy0, dy1))
		r.edgeDevYMax = max(r.edgeDevYMax, max(dy0, dy1))
	}
}

// addRawEdgeDevice records a device-space edge directly, bypassing CTM and
// flattening. Used by the stroke outliner, which already works in device
// space after offsetting a flattened centreline (strokepath.go).
func (r *Rasterizer) addRawEdgeDevice(x0, y0, x1, y1 float64) {
	dy := y1 - y0
	if dy > -horizontalEdgeThreshold && dy < horizontalEdgeThreshold {
		return
	}
	r.edges = append(r.edges, edge{x0: x0, y0: y0, x1: x1, y1: y1, dxdy: (x1 - x0) / dy})
	if r.edgeBBoxFirst {
		r.edgeDevXMin, r.edgeDevXMax = min(x0, x1), max(x0, x1)
		r.edgeDevYMin, r.edgeDevYMax = min(y0, y1), max(y0, y1)
		r.edgeBBoxFirst = false
	} else {
		r.edgeDevXMin = min(r.edgeDevXMin, min(x0, x1))
		r.edgeDevXMax = max(r.edgeDevXMax, max(x0, x1))
		r.edgeDevYMin = min(r.edgeDevYMin, min(y0, y1))
		r.edgeDevYMax = max(r.edgeDevYMax, max(y0, y1))
	}
}

// LastBBox returns the device-space bounding box of the edges collected by
// the most recent Fill or Stroke call, for callers that need a shape's
// extent to resolve ObjectBoundingBox-relative paint (spec.md §4.7).
func (r *Rasterizer) LastBBox() (x, y, w, h float64) {
	if len(r.edges) == 0 {
		return 0, 0, 0, 0
	}
	return r.edgeDevXMin, r.edgeDevYMin, r.edgeDevXMax - r.edgeDevXMin, r.edgeDevYMax - r.edgeDevYMin
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
