package raster

import (
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// zeroLengthThreshold below this, a flattened segment is treated as
// degenerate and dropped (mirrors the teacher's stroke outliner).
const zeroLengthThreshold = 1e-9

// Stroke outlines p with the given user-space width and scan-converts the
// outline with the non-zero winding rule, calling emit once per non-empty
// output row. Only butt caps and bevel joins are supported (spec.md §4.6
// narrows the teacher's cap/join/dash generality to these two cases).
func (r *Rasterizer) Stroke(p *path.Data, width float64, emit func(y, xMin int, coverage []float32)) {
	xMin, xMax, yMin, yMax, ok := r.collectStrokeEdges(p, width)
	if !ok {
		return
	}
	r.dispatchFill(xMin, xMax, yMin, yMax, NonZero, emit)
}

// collectStrokeEdges flattens p into device-space polylines, offsets each
// one into a bevel-joined, butt-capped outline polygon, and records the
// outline's edges the same way collectPathEdges records a fill path's.
func (r *Rasterizer) collectStrokeEdges(p *path.Data, width float64) (xMin, xMax, yMin, yMax int, ok bool) {
	r.edges = r.edges[:0]
	r.edgeBBoxFirst = true

	halfWidth := width / 2

	for _, pts := range r.flattenSubpaths(p) {
		if len(pts.points) < 2 {
			continue
		}
		r.addStrokeOutline(pts.points, pts.closed, halfWidth)
	}

	return r.finishEdgeBBox()
}

// devicePolyline is a subpath already transformed to device space.
type devicePolyline struct {
	points []vec.Vec2
	closed bool
}

// flattenSubpaths walks p in user space, flattening curves via the same
// flattenQuadratic/flattenCubic the fill path uses, and transforms every
// resulting vertex to device space with the full affine CTM (translation
// included, unlike the linear-only transform fills use for curve error
// estimation).
func (r *Rasterizer) flattenSubpaths(p *path.Data) []devicePolyline {
	var out []devicePolyline
	var cur devicePolyline
	var current, subpathStart vec.Vec2
	inSubpath := false
	coordIdx := 0

	flushOpen := func() {
		if inSubpath && len(cur.points) > 1 {
			out = append(out, cur)
		}
		cur = devicePolyline{}
		inSubpath = false
	}

	emitLine := func(_, to vec.Vec2) {
		cur.points = append(cur.points, r.applyFull(to))
	}

	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			flushOpen()
			current = p.Coords[coordIdx]
			subpathStart = current
			coordIdx++
			cur = devicePolyline{points: []vec.Vec2{r.applyFull(current)}}
			inSubpath = true

		case path.CmdLineTo:
			if !inSubpath {
				continue
			}
			emitLine(current, p.Coords[coordIdx])
			current = p.Coords[coordIdx]
			coordIdx++

		case path.CmdQuadTo:
			if !inSubpath {
				continue
			}
			r.flattenQuadratic(current, p.Coords[coordIdx], p.Coords[coordIdx+1], emitLine)
			current = p.Coords[coordIdx+1]
			coordIdx += 2

		case path.CmdCubeTo:
			if !inSubpath {
				continue
			}
			r.flattenCubic(current, p.Coords[coordIdx], p.Coords[coordIdx+1], p.Coords[coordIdx+2], emitLine)
			current = p.Coords[coordIdx+2]
			coordIdx += 3

		case path.CmdClose:
			if !inSubpath {
				continue
			}
			if current != subpathStart {
				emitLine(current, subpathStart)
				current = subpathStart
			}
			cur.closed = true
			out = append(out, cur)
			cur = devicePolyline{}
			inSubpath = false
		}
	}
	flushOpen()

	return out
}

func (r *Rasterizer) applyFull(v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: r.CTM[0]*v.X + r.CTM[2]*v.Y + r.CTM[4],
		Y: r.CTM[1]*v.X + r.CTM[3]*v.Y + r.CTM[5],
	}
}

// addStrokeOutline offsets a device-space polyline into a single outline
// polygon and adds its edges. For each segment it offsets both endpoints
// by halfWidth along the segment's own normal, without averaging normals
// at shared vertices — concatenating the per-segment right-side points,
// followed by the per-segment left-side points in reverse, so the two
// offset copies of a shared vertex are connected by the outer bevel edge
// and the polygon's implicit closing edge forms the butt cap on each end.
// A closed subpath gets an extra wraparound segment instead of caps.
func (r *Rasterizer) addStrokeOutline(pts []vec.Vec2, closed bool, halfWidth float64) {
	n := len(pts)
	segCount := n - 1
	if closed {
		segCount = n
	}
	if segCount < 1 {
		return
	}

	right := make([]vec.Vec2, 0, 2*segCount)
	left := make([]vec.Vec2, 0, 2*segCount)

	for i := 0; i < segCount; i++ {
		a := pts[i]
		b := pts[(i+1)%n]
		dx := b.X - a.X
		dy := b.Y - a.Y
		length := math.Hypot(dx, dy)
		if length < zeroLengthThreshold {
			continue
		}
		nx := -dy / length * halfWidth
		ny := dx / length * halfWidth

		right = append(right, vec.Vec2{X: a.X - nx, Y: a.Y - ny}, vec.Vec2{X: b.X - nx, Y: b.Y - ny})
		left = append(left, vec.Vec2{X: a.X + nx, Y: a.Y + ny}, vec.Vec2{X: b.X + nx, Y: b.Y + ny})
	}
	if len(right) == 0 {
		return
	}

	// A single closed polygon: right-side points in order, then left-side
	// points in reverse. The polygon's implicit closing edge (last vertex
	// back to the first) supplies the butt cap on an open subpath, or the
	// final bevel on a closed one.
	poly := make([]vec.Vec2, 0, len(right)+len(left))
	poly = append(poly, right...)
	for i := len(left) - 1; i >= 0; i-- {
		poly = append(poly, left[i])
	}

	for i := range poly {
		a := poly[i]
		b := poly[(i+1)%len(poly)]
		r.addRawEdgeDevice(a.X, a.Y, b.X, b.Y)
	}
}
