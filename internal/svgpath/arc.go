package svgpath

import "math"

// ExpandArc converts one elliptical-arc command, given the current point,
// into a sequence of cubic Bézier commands following the standard
// endpoint-to-centre parameterisation (spec.md §4.3 / SVG Implementation
// Notes F.6). The final emitted endpoint is forced exactly to (x1,y1) to
// avoid accumulated floating-point drift across the subdivided pieces.
func ExpandArc(x0, y0 float64, a Command) []Command {
	x1, y1 := a.X, a.Y
	rx, ry := math.Abs(a.RX), math.Abs(a.RY)

	if rx == 0 || ry == 0 || (x0 == x1 && y0 == y1) {
		return []Command{{Kind: LineTo, X: x1, Y: y1}}
	}

	phi := a.XRot * math.Pi / 180
	sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)

	// Step 1: compute (x1', y1'), the midpoint-frame coordinates.
	dx2 := (x0 - x1) / 2
	dy2 := (y0 - y1) / 2
	x1p := cosPhi*dx2 + sinPhi*dy2
	y1p := -sinPhi*dx2 + cosPhi*dy2

	// Scale up radii if they can't span the chord.
	lambda := (x1p*x1p)/(rx*rx) + (y1p*y1p)/(ry*ry)
	if lambda > 1 {
		s := math.Sqrt(lambda)
		rx *= s
		ry *= s
	}

	// Step 2: compute (cx', cy').
	rxSq, rySq := rx*rx, ry*ry
	x1pSq, y1pSq := x1p*x1p, y1p*y1p
	num := rxSq*rySq - rxSq*y1pSq - rySq*x1pSq
	den := rxSq*y1pSq + rySq*x1pSq
	co := 0.0
	if den > 0 {
		co = math.Sqrt(math.Max(0, num/den))
	}
	if a.LargeArc == a.Sweep {
		co = -co
	}
	cxp := co * (rx * y1p / ry)
	cyp := co * -(ry * x1p / rx)

	// Step 3: compute (cx, cy) from (cx', cy').
	cx := cosPhi*cxp - sinPhi*cyp + (x0+x1)/2
	cy := sinPhi*cxp + cosPhi*cyp + (y0+y1)/2

	// Step 4: compute theta1 and delta-theta.
	theta1 := angleBetween(1, 0, (x1p-cxp)/rx, (y1p-cyp)/ry)
	dtheta := angleBetween((x1p-cxp)/rx, (y1p-cyp)/ry, (-x1p-cxp)/rx, (-y1p-cyp)/ry)
	if !a.Sweep && dtheta > 0 {
		dtheta -= 2 * math.Pi
	} else if a.Sweep && dtheta < 0 {
		dtheta += 2 * math.Pi
	}

	// Subdivide into pieces of at most pi/2 each.
	numSegs := int(math.Ceil(math.Abs(dtheta) / (math.Pi / 2)))
	if numSegs < 1 {
		numSegs = 1
	}
	segDelta := dtheta / float64(numSegs)

	out := make([]Command, 0, numSegs)
	theta := theta1
	for i := 0; i < numSegs; i++ {
		out = append(out, arcSegmentToCubic(cx, cy, rx, ry, phi, theta, segDelta))
		theta += segDelta
	}

	// Force the last endpoint to be exact.
	out[len(out)-1].X = x1
	out[len(out)-1].Y = y1
	return out
}

// arcSegmentToCubic approximates one elliptical-arc piece (at most pi/2
// of sweep) with a single cubic Bézier, using the standard
// alpha = (4/3)*tan(delta/4) control-point offset.
func arcSegmentToCubic(cx, cy, rx, ry, phi, theta1, delta float64) Command {
	theta2 := theta1 + delta
	alpha := 4.0 / 3.0 * math.Tan(delta/4)

	p1x, p1y := ellipsePoint(cx, cy, rx, ry, phi, theta1)
	p2x, p2y := ellipsePoint(cx, cy, rx, ry, phi, theta2)

	d1x, d1y := ellipseTangent(rx, ry, phi, theta1)
	d2x, d2y := ellipseTangent(rx, ry, phi, theta2)

	c1x := p1x + alpha*d1x
	c1y := p1y + alpha*d1y
	c2x := p2x - alpha*d2x
	c2y := p2y - alpha*d2y

	return Command{Kind: CubicTo, C1X: c1x, C1Y: c1y, C2X: c2x, C2Y: c2y, X: p2x, Y: p2y}
}

func ellipsePoint(cx, cy, rx, ry, phi, theta float64) (float64, float64) {
	sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)
	x := rx * math.Cos(theta)
	y := ry * math.Sin(theta)
	return cx + cosPhi*x - sinPhi*y, cy + sinPhi*x + cosPhi*y
}

func ellipseTangent(rx, ry, phi, theta float64) (float64, float64) {
	sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)
	dx := -rx * math.Sin(theta)
	dy := ry * math.Cos(theta)
	return cosPhi*dx - sinPhi*dy, sinPhi*dx + cosPhi*dy
}

// angleBetween returns the signed angle from vector (ux,uy) to (vx,vy).
func angleBetween(ux, uy, vx, vy float64) float64 {
	dot := ux*vx + uy*vy
	lenProd := math.Hypot(ux, uy) * math.Hypot(vx, vy)
	if lenProd == 0 {
		return 0
	}
	cosA := dot / lenProd
	cosA = math.Max(-1, math.Min(1, cosA))
	angle := math.Acos(cosA)
	if ux*vy-uy*vx < 0 {
		angle = -angle
	}
	return angle
}
