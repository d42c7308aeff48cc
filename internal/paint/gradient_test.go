package paint

import "testing"

func TestLinearGradientEndpointColors(t *testing.T) {
	g := &LinearGradient{
		X1: 0, Y1: 0, X2: 10, Y2: 0,
		Units: UserSpaceOnUse,
		Stops: []Stop{{0, 0xFF000000}, {1, 0xFFFFFFFF}},
	}
	bb := BBox{}
	if got := g.Interpolate(0, 0, bb); got != 0xFF000000 {
		t.Errorf("at t=0: got %#08x, want 0xFF000000", got)
	}
	if got := g.Interpolate(10, 0, bb); got != 0xFFFFFFFF {
		t.Errorf("at t=1: got %#08x, want 0xFFFFFFFF", got)
	}
}

func TestLinearGradientClampsPastEndpoints(t *testing.T) {
	g := &LinearGradient{
		X1: 0, Y1: 0, X2: 10, Y2: 0,
		Units: UserSpaceOnUse,
		Stops: []Stop{{0, 0xFF000000}, {1, 0xFFFFFFFF}},
	}
	bb := BBox{}
	if got := g.Interpolate(-5, 0, bb); got != 0xFF000000 {
		t.Errorf("before start: got %#08x, want 0xFF000000 (clamped)", got)
	}
	if got := g.Interpolate(50, 0, bb); got != 0xFFFFFFFF {
		t.Errorf("past end: got %#08x, want 0xFFFFFFFF (clamped)", got)
	}
}

func TestLinearGradientObjectBoundingBoxUnits(t *testing.T) {
	g := &LinearGradient{
		X1: 0, Y1: 0, X2: 1, Y2: 0,
		Units: ObjectBoundingBox,
		Stops: []Stop{{0, 0xFF000000}, {1, 0xFFFFFFFF}},
	}
	bb := BBox{X: 100, Y: 100, W: 20, H: 20}
	if got := g.Interpolate(100, 110, bb); got != 0xFF000000 {
		t.Errorf("left edge: got %#08x, want 0xFF000000", got)
	}
	if got := g.Interpolate(120, 110, bb); got != 0xFFFFFFFF {
		t.Errorf("right edge: got %#08x, want 0xFFFFFFFF", got)
	}
}

func TestLinearGradientSingleStopIsSolid(t *testing.T) {
	g := &LinearGradient{X1: 0, Y1: 0, X2: 10, Y2: 0, Stops: []Stop{{0.5, 0xFF123456}}}
	if got := g.Interpolate(3, 0, BBox{}); got != 0xFF123456 {
		t.Errorf("got %#08x, want 0xFF123456", got)
	}
}

func TestLinearGradientDegenerateLineReturnsFirstStop(t *testing.T) {
	g := &LinearGradient{X1: 5, Y1: 5, X2: 5, Y2: 5, Stops: []Stop{{0, 0xFFAA0000}, {1, 0xFF00BB00}}}
	if got := g.Interpolate(5, 5, BBox{}); got != 0xFFAA0000 {
		t.Errorf("degenerate gradient vector: got %#08x, want first stop 0xFFAA0000", got)
	}
}

func TestRadialGradientCentreIsFirstStop(t *testing.T) {
	g := &RadialGradient{CX: 5, CY: 5, R: 5, FX: 5, FY: 5, Units: UserSpaceOnUse,
		Stops: []Stop{{0, 0xFFFF0000}, {1, 0xFF0000FF}}}
	if got := g.Interpolate(5, 5, BBox{}); got != 0xFFFF0000 {
		t.Errorf("centre: got %#08x, want 0xFFFF0000", got)
	}
}

func TestRadialGradientEdgeIsLastStop(t *testing.T) {
	g := &RadialGradient{CX: 5, CY: 5, R: 5, FX: 5, FY: 5, Units: UserSpaceOnUse,
		Stops: []Stop{{0, 0xFFFF0000}, {1, 0xFF0000FF}}}
	if got := g.Interpolate(10, 5, BBox{}); got != 0xFF0000FF {
		t.Errorf("edge: got %#08x, want 0xFF0000FF", got)
	}
}

func TestRadialGradientBeyondEdgeClamps(t *testing.T) {
	g := &RadialGradient{CX: 5, CY: 5, R: 5, FX: 5, FY: 5, Units: UserSpaceOnUse,
		Stops: []Stop{{0, 0xFFFF0000}, {1, 0xFF0000FF}}}
	if got := g.Interpolate(100, 5, BBox{}); got != 0xFF0000FF {
		t.Errorf("far beyond edge: got %#08x, want 0xFF0000FF (clamped)", got)
	}
}

func TestSampleStopsMultiStopInterpolation(t *testing.T) {
	stops := []Stop{{0, 0xFF000000}, {0.5, 0xFFFF0000}, {1, 0xFFFFFFFF}}
	if got := sampleStops(stops, 0.25); got != 0xFF800000 && got != 0xFF7F0000 && got != 0xFF810000 {
		t.Errorf("got %#08x, want approximately 0xFF800000 (midway between black and red)", got)
	}
	if got := sampleStops(stops, 0.5); got != 0xFFFF0000 {
		t.Errorf("at exact stop: got %#08x, want 0xFFFF0000", got)
	}
}

func TestPaintNoneIsTransparent(t *testing.T) {
	p := None()
	if !p.IsNone() {
		t.Error("None() should report IsNone")
	}
	if got := p.At(0, 0, BBox{}); got != 0 {
		t.Errorf("got %#08x, want 0", got)
	}
}

func TestPaintSolidIgnoresPosition(t *testing.T) {
	p := Solid(0xFF123456)
	if got := p.At(0, 0, BBox{}); got != 0xFF123456 {
		t.Errorf("got %#08x, want 0xFF123456", got)
	}
	if got := p.At(999, 999, BBox{}); got != 0xFF123456 {
		t.Errorf("got %#08x, want 0xFF123456", got)
	}
}
