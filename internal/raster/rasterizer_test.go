package raster

import (
	"math"
	"testing"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

func rectanglePath(x0, y0, x1, y1 float64) *path.Data {
	d := &path.Data{}
	d = d.MoveTo(vec.Vec2{X: x0, Y: y0})
	d = d.LineTo(vec.Vec2{X: x1, Y: y0})
	d = d.LineTo(vec.Vec2{X: x1, Y: y1})
	d = d.LineTo(vec.Vec2{X: x0, Y: y1})
	d = d.Close()
	return d
}

// TestFillRectangleFullyCoversInterior is spec.md §8 invariant 7: filling
// an axis-aligned rectangle with full opacity leaves every pixel strictly
// inside covered and every pixel strictly outside untouched.
func TestFillRectangleFullyCoversInterior(t *testing.T) {
	const w, h = 10, 10
	r := New(rect.Rect{LLx: 0, LLy: 0, URx: w, URy: h})
	p := rectanglePath(2, 2, 8, 8)

	coverage := make([]float32, w*h)
	r.Fill(p, NonZero, func(y, xMin int, cov []float32) {
		if y < 0 || y >= h {
			return
		}
		for i, c := range cov {
			x := xMin + i
			if x >= 0 && x < w {
				coverage[y*w+x] = c
			}
		}
	})

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			inside := x >= 3 && x <= 6 && y >= 3 && y <= 6
			c := coverage[y*w+x]
			if inside && c < 0.999 {
				t.Errorf("interior pixel (%d,%d): coverage %v, want ~1", x, y, c)
			}
			outside := x < 2 || x > 7 || y < 2 || y > 7
			if outside && c > 0.001 {
				t.Errorf("exterior pixel (%d,%d): coverage %v, want 0", x, y, c)
			}
		}
	}
}

// TestTriangleCoverage verifies exact coverage values for a right triangle
// whose hypotenuse is the line y = x/10 across a 10x1 strip: pixel X
// should have coverage (2X+1)/20.
func TestTriangleCoverage(t *testing.T) {
	d := &path.Data{}
	d = d.MoveTo(vec.Vec2{X: 0, Y: 0})
	d = d.LineTo(vec.Vec2{X: 10, Y: 0})
	d = d.LineTo(vec.Vec2{X: 10, Y: 1})
	d = d.Close()

	r := New(rect.Rect{LLx: 0, LLy: 0, URx: 10, URy: 1})
	coverage := make([]float32, 10)
	r.Fill(d, NonZero, func(y, xMin int, cov []float32) {
		if y == 0 {
			for i, c := range cov {
				coverage[xMin+i] = c
			}
		}
	})

	const epsilon = 1e-4
	for x := 0; x < 10; x++ {
		expected := float32(2*x+1) / 20.0
		if math.Abs(float64(coverage[x]-expected)) > epsilon {
			t.Errorf("pixel %d: expected coverage %.4f, got %.4f", x, expected, coverage[x])
		}
	}
}

func TestFillDegenerateZeroAreaDrawsNothing(t *testing.T) {
	r := New(rect.Rect{LLx: 0, LLy: 0, URx: 5, URy: 5})
	d := &path.Data{}
	d = d.MoveTo(vec.Vec2{X: 2, Y: 2})
	d = d.LineTo(vec.Vec2{X: 2, Y: 2})
	d = d.Close()

	called := false
	r.Fill(d, NonZero, func(y, xMin int, cov []float32) {
		for _, c := range cov {
			if c > 0 {
				called = true
			}
		}
	})
	if called {
		t.Error("zero-area path produced non-zero coverage")
	}
}

func TestStrokeProducesCoverageAlongLine(t *testing.T) {
	r := New(rect.Rect{LLx: 0, LLy: 0, URx: 10, URy: 10})
	d := &path.Data{}
	d = d.MoveTo(vec.Vec2{X: 1, Y: 5})
	d = d.LineTo(vec.Vec2{X: 9, Y: 5})

	var total float32
	r.Stroke(d, 2, func(y, xMin int, cov []float32) {
		for _, c := range cov {
			total += c
		}
	})
	if total <= 0 {
		t.Error("stroking a line produced no coverage")
	}
}
