package xform

import (
	"math"
	"testing"

	"seehuhn.de/go/geom/matrix"
)

const eps = 1e-9

func approxEq(a, b matrix.Matrix) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

func TestIdentityApply(t *testing.T) {
	x, y := Apply(Identity, 3.5, -2.25)
	if x != 3.5 || y != -2.25 {
		t.Errorf("got (%v,%v), want (3.5,-2.25)", x, y)
	}
}

func TestThenAssociative(t *testing.T) {
	a := Translate(1, 2)
	b := Rotate(0.7)
	c := Scale(2, 3)

	left := Then(Then(a, b), c)
	right := Then(a, Then(b, c))

	if !approxEq(left, right) {
		t.Errorf("Then is not associative: %v vs %v", left, right)
	}
}

func TestScaleThenTranslate(t *testing.T) {
	m := Then(Scale(2, 2), Translate(5, 7))
	x, y := Apply(m, 0, 0)
	if x != 5 || y != 7 {
		t.Errorf("got (%v,%v), want (5,7)", x, y)
	}
}

func TestViewBoxFitNonUniformStretch(t *testing.T) {
	// A 10x10 viewBox into a 10x1 viewport stretches y by 0.1, not the
	// uniform min(1, 0.1) a literal preserveAspectRatio reading would use.
	m := ViewBoxFit(0, 0, 10, 10, 10, 1)
	x, y := Apply(m, 10, 10)
	if math.Abs(x-10) > eps {
		t.Errorf("x: got %v, want 10", x)
	}
	if math.Abs(y-1) > eps {
		t.Errorf("y: got %v, want 1 (non-uniform fit)", y)
	}
}

func TestViewBoxFitDegenerate(t *testing.T) {
	if m := ViewBoxFit(0, 0, 0, 10, 5, 5); m != Identity {
		t.Errorf("zero-width viewBox should fall back to identity, got %v", m)
	}
}

func TestParseTransformAttrComposesLeftToRight(t *testing.T) {
	m := ParseTransformAttr("translate(10,0) scale(2)")
	x, y := Apply(m, 1, 1)
	// translate first: (11,1), then scale by 2: (22,2)
	if math.Abs(x-22) > eps || math.Abs(y-2) > eps {
		t.Errorf("got (%v,%v), want (22,2)", x, y)
	}
}

func TestParseTransformAttrSkipsMalformed(t *testing.T) {
	m := ParseTransformAttr("bogus(1,2,3) translate(4,5)")
	x, y := Apply(m, 0, 0)
	if x != 4 || y != 5 {
		t.Errorf("malformed function should be skipped, not abort parsing: got (%v,%v)", x, y)
	}
}

func TestGetScale(t *testing.T) {
	sx, sy := GetScale(Scale(2, 3))
	if math.Abs(sx-2) > eps || math.Abs(sy-3) > eps {
		t.Errorf("got (%v,%v), want (2,3)", sx, sy)
	}
}
