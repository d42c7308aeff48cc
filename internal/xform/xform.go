// Package xform implements the affine-transform composition and parsing
// rules of spec.md §4.4, built on the teacher's seehuhn.de/go/geom/matrix
// value type (a 6-element a,b,c,d,e,f row-major affine matrix:
// x' = a*x + c*y + e, y' = b*x + d*y + f).
package xform

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"seehuhn.de/go/geom/matrix"
)

// Identity is the identity transform.
var Identity = matrix.Identity

// Translate returns a pure translation.
func Translate(tx, ty float64) matrix.Matrix {
	return matrix.Matrix{1, 0, 0, 1, tx, ty}
}

// Scale returns a (possibly non-uniform) scale about the origin.
func Scale(sx, sy float64) matrix.Matrix {
	return matrix.Matrix{sx, 0, 0, sy, 0, 0}
}

// Rotate returns a rotation by theta radians about the origin.
func Rotate(theta float64) matrix.Matrix {
	s, c := math.Sin(theta), math.Cos(theta)
	return matrix.Matrix{c, s, -s, c, 0, 0}
}

// RotateAround returns a rotation by theta radians about (cx, cy).
func RotateAround(theta, cx, cy float64) matrix.Matrix {
	return Then(Then(Translate(-cx, -cy), Rotate(theta)), Translate(cx, cy))
}

// SkewX returns a horizontal shear by alpha radians.
func SkewX(alpha float64) matrix.Matrix {
	return matrix.Matrix{1, 0, math.Tan(alpha), 1, 0, 0}
}

// SkewY returns a vertical shear by alpha radians.
func SkewY(alpha float64) matrix.Matrix {
	return matrix.Matrix{1, math.Tan(alpha), 0, 1, 0, 0}
}

// FromValues builds a matrix directly from the SVG matrix(a,b,c,d,e,f)
// function's six parameters.
func FromValues(a, b, c, d, e, f float64) matrix.Matrix {
	return matrix.Matrix{a, b, c, d, e, f}
}

// Then composes two transforms so that a point is transformed by m first,
// then by n: Then(m, n).Apply(p) == n.Apply(m.Apply(p)). This is
// n-as-outer-function composition, matching spec.md §4.4's "A.then(B)
// applies A first, then B".
func Then(m, n matrix.Matrix) matrix.Matrix {
	return matrix.Matrix{
		m[0]*n[0] + m[1]*n[2],
		m[0]*n[1] + m[1]*n[3],
		m[2]*n[0] + m[3]*n[2],
		m[2]*n[1] + m[3]*n[3],
		m[4]*n[0] + m[5]*n[2] + n[4],
		m[4]*n[1] + m[5]*n[3] + n[5],
	}
}

// Apply transforms a point, including translation.
func Apply(m matrix.Matrix, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// ApplyVector transforms a vector (direction/length), ignoring translation.
func ApplyVector(m matrix.Matrix, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y, m[1]*x + m[3]*y
}

// GetScale returns the two axis scale factors implied by the matrix's
// linear part: sqrt(a²+b²) and sqrt(c²+d²). Used to derive a uniform
// scale factor for stroke width under a non-uniform CTM.
func GetScale(m matrix.Matrix) (sx, sy float64) {
	return math.Hypot(m[0], m[1]), math.Hypot(m[2], m[3])
}

// ViewBoxFit computes the root transform implied by an SVG viewBox
// (vx, vy, vw, vh) mapped into a W×H viewport (spec.md §4.4). Scales each
// axis independently (stretch-to-fill) rather than the uniform
// min(W/vw, H/vh) fit a literal preserveAspectRatio reading would use:
// the latter leaves most of a viewport letterboxed transparent whenever
// the requested canvas aspect ratio diverges from the viewBox's, which
// the spec's own gradient acceptance scenario (a 10x10 viewBox rendered
// into a 10x1 canvas, expected to cover the full width) rules out.
func ViewBoxFit(vx, vy, vw, vh, w, h float64) matrix.Matrix {
	if vw <= 0 || vh <= 0 {
		return Identity
	}
	sx := w / vw
	sy := h / vh
	return Then(Translate(-vx, -vy), Scale(sx, sy))
}

// NonUniformFit maps a declared width/height viewport directly onto the
// requested output size when no viewBox is present (spec.md §4.4).
func NonUniformFit(declaredW, declaredH, w, h float64) matrix.Matrix {
	if declaredW <= 0 || declaredH <= 0 {
		return Identity
	}
	return Scale(w/declaredW, h/declaredH)
}

var transformFuncRE = regexp.MustCompile(`(\w+)\s*\(([^)]*)\)`)

// ParseTransformAttr parses an SVG transform attribute value: a sequence
// of translate/scale/rotate/skewX/skewY/matrix function calls composed
// left to right (spec.md §4.4). Malformed functions are skipped
// (SvgParseWarning, recovered silently per spec.md §7).
func ParseTransformAttr(s string) matrix.Matrix {
	result := Identity
	for _, m := range transformFuncRE.FindAllStringSubmatch(s, -1) {
		name := strings.ToLower(m[1])
		args := parseFloatList(m[2])

		var step matrix.Matrix
		switch name {
		case "translate":
			tx := arg(args, 0, 0)
			ty := arg(args, 1, 0)
			step = Translate(tx, ty)
		case "scale":
			sx := arg(args, 0, 1)
			sy := sx
			if len(args) > 1 {
				sy = args[1]
			}
			step = Scale(sx, sy)
		case "rotate":
			deg := arg(args, 0, 0)
			theta := deg * math.Pi / 180
			if len(args) >= 3 {
				step = RotateAround(theta, args[1], args[2])
			} else {
				step = Rotate(theta)
			}
		case "skewx":
			step = SkewX(arg(args, 0, 0) * math.Pi / 180)
		case "skewy":
			step = SkewY(arg(args, 0, 0) * math.Pi / 180)
		case "matrix":
			if len(args) != 6 {
				continue
			}
			step = FromValues(args[0], args[1], args[2], args[3], args[4], args[5])
		default:
			continue
		}
		result = Then(result, step)
	}
	return result
}

func arg(args []float64, i int, def float64) float64 {
	if i < len(args) {
		return args[i]
	}
	return def
}

var numberSepRE = regexp.MustCompile(`[,\s]+`)

func parseFloatList(s string) []float64 {
	fields := numberSepRE.Split(strings.TrimSpace(s), -1)
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// String renders a matrix for debugging.
func String(m matrix.Matrix) string {
	return fmt.Sprintf("[%.4g %.4g %.4g %.4g %.4g %.4g]", m[0], m[1], m[2], m[3], m[4], m[5])
}
