// Package svgpath tokenizes the SVG path mini-language and converts
// elliptical arcs to cubic Béziers (spec.md §4.3). Flattening curves to
// line segments happens later, in internal/raster.
package svgpath

// Kind tags a Command's variant.
type Kind int

const (
	MoveTo Kind = iota
	LineTo
	CubicTo
	QuadTo
	ArcTo
	Close
)

// Command is one tokenized, already-absolute path command (spec.md §3
// "Path command"). Coordinates are resolved to absolute user-space
// values during tokenization — callers never see a relative command.
type Command struct {
	Kind Kind

	// MoveTo / LineTo endpoint, or Arc/Cubic/Quad final endpoint.
	X, Y float64

	// CubicTo control points.
	C1X, C1Y, C2X, C2Y float64

	// QuadTo control point.
	CX, CY float64

	// ArcTo parameters (endpoint is X,Y above).
	RX, RY, XRot   float64
	LargeArc, Sweep bool
}
